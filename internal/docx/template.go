// docx наполняет docx-шаблон договора значениями плейсхолдеров.
//
// Шаблон — zip-контейнер с XML-телом; плейсхолдеры вида {{key}} живут в
// word/document.xml и в колонтитулах. Рендеринг — прямая подстановка
// экранированных значений в сырой XML: контейнер пересобирается, при этом
// все части, кроме подставляемых, копируются байт-в-байт.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
)

var (
	// ErrTemplateStructure — файл шаблона отсутствует или не является
	// валидным docx-контейнером. Транспорт: HTTP 500 (чинится деплоем).
	ErrTemplateStructure = errors.New("contract template is invalid")

	// ErrTemplateRender — подстановка не удалась (испорченные плейсхолдеры).
	// Транспорт: HTTP 422 (чинится автором шаблона).
	ErrTemplateRender = errors.New("contract template render failed")
)

// StructureError — детали структурной ошибки шаблона.
type StructureError struct {
	Reason string
	// Path — путь к файлу шаблона, если ошибка обнаружена при загрузке.
	Path string
}

func (e *StructureError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("template structure: %s (path %s)", e.Reason, e.Path)
	}

	return "template structure: " + e.Reason
}

func (e *StructureError) Unwrap() error { return ErrTemplateStructure }

// RenderError — ошибка подстановки с именами проблемных плейсхолдеров,
// чтобы автор шаблона мог их исправить.
type RenderError struct {
	Placeholders []string
	Reason       string
}

func (e *RenderError) Error() string {
	if len(e.Placeholders) > 0 {
		return "template render: broken placeholders: " + strings.Join(e.Placeholders, ", ")
	}

	return "template render: " + e.Reason
}

func (e *RenderError) Unwrap() error { return ErrTemplateRender }

const documentPart = "word/document.xml"

// maxPartSize ограничивает размер распакованной части контейнера,
// защищаясь от decompression bomb.
const maxPartSize = 100 << 20

// placeholderPattern — токен {{key}} c необязательными пробелами внутри
// скобок; key допускает точечную нотацию (employer.address.full).
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_][A-Za-z0-9_.]*)\s*\}\}`)

// xmlEscaper экранирует пять XML-сущностей в подставляемых значениях,
// сохраняя валидность контейнера.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Renderer — рендерер docx-шаблонов через подстановку в сырой XML.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Render возвращает заполненный документ.
//
// Гарантии:
//   - каждое подставленное значение XML-экранировано;
//   - отсутствующий в vars ключ даёт пустую строку, а не литерал токена;
//   - части контейнера, не содержащие плейсхолдеров, копируются
//     байт-идентично (raw-копия без перепаковки);
//   - одинаковые вход и переменные дают байт-идентичный результат.
func (r *Renderer) Render(template []byte, vars map[string]string) ([]byte, error) {
	const op = "docx.Render"

	zr, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, &StructureError{Reason: "not a valid docx container: " + err.Error()})
	}

	if !hasPart(zr, documentPart) {
		return nil, fmt.Errorf("%s: %w", op, &StructureError{Reason: "container has no " + documentPart})
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)

	for _, part := range zr.File {
		if !isTemplatedPart(part.Name) {
			if err := copyRaw(zw, part); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}

			continue
		}

		body, err := readPart(part)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		filled, err := substitute(body, vars)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		header := &zip.FileHeader{
			Name:     part.Name,
			Method:   zip.Deflate,
			Modified: part.Modified,
		}

		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("%s: create %s: %w", op, part.Name, err)
		}

		if _, err := w.Write(filled); err != nil {
			return nil, fmt.Errorf("%s: write %s: %w", op, part.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%s: close container: %w", op, err)
	}

	return out.Bytes(), nil
}

// isTemplatedPart отбирает части, в которых допустимы плейсхолдеры:
// тело документа и колонтитулы.
func isTemplatedPart(name string) bool {
	if name == documentPart {
		return true
	}

	if path.Dir(name) != "word" || !strings.HasSuffix(name, ".xml") {
		return false
	}

	base := path.Base(name)
	return strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer")
}

func hasPart(zr *zip.Reader, name string) bool {
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}

	return false
}

func readPart(part *zip.File) ([]byte, error) {
	rc, err := part.Open()
	if err != nil {
		return nil, &StructureError{Reason: fmt.Sprintf("open %s: %v", part.Name, err)}
	}
	defer rc.Close()

	body, err := io.ReadAll(io.LimitReader(rc, maxPartSize+1))
	if err != nil {
		return nil, &StructureError{Reason: fmt.Sprintf("read %s: %v", part.Name, err)}
	}

	if len(body) > maxPartSize {
		return nil, &StructureError{Reason: fmt.Sprintf("part %s exceeds %d bytes", part.Name, maxPartSize)}
	}

	return body, nil
}

// copyRaw переносит часть контейнера без распаковки: заголовок и сжатый
// поток остаются байт-идентичными исходным.
func copyRaw(zw *zip.Writer, part *zip.File) error {
	rc, err := part.OpenRaw()
	if err != nil {
		return &StructureError{Reason: fmt.Sprintf("open raw %s: %v", part.Name, err)}
	}

	header := part.FileHeader
	w, err := zw.CreateRaw(&header)
	if err != nil {
		return fmt.Errorf("create raw %s: %w", part.Name, err)
	}

	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("copy raw %s: %w", part.Name, err)
	}

	return nil
}

// substitute заменяет токены на экранированные значения. Неизвестный ключ
// даёт пустую строку. Оставшиеся после замены обрывки {{ / }} означают
// испорченный плейсхолдер — их текст попадает в RenderError.
func substitute(body []byte, vars map[string]string) ([]byte, error) {
	filled := placeholderPattern.ReplaceAllFunc(body, func(token []byte) []byte {
		key := string(placeholderPattern.FindSubmatch(token)[1])
		return []byte(xmlEscaper.Replace(vars[key]))
	})

	if broken := brokenPlaceholders(filled); len(broken) > 0 {
		return nil, &RenderError{Placeholders: broken}
	}

	return filled, nil
}

// brokenPlaceholders собирает фрагменты с непарными или неразбираемыми
// ограничителями, оставшиеся после подстановки.
func brokenPlaceholders(body []byte) []string {
	var broken []string

	seen := map[string]struct{}{}
	add := func(fragment string) {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			fragment = "(prazan placeholder)"
		}

		if _, ok := seen[fragment]; ok {
			return
		}

		seen[fragment] = struct{}{}
		broken = append(broken, fragment)
	}

	rest := body
	for {
		i := bytes.Index(rest, []byte("{{"))
		j := bytes.Index(rest, []byte("}}"))

		switch {
		case i < 0 && j < 0:
			return broken
		case j >= 0 && (i < 0 || j < i):
			// Закрывающая пара без открывающей.
			start := j - 40
			if start < 0 {
				start = 0
			}

			add(string(rest[start : j+2]))
			rest = rest[j+2:]
		default:
			// Открывающая пара: токен не распознан паттерном.
			end := i + 2
			if k := bytes.Index(rest[i+2:], []byte("}}")); k >= 0 && k < 60 {
				end = i + 2 + k + 2
			} else if len(rest)-i > 40 {
				end = i + 40
			} else {
				end = len(rest)
			}

			add(string(rest[i:end]))
			rest = rest[end:]
		}
	}
}
