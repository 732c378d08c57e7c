package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildTemplate собирает минимальный docx-контейнер из частей.
func buildTemplate(t *testing.T, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for name, body := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// extractPart достаёт одну часть из собранного контейнера.
func extractPart(t *testing.T, document []byte, name string) []byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(document), int64(len(document)))
	require.NoError(t, err)

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}

		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		return body
	}

	t.Fatalf("part %s not found", name)
	return nil
}

const contentTypes = `<?xml version="1.0"?><Types/>`

func TestRender_SubstitutesPlaceholders(t *testing.T) {
	t.Parallel()

	template := buildTemplate(t, map[string]string{
		"[Content_Types].xml": contentTypes,
		"word/document.xml":   `<document><t>{{employer_name}}, {{ salary }} {{currency}}</t></document>`,
	})

	r := NewRenderer()

	out, err := r.Render(template, map[string]string{
		"employer_name": "Tvrtka d.o.o.",
		"salary":        "2000",
		"currency":      "EUR",
	})
	require.NoError(t, err)

	body := string(extractPart(t, out, "word/document.xml"))
	require.Equal(t, `<document><t>Tvrtka d.o.o., 2000 EUR</t></document>`, body)
}

func TestRender_EscapesXMLAndRoundTrips(t *testing.T) {
	t.Parallel()

	template := buildTemplate(t, map[string]string{
		"[Content_Types].xml": contentTypes,
		"word/document.xml":   `<document><t>{{notes}}</t></document>`,
	})

	const hostile = `Aneks & <uvjeti> "posebni" 'dodatak' > 5`

	r := NewRenderer()

	out, err := r.Render(template, map[string]string{"notes": hostile})
	require.NoError(t, err)

	body := extractPart(t, out, "word/document.xml")
	require.NotContains(t, string(body), `<uvjeti>`)

	// Экранированное значение восстанавливается при разборе XML.
	var doc struct {
		T string `xml:"t"`
	}
	require.NoError(t, xml.Unmarshal(body, &doc))
	require.Equal(t, hostile, doc.T)
}

func TestRender_MissingKeyYieldsEmptyString(t *testing.T) {
	t.Parallel()

	template := buildTemplate(t, map[string]string{
		"[Content_Types].xml": contentTypes,
		"word/document.xml":   `<document><t>[{{nepostojeci_kljuc}}]</t></document>`,
	})

	r := NewRenderer()

	out, err := r.Render(template, map[string]string{})
	require.NoError(t, err)

	body := string(extractPart(t, out, "word/document.xml"))
	require.Equal(t, `<document><t>[]</t></document>`, body)
	require.NotContains(t, body, "{{")
}

func TestRender_Idempotent(t *testing.T) {
	t.Parallel()

	template := buildTemplate(t, map[string]string{
		"[Content_Types].xml": contentTypes,
		"word/document.xml":   `<document><t>{{employee_name}}</t></document>`,
		"word/styles.xml":     `<styles/>`,
	})

	vars := map[string]string{"employee_name": "Iva Novak"}

	r := NewRenderer()

	first, err := r.Render(template, vars)
	require.NoError(t, err)

	second, err := r.Render(template, vars)
	require.NoError(t, err)

	// Одинаковые шаблон и переменные дают байт-идентичный документ.
	require.Equal(t, first, second)
}

func TestRender_CopiesOtherPartsVerbatim(t *testing.T) {
	t.Parallel()

	binary := string([]byte{0x00, 0x01, 0xFF, 0xFE, 0x7A})

	template := buildTemplate(t, map[string]string{
		"[Content_Types].xml":  contentTypes,
		"word/document.xml":    `<document><t>{{position}}</t></document>`,
		"word/media/image.bin": binary,
	})

	r := NewRenderer()

	out, err := r.Render(template, map[string]string{"position": "Developer"})
	require.NoError(t, err)

	require.Equal(t, []byte(binary), extractPart(t, out, "word/media/image.bin"))
}

func TestRender_SubstitutesHeadersAndFooters(t *testing.T) {
	t.Parallel()

	template := buildTemplate(t, map[string]string{
		"[Content_Types].xml": contentTypes,
		"word/document.xml":   `<document/>`,
		"word/header1.xml":    `<hdr>{{employer_name}}</hdr>`,
		"word/footer1.xml":    `<ftr>{{employer_tax_number}}</ftr>`,
	})

	r := NewRenderer()

	out, err := r.Render(template, map[string]string{
		"employer_name":       "Tvrtka",
		"employer_tax_number": "111",
	})
	require.NoError(t, err)

	require.Equal(t, `<hdr>Tvrtka</hdr>`, string(extractPart(t, out, "word/header1.xml")))
	require.Equal(t, `<ftr>111</ftr>`, string(extractPart(t, out, "word/footer1.xml")))
}

func TestRender_NotAContainer(t *testing.T) {
	t.Parallel()

	r := NewRenderer()

	_, err := r.Render([]byte("nije zip"), nil)
	require.ErrorIs(t, err, ErrTemplateStructure)

	var structureErr *StructureError
	require.ErrorAs(t, err, &structureErr)
	require.NotEmpty(t, structureErr.Reason)
}

func TestRender_MissingDocumentPart(t *testing.T) {
	t.Parallel()

	template := buildTemplate(t, map[string]string{
		"[Content_Types].xml": contentTypes,
	})

	r := NewRenderer()

	_, err := r.Render(template, nil)
	require.ErrorIs(t, err, ErrTemplateStructure)
}

func TestRender_BrokenPlaceholderReported(t *testing.T) {
	t.Parallel()

	template := buildTemplate(t, map[string]string{
		"[Content_Types].xml": contentTypes,
		"word/document.xml":   `<document><t>{{employer_name}} i {{polomljeni</t></document>`,
	})

	r := NewRenderer()

	_, err := r.Render(template, map[string]string{"employer_name": "Tvrtka"})
	require.ErrorIs(t, err, ErrTemplateRender)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	require.NotEmpty(t, renderErr.Placeholders)
	require.Contains(t, renderErr.Placeholders[0], "{{polomljeni")
}

func TestRender_StrayClosingDelimiterReported(t *testing.T) {
	t.Parallel()

	template := buildTemplate(t, map[string]string{
		"[Content_Types].xml": contentTypes,
		"word/document.xml":   `<document><t>visak}} ovdje</t></document>`,
	})

	r := NewRenderer()

	_, err := r.Render(template, nil)
	require.ErrorIs(t, err, ErrTemplateRender)
}
