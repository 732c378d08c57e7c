package service

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zvonline/contracts-service/internal/docx"
	"github.com/zvonline/contracts-service/internal/models"
)

// validRequest — минимально заполненный корректный запрос.
func validRequest() models.ContractRequest {
	return models.ContractRequest{
		EmployerID:   "42",
		EmployeeName: "Iva Novak",
		ContractType: "na neodređeno",
		Position:     "Developer",
		Salary:       "2000",
		StartDate:    "2026-09-01",
	}
}

// singleOrgSource — источник с одной организацией в обоих эндпойнтах.
func singleOrgSource(org models.Organisation) *fakeSource {
	return &fakeSource{
		organisations: func(context.Context) ([]models.Organisation, error) {
			return []models.Organisation{org}, nil
		},
		details: func(context.Context, string) (models.Organisation, error) {
			return org, nil
		},
	}
}

// writeTemplate пишет docx-шаблон во временный файл и возвращает путь.
func writeTemplate(t *testing.T, documentXML string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for name, body := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types/>`,
		"word/document.xml":   documentXML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "Ugovor_template.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

// documentBody достаёт word/document.xml из сгенерированного документа.
func documentBody(t *testing.T, document []byte) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(document), int64(len(document)))
	require.NoError(t, err)

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}

		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(body)
	}

	t.Fatal("word/document.xml not found")
	return ""
}

func TestGenerateContract_MissingRequiredFields(t *testing.T) {
	t.Parallel()

	svc := New(singleOrgSource(models.Organisation{ID: "42", Name: "Tvrtka"}), docx.NewRenderer(), "unused")

	req := validRequest()
	req.Salary = ""

	_, err := svc.GenerateContract(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, []string{"salary"}, validationErr.Fields)
}

func TestGenerateContract_HappyPath(t *testing.T) {
	t.Parallel()

	org := models.Organisation{
		ID:        "42",
		Name:      "Tvrtka d.o.o.",
		TaxNumber: "12345678901",
		Address:   models.Address{Street: "Ilica 1", PostalCode: "10000", City: "Zagreb", Country: "HR"},
	}

	templatePath := writeTemplate(t,
		`<document><t>{{employer_name}} ({{employer_tax_number}}), {{employer_address}} / `+
			`{{employee_name}}, {{position}}, {{salary}} {{currency}}, {{working_hours}}, [{{notes}}]</t></document>`)

	svc := New(singleOrgSource(org), docx.NewRenderer(), templatePath)

	contract, err := svc.GenerateContract(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, "Ugovor_Iva_Novak.docx", contract.Filename)

	body := documentBody(t, contract.Document)
	require.Contains(t, body, "Tvrtka d.o.o. (12345678901), Ilica 1, 10000, Zagreb, HR")
	require.Contains(t, body, "Iva Novak, Developer, 2000 EUR, Puno radno vrijeme")
	// Незаполненный необязательный ключ даёт пустую строку, а не токен.
	require.Contains(t, body, "[]")
	require.NotContains(t, body, "{{")
}

func TestGenerateContract_TemplateFileMissing(t *testing.T) {
	t.Parallel()

	missingPath := filepath.Join(t.TempDir(), "nema.docx")
	svc := New(singleOrgSource(models.Organisation{ID: "42", Name: "Tvrtka"}), docx.NewRenderer(), missingPath)

	_, err := svc.GenerateContract(context.Background(), validRequest())
	require.ErrorIs(t, err, docx.ErrTemplateStructure)

	var structureErr *docx.StructureError
	require.ErrorAs(t, err, &structureErr)
	require.Equal(t, missingPath, structureErr.Path)
}

func TestGenerateContract_OrganisationErrorsPassThrough(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		organisations: func(context.Context) ([]models.Organisation, error) {
			return nil, nil
		},
		details: func(context.Context, string) (models.Organisation, error) {
			return models.Organisation{}, ErrOrganisationNotFound
		},
	}

	svc := New(src, docx.NewRenderer(), "unused")

	_, err := svc.GenerateContract(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrOrganisationNotFound)
}

func TestTemplateVariables_DefaultsAndNestedView(t *testing.T) {
	t.Parallel()

	org := models.Organisation{
		ID:      "42",
		Name:    "Tvrtka",
		Address: models.Address{City: "Zagreb"},
	}

	vars := templateVariables(org, validRequest())

	// Дефолты необязательных полей.
	require.Equal(t, "EUR", vars["currency"])
	require.Equal(t, "Puno radno vrijeme", vars["working_hours"])

	// Пустые строки вместо отсутствующих значений.
	require.Equal(t, "", vars["end_date"])
	require.Equal(t, "", vars["probation_period"])
	require.Equal(t, "", vars["notes"])
	require.Equal(t, "", vars["employer_tax_number"])

	// Точечная форма эквивалентна плоской.
	require.Equal(t, vars["employer_name"], vars["employer.name"])
	require.Equal(t, vars["employer_address"], vars["employer.address.full"])
	require.Equal(t, vars["contract_type"], vars["contract.type"])
	require.Equal(t, "Zagreb", vars["employer.address.city"])
}

func TestContractFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		employee string
		want     string
	}{
		{"plain", "Iva Novak", "Ugovor_Iva_Novak.docx"},
		{"keeps_hyphen", "Ana-Marija", "Ugovor_Ana-Marija.docx"},
		{"path_separators", "../../etc/passwd", "Ugovor__etc_passwd.docx"},
		{"collapses_runs", "a  %%  b", "Ugovor_a_b.docx"},
		{"truncates", strings.Repeat("x", 100), "Ugovor_" + strings.Repeat("x", 60) + ".docx"},
		{"empty_fallback", "", "Ugovor_ugovor.docx"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, contractFilename(tc.employee))
		})
	}
}
