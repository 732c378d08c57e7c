package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/zvonline/contracts-service/internal/docx"
	"github.com/zvonline/contracts-service/internal/models"
	"github.com/zvonline/contracts-service/pkg/log"
)

// Дефолты необязательных полей договора.
const (
	defaultCurrency     = "EUR"
	defaultWorkingHours = "Puno radno vrijeme"
)

// GeneratedContract — результат генерации: имя файла для выдачи и байты
// заполненного документа.
type GeneratedContract struct {
	Filename string
	Document []byte
}

// GenerateContract строит заполненный договор:
// валидация обязательных полей, резолюция работодателя, загрузка шаблона,
// привязка переменных и рендеринг.
func (s *Service) GenerateContract(ctx context.Context, req models.ContractRequest) (GeneratedContract, error) {
	const op = "service.GenerateContract"

	lg := log.From(ctx)

	if missing := req.MissingFields(); len(missing) > 0 {
		return GeneratedContract{}, fmt.Errorf("%s: %w", op, &ValidationError{Fields: missing})
	}

	org, err := s.OrganisationByID(ctx, req.EmployerID)
	if err != nil {
		return GeneratedContract{}, fmt.Errorf("%s: %w", op, err)
	}

	template, err := os.ReadFile(s.templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return GeneratedContract{}, fmt.Errorf("%s: %w", op, &docx.StructureError{
				Reason: "template file not found; set CONTRACT_TEMPLATE_PATH or deploy the template",
				Path:   s.templatePath,
			})
		}

		return GeneratedContract{}, fmt.Errorf("%s: read template: %w", op, err)
	}

	document, err := s.renderer.Render(template, templateVariables(org, req))
	if err != nil {
		return GeneratedContract{}, fmt.Errorf("%s: %w", op, err)
	}

	contractsGenerated.Inc()

	lg.Info("contract_generated",
		slog.String("op", op),
		slog.String("org_id", org.ID),
		slog.Int("bytes", len(document)),
	)

	return GeneratedContract{
		Filename: contractFilename(req.EmployeeName),
		Document: document,
	}, nil
}

// templateVariables связывает организацию и поля запроса в словарь
// плейсхолдеров: плоские ключи плюс эквивалентная точечная форма
// employer.* / employee.* / contract.*. Каждый необязательный ключ получает
// пустую строку, чтобы рендерер никогда не подставил литерал токена.
func templateVariables(org models.Organisation, req models.ContractRequest) map[string]string {
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	workingHours := req.WorkingHours
	if workingHours == "" {
		workingHours = defaultWorkingHours
	}

	fullAddress := org.Address.FullAddress()

	return map[string]string{
		"employer_name":       org.Name,
		"employer_tax_number": org.TaxNumber,
		"employer_address":    fullAddress,

		"employer.name":               org.Name,
		"employer.taxNumber":          org.TaxNumber,
		"employer.address.street":     org.Street,
		"employer.address.postalCode": org.PostalCode,
		"employer.address.city":       org.City,
		"employer.address.country":    org.Country,
		"employer.address.full":       fullAddress,

		"employee_name":    req.EmployeeName,
		"employee_address": req.EmployeeAddress,

		"employee.name":    req.EmployeeName,
		"employee.address": req.EmployeeAddress,

		"contract_type":    req.ContractType,
		"position":         req.Position,
		"salary":           req.Salary,
		"currency":         currency,
		"start_date":       req.StartDate,
		"end_date":         req.EndDate,
		"working_hours":    workingHours,
		"probation_period": req.ProbationPeriod,
		"notes":            req.Notes,

		"contract.type":            req.ContractType,
		"contract.position":        req.Position,
		"contract.salary":          req.Salary,
		"contract.currency":        currency,
		"contract.startDate":       req.StartDate,
		"contract.endDate":         req.EndDate,
		"contract.workingHours":    workingHours,
		"contract.probationPeriod": req.ProbationPeriod,
		"contract.notes":           req.Notes,
	}
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9-]+`)

// contractFilename строит имя выдаваемого файла Ugovor_<имя>.docx:
// недопустимые символы заменяются на «_», часть с именем урезается до 60
// символов, пустой остаток заменяется дефолтом.
func contractFilename(employeeName string) string {
	part := filenameSanitizer.ReplaceAllString(employeeName, "_")
	if len(part) > 60 {
		part = part[:60]
	}

	if part == "" {
		part = "ugovor"
	}

	return "Ugovor_" + part + ".docx"
}
