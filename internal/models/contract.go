package models

// ContractRequest — данные формы генерации трудового договора.
//
// Все значения приходят от клиента строками; валидация обязательных полей
// выполняется сервисом через MissingFields, отсутствие поля — ошибка
// валидации (HTTP 400), а не системная ошибка.
type ContractRequest struct {
	EmployerID      string `json:"employerId"`
	EmployeeName    string `json:"employeeName"`
	EmployeeAddress string `json:"employeeAddress"`
	ContractType    string `json:"contractType"`
	Position        string `json:"position"`
	Salary          string `json:"salary"`
	Currency        string `json:"currency"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	WorkingHours    string `json:"workingHours"`
	ProbationPeriod string `json:"probationPeriod"`
	Notes           string `json:"notes"`
}

// requiredContractFields — обязательный минимум для генерации договора.
// Порядок фиксирован: он попадает в сообщение об ошибке.
var requiredContractFields = []struct {
	name  string
	value func(ContractRequest) string
}{
	{"employerId", func(r ContractRequest) string { return r.EmployerID }},
	{"employeeName", func(r ContractRequest) string { return r.EmployeeName }},
	{"contractType", func(r ContractRequest) string { return r.ContractType }},
	{"position", func(r ContractRequest) string { return r.Position }},
	{"salary", func(r ContractRequest) string { return r.Salary }},
	{"startDate", func(r ContractRequest) string { return r.StartDate }},
}

// MissingFields возвращает имена обязательных полей, оставшихся пустыми.
func (r ContractRequest) MissingFields() []string {
	var missing []string

	for _, f := range requiredContractFields {
		if f.value(r) == "" {
			missing = append(missing, f.name)
		}
	}

	return missing
}
