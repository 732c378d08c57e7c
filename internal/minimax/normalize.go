package minimax

import (
	"encoding/json"
	"strconv"

	"github.com/zvonline/contracts-service/internal/models"
)

// У внешнего API нет единой схемы: объект организации встречается на разных
// уровнях вложенности, а имена полей адреса и налогового номера менялись от
// версии к версии. Нормализация — это таблицы упорядоченных путей-алиасов
// (данные, не код): для каждого целевого поля берётся первое присутствующее
// непустое значение. Новый вариант схемы — новая строка в таблице.

// organisationPaths — где внутри записи искать сам объект организации.
var organisationPaths = [][]string{
	{"Organisation"},
	{"organisation"},
	{"OrganisationInfo"},
	{"OrganisationData"},
	{"Data", "Organisation"},
	{"Data"},
	{"data", "Organisation"},
	{"data"},
}

// addressPaths — где искать объект адреса; сначала внутри организации,
// затем на уровне исходной записи.
var (
	organisationAddressPaths = [][]string{
		{"Address"},
		{"RegisteredAddress"},
		{"RegisteredOfficeAddress"},
		{"BusinessAddress"},
		{"HeadquartersAddress"},
	}

	recordAddressPaths = [][]string{
		{"OrganisationAddress"},
		{"Address"},
		{"Data", "Address"},
	}
)

// Алиасы полей по историческим версиям API.
var (
	streetAliases     = []string{"Street", "StreetAndNumber", "StreetName", "AddressLine1", "Line1", "Address", "Street1", "Address1"}
	postalCodeAliases = []string{"PostalCode", "Zip", "PostCode", "PostNumber", "ZipCode"}
	cityAliases       = []string{"City", "Town", "CityName", "Place"}
	countryAliases    = []string{"Country", "CountryCode", "CountryName"}
	taxNumberAliases  = []string{"TaxNumber", "VatNumber", "RegistrationNumber", "OIB", "Oib", "TaxID", "TaxId", "IdentificationNumber"}
)

// normalizeOrganisation приводит разнородную запись внешнего API к
// канонической форме. Никогда не возвращает ошибку: отсутствующие данные
// дают пустые значения/заглушки, пригодность записи в целом оценивает
// резолвер, а не нормализация.
func normalizeOrganisation(record map[string]any) models.Organisation {
	organisation := firstMap(record, organisationPaths)
	if organisation == nil {
		organisation = record
	}

	address := firstMap(organisation, organisationAddressPaths)
	if address == nil {
		address = firstMap(record, recordAddressPaths)
	}

	name := firstScalar(organisation, []string{"Name"})
	if name == "" {
		name = models.UnknownOrganisationName
	}

	return models.Organisation{
		ID:        normalizeID(record, organisation),
		Name:      name,
		TaxNumber: firstScalar(organisation, taxNumberAliases),
		Address: models.Address{
			Street:     firstScalar(address, streetAliases),
			PostalCode: firstScalar(address, postalCodeAliases),
			City:       firstScalar(address, cityAliases),
			Country:    firstScalar(address, countryAliases),
		},
	}
}

// normalizeID приводит идентификатор к строковой форме, перебирая
// исторические расположения. Пустая строка — идентификатор отсутствует.
func normalizeID(record, organisation map[string]any) string {
	for _, candidate := range []any{
		organisation["ID"],
		record["OrganisationID"],
		organisation["OrganisationID"],
		record["ID"],
	} {
		if s := scalarString(candidate); s != "" {
			return s
		}
	}

	return ""
}

// firstMap возвращает первый объект по упорядоченному списку путей.
func firstMap(root map[string]any, paths [][]string) map[string]any {
	if root == nil {
		return nil
	}

	for _, path := range paths {
		current := any(root)

		for _, key := range path {
			m, ok := current.(map[string]any)
			if !ok {
				current = nil
				break
			}

			current = m[key]
		}

		if m, ok := current.(map[string]any); ok {
			return m
		}
	}

	return nil
}

// firstScalar возвращает первое присутствующее скалярное значение по списку
// алиасов, приведённое к строке.
func firstScalar(m map[string]any, aliases []string) string {
	if m == nil {
		return ""
	}

	for _, alias := range aliases {
		if s := scalarString(m[alias]); s != "" {
			return s
		}
	}

	return ""
}

// scalarString приводит скаляр к строке. Числа форматируются без
// экспоненты; вложенные объекты и массивы значением не считаются.
func scalarString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}
