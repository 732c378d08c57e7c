// models содержит доменные сущности contracts-service.
// Эти типы используются слоями бизнес-логики, клиента Minimax и транспорта.
package models

import (
	"encoding/json"
	"strings"
)

// UnknownOrganisationName — дефолт для организаций без имени, чтобы UI
// никогда не показывал пустую строку.
const UnknownOrganisationName = "Nepoznato"

// Address — почтовый адрес организации.
//
// Пустая строка означает «значение неизвестно»: внешний API волен не
// возвращать любое из полей.
type Address struct {
	// Street - улица и номер.
	Street string `json:"street"`
	// PostalCode - почтовый индекс.
	PostalCode string `json:"postalCode"`
	// City - населённый пункт.
	City string `json:"city"`
	// Country - страна или код страны.
	Country string `json:"country"`
}

// FullAddress собирает полный адрес из непустых частей в фиксированном
// порядке улица, индекс, город, страна. Значение всегда производное:
// оно не хранится отдельно и не может разойтись с полями адреса.
func (a Address) FullAddress() string {
	parts := make([]string, 0, 4)

	for _, p := range []string{a.Street, a.PostalCode, a.City, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, ", ")
}

// Organisation — каноническая запись работодателя.
//
// Особенности:
//   - ID — строковая форма идентификатора источника (никогда не «сырое»
//     число и не вложенный объект); пустая строка = идентификатор неизвестен;
//   - Name при отсутствии данных равен UnknownOrganisationName;
//   - запись строится заново при каждом внешнем запросе и не мутируется:
//     обогащение данных из второго источника даёт новое слитое значение.
type Organisation struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TaxNumber string `json:"taxNumber"`
	Address
}

// HasData сообщает, несёт ли запись хоть одно содержательное поле помимо
// идентификатора. Имя-заглушка содержательным не считается.
func (o Organisation) HasData() bool {
	if o.Name != "" && o.Name != UnknownOrganisationName {
		return true
	}

	return o.TaxNumber != "" || o.Street != "" || o.PostalCode != "" || o.City != "" || o.Country != ""
}

// MarshalJSON добавляет в выдачу производное поле fullAddress.
// Сериализация через алиас гарантирует, что fullAddress пересчитывается
// из текущих полей адреса при каждой выдаче.
func (o Organisation) MarshalJSON() ([]byte, error) {
	type alias Organisation

	return json.Marshal(struct {
		alias
		FullAddress string `json:"fullAddress"`
	}{
		alias:       alias(o),
		FullAddress: o.Address.FullAddress(),
	})
}
