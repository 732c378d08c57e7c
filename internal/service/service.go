// service содержит бизнес-логику contracts-service: резолюцию канонической
// записи организации из двух источников внешнего API и генерацию
// заполненного договора из docx-шаблона.
//
// Основные аспекты:
//   - Service не хранит состояние запроса; экземпляр безопасен для
//     конкурентного использования при потокобезопасном источнике организаций.
//   - Ошибки возвращаются наверх и маппятся HTTP-слоем на статусы
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zvonline/contracts-service/internal/models"
)

var (
	// ErrOrganisationNotFound — организации нет ни в деталях, ни в сводном
	// списке. Транспорт: HTTP 404.
	ErrOrganisationNotFound = errors.New("organisation not found")

	// ErrOrganisationFetch — оба источника данных об организации отказали.
	// Транспорт: HTTP 502, с причинами обоих отказов в details.
	ErrOrganisationFetch = errors.New("organisation fetch failed")

	// ErrValidation — в запросе не заполнены обязательные поля договора.
	// Транспорт: HTTP 400, со списком полей в details.
	ErrValidation = errors.New("missing required fields")
)

// ValidationError перечисляет незаполненные обязательные поля.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %v", e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// FetchError — одновременный отказ обоих источников с сохранением причин.
type FetchError struct {
	DetailsErr error
	SummaryErr error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("organisation fetch failed: details: %v; summary: %v", e.DetailsErr, e.SummaryErr)
}

func (e *FetchError) Unwrap() error { return ErrOrganisationFetch }

// OrganisationSource — контракт клиента внешнего API.
type OrganisationSource interface {
	// Organisations возвращает сводный список организаций пользователя.
	Organisations(ctx context.Context) ([]models.Organisation, error)
	// OrganisationDetails возвращает детальную запись организации.
	OrganisationDetails(ctx context.Context, id string) (models.Organisation, error)
}

// TemplateRenderer — контракт рендерера docx-шаблона.
type TemplateRenderer interface {
	Render(template []byte, vars map[string]string) ([]byte, error)
}

// Service описывает бизнес-логику contracts-service.
type Service struct {
	orgs         OrganisationSource
	renderer     TemplateRenderer
	templatePath string
}

// New создаёт новый экземпляр Service.
func New(orgs OrganisationSource, renderer TemplateRenderer, templatePath string) *Service {
	return &Service{
		orgs:         orgs,
		renderer:     renderer,
		templatePath: templatePath,
	}
}
