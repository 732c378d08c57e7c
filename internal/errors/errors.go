// errors стандартизирует ответы об ошибках HTTP-слоя contracts-service.
// На вход он принимает доменную ошибку (сервис/клиент Minimax/рендерер),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое человекочитаемое message (никогда не пустое);
//   - машиночитаемые details там, где они есть (список незаполненных
//     полей, попытки detail-эндпойнтов, проблемные плейсхолдеры).
//
// Источник истинности по маппингу: комментарии к переменным ошибок в
// пакетах service, minimax и docx.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zvonline/contracts-service/internal/docx"
	"github.com/zvonline/contracts-service/internal/minimax"
	"github.com/zvonline/contracts-service/internal/service"
)

// ErrInvalidArgument — локальная ошибка разбора входных данных HTTP-слоя.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError несёт причину отказа разбора входных данных;
// причина попадает в message ответа (она формируется нами и безопасна).
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// APIError — единый формат ошибки для фронта.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
// Details — диагностика для конкретных классов ошибок.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный
// ответ. err == nil — программная ошибка вызова: возвращаем 500/internal,
// чтобы не замаскировать баг ответом «200 OK».
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return internalError()
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, response("invalid_argument",
			"missing required fields",
			map[string]any{"missing": validationErr.Fields},
		)
	}

	var invalidErr *InvalidArgumentError
	if errors.As(err, &invalidErr) {
		return http.StatusBadRequest, response("invalid_argument", invalidErr.Reason, nil)
	}

	if errors.Is(err, ErrInvalidArgument) {
		return http.StatusBadRequest, response("invalid_argument", "invalid argument", nil)
	}

	if errors.Is(err, service.ErrOrganisationNotFound) {
		return http.StatusNotFound, response("not_found", "organisation not found", nil)
	}

	var fetchErr *service.FetchError
	if errors.As(err, &fetchErr) {
		details := map[string]any{
			"details_error": fetchErr.DetailsErr.Error(),
			"summary_error": fetchErr.SummaryErr.Error(),
		}

		var detailsErr *minimax.DetailsError
		if errors.As(fetchErr.DetailsErr, &detailsErr) {
			details["attempts"] = detailsErr.Attempts
		}

		return http.StatusBadGateway, response("bad_gateway",
			"organisation data is unavailable", details)
	}

	var detailsErr *minimax.DetailsError
	if errors.As(err, &detailsErr) {
		return http.StatusBadGateway, response("bad_gateway",
			"organisation details are unavailable",
			map[string]any{"attempts": detailsErr.Attempts},
		)
	}

	if errors.Is(err, minimax.ErrAuthentication) {
		return http.StatusBadGateway, response("bad_gateway", "upstream authentication failed", nil)
	}

	var structureErr *docx.StructureError
	if errors.As(err, &structureErr) {
		details := map[string]any{"reason": structureErr.Reason}
		if structureErr.Path != "" {
			details["templatePath"] = structureErr.Path
		}

		return http.StatusInternalServerError, response("template_invalid",
			"contract template is missing or corrupted", details)
	}

	var renderErr *docx.RenderError
	if errors.As(err, &renderErr) {
		details := map[string]any{}
		if len(renderErr.Placeholders) > 0 {
			details["placeholders"] = renderErr.Placeholders
		}
		if renderErr.Reason != "" {
			details["reason"] = renderErr.Reason
		}

		return http.StatusUnprocessableEntity, response("template_render",
			"contract template could not be filled; check placeholder tags", details)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, response("deadline_exceeded", "deadline exceeded", nil)
	}

	return internalError()
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func response(code, message string, details any) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: message, Details: details}}
}

func internalError() (int, ErrorResponse) {
	return http.StatusInternalServerError, response("internal", "internal error", nil)
}
