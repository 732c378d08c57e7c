// minimax — клиент внешнего API Minimax: аутентификация с кэшем токена,
// загрузка списка организаций текущего пользователя и деталей организации
// с перебором кандидатных эндпойнтов.
//
// Живой API содержит пересекающиеся и частично устаревшие эндпойнты с
// разной полнотой данных, поэтому запрос деталей — это упорядоченный
// список стратегий с типизированным исходом попытки, а не один URL.
package minimax

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zvonline/contracts-service/internal/config"
	"github.com/zvonline/contracts-service/internal/models"
	"github.com/zvonline/contracts-service/pkg/log"
)

var (
	// ErrAuthentication — провайдер отклонил обмен учётных данных либо не
	// вернул access_token. Транспорт: HTTP 502.
	ErrAuthentication = errors.New("minimax authentication failed")

	// ErrOrganisationDetails — ни один кандидатный detail-эндпойнт не дал
	// пригодных данных. Транспорт: HTTP 502 (в составе ошибки резолвера).
	ErrOrganisationDetails = errors.New("organisation details unavailable")
)

// Attempt — диагностическая запись об одной попытке detail-эндпойнта.
type Attempt struct {
	Path    string `json:"path"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
}

// DetailsError агрегирует исходы всех попыток запросить детали организации.
type DetailsError struct {
	ID       string
	Attempts []Attempt
}

func (e *DetailsError) Error() string {
	return fmt.Sprintf("organisation %s: details unavailable after %d attempts", e.ID, len(e.Attempts))
}

func (e *DetailsError) Unwrap() error { return ErrOrganisationDetails }

// statusError — не-2xx ответ апстрима; сохраняет статус для классификации
// попытки (5xx обрывает перебор кандидатов, 4xx — мягкий отказ).
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

// Client — HTTP-клиент Minimax. Безопасен для конкурентного использования.
type Client struct {
	cfg  config.MinimaxConfig
	http *http.Client

	// Кэш bearer-токена процесса. Обновление single-flight: конкурентные
	// вызовы с протухшим токеном ждут один общий запрос аутентификации.
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	group     singleflight.Group

	now func() time.Time
}

// New создаёт клиент Minimax. Если httpClient == nil, используется клиент
// с таймаутом из конфигурации.
func New(cfg config.MinimaxConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}

		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		cfg:  cfg,
		http: httpClient,
		now:  time.Now,
	}
}

// Organisations возвращает организации текущего пользователя.
// Ответ эндпойнта — табличная форма {Rows: [...]}; строки, у которых после
// нормализации нет идентификатора, отбрасываются (сводный эндпойнт
// периодически возвращает строки-заглушки).
func (c *Client) Organisations(ctx context.Context) ([]models.Organisation, error) {
	const op = "minimax.Organisations"

	record, _, err := c.getJSON(ctx, "/api/currentuser/orgs", outcomeList)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, _ := record["Rows"].([]any)
	orgs := make([]models.Organisation, 0, len(rows))

	for _, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			continue
		}

		org := normalizeOrganisation(m)
		if org.ID == "" {
			continue
		}

		orgs = append(orgs, org)
	}

	return orgs, nil
}

// detailCandidates — кандидатные detail-эндпойнты в порядке приоритета:
// основной путь, затем альтернативные sub-resource пути, оставшиеся от
// прежних версий API.
func detailCandidates(id string) []string {
	esc := url.PathEscape(id)

	return []string{
		"/api/orgs/" + esc,
		"/api/orgs/" + esc + "/details",
		"/api/currentuser/orgs/" + esc,
	}
}

// OrganisationDetails запрашивает детали организации, перебирая кандидатные
// эндпойнты по порядку.
//
// Исход каждой попытки:
//   - полезные данные (любое содержательное поле) — немедленный успех;
//   - запись только с идентификатором — придерживается как запасной вариант;
//   - 5xx — жёсткий отказ, перебор прекращается (бэкенд нездоров, дальнейшие
//     попытки бессмысленны);
//   - прочие ошибки (404, таймаут, битый JSON) — мягкий отказ, следующий
//     кандидат.
//
// Исчерпание кандидатов — *DetailsError со списком попыток.
func (c *Client) OrganisationDetails(ctx context.Context, id string) (models.Organisation, error) {
	const op = "minimax.OrganisationDetails"

	if id == "" {
		return models.Organisation{}, fmt.Errorf("%s: empty organisation id", op)
	}

	lg := log.From(ctx)

	var (
		attempts []Attempt
		fallback *models.Organisation
	)

	for _, path := range detailCandidates(id) {
		record, status, err := c.getJSON(ctx, path, outcomeDetails)
		if err != nil {
			attempts = append(attempts, Attempt{Path: path, Status: status, Message: err.Error()})

			if status >= http.StatusInternalServerError {
				lg.Warn("minimax_details_hard_fail",
					slog.String("op", op),
					slog.String("path", path),
					slog.Int("status", status),
				)
				break
			}

			continue
		}

		org := normalizeOrganisation(unwrapRows(record))

		if org.HasData() {
			return org, nil
		}

		if org.ID != "" && fallback == nil {
			fallback = &org
		}

		attempts = append(attempts, Attempt{Path: path, Status: status, Message: "no usable organisation data"})
	}

	if fallback != nil {
		return *fallback, nil
	}

	return models.Organisation{}, fmt.Errorf("%s: %w", op, &DetailsError{ID: id, Attempts: attempts})
}

// unwrapRows разворачивает табличную форму {Rows: [record, ...]} в первую
// запись; остальные формы возвращаются как есть.
func unwrapRows(record map[string]any) map[string]any {
	rows, ok := record["Rows"].([]any)
	if !ok || len(rows) == 0 {
		return record
	}

	if first, ok := rows[0].(map[string]any); ok {
		return first
	}

	return record
}

// getJSON выполняет аутентифицированный GET и декодирует тело в map.
// Числа сохраняются как json.Number, чтобы идентификаторы не теряли
// точность и не превращались в экспоненциальную запись.
func (c *Client) getJSON(ctx context.Context, path string, kind string) (map[string]any, int, error) {
	token, err := c.Token(ctx)
	if err != nil {
		observeRequest(kind, "auth_error")
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("new_request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		observeRequest(kind, "transport_error")
		return nil, 0, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		observeRequest(kind, "http_error")
		return nil, resp.StatusCode, &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		observeRequest(kind, "decode_error")
		return nil, resp.StatusCode, fmt.Errorf("decode: %w", err)
	}

	observeRequest(kind, "ok")
	return record, resp.StatusCode, nil
}
