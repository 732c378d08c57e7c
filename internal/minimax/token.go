package minimax

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zvonline/contracts-service/pkg/log"
)

const (
	// tokenSkew — запас до фактического истечения токена, чтобы не уйти в
	// апстрим с токеном, который протухнет в полёте.
	tokenSkew = 30 * time.Second

	// defaultTokenTTL применяется, только когда провайдер вовсе не вернул
	// разбираемого expires_in.
	defaultTokenTTL = 5 * time.Minute
)

// Token возвращает действующий bearer-токен: кэшированный, пока
// now < expiresAt, иначе выполняет password grant против auth-эндпойнта.
//
// Обновление выполняется single-flight: при одновременном истечении токена
// у нескольких вызовов наружу уходит ровно один запрос аутентификации,
// остальные ждут его результат.
func (c *Client) Token(ctx context.Context) (string, error) {
	const op = "minimax.Token"

	c.mu.Lock()
	if c.token != "" && c.now().Before(c.expiresAt) {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	value, err, _ := c.group.Do("token", func() (any, error) {
		// Повторная проверка: пока вызов ждал своей очереди, токен мог
		// обновить предыдущий лидер группы.
		c.mu.Lock()
		if c.token != "" && c.now().Before(c.expiresAt) {
			token := c.token
			c.mu.Unlock()
			return token, nil
		}
		c.mu.Unlock()

		return c.authenticate(ctx)
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return value.(string), nil
}

// authenticate выполняет обмен учётных данных на access-токен и кэширует
// результат вместе с вычисленным сроком годности.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	const op = "minimax.authenticate"

	lg := log.From(ctx)

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("username", c.cfg.Username)
	form.Set("password", c.cfg.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%s: new_request: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		observeRequest(outcomeAuth, "transport_error")
		return "", fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		observeRequest(outcomeAuth, "http_error")

		lg.Warn("minimax_auth_rejected",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
		)

		return "", fmt.Errorf("%s: %w: status=%d body=%q", op, ErrAuthentication, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		AccessToken string      `json:"access_token"`
		ExpiresIn   json.Number `json:"expires_in"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		observeRequest(outcomeAuth, "decode_error")
		return "", fmt.Errorf("%s: decode: %w", op, err)
	}

	if payload.AccessToken == "" {
		observeRequest(outcomeAuth, "no_token")
		return "", fmt.Errorf("%s: %w: response has no access_token", op, ErrAuthentication)
	}

	// Запас вычитается из любого разобранного expires_in, даже если итог
	// уходит в прошлое: токен со сроком меньше запаса нельзя держать в
	// кэше, каждый вызов обязан аутентифицироваться заново.
	ttl := defaultTokenTTL
	if seconds, err := payload.ExpiresIn.Int64(); err == nil {
		ttl = time.Duration(seconds)*time.Second - tokenSkew
	}

	c.mu.Lock()
	c.token = payload.AccessToken
	c.expiresAt = c.now().Add(ttl)
	c.mu.Unlock()

	observeRequest(outcomeAuth, "ok")
	return payload.AccessToken, nil
}
