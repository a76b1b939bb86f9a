package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"CertManagerPlatform/internal/config"
	"CertManagerPlatform/pkg/errors"
	"CertManagerPlatform/pkg/logger"
	"CertManagerPlatform/pkg/metrics"
)

// APIClient представляет преднастроенный HTTP клиент бэкенда
//
// Все запросы идут на baseURL + /api, тело запроса буферизуется,
// чтобы запрос можно было повторить байт-в-байт после обновления
// токена.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
	metrics    *metrics.Metrics

	// tokenFunc возвращает текущий access токен (пустая строка - нет сессии)
	tokenFunc func() string

	// refreshFunc выполняет протокол обновления сессии и возвращает
	// новый токен; устанавливается менеджером сессии при инициализации
	refreshFunc func(ctx context.Context) (string, error)
}

// NewAPIClient создает новый клиент API
func NewAPIClient(cfg *config.Config, log logger.Logger) *APIClient {
	timeout := time.Duration(cfg.API.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &APIClient{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/") + "/api",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  log,
		metrics: metrics.NewMetrics("certmanager_cli"),
	}
}

// SetTokenSource устанавливает источник текущего access токена
func (c *APIClient) SetTokenSource(f func() string) {
	c.tokenFunc = f
}

// SetRefreshFunc устанавливает функцию обновления сессии
func (c *APIClient) SetRefreshFunc(f func(ctx context.Context) (string, error)) {
	c.refreshFunc = f
}

// BaseURL возвращает полный базовый адрес API
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Get выполняет GET запрос
func (c *APIClient) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out, false)
}

// Post выполняет POST запрос с JSON телом
func (c *APIClient) Post(ctx context.Context, path string, body, out interface{}) error {
	data, err := marshalBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, "", data, out, false)
}

// PostWithToken выполняет POST запрос с явно переданным bearer токеном
//
// Нужен для уведомления о выходе: локальная сессия к этому моменту
// уже очищена, и tokenFunc токен не вернет.
func (c *APIClient) PostWithToken(ctx context.Context, path, token string, body, out interface{}) error {
	data, err := marshalBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, token, data, out, false)
}

// Put выполняет PUT запрос с JSON телом
func (c *APIClient) Put(ctx context.Context, path string, body, out interface{}) error {
	data, err := marshalBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, "", data, out, false)
}

// Delete выполняет DELETE запрос
func (c *APIClient) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, nil, false)
}

// authPaths - эндпоинты аутентификации, для которых протокол
// обновления сессии никогда не запускается: иначе отклоненный
// login/refresh уходил бы в бесконечный цикл повторов.
var authPaths = map[string]bool{
	"/auth/login":   true,
	"/auth/refresh": true,
	"/auth/logout":  true,
}

func isAuthPath(path string) bool {
	return authPaths[path]
}

// do выполняет запрос с перехватом ответа: на 401 для обычного
// эндпоинта запускается протокол обновления сессии, и при успехе
// запрос повторяется ровно один раз с новым токеном. Уже повторенный
// запрос или запрос к эндпоинту аутентификации не повторяется.
func (c *APIClient) do(ctx context.Context, method, path, token string, body []byte, out interface{}, retried bool) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "ошибка формирования запроса")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Прикрепляем bearer токен: явно переданный или от источника сессии
	bearer := token
	if bearer == "" && c.tokenFunc != nil {
		bearer = c.tokenFunc()
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, path, 0, time.Since(start))
		return errors.Wrap(err, errors.ErrUnavailable, "ошибка соединения с бэкендом")
	}
	defer resp.Body.Close()

	c.metrics.ObserveRequest(method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, errors.ErrInternal, "ошибка разбора ответа")
		}
		return nil
	}

	apiErr := c.parseError(resp)

	if resp.StatusCode == http.StatusUnauthorized && !isAuthPath(path) && !retried && c.refreshFunc != nil {
		c.logger.Debug("получен 401, запускаем обновление сессии",
			logger.String("method", method),
			logger.String("path", path))

		newToken, refreshErr := c.refreshFunc(ctx)
		if refreshErr == nil && newToken != "" {
			// Повторяем идентичный запрос один раз с новым токеном
			return c.do(ctx, method, path, token, body, out, true)
		}

		// Обновление не удалось: отдаем исходную ошибку без повтора
	}

	return apiErr
}

// errorEnvelope - формат ошибки бэкенда
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

// parseError преобразует неуспешный ответ в кастомную ошибку
func (c *APIClient) parseError(resp *http.Response) *errors.Error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(data) > 0 {
		var envelope errorEnvelope
		if json.Unmarshal(data, &envelope) == nil && envelope.Error.Message != "" {
			appErr := errors.FromHTTPStatus(resp.StatusCode, envelope.Error.Message)
			if envelope.Error.Details != "" {
				appErr = appErr.WithDetails(envelope.Error.Details)
			}
			return appErr
		}
	}

	return errors.FromHTTPStatus(resp.StatusCode, "")
}

func marshalBody(body interface{}) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, fmt.Sprintf("ошибка сериализации запроса: %T", body))
	}
	return data, nil
}
