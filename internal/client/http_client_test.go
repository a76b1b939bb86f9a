package client_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CertManagerPlatform/internal/client"
	"CertManagerPlatform/internal/config"
	"CertManagerPlatform/internal/session"
	"CertManagerPlatform/internal/store"
	"CertManagerPlatform/pkg/errors"
	"CertManagerPlatform/pkg/logger"
)

// testToken собирает декодируемый access токен
func testToken(role string) string {
	header, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload, _ := json.Marshal(map[string]interface{}{
		"role":  role,
		"email": "admin@example.com",
		"sub":   "user-1",
		"exp":   float64(time.Now().Add(time.Hour).Unix()),
	})
	return base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString([]byte("sig"))
}

// writeAPIError пишет ошибку в формате бэкенда
func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}

// testEnv собирает клиент и менеджер сессии поверх тестового сервера
type testEnv struct {
	api     *client.APIClient
	auth    *client.AuthClient
	certs   *client.CertificatesClient
	manager *session.Manager
	store   store.TokenStore
}

func newTestEnv(t *testing.T, serverURL string) *testEnv {
	t.Helper()
	t.Setenv("CERTMANAGER_HOME", t.TempDir())

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = serverURL

	log := logger.NewNop()
	tokenStore, err := store.NewFileTokenStore()
	require.NoError(t, err)

	api := client.NewAPIClient(cfg, log)
	auth := client.NewAuthClient(api, log)
	manager := session.NewManager(auth, tokenStore, log, 5*time.Minute)

	api.SetTokenSource(manager.Token)
	api.SetRefreshFunc(manager.Refresh)

	return &testEnv{
		api:     api,
		auth:    auth,
		certs:   client.NewCertificatesClient(api, log),
		manager: manager,
		store:   tokenStore,
	}
}

// seedRefreshToken сохраняет refresh токен как после прежнего входа
func (e *testEnv) seedRefreshToken(t *testing.T, refreshToken string) {
	t.Helper()
	require.NoError(t, e.store.SaveTokens(&store.TokenInfo{
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))
}

// TestConcurrentRequestsShareOneRefresh проверяет сквозной сценарий:
// N конкурентных запросов получают 401, обновление выполняется один
// раз, и каждый запрос повторяется с новым токеном до успеха
func TestConcurrentRequestsShareOneRefresh(t *testing.T) {
	const n = 8

	goodToken := testToken("admin")
	var refreshCalls int32
	var mu sync.Mutex
	validTokens := map[string]bool{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			// Имитируем медленный бэкенд, чтобы все запросы успели
			// встать в очередь за одним обновлением
			time.Sleep(100 * time.Millisecond)
			mu.Lock()
			validTokens[goodToken] = true
			mu.Unlock()
			json.NewEncoder(w).Encode(client.TokenPair{
				AccessToken:  goodToken,
				ExpiresIn:    3600,
				RefreshToken: "refresh-2",
			})
		case "/api/certificates":
			mu.Lock()
			ok := validTokens[authToken(r)]
			mu.Unlock()
			if !ok {
				writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "токен истек")
				return
			}
			json.NewEncoder(w).Encode([]client.Certificate{{ID: "cert-1", Name: "api.example.com", Status: "active"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	env := newTestEnv(t, server.URL)
	env.seedRefreshToken(t, "refresh-1")

	var wg sync.WaitGroup
	results := make([][]client.Certificate, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = env.certs.List(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls), "все запросы должны разделить одно обновление")
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i], "request %d", i)
		require.Len(t, results[i], 1, "request %d", i)
		assert.Equal(t, "cert-1", results[i][0].ID)
	}
}

func authToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) {
		return header[len(prefix):]
	}
	return ""
}

// TestRequestRetriedAtMostOnce проверяет, что запрос повторяется не
// более одного раза: если и повтор получает 401, ошибка отдается
// без нового обновления
func TestRequestRetriedAtMostOnce(t *testing.T) {
	var certRequests, refreshCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			json.NewEncoder(w).Encode(client.TokenPair{AccessToken: testToken("admin"), ExpiresIn: 3600})
		case "/api/certificates":
			atomic.AddInt32(&certRequests, 1)
			// 401 всегда, даже со свежим токеном
			writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "доступ отозван")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	env := newTestEnv(t, server.URL)
	env.seedRefreshToken(t, "refresh-1")

	_, err := env.certs.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))

	assert.Equal(t, int32(2), atomic.LoadInt32(&certRequests), "исходный запрос и ровно один повтор")
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
}

// TestAuthEndpointNotIntercepted проверяет, что 401 от эндпоинта
// аутентификации не запускает обновление
func TestAuthEndpointNotIntercepted(t *testing.T) {
	var refreshCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		case "/api/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid refresh token")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	env := newTestEnv(t, server.URL)

	_, err := env.auth.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls), "отклоненный вход не должен запускать обновление")
}

// TestRefreshFailurePropagatesOriginalError проверяет, что при
// неудачном обновлении вызывающий получает исходный 401 без повтора
func TestRefreshFailurePropagatesOriginalError(t *testing.T) {
	var certRequests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "refresh rejected")
		case "/api/certificates":
			atomic.AddInt32(&certRequests, 1)
			writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "токен истек")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	env := newTestEnv(t, server.URL)
	env.seedRefreshToken(t, "refresh-1")

	_, err := env.certs.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&certRequests), "после неудачного обновления повтора быть не должно")

	// Сессия завершена, хранилище очищено
	assert.Equal(t, session.Unauthenticated, env.manager.Current().State)
	assert.False(t, env.store.HasTokens())
}

// TestErrorEnvelopeParsing проверяет разбор ошибок бэкенда
func TestErrorEnvelopeParsing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "NOT_FOUND", "сертификат не найден")
	}))
	defer server.Close()

	env := newTestEnv(t, server.URL)

	_, err := env.certs.Update(context.Background(), "missing", &client.CertificateUpdateRequest{})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "сертификат не найден")
}

// TestErrorWithoutEnvelope проверяет деградацию при неожиданном теле
func TestErrorWithoutEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>Internal Server Error</html>"))
	}))
	defer server.Close()

	env := newTestEnv(t, server.URL)

	_, err := env.certs.List(context.Background())
	require.Error(t, err)

	var appErr *errors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrInternal, appErr.Code)
}

// TestMutationThenRefetch проверяет согласованность списка после
// изменения: клиент перечитывает список, а не модифицирует его локально
func TestMutationThenRefetch(t *testing.T) {
	var mu sync.Mutex
	certs := []client.Certificate{{ID: "cert-1", Name: "api.example.com", Status: "active"}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/certificates" && r.Method == http.MethodPost:
			var req client.CertificateCreateRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			mu.Lock()
			created := client.Certificate{ID: "cert-2", Name: req.Name, OwnerEmail: req.OwnerEmail, Status: "active"}
			certs = append(certs, created)
			mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(created)
		case r.URL.Path == "/api/certificates" && r.Method == http.MethodGet:
			mu.Lock()
			defer mu.Unlock()
			json.NewEncoder(w).Encode(certs)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	env := newTestEnv(t, server.URL)

	created, err := env.certs.Create(context.Background(), &client.CertificateCreateRequest{
		Name:       "db.example.com",
		OwnerEmail: "ops@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "cert-2", created.ID)

	list, err := env.certs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "db.example.com", list[1].Name)
}

// TestDeleteThenRefetch проверяет, что после удаления перечитанный
// список больше не содержит удаленную запись
func TestDeleteThenRefetch(t *testing.T) {
	var mu sync.Mutex
	certs := []client.Certificate{
		{ID: "cert-1", Name: "api.example.com", Status: "active"},
		{ID: "cert-2", Name: "db.example.com", Status: "active"},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/certificates/cert-1" && r.Method == http.MethodDelete:
			mu.Lock()
			kept := certs[:0]
			for _, c := range certs {
				if c.ID != "cert-1" {
					kept = append(kept, c)
				}
			}
			certs = kept
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/api/certificates" && r.Method == http.MethodGet:
			mu.Lock()
			defer mu.Unlock()
			json.NewEncoder(w).Encode(certs)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	env := newTestEnv(t, server.URL)

	require.NoError(t, env.certs.Delete(context.Background(), "cert-1"))

	list, err := env.certs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "cert-2", list[0].ID)
}

// TestSecretsAreWriteOnly проверяет направление передачи секретов:
// запрос несет значения, ответ только признак установленности
func TestSecretsAreWriteOnly(t *testing.T) {
	var receivedSecrets map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req client.ChannelCreateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		receivedSecrets = req.Secrets

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(client.Channel{
			ID:      "ch-1",
			Name:    req.Name,
			Type:    req.Type,
			Enabled: req.Enabled,
			Secrets: []client.SecretStatus{{Name: "password", IsSet: true}},
		})
	}))
	defer server.Close()

	env := newTestEnv(t, server.URL)
	channels := client.NewChannelsClient(env.api, logger.NewNop())

	ch, err := channels.Create(context.Background(), &client.ChannelCreateRequest{
		Name:    "ops-smtp",
		Type:    "smtp",
		Enabled: true,
		Secrets: map[string]string{"password": "s3cret"},
	})
	require.NoError(t, err)

	assert.Equal(t, "s3cret", receivedSecrets["password"], "запрос несет значение секрета")
	require.Len(t, ch.Secrets, 1)
	assert.True(t, ch.Secrets[0].IsSet, "ответ несет только признак установленности")
}

// TestFilterCertificates проверяет клиентскую фильтрацию списка
func TestFilterCertificates(t *testing.T) {
	certs := []client.Certificate{
		{ID: "1", Name: "api.example.com", Status: "active"},
		{ID: "2", Name: "db.example.com", Status: "expired"},
		{ID: "3", Name: "cache.other.io", Status: "active"},
	}

	byName := client.FilterCertificates(certs, "example", "")
	assert.Len(t, byName, 2)

	byStatus := client.FilterCertificates(certs, "", "active")
	assert.Len(t, byStatus, 2)

	both := client.FilterCertificates(certs, "example", "active")
	require.Len(t, both, 1)
	assert.Equal(t, "1", both[0].ID)

	all := client.FilterCertificates(certs, "", "")
	assert.Len(t, all, 3)
}

// TestFilterUsers проверяет фильтрацию учетных записей
func TestFilterUsers(t *testing.T) {
	users := []client.ManagedUser{
		{ID: "1", Email: "admin@example.com", DisplayName: "Главный админ", Role: "admin", Status: "active"},
		{ID: "2", Email: "viewer@example.com", DisplayName: "Наблюдатель", Role: "viewer", Status: "disabled"},
	}

	byQuery := client.FilterUsers(users, "админ", "", "")
	require.Len(t, byQuery, 1)
	assert.Equal(t, "1", byQuery[0].ID)

	byRole := client.FilterUsers(users, "", "viewer", "")
	require.Len(t, byRole, 1)
	assert.Equal(t, "2", byRole[0].ID)

	byStatus := client.FilterUsers(users, "", "", "disabled")
	require.Len(t, byStatus, 1)
	assert.Equal(t, "2", byStatus[0].ID)
}
