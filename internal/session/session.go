package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"CertManagerPlatform/internal/client"
	"CertManagerPlatform/internal/store"
	"CertManagerPlatform/pkg/errors"
	"CertManagerPlatform/pkg/logger"
)

// State представляет состояние сессии
type State int

const (
	// Unauthenticated - токена нет
	Unauthenticated State = iota
	// Authenticating - выполняется вход или обновление токена
	Authenticating
	// Authenticated - валидный токен получен и прикрепляется к запросам
	Authenticated
)

// String возвращает строковое представление состояния
func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Snapshot представляет снимок состояния сессии (только для чтения)
type Snapshot struct {
	State    State
	Identity *Identity
	Token    string
}

// AuthAPI определяет сетевые операции аутентификации, используемые менеджером
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*client.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*client.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

// Manager владеет состоянием сессии
//
// Это единственный писатель токена и личности; все остальные
// компоненты получают их только на чтение через Snapshot или Token.
type Manager struct {
	mu           sync.RWMutex
	state        State
	identity     *Identity
	token        string
	refreshToken string
	expiresAt    time.Time

	api    AuthAPI
	store  store.TokenStore
	logger logger.Logger

	// refreshGroup схлопывает конкурентные обновления: на N
	// одновременных вызовов приходится ровно один сетевой запрос,
	// результат которого получают все ожидающие
	refreshGroup singleflight.Group

	// refreshThreshold - за сколько до истечения токен считается
	// подлежащим обновлению при старте
	refreshThreshold time.Duration
}

// NewManager создает новый менеджер сессии
func NewManager(api AuthAPI, tokenStore store.TokenStore, log logger.Logger, refreshThreshold time.Duration) *Manager {
	return &Manager{
		state:            Unauthenticated,
		api:              api,
		store:            tokenStore,
		logger:           log,
		refreshThreshold: refreshThreshold,
	}
}

// Current возвращает снимок текущего состояния сессии
func (m *Manager) Current() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		State:    m.state,
		Identity: m.identity,
		Token:    m.token,
	}
}

// Token возвращает текущий access токен (источник для HTTP клиента)
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Allowed проверяет, разрешен ли доступ текущей сессии.
// Единственная точка принятия решения для всех закрытых команд.
func (m *Manager) Allowed(required ...Role) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hasSession := m.state == Authenticated && m.identity != nil
	var role Role
	if hasSession {
		role = m.identity.Role
	}
	return RoleAllowed(role, hasSession, required)
}

// Login выполняет вход по email и паролю
//
// При любой причине отказа пользователь получает одно и то же
// сообщение: клиент не различает "неверный email" и "неверный пароль".
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.setState(Authenticating)

	pair, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.clear()
		m.logger.Debug("вход отклонен", logger.Error(err))
		return errors.New(errors.ErrUnauthorized, "неверный email или пароль")
	}

	if err := m.adopt(pair); err != nil {
		return err
	}

	m.logger.Info("вход выполнен", logger.String("email", email))
	return nil
}

// Refresh обновляет access токен по сохраненному refresh токену
//
// Безопасен при конкурентных вызовах: пока сетевое обновление в
// полете, все новые вызовы ждут его результата и не создают новых
// сетевых запросов. Возвращает новый access токен либо ошибку,
// одну и ту же для всех ожидающих.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	result, err, _ := m.refreshGroup.Do("refresh", func() (interface{}, error) {
		return m.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (m *Manager) doRefresh(ctx context.Context) (string, error) {
	m.mu.RLock()
	refreshToken := m.refreshToken
	m.mu.RUnlock()

	// Память пуста - пробуем сохраненные токены (другой процесс CLI
	// мог обновить их раньше нас)
	if refreshToken == "" {
		if info, err := m.store.LoadTokens(); err == nil {
			refreshToken = info.RefreshToken
		}
	}

	if refreshToken == "" {
		m.clear()
		return "", errors.New(errors.ErrUnauthorized, "сессия отсутствует")
	}

	m.setState(Authenticating)

	pair, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		// Неудачное обновление завершает сессию
		m.clear()
		m.logger.Debug("обновление сессии отклонено", logger.Error(err))
		return "", errors.Wrap(err, errors.ErrUnauthorized, "сессия истекла")
	}

	if err := m.adopt(pair); err != nil {
		return "", err
	}

	m.logger.Debug("токен обновлен")
	return pair.AccessToken, nil
}

// Bootstrap выполняет тихое восстановление сессии при старте
//
// Делается не более одной попытки обновления; по ее завершении
// (успех или отказ) состояние окончательно определено и команды
// могут выполняться. Отсутствие сохраненной сессии не является
// ошибкой.
func (m *Manager) Bootstrap(ctx context.Context) error {
	info, err := m.store.LoadTokens()
	if err != nil {
		// Сохраненной сессии нет - сетевой вызов не нужен
		m.setState(Unauthenticated)
		return nil
	}

	// Токен еще жив и не на пороге истечения - принимаем без сети
	if info.AccessToken != "" && time.Until(info.ExpiresAt) > m.refreshThreshold {
		identity, expiresAt, decErr := DecodeToken(info.AccessToken)
		if decErr == nil {
			m.mu.Lock()
			m.state = Authenticated
			m.identity = identity
			m.token = info.AccessToken
			m.refreshToken = info.RefreshToken
			m.expiresAt = expiresAt
			m.mu.Unlock()
			return nil
		}
		// Невалидный сохраненный токен приравнивается к отсутствию
		// сессии и лечится обновлением ниже
	}

	m.mu.Lock()
	m.refreshToken = info.RefreshToken
	m.mu.Unlock()

	if _, err := m.Refresh(ctx); err != nil {
		// Попытка была ровно одна; пользователь идет на login
		return err
	}
	return nil
}

// Logout завершает сессию
//
// Локальное состояние очищается синхронно и безусловно; уведомление
// бэкенда - любезность, его отказ не мешает выходу. Токен снимается
// до очистки, иначе уведомление ушло бы без учетных данных и сессия
// на сервере осталась бы живой.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()

	m.clear()

	if err := m.api.Logout(ctx, token); err != nil {
		m.logger.Debug("бэкенд не подтвердил выход", logger.Error(err))
	}

	m.logger.Info("выход выполнен")
}

// adopt принимает пару токенов: декодирует личность, сохраняет в
// хранилище и переводит сессию в Authenticated
func (m *Manager) adopt(pair *client.TokenPair) error {
	identity, expiresAt, err := DecodeToken(pair.AccessToken)
	if err != nil {
		// Токен без обязательных claims - невалидная сессия, не сбой
		m.clear()
		m.logger.Warn("получен невалидный токен", logger.Error(err))
		return errors.Wrap(err, errors.ErrUnauthorized, "невалидный токен сессии")
	}

	if expiresAt.IsZero() && pair.ExpiresIn > 0 {
		expiresAt = time.Now().Add(time.Duration(pair.ExpiresIn) * time.Second)
	}

	m.mu.Lock()
	m.state = Authenticated
	m.identity = identity
	m.token = pair.AccessToken
	if pair.RefreshToken != "" {
		m.refreshToken = pair.RefreshToken
	}
	refreshToken := m.refreshToken
	m.expiresAt = expiresAt
	m.mu.Unlock()

	if err := m.store.SaveTokens(&store.TokenInfo{
		AccessToken:  pair.AccessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		Email:        identity.Email,
		Role:         string(identity.Role),
	}); err != nil {
		// Сессия в памяти валидна; несохраненный файл означает лишь,
		// что следующий запуск попросит вход заново
		m.logger.Warn("не удалось сохранить токены", logger.Error(err))
	}

	return nil
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// clear сбрасывает сессию в Unauthenticated и чистит хранилище
func (m *Manager) clear() {
	m.mu.Lock()
	m.state = Unauthenticated
	m.identity = nil
	m.token = ""
	m.refreshToken = ""
	m.expiresAt = time.Time{}
	m.mu.Unlock()

	if err := m.store.ClearTokens(); err != nil {
		m.logger.Debug("не удалось очистить хранилище токенов", logger.Error(err))
	}
}
