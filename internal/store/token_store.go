package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"CertManagerPlatform/internal/config"
)

// TokenInfo содержит информацию о токенах
//
// RefreshToken - клиентский аналог refresh-куки браузера: бэкенд
// принимает его на /auth/refresh для выпуска нового access токена.
type TokenInfo struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
}

// TokenStore определяет интерфейс хранилища токенов
type TokenStore interface {
	SaveTokens(tokenInfo *TokenInfo) error
	LoadTokens() (*TokenInfo, error)
	HasTokens() bool
	ClearTokens() error
	GetAccessToken() string
}

// FileTokenStore хранит токены в файле
type FileTokenStore struct {
	tokensPath string
}

// NewFileTokenStore создает новое файловое хранилище токенов
func NewFileTokenStore() (*FileTokenStore, error) {
	dir, err := config.HomeDir()
	if err != nil {
		return nil, err
	}

	// Создаем директорию если она не существует
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	return &FileTokenStore{
		tokensPath: filepath.Join(dir, "tokens"),
	}, nil
}

// SaveTokens сохраняет токены в файл
func (ts *FileTokenStore) SaveTokens(tokenInfo *TokenInfo) error {
	// Сериализуем токены
	data, err := json.MarshalIndent(tokenInfo, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации токенов: %w", err)
	}

	// Сохраняем в файл с правами только для владельца
	if err := os.WriteFile(ts.tokensPath, data, 0600); err != nil {
		return fmt.Errorf("ошибка сохранения токенов: %w", err)
	}

	return nil
}

// LoadTokens загружает токены из файла
func (ts *FileTokenStore) LoadTokens() (*TokenInfo, error) {
	// Проверяем существует ли файл
	if _, err := os.Stat(ts.tokensPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("файл токенов не найден")
	}

	// Читаем данные
	data, err := os.ReadFile(ts.tokensPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла токенов: %w", err)
	}

	// Десериализуем токены
	var tokenInfo TokenInfo
	if err := json.Unmarshal(data, &tokenInfo); err != nil {
		return nil, fmt.Errorf("ошибка десериализации токенов: %w", err)
	}

	return &tokenInfo, nil
}

// HasTokens проверяет наличие токенов
func (ts *FileTokenStore) HasTokens() bool {
	_, err := os.Stat(ts.tokensPath)
	return !os.IsNotExist(err)
}

// ClearTokens удаляет файл токенов
func (ts *FileTokenStore) ClearTokens() error {
	if err := os.Remove(ts.tokensPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла токенов: %w", err)
	}
	return nil
}

// GetAccessToken возвращает access токен
func (ts *FileTokenStore) GetAccessToken() string {
	if tokenInfo, err := ts.LoadTokens(); err == nil {
		return tokenInfo.AccessToken
	}
	return ""
}

// NewTokenStore создает хранилище токенов согласно конфигурации
func NewTokenStore(cfg *config.Config) (TokenStore, error) {
	switch cfg.Store.Backend {
	case "redis":
		return NewRedisTokenStore(cfg.Store.RedisAddr)
	default:
		return NewFileTokenStore()
	}
}
