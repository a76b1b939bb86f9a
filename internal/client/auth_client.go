package client

import (
	"context"

	"CertManagerPlatform/pkg/logger"
)

// AuthClient представляет клиент эндпоинтов аутентификации
type AuthClient struct {
	api    *APIClient
	logger logger.Logger
}

// NewAuthClient создает новый клиент аутентификации
func NewAuthClient(api *APIClient, log logger.Logger) *AuthClient {
	return &AuthClient{
		api:    api,
		logger: log,
	}
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair представляет ответ эндпоинтов входа и обновления
//
// В браузере refresh-кука устанавливается сервером; CLI получает
// refresh токен в теле ответа и хранит его локально.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	ExpiresIn    int    `json:"expiresIn"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// refreshRequest представляет запрос на обновление токена
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// changePasswordRequest представляет запрос на смену пароля
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login выполняет вход по email и паролю
func (c *AuthClient) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var pair TokenPair
	err := c.api.Post(ctx, "/auth/login", &LoginRequest{Email: email, Password: password}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Refresh выпускает новый access токен по refresh токену
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	err := c.api.Post(ctx, "/auth/refresh", &refreshRequest{RefreshToken: refreshToken}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout уведомляет бэкенд о завершении сессии
//
// Токен передается явно: менеджер сессии очищает локальное состояние
// до уведомления, поэтому из источника токена его уже не получить.
func (c *AuthClient) Logout(ctx context.Context, accessToken string) error {
	return c.api.PostWithToken(ctx, "/auth/logout", accessToken, nil, nil)
}

// ChangePassword меняет пароль текущего пользователя
func (c *AuthClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.api.Post(ctx, "/auth/change-password", &changePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}, nil)
}
