package client

import (
	"context"
	"strings"
	"time"

	"CertManagerPlatform/pkg/logger"
)

// UsersClient представляет клиент для управления учетными записями
type UsersClient struct {
	api    *APIClient
	logger logger.Logger
}

// NewUsersClient создает новый клиент пользователей
func NewUsersClient(api *APIClient, log logger.Logger) *UsersClient {
	return &UsersClient{
		api:    api,
		logger: log,
	}
}

// ManagedUser представляет управляемую учетную запись
type ManagedUser struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	Role        string     `json:"role"`   // admin, editor, viewer
	Status      string     `json:"status"` // active, inactive, disabled
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// UserCreateRequest представляет запрос на создание учетной записи
type UserCreateRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Password    string `json:"password"`
}

// UserUpdateRequest представляет запрос на изменение учетной записи
type UserUpdateRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	Role        *string `json:"role,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// List возвращает все учетные записи
func (c *UsersClient) List(ctx context.Context) ([]ManagedUser, error) {
	var users []ManagedUser
	if err := c.api.Get(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create создает новую учетную запись
func (c *UsersClient) Create(ctx context.Context, req *UserCreateRequest) (*ManagedUser, error) {
	var user ManagedUser
	if err := c.api.Post(ctx, "/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update изменяет существующую учетную запись
func (c *UsersClient) Update(ctx context.Context, id string, req *UserUpdateRequest) (*ManagedUser, error) {
	var user ManagedUser
	if err := c.api.Put(ctx, "/users/"+id, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Disable отключает учетную запись (DELETE на бэкенде означает отключение)
func (c *UsersClient) Disable(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/users/"+id)
}

// ResetPassword запрашивает сброс пароля учетной записи
func (c *UsersClient) ResetPassword(ctx context.Context, id string) error {
	return c.api.Post(ctx, "/users/"+id+"/reset-password", nil, nil)
}

// FilterUsers применяет клиентские фильтры: подстрока email или
// имени, точное совпадение роли и статуса
func FilterUsers(users []ManagedUser, substr, role, status string) []ManagedUser {
	if substr == "" && role == "" && status == "" {
		return users
	}

	filtered := make([]ManagedUser, 0, len(users))
	for _, user := range users {
		if substr != "" {
			lower := strings.ToLower(substr)
			if !strings.Contains(strings.ToLower(user.Email), lower) &&
				!strings.Contains(strings.ToLower(user.DisplayName), lower) {
				continue
			}
		}
		if role != "" && user.Role != role {
			continue
		}
		if status != "" && user.Status != status {
			continue
		}
		filtered = append(filtered, user)
	}
	return filtered
}
