package client

import (
	"context"
	"strings"
	"time"

	"CertManagerPlatform/pkg/logger"
)

// AlertModelsClient представляет клиент для работы с моделями оповещений
type AlertModelsClient struct {
	api    *APIClient
	logger logger.Logger
}

// NewAlertModelsClient создает новый клиент моделей оповещений
func NewAlertModelsClient(api *APIClient, log logger.Logger) *AlertModelsClient {
	return &AlertModelsClient{
		api:    api,
		logger: log,
	}
}

// AlertModel представляет именованное правило оповещений
//
// Subject и Body - шаблоны с подстановочными токенами; клиент
// передает их как есть, подстановку выполняет бэкенд при отправке.
type AlertModel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DaysBefore  int       `json:"daysBefore"`
	DaysAfter   *int      `json:"daysAfter,omitempty"`
	RepeatEvery *int      `json:"repeatEvery,omitempty"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AlertModelCreateRequest представляет запрос на создание модели
type AlertModelCreateRequest struct {
	Name        string `json:"name"`
	DaysBefore  int    `json:"daysBefore"`
	DaysAfter   *int   `json:"daysAfter,omitempty"`
	RepeatEvery *int   `json:"repeatEvery,omitempty"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// AlertModelUpdateRequest представляет запрос на изменение модели
type AlertModelUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	DaysBefore  *int    `json:"daysBefore,omitempty"`
	DaysAfter   *int    `json:"daysAfter,omitempty"`
	RepeatEvery *int    `json:"repeatEvery,omitempty"`
	Subject     *string `json:"subject,omitempty"`
	Body        *string `json:"body,omitempty"`
}

// List возвращает все модели оповещений
func (c *AlertModelsClient) List(ctx context.Context) ([]AlertModel, error) {
	var models []AlertModel
	if err := c.api.Get(ctx, "/alert-models", &models); err != nil {
		return nil, err
	}
	return models, nil
}

// Create создает новую модель оповещений
func (c *AlertModelsClient) Create(ctx context.Context, req *AlertModelCreateRequest) (*AlertModel, error) {
	var model AlertModel
	if err := c.api.Post(ctx, "/alert-models", req, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// Update изменяет существующую модель оповещений
func (c *AlertModelsClient) Update(ctx context.Context, id string, req *AlertModelUpdateRequest) (*AlertModel, error) {
	var model AlertModel
	if err := c.api.Put(ctx, "/alert-models/"+id, req, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// Delete удаляет модель оповещений
func (c *AlertModelsClient) Delete(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/alert-models/"+id)
}

// FilterAlertModels применяет клиентский фильтр по подстроке имени
func FilterAlertModels(models []AlertModel, nameSubstr string) []AlertModel {
	if nameSubstr == "" {
		return models
	}

	filtered := make([]AlertModel, 0, len(models))
	for _, model := range models {
		if strings.Contains(strings.ToLower(model.Name), strings.ToLower(nameSubstr)) {
			filtered = append(filtered, model)
		}
	}
	return filtered
}
