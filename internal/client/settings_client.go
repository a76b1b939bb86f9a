package client

import (
	"context"

	"CertManagerPlatform/pkg/logger"
)

// SettingsClient представляет клиент настроек приложения (только чтение)
type SettingsClient struct {
	api    *APIClient
	logger logger.Logger
}

// NewSettingsClient создает новый клиент настроек
func NewSettingsClient(api *APIClient, log logger.Logger) *SettingsClient {
	return &SettingsClient{
		api:    api,
		logger: log,
	}
}

// Settings представляет снимок настроек бэкенда
type Settings struct {
	AppName             string `json:"appName"`
	Version             string `json:"version"`
	DefaultAlertModelID string `json:"defaultAlertModelId,omitempty"`
	SchedulerEnabled    bool   `json:"schedulerEnabled"`
	SchedulerCron       string `json:"schedulerCron,omitempty"`
	AuditRetentionDays  int    `json:"auditRetentionDays"`
}

// Get возвращает текущие настройки
func (c *SettingsClient) Get(ctx context.Context) (*Settings, error) {
	var settings Settings
	if err := c.api.Get(ctx, "/settings", &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
