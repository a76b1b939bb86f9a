package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"CertManagerPlatform/pkg/logger"
)

// AuditLogsClient представляет клиент журнала аудита (только чтение)
type AuditLogsClient struct {
	api    *APIClient
	logger logger.Logger
}

// NewAuditLogsClient создает новый клиент журнала аудита
func NewAuditLogsClient(api *APIClient, log logger.Logger) *AuditLogsClient {
	return &AuditLogsClient{
		api:    api,
		logger: log,
	}
}

// AuditLogEntry представляет неизменяемую запись журнала аудита
type AuditLogEntry struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	ActorEmail string          `json:"actorEmail"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	Origin     AuditOrigin     `json:"origin"`
}

// AuditOrigin содержит метаданные источника запроса
type AuditOrigin struct {
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
}

// AuditLogFilter представляет серверные параметры фильтрации журнала
type AuditLogFilter struct {
	Limit    int
	Actor    string
	Entity   string
	EntityID string
	Action   string
	From     string
	To       string
	Query    string
}

// List возвращает записи журнала аудита с учетом фильтра
func (c *AuditLogsClient) List(ctx context.Context, filter *AuditLogFilter) ([]AuditLogEntry, error) {
	path := "/audit-logs"
	if filter != nil {
		if query := filter.encode(); query != "" {
			path += "?" + query
		}
	}

	var entries []AuditLogEntry
	if err := c.api.Get(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (f *AuditLogFilter) encode() string {
	values := url.Values{}
	if f.Limit > 0 {
		values.Set("limit", fmt.Sprintf("%d", f.Limit))
	}
	if f.Actor != "" {
		values.Set("actor", f.Actor)
	}
	if f.Entity != "" {
		values.Set("entity", f.Entity)
	}
	if f.EntityID != "" {
		values.Set("entity_id", f.EntityID)
	}
	if f.Action != "" {
		values.Set("action", f.Action)
	}
	if f.From != "" {
		values.Set("from", f.From)
	}
	if f.To != "" {
		values.Set("to", f.To)
	}
	if f.Query != "" {
		values.Set("q", f.Query)
	}
	return values.Encode()
}
