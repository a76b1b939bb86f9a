package client

import (
	"context"
	"strings"
	"time"

	"CertManagerPlatform/pkg/logger"
)

// ChannelsClient представляет клиент для работы с каналами уведомлений
type ChannelsClient struct {
	api    *APIClient
	logger logger.Logger
}

// NewChannelsClient создает новый клиент каналов
func NewChannelsClient(api *APIClient, log logger.Logger) *ChannelsClient {
	return &ChannelsClient{
		api:    api,
		logger: log,
	}
}

// SecretStatus описывает секретный параметр канала
//
// Значения секретов на клиент никогда не возвращаются: бэкенд
// сообщает только, установлен секрет или нет.
type SecretStatus struct {
	Name  string `json:"name"`
	IsSet bool   `json:"isSet"`
}

// Channel представляет настроенный канал уведомлений
type Channel struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      string            `json:"type"` // smtp, telegram, slack, googlechat
	Enabled   bool              `json:"enabled"`
	Params    map[string]string `json:"params"`
	Secrets   []SecretStatus    `json:"secrets"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ChannelCreateRequest представляет запрос на создание канала
//
// Secrets содержит устанавливаемые значения секретов; это
// единственное направление, в котором значения секретов передаются.
type ChannelCreateRequest struct {
	Name    string            `json:"name"`
	Type    string            `json:"type"`
	Enabled bool              `json:"enabled"`
	Params  map[string]string `json:"params,omitempty"`
	Secrets map[string]string `json:"secrets,omitempty"`
}

// ChannelUpdateRequest представляет запрос на изменение канала
type ChannelUpdateRequest struct {
	Name    *string           `json:"name,omitempty"`
	Enabled *bool             `json:"enabled,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Secrets map[string]string `json:"secrets,omitempty"`
}

// List возвращает все каналы
func (c *ChannelsClient) List(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	if err := c.api.Get(ctx, "/channels", &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// Create создает новый канал
func (c *ChannelsClient) Create(ctx context.Context, req *ChannelCreateRequest) (*Channel, error) {
	var channel Channel
	if err := c.api.Post(ctx, "/channels", req, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// Update изменяет существующий канал
func (c *ChannelsClient) Update(ctx context.Context, id string, req *ChannelUpdateRequest) (*Channel, error) {
	var channel Channel
	if err := c.api.Put(ctx, "/channels/"+id, req, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// Disable отключает канал (DELETE на бэкенде означает отключение)
func (c *ChannelsClient) Disable(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/channels/"+id)
}

// Test запрашивает тестовую отправку через канал
func (c *ChannelsClient) Test(ctx context.Context, id string) error {
	return c.api.Post(ctx, "/channels/"+id+"/test", nil, nil)
}

// FilterChannels применяет клиентские фильтры: подстрока имени,
// точное совпадение типа и признак включенности
func FilterChannels(channels []Channel, nameSubstr, channelType string, enabled *bool) []Channel {
	if nameSubstr == "" && channelType == "" && enabled == nil {
		return channels
	}

	filtered := make([]Channel, 0, len(channels))
	for _, channel := range channels {
		if nameSubstr != "" && !strings.Contains(strings.ToLower(channel.Name), strings.ToLower(nameSubstr)) {
			continue
		}
		if channelType != "" && channel.Type != channelType {
			continue
		}
		if enabled != nil && channel.Enabled != *enabled {
			continue
		}
		filtered = append(filtered, channel)
	}
	return filtered
}
