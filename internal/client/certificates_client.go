package client

import (
	"context"
	"strings"
	"time"

	"CertManagerPlatform/pkg/logger"
)

// CertificatesClient представляет клиент для работы с сертификатами
type CertificatesClient struct {
	api    *APIClient
	logger logger.Logger
}

// NewCertificatesClient создает новый клиент сертификатов
func NewCertificatesClient(api *APIClient, log logger.Logger) *CertificatesClient {
	return &CertificatesClient{
		api:    api,
		logger: log,
	}
}

// Certificate представляет зарегистрированный сертификат
type Certificate struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OwnerEmail   string    `json:"ownerEmail"`
	IssuedAt     time.Time `json:"issuedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Status       string    `json:"status"` // active, expired, revoked
	AlertModelID *string   `json:"alertModelId,omitempty"`
	Note         string    `json:"note,omitempty"`
	ChannelIDs   []string  `json:"channelIds"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CertificateCreateRequest представляет запрос на регистрацию сертификата
type CertificateCreateRequest struct {
	Name         string    `json:"name"`
	OwnerEmail   string    `json:"ownerEmail"`
	IssuedAt     time.Time `json:"issuedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	AlertModelID *string   `json:"alertModelId,omitempty"`
	Note         string    `json:"note,omitempty"`
	ChannelIDs   []string  `json:"channelIds,omitempty"`
}

// CertificateUpdateRequest представляет запрос на изменение сертификата
type CertificateUpdateRequest struct {
	Name         *string    `json:"name,omitempty"`
	OwnerEmail   *string    `json:"ownerEmail,omitempty"`
	IssuedAt     *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	Status       *string    `json:"status,omitempty"`
	AlertModelID *string    `json:"alertModelId,omitempty"`
	Note         *string    `json:"note,omitempty"`
	ChannelIDs   []string   `json:"channelIds,omitempty"`
}

// List возвращает все сертификаты
func (c *CertificatesClient) List(ctx context.Context) ([]Certificate, error) {
	var certs []Certificate
	if err := c.api.Get(ctx, "/certificates", &certs); err != nil {
		return nil, err
	}
	return certs, nil
}

// Create регистрирует новый сертификат
func (c *CertificatesClient) Create(ctx context.Context, req *CertificateCreateRequest) (*Certificate, error) {
	var cert Certificate
	if err := c.api.Post(ctx, "/certificates", req, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

// Update изменяет существующий сертификат
func (c *CertificatesClient) Update(ctx context.Context, id string, req *CertificateUpdateRequest) (*Certificate, error) {
	var cert Certificate
	if err := c.api.Put(ctx, "/certificates/"+id, req, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

// Delete удаляет сертификат
func (c *CertificatesClient) Delete(ctx context.Context, id string) error {
	return c.api.Delete(ctx, "/certificates/"+id)
}

// TestNotification запрашивает отправку тестового уведомления по сертификату
func (c *CertificatesClient) TestNotification(ctx context.Context, id string) error {
	return c.api.Post(ctx, "/certificates/"+id+"/test-notification", nil, nil)
}

// FilterCertificates применяет клиентские фильтры к списку:
// подстрока имени (без учета регистра) и точное совпадение статуса.
// Фильтрация выполняется на клиенте поверх полного списка - сервер
// отдает канонический список целиком.
func FilterCertificates(certs []Certificate, nameSubstr, status string) []Certificate {
	if nameSubstr == "" && status == "" {
		return certs
	}

	filtered := make([]Certificate, 0, len(certs))
	for _, cert := range certs {
		if nameSubstr != "" && !strings.Contains(strings.ToLower(cert.Name), strings.ToLower(nameSubstr)) {
			continue
		}
		if status != "" && cert.Status != status {
			continue
		}
		filtered = append(filtered, cert)
	}
	return filtered
}
