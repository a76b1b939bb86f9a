package client

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogFilterEncode(t *testing.T) {
	filter := &AuditLogFilter{
		Limit:    50,
		Actor:    "admin@example.com",
		Entity:   "certificate",
		EntityID: "cert-1",
		Action:   "update",
		From:     "2026-08-01T00:00:00Z",
		To:       "2026-08-30T00:00:00Z",
		Query:    "example",
	}

	values, err := url.ParseQuery(filter.encode())
	require.NoError(t, err)

	assert.Equal(t, "50", values.Get("limit"))
	assert.Equal(t, "admin@example.com", values.Get("actor"))
	assert.Equal(t, "certificate", values.Get("entity"))
	assert.Equal(t, "cert-1", values.Get("entity_id"))
	assert.Equal(t, "update", values.Get("action"))
	assert.Equal(t, "2026-08-01T00:00:00Z", values.Get("from"))
	assert.Equal(t, "2026-08-30T00:00:00Z", values.Get("to"))
	assert.Equal(t, "example", values.Get("q"))
}

func TestAuditLogFilterEncodeEmpty(t *testing.T) {
	assert.Empty(t, (&AuditLogFilter{}).encode())
}
