package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileTokenStore {
	t.Helper()
	t.Setenv("CERTMANAGER_HOME", t.TempDir())

	ts, err := NewFileTokenStore()
	require.NoError(t, err)
	return ts
}

// TestFileStoreRoundTrip проверяет сохранение и загрузку токенов
func TestFileStoreRoundTrip(t *testing.T) {
	ts := newTestFileStore(t)

	assert.False(t, ts.HasTokens())
	assert.Empty(t, ts.GetAccessToken())

	info := &TokenInfo{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-xyz",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
		Email:        "admin@example.com",
		Role:         "admin",
	}
	require.NoError(t, ts.SaveTokens(info))

	assert.True(t, ts.HasTokens())
	assert.Equal(t, "access-abc", ts.GetAccessToken())

	loaded, err := ts.LoadTokens()
	require.NoError(t, err)
	assert.Equal(t, info.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, info.Email, loaded.Email)
	assert.Equal(t, info.Role, loaded.Role)
	assert.True(t, info.ExpiresAt.Equal(loaded.ExpiresAt))
}

// TestFileStoreClear проверяет удаление токенов
func TestFileStoreClear(t *testing.T) {
	ts := newTestFileStore(t)

	require.NoError(t, ts.SaveTokens(&TokenInfo{AccessToken: "x"}))
	require.True(t, ts.HasTokens())

	require.NoError(t, ts.ClearTokens())
	assert.False(t, ts.HasTokens())

	// Повторная очистка не является ошибкой
	assert.NoError(t, ts.ClearTokens())
}

// TestFileStoreLoadMissing проверяет загрузку при отсутствии файла
func TestFileStoreLoadMissing(t *testing.T) {
	ts := newTestFileStore(t)

	_, err := ts.LoadTokens()
	assert.Error(t, err)
}
