package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CertManagerPlatform/pkg/logger"
	"CertManagerPlatform/pkg/validation"
)

// TestHandleErrorKeepsValidationMessage проверяет, что ошибка валидации
// доходит до пользователя с текстом по конкретному полю, а не как
// внутренняя ошибка
func TestHandleErrorKeepsValidationMessage(t *testing.T) {
	appLogger = logger.NewNop()
	cmd := &cobra.Command{Use: "create"}

	v := validation.NewValidator()
	err := handleError(v.ValidateEmail("not-an-email"), cmd)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "not-an-email")
	assert.NotContains(t, err.Error(), "Внутренняя ошибка сервера")
	assert.NotContains(t, err.Error(), "Ошибка валидации данных")
}

// TestHandleErrorWrapsPlainErrors проверяет приведение нетипизированных
// ошибок к внутреннему классу
func TestHandleErrorWrapsPlainErrors(t *testing.T) {
	appLogger = logger.NewNop()
	cmd := &cobra.Command{Use: "list"}

	err := handleError(assert.AnError, cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Внутренняя ошибка сервера")
}
