package validation

import (
	stderrors "errors"
	"strings"
	"testing"

	"CertManagerPlatform/pkg/errors"
)

// TestValidateEmail проверяет валидацию email адресов
func TestValidateEmail(t *testing.T) {
	v := NewValidator()

	valid := []string{"a@b.com", "ops@example.org", "first.last+tag@sub.domain.io"}
	for _, email := range valid {
		if err := v.ValidateEmail(email); err != nil {
			t.Errorf("Expected %q to be valid, got: %v", email, err)
		}
	}

	invalid := []string{"", "not-an-email", "a@", "@b.com", "a b@c.com", "Name <a@b.com>"}
	for _, email := range invalid {
		if err := v.ValidateEmail(email); err == nil {
			t.Errorf("Expected %q to be invalid", email)
		}
	}
}

// TestValidationErrorsCarryFieldMessage проверяет, что ошибки валидации
// типизированы и несут сообщение по конкретному полю, а не классифицируются
// как внутренние
func TestValidationErrorsCarryFieldMessage(t *testing.T) {
	v := NewValidator()

	err := v.ValidateEmail("not-an-email")
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var appErr *errors.Error
	if !stderrors.As(err, &appErr) {
		t.Fatalf("Expected *errors.Error, got %T", err)
	}
	if appErr.Code != errors.ErrValidation {
		t.Errorf("Expected code %s, got %s", errors.ErrValidation, appErr.Code)
	}

	msg := appErr.GetUserMessage()
	if !strings.Contains(msg, "email") {
		t.Errorf("Expected user message to name the field, got %q", msg)
	}
	if msg == "Внутренняя ошибка сервера" || msg == "Ошибка валидации данных" {
		t.Errorf("Expected field-level message, got generic %q", msg)
	}

	// Остальные проверки возвращают тот же тип
	for _, err := range []error{
		v.ValidateRequired("", "name"),
		v.ValidateRole("root"),
		v.ValidatePassword("short"),
		v.ValidateDateRange("01.02.2026", ""),
	} {
		if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrValidation {
			t.Errorf("Expected validation error, got %v", err)
		}
	}
}

// TestValidateRequired проверяет обязательные поля
func TestValidateRequired(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateRequired("value", "name"); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	for _, empty := range []string{"", "   ", "\t\n"} {
		if err := v.ValidateRequired(empty, "name"); err == nil {
			t.Errorf("Expected error for %q", empty)
		}
	}
}

// TestValidateRole проверяет валидацию ролей
func TestValidateRole(t *testing.T) {
	v := NewValidator()

	for _, role := range []string{"admin", "editor", "viewer"} {
		if err := v.ValidateRole(role); err != nil {
			t.Errorf("Expected role %q to be valid, got: %v", role, err)
		}
	}

	for _, role := range []string{"", "root", "Admin", "superuser"} {
		if err := v.ValidateRole(role); err == nil {
			t.Errorf("Expected role %q to be invalid", role)
		}
	}
}

// TestValidateChannelType проверяет валидацию типов каналов
func TestValidateChannelType(t *testing.T) {
	v := NewValidator()

	for _, ct := range []string{"smtp", "telegram", "slack", "googlechat"} {
		if err := v.ValidateChannelType(ct); err != nil {
			t.Errorf("Expected type %q to be valid, got: %v", ct, err)
		}
	}

	if err := v.ValidateChannelType("webhook"); err == nil {
		t.Error("Expected type 'webhook' to be invalid")
	}
}

// TestValidateDayOffset проверяет границы смещений в днях
func TestValidateDayOffset(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateDayOffset(0, "days before"); err != nil {
		t.Errorf("Expected 0 to be valid, got: %v", err)
	}
	if err := v.ValidateDayOffset(30, "days before"); err != nil {
		t.Errorf("Expected 30 to be valid, got: %v", err)
	}
	if err := v.ValidateDayOffset(-1, "days before"); err == nil {
		t.Error("Expected -1 to be invalid")
	}
	if err := v.ValidateDayOffset(4000, "days before"); err == nil {
		t.Error("Expected 4000 to be invalid")
	}
}

// TestValidateDateRange проверяет диапазоны дат фильтров
func TestValidateDateRange(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateDateRange("", ""); err != nil {
		t.Errorf("Expected empty range to be valid, got: %v", err)
	}

	if err := v.ValidateDateRange("2026-01-01T00:00:00Z", "2026-02-01T00:00:00Z"); err != nil {
		t.Errorf("Expected valid range, got: %v", err)
	}

	if err := v.ValidateDateRange("2026-02-01T00:00:00Z", "2026-01-01T00:00:00Z"); err == nil {
		t.Error("Expected inverted range to be invalid")
	}

	if err := v.ValidateDateRange("01.02.2026", ""); err == nil {
		t.Error("Expected non-RFC3339 date to be invalid")
	}
}

// TestValidateURL проверяет валидацию URL
func TestValidateURL(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateURL("https://api.example.com", []string{"http", "https"}); err != nil {
		t.Errorf("Expected valid URL, got: %v", err)
	}

	if err := v.ValidateURL("ftp://host", []string{"http", "https"}); err == nil {
		t.Error("Expected disallowed scheme to be invalid")
	}

	if err := v.ValidateURL("", nil); err == nil {
		t.Error("Expected empty URL to be invalid")
	}
}
