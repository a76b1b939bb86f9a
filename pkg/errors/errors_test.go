package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

// TestNewError проверяет создание новой ошибки
func TestNewError(t *testing.T) {
	e := New(ErrNotFound, "certificate not found")
	if e == nil {
		t.Fatal("Expected error, got nil")
	}

	if e.Code != ErrNotFound {
		t.Errorf("Expected code %s, got %s", ErrNotFound, e.Code)
	}

	if e.Message != "certificate not found" {
		t.Errorf("Expected message 'certificate not found', got %s", e.Message)
	}

	if e.Cause != nil {
		t.Error("Expected cause to be nil")
	}
}

// TestWrapError проверяет оборачивание существующей ошибки
func TestWrapError(t *testing.T) {
	originalErr := fmt.Errorf("connection refused")
	e := Wrap(originalErr, ErrUnavailable, "backend unreachable")

	if e == nil {
		t.Fatal("Expected error, got nil")
	}

	if e.Code != ErrUnavailable {
		t.Errorf("Expected code %s, got %s", ErrUnavailable, e.Code)
	}

	if !errors.Is(e, originalErr) {
		t.Error("Expected wrapped error to match original via errors.Is")
	}

	if e.Unwrap() != originalErr {
		t.Error("Expected Unwrap to return the original error")
	}
}

// TestWrapNil проверяет, что оборачивание nil возвращает nil
func TestWrapNil(t *testing.T) {
	if e := Wrap(nil, ErrInternal, "no-op"); e != nil {
		t.Errorf("Expected nil, got %v", e)
	}
}

// TestWithDetails проверяет добавление деталей к ошибке
func TestWithDetails(t *testing.T) {
	e := New(ErrValidation, "invalid input")
	eWithDetails := e.WithDetails("field 'email' is required")

	if eWithDetails.Details != "field 'email' is required" {
		t.Errorf("Unexpected details: %s", eWithDetails.Details)
	}

	// Исходная ошибка не изменяется
	if e.Details != "" {
		t.Errorf("Original error mutated, details: %s", e.Details)
	}
}

// TestFromHTTPStatus проверяет преобразование HTTP статусов в коды ошибок
func TestFromHTTPStatus(t *testing.T) {
	cases := []struct {
		status int
		code   ErrorCode
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnprocessableEntity, ErrValidation},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusConflict, ErrConflict},
		{http.StatusBadGateway, ErrUnavailable},
		{http.StatusInternalServerError, ErrInternal},
		{http.StatusTeapot, ErrInternal},
	}

	for _, tc := range cases {
		e := FromHTTPStatus(tc.status, "")
		if e.Code != tc.code {
			t.Errorf("Status %d: expected code %s, got %s", tc.status, tc.code, e.Code)
		}
		if e.Message == "" {
			t.Errorf("Status %d: expected default message", tc.status)
		}
	}
}

// TestHTTPStatusRoundTrip проверяет обратное преобразование кода ошибки в статус
func TestHTTPStatusRoundTrip(t *testing.T) {
	for _, status := range []int{
		http.StatusNotFound,
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusConflict,
		http.StatusServiceUnavailable,
		http.StatusInternalServerError,
	} {
		e := FromHTTPStatus(status, "x")
		if got := e.HTTPStatus(); got != status {
			t.Errorf("Round trip for %d: got %d", status, got)
		}
	}
}

// TestIsUnauthorized проверяет определение ошибок аутентификации
func TestIsUnauthorized(t *testing.T) {
	if !IsUnauthorized(New(ErrUnauthorized, "token expired")) {
		t.Error("Expected IsUnauthorized to be true")
	}

	if IsUnauthorized(New(ErrForbidden, "no access")) {
		t.Error("Expected IsUnauthorized to be false for FORBIDDEN")
	}

	if IsUnauthorized(fmt.Errorf("plain error")) {
		t.Error("Expected IsUnauthorized to be false for plain error")
	}

	// Ошибка, обернутая через fmt.Errorf, тоже распознается
	wrapped := fmt.Errorf("request failed: %w", New(ErrUnauthorized, "expired"))
	if !IsUnauthorized(wrapped) {
		t.Error("Expected IsUnauthorized to unwrap nested errors")
	}
}

// TestGetUserMessage проверяет пользовательские сообщения
func TestGetUserMessage(t *testing.T) {
	if msg := New(ErrForbidden, "rbac denied").GetUserMessage(); msg != "Доступ запрещен" {
		t.Errorf("Unexpected user message: %s", msg)
	}

	if msg := New(ErrorCode("UNKNOWN_CODE"), "x").GetUserMessage(); msg != "Произошла ошибка" {
		t.Errorf("Unexpected fallback message: %s", msg)
	}

	var nilErr *Error
	if msg := nilErr.GetUserMessage(); msg != "" {
		t.Errorf("Expected empty message for nil error, got %s", msg)
	}
}

// TestGetUserMessageValidation проверяет, что сообщение ошибки валидации
// доходит до пользователя без обобщения
func TestGetUserMessageValidation(t *testing.T) {
	e := New(ErrValidation, "некорректный формат email: not-an-email")
	if msg := e.GetUserMessage(); msg != "некорректный формат email: not-an-email" {
		t.Errorf("Expected field message to pass through, got %s", msg)
	}

	// Пустое сообщение откатывается к общему тексту
	if msg := New(ErrValidation, "").GetUserMessage(); msg != "Ошибка валидации данных" {
		t.Errorf("Unexpected fallback for empty validation message: %s", msg)
	}
}
