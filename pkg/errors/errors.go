package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error представляет кастомную ошибку с дополнительной информацией
type Error struct {
	Code    ErrorCode       `json:"code"`
	Message string          `json:"message"`
	Details string          `json:"details,omitempty"`
	Cause   error           `json:"-"`
	Context context.Context `json:"-"`
}

// ErrorCode представляет код ошибки
type ErrorCode string

// Определение кодов ошибок
const (
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrValidation   ErrorCode = "VALIDATION_ERROR"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrForbidden    ErrorCode = "FORBIDDEN"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrConflict     ErrorCode = "CONFLICT"
	ErrUnavailable  ErrorCode = "UNAVAILABLE"
)

// Error возвращает сообщение об ошибке
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap возвращает причину ошибки
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is проверяет, является ли ошибка указанного типа
func (e *Error) Is(target error) bool {
	if targetError, ok := target.(*Error); ok {
		return e.Code == targetError.Code
	}
	return false
}

// New создает новую кастомную ошибку
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap оборачивает существующую ошибку в кастомную
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WithDetails добавляет детали к ошибке
func (e *Error) WithDetails(details string) *Error {
	if e == nil {
		return nil
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
		Context: e.Context,
	}
}

// WithContext добавляет контекст к ошибке
func (e *Error) WithContext(ctx context.Context) *Error {
	if e == nil {
		return nil
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   e.Cause,
		Context: ctx,
	}
}

// FromHTTPStatus преобразует HTTP статус ответа бэкенда в кастомную ошибку
func FromHTTPStatus(status int, message string) *Error {
	var code ErrorCode
	switch status {
	case http.StatusNotFound:
		code = ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = ErrValidation
	case http.StatusUnauthorized:
		code = ErrUnauthorized
	case http.StatusForbidden:
		code = ErrForbidden
	case http.StatusConflict:
		code = ErrConflict
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		code = ErrUnavailable
	default:
		code = ErrInternal
	}

	if message == "" {
		message = http.StatusText(status)
	}

	return &Error{
		Code:    code,
		Message: message,
	}
}

// HTTPStatus возвращает HTTP статус, соответствующий коду ошибки
func (e *Error) HTTPStatus() int {
	if e == nil {
		return http.StatusOK
	}

	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	case ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsUnauthorized проверяет, является ли ошибка ошибкой аутентификации
func IsUnauthorized(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == ErrUnauthorized
	}
	return false
}

// IsForbidden проверяет, является ли ошибка ошибкой авторизации
func IsForbidden(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == ErrForbidden
	}
	return false
}

// IsNotFound проверяет, является ли ошибка ошибкой "не найдено"
func IsNotFound(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == ErrNotFound
	}
	return false
}

// GetUserMessage возвращает пользовательское сообщение об ошибке
// Поддерживает локализацию через контекст
func (e *Error) GetUserMessage() string {
	if e == nil {
		return ""
	}

	// Проверяем, есть ли локализованное сообщение в контексте
	if e.Context != nil {
		if localizedMsg, ok := e.Context.Value("localized_message").(string); ok {
			return localizedMsg
		}
	}

	// Возвращаем сообщения на русском по умолчанию.
	// Для ошибок валидации сообщение привязано к конкретному полю,
	// поэтому показываем его как есть, а не обобщенный текст.
	switch e.Code {
	case ErrNotFound:
		return "Ресурс не найден"
	case ErrValidation:
		if e.Message != "" {
			return e.Message
		}
		return "Ошибка валидации данных"
	case ErrUnauthorized:
		return "Не авторизован"
	case ErrForbidden:
		return "Доступ запрещен"
	case ErrConflict:
		return "Конфликт данных (например, дубликат)"
	case ErrUnavailable:
		return "Сервис временно недоступен"
	case ErrInternal:
		return "Внутренняя ошибка сервера"
	default:
		return "Произошла ошибка"
	}
}
