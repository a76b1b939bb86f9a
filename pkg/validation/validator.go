package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"CertManagerPlatform/pkg/errors"
)

// Validator предоставляет общие функции валидации
//
// Все проверки выполняются на стороне клиента до отправки запроса,
// чтобы невалидная форма вообще не дошла до сети. Каждая проверка
// возвращает ошибку с кодом ErrValidation и сообщением по конкретному
// полю, которое показывается пользователю как есть.
type Validator struct{}

// NewValidator создает новый Validator
func NewValidator() *Validator {
	return &Validator{}
}

func invalid(format string, args ...interface{}) *errors.Error {
	return errors.New(errors.ErrValidation, fmt.Sprintf(format, args...))
}

// ValidateRequired проверяет, что строковое поле заполнено
func (v *Validator) ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("поле %s обязательно для заполнения", fieldName)
	}
	return nil
}

// ValidateEmail проверяет корректность email адреса
func (v *Validator) ValidateEmail(email string) error {
	if email == "" {
		return invalid("поле email обязательно для заполнения")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return invalid("некорректный формат email: %s", email)
	}

	// mail.ParseAddress принимает формы вида "Name <a@b>", нам нужен только адрес
	if addr.Address != email {
		return invalid("некорректный формат email: %s", email)
	}

	return nil
}

// ValidateURL проверяет корректность URL
func (v *Validator) ValidateURL(target string, allowedSchemes []string) error {
	if target == "" {
		return invalid("поле url обязательно для заполнения")
	}

	parsedURL, err := url.Parse(target)
	if err != nil {
		return invalid("некорректный формат URL: %s", target)
	}

	// Проверяем схему
	if len(allowedSchemes) > 0 {
		schemeValid := false
		for _, scheme := range allowedSchemes {
			if parsedURL.Scheme == scheme {
				schemeValid = true
				break
			}
		}
		if !schemeValid {
			return invalid("URL должен использовать одну из схем %v, получено: %s", allowedSchemes, parsedURL.Scheme)
		}
	}

	// Проверяем хост
	if parsedURL.Host == "" {
		return invalid("URL должен содержать корректный хост")
	}

	// Проверяем, что нет недопустимых символов
	if strings.ContainsAny(target, " \t\n\r") {
		return invalid("URL содержит недопустимые пробельные символы")
	}

	return nil
}

// ValidateEnum проверяет, что значение входит в множество допустимых
func (v *Validator) ValidateEnum(value, fieldName string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return invalid("недопустимое значение %s: %q (допустимо: %s)", fieldName, value, strings.Join(allowed, ", "))
}

// ValidateRole проверяет роль пользователя
func (v *Validator) ValidateRole(role string) error {
	return v.ValidateEnum(role, "role", []string{"admin", "editor", "viewer"})
}

// ValidateUserStatus проверяет статус учетной записи
func (v *Validator) ValidateUserStatus(status string) error {
	return v.ValidateEnum(status, "status", []string{"active", "inactive", "disabled"})
}

// ValidateCertificateStatus проверяет статус сертификата
func (v *Validator) ValidateCertificateStatus(status string) error {
	return v.ValidateEnum(status, "status", []string{"active", "expired", "revoked"})
}

// ValidateChannelType проверяет тип канала уведомлений
func (v *Validator) ValidateChannelType(channelType string) error {
	return v.ValidateEnum(channelType, "channel type", []string{"smtp", "telegram", "slack", "googlechat"})
}

// ValidateDayOffset проверяет смещение в днях для модели оповещений
func (v *Validator) ValidateDayOffset(days int, fieldName string) error {
	if days < 0 {
		return invalid("%s не может быть отрицательным, получено: %d", fieldName, days)
	}
	if days > 3650 {
		return invalid("%s не может превышать 3650 дней, получено: %d", fieldName, days)
	}
	return nil
}

// ValidateRepeatInterval проверяет интервал повтора оповещений
func (v *Validator) ValidateRepeatInterval(days int) error {
	if days < 1 {
		return invalid("интервал повтора должен быть не меньше 1 дня, получено: %d", days)
	}
	if days > 365 {
		return invalid("интервал повтора должен быть не больше 365 дней, получено: %d", days)
	}
	return nil
}

// ValidateDateRange проверяет диапазон дат фильтра в формате RFC3339
//
// Пустые значения допустимы: фильтр может быть открыт с одной стороны.
func (v *Validator) ValidateDateRange(from, to string) error {
	var fromTime, toTime time.Time
	var err error

	if from != "" {
		fromTime, err = time.Parse(time.RFC3339, from)
		if err != nil {
			return invalid("некорректная дата 'from', ожидается RFC3339: %s", from)
		}
	}

	if to != "" {
		toTime, err = time.Parse(time.RFC3339, to)
		if err != nil {
			return invalid("некорректная дата 'to', ожидается RFC3339: %s", to)
		}
	}

	if from != "" && to != "" && toTime.Before(fromTime) {
		return invalid("дата 'to' не может быть раньше даты 'from'")
	}

	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func (v *Validator) ValidatePassword(password string) error {
	if len(password) < 8 {
		return invalid("пароль должен содержать не менее 8 символов")
	}
	return nil
}
