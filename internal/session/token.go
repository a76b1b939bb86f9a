package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity представляет личность, извлеченную из access токена
type Identity struct {
	Email   string
	Role    Role
	Subject string
}

// ErrInvalidToken возвращается, когда токен не удается разобрать или
// в нем отсутствуют обязательные claims. Такой токен означает
// невалидную сессию, а не фатальную ошибку.
var ErrInvalidToken = fmt.Errorf("невалидный токен")

// DecodeToken извлекает личность из access токена без проверки
// подписи: подпись проверяет бэкенд, клиенту нужны только claims.
//
// Токен состоит из трех сегментов, разделенных точками; средний
// сегмент содержит JSON с как минимум claims role и email. Сегмент
// может быть закодирован как padded base64, так и обычным для JWT
// base64url без набивки - принимаем оба варианта.
func DecodeToken(token string) (*Identity, time.Time, error) {
	claims, expiresAt, err := parseClaims(token)
	if err != nil {
		return nil, time.Time{}, err
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, time.Time{}, fmt.Errorf("%w: отсутствует claim email", ErrInvalidToken)
	}

	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return nil, time.Time{}, fmt.Errorf("%w: отсутствует claim role", ErrInvalidToken)
	}

	role, ok := ParseRole(roleStr)
	if !ok {
		return nil, time.Time{}, fmt.Errorf("%w: неизвестная роль %q", ErrInvalidToken, roleStr)
	}

	identity := &Identity{
		Email: email,
		Role:  role,
	}

	// sub используется как запасной идентификатор пользователя
	if sub, ok := claims["sub"].(string); ok {
		identity.Subject = sub
	}

	return identity, expiresAt, nil
}

func parseClaims(token string) (jwt.MapClaims, time.Time, error) {
	// Основной путь: стандартный JWT парсер
	parsed, _, err := jwt.NewParser(jwt.WithPaddingAllowed()).ParseUnverified(token, jwt.MapClaims{})
	if err == nil {
		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			return nil, time.Time{}, ErrInvalidToken
		}
		return claims, expiryOf(claims), nil
	}

	// Запасной путь: средний сегмент в padded base64 со стандартным
	// алфавитом, который JWT парсер не принимает
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, time.Time{}, fmt.Errorf("%w: ожидалось три сегмента", ErrInvalidToken)
	}

	payload, decErr := base64.StdEncoding.DecodeString(parts[1])
	if decErr != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims := jwt.MapClaims{}
	if jsonErr := json.Unmarshal(payload, &claims); jsonErr != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, jsonErr)
	}

	return claims, expiryOf(claims), nil
}

func expiryOf(claims jwt.MapClaims) time.Time {
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0)
	}
	return time.Time{}
}
