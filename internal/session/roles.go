package session

// Role представляет роль пользователя в системе
type Role string

// Роли, известные клиенту. Роль всегда берется из claim токена,
// клиент никогда не назначает ее сам.
const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// AllRoles содержит все известные роли (для команд, доступных любому
// аутентифицированному пользователю)
var AllRoles = []Role{RoleAdmin, RoleEditor, RoleViewer}

// ParseRole преобразует строковое значение claim в роль
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleEditor, RoleViewer:
		return Role(s), true
	default:
		return "", false
	}
}

// RoleAllowed - единая точка проверки авторизации: доступ разрешен
// тогда и только тогда, когда роль входит в требуемое множество.
// Отсутствие сессии всегда означает отказ, независимо от требований.
func RoleAllowed(current Role, hasSession bool, required []Role) bool {
	if !hasSession {
		return false
	}
	for _, r := range required {
		if current == r {
			return true
		}
	}
	return false
}
