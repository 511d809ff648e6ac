// Package models содержит доменные структуры сервиса Movienest:
// пользователей, тарифные планы и купленные периоды подписки.
package models

import "fmt"

// Role представляет роль пользователя в системе. Набор ролей закрытый:
// любое другое значение считается некорректным и отклоняется при парсинге.
type Role string

const (
	// RoleUser — обычный пользователь сервиса.
	RoleUser Role = "user"
	// RoleAdmin — администратор с доступом к привилегированным операциям.
	RoleAdmin Role = "admin"
)

// ParseRole преобразует строку в Role, возвращая ошибку для неизвестных значений.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Meets сообщает, достаточно ли роли r для операции, требующей роль required.
// Привилегированные операции требуют RoleAdmin; RoleUser доступна любой валидной роли.
func (r Role) Meets(required Role) bool {
	if required == RoleAdmin {
		return r == RoleAdmin
	}
	return r == RoleUser || r == RoleAdmin
}

// String возвращает строковое представление роли.
func (r Role) String() string { return string(r) }
