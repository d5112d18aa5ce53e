// Package models содержит доменные структуры портала: пользователя,
// подписку, тарифные планы, а также типы данных имитируемого финансового API.
package models

import "time"

// Роли пользователей портала.
const (
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
)

// User представляет профиль аутентифицированного пользователя.
// Создаётся при входе или регистрации и не изменяется до выхода.
type User struct {
	ID        string    `json:"id"`         // Уникальный идентификатор пользователя
	Email     string    `json:"email"`      // Электронная почта
	Name      string    `json:"name"`       // Отображаемое имя
	Role      string    `json:"role"`       // Роль пользователя, admin или developer
	CreatedAt time.Time `json:"created_at"` // Дата создания профиля
}

// IsAdmin сообщает, имеет ли пользователь административную роль.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
