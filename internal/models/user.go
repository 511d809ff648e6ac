package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Удаление пользователя мягкое: строка остаётся в базе с IsDeleted = true
// и исключается из аутентификации и проверок уникальности username/email.
type User struct {
	ID           int64     `json:"id"`            // Уникальный идентификатор пользователя
	Username     string    `json:"username"`      // Имя пользователя (уникальное среди неудалённых)
	Email        string    `json:"email"`         // Электронная почта (уникальная среди неудалённых)
	PasswordHash string    `json:"-"`             // Bcrypt-хэш пароля, наружу не отдается
	Role         Role      `json:"role"`          // Роль пользователя, admin или user
	IsDeleted    bool      `json:"is_deleted"`    // Признак мягкого удаления
	CreatedAt    time.Time `json:"created_at"`    // Дата создания записи
	UpdatedAt    time.Time `json:"updated_at"`    // Дата последнего обновления
}

// UserPage представляет страницу списка пользователей для админки.
type UserPage struct {
	Total    int     `json:"total"`     // Общее количество пользователей по фильтру
	Page     int     `json:"page"`      // Номер страницы, начиная с 1
	PageSize int     `json:"page_size"` // Размер страницы
	Results  []*User `json:"results"`   // Пользователи текущей страницы
}
