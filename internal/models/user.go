// Package models содержит доменные структуры маркетплейса видеоуслуг:
// пользователей, пакеты очков, формулы ценообразования и заказы,
// а также вспомогательные Dummy-типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное)
	DisplayName  string    // Отображаемое имя для дашборда
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или user
	Notes        string    // Заметки администратора о пользователе
	CreatedAt    time.Time // Дата регистрации
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,alphanum"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password" validate:"required,min=8"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required"`
}

// DummyChangePassword используется для приёма запроса на смену пароля.
type DummyChangePassword struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// DummyUserUpdate используется администратором для правки пользователя.
type DummyUserUpdate struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role" validate:"required,oneof=admin user"`
	Notes       string `json:"notes"`
}
