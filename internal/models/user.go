// Package models содержит доменные структуры каталога фильмов:
// пользователей, подписки, фильмы и вишлисты, а также вспомогательные
// типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей системы.
const (
	RoleUser       = "user"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID                  string    // Уникальный идентификатор пользователя
	FirstName            string    // Имя
	LastName             string    // Фамилия
	Email                string    // Электронная почта (уникальная)
	PasswordHash         string    // Хэш пароля пользователя
	MobileNumber         string    // Мобильный номер (10 цифр)
	Role                 string    // Роль: user, supervisor или admin
	StripeCustomerID     *string   // Идентификатор клиента в платёжной системе
	DeviceToken          *string   // Токен устройства для push-уведомлений
	NotificationsEnabled bool      // Разрешены ли push-уведомления
	CreatedAt            time.Time // Дата регистрации
}

// FullName возвращает имя и фамилию одной строкой для ответов API.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// DummyRegisterUser используется для приёма данных регистрации из JSON-запроса.
type DummyRegisterUser struct {
	FirstName    string `json:"first_name" validate:"required,max=50"`            // Имя
	LastName     string `json:"last_name" validate:"required,max=50"`             // Фамилия
	Email        string `json:"email" validate:"required,email"`                  // Электронная почта
	Password     string `json:"password" validate:"required,min=6"`               // Пароль (минимум 6 символов)
	MobileNumber string `json:"mobile_number" validate:"required,len=10,numeric"` // Мобильный номер
}

// DummyLoginUser используется для приёма данных входа из JSON-запроса.
type DummyLoginUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DummyPreferences используется для обновления настроек push-уведомлений.
// Указатели отличают «поле не передано» от «передано пустое значение».
type DummyPreferences struct {
	DeviceToken          *string `json:"device_token"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
}
