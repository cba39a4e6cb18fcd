package model

import (
	"fmt"
	"time"
)

// Роли пользователей — закрытый набор. Свободный текст в поле роли
// приводит к тихим отказам в доступе, поэтому валидируем на границе модели.
const (
	RoleUser           = "user"
	RoleNormController = "norm_controller"
)

// User — серверная модель пользователя.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Login    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"` // bcrypt-хеш
	Role     string `gorm:"not null;default:user"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// ValidRole сообщает, входит ли роль в допустимый набор.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleNormController:
		return true
	}
	return false
}

// Validate проверяет инварианты модели перед записью.
func (u *User) Validate() error {
	if u.Login == "" {
		return fmt.Errorf("empty login")
	}
	if !ValidRole(u.Role) {
		return fmt.Errorf("unknown role %q", u.Role)
	}
	return nil
}
