package model

import (
	"strings"
	"time"
)

type Teacher struct {
	ID         int64     `json:"id"`
	TelegramID *int64    `json:"telegram_id"` // nil - учитель не пользуется ботом
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// DisplayName возвращает имя для доски
func (t *Teacher) DisplayName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

type Student struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName возвращает имя студента для доски
func (s *Student) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
