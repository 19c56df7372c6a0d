package model

import "time"

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"    // Пакет в работе
	BookingStatusCompleted BookingStatus = "completed" // Все часы отработаны и закрыты
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено
)

type Booking struct {
	ID        int64         `json:"id"`
	PackageID int64         `json:"package_id"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из таблицы bookings)
	Package  *Package   `json:"package,omitempty"`
	Students []*Student `json:"students,omitempty"`
	Lessons  []*Lesson  `json:"lessons,omitempty"`
}

// TotalMinutes возвращает длительность купленного пакета в минутах
func (b *Booking) TotalMinutes() int {
	if b.Package == nil {
		return 0
	}
	return b.Package.DurationMinutes
}

// StudentNames возвращает имена студентов в порядке добавления в бронь
func (b *Booking) StudentNames() []string {
	names := make([]string, 0, len(b.Students))
	for _, st := range b.Students {
		names = append(names, st.DisplayName())
	}
	return names
}

// IsActive проверяет, что бронь ещё можно планировать
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusActive
}
