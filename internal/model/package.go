package model

// Package describes what a booking bought: lesson time and capacity.
type Package struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	DurationMinutes  int    `json:"duration_minutes"`
	PricePerStudent  int    `json:"price_per_student"` // в центах
	CapacityStudents int    `json:"capacity_students"`
	CapacityKites    int    `json:"capacity_kites"`
}
