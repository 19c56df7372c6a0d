package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingSelect = `
	SELECT b.id, b.package_id, b.start_date, b.end_date, b.status, b.created_at, b.updated_at,
	       p.id, p.name, p.duration_minutes, p.price_per_student, p.capacity_students, p.capacity_kites
	FROM bookings b
	JOIN packages p ON p.id = b.package_id
`

type BookingRepository struct {
	*base.Repository
	lessons *LessonRepository
}

func NewBookingRepository(pool *pgxpool.Pool, lessons *LessonRepository) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool), lessons: lessons}
}

// GetByID получает бронь с пакетом, студентами, уроками и событиями
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	booking, err := scanBooking(r.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	if err := r.loadDetails(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetActive получает все активные брони с деталями
func (r *BookingRepository) GetActive(ctx context.Context) ([]*model.Booking, error) {
	rows, err := r.Query(ctx, bookingSelect+` WHERE b.status = 'active' ORDER BY b.start_date, b.id`)
	if err != nil {
		return nil, fmt.Errorf("get active bookings: %w", err)
	}

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	// Детали грузим после закрытия rows, чтобы не держать соединение
	for _, booking := range bookings {
		if err := r.loadDetails(ctx, booking); err != nil {
			return nil, err
		}
	}

	return bookings, nil
}

// UpdateStatus обновляет статус брони
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	affected, err := r.ExecAffected(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

func (r *BookingRepository) loadDetails(ctx context.Context, booking *model.Booking) error {
	students, err := r.getStudents(ctx, booking.ID)
	if err != nil {
		return err
	}
	booking.Students = students

	lessons, err := r.lessons.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return fmt.Errorf("load booking lessons: %w", err)
	}
	booking.Lessons = lessons

	return nil
}

func (r *BookingRepository) getStudents(ctx context.Context, bookingID int64) ([]*model.Student, error) {
	query := `
		SELECT s.id, s.first_name, s.last_name, s.created_at
		FROM booking_students bs
		JOIN students s ON s.id = bs.student_id
		WHERE bs.booking_id = $1
		ORDER BY bs.position, s.id
	`

	rows, err := r.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		var st model.Student
		if err := rows.Scan(&st.ID, &st.FirstName, &st.LastName, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, &st)
	}

	return students, rows.Err()
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var (
		b   model.Booking
		pkg model.Package
	)
	err := row.Scan(
		&b.ID,
		&b.PackageID,
		&b.StartDate,
		&b.EndDate,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
		&pkg.ID,
		&pkg.Name,
		&pkg.DurationMinutes,
		&pkg.PricePerStudent,
		&pkg.CapacityStudents,
		&pkg.CapacityKites,
	)
	if err != nil {
		return nil, err
	}
	b.Package = &pkg
	return &b, nil
}
