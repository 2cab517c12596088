package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lawbridge/lawbridge-api/booking"
	"github.com/lawbridge/lawbridge-api/models"
)

// AppointmentRepository is the postgres-backed appointment store. Writes on
// the booking path run inside InTx with the conflicting rows locked.
type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

type txKey struct{}

// conn returns the transaction bound to ctx, or the base handle.
func (r *AppointmentRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// InTx runs fn in one transaction. Serialization failures and deadlocks come
// back wrapping booking.ErrRetryable so the engine can retry once.
func (r *AppointmentRepository) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if err != nil && isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", booking.ErrRetryable, err)
	}
	return err
}

// isSerializationFailure recognizes postgres write-conflict aborts:
// 40001 serialization_failure, 40P01 deadlock_detected.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.conn(ctx).Create(appointment).Error
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.conn(ctx).Preload("Client").Preload("Lawyer").First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// Blocking returns the lawyer's blocking-status appointments overlapping
// [from, to). Inside a booking transaction the rows are locked FOR UPDATE so
// a concurrent insert against the same range waits and then re-checks.
func (r *AppointmentRepository) Blocking(ctx context.Context, lawyerID uint, from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	query := r.conn(ctx).
		Where("lawyer_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			lawyerID, models.BlockingStatuses, to, from)
	if _, inTx := ctx.Value(txKey{}).(*gorm.DB); inTx {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatus is a guarded compare-and-set: rows affected is zero when a
// concurrent transition already moved the appointment off `from`.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id uint, from, to models.AppointmentStatus, notes string) (bool, error) {
	updates := map[string]any{"status": to}
	if notes != "" {
		updates["notes"] = notes
	}
	result := r.conn(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *AppointmentRepository) ListForLawyer(ctx context.Context, lawyerID uint, status models.AppointmentStatus, day *time.Time) ([]models.Appointment, error) {
	query := r.conn(ctx).Preload("Client").Where("lawyer_id = ?", lawyerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if day != nil {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		query = query.Where("start_time >= ? AND start_time < ?", start, start.AddDate(0, 0, 1))
	}

	var appointments []models.Appointment
	if err := query.Order("start_time asc").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *AppointmentRepository) ListForClient(ctx context.Context, clientID uint, status models.AppointmentStatus) ([]models.Appointment, error) {
	query := r.conn(ctx).Preload("Lawyer").Where("client_id = ?", clientID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Order("start_time asc").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}
