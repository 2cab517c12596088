package booking

import (
	"context"
	"time"

	"github.com/lawbridge/lawbridge-api/models"
)

// AvailabilityRepository is the narrow storage contract behind the resolver
// and the availability store. Implementations return ErrNotFound for unknown
// lawyer or rule ids.
type AvailabilityRepository interface {
	Add(ctx context.Context, rule *models.AvailabilityRule) error
	// ListForLawyer returns every rule for the lawyer; when from/to are set,
	// override rules are limited to that date range (recurring rules always
	// apply and are always included).
	ListForLawyer(ctx context.Context, lawyerID uint, from, to *time.Time) ([]models.AvailabilityRule, error)
	// OverridesForDate returns all override rules for the date, active or
	// not. The resolver needs inactive overrides too: their mere presence
	// supersedes the recurring schedule for that date.
	OverridesForDate(ctx context.Context, lawyerID uint, date time.Time) ([]models.AvailabilityRule, error)
	RecurringForWeekday(ctx context.Context, lawyerID uint, day models.DayOfWeek) ([]models.AvailabilityRule, error)
	Remove(ctx context.Context, ruleID uint) error
	// ReplaceRecurring atomically swaps the lawyer's whole weekly schedule.
	// Readers never observe a partially replaced schedule.
	ReplaceRecurring(ctx context.Context, lawyerID uint, rules []models.AvailabilityRule) error
}

// AppointmentRepository is the storage contract behind the conflict checker
// and the booking engine.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	// Blocking returns the lawyer's appointments in a blocking status whose
	// interval may overlap [from, to). Implementations may over-approximate;
	// the conflict checker applies exact half-open arithmetic.
	Blocking(ctx context.Context, lawyerID uint, from, to time.Time) ([]models.Appointment, error)
	// UpdateStatus performs a guarded compare-and-set: the row is updated
	// only while its status still equals from. Returns false when the guard
	// missed, meaning a concurrent transition won.
	UpdateStatus(ctx context.Context, id uint, from, to models.AppointmentStatus, notes string) (bool, error)
	// InTx runs fn inside a single atomic unit. Errors wrapping ErrRetryable
	// indicate a serialization failure the caller may retry.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	ListForLawyer(ctx context.Context, lawyerID uint, status models.AppointmentStatus, day *time.Time) ([]models.Appointment, error)
	ListForClient(ctx context.Context, clientID uint, status models.AppointmentStatus) ([]models.Appointment, error)
}

// LawyerDirectory exposes the read-only directory fields the core needs.
type LawyerDirectory interface {
	Get(ctx context.Context, lawyerID uint) (*models.LawyerProfile, error)
	// FindBookable returns verified, accepting lawyers, optionally narrowed
	// to one practice area tag.
	FindBookable(ctx context.Context, practiceArea string) ([]models.LawyerProfile, error)
}

// Notifier is the external notification sink. Calls are best effort:
// implementations log failures and never propagate them.
type Notifier interface {
	Notify(ctx context.Context, userID uint, title, message string, kind models.NotificationType, data map[string]any)
}
