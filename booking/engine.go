package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/lawbridge/lawbridge-api/models"
)

// Engine orchestrates the resolver and the conflict checker inside a single
// atomic unit to create appointments, and governs the status state machine
// thereafter. It is the only component that mutates appointment state.
type Engine struct {
	appointments AppointmentRepository
	lawyers      LawyerDirectory
	resolver     *Resolver
	conflicts    *ConflictChecker
	notifier     Notifier
	locks        *lawyerLocks

	// now is swapped out in tests.
	now func() time.Time
	// retryDelay returns the jittered backoff before the single internal
	// retry after a storage write conflict.
	retryDelay func() time.Duration
}

func NewEngine(availability AvailabilityRepository, appointments AppointmentRepository, lawyers LawyerDirectory, notifier Notifier) *Engine {
	return &Engine{
		appointments: appointments,
		lawyers:      lawyers,
		resolver:     NewResolver(availability),
		conflicts:    NewConflictChecker(appointments),
		notifier:     notifier,
		locks:        newLawyerLocks(),
		now:          time.Now,
		retryDelay: func() time.Duration {
			return 10*time.Millisecond + time.Duration(rand.Intn(40))*time.Millisecond
		},
	}
}

// Resolver exposes the engine's resolver for read-only composition.
func (e *Engine) Resolver() *Resolver { return e.resolver }

// ConflictChecker exposes the engine's conflict checker for read-only
// composition.
func (e *Engine) ConflictChecker() *ConflictChecker { return e.conflicts }

type CreateAppointmentInput struct {
	ClientID     uint
	LawyerID     uint
	StartTime    time.Time
	EndTime      time.Time
	Title        string
	Description  string
	PracticeArea string
	MeetingType  models.MeetingType
}

// CreateAppointment books a slot for a client. The availability check, the
// conflict check and the insert run under the lawyer's serialization lock
// inside one transaction, so two overlapping requests can never both
// succeed. The new appointment starts in PENDING and the lawyer is notified.
func (e *Engine) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*models.Appointment, error) {
	from, to, err := e.validateCreate(in)
	if err != nil {
		return nil, err
	}

	if _, err := e.lawyers.Get(ctx, in.LawyerID); err != nil {
		return nil, err
	}

	release := e.locks.acquire(in.LawyerID)
	defer release()

	appointment := &models.Appointment{
		ClientID:     in.ClientID,
		LawyerID:     in.LawyerID,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Title:        in.Title,
		Description:  in.Description,
		PracticeArea: in.PracticeArea,
		MeetingType:  in.MeetingType,
		Status:       models.StatusPending,
	}

	attempt := func(txCtx context.Context) error {
		covered, err := e.resolver.CoversWindow(txCtx, in.LawyerID, in.StartTime, from, to)
		if err != nil {
			return err
		}
		if !covered {
			return conflictf("lawyer %d is not available on %s between %s and %s",
				in.LawyerID, in.StartTime.Format("2006-01-02"), from, to)
		}

		conflict, err := e.conflicts.HasConflict(txCtx, in.LawyerID, in.StartTime, in.EndTime, 0)
		if err != nil {
			return err
		}
		if conflict {
			return conflictf("time slot is already booked")
		}

		// A rolled-back first attempt may have left an assigned id behind.
		appointment.ID = 0
		return e.appointments.Create(txCtx, appointment)
	}

	err = e.appointments.InTx(ctx, attempt)
	if errors.Is(err, ErrRetryable) {
		time.Sleep(e.retryDelay())
		err = e.appointments.InTx(ctx, attempt)
		if errors.Is(err, ErrRetryable) {
			err = conflictf("could not reserve the slot, try again")
		}
	}
	if err != nil {
		return nil, err
	}

	e.notifier.Notify(ctx, in.LawyerID,
		"New Appointment Request",
		fmt.Sprintf("You have a new appointment request for %s at %s.",
			in.StartTime.Format("January 2, 2006"), from),
		models.NotificationAppointmentRequest,
		map[string]any{"appointment_id": appointment.ID},
	)

	return appointment, nil
}

// validateCreate checks the time range and maps it onto the wall-clock
// window [from, to) the resolver understands. An appointment that ends at
// midnight of the following day closes the day's last window; anything else
// spanning dates is rejected.
func (e *Engine) validateCreate(in CreateAppointmentInput) (TimeOfDay, TimeOfDay, error) {
	if in.ClientID == 0 || in.LawyerID == 0 {
		return 0, 0, validationf("client and lawyer are required")
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return 0, 0, validationf("start and end time are required")
	}
	if !in.StartTime.Before(in.EndTime) {
		return 0, 0, validationf("end time must be after start time")
	}
	if !in.StartTime.After(e.now()) {
		return 0, 0, validationf("appointment must be in the future")
	}
	// Windows resolve at minute precision; a mid-minute end would slip
	// past the coverage check.
	if in.StartTime.Second() != 0 || in.StartTime.Nanosecond() != 0 ||
		in.EndTime.Second() != 0 || in.EndTime.Nanosecond() != 0 {
		return 0, 0, validationf("appointment times must fall on whole minutes")
	}

	from := TimeOfDayFrom(in.StartTime)
	var to TimeOfDay
	switch {
	case SameDate(in.StartTime, in.EndTime):
		to = TimeOfDayFrom(in.EndTime)
	case TimeOfDayFrom(in.EndTime) == 0 && SameDate(in.StartTime, in.EndTime.Add(-time.Minute)):
		to = EndOfDay
	default:
		return 0, 0, validationf("appointment cannot span multiple days")
	}
	return from, to, nil
}

// TransitionStatus drives an appointment through the status state machine.
// Lawyers may take any legal edge on their own appointments; clients may
// only cancel their own, and only from a non-terminal state. The losing side
// of a concurrent transition race receives ErrInvalidTransition.
func (e *Engine) TransitionStatus(ctx context.Context, appointmentID, actorID uint, actorRole string, newStatus models.AppointmentStatus, notes string) (*models.Appointment, error) {
	if !newStatus.Valid() {
		return nil, validationf("unknown status %q", newStatus)
	}

	appointment, err := e.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	switch actorRole {
	case models.RoleLawyer:
		if appointment.LawyerID != actorID {
			return nil, fmt.Errorf("%w: appointment belongs to another lawyer", ErrForbidden)
		}
	case models.RoleClient:
		if appointment.ClientID != actorID {
			return nil, fmt.Errorf("%w: appointment belongs to another client", ErrForbidden)
		}
		if newStatus != models.StatusCancelled {
			return nil, fmt.Errorf("%w: clients may only cancel", ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: role %q may not transition appointments", ErrForbidden, actorRole)
	}

	if !appointment.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, newStatus)
	}

	updated, err := e.appointments.UpdateStatus(ctx, appointmentID, appointment.Status, newStatus, notes)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Guard missed: a concurrent transition won. The caller re-reads.
		return nil, fmt.Errorf("%w: appointment changed concurrently, re-read its state", ErrInvalidTransition)
	}

	appointment.Status = newStatus
	if notes != "" {
		appointment.Notes = notes
	}

	e.notifyCounterparty(ctx, appointment, actorRole, newStatus)
	return appointment, nil
}

func (e *Engine) notifyCounterparty(ctx context.Context, appointment *models.Appointment, actorRole string, newStatus models.AppointmentStatus) {
	recipient := appointment.ClientID
	if actorRole == models.RoleClient {
		recipient = appointment.LawyerID
	}

	kind := models.NotificationAppointmentUpdated
	message := fmt.Sprintf("Your appointment on %s is now %s.",
		appointment.StartTime.Format("January 2, 2006"), newStatus)
	switch newStatus {
	case models.StatusConfirmed:
		kind = models.NotificationAppointmentConfirmed
		message = "Your appointment has been confirmed."
	case models.StatusCancelled:
		kind = models.NotificationAppointmentCancelled
		message = "Your appointment has been cancelled."
	}

	e.notifier.Notify(ctx, recipient, "Appointment Update", message, kind,
		map[string]any{"appointment_id": appointment.ID, "status": string(newStatus)})
}
