package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lawbridge/lawbridge-api/models"
)

// Oct 5 2026 is a Monday; the tests book on Tuesday Oct 6.
var testNow = time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC)

type engineFixture struct {
	engine       *Engine
	availability *fakeAvailabilityRepo
	appointments *fakeAppointmentRepo
	directory    *fakeDirectory
	notifier     *fakeNotifier
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	availability := newFakeAvailabilityRepo()
	appointments := newFakeAppointmentRepo()
	directory := newFakeDirectory()
	notifier := &fakeNotifier{}

	engine := NewEngine(availability, appointments, directory, notifier)
	engine.now = func() time.Time { return testNow }
	engine.retryDelay = func() time.Duration { return 0 }

	directory.add(models.LawyerProfile{UserID: 1, Verified: true, AcceptingBookings: true, PracticeAreas: "FAMILY"})

	// Recurring Tuesday 09:00-17:00 for lawyer 1.
	availability.Add(context.Background(), &models.AvailabilityRule{
		LawyerID:  1,
		DayOfWeek: dayPtr(models.Tuesday),
		StartTime: "09:00",
		EndTime:   "17:00",
		Active:    true,
	})

	return &engineFixture{
		engine:       engine,
		availability: availability,
		appointments: appointments,
		directory:    directory,
		notifier:     notifier,
	}
}

func (f *engineFixture) createInput(start, end time.Time) CreateAppointmentInput {
	return CreateAppointmentInput{
		ClientID:     100,
		LawyerID:     1,
		StartTime:    start,
		EndTime:      end,
		Title:        "Initial consultation",
		PracticeArea: "FAMILY",
	}
}

func tuesdayAt(h, m int) time.Time {
	return time.Date(2026, 10, 6, h, m, 0, 0, time.UTC)
}

func TestCreateAppointmentSuccess(t *testing.T) {
	f := newEngineFixture(t)

	appointment, err := f.engine.CreateAppointment(context.Background(), f.createInput(tuesdayAt(10, 0), tuesdayAt(11, 0)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appointment.Status != models.StatusPending {
		t.Errorf("new appointment status = %s, want PENDING", appointment.Status)
	}
	if appointment.ID == 0 {
		t.Error("appointment was not persisted")
	}
	if f.notifier.count() != 1 {
		t.Fatalf("notifications sent = %d, want 1", f.notifier.count())
	}
	if event := f.notifier.last(); event.userID != 1 || event.kind != models.NotificationAppointmentRequest {
		t.Errorf("unexpected notification %+v", event)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"end before start", tuesdayAt(11, 0), tuesdayAt(10, 0)},
		{"end equals start", tuesdayAt(10, 0), tuesdayAt(10, 0)},
		{"in the past", testNow.AddDate(0, 0, -7), testNow.AddDate(0, 0, -7).Add(time.Hour)},
		{"spans days", tuesdayAt(16, 0), tuesdayAt(16, 0).AddDate(0, 0, 1)},
		{"start mid-minute", tuesdayAt(10, 0).Add(30 * time.Second), tuesdayAt(11, 0)},
		{"end mid-minute", tuesdayAt(16, 0), tuesdayAt(16, 59).Add(30 * time.Second)},
	}
	for _, tc := range cases {
		_, err := f.engine.CreateAppointment(ctx, f.createInput(tc.start, tc.end))
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: error = %v, want ErrValidation", tc.name, err)
		}
	}
}

func TestCreateAppointmentUnknownLawyer(t *testing.T) {
	f := newEngineFixture(t)

	in := f.createInput(tuesdayAt(10, 0), tuesdayAt(11, 0))
	in.LawyerID = 99

	_, err := f.engine.CreateAppointment(context.Background(), in)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateAppointmentOutsideAvailability(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	// 16:30-17:30 spills past the 17:00 window end.
	_, err := f.engine.CreateAppointment(ctx, f.createInput(tuesdayAt(16, 30), tuesdayAt(17, 30)))
	if !errors.Is(err, ErrConflict) {
		t.Errorf("window overrun: error = %v, want ErrConflict", err)
	}

	// Wednesday has no rules at all.
	wednesday := tuesdayAt(10, 0).AddDate(0, 0, 1)
	_, err = f.engine.CreateAppointment(ctx, f.createInput(wednesday, wednesday.Add(time.Hour)))
	if !errors.Is(err, ErrConflict) {
		t.Errorf("closed day: error = %v, want ErrConflict", err)
	}
}

func TestCreateAppointmentOverrideClosesDay(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	// Override limits Oct 6 to the morning, superseding the 09:00-17:00
	// recurring rule.
	f.availability.Add(ctx, &models.AvailabilityRule{
		LawyerID:     1,
		SpecificDate: datePtr(tuesdayAt(0, 0)),
		StartTime:    "09:00",
		EndTime:      "12:00",
		Active:       true,
	})

	_, err := f.engine.CreateAppointment(ctx, f.createInput(tuesdayAt(14, 0), tuesdayAt(15, 0)))
	if !errors.Is(err, ErrConflict) {
		t.Errorf("error = %v, want ErrConflict for overridden afternoon", err)
	}

	if _, err := f.engine.CreateAppointment(ctx, f.createInput(tuesdayAt(10, 0), tuesdayAt(11, 0))); err != nil {
		t.Errorf("booking inside the override window should succeed, got %v", err)
	}
}

func TestCreateAppointmentDoubleBooking(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	if _, err := f.engine.CreateAppointment(ctx, f.createInput(tuesdayAt(10, 0), tuesdayAt(11, 0))); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := f.engine.CreateAppointment(ctx, f.createInput(tuesdayAt(10, 30), tuesdayAt(11, 30)))
	if !errors.Is(err, ErrConflict) {
		t.Errorf("overlapping booking: error = %v, want ErrConflict", err)
	}

	// Back-to-back is fine: intervals are half-open.
	if _, err := f.engine.CreateAppointment(ctx, f.createInput(tuesdayAt(11, 0), tuesdayAt(12, 0))); err != nil {
		t.Errorf("back-to-back booking should succeed, got %v", err)
	}
}

func TestCreateAppointmentConcurrent(t *testing.T) {
	f := newEngineFixture(t)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := f.createInput(tuesdayAt(10, 0), tuesdayAt(11, 0))
			in.ClientID = uint(100 + i)
			_, errs[i] = f.engine.CreateAppointment(context.Background(), in)
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error kind: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if conflicts != n-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, n-1)
	}
	if got := f.appointments.countByStatus(models.StatusPending); got != 1 {
		t.Errorf("PENDING appointments persisted = %d, want 1", got)
	}
}

func TestCreateAppointmentRetriesOnWriteConflict(t *testing.T) {
	f := newEngineFixture(t)
	f.appointments.failNextTx = 1

	if _, err := f.engine.CreateAppointment(context.Background(), f.createInput(tuesdayAt(10, 0), tuesdayAt(11, 0))); err != nil {
		t.Fatalf("one write conflict should be retried away, got %v", err)
	}

	f.appointments.failNextTx = 2
	_, err := f.engine.CreateAppointment(context.Background(), f.createInput(tuesdayAt(14, 0), tuesdayAt(15, 0)))
	if !errors.Is(err, ErrConflict) {
		t.Errorf("persistent write conflicts surface as ErrConflict, got %v", err)
	}
}

func TestCreateAppointmentRetryInsertsFreshRow(t *testing.T) {
	f := newEngineFixture(t)
	// Abort mid-insert: the first attempt assigns an id and rolls back.
	f.appointments.failNextCreate = 1

	appointment, err := f.engine.CreateAppointment(context.Background(), f.createInput(tuesdayAt(10, 0), tuesdayAt(11, 0)))
	if err != nil {
		t.Fatalf("retried booking failed: %v", err)
	}

	for i, id := range f.appointments.createIDs {
		if id != 0 {
			t.Errorf("insert %d reused stale id %d, want a fresh row each attempt", i, id)
		}
	}
	if f.appointments.countByStatus(models.StatusPending) != 1 {
		t.Errorf("persisted PENDING rows = %d, want 1", f.appointments.countByStatus(models.StatusPending))
	}
	if appointment.ID == 0 {
		t.Error("appointment was not persisted")
	}
}

func TestTransitionStatusLifecycle(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	appointment, err := f.engine.CreateAppointment(ctx, f.createInput(tuesdayAt(10, 0), tuesdayAt(11, 0)))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	confirmed, err := f.engine.TransitionStatus(ctx, appointment.ID, 1, models.RoleLawyer, models.StatusConfirmed, "")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != models.StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", confirmed.Status)
	}
	if event := f.notifier.last(); event.userID != 100 || event.kind != models.NotificationAppointmentConfirmed {
		t.Errorf("client should be notified of confirmation, got %+v", event)
	}

	completed, err := f.engine.TransitionStatus(ctx, appointment.ID, 1, models.RoleLawyer, models.StatusCompleted, "met at office")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.Notes != "met at office" {
		t.Errorf("notes = %q, want them persisted", completed.Notes)
	}
}

func TestTransitionStatusTerminalStatesAreFinal(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	targets := []models.AppointmentStatus{
		models.StatusPending, models.StatusScheduled, models.StatusConfirmed,
		models.StatusCompleted, models.StatusCancelled, models.StatusNoShow,
	}
	for _, terminal := range []models.AppointmentStatus{models.StatusCancelled, models.StatusCompleted, models.StatusNoShow} {
		appointment := seedAppointment(t, f.appointments, 1, tuesdayAt(10, 0), tuesdayAt(11, 0), terminal)
		for _, next := range targets {
			_, err := f.engine.TransitionStatus(ctx, appointment.ID, 1, models.RoleLawyer, next, "")
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s -> %s: error = %v, want ErrInvalidTransition", terminal, next, err)
			}
		}
	}
}

func TestTransitionStatusAuthorization(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	appointment, err := f.engine.CreateAppointment(ctx, f.createInput(tuesdayAt(10, 0), tuesdayAt(11, 0)))
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	// Another lawyer may not touch it.
	if _, err := f.engine.TransitionStatus(ctx, appointment.ID, 2, models.RoleLawyer, models.StatusConfirmed, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign lawyer: error = %v, want ErrForbidden", err)
	}

	// The client may not confirm, only cancel.
	if _, err := f.engine.TransitionStatus(ctx, appointment.ID, 100, models.RoleClient, models.StatusConfirmed, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("client confirm: error = %v, want ErrForbidden", err)
	}

	// Another client may not cancel it.
	if _, err := f.engine.TransitionStatus(ctx, appointment.ID, 101, models.RoleClient, models.StatusCancelled, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign client: error = %v, want ErrForbidden", err)
	}

	// The owning client cancels; the lawyer is notified.
	cancelled, err := f.engine.TransitionStatus(ctx, appointment.ID, 100, models.RoleClient, models.StatusCancelled, "")
	if err != nil {
		t.Fatalf("client cancel failed: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}
	if event := f.notifier.last(); event.userID != 1 || event.kind != models.NotificationAppointmentCancelled {
		t.Errorf("lawyer should be notified of cancellation, got %+v", event)
	}
}

func TestTransitionStatusNotFoundAndUnknownStatus(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	if _, err := f.engine.TransitionStatus(ctx, 999, 1, models.RoleLawyer, models.StatusConfirmed, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown appointment: error = %v, want ErrNotFound", err)
	}

	appointment := seedAppointment(t, f.appointments, 1, tuesdayAt(10, 0), tuesdayAt(11, 0), models.StatusPending)
	if _, err := f.engine.TransitionStatus(ctx, appointment.ID, 1, models.RoleLawyer, "ARCHIVED", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown status: error = %v, want ErrValidation", err)
	}
}

func TestTransitionStatusLostRace(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	appointment := seedAppointment(t, f.appointments, 1, tuesdayAt(10, 0), tuesdayAt(11, 0), models.StatusPending)

	// Simulate a concurrent winner flipping the row between read and write.
	if ok, err := f.appointments.UpdateStatus(ctx, appointment.ID, models.StatusPending, models.StatusCancelled, ""); err != nil || !ok {
		t.Fatalf("seed race: ok=%v err=%v", ok, err)
	}

	// The loser re-reads CANCELLED, which is terminal.
	_, err := f.engine.TransitionStatus(ctx, appointment.ID, 1, models.RoleLawyer, models.StatusConfirmed, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("lost race: error = %v, want ErrInvalidTransition", err)
	}
}

// The end-to-end booking scenario: book, conflicting retry, cancel, rebook.
func TestBookCancelRebookScenario(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	first, err := f.engine.CreateAppointment(ctx, f.createInput(tuesdayAt(10, 0), tuesdayAt(11, 0)))
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	second := f.createInput(tuesdayAt(10, 30), tuesdayAt(11, 30))
	second.ClientID = 101
	if _, err := f.engine.CreateAppointment(ctx, second); !errors.Is(err, ErrConflict) {
		t.Fatalf("overlapping booking: error = %v, want ErrConflict", err)
	}

	if _, err := f.engine.TransitionStatus(ctx, first.ID, 1, models.RoleLawyer, models.StatusCancelled, "client asked to reschedule"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	retried, err := f.engine.CreateAppointment(ctx, second)
	if err != nil {
		t.Fatalf("rebooking after cancellation failed: %v", err)
	}
	if retried.Status != models.StatusPending {
		t.Errorf("rebooked status = %s, want PENDING", retried.Status)
	}
}
