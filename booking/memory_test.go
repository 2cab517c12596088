package booking

import (
	"context"
	"sync"
	"time"

	"github.com/lawbridge/lawbridge-api/models"
)

// In-memory fakes for the repository contracts. The appointment fake keeps
// the same atomicity the real storage gives: InTx serializes nothing by
// itself, the engine's per-lawyer lock is what keeps bookings serial.

type fakeAvailabilityRepo struct {
	mu     sync.Mutex
	nextID uint
	rules  map[uint]models.AvailabilityRule
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{rules: make(map[uint]models.AvailabilityRule)}
}

func (f *fakeAvailabilityRepo) Add(_ context.Context, rule *models.AvailabilityRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rule.ID = f.nextID
	f.rules[rule.ID] = *rule
	return nil
}

func (f *fakeAvailabilityRepo) ListForLawyer(_ context.Context, lawyerID uint, from, to *time.Time) ([]models.AvailabilityRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AvailabilityRule
	for _, rule := range f.rules {
		if rule.LawyerID != lawyerID {
			continue
		}
		if rule.Override() && from != nil && rule.SpecificDate.Before(*from) {
			continue
		}
		if rule.Override() && to != nil && rule.SpecificDate.After(*to) {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) OverridesForDate(_ context.Context, lawyerID uint, date time.Time) ([]models.AvailabilityRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AvailabilityRule
	for _, rule := range f.rules {
		if rule.LawyerID == lawyerID && rule.Override() && SameDate(*rule.SpecificDate, date) {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) RecurringForWeekday(_ context.Context, lawyerID uint, day models.DayOfWeek) ([]models.AvailabilityRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AvailabilityRule
	for _, rule := range f.rules {
		if rule.LawyerID == lawyerID && rule.Recurring() && *rule.DayOfWeek == day {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) Remove(_ context.Context, ruleID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rules[ruleID]; !ok {
		return ErrNotFound
	}
	delete(f.rules, ruleID)
	return nil
}

func (f *fakeAvailabilityRepo) ReplaceRecurring(_ context.Context, lawyerID uint, rules []models.AvailabilityRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, rule := range f.rules {
		if rule.LawyerID == lawyerID && rule.Recurring() {
			delete(f.rules, id)
		}
	}
	for i := range rules {
		f.nextID++
		rules[i].ID = f.nextID
		rules[i].LawyerID = lawyerID
		f.rules[rules[i].ID] = rules[i]
	}
	return nil
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	nextID       uint
	appointments map[uint]models.Appointment
	// failNextTx makes that many InTx calls fail with ErrRetryable before
	// succeeding, to exercise the engine's retry path.
	failNextTx int
	// failNextCreate aborts that many creates with ErrRetryable after the
	// id was already assigned, like a transaction rolled back mid-insert.
	failNextCreate int
	// createIDs records the id each Create call was handed, pre-assignment.
	createIDs []uint
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uint]models.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appointment *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createIDs = append(f.createIDs, appointment.ID)
	// An explicit id is inserted as-is, like the real storage does.
	if appointment.ID == 0 {
		f.nextID++
		appointment.ID = f.nextID
	}
	if appointment.Status == "" {
		appointment.Status = models.StatusPending
	}
	if f.failNextCreate > 0 {
		f.failNextCreate--
		return ErrRetryable
	}
	f.appointments[appointment.ID] = *appointment
	return nil
}

func (f *fakeAppointmentRepo) FindByID(_ context.Context, id uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &appointment, nil
}

func (f *fakeAppointmentRepo) Blocking(_ context.Context, lawyerID uint, _, _ time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, appointment := range f.appointments {
		if appointment.LawyerID == lawyerID && appointment.Status.Blocking() {
			out = append(out, appointment)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uint, from, to models.AppointmentStatus, notes string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[id]
	if !ok {
		return false, ErrNotFound
	}
	if appointment.Status != from {
		return false, nil
	}
	appointment.Status = to
	if notes != "" {
		appointment.Notes = notes
	}
	f.appointments[id] = appointment
	return true, nil
}

func (f *fakeAppointmentRepo) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	if f.failNextTx > 0 {
		f.failNextTx--
		f.mu.Unlock()
		return ErrRetryable
	}
	f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeAppointmentRepo) ListForLawyer(_ context.Context, lawyerID uint, status models.AppointmentStatus, _ *time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, appointment := range f.appointments {
		if appointment.LawyerID == lawyerID && (status == "" || appointment.Status == status) {
			out = append(out, appointment)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ListForClient(_ context.Context, clientID uint, status models.AppointmentStatus) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, appointment := range f.appointments {
		if appointment.ClientID == clientID && (status == "" || appointment.Status == status) {
			out = append(out, appointment)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) countByStatus(status models.AppointmentStatus) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, appointment := range f.appointments {
		if appointment.Status == status {
			n++
		}
	}
	return n
}

type fakeDirectory struct {
	mu      sync.Mutex
	lawyers map[uint]models.LawyerProfile
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{lawyers: make(map[uint]models.LawyerProfile)}
}

func (f *fakeDirectory) add(profile models.LawyerProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lawyers[profile.UserID] = profile
}

func (f *fakeDirectory) Get(_ context.Context, lawyerID uint) (*models.LawyerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.lawyers[lawyerID]
	if !ok {
		return nil, ErrNotFound
	}
	return &profile, nil
}

func (f *fakeDirectory) FindBookable(_ context.Context, practiceArea string) ([]models.LawyerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.LawyerProfile
	for _, profile := range f.lawyers {
		if !profile.Bookable() {
			continue
		}
		if practiceArea != "" && !profile.HasPracticeArea(practiceArea) {
			continue
		}
		out = append(out, profile)
	}
	return out, nil
}

type notifyEvent struct {
	userID uint
	kind   models.NotificationType
	title  string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifyEvent
}

func (f *fakeNotifier) Notify(_ context.Context, userID uint, title, _ string, kind models.NotificationType, _ map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, notifyEvent{userID: userID, kind: kind, title: title})
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func (f *fakeNotifier) last() notifyEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[len(f.events)-1]
}

// helpers shared by the package tests

func dayPtr(d models.DayOfWeek) *models.DayOfWeek { return &d }

func datePtr(t time.Time) *time.Time { return &t }

func mustTimeOfDay(s string) TimeOfDay {
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return tod
}
