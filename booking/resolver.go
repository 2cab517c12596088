package booking

import (
	"context"
	"log"
	"time"

	"github.com/lawbridge/lawbridge-api/models"
)

// Resolver determines whether a lawyer is open for business at a given
// instant, applying override precedence: if any override rule exists for a
// date, the day's availability is defined exclusively by the active
// overrides and recurring rules are ignored entirely.
type Resolver struct {
	rules AvailabilityRepository
}

func NewResolver(rules AvailabilityRepository) *Resolver {
	return &Resolver{rules: rules}
}

// candidateRules returns the active rules that define the lawyer's schedule
// for date. A date whose overrides are all inactive yields no candidates:
// the lawyer is closed all day regardless of the recurring schedule.
func (r *Resolver) candidateRules(ctx context.Context, lawyerID uint, date time.Time) ([]models.AvailabilityRule, error) {
	overrides, err := r.rules.OverridesForDate(ctx, lawyerID, DateOf(date))
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		return activeRules(overrides), nil
	}

	recurring, err := r.rules.RecurringForWeekday(ctx, lawyerID, models.DayOfWeek(date.Weekday()))
	if err != nil {
		return nil, err
	}
	return activeRules(recurring), nil
}

// IsOpen reports whether the lawyer is open at the given wall-clock instant
// on date. A date with no matching rules means closed, not an error.
func (r *Resolver) IsOpen(ctx context.Context, lawyerID uint, date time.Time, at TimeOfDay) (bool, error) {
	candidates, err := r.candidateRules(ctx, lawyerID, date)
	if err != nil {
		return false, err
	}
	for _, rule := range candidates {
		window, err := parseRuleWindow(rule.StartTime, rule.EndTime)
		if err != nil {
			log.Printf("skipping malformed availability rule %d: %v", rule.ID, err)
			continue
		}
		if window.contains(at) {
			return true, nil
		}
	}
	return false, nil
}

// CoversWindow reports whether the whole interval [from, to) lies inside a
// single rule window on date. Used by the booking path so an appointment
// cannot spill past the end of an availability window.
func (r *Resolver) CoversWindow(ctx context.Context, lawyerID uint, date time.Time, from, to TimeOfDay) (bool, error) {
	candidates, err := r.candidateRules(ctx, lawyerID, date)
	if err != nil {
		return false, err
	}
	for _, rule := range candidates {
		window, err := parseRuleWindow(rule.StartTime, rule.EndTime)
		if err != nil {
			log.Printf("skipping malformed availability rule %d: %v", rule.ID, err)
			continue
		}
		if window.covers(from, to) {
			return true, nil
		}
	}
	return false, nil
}

func activeRules(rules []models.AvailabilityRule) []models.AvailabilityRule {
	active := make([]models.AvailabilityRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Active {
			active = append(active, rule)
		}
	}
	return active
}
