package booking

import (
	"context"
	"time"

	"github.com/lawbridge/lawbridge-api/models"
)

// Store owns availability-rule writes. It validates the rule shape and
// defers everything else to storage; no scheduling logic lives here.
type Store struct {
	rules   AvailabilityRepository
	lawyers LawyerDirectory
}

func NewStore(rules AvailabilityRepository, lawyers LawyerDirectory) *Store {
	return &Store{rules: rules, lawyers: lawyers}
}

// AddRule validates and persists one availability rule.
func (s *Store) AddRule(ctx context.Context, rule *models.AvailabilityRule) error {
	if err := s.validateRule(rule); err != nil {
		return err
	}
	if _, err := s.lawyers.Get(ctx, rule.LawyerID); err != nil {
		return err
	}
	return s.rules.Add(ctx, rule)
}

// ListRules returns the lawyer's rules, with overrides optionally limited to
// a date range.
func (s *Store) ListRules(ctx context.Context, lawyerID uint, from, to *time.Time) ([]models.AvailabilityRule, error) {
	if _, err := s.lawyers.Get(ctx, lawyerID); err != nil {
		return nil, err
	}
	return s.rules.ListForLawyer(ctx, lawyerID, from, to)
}

// RemoveRule deletes one rule. Unknown ids surface ErrNotFound.
func (s *Store) RemoveRule(ctx context.Context, ruleID uint) error {
	return s.rules.Remove(ctx, ruleID)
}

// ReplaceRecurring swaps the lawyer's whole weekly schedule in one atomic
// write: readers never observe the schedule half-replaced.
func (s *Store) ReplaceRecurring(ctx context.Context, lawyerID uint, rules []models.AvailabilityRule) error {
	if _, err := s.lawyers.Get(ctx, lawyerID); err != nil {
		return err
	}
	for i := range rules {
		rules[i].LawyerID = lawyerID
		if rules[i].SpecificDate != nil {
			return validationf("recurring schedule cannot contain date overrides")
		}
		if err := s.validateRule(&rules[i]); err != nil {
			return err
		}
	}
	return s.rules.ReplaceRecurring(ctx, lawyerID, rules)
}

func (s *Store) validateRule(rule *models.AvailabilityRule) error {
	if rule.LawyerID == 0 {
		return validationf("lawyer is required")
	}
	if rule.DayOfWeek == nil && rule.SpecificDate == nil {
		return validationf("rule needs a day of week or a specific date")
	}
	if rule.DayOfWeek != nil && rule.SpecificDate != nil {
		return validationf("rule cannot have both a day of week and a specific date")
	}
	if rule.DayOfWeek != nil && (*rule.DayOfWeek < models.Sunday || *rule.DayOfWeek > models.Saturday) {
		return validationf("day of week must be between 0 and 6")
	}
	if _, err := parseRuleWindow(rule.StartTime, rule.EndTime); err != nil {
		return validationf("%v", err)
	}
	return nil
}
