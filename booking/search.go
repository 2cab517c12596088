package booking

import (
	"context"
	"sort"
	"time"

	"github.com/lawbridge/lawbridge-api/models"
)

// DefaultSlotDuration is the slot length assumed when searching for free
// lawyers at an instant.
const DefaultSlotDuration = 60 * time.Minute

// SearchFilter enumerates the recognized availability-search filters.
// Anything else in a request is rejected by the HTTP layer rather than
// silently ignored.
type SearchFilter struct {
	Date         time.Time
	Time         TimeOfDay
	PracticeArea string
	SlotDuration time.Duration
}

// Search batch-queries lawyers free at a requested date and time,
// composing the resolver and the conflict checker per candidate.
type Search struct {
	lawyers   LawyerDirectory
	resolver  *Resolver
	conflicts *ConflictChecker
}

func NewSearch(lawyers LawyerDirectory, resolver *Resolver, conflicts *ConflictChecker) *Search {
	return &Search{lawyers: lawyers, resolver: resolver, conflicts: conflicts}
}

// FindAvailableLawyers returns the verified, accepting lawyers that are open
// at the filter's instant and free of conflicting appointments for the
// implied slot. Results are ordered by lawyer id so a fixed input always
// yields the same output.
func (s *Search) FindAvailableLawyers(ctx context.Context, filter SearchFilter) ([]models.LawyerProfile, error) {
	if filter.Date.IsZero() {
		return nil, validationf("search date is required")
	}
	if filter.SlotDuration <= 0 {
		filter.SlotDuration = DefaultSlotDuration
	}

	candidates, err := s.lawyers.FindBookable(ctx, filter.PracticeArea)
	if err != nil {
		return nil, err
	}

	date := DateOf(filter.Date)
	slotStart := date.Add(time.Duration(filter.Time) * time.Minute)
	slotEnd := slotStart.Add(filter.SlotDuration)

	available := make([]models.LawyerProfile, 0, len(candidates))
	for _, lawyer := range candidates {
		open, err := s.resolver.IsOpen(ctx, lawyer.UserID, date, filter.Time)
		if err != nil {
			return nil, err
		}
		if !open {
			continue
		}

		conflict, err := s.conflicts.HasConflict(ctx, lawyer.UserID, slotStart, slotEnd, 0)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}

		available = append(available, lawyer)
	}

	sort.Slice(available, func(i, j int) bool {
		return available[i].UserID < available[j].UserID
	})
	return available, nil
}
