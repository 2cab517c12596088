package booking

import (
	"context"
	"time"
)

// ConflictChecker decides whether a candidate time range collides with an
// existing appointment in a blocking status. Intervals are half-open:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && e1 > s2, so back-to-back
// appointments never conflict.
type ConflictChecker struct {
	appointments AppointmentRepository
}

func NewConflictChecker(appointments AppointmentRepository) *ConflictChecker {
	return &ConflictChecker{appointments: appointments}
}

// HasConflict reports whether any blocking-status appointment of the lawyer
// overlaps [start, end). excludeID, when non-zero, skips that appointment so
// a status re-check never conflicts with itself.
func (c *ConflictChecker) HasConflict(ctx context.Context, lawyerID uint, start, end time.Time, excludeID uint) (bool, error) {
	candidates, err := c.appointments.Blocking(ctx, lawyerID, start, end)
	if err != nil {
		return false, err
	}
	for _, existing := range candidates {
		if excludeID != 0 && existing.ID == excludeID {
			continue
		}
		if !existing.Status.Blocking() {
			continue
		}
		if start.Before(existing.EndTime) && end.After(existing.StartTime) {
			return true, nil
		}
	}
	return false, nil
}
