package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// AvailabilityRule is a window of open time for a lawyer. A rule is either
// recurring (DayOfWeek set, SpecificDate nil) or a date override
// (SpecificDate set, DayOfWeek nil); exactly one of the two must be set.
// Override rules fully supersede recurring rules for their date.
type AvailabilityRule struct {
	gorm.Model
	LawyerID     uint       `json:"lawyer_id" gorm:"index;not null"`
	Lawyer       *User      `json:"lawyer,omitempty" gorm:"foreignKey:LawyerID"`
	DayOfWeek    *DayOfWeek `json:"day_of_week"`
	SpecificDate *time.Time `json:"specific_date" gorm:"type:date;index"`
	StartTime    string     `json:"start_time"` // Format "HH:MM" in 24h
	EndTime      string     `json:"end_time"`   // Format "HH:MM" in 24h
	Active       bool       `json:"active" gorm:"default:true"`
}

// Recurring reports whether the rule repeats weekly.
func (r *AvailabilityRule) Recurring() bool {
	return r.DayOfWeek != nil && r.SpecificDate == nil
}

// Override reports whether the rule applies to a single calendar date.
func (r *AvailabilityRule) Override() bool {
	return r.SpecificDate != nil && r.DayOfWeek == nil
}

func (r *AvailabilityRule) BeforeSave(tx *gorm.DB) error {
	if r.DayOfWeek == nil && r.SpecificDate == nil {
		return fmt.Errorf("availability rule needs a day of week or a specific date")
	}
	if r.DayOfWeek != nil && r.SpecificDate != nil {
		return fmt.Errorf("availability rule cannot have both a day of week and a specific date")
	}
	if r.DayOfWeek != nil && (*r.DayOfWeek < Sunday || *r.DayOfWeek > Saturday) {
		return fmt.Errorf("invalid day of week: %d", *r.DayOfWeek)
	}
	return nil
}
