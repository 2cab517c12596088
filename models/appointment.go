package models

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
)

type MeetingType string

const (
	MeetingVirtual  MeetingType = "VIRTUAL"
	MeetingInPerson MeetingType = "IN_PERSON"
)

// BlockingStatuses are the statuses that count toward conflict detection.
// Appointments in any other status never block a slot.
var BlockingStatuses = []AppointmentStatus{StatusPending, StatusScheduled, StatusConfirmed}

// statusTransitions is the full transition graph. Terminal statuses have no
// outgoing edges.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusScheduled, StatusConfirmed, StatusCancelled},
	StatusScheduled: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// Blocking reports whether s participates in conflict checks.
func (s AppointmentStatus) Blocking() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s AppointmentStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0
}

// CanTransitionTo reports whether the edge s -> next exists in the graph.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status value.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	gorm.Model
	ClientID     uint              `json:"client_id" gorm:"index;not null"`
	Client       *User             `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	LawyerID     uint              `json:"lawyer_id" gorm:"index;not null"`
	Lawyer       *User             `json:"lawyer,omitempty" gorm:"foreignKey:LawyerID"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	StartTime    time.Time         `json:"start_time" gorm:"index;not null"`
	EndTime      time.Time         `json:"end_time" gorm:"not null"`
	Status       AppointmentStatus `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	MeetingType  MeetingType       `json:"meeting_type" gorm:"type:varchar(20);default:'VIRTUAL'"`
	PracticeArea string            `json:"practice_area"`
	Notes        string            `json:"notes"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.MeetingType == "" {
		a.MeetingType = MeetingVirtual
	}
	return nil
}
