package models

import (
	"strings"

	"gorm.io/gorm"
)

// LawyerProfile contains the bookable side of a lawyer account. Verification
// is driven by the admin workflow; this core only reads the flags.
type LawyerProfile struct {
	gorm.Model
	UserID            uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	User              *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Bio               string `json:"bio"`
	LicenseNumber     string `json:"license_number"`
	YearsOfExperience int    `json:"years_of_experience"`
	// PracticeAreas is stored as a comma separated list, e.g. "FAMILY,CRIMINAL".
	PracticeAreas     string  `json:"practice_areas"`
	ConsultationFee   float64 `json:"consultation_fee"`
	Verified          bool    `json:"verified" gorm:"default:false"`
	AcceptingBookings bool    `json:"accepting_bookings" gorm:"default:true"`
	DocumentURL       string  `json:"document_url,omitempty"`
	AvatarURL         string  `json:"avatar_url,omitempty"`
}

// PracticeAreaList splits the stored tag set, dropping empty entries.
func (p *LawyerProfile) PracticeAreaList() []string {
	if p.PracticeAreas == "" {
		return nil
	}
	parts := strings.Split(p.PracticeAreas, ",")
	areas := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			areas = append(areas, trimmed)
		}
	}
	return areas
}

// SetPracticeAreas replaces the stored tag set.
func (p *LawyerProfile) SetPracticeAreas(areas []string) {
	cleaned := make([]string, 0, len(areas))
	for _, area := range areas {
		if trimmed := strings.TrimSpace(area); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	p.PracticeAreas = strings.Join(cleaned, ",")
}

// HasPracticeArea reports whether the tag set contains area (case-insensitive).
func (p *LawyerProfile) HasPracticeArea(area string) bool {
	for _, a := range p.PracticeAreaList() {
		if strings.EqualFold(a, area) {
			return true
		}
	}
	return false
}

// Bookable reports whether the lawyer can appear in availability search.
func (p *LawyerProfile) Bookable() bool {
	return p.Verified && p.AcceptingBookings
}
