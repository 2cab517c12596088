package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lawbridge/lawbridge-api/booking"
	"github.com/lawbridge/lawbridge-api/models"
)

// LawyerRepository exposes the read side of the lawyer directory.
type LawyerRepository struct {
	db *gorm.DB
}

func NewLawyerRepository(db *gorm.DB) *LawyerRepository {
	return &LawyerRepository{db: db}
}

// Get returns the profile keyed by the lawyer's user id.
func (r *LawyerRepository) Get(ctx context.Context, lawyerID uint) (*models.LawyerProfile, error) {
	var profile models.LawyerProfile
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", lawyerID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindBookable returns verified lawyers accepting bookings. The SQL filter
// narrows on the stored tag list; the exact case-insensitive tag match
// happens in Go because practice areas are stored comma separated.
func (r *LawyerRepository) FindBookable(ctx context.Context, practiceArea string) ([]models.LawyerProfile, error) {
	query := r.db.WithContext(ctx).Preload("User").
		Where("verified = ? AND accepting_bookings = ?", true, true)
	if practiceArea != "" {
		query = query.Where("practice_areas ILIKE ?", "%"+practiceArea+"%")
	}

	var profiles []models.LawyerProfile
	if err := query.Order("user_id asc").Find(&profiles).Error; err != nil {
		return nil, err
	}

	if practiceArea == "" {
		return profiles, nil
	}
	matched := make([]models.LawyerProfile, 0, len(profiles))
	for _, profile := range profiles {
		if profile.HasPracticeArea(practiceArea) {
			matched = append(matched, profile)
		}
	}
	return matched, nil
}
