package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lawbridge/lawbridge-api/booking"
	"github.com/lawbridge/lawbridge-api/models"
)

// AvailabilityRepository is the postgres-backed rule store.
type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Add(ctx context.Context, rule *models.AvailabilityRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *AvailabilityRepository) ListForLawyer(ctx context.Context, lawyerID uint, from, to *time.Time) ([]models.AvailabilityRule, error) {
	query := r.db.WithContext(ctx).Where("lawyer_id = ?", lawyerID)
	if from != nil && to != nil {
		query = query.Where("specific_date IS NULL OR (specific_date >= ? AND specific_date <= ?)",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var rules []models.AvailabilityRule
	if err := query.Order("day_of_week asc, specific_date asc, start_time asc").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AvailabilityRepository) OverridesForDate(ctx context.Context, lawyerID uint, date time.Time) ([]models.AvailabilityRule, error) {
	var rules []models.AvailabilityRule
	err := r.db.WithContext(ctx).
		Where("lawyer_id = ? AND specific_date = ?", lawyerID, date.Format("2006-01-02")).
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AvailabilityRepository) RecurringForWeekday(ctx context.Context, lawyerID uint, day models.DayOfWeek) ([]models.AvailabilityRule, error) {
	var rules []models.AvailabilityRule
	err := r.db.WithContext(ctx).
		Where("lawyer_id = ? AND day_of_week = ? AND specific_date IS NULL", lawyerID, day).
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AvailabilityRepository) Remove(ctx context.Context, ruleID uint) error {
	result := r.db.WithContext(ctx).Delete(&models.AvailabilityRule{}, ruleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return booking.ErrNotFound
	}
	return nil
}

// ReplaceRecurring swaps the lawyer's weekly schedule inside one transaction
// so readers never see it half-replaced.
func (r *AvailabilityRepository) ReplaceRecurring(ctx context.Context, lawyerID uint, rules []models.AvailabilityRule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("lawyer_id = ? AND day_of_week IS NOT NULL", lawyerID).
			Delete(&models.AvailabilityRule{}).Error
		if err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		return tx.Create(&rules).Error
	})
}

// FindByID is used by the HTTP layer for ownership checks before removal.
func (r *AvailabilityRepository) FindByID(ctx context.Context, ruleID uint) (*models.AvailabilityRule, error) {
	var rule models.AvailabilityRule
	if err := r.db.WithContext(ctx).First(&rule, ruleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}
