// Package subscriptions manages recurring plans and enrollments. Plans are
// protected rows: they cannot be deleted while subscriptions reference them.
package subscriptions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopcore/internal/repo"
	"shopcore/pkg/db"
	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/metrics"
	"shopcore/pkg/validate"
)

// CreatePlanInput defines a recurring offering.
type CreatePlanInput struct {
	Name             string          `json:"name" validate:"required"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price" validate:"required"`
	BillingCycleDays int             `json:"billing_cycle_days" validate:"gte=1"`
	IsActive         bool            `json:"is_active"`
}

// EnrollInput starts a subscription.
type EnrollInput struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	PlanID    uuid.UUID `json:"plan_id" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// Service persists plans and enrollments.
type Service struct {
	base   repo.Base
	writes *metrics.WriteMetrics
}

// NewService wires the subscriptions service.
func NewService(conn *gorm.DB, writes *metrics.WriteMetrics) *Service {
	return &Service{base: repo.NewBase(conn), writes: writes}
}

// CreatePlan stores a recurring offering.
func (s *Service) CreatePlan(ctx context.Context, input CreatePlanInput) (*models.SubscriptionPlan, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("subscription_plan", "validation")
		return nil, err
	}
	plan := &models.SubscriptionPlan{
		ID:               uuid.New(),
		Name:             input.Name,
		Description:      input.Description,
		Price:            input.Price,
		BillingCycleDays: input.BillingCycleDays,
		IsActive:         input.IsActive,
	}
	if err := s.base.DB(ctx).Create(plan).Error; err != nil {
		s.writes.IncRejected("subscription_plan", "internal")
		return nil, err
	}
	s.writes.IncAccepted("subscription_plan")
	return plan, nil
}

// DeletePlan removes a plan unless any subscription still references it.
func (s *Service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	err := s.base.DB(ctx).Where("id = ?", id).Delete(&models.SubscriptionPlan{}).Error
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			mapped := pkgerrors.Wrap(pkgerrors.CodeProtected, err, "plan has active subscriptions")
			s.writes.IncRejected("subscription_plan", metrics.Reason(mapped))
			return mapped
		}
		return err
	}
	s.writes.IncAccepted("subscription_plan")
	return nil
}

// Enroll starts a subscription to a plan.
func (s *Service) Enroll(ctx context.Context, input EnrollInput) (*models.Subscription, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("subscription", "validation")
		return nil, err
	}
	if !input.EndDate.After(input.StartDate) {
		s.writes.IncRejected("subscription", "validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription window is empty")
	}

	subscription := &models.Subscription{
		ID:        uuid.New(),
		UserID:    input.UserID,
		PlanID:    input.PlanID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		IsActive:  true,
	}
	if err := s.base.DB(ctx).Create(subscription).Error; err != nil {
		if db.IsForeignKeyViolation(err) {
			mapped := pkgerrors.Wrap(pkgerrors.CodeValidation, err, "user or plan does not exist")
			s.writes.IncRejected("subscription", metrics.Reason(mapped))
			return nil, mapped
		}
		s.writes.IncRejected("subscription", "internal")
		return nil, err
	}
	s.writes.IncAccepted("subscription")
	return subscription, nil
}

// Cancel deactivates a subscription without deleting its history.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	result := s.base.DB(ctx).
		Model(&models.Subscription{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "active subscription not found")
	}
	return nil
}

// Get loads a subscription.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := s.base.DB(ctx).First(&subscription, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "subscription not found")
		}
		return nil, err
	}
	return &subscription, nil
}

// ListActiveForUser returns a user's active subscriptions.
func (s *Service) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	var rows []models.Subscription
	err := s.base.DB(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("start_date DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
