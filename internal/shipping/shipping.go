// Package shipping manages methods, destination zones, and the per-zone rate
// table used to quote a delivery price.
package shipping

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopcore/internal/repo"
	"shopcore/pkg/db"
	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/metrics"
	"shopcore/pkg/validate"
)

// CreateMethodInput defines a carrier offering.
type CreateMethodInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price" validate:"required"`
	IsActive    bool            `json:"is_active"`
}

// CreateZoneInput groups countries priced together. Country codes are
// ISO 3166-1 alpha-2.
type CreateZoneInput struct {
	Name      string   `json:"name" validate:"required"`
	Countries []string `json:"countries" validate:"required,min=1,dive,len=2"`
}

// Service persists shipping configuration and answers quotes.
type Service struct {
	base   repo.Base
	writes *metrics.WriteMetrics
}

// NewService wires the shipping service.
func NewService(conn *gorm.DB, writes *metrics.WriteMetrics) *Service {
	return &Service{base: repo.NewBase(conn), writes: writes}
}

// CreateMethod stores a carrier offering.
func (s *Service) CreateMethod(ctx context.Context, input CreateMethodInput) (*models.ShippingMethod, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("shipping_method", "validation")
		return nil, err
	}
	method := &models.ShippingMethod{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		BasePrice:   input.BasePrice,
		IsActive:    input.IsActive,
	}
	if err := s.base.DB(ctx).Create(method).Error; err != nil {
		mapped := mapWriteError(err)
		s.writes.IncRejected("shipping_method", metrics.Reason(mapped))
		return nil, mapped
	}
	s.writes.IncAccepted("shipping_method")
	return method, nil
}

// CreateZone stores a destination zone.
func (s *Service) CreateZone(ctx context.Context, input CreateZoneInput) (*models.ShippingZone, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("shipping_zone", "validation")
		return nil, err
	}
	zone := &models.ShippingZone{
		ID:        uuid.New(),
		Name:      input.Name,
		Countries: pq.StringArray(input.Countries),
	}
	if err := s.base.DB(ctx).Create(zone).Error; err != nil {
		mapped := mapWriteError(err)
		s.writes.IncRejected("shipping_zone", metrics.Reason(mapped))
		return nil, mapped
	}
	s.writes.IncAccepted("shipping_zone")
	return zone, nil
}

// SetMethodActive toggles whether a method can be quoted.
func (s *Service) SetMethodActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := s.base.DB(ctx).
		Model(&models.ShippingMethod{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "shipping method not found")
	}
	return nil
}

// SetRate prices a method for a zone. A second rate for the same pair is a
// conflict; UpdateRate changes the price on an existing one.
func (s *Service) SetRate(ctx context.Context, methodID, zoneID uuid.UUID, price decimal.Decimal) (*models.ShippingRate, error) {
	if price.Sign() < 0 {
		s.writes.IncRejected("shipping_rate", "validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate price cannot be negative")
	}
	rate := &models.ShippingRate{
		ID:               uuid.New(),
		ShippingMethodID: methodID,
		ZoneID:           zoneID,
		Price:            price,
	}
	if err := s.base.DB(ctx).Create(rate).Error; err != nil {
		mapped := mapWriteError(err)
		s.writes.IncRejected("shipping_rate", metrics.Reason(mapped))
		return nil, mapped
	}
	s.writes.IncAccepted("shipping_rate")
	return rate, nil
}

// UpdateRate changes the price on an existing rate.
func (s *Service) UpdateRate(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	if price.Sign() < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rate price cannot be negative")
	}
	result := s.base.DB(ctx).
		Model(&models.ShippingRate{}).
		Where("id = ?", id).
		Update("price", price)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "rate not found")
	}
	return nil
}

// Quote returns method base price plus the zone rate.
func (s *Service) Quote(ctx context.Context, methodID, zoneID uuid.UUID) (decimal.Decimal, error) {
	var method models.ShippingMethod
	if err := s.base.DB(ctx).First(&method, "id = ? AND is_active = ?", methodID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "shipping method not found")
		}
		return decimal.Zero, err
	}
	var rate models.ShippingRate
	err := s.base.DB(ctx).
		First(&rate, "shipping_method_id = ? AND zone_id = ?", methodID, zoneID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "no rate for method and zone")
		}
		return decimal.Zero, err
	}
	return method.BasePrice.Add(rate.Price), nil
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "rate already set for method and zone")
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced row does not exist")
	default:
		return err
	}
}
