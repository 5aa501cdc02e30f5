package promotions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/logger"
	"shopcore/pkg/metrics"
	"shopcore/pkg/validate"
)

// CreateCouponInput defines a new discount code.
type CreateCouponInput struct {
	Code              string           `json:"code" validate:"required"`
	Description       string           `json:"description"`
	DiscountValue     decimal.Decimal  `json:"discount_value" validate:"required"`
	IsPercentage      bool             `json:"is_percentage"`
	MinPurchaseAmount *decimal.Decimal `json:"min_purchase_amount"`
	ValidFrom         time.Time        `json:"valid_from" validate:"required"`
	ValidTo           time.Time        `json:"valid_to" validate:"required"`
	MaxUses           *int             `json:"max_uses" validate:"omitempty,gte=1"`
}

// Redemption is the outcome of applying a coupon to a purchase amount.
type Redemption struct {
	Coupon   *models.Coupon
	Discount decimal.Decimal
}

// Service owns coupon definitions and the redemption guard.
type Service struct {
	conn   *gorm.DB
	repo   *Repository
	log    *logger.Logger
	writes *metrics.WriteMetrics
	now    func() time.Time
}

// NewService wires the promotions service.
func NewService(conn *gorm.DB, logg *logger.Logger, writes *metrics.WriteMetrics) *Service {
	return &Service{
		conn:   conn,
		repo:   NewRepository(conn),
		log:    logg,
		writes: writes,
		now:    time.Now,
	}
}

// CreateCoupon validates and stores a discount code.
func (s *Service) CreateCoupon(ctx context.Context, input CreateCouponInput) (*models.Coupon, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("coupon", "validation")
		return nil, err
	}
	if !input.ValidTo.After(input.ValidFrom) {
		s.writes.IncRejected("coupon", "validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validity window is empty")
	}
	if input.DiscountValue.Sign() <= 0 {
		s.writes.IncRejected("coupon", "validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if input.IsPercentage && input.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		s.writes.IncRejected("coupon", "validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}

	coupon := &models.Coupon{
		ID:                uuid.New(),
		Code:              input.Code,
		Description:       input.Description,
		DiscountValue:     input.DiscountValue,
		IsPercentage:      input.IsPercentage,
		MinPurchaseAmount: input.MinPurchaseAmount,
		ValidFrom:         input.ValidFrom,
		ValidTo:           input.ValidTo,
		MaxUses:           input.MaxUses,
	}
	if _, err := s.repo.Create(ctx, coupon); err != nil {
		s.writes.IncRejected("coupon", metrics.Reason(err))
		return nil, err
	}
	s.writes.IncAccepted("coupon")
	return coupon, nil
}

// Redeem applies the code to a purchase amount. The window and minimum are
// checked first; the usage cap is enforced by a guarded increment so two
// concurrent redemptions cannot both take the last slot.
func (s *Service) Redeem(ctx context.Context, code string, purchaseAmount decimal.Decimal) (*Redemption, error) {
	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		s.writes.IncRejected("coupon_redemption", metrics.Reason(err))
		return nil, err
	}

	at := s.now()
	if at.Before(coupon.ValidFrom) || at.After(coupon.ValidTo) {
		s.writes.IncRejected("coupon_redemption", "window")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon is outside its validity window")
	}
	if coupon.MinPurchaseAmount != nil && purchaseAmount.LessThan(*coupon.MinPurchaseAmount) {
		s.writes.IncRejected("coupon_redemption", "min_purchase")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase amount below coupon minimum").
			WithDetails(map[string]any{"minimum": coupon.MinPurchaseAmount.String()})
	}

	affected, err := s.repo.IncrementUsage(ctx, coupon.ID)
	if err != nil {
		s.writes.IncRejected("coupon_redemption", metrics.Reason(err))
		return nil, err
	}
	if affected == 0 {
		s.writes.IncRejected("coupon_redemption", "exhausted")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon usage cap reached")
	}

	discount := coupon.DiscountValue
	if coupon.IsPercentage {
		discount = purchaseAmount.Mul(coupon.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
	}
	if discount.GreaterThan(purchaseAmount) {
		discount = purchaseAmount
	}

	coupon.TimesUsed++
	s.writes.IncAccepted("coupon_redemption")
	s.log.Info(s.log.WithEntity(ctx, "coupon"), "coupon redeemed")
	return &Redemption{Coupon: coupon, Discount: discount}, nil
}
