package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shopcore/pkg/db/models"
	"shopcore/pkg/enums"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/logger"
	"shopcore/pkg/metrics"
	"shopcore/pkg/validate"
)

// OrderItemInput is one requested line on a new order.
type OrderItemInput struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
}

// CreateOrderInput carries everything needed to place an order. Unit prices
// are not accepted from the caller; they are snapshotted from the catalog at
// placement time.
type CreateOrderInput struct {
	UserID            *uuid.UUID       `json:"user_id"`
	ShippingAddressID uuid.UUID        `json:"shipping_address_id" validate:"required"`
	BillingAddressID  uuid.UUID        `json:"billing_address_id" validate:"required"`
	Items             []OrderItemInput `json:"items" validate:"required,min=1"`
}

// RecordPaymentInput registers a gateway attempt against an order.
type RecordPaymentInput struct {
	OrderID       uuid.UUID       `json:"order_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Method        string          `json:"method" validate:"required"`
	TransactionID string          `json:"transaction_id" validate:"required"`
}

// Service owns order placement and the status lifecycles.
type Service struct {
	conn   *gorm.DB
	repo   *Repository
	log    *logger.Logger
	writes *metrics.WriteMetrics
}

// NewService wires the orders service.
func NewService(conn *gorm.DB, logg *logger.Logger, writes *metrics.WriteMetrics) *Service {
	return &Service{
		conn:   conn,
		repo:   NewRepository(conn),
		log:    logg,
		writes: writes,
	}
}

// variantPricing is the catalog snapshot an order line is priced from.
type variantPricing struct {
	BasePrice       decimal.Decimal
	PriceAdjustment decimal.Decimal
}

func (s *Service) lookupPricing(ctx context.Context, tx *gorm.DB, variantID uuid.UUID) (*variantPricing, error) {
	var pricing variantPricing
	err := tx.WithContext(ctx).
		Table("product_variants").
		Select("products.base_price AS base_price, product_variants.price_adjustment AS price_adjustment").
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("product_variants.id = ?", variantID).
		Take(&pricing).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not exist").
				WithDetails(map[string]any{"variant_id": variantID.String()})
		}
		return nil, err
	}
	return &pricing, nil
}

// Create places the order: header, priced lines, and total are written in one
// transaction. Line validation failures are aggregated so the caller sees all
// of them at once.
func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("order", "validation")
		return nil, err
	}
	lineValues := make([]any, 0, len(input.Items))
	for i := range input.Items {
		lineValues = append(lineValues, &input.Items[i])
	}
	if err := validate.All(lineValues...); err != nil {
		s.writes.IncRejected("order", "validation")
		return nil, err
	}
	seen := make(map[uuid.UUID]struct{}, len(input.Items))
	for _, line := range input.Items {
		if _, dup := seen[line.VariantID]; dup {
			s.writes.IncRejected("order", "validation")
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate variant on order").
				WithDetails(map[string]any{"variant_id": line.VariantID.String()})
		}
		seen[line.VariantID] = struct{}{}
	}

	order := &models.Order{
		ID:                uuid.New(),
		UserID:            input.UserID,
		Status:            enums.OrderStatusPending,
		ShippingAddressID: input.ShippingAddressID,
		BillingAddressID:  input.BillingAddressID,
	}

	err := s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))
		for _, line := range input.Items {
			pricing, err := s.lookupPricing(ctx, tx, line.VariantID)
			if err != nil {
				return err
			}
			unitPrice := pricing.BasePrice.Add(pricing.PriceAdjustment)
			total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
			variantID := line.VariantID
			items = append(items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				VariantID: &variantID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
			})
		}
		order.TotalAmount = total

		if _, err := txRepo.Create(ctx, order); err != nil {
			return err
		}
		return txRepo.CreateItems(ctx, items)
	})
	if err != nil {
		s.writes.IncRejected("order", metrics.Reason(err))
		return nil, err
	}

	s.writes.IncAccepted("order")
	s.log.Info(s.log.WithEntity(ctx, "order"), "order placed")
	return s.repo.Get(ctx, order.ID)
}

// UpdateStatus advances the order along the allowed lifecycle. Disallowed
// moves, including anything out of a terminal status, fail with a state
// conflict and change nothing.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to enums.OrderStatus) error {
	if !to.IsValid() {
		s.writes.IncRejected("order", "validation")
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		s.writes.IncRejected("order", metrics.Reason(err))
		return err
	}
	if !order.Status.CanTransitionTo(to) {
		s.writes.IncRejected("order", "state_conflict")
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition disallowed").
			WithDetails(map[string]any{"from": order.Status.String(), "to": to.String()})
	}

	affected, err := s.repo.UpdateStatusFrom(ctx, id, order.Status, to)
	if err != nil {
		s.writes.IncRejected("order", metrics.Reason(err))
		return err
	}
	if affected == 0 {
		s.writes.IncRejected("order", "state_conflict")
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
	}

	s.writes.IncAccepted("order")
	return nil
}

// RecordPayment stores a pending gateway attempt. The gateway's transaction
// id is globally unique, so replays surface as conflicts.
func (s *Service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*models.Payment, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("payment", "validation")
		return nil, err
	}
	if input.Amount.Sign() <= 0 {
		s.writes.IncRejected("payment", "validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	payment := &models.Payment{
		ID:            uuid.New(),
		OrderID:       input.OrderID,
		Amount:        input.Amount,
		Method:        input.Method,
		TransactionID: input.TransactionID,
		Status:        enums.PaymentStatusPending,
	}
	if _, err := s.repo.CreatePayment(ctx, payment); err != nil {
		s.writes.IncRejected("payment", metrics.Reason(err))
		return nil, err
	}
	s.writes.IncAccepted("payment")
	return payment, nil
}

// UpdatePaymentStatus advances a payment along its lifecycle.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, to enums.PaymentStatus) error {
	if !to.IsValid() {
		s.writes.IncRejected("payment", "validation")
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status")
	}

	payment, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		s.writes.IncRejected("payment", metrics.Reason(err))
		return err
	}
	if !payment.Status.CanTransitionTo(to) {
		s.writes.IncRejected("payment", "state_conflict")
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment status transition disallowed").
			WithDetails(map[string]any{"from": payment.Status.String(), "to": to.String()})
	}

	affected, err := s.repo.UpdatePaymentStatusFrom(ctx, id, payment.Status, to)
	if err != nil {
		s.writes.IncRejected("payment", metrics.Reason(err))
		return err
	}
	if affected == 0 {
		s.writes.IncRejected("payment", "state_conflict")
		return pkgerrors.New(pkgerrors.CodeStateConflict, "payment status changed concurrently")
	}

	s.writes.IncAccepted("payment")
	return nil
}
