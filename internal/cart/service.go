package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/logger"
	"shopcore/pkg/metrics"
	"shopcore/pkg/validate"
)

// AddItemInput puts a variant into a cart at an absolute quantity.
type AddItemInput struct {
	CartID    uuid.UUID `json:"cart_id" validate:"required"`
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
}

// Service manages cart ownership and line-item writes.
type Service struct {
	conn   *gorm.DB
	repo   *Repository
	log    *logger.Logger
	writes *metrics.WriteMetrics
}

// NewService wires the cart service.
func NewService(conn *gorm.DB, logg *logger.Logger, writes *metrics.WriteMetrics) *Service {
	return &Service{
		conn:   conn,
		repo:   NewRepository(conn),
		log:    logg,
		writes: writes,
	}
}

// GetOrCreateForUser returns the user's open cart, creating one when absent.
// The unique index on user_id keeps the count at one even under races.
func (s *Service) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	existing, err := s.repo.FindByUser(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Cart{ID: uuid.New(), UserID: &userID})
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
			return s.repo.FindByUser(ctx, userID)
		}
		s.writes.IncRejected("cart", metrics.Reason(err))
		return nil, err
	}
	s.writes.IncAccepted("cart")
	return created, nil
}

// GetOrCreateForSession returns the anonymous cart for the session, creating
// one when absent.
func (s *Service) GetOrCreateForSession(ctx context.Context, sessionID string) (*models.Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	existing, err := s.repo.FindBySession(ctx, sessionID)
	if err == nil {
		return existing, nil
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Cart{ID: uuid.New(), SessionID: &sessionID})
	if err != nil {
		s.writes.IncRejected("cart", metrics.Reason(err))
		return nil, err
	}
	s.writes.IncAccepted("cart")
	return created, nil
}

// AddItem writes the variant line, replacing the quantity when the variant is
// already in the cart.
func (s *Service) AddItem(ctx context.Context, input AddItemInput) (*models.CartItem, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("cart_item", "validation")
		return nil, err
	}

	item, err := s.repo.UpsertItem(ctx, &models.CartItem{
		ID:        uuid.New(),
		CartID:    input.CartID,
		VariantID: input.VariantID,
		Quantity:  input.Quantity,
	})
	if err != nil {
		s.writes.IncRejected("cart_item", metrics.Reason(err))
		return nil, err
	}
	s.writes.IncAccepted("cart_item")
	return item, nil
}

// RemoveItem drops the variant line from the cart.
func (s *Service) RemoveItem(ctx context.Context, cartID, variantID uuid.UUID) error {
	affected, err := s.repo.RemoveItem(ctx, cartID, variantID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant not in cart")
	}
	return nil
}

// MergeSessionCart folds an anonymous cart into the user's cart after sign-in
// and deletes the session cart. Lines for variants already in the user cart
// keep the larger quantity.
func (s *Service) MergeSessionCart(ctx context.Context, sessionID string, userID uuid.UUID) (*models.Cart, error) {
	sessionCart, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	userCart, err := s.GetOrCreateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sessionCart.ID == userCart.ID {
		return userCart, nil
	}

	err = s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		existing := make(map[uuid.UUID]int, len(userCart.Items))
		for _, line := range userCart.Items {
			existing[line.VariantID] = line.Quantity
		}
		for _, line := range sessionCart.Items {
			quantity := line.Quantity
			if kept, ok := existing[line.VariantID]; ok && kept > quantity {
				quantity = kept
			}
			_, upsertErr := txRepo.UpsertItem(ctx, &models.CartItem{
				ID:        uuid.New(),
				CartID:    userCart.ID,
				VariantID: line.VariantID,
				Quantity:  quantity,
			})
			if upsertErr != nil {
				return upsertErr
			}
		}
		return txRepo.Delete(ctx, sessionCart.ID)
	})
	if err != nil {
		s.writes.IncRejected("cart", metrics.Reason(err))
		return nil, err
	}

	s.writes.IncAccepted("cart")
	s.log.Info(s.log.WithEntity(ctx, "cart"), "session cart merged")
	return s.repo.Get(ctx, userCart.ID)
}
