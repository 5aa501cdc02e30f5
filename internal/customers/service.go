package customers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/logger"
	"shopcore/pkg/metrics"
	"shopcore/pkg/validate"
)

// RegisterInput creates a user together with the commerce profile.
type RegisterInput struct {
	Email       string     `json:"email" validate:"required,email"`
	PhoneNumber string     `json:"phone_number"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// AddAddressInput carries a new postal address for a user.
type AddAddressInput struct {
	UserID       uuid.UUID `json:"user_id" validate:"required"`
	AddressLine1 string    `json:"address_line1" validate:"required"`
	AddressLine2 string    `json:"address_line2"`
	City         string    `json:"city" validate:"required"`
	State        string    `json:"state" validate:"required"`
	Country      string    `json:"country" validate:"required"`
	PostalCode   string    `json:"postal_code" validate:"required"`
	IsDefault    bool      `json:"is_default"`
}

// Service manages accounts, profiles, and the single-default address rule.
type Service struct {
	conn   *gorm.DB
	repo   *Repository
	log    *logger.Logger
	writes *metrics.WriteMetrics
}

// NewService wires the customers service.
func NewService(conn *gorm.DB, logg *logger.Logger, writes *metrics.WriteMetrics) *Service {
	return &Service{
		conn:   conn,
		repo:   NewRepository(conn),
		log:    logg,
		writes: writes,
	}
}

// Register creates the user and their profile in one transaction.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("user", "validation")
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New(),
		Email:    input.Email,
		IsActive: true,
	}
	profile := &models.CustomerProfile{
		ID:          uuid.New(),
		UserID:      user.ID,
		PhoneNumber: input.PhoneNumber,
		DateOfBirth: input.DateOfBirth,
	}

	err := s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreateUser(ctx, user); err != nil {
			return err
		}
		_, err := txRepo.CreateProfile(ctx, profile)
		return err
	})
	if err != nil {
		s.writes.IncRejected("user", metrics.Reason(err))
		return nil, err
	}

	s.writes.IncAccepted("user")
	s.log.Info(s.log.WithUserID(ctx, user.ID.String()), "customer registered")
	return user, nil
}

// AddAddress stores an address; when flagged default it displaces any
// previous default in the same transaction.
func (s *Service) AddAddress(ctx context.Context, input AddAddressInput) (*models.Address, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("address", "validation")
		return nil, err
	}

	address := &models.Address{
		ID:           uuid.New(),
		UserID:       input.UserID,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		Country:      input.Country,
		PostalCode:   input.PostalCode,
		IsDefault:    input.IsDefault,
	}

	err := s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := txRepo.ClearDefaultAddress(ctx, input.UserID); err != nil {
				return err
			}
		}
		_, err := txRepo.CreateAddress(ctx, address)
		return err
	})
	if err != nil {
		s.writes.IncRejected("address", metrics.Reason(err))
		return nil, err
	}

	s.writes.IncAccepted("address")
	return address, nil
}

// SetDefaultAddress makes the address the user's default, clearing the old
// one atomically.
func (s *Service) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	err := s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearDefaultAddress(ctx, userID); err != nil {
			return err
		}
		affected, err := txRepo.MarkDefaultAddress(ctx, userID, addressID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found for user")
		}
		return nil
	})
	if err != nil {
		s.writes.IncRejected("address", metrics.Reason(err))
		return err
	}
	s.writes.IncAccepted("address")
	return nil
}

// DeleteAddress removes an address unless an order pins it.
func (s *Service) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteAddress(ctx, id); err != nil {
		s.writes.IncRejected("address", metrics.Reason(err))
		return err
	}
	s.writes.IncAccepted("address")
	return nil
}
