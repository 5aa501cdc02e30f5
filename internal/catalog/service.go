package catalog

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

// maxCategoryDepth bounds the ancestor walk so a corrupt tree cannot spin the
// cycle check forever.
const maxCategoryDepth = 32

// Service layers validation and tree safety on top of the catalog repository.
type Service struct {
	conn   *gorm.DB
	repo   *Repository
	log    *logger.Logger
	writes *metrics.WriteMetrics
}

// NewService wires the catalog service.
func NewService(conn *gorm.DB, logg *logger.Logger, writes *metrics.WriteMetrics) *Service {
	return &Service{
		conn:   conn,
		repo:   NewRepository(conn),
		log:    logg,
		writes: writes,
	}
}

// CreateProduct validates the input and writes the product with its category
// and tag joins in one transaction.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("product", "validation")
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		BrandID:     input.BrandID,
		BasePrice:   input.BasePrice,
		IsActive:    input.IsActive,
	}

	err := s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreateProduct(ctx, product); err != nil {
			return err
		}
		if err := txRepo.ReplaceProductCategories(ctx, product.ID, input.CategoryIDs); err != nil {
			return err
		}
		return txRepo.ReplaceProductTags(ctx, product.ID, input.TagIDs)
	})
	if err != nil {
		s.writes.IncRejected("product", metrics.Reason(err))
		return nil, err
	}

	s.writes.IncAccepted("product")
	s.log.Info(s.log.WithEntity(ctx, "product"), "product created")
	return product, nil
}

// CreateVariant validates and inserts a sellable variant.
func (s *Service) CreateVariant(ctx context.Context, input CreateVariantInput) (*models.ProductVariant, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("product_variant", "validation")
		return nil, err
	}

	variant := &models.ProductVariant{
		ID:              uuid.New(),
		ProductID:       input.ProductID,
		Name:            input.Name,
		SKU:             input.SKU,
		PriceAdjustment: input.PriceAdjustment,
		Weight:          input.Weight,
		Dimensions:      input.Dimensions,
		IsActive:        input.IsActive,
	}
	if _, err := s.repo.CreateVariant(ctx, variant); err != nil {
		s.writes.IncRejected("product_variant", metrics.Reason(err))
		return nil, err
	}
	s.writes.IncAccepted("product_variant")
	return variant, nil
}

// SetCategoryParent re-parents a category after proving the move introduces no
// cycle: the new parent must not be the category itself nor any of its
// descendants, which is equivalent to the category never appearing on the new
// parent's ancestor chain.
func (s *Service) SetCategoryParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	if parentID != nil {
		if *parentID == id {
			s.writes.IncRejected("category", "cycle")
			return pkgerrors.New(pkgerrors.CodeValidation, "category cannot be its own parent")
		}
		cursor := *parentID
		for depth := 0; depth < maxCategoryDepth; depth++ {
			ancestor, err := s.repo.GetCategory(ctx, cursor)
			if err != nil {
				return err
			}
			if ancestor.ParentID == nil {
				break
			}
			if *ancestor.ParentID == id {
				s.writes.IncRejected("category", "cycle")
				return pkgerrors.New(pkgerrors.CodeValidation, "move would create a category cycle")
			}
			cursor = *ancestor.ParentID
		}
	}

	if err := s.repo.UpdateCategoryParent(ctx, id, parentID); err != nil {
		s.writes.IncRejected("category", metrics.Reason(err))
		return err
	}
	s.writes.IncAccepted("category")
	return nil
}

// AttachDigitalProduct validates and stores download metadata for a product.
func (s *Service) AttachDigitalProduct(ctx context.Context, input CreateDigitalProductInput) (*models.DigitalProduct, error) {
	if err := validate.Struct(input); err != nil {
		s.writes.IncRejected("digital_product", "validation")
		return nil, err
	}
	digital := &models.DigitalProduct{
		ProductID:     input.ProductID,
		FileRef:       input.FileRef,
		FileSize:      input.FileSize,
		DownloadLimit: input.DownloadLimit,
	}
	if _, err := s.repo.UpsertDigitalProduct(ctx, digital); err != nil {
		s.writes.IncRejected("digital_product", metrics.Reason(err))
		return nil, err
	}
	s.writes.IncAccepted("digital_product")
	return digital, nil
}
