package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopcore/internal/repo"
	"shopcore/pkg/db"
	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
)

// Repository wires together catalog persistence: categories, brands, tags,
// products, variants, attributes, images, and digital product metadata.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// CreateCategory inserts a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.DB(ctx).Create(category).Error; err != nil {
		return nil, mapWriteError(err, "category slug already in use")
	}
	return category, nil
}

// GetCategory loads a category by id.
func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err, "category not found")
	}
	return &category, nil
}

// ListChildCategories returns the direct children of a category.
func (r *Repository) ListChildCategories(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	var rows []models.Category
	if err := r.DB(ctx).Where("parent_id = ?", parentID).Order("slug ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateCategoryParent points the category at a new parent (or the root when
// nil). Cycle prevention is the service's responsibility.
func (r *Repository) UpdateCategoryParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	result := r.DB(ctx).Model(&models.Category{}).Where("id = ?", id).Update("parent_id", parentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return nil
}

// DeleteCategory removes the category; children are re-rooted by the schema's
// SET NULL policy, not deleted.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// CreateBrand inserts a new brand row.
func (r *Repository) CreateBrand(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.DB(ctx).Create(brand).Error; err != nil {
		return nil, mapWriteError(err, "brand slug already in use")
	}
	return brand, nil
}

// DeleteBrand removes the brand; products keep selling with a nulled brand.
func (r *Repository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Brand{}).Error
}

// CreateTag inserts a new tag row.
func (r *Repository) CreateTag(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	if err := r.DB(ctx).Create(tag).Error; err != nil {
		return nil, mapWriteError(err, "tag name or slug already in use")
	}
	return tag, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, mapWriteError(err, "product slug already in use")
	}
	return product, nil
}

// GetProductDetail fetches a product with variants, images, and join rows.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Preload("Brand").
		Preload("Images", func(conn *gorm.DB) *gorm.DB {
			return conn.Order("is_primary DESC")
		}).
		Preload("Variants").
		Preload("Variants.AttributeValues").
		Preload("Categories").
		Preload("Tags").
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, mapReadError(err, "product not found")
	}
	return &product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Save(product).Error; err != nil {
		return nil, mapWriteError(err, "product slug already in use")
	}
	return product, nil
}

// DeleteProduct removes a product by ID; images, variants, and join rows
// cascade with it.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ReplaceProductCategories replaces the category joins for the product.
func (r *Repository) ReplaceProductCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	tx := r.DB(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductCategory{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	joins := make([]models.ProductCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		joins = append(joins, models.ProductCategory{ProductID: productID, CategoryID: categoryID})
	}
	if err := tx.Create(&joins).Error; err != nil {
		return mapWriteError(err, "product already in category")
	}
	return nil
}

// ReplaceProductTags replaces the tag joins for the product.
func (r *Repository) ReplaceProductTags(ctx context.Context, productID uuid.UUID, tagIDs []uuid.UUID) error {
	tx := r.DB(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	joins := make([]models.ProductTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		joins = append(joins, models.ProductTag{ProductID: productID, TagID: tagID})
	}
	if err := tx.Create(&joins).Error; err != nil {
		return mapWriteError(err, "product already tagged")
	}
	return nil
}

// AddImage attaches an image reference to a product.
func (r *Repository) AddImage(ctx context.Context, image *models.ProductImage) (*models.ProductImage, error) {
	if err := r.DB(ctx).Create(image).Error; err != nil {
		return nil, mapWriteError(err, "image insert rejected")
	}
	return image, nil
}

// CreateVariant inserts a new variant row.
func (r *Repository) CreateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error) {
	if err := r.DB(ctx).Create(variant).Error; err != nil {
		return nil, mapWriteError(err, "variant SKU already in use")
	}
	return variant, nil
}

// DeleteVariant removes a variant; order items that captured it keep their
// price snapshot with a nulled reference.
func (r *Repository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.ProductVariant{}).Error
}

// CreateAttribute inserts a new attribute axis.
func (r *Repository) CreateAttribute(ctx context.Context, attribute *models.ProductAttribute) (*models.ProductAttribute, error) {
	if err := r.DB(ctx).Create(attribute).Error; err != nil {
		return nil, mapWriteError(err, "attribute slug already in use")
	}
	return attribute, nil
}

// CreateAttributeValue inserts a value under an attribute.
func (r *Repository) CreateAttributeValue(ctx context.Context, value *models.AttributeValue) (*models.AttributeValue, error) {
	if err := r.DB(ctx).Create(value).Error; err != nil {
		return nil, mapWriteError(err, "attribute value insert rejected")
	}
	return value, nil
}

// BindVariantAttributeValue attaches an attribute value to a variant; a
// variant carries each value at most once.
func (r *Repository) BindVariantAttributeValue(ctx context.Context, binding *models.ProductAttributeValue) (*models.ProductAttributeValue, error) {
	if err := r.DB(ctx).Create(binding).Error; err != nil {
		return nil, mapWriteError(err, "variant already carries this attribute value")
	}
	return binding, nil
}

// UpsertDigitalProduct creates or replaces the download metadata for a product.
func (r *Repository) UpsertDigitalProduct(ctx context.Context, digital *models.DigitalProduct) (*models.DigitalProduct, error) {
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		UpdateAll: true,
	}).Create(digital).Error
	if err != nil {
		return nil, mapWriteError(err, "digital product write rejected")
	}
	return digital, nil
}

// GetDigitalProduct loads the download metadata for a product.
func (r *Repository) GetDigitalProduct(ctx context.Context, productID uuid.UUID) (*models.DigitalProduct, error) {
	var digital models.DigitalProduct
	if err := r.DB(ctx).First(&digital, "product_id = ?", productID).Error; err != nil {
		return nil, mapReadError(err, "digital product not found")
	}
	return &digital, nil
}

func mapWriteError(err error, conflictMessage string) error {
	switch {
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, conflictMessage)
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced row does not exist")
	case db.IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "value out of range")
	default:
		return err
	}
}

func mapReadError(err error, notFoundMessage string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, notFoundMessage)
	}
	return err
}
