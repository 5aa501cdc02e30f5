// Package wishlist manages user product collections. Item listing is cursor
// paginated so large wishlists page stably under concurrent additions.
package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopcore/internal/repo"
	"shopcore/pkg/db"
	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/metrics"
	"shopcore/pkg/pagination"
)

// ItemPage is one page of wishlist items.
type ItemPage struct {
	Items      []models.WishlistItem
	NextCursor string
}

// Service persists wishlists and their items.
type Service struct {
	base   repo.Base
	writes *metrics.WriteMetrics
}

// NewService wires the wishlist service.
func NewService(conn *gorm.DB, writes *metrics.WriteMetrics) *Service {
	return &Service{base: repo.NewBase(conn), writes: writes}
}

// Create makes a named wishlist for a user.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*models.Wishlist, error) {
	if name == "" {
		s.writes.IncRejected("wishlist", "validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist name is required")
	}
	list := &models.Wishlist{ID: uuid.New(), UserID: userID, Name: name}
	if err := s.base.DB(ctx).Create(list).Error; err != nil {
		mapped := mapWriteError(err)
		s.writes.IncRejected("wishlist", metrics.Reason(mapped))
		return nil, mapped
	}
	s.writes.IncAccepted("wishlist")
	return list, nil
}

// AddItem puts a product on the wishlist. Adding the same product twice is a
// conflict.
func (s *Service) AddItem(ctx context.Context, wishlistID, productID uuid.UUID) (*models.WishlistItem, error) {
	item := &models.WishlistItem{
		ID:         uuid.New(),
		WishlistID: wishlistID,
		ProductID:  productID,
	}
	if err := s.base.DB(ctx).Create(item).Error; err != nil {
		mapped := mapWriteError(err)
		s.writes.IncRejected("wishlist_item", metrics.Reason(mapped))
		return nil, mapped
	}
	s.writes.IncAccepted("wishlist_item")
	return item, nil
}

// RemoveItem drops a product from the wishlist.
func (s *Service) RemoveItem(ctx context.Context, wishlistID, productID uuid.UUID) error {
	result := s.base.DB(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not on wishlist")
	}
	return nil
}

// ListItems pages through the wishlist oldest-first on (added_at, id).
func (s *Service) ListItems(ctx context.Context, wishlistID uuid.UUID, params pagination.Params) (*ItemPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := s.base.DB(ctx).
		Where("wishlist_id = ?", wishlistID).
		Order("added_at ASC, id ASC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		query = query.Where(
			"added_at > ? OR (added_at = ? AND id > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.WishlistItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	page := &ItemPage{Items: rows}
	limit := pagination.NormalizeLimit(params.Limit)
	if len(rows) > limit {
		page.Items = rows[:limit]
		last := page.Items[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.AddedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// Get loads a wishlist header.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Wishlist, error) {
	var list models.Wishlist
	if err := s.base.DB(ctx).First(&list, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "wishlist not found")
		}
		return nil, err
	}
	return &list, nil
}

// Delete removes the wishlist and, through the schema, its items.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.base.DB(ctx).Where("id = ?", id).Delete(&models.Wishlist{}).Error
}

func mapWriteError(err error) error {
	switch {
	case db.IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already on wishlist")
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "referenced row does not exist")
	default:
		return err
	}
}
