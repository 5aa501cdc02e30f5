package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shopcore/internal/testdb"
	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/metrics"
	"shopcore/pkg/pagination"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	conn := testdb.Open(t)
	return NewService(conn, metrics.NewWriteMetrics(nil)), conn
}

func TestAddItemDuplicateRejected(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := testdb.SeedUser(t, conn)
	product := testdb.SeedProduct(t, conn)
	list, err := svc.Create(ctx, user.ID, "Gift ideas")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, list.ID, product.ID)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, list.ID, product.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestSameProductOnTwoWishlists(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := testdb.SeedUser(t, conn)
	product := testdb.SeedProduct(t, conn)

	first, err := svc.Create(ctx, user.ID, "Birthday")
	require.NoError(t, err)
	second, err := svc.Create(ctx, user.ID, "Holidays")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, first.ID, product.ID)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, second.ID, product.ID)
	require.NoError(t, err)
}

func TestRemoveItem(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := testdb.SeedUser(t, conn)
	product := testdb.SeedProduct(t, conn)
	list, err := svc.Create(ctx, user.ID, "Gear")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, list.ID, product.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(ctx, list.ID, product.ID))

	err = svc.RemoveItem(ctx, list.ID, product.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestListItemsPaginates(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := testdb.SeedUser(t, conn)
	list, err := svc.Create(ctx, user.ID, "Everything")
	require.NoError(t, err)

	seen := map[uuid.UUID]bool{}
	for i := 0; i < 5; i++ {
		product := testdb.SeedProduct(t, conn)
		_, err = svc.AddItem(ctx, list.ID, product.ID)
		require.NoError(t, err)
		seen[product.ID] = false
	}

	var cursor string
	pages := 0
	for {
		page, pageErr := svc.ListItems(ctx, list.ID, pagination.Params{Limit: 2, Cursor: cursor})
		require.NoError(t, pageErr)
		pages++
		for _, item := range page.Items {
			require.False(t, seen[item.ProductID], "item returned twice")
			seen[item.ProductID] = true
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
		require.LessOrEqual(t, pages, 5, "pagination did not terminate")
	}

	assert.Equal(t, 3, pages)
	for id, found := range seen {
		assert.True(t, found, "product %s missing from pages", id)
	}
}

func TestListItemsBadCursor(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := testdb.SeedUser(t, conn)
	list, err := svc.Create(ctx, user.ID, "Anything")
	require.NoError(t, err)

	_, err = svc.ListItems(ctx, list.ID, pagination.Params{Cursor: "not-base64!!"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestDeleteWishlistCascadesItems(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := testdb.SeedUser(t, conn)
	product := testdb.SeedProduct(t, conn)
	list, err := svc.Create(ctx, user.ID, "Short lived")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, list.ID, product.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, list.ID))

	var count int64
	require.NoError(t, conn.Model(&models.WishlistItem{}).Where("wishlist_id = ?", list.ID).Count(&count).Error)
	assert.Zero(t, count)
}
