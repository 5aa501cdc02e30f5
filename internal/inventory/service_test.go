package inventory

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shopcore/internal/testdb"
	"shopcore/pkg/db/models"
	"shopcore/pkg/enums"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/logger"
	"shopcore/pkg/metrics"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	conn := testdb.Open(t)
	logg := logger.New(logger.Options{ServiceName: "inventory-test", Output: io.Discard})
	return NewService(conn, logg, metrics.NewWriteMetrics(nil)), conn
}

func seedItem(t *testing.T, svc *Service, conn *gorm.DB) *models.InventoryItem {
	t.Helper()
	product := testdb.SeedProduct(t, conn)
	variant := testdb.SeedVariant(t, conn, product.ID)
	warehouse := testdb.SeedWarehouse(t, conn)
	item, err := svc.EnsureItem(context.Background(), variant.ID, warehouse.ID)
	require.NoError(t, err)
	return item
}

func TestEnsureItemIdempotent(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := testdb.SeedProduct(t, conn)
	variant := testdb.SeedVariant(t, conn, product.ID)
	warehouse := testdb.SeedWarehouse(t, conn)

	first, err := svc.EnsureItem(ctx, variant.ID, warehouse.ID)
	require.NoError(t, err)
	second, err := svc.EnsureItem(ctx, variant.ID, warehouse.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Zero(t, first.Quantity)

	var count int64
	require.NoError(t, conn.Model(&models.InventoryItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDuplicateItemInsertRejected(t *testing.T) {
	svc, conn := newTestService(t)
	item := seedItem(t, svc, conn)

	dup := models.InventoryItem{
		ID:          uuid.New(),
		VariantID:   item.VariantID,
		WarehouseID: item.WarehouseID,
	}
	err := conn.Create(&dup).Error
	require.Error(t, err)
}

func TestApplyTransactionReceipt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	conn := svc.conn
	item := seedItem(t, svc, conn)

	movement, err := svc.ApplyTransaction(ctx, ApplyTransactionInput{
		InventoryItemID: item.ID,
		Quantity:        25,
		Type:            enums.InventoryTransactionTypeReceipt,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, movement.Quantity)

	reloaded, err := svc.repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, reloaded.Quantity)

	history, err := svc.repo.ListTransactions(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, enums.InventoryTransactionTypeReceipt, history[0].Type)
}

func TestApplyTransactionRejectsOversell(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	item := seedItem(t, svc, svc.conn)

	_, err := svc.ApplyTransaction(ctx, ApplyTransactionInput{
		InventoryItemID: item.ID,
		Quantity:        10,
		Type:            enums.InventoryTransactionTypeReceipt,
	})
	require.NoError(t, err)

	_, err = svc.ApplyTransaction(ctx, ApplyTransactionInput{
		InventoryItemID: item.ID,
		Quantity:        -11,
		Type:            enums.InventoryTransactionTypeSale,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	// Quantity is untouched and the failed movement leaves no history row.
	reloaded, err := svc.repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Quantity)

	history, err := svc.repo.ListTransactions(ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestApplyTransactionExactDrain(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	item := seedItem(t, svc, svc.conn)

	_, err := svc.ApplyTransaction(ctx, ApplyTransactionInput{
		InventoryItemID: item.ID,
		Quantity:        5,
		Type:            enums.InventoryTransactionTypeReceipt,
	})
	require.NoError(t, err)

	_, err = svc.ApplyTransaction(ctx, ApplyTransactionInput{
		InventoryItemID: item.ID,
		Quantity:        -5,
		Type:            enums.InventoryTransactionTypeSale,
	})
	require.NoError(t, err)

	reloaded, err := svc.repo.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.Quantity)
}

func TestApplyTransactionUnknownItem(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ApplyTransaction(context.Background(), ApplyTransactionInput{
		InventoryItemID: uuid.New(),
		Quantity:        1,
		Type:            enums.InventoryTransactionTypeReceipt,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestApplyTransactionValidation(t *testing.T) {
	svc, _ := newTestService(t)
	item := seedItem(t, svc, svc.conn)

	// Zero delta carries no information and is rejected up front.
	_, err := svc.ApplyTransaction(context.Background(), ApplyTransactionInput{
		InventoryItemID: item.ID,
		Quantity:        0,
		Type:            enums.InventoryTransactionTypeAdjustment,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.ApplyTransaction(context.Background(), ApplyTransactionInput{
		InventoryItemID: item.ID,
		Quantity:        3,
		Type:            enums.InventoryTransactionType("restock"),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestSetAlertReplacesExisting(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	item := seedItem(t, svc, conn)

	_, err := svc.SetAlert(ctx, SetAlertInput{InventoryItemID: item.ID, Threshold: 5, IsActive: true})
	require.NoError(t, err)
	_, err = svc.SetAlert(ctx, SetAlertInput{InventoryItemID: item.ID, Threshold: 12, IsActive: true})
	require.NoError(t, err)

	alert, err := svc.repo.GetAlert(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, alert.Threshold)

	var count int64
	require.NoError(t, conn.Model(&models.InventoryAlert{}).Where("inventory_item_id = ?", item.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBreachedAlerts(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	low := seedItem(t, svc, conn)
	healthy := seedItem(t, svc, conn)

	_, err := svc.ApplyTransaction(ctx, ApplyTransactionInput{
		InventoryItemID: low.ID, Quantity: 2, Type: enums.InventoryTransactionTypeReceipt,
	})
	require.NoError(t, err)
	_, err = svc.ApplyTransaction(ctx, ApplyTransactionInput{
		InventoryItemID: healthy.ID, Quantity: 50, Type: enums.InventoryTransactionTypeReceipt,
	})
	require.NoError(t, err)

	_, err = svc.SetAlert(ctx, SetAlertInput{InventoryItemID: low.ID, Threshold: 5, IsActive: true})
	require.NoError(t, err)
	_, err = svc.SetAlert(ctx, SetAlertInput{InventoryItemID: healthy.ID, Threshold: 5, IsActive: true})
	require.NoError(t, err)

	breached, err := svc.BreachedAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, breached, 1)
	assert.Equal(t, low.ID, breached[0].InventoryItemID)
}
