package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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
	logg := logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
	return NewService(conn, logg, metrics.NewWriteMetrics(nil)), conn
}

type orderFixture struct {
	user    *models.User
	address *models.Address
	variant *models.ProductVariant
}

func seedOrderFixture(t *testing.T, conn *gorm.DB, basePrice, adjustment string) orderFixture {
	t.Helper()
	user := testdb.SeedUser(t, conn)
	address := testdb.SeedAddress(t, conn, user.ID)

	product := &models.Product{
		ID:        uuid.New(),
		Name:      "Expedition Pack",
		Slug:      "expedition-pack-" + uuid.NewString(),
		BasePrice: decimal.RequireFromString(basePrice),
		IsActive:  true,
	}
	require.NoError(t, conn.Create(product).Error)

	variant := &models.ProductVariant{
		ID:              uuid.New(),
		ProductID:       product.ID,
		Name:            "70L",
		SKU:             "EXP-" + uuid.NewString(),
		PriceAdjustment: decimal.RequireFromString(adjustment),
		IsActive:        true,
	}
	require.NoError(t, conn.Create(variant).Error)

	return orderFixture{user: user, address: address, variant: variant}
}

func TestCreateOrderSnapshotsPrices(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	fx := seedOrderFixture(t, conn, "100.00", "20.00")

	order, err := svc.Create(ctx, CreateOrderInput{
		UserID:            &fx.user.ID,
		ShippingAddressID: fx.address.ID,
		BillingAddressID:  fx.address.ID,
		Items:             []OrderItemInput{{VariantID: fx.variant.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("120.00")),
		"unit price %s", order.Items[0].UnitPrice)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("240.00")),
		"total %s", order.TotalAmount)
}

func TestCreateOrderAggregatesLineErrors(t *testing.T) {
	svc, conn := newTestService(t)
	fx := seedOrderFixture(t, conn, "10.00", "0.00")

	// Two bad lines: both must be reported, not just the first.
	_, err := svc.Create(context.Background(), CreateOrderInput{
		ShippingAddressID: fx.address.ID,
		BillingAddressID:  fx.address.ID,
		Items: []OrderItemInput{
			{VariantID: uuid.Nil, Quantity: 1},
			{VariantID: fx.variant.ID, Quantity: 0},
		},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestCreateOrderRejectsDuplicateVariantLines(t *testing.T) {
	svc, conn := newTestService(t)
	fx := seedOrderFixture(t, conn, "10.00", "0.00")

	_, err := svc.Create(context.Background(), CreateOrderInput{
		ShippingAddressID: fx.address.ID,
		BillingAddressID:  fx.address.ID,
		Items: []OrderItemInput{
			{VariantID: fx.variant.ID, Quantity: 1},
			{VariantID: fx.variant.ID, Quantity: 2},
		},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestCreateOrderUnknownVariantRollsBack(t *testing.T) {
	svc, conn := newTestService(t)
	fx := seedOrderFixture(t, conn, "10.00", "0.00")

	_, err := svc.Create(context.Background(), CreateOrderInput{
		ShippingAddressID: fx.address.ID,
		BillingAddressID:  fx.address.ID,
		Items: []OrderItemInput{
			{VariantID: fx.variant.ID, Quantity: 1},
			{VariantID: uuid.New(), Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	var count int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderRequiresItems(t *testing.T) {
	svc, conn := newTestService(t)
	fx := seedOrderFixture(t, conn, "10.00", "0.00")

	_, err := svc.Create(context.Background(), CreateOrderInput{
		ShippingAddressID: fx.address.ID,
		BillingAddressID:  fx.address.ID,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestOrderStatusLifecycle(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	fx := seedOrderFixture(t, conn, "10.00", "0.00")

	order, err := svc.Create(ctx, CreateOrderInput{
		UserID:            &fx.user.ID,
		ShippingAddressID: fx.address.ID,
		BillingAddressID:  fx.address.ID,
		Items:             []OrderItemInput{{VariantID: fx.variant.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, order.ID, enums.OrderStatusProcessing))
	require.NoError(t, svc.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped))
	require.NoError(t, svc.UpdateStatus(ctx, order.ID, enums.OrderStatusDelivered))

	// Delivered is terminal.
	err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))

	reloaded, err := svc.repo.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, reloaded.Status)
}

func TestOrderStatusSkipRejected(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	fx := seedOrderFixture(t, conn, "10.00", "0.00")

	order, err := svc.Create(ctx, CreateOrderInput{
		UserID:            &fx.user.ID,
		ShippingAddressID: fx.address.ID,
		BillingAddressID:  fx.address.ID,
		Items:             []OrderItemInput{{VariantID: fx.variant.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// pending -> shipped skips processing.
	err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestRecordPaymentDuplicateTransactionID(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	fx := seedOrderFixture(t, conn, "10.00", "0.00")

	order, err := svc.Create(ctx, CreateOrderInput{
		UserID:            &fx.user.ID,
		ShippingAddressID: fx.address.ID,
		BillingAddressID:  fx.address.ID,
		Items:             []OrderItemInput{{VariantID: fx.variant.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, RecordPaymentInput{
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		Method:        "card",
		TransactionID: "txn-001",
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, RecordPaymentInput{
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		Method:        "card",
		TransactionID: "txn-001",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestPaymentStatusLifecycle(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	fx := seedOrderFixture(t, conn, "10.00", "0.00")

	order, err := svc.Create(ctx, CreateOrderInput{
		UserID:            &fx.user.ID,
		ShippingAddressID: fx.address.ID,
		BillingAddressID:  fx.address.ID,
		Items:             []OrderItemInput{{VariantID: fx.variant.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	payment, err := svc.RecordPayment(ctx, RecordPaymentInput{
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		Method:        "card",
		TransactionID: "txn-100",
	})
	require.NoError(t, err)

	// Refund is only reachable from completed.
	err = svc.UpdatePaymentStatus(ctx, payment.ID, enums.PaymentStatusRefunded)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))

	require.NoError(t, svc.UpdatePaymentStatus(ctx, payment.ID, enums.PaymentStatusCompleted))
	require.NoError(t, svc.UpdatePaymentStatus(ctx, payment.ID, enums.PaymentStatusRefunded))
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RecordPayment(context.Background(), RecordPaymentInput{
		OrderID:       uuid.New(),
		Amount:        decimal.RequireFromString("-1.00"),
		Method:        "card",
		TransactionID: "txn-neg",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestDeleteVariantKeepsOrderHistory(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	fx := seedOrderFixture(t, conn, "30.00", "0.00")

	order, err := svc.Create(ctx, CreateOrderInput{
		UserID:            &fx.user.ID,
		ShippingAddressID: fx.address.ID,
		BillingAddressID:  fx.address.ID,
		Items:             []OrderItemInput{{VariantID: fx.variant.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, conn.Where("id = ?", fx.variant.ID).Delete(&models.ProductVariant{}).Error)

	reloaded, err := svc.repo.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Nil(t, reloaded.Items[0].VariantID)
	assert.True(t, reloaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("30.00")))
}
