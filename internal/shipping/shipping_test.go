package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shopcore/internal/testdb"
	"shopcore/pkg/db/models"
	pkgerrors "shopcore/pkg/errors"
	"shopcore/pkg/metrics"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	conn := testdb.Open(t)
	return NewService(conn, metrics.NewWriteMetrics(nil)), conn
}

func TestZoneCountriesRoundTrip(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	zone, err := svc.CreateZone(ctx, CreateZoneInput{
		Name:      "North America",
		Countries: []string{"US", "CA", "MX"},
	})
	require.NoError(t, err)

	var reloaded models.ShippingZone
	require.NoError(t, conn.First(&reloaded, "id = ?", zone.ID).Error)
	assert.ElementsMatch(t, []string{"US", "CA", "MX"}, []string(reloaded.Countries))
}

func TestCreateZoneRejectsBadCountryCode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateZone(context.Background(), CreateZoneInput{
		Name:      "Oddballs",
		Countries: []string{"USA"},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestSetRateDuplicatePair(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	method, err := svc.CreateMethod(ctx, CreateMethodInput{
		Name: "Ground", BasePrice: decimal.RequireFromString("4.99"), IsActive: true,
	})
	require.NoError(t, err)
	zone, err := svc.CreateZone(ctx, CreateZoneInput{Name: "Domestic", Countries: []string{"US"}})
	require.NoError(t, err)

	_, err = svc.SetRate(ctx, method.ID, zone.ID, decimal.RequireFromString("2.00"))
	require.NoError(t, err)

	_, err = svc.SetRate(ctx, method.ID, zone.ID, decimal.RequireFromString("3.00"))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestQuoteSumsBaseAndRate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	method, err := svc.CreateMethod(ctx, CreateMethodInput{
		Name: "Express", BasePrice: decimal.RequireFromString("9.99"), IsActive: true,
	})
	require.NoError(t, err)
	zone, err := svc.CreateZone(ctx, CreateZoneInput{Name: "EU", Countries: []string{"DE", "FR"}})
	require.NoError(t, err)
	_, err = svc.SetRate(ctx, method.ID, zone.ID, decimal.RequireFromString("5.01"))
	require.NoError(t, err)

	quote, err := svc.Quote(ctx, method.ID, zone.ID)
	require.NoError(t, err)
	assert.True(t, quote.Equal(decimal.RequireFromString("15.00")), "quote %s", quote)
}

func TestQuoteMissingRate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	method, err := svc.CreateMethod(ctx, CreateMethodInput{
		Name: "Freight", BasePrice: decimal.RequireFromString("20.00"), IsActive: true,
	})
	require.NoError(t, err)

	_, err = svc.Quote(ctx, method.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestQuoteInactiveMethod(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	method, err := svc.CreateMethod(ctx, CreateMethodInput{
		Name: "Retired", BasePrice: decimal.RequireFromString("1.00"), IsActive: true,
	})
	require.NoError(t, err)
	zone, err := svc.CreateZone(ctx, CreateZoneInput{Name: "Anywhere", Countries: []string{"US"}})
	require.NoError(t, err)
	_, err = svc.SetRate(ctx, method.ID, zone.ID, decimal.RequireFromString("1.00"))
	require.NoError(t, err)
	require.NoError(t, svc.SetMethodActive(ctx, method.ID, false))

	_, err = svc.Quote(ctx, method.ID, zone.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateRate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	method, err := svc.CreateMethod(ctx, CreateMethodInput{
		Name: "Ground", BasePrice: decimal.RequireFromString("4.99"), IsActive: true,
	})
	require.NoError(t, err)
	zone, err := svc.CreateZone(ctx, CreateZoneInput{Name: "Domestic", Countries: []string{"US"}})
	require.NoError(t, err)
	rate, err := svc.SetRate(ctx, method.ID, zone.ID, decimal.RequireFromString("2.00"))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateRate(ctx, rate.ID, decimal.RequireFromString("2.50")))

	quote, err := svc.Quote(ctx, method.ID, zone.ID)
	require.NoError(t, err)
	assert.True(t, quote.Equal(decimal.RequireFromString("7.49")))
}
