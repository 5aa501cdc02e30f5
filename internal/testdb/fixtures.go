package testdb

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shopcore/pkg/db/models"
)

// SeedUser inserts a user with a unique email.
func SeedUser(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		IsActive: true,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

// SeedAddress inserts an address for the user.
func SeedAddress(t *testing.T, conn *gorm.DB, userID uuid.UUID) *models.Address {
	t.Helper()
	address := &models.Address{
		ID:           uuid.New(),
		UserID:       userID,
		AddressLine1: "1 Main St",
		City:         "Springfield",
		State:        "IL",
		Country:      "US",
		PostalCode:   "62701",
	}
	require.NoError(t, conn.Create(address).Error)
	return address
}

// SeedProduct inserts a product with a unique slug.
func SeedProduct(t *testing.T, conn *gorm.DB) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        uuid.New(),
		Name:      "Trail Pack",
		Slug:      "trail-pack-" + uuid.NewString(),
		BasePrice: decimal.RequireFromString("59.99"),
		IsActive:  true,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

// SeedVariant inserts a variant with a unique SKU under the product.
func SeedVariant(t *testing.T, conn *gorm.DB, productID uuid.UUID) *models.ProductVariant {
	t.Helper()
	variant := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      "Default",
		SKU:       "SKU-" + uuid.NewString(),
		IsActive:  true,
	}
	require.NoError(t, conn.Create(variant).Error)
	return variant
}

// SeedWarehouse inserts a warehouse.
func SeedWarehouse(t *testing.T, conn *gorm.DB) *models.Warehouse {
	t.Helper()
	warehouse := &models.Warehouse{
		ID:   uuid.New(),
		Name: "Central",
	}
	require.NoError(t, conn.Create(warehouse).Error)
	return warehouse
}
