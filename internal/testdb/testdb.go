// Package testdb opens throwaway in-memory SQLite databases carrying the full
// schema, so repository tests can exercise real constraint behavior without a
// running Postgres.
package testdb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns a connection to a fresh in-memory database with every table
// created and foreign key enforcement switched on.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, dbErr := conn.DB()
		if dbErr == nil {
			_ = sqlDB.Close()
		}
	})

	for _, stmt := range strings.Split(schema, ";\n\n") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		require.NoError(t, conn.Exec(stmt).Error, stmt)
	}
	return conn
}

// schema mirrors the Postgres migrations, translated to SQLite types. IDs are
// plain text because tests assign them explicitly.
const schema = `
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME,
    updated_at DATETIME
);

CREATE UNIQUE INDEX idx_users_email ON users (email);

CREATE TABLE customer_profiles (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    phone_number TEXT NOT NULL DEFAULT '',
    date_of_birth DATE
);

CREATE UNIQUE INDEX idx_customer_profiles_user_id ON customer_profiles (user_id);

CREATE TABLE addresses (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    address_line1 TEXT NOT NULL,
    address_line2 TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL,
    state TEXT NOT NULL,
    country TEXT NOT NULL,
    postal_code TEXT NOT NULL,
    is_default INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    parent_id TEXT REFERENCES categories (id) ON DELETE SET NULL,
    description TEXT NOT NULL DEFAULT ''
);

CREATE UNIQUE INDEX idx_categories_slug ON categories (slug);

CREATE TABLE brands (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    logo_ref TEXT
);

CREATE UNIQUE INDEX idx_brands_slug ON brands (slug);

CREATE TABLE tags (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL
);

CREATE UNIQUE INDEX idx_tags_name ON tags (name);
CREATE UNIQUE INDEX idx_tags_slug ON tags (slug);

CREATE TABLE products (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    brand_id TEXT REFERENCES brands (id) ON DELETE SET NULL,
    base_price NUMERIC NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME,
    updated_at DATETIME
);

CREATE UNIQUE INDEX idx_products_slug ON products (slug);

CREATE TABLE product_categories (
    product_id TEXT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    category_id TEXT NOT NULL REFERENCES categories (id) ON DELETE CASCADE,
    PRIMARY KEY (product_id, category_id)
);

CREATE TABLE product_tags (
    product_id TEXT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    tag_id TEXT NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
    PRIMARY KEY (product_id, tag_id)
);

CREATE TABLE product_images (
    id TEXT PRIMARY KEY,
    product_id TEXT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    image_ref TEXT NOT NULL,
    alt_text TEXT NOT NULL DEFAULT '',
    is_primary INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE product_variants (
    id TEXT PRIMARY KEY,
    product_id TEXT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    sku TEXT NOT NULL,
    price_adjustment NUMERIC NOT NULL DEFAULT 0,
    weight NUMERIC,
    dimensions TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE UNIQUE INDEX idx_product_variants_sku ON product_variants (sku);

CREATE TABLE product_attributes (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL
);

CREATE UNIQUE INDEX idx_product_attributes_slug ON product_attributes (slug);

CREATE TABLE attribute_values (
    id TEXT PRIMARY KEY,
    attribute_id TEXT NOT NULL REFERENCES product_attributes (id) ON DELETE CASCADE,
    value TEXT NOT NULL
);

CREATE TABLE product_attribute_values (
    id TEXT PRIMARY KEY,
    variant_id TEXT NOT NULL REFERENCES product_variants (id) ON DELETE CASCADE,
    attribute_value_id TEXT NOT NULL REFERENCES attribute_values (id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX idx_variant_attribute_value ON product_attribute_values (variant_id, attribute_value_id);

CREATE TABLE warehouses (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT ''
);

CREATE TABLE inventory_items (
    id TEXT PRIMARY KEY,
    variant_id TEXT NOT NULL REFERENCES product_variants (id) ON DELETE CASCADE,
    warehouse_id TEXT NOT NULL REFERENCES warehouses (id) ON DELETE CASCADE,
    quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    last_updated DATETIME
);

CREATE UNIQUE INDEX idx_inventory_variant_warehouse ON inventory_items (variant_id, warehouse_id);

CREATE TABLE inventory_transactions (
    id TEXT PRIMARY KEY,
    inventory_item_id TEXT NOT NULL REFERENCES inventory_items (id) ON DELETE CASCADE,
    quantity INTEGER NOT NULL,
    transaction_type TEXT NOT NULL CHECK (transaction_type IN ('receipt', 'sale', 'adjustment', 'transfer')),
    reference TEXT,
    created_at DATETIME
);

CREATE TABLE inventory_alerts (
    id TEXT PRIMARY KEY,
    inventory_item_id TEXT NOT NULL REFERENCES inventory_items (id) ON DELETE CASCADE,
    threshold INTEGER NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE UNIQUE INDEX idx_inventory_alerts_item ON inventory_alerts (inventory_item_id);

CREATE TABLE carts (
    id TEXT PRIMARY KEY,
    user_id TEXT REFERENCES users (id) ON DELETE CASCADE,
    session_id TEXT,
    created_at DATETIME,
    updated_at DATETIME,
    CHECK (user_id IS NOT NULL OR session_id IS NOT NULL)
);

CREATE UNIQUE INDEX idx_carts_user_id ON carts (user_id);

CREATE TABLE cart_items (
    id TEXT PRIMARY KEY,
    cart_id TEXT NOT NULL REFERENCES carts (id) ON DELETE CASCADE,
    variant_id TEXT NOT NULL REFERENCES product_variants (id) ON DELETE CASCADE,
    quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
    added_at DATETIME
);

CREATE UNIQUE INDEX idx_cart_items_cart_variant ON cart_items (cart_id, variant_id);

CREATE TABLE orders (
    id TEXT PRIMARY KEY,
    user_id TEXT REFERENCES users (id) ON DELETE SET NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'processing', 'shipped', 'delivered', 'cancelled')),
    total_amount NUMERIC NOT NULL,
    shipping_address_id TEXT NOT NULL REFERENCES addresses (id) ON DELETE RESTRICT,
    billing_address_id TEXT NOT NULL REFERENCES addresses (id) ON DELETE RESTRICT,
    created_at DATETIME,
    updated_at DATETIME
);

CREATE TABLE order_items (
    id TEXT PRIMARY KEY,
    order_id TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    variant_id TEXT REFERENCES product_variants (id) ON DELETE SET NULL,
    quantity INTEGER NOT NULL CHECK (quantity >= 1),
    unit_price NUMERIC NOT NULL
);

CREATE TABLE payments (
    id TEXT PRIMARY KEY,
    order_id TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    amount NUMERIC NOT NULL,
    payment_method TEXT NOT NULL,
    transaction_id TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'failed', 'refunded')),
    created_at DATETIME,
    updated_at DATETIME
);

CREATE UNIQUE INDEX idx_payments_transaction_id ON payments (transaction_id);

CREATE TABLE reviews (
    id TEXT PRIMARY KEY,
    product_id TEXT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
    comment TEXT NOT NULL DEFAULT '',
    created_at DATETIME,
    updated_at DATETIME
);

CREATE UNIQUE INDEX idx_reviews_product_user ON reviews (product_id, user_id);

CREATE TABLE coupons (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    discount_value NUMERIC NOT NULL,
    is_percentage INTEGER NOT NULL DEFAULT 0,
    min_purchase_amount NUMERIC,
    valid_from DATETIME NOT NULL,
    valid_to DATETIME NOT NULL,
    max_uses INTEGER,
    times_used INTEGER NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX idx_coupons_code ON coupons (code);

CREATE TABLE wishlists (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    created_at DATETIME,
    updated_at DATETIME
);

CREATE TABLE wishlist_items (
    id TEXT PRIMARY KEY,
    wishlist_id TEXT NOT NULL REFERENCES wishlists (id) ON DELETE CASCADE,
    product_id TEXT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    added_at DATETIME
);

CREATE UNIQUE INDEX idx_wishlist_items_wishlist_product ON wishlist_items (wishlist_id, product_id);

CREATE TABLE shipping_methods (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    base_price NUMERIC NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE shipping_zones (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    countries TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE shipping_rates (
    id TEXT PRIMARY KEY,
    shipping_method_id TEXT NOT NULL REFERENCES shipping_methods (id) ON DELETE CASCADE,
    zone_id TEXT NOT NULL REFERENCES shipping_zones (id) ON DELETE CASCADE,
    price NUMERIC NOT NULL
);

CREATE UNIQUE INDEX idx_shipping_rates_method_zone ON shipping_rates (shipping_method_id, zone_id);

CREATE TABLE subscription_plans (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price NUMERIC NOT NULL,
    billing_cycle_days INTEGER NOT NULL CHECK (billing_cycle_days >= 1),
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE subscriptions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    plan_id TEXT NOT NULL REFERENCES subscription_plans (id) ON DELETE RESTRICT,
    start_date DATETIME NOT NULL,
    end_date DATETIME NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE digital_products (
    product_id TEXT PRIMARY KEY REFERENCES products (id) ON DELETE CASCADE,
    file_ref TEXT NOT NULL,
    file_size INTEGER NOT NULL CHECK (file_size >= 0),
    download_limit INTEGER
);
`
