// Package main provides a CLI tool for preparing the database: it creates
// the schema and seeds the initial roles and admin user.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"stockpoint/internal/core/id"
	"stockpoint/internal/domain/auth"
	"stockpoint/internal/infrastructure/storage/postgres"
	"stockpoint/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := ensureSchema(ctx, pool, log); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}

	if err := seedRoles(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed roles", "error", err)
	}

	if _, err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// schemaStatements are applied in order. Every statement is idempotent, so
// the tool can run against an already prepared database.
var schemaStatements = []string{
	// --- Catalogs ---
	`CREATE TABLE IF NOT EXISTS products (
		id             UUID PRIMARY KEY,
		deletion_mark  BOOLEAN NOT NULL DEFAULT FALSE,
		version        INT NOT NULL DEFAULT 1,
		code           TEXT NOT NULL,
		name           TEXT NOT NULL,
		sku            TEXT NOT NULL,
		barcode        TEXT,
		quantity       BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		min_quantity   BIGINT NOT NULL DEFAULT 0,
		purchase_price BIGINT NOT NULL DEFAULT 0,
		selling_price  BIGINT NOT NULL DEFAULT 0,
		description    TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_products_code ON products (code) WHERE deletion_mark = FALSE`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_products_sku ON products (sku) WHERE deletion_mark = FALSE`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_products_barcode ON products (barcode) WHERE barcode IS NOT NULL AND deletion_mark = FALSE`,

	`CREATE TABLE IF NOT EXISTS suppliers (
		id            UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version       INT NOT NULL DEFAULT 1,
		code          TEXT NOT NULL,
		name          TEXT NOT NULL,
		contact_name  TEXT,
		email         TEXT,
		phone         TEXT,
		address       TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_suppliers_code ON suppliers (code) WHERE deletion_mark = FALSE`,

	// --- Documents ---
	`CREATE TABLE IF NOT EXISTS orders (
		id              UUID PRIMARY KEY,
		deletion_mark   BOOLEAN NOT NULL DEFAULT FALSE,
		version         INT NOT NULL DEFAULT 1,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by      TEXT NOT NULL DEFAULT '',
		updated_by      TEXT NOT NULL DEFAULT '',
		number          TEXT NOT NULL,
		date            TIMESTAMPTZ NOT NULL,
		comment         TEXT NOT NULL DEFAULT '',
		kind            TEXT NOT NULL,
		customer_name   TEXT NOT NULL DEFAULT '',
		supplier_id     UUID REFERENCES suppliers (id),
		sub_total       BIGINT NOT NULL DEFAULT 0,
		tax_rate        NUMERIC(8,4) NOT NULL DEFAULT 0,
		tax_amount      BIGINT NOT NULL DEFAULT 0,
		discount_amount BIGINT NOT NULL DEFAULT 0,
		shipping_cost   BIGINT NOT NULL DEFAULT 0,
		total_amount    BIGINT NOT NULL DEFAULT 0,
		paid_amount     BIGINT NOT NULL DEFAULT 0,
		due_amount      BIGINT NOT NULL DEFAULT 0,
		change_amount   BIGINT NOT NULL DEFAULT 0,
		payment_status  TEXT NOT NULL,
		status          TEXT NOT NULL,
		delivered_at    TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_number ON orders (number)`,
	`CREATE INDEX IF NOT EXISTS ix_orders_kind_date ON orders (kind, date DESC)`,
	`CREATE INDEX IF NOT EXISTS ix_orders_supplier ON orders (supplier_id) WHERE supplier_id IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS order_lines (
		line_id     UUID PRIMARY KEY,
		document_id UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
		line_no     INT NOT NULL,
		product_id  UUID NOT NULL REFERENCES products (id),
		sku         TEXT NOT NULL,
		quantity    BIGINT NOT NULL CHECK (quantity > 0),
		unit_price  BIGINT NOT NULL,
		line_total  BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_order_lines_document ON order_lines (document_id)`,

	`CREATE TABLE IF NOT EXISTS adjustments (
		id            UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version       INT NOT NULL DEFAULT 1,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by    TEXT NOT NULL DEFAULT '',
		updated_by    TEXT NOT NULL DEFAULT '',
		number        TEXT NOT NULL,
		date          TIMESTAMPTZ NOT NULL,
		comment       TEXT NOT NULL DEFAULT '',
		type          TEXT NOT NULL,
		reason        TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_adjustments_number ON adjustments (number)`,

	`CREATE TABLE IF NOT EXISTS adjustment_lines (
		line_id      UUID PRIMARY KEY,
		document_id  UUID NOT NULL REFERENCES adjustments (id) ON DELETE CASCADE,
		line_no      INT NOT NULL,
		product_id   UUID NOT NULL REFERENCES products (id),
		sku          TEXT NOT NULL,
		quantity     BIGINT NOT NULL CHECK (quantity > 0),
		previous_qty BIGINT NOT NULL,
		new_qty      BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_adjustment_lines_document ON adjustment_lines (document_id)`,

	// --- Stock ledger (append-only, no updates or deletes) ---
	`CREATE TABLE IF NOT EXISTS stock_ledger (
		line_id        UUID PRIMARY KEY,
		product_id     UUID NOT NULL REFERENCES products (id),
		delta          BIGINT NOT NULL,
		cause          TEXT NOT NULL,
		reference_type TEXT NOT NULL,
		reference_id   UUID NOT NULL,
		created_by     TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_stock_ledger_product ON stock_ledger (product_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS ix_stock_ledger_reference ON stock_ledger (reference_id)`,

	// --- System tables ---
	`CREATE TABLE IF NOT EXISTS sys_sequences (
		key         TEXT PRIMARY KEY,
		current_val BIGINT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS sys_audit (
		id                 UUID PRIMARY KEY,
		entity_type        TEXT NOT NULL,
		entity_id          UUID NOT NULL,
		action             TEXT NOT NULL,
		user_id            TEXT NOT NULL DEFAULT '',
		user_email         TEXT NOT NULL DEFAULT '',
		changes            JSONB,
		changes_compressed BYTEA,
		compression_algo   TEXT NOT NULL DEFAULT 'none',
		metadata           JSONB,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_sys_audit_entity ON sys_audit (entity_type, entity_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS sys_idempotency (
		idempotency_key       TEXT PRIMARY KEY,
		user_id               TEXT NOT NULL,
		operation             TEXT NOT NULL,
		status                TEXT NOT NULL,
		request_hash          TEXT NOT NULL,
		response              BYTEA,
		response_status       INT NOT NULL DEFAULT 0,
		response_content_type TEXT NOT NULL DEFAULT '',
		created_at            TIMESTAMPTZ NOT NULL,
		updated_at            TIMESTAMPTZ NOT NULL,
		expires_at            TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_sys_idempotency_expires ON sys_idempotency (expires_at)`,

	// --- Auth ---
	`CREATE TABLE IF NOT EXISTS users (
		id                    UUID PRIMARY KEY,
		email                 TEXT NOT NULL,
		password_hash         TEXT NOT NULL,
		first_name            TEXT NOT NULL DEFAULT '',
		last_name             TEXT NOT NULL DEFAULT '',
		is_active             BOOLEAN NOT NULL DEFAULT TRUE,
		is_admin              BOOLEAN NOT NULL DEFAULT FALSE,
		last_login_at         TIMESTAMPTZ,
		failed_login_attempts INT NOT NULL DEFAULT 0,
		locked_until          TIMESTAMPTZ,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at            TIMESTAMPTZ,
		version               INT NOT NULL DEFAULT 1
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email ON users (email) WHERE deleted_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS roles (
		id          UUID PRIMARY KEY,
		code        TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_system   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id    UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		role_id    UUID NOT NULL REFERENCES roles (id) ON DELETE CASCADE,
		granted_by UUID,
		granted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, role_id)
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id             UUID PRIMARY KEY,
		user_id        UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		token_hash     TEXT NOT NULL,
		expires_at     TIMESTAMPTZ NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		revoked_at     TIMESTAMPTZ,
		revoked_reason TEXT NOT NULL DEFAULT '',
		user_agent     TEXT NOT NULL DEFAULT '',
		ip_address     INET
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_refresh_tokens_hash ON refresh_tokens (token_hash)`,
	`CREATE INDEX IF NOT EXISTS ix_refresh_tokens_user ON refresh_tokens (user_id)`,
}

func ensureSchema(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("applying schema...")

	for _, stmt := range schemaStatements {
		if _, err := pool.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	log.Info("schema is up to date")
	return nil
}

func seedRoles(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	roles := []struct {
		code        string
		name        string
		description string
	}{
		{auth.RoleAdmin, "Administrator", "Full access including user management"},
		{auth.RoleManager, "Manager", "Catalog writes, purchases and stock adjustments"},
		{auth.RoleCashier, "Cashier", "Sales and read access"},
	}

	for _, r := range roles {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO roles (id, code, name, description, is_system, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, NOW(), NOW())
			ON CONFLICT (code) DO NOTHING
		`, id.New(), r.code, r.name, r.description)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", r.code, err)
		}
	}

	log.Info("roles seeded")
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@stockpoint.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	// Check if admin already exists
	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1 AND deleted_at IS NULL`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now().UTC()

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			is_active, is_admin, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, 'System', 'Admin', true, true, $4, $4, 1)
	`, userID, adminEmail, string(passwordHash), now)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin user: %w", err)
	}

	var adminRoleID id.ID
	err = pool.Pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE code = $1`, auth.RoleAdmin,
	).Scan(&adminRoleID)
	if err != nil {
		log.Warnw("admin role not found, skipping role assignment", "error", err)
	} else {
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id, granted_by)
			VALUES ($1, $2, NULL)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`, userID, adminRoleID)
		if err != nil {
			log.Warnw("failed to assign admin role", "error", err)
		}
	}

	log.Infow("admin user created",
		"email", adminEmail,
		"user_id", userID,
	)

	return userID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// 1. Suppliers
	suppliers := []struct {
		name    string
		contact string
		email   string
		phone   string
	}{
		{"Acme Wholesale Ltd", "Jordan Reeves", "orders@acmewholesale.example", "+1-555-0101"},
		{"Northline Distribution", "Sam Okafor", "sales@northline.example", "+1-555-0102"},
		{"Prime Office Supply", "Alex Chen", "support@primeoffice.example", "+1-555-0103"},
	}

	for i, s := range suppliers {
		code := fmt.Sprintf("SUP-%03d", i+1)
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO suppliers (id, code, name, contact_name, email, phone, version, deletion_mark)
			VALUES ($1, $2, $3, $4, $5, $6, 1, false)
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), code, s.name, s.contact, s.email, s.phone)
		if err != nil {
			log.Warnw("failed to seed supplier", "name", s.name, "error", err)
		}
	}

	// 2. Products
	// Prices are in minor units (cents). Initial quantity is zero: stock
	// arrives through purchase deliveries and adjustments.
	products := []struct {
		name          string
		sku           string
		barcode       string
		minQuantity   int64
		purchasePrice int64
		sellingPrice  int64
	}{
		{"A4 Copy Paper (500 sheets)", "PAP-A4-500", "4600000000001", 20, 350, 599},
		{"Ballpoint Pen Blue", "PEN-BLU", "4600000000002", 50, 25, 99},
		{"Desktop Stapler", "STP-001", "4600000000003", 10, 420, 899},
		{"Paper Clips 28mm (100 pack)", "CLP-028", "4600000000004", 30, 45, 149},
		{"Lever Arch File A4", "FOL-REG", "4600000000005", 15, 180, 449},
		{"Sticky Notes 76x76", "STN-076", "4600000000006", 40, 60, 199},
	}

	for i, p := range products {
		code := fmt.Sprintf("PRD-%05d", i+1)
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO products (
				id, code, name, sku, barcode, quantity, min_quantity,
				purchase_price, selling_price, version, deletion_mark
			)
			VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, 1, false)
			ON CONFLICT (sku) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), code, p.name, p.sku, p.barcode, p.minQuantity, p.purchasePrice, p.sellingPrice)
		if err != nil {
			log.Warnw("failed to seed product", "name", p.name, "error", err)
		}
	}

	log.Info("demo data seeded successfully")
	return nil
}
