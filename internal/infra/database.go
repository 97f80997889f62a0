package infra

import (
	"fmt"

	"github.com/SakshamGunj/pos-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the ledger tables, then applies idempotent SQL patches that GORM cannot
// express — most importantly the partial unique index that makes "at most one
// active session" a store-level guarantee instead of a service-level check.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle on
// its own. Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial unique index: at most one row may have is_active = true.
		// Two concurrent session starts race to this index; the loser gets a
		// unique violation which the service maps to a conflict error.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_sessions_single_active') THEN
		    CREATE UNIQUE INDEX uniq_sessions_single_active
		        ON sessions (is_active)
		        WHERE is_active;
		  END IF;
		END $$`,
		// Accumulators must never go negative — payments are strictly positive
		// and the ledger never subtracts.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sessions_totals_non_negative') THEN
		    ALTER TABLE sessions ADD CONSTRAINT chk_sessions_totals_non_negative
		        CHECK (cash_total >= 0 AND upi_total >= 0 AND bank_total >= 0 AND total_revenue >= 0);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// RunMigrations applies the full schema: AutoMigrate plus the SQL patches.
// Idempotent, so integration tests can call it on an already-migrated DB.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Session{},
		&model.Transaction{},
		&model.Order{},
		&model.OrderItem{},
		&model.MenuItem{},
		&model.StockMovement{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}
