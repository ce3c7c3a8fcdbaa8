package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"admin-panel-api/cmd/api/infrastructure"
	"admin-panel-api/internal/adapter/db/gormdb"
	"admin-panel-api/internal/config"
	"admin-panel-api/internal/seed"
)

// Seed loads the canned dataset into the configured database. Rows that
// already exist, matched by SKU or email, are left untouched.
func Seed(ctx context.Context) error {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Storage.Driver == config.DriverMemory {
		return fmt.Errorf("the memory driver seeds itself at boot; set STORAGE_DRIVER to sqlite or postgres")
	}

	l, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := infrastructure.CloseDatabase(db); err != nil {
			l.Warn("failed to close database", zap.Error(err))
		}
	}()

	products := gormdb.NewProductRepo(db, l)
	inserted, skipped := 0, 0
	for _, p := range seed.Products() {
		existing, err := products.GetBySKU(ctx, p.SKU)
		if err != nil {
			return fmt.Errorf("failed to check product %s: %w", p.SKU, err)
		}
		if existing != nil {
			skipped++
			continue
		}
		item := p
		if _, err := products.Create(ctx, &item); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.SKU, err)
		}
		inserted++
	}
	l.Info("product catalog seeded", zap.Int("inserted", inserted), zap.Int("skipped", skipped))

	accounts, err := seed.Users()
	if err != nil {
		return fmt.Errorf("failed to build seed users: %w", err)
	}
	users := gormdb.NewUserRepo(db, l)
	inserted, skipped = 0, 0
	for _, u := range accounts {
		existing, err := users.GetByEmail(ctx, u.Email)
		if err != nil {
			return fmt.Errorf("failed to check user %s: %w", u.Email, err)
		}
		if existing != nil {
			skipped++
			continue
		}
		account := u
		if _, err := users.Create(ctx, &account); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		inserted++
	}
	l.Info("user directory seeded", zap.Int("inserted", inserted), zap.Int("skipped", skipped))

	return nil
}
