package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/printcrm/pkg/config"
	"github.com/angelmondragon/printcrm/pkg/db"
	"github.com/angelmondragon/printcrm/pkg/db/models"
	"github.com/angelmondragon/printcrm/pkg/logger"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&models.PriceEntry{},
		&models.CustomerOrder{},
		&models.CartItem{},
		&models.User{},
	}
}

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. sqlite databases are migrated with gorm's AutoMigrate
// because the goose files are written for Postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir, "driver": client.Dialect()}
	ctx = logg.WithFields(ctx, meta)

	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "running AutoMigrate (dev auto-run)")
		if err := client.DB().WithContext(ctx).AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("running auto migrate: %w", err)
		}
		logg.Info(ctx, "AutoMigrate completed")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running Goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}
