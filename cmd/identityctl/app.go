package main

import (
	"context"
	"log/slog"

	"identity/config"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
	"identity/internal/infra/auth"
	logs "identity/internal/infra/log"
	"identity/internal/infra/persistence/postgres"
	"identity/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// withApp builds a short-lived container against the configured database,
// starts it, hands the populated targets to run and stops it again.
func withApp(ctx context.Context, run func() error, targets ...any) error {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			requirePostgres,
			auth.NewBcryptHasher,
			auth.NewJWTService,
			func(tokens service.TokenService) service.TokenIssuer { return tokens },
			func(db *gorm.DB) repository.UserRepository { return postgres.NewUserRepository(db) },
			impl.NewAuthService,
		),
		fx.Populate(targets...),
	)

	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start")
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			slog.Warn("Failed to stop cleanly", slog.Any("error", err))
		}
	}()

	return run()
}

// requirePostgres opens the database; the admin commands have nothing to do against the memory store.
func requirePostgres(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return nil, errors.Errorf("storage driver %q is not supported by identityctl", cfg.Storage.Driver)
	}

	return postgres.New(postgres.Params{
		Lifecycle: lc,
		Config:    cfg,
		Logger:    logger,
	})
}
