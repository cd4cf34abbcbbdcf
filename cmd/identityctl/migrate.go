package main

import (
	"context"
	"fmt"

	"identity/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func runMigrate(ctx context.Context) error {
	var db *gorm.DB

	return withApp(ctx, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return errors.Wrap(err, "failed to get sql.DB")
		}

		if err := postgres.Migrate(ctx, sqlDB); err != nil {
			return err
		}

		fmt.Println("Migrations applied")

		return nil
	}, &db)
}
