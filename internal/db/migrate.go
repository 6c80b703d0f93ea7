package db

import (
	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Store{},
		&model.Review{},
		&model.Heart{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models": len(models),
	})
	return nil
}
