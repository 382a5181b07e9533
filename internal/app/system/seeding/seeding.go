// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"

	capturesettingsstore "github.com/dalemusser/mediasave/internal/app/store/capturesettings"
	"github.com/dalemusser/mediasave/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if err := seedCaptureSettings(ctx, db, logger); err != nil {
		return err
	}
	return nil
}

// seedCaptureSettings creates the default capture settings document if none
// exists. All capture modes start enabled so a fresh deployment has a
// working capture page before anyone edits settings.
func seedCaptureSettings(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := capturesettingsstore.New(db)

	exists, err := store.Exists(ctx)
	if err != nil {
		logger.Error("failed to check if capture settings exist", zap.Error(err))
		return err
	}
	if exists {
		return nil
	}

	if err := store.Upsert(ctx, capturesettingsstore.UpdateInput{
		AudioEnabled:   true,
		VideoEnabled:   true,
		PhotoEnabled:   true,
		DrawingEnabled: true,
		TextEnabled:    true,
		IntroHTML:      models.DefaultIntroHTML,
	}); err != nil {
		logger.Error("failed to seed capture settings", zap.Error(err))
		return err
	}

	logger.Info("seeded default capture settings")
	return nil
}
