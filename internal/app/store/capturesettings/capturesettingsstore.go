// internal/app/store/capturesettings/capturesettingsstore.go
package capturesettingsstore

import (
	"context"
	"time"

	"github.com/dalemusser/mediasave/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the capture_settings collection.
// Capture settings live in a singleton document (only one per deployment).
type Store struct {
	c *mongo.Collection
}

// New creates a new capture settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("capture_settings")}
}

// Get returns the capture settings document.
// Returns mongo.ErrNoDocuments when none has been saved yet; callers decide
// how a missing document should be treated.
func (s *Store) Get(ctx context.Context) (*models.CaptureSettings, error) {
	var settings models.CaptureSettings
	filter := bson.M{"singleton": true}
	if err := s.c.FindOne(ctx, filter).Decode(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Exists checks if capture settings have been saved.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	filter := bson.M{"singleton": true}
	count, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateInput holds the fields for updating capture settings.
type UpdateInput struct {
	SubfolderName  string
	AudioEnabled   bool
	VideoEnabled   bool
	PhotoEnabled   bool
	DrawingEnabled bool
	TextEnabled    bool
	IntroHTML      string
}

// Upsert updates or inserts the capture settings from UpdateInput.
func (s *Store) Upsert(ctx context.Context, input UpdateInput) error {
	now := time.Now().UTC()

	filter := bson.M{"singleton": true}
	update := bson.M{
		"$set": bson.M{
			"singleton":       true,
			"subfolder_name":  input.SubfolderName,
			"audio_enabled":   input.AudioEnabled,
			"video_enabled":   input.VideoEnabled,
			"photo_enabled":   input.PhotoEnabled,
			"drawing_enabled": input.DrawingEnabled,
			"text_enabled":    input.TextEnabled,
			"intro_html":      input.IntroHTML,
			"updated_at":      now,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}

// EnableAudio turns the audio capture mode back on, creating the settings
// document if necessary. Used as the corrective write when every mode has
// been switched off and the capture page would otherwise be unusable.
func (s *Store) EnableAudio(ctx context.Context) error {
	now := time.Now().UTC()

	filter := bson.M{"singleton": true}
	update := bson.M{
		"$set": bson.M{
			"singleton":     true,
			"audio_enabled": true,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}
