// internal/app/store/history/historystore.go

// Package historystore maintains the append-only capture history log and
// its column schema. The schema is a singleton document listing the log's
// columns in display order; upgrades only ever append columns so rows
// written by older versions keep their meaning.
package historystore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/mediasave/internal/app/store/storeutil"
	"github.com/dalemusser/mediasave/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SavedAtLayout is the display layout for history timestamps.
const SavedAtLayout = "2006/01/02 15:04:05"

// columns is the full current column set, in display order.
var columns = []models.HistoryColumn{
	{Key: "file_name", Label: "File Name"},
	{Key: "saved_at", Label: "Saved At"},
	{Key: "folder_path", Label: "Folder Path"},
	{Key: "folder_link", Label: "Folder Link"},
	{Key: "file_link", Label: "File Link"},
	{Key: "file_format", Label: "File Format"},
	{Key: "media_type", Label: "Media Type"},
}

// Store provides access to the history_entries and history_schema collections.
type Store struct {
	entries *mongo.Collection
	schema  *mongo.Collection
	loc     *time.Location
}

// New creates a new history store. Timestamps in appended rows are rendered
// in loc; pass time.UTC when no zone is configured.
func New(db *mongo.Database, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{
		entries: db.Collection("history_entries"),
		schema:  db.Collection("history_schema"),
		loc:     loc,
	}
}

// EnsureSchema creates the schema document if missing and appends any
// columns added since the document was written. Existing columns are never
// reordered or removed, and a column is appended at most once.
func (s *Store) EnsureSchema(ctx context.Context) error {
	var current models.HistorySchema
	filter := bson.M{"singleton": true}
	err := s.schema.FindOne(ctx, filter).Decode(&current)
	if err != nil && err != mongo.ErrNoDocuments {
		return err
	}

	if err == mongo.ErrNoDocuments {
		now := time.Now().UTC()
		doc := bson.M{
			"$set": bson.M{
				"singleton":  true,
				"columns":    columns,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{
				"_id": primitive.NewObjectID(),
			},
		}
		opts := options.Update().SetUpsert(true)
		_, err := s.schema.UpdateOne(ctx, filter, doc, opts)
		return err
	}

	missing := missingColumns(current.Columns)
	if len(missing) == 0 {
		return nil
	}

	now := time.Now().UTC()
	update := bson.M{
		"$push": bson.M{
			"columns": bson.M{"$each": missing},
		},
		"$set": bson.M{
			"updated_at": now,
		},
	}
	_, err = s.schema.UpdateOne(ctx, filter, update)
	return err
}

// missingColumns returns the current columns absent from existing, in
// display order.
func missingColumns(existing []models.HistoryColumn) []models.HistoryColumn {
	have := make(map[string]bool, len(existing))
	for _, col := range existing {
		have[col.Key] = true
	}

	var missing []models.HistoryColumn
	for _, col := range columns {
		if !have[col.Key] {
			missing = append(missing, col)
		}
	}
	return missing
}

// GetSchema returns the stored column schema.
func (s *Store) GetSchema(ctx context.Context) (*models.HistorySchema, error) {
	var schema models.HistorySchema
	if err := s.schema.FindOne(ctx, bson.M{"singleton": true}).Decode(&schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// AppendInput holds the fields for one history row.
type AppendInput struct {
	FileName   string
	SavedAt    time.Time
	FolderPath string
	FolderLink string
	FileLink   string
	FileFormat string
	MediaType  string
}

// Append writes one row to the history log. The timestamp is rendered in
// the store's configured zone and the file format is uppercased for display.
// The column schema is ensured before the row is written, so an append
// against a legacy store upgrades it in the same call.
func (s *Store) Append(ctx context.Context, input AppendInput) (*models.HistoryEntry, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	entry := models.HistoryEntry{
		ID:         primitive.NewObjectID(),
		FileName:   input.FileName,
		SavedAt:    input.SavedAt.In(s.loc).Format(SavedAtLayout),
		FolderPath: input.FolderPath,
		FolderLink: input.FolderLink,
		FileLink:   input.FileLink,
		FileFormat: strings.ToUpper(input.FileFormat),
		MediaType:  input.MediaType,
		CreatedAt:  time.Now().UTC(),
	}

	if _, err := s.entries.InsertOne(ctx, entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

// List returns history rows newest-first.
func (s *Store) List(ctx context.Context, page, perPage int) ([]models.HistoryEntry, error) {
	skip, limit := storeutil.Paginate(page, perPage)

	// _id breaks ties between rows written in the same millisecond.
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.entries.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.HistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Count returns the total number of history rows.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.entries.CountDocuments(ctx, bson.M{})
}
