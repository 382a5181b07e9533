// Package mediafile provides storage for captured media file metadata.
package mediafile

import (
	"context"
	"time"

	"github.com/dalemusser/mediasave/internal/app/store/storeutil"
	"github.com/dalemusser/mediasave/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the media_files collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new media file store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("media_files"),
	}
}

// CreateInput contains the input for recording a captured file.
type CreateInput struct {
	FolderID    *primitive.ObjectID
	Name        string
	StorageKey  string
	Size        int64
	ContentType string
	MediaType   string
	Format      string
}

// Create records a captured file.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.MediaFile, error) {
	file := models.MediaFile{
		ID:          primitive.NewObjectID(),
		FolderID:    input.FolderID,
		Name:        input.Name,
		NameCI:      text.Fold(input.Name),
		StorageKey:  input.StorageKey,
		Size:        input.Size,
		ContentType: input.ContentType,
		MediaType:   input.MediaType,
		Format:      input.Format,
		CreatedAt:   time.Now(),
	}

	if _, err := s.c.InsertOne(ctx, file); err != nil {
		return nil, err
	}

	return &file, nil
}

// GetByID retrieves a media file by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.MediaFile, error) {
	var file models.MediaFile
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

// GetByStorageKey retrieves a media file by its storage key.
func (s *Store) GetByStorageKey(ctx context.Context, key string) (*models.MediaFile, error) {
	var file models.MediaFile
	if err := s.c.FindOne(ctx, bson.M{"storage_key": key}).Decode(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

// ListByFolder returns files in a folder, newest first.
// Pass nil for folderID to list root-level files.
func (s *Store) ListByFolder(ctx context.Context, folderID *primitive.ObjectID, page, perPage int) ([]models.MediaFile, error) {
	skip, limit := storeutil.Paginate(page, perPage)

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, bson.M{"folder_id": folderID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []models.MediaFile
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}

	return files, nil
}

// CountByFolder returns the number of files in a folder.
func (s *Store) CountByFolder(ctx context.Context, folderID *primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"folder_id": folderID})
}

// CountByMediaType returns the number of captured files of one media type.
func (s *Store) CountByMediaType(ctx context.Context, mediaType string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"media_type": mediaType})
}

// Delete deletes a media file record.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
