// Package folder provides storage for capture library folders.
package folder

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/mediasave/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrInvalidName is returned when a folder name is empty or whitespace.
var ErrInvalidName = errors.New("folder: invalid folder name")

// Store provides access to the folders collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new folder store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("folders"),
	}
}

// CreateInput contains the input for creating a folder.
type CreateInput struct {
	Name     string
	ParentID *primitive.ObjectID
}

// Create creates a new folder.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Folder, error) {
	now := time.Now()
	folder := models.Folder{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		NameCI:    text.Fold(input.Name),
		ParentID:  input.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, folder); err != nil {
		return nil, err
	}

	return &folder, nil
}

// Resolve returns the first direct child of parentID whose name exactly
// matches name, creating the folder if no match exists.
//
// Concurrent calls may each create a folder with the same name; duplicates
// are tolerated and later calls return the first match by insertion order.
// Pass nil for parentID to resolve at the root level.
func (s *Store) Resolve(ctx context.Context, name string, parentID *primitive.ObjectID) (*models.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}

	filter := bson.M{
		"parent_id": parentID,
		"name":      name,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})

	var folder models.Folder
	err := s.c.FindOne(ctx, filter, opts).Decode(&folder)
	if err == nil {
		return &folder, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	return s.Create(ctx, CreateInput{Name: name, ParentID: parentID})
}

// GetByID retrieves a folder by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error) {
	var folder models.Folder
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListByParent returns all folders within a parent folder, sorted by name.
// Pass nil for parentID to list root folders.
func (s *Store) ListByParent(ctx context.Context, parentID *primitive.ObjectID) ([]models.Folder, error) {
	filter := bson.M{"parent_id": parentID}
	findOpts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})

	cursor, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var folders []models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}

	return folders, nil
}

// CountByParent returns the number of folders within a parent folder.
func (s *Store) CountByParent(ctx context.Context, parentID *primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"parent_id": parentID})
}

// GetAncestors returns all ancestors of a folder, ordered from root to immediate parent.
func (s *Store) GetAncestors(ctx context.Context, id primitive.ObjectID) ([]models.Folder, error) {
	folder, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var ancestors []models.Folder

	currentParentID := folder.ParentID
	for currentParentID != nil {
		parent, err := s.GetByID(ctx, *currentParentID)
		if err != nil {
			return nil, err
		}
		// Prepend to get root-first order
		ancestors = append([]models.Folder{*parent}, ancestors...)
		currentParentID = parent.ParentID
	}

	return ancestors, nil
}

// GetPath returns the full path of a folder (ancestors + the folder itself).
func (s *Store) GetPath(ctx context.Context, id primitive.ObjectID) ([]models.Folder, error) {
	folder, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ancestors, err := s.GetAncestors(ctx, id)
	if err != nil {
		return nil, err
	}

	return append(ancestors, *folder), nil
}

// PathText renders a folder path as display text, e.g. "Root > Sub".
func PathText(path []models.Folder) string {
	names := make([]string, len(path))
	for i, f := range path {
		names[i] = f.Name
	}
	return strings.Join(names, " > ")
}
