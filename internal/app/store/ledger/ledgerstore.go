// internal/app/store/ledger/ledgerstore.go

// Package ledgerstore persists one entry per capture API request so that
// failed saves can be diagnosed after the fact.
package ledgerstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Entry represents a single request log in the ledger.
type Entry struct {
	ID primitive.ObjectID `bson:"_id"`

	RequestID       string `bson:"request_id"`
	ClientRequestID string `bson:"client_request_id,omitempty"` // From X-Request-ID header

	Method   string            `bson:"method"`
	Path     string            `bson:"path"`
	Query    string            `bson:"query,omitempty"`
	Headers  map[string]string `bson:"headers,omitempty"` // Sensitive headers redacted
	RemoteIP string            `bson:"remote_ip"`

	// ActorType is "api_key" for authenticated capture calls, "anonymous" otherwise.
	ActorType string `bson:"actor_type"`

	RequestBodySize    int64  `bson:"request_body_size"`
	RequestBodyHash    string `bson:"request_body_hash,omitempty"`    // SHA256 first 8 chars
	RequestBodyPreview string `bson:"request_body_preview,omitempty"` // First 500 chars
	RequestContentType string `bson:"request_content_type,omitempty"`

	StatusCode   int    `bson:"status_code"`
	ResponseSize int64  `bson:"response_size"`
	ErrorClass   string `bson:"error_class,omitempty"` // "validation", "auth", "internal"
	ErrorMessage string `bson:"error_message,omitempty"`

	// Capture metadata, set by the save pipeline.
	MediaType  string `bson:"media_type,omitempty"`
	StorageKey string `bson:"storage_key,omitempty"`

	DurationMs float64 `bson:"duration_ms"`

	StartedAt   time.Time `bson:"started_at"`
	CompletedAt time.Time `bson:"completed_at"`
}

// Store provides ledger entry persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a new ledger store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ledger_entries")}
}

// Create inserts a new ledger entry.
func (s *Store) Create(ctx context.Context, entry Entry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

// GetByRequestID retrieves a ledger entry by request ID.
func (s *Store) GetByRequestID(ctx context.Context, requestID string) (*Entry, error) {
	var entry Entry
	if err := s.c.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListFilter specifies criteria for listing ledger entries.
type ListFilter struct {
	StartTime *time.Time
	EndTime   *time.Time

	ActorType string
	Method    string
	Path      string
	MediaType string

	StatusCodeMin *int
	StatusCodeMax *int
	ErrorClass    string
}

// List returns ledger entries matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter, page, perPage int) ([]Entry, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 200 {
		perPage = 200
	}

	query := buildQuery(filter)

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetSkip(int64(page-1) * int64(perPage)).
		SetLimit(int64(perPage))

	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of entries matching the filter.
func (s *Store) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, buildQuery(filter))
}

// buildQuery constructs a MongoDB query from ListFilter.
func buildQuery(filter ListFilter) bson.M {
	query := bson.M{}

	if filter.StartTime != nil || filter.EndTime != nil {
		timeQuery := bson.M{}
		if filter.StartTime != nil {
			timeQuery["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			timeQuery["$lte"] = *filter.EndTime
		}
		query["started_at"] = timeQuery
	}

	if filter.ActorType != "" {
		query["actor_type"] = filter.ActorType
	}
	if filter.Method != "" {
		query["method"] = filter.Method
	}
	if filter.Path != "" {
		query["path"] = filter.Path
	}
	if filter.MediaType != "" {
		query["media_type"] = filter.MediaType
	}

	if filter.StatusCodeMin != nil || filter.StatusCodeMax != nil {
		statusQuery := bson.M{}
		if filter.StatusCodeMin != nil {
			statusQuery["$gte"] = *filter.StatusCodeMin
		}
		if filter.StatusCodeMax != nil {
			statusQuery["$lte"] = *filter.StatusCodeMax
		}
		query["status_code"] = statusQuery
	}
	if filter.ErrorClass != "" {
		query["error_class"] = filter.ErrorClass
	}

	return query
}

// RecentErrors returns the most recent entries with an error status.
func (s *Store) RecentErrors(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.c.Find(ctx, bson.M{
		"status_code": bson.M{"$gte": 400},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteOlderThan deletes entries older than the cutoff time.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.c.DeleteMany(ctx, bson.M{
		"started_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
