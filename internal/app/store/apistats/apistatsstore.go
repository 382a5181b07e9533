// Package apistats provides storage for API request statistics with configurable bucket duration.
package apistats

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for API statistics.
const CollectionName = "api_stats"

// StatType identifies the type of API operation being tracked.
type StatType string

const (
	StatTypeCaptureAudio   StatType = "capture_audio"
	StatTypeCaptureVideo   StatType = "capture_video"
	StatTypeCapturePhoto   StatType = "capture_photo"
	StatTypeCaptureDrawing StatType = "capture_drawing"
	StatTypeCaptureText    StatType = "capture_text"
	StatTypeCaptureModes   StatType = "capture_modes"
	StatTypeHistoryList    StatType = "history_list"
)

// Bucket represents a time bucket of aggregated statistics.
type Bucket struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Bucket         time.Time          `bson:"bucket"`          // Bucket start time
	BucketDuration string             `bson:"bucket_duration"` // Duration string (e.g., "1h", "15m")
	StatType       StatType           `bson:"stat_type"`
	Requests       int64              `bson:"requests"`
	Errors         int64              `bson:"errors"` // 4xx and 5xx responses
	TotalMs        int64              `bson:"total_ms"`
	MinMs          int64              `bson:"min_ms"`
	MaxMs          int64              `bson:"max_ms"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

// AvgMs returns the average response time in milliseconds.
func (b *Bucket) AvgMs() float64 {
	if b.Requests == 0 {
		return 0
	}
	return float64(b.TotalMs) / float64(b.Requests)
}

// Store provides API statistics persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a new API stats store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// TruncateToBucket truncates a time to the start of its bucket.
func TruncateToBucket(t time.Time, duration time.Duration) time.Time {
	return t.UTC().Truncate(duration)
}

// Record records a single API request's statistics.
// This atomically updates the appropriate bucket, creating it if needed.
func (s *Store) Record(ctx context.Context, statType StatType, bucketDuration time.Duration, durationMs int64, isError bool) error {
	now := time.Now().UTC()
	bucket := TruncateToBucket(now, bucketDuration)
	durationStr := bucketDuration.String()

	// $min and $max cover both the insert and update cases, so min_ms and
	// max_ms must stay out of $setOnInsert.
	update := bson.M{
		"$inc": bson.M{
			"requests": 1,
			"total_ms": durationMs,
		},
		"$set": bson.M{
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":             primitive.NewObjectID(),
			"bucket":          bucket,
			"bucket_duration": durationStr,
			"stat_type":       statType,
		},
		"$min": bson.M{
			"min_ms": durationMs,
		},
		"$max": bson.M{
			"max_ms": durationMs,
		},
	}

	if isError {
		update["$inc"].(bson.M)["errors"] = 1
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{
		"bucket":          bucket,
		"stat_type":       statType,
		"bucket_duration": durationStr,
	}, update, opts)
	return err
}

// GetRange retrieves stats for a time range and stat type.
// If bucketDuration is empty, returns all resolutions.
func (s *Store) GetRange(ctx context.Context, statType StatType, startTime, endTime time.Time, bucketDuration string) ([]Bucket, error) {
	filter := bson.M{
		"stat_type": statType,
		"bucket": bson.M{
			"$gte": startTime.UTC(),
			"$lte": endTime.UTC(),
		},
	}
	if bucketDuration != "" {
		filter["bucket_duration"] = bucketDuration
	}

	opts := options.Find().SetSort(bson.D{{Key: "bucket", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var buckets []Bucket
	if err := cur.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// AggregateRange aggregates stats over a time range, combining all buckets.
func (s *Store) AggregateRange(ctx context.Context, statType StatType, startTime, endTime time.Time) (*AggregatedStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"stat_type": statType,
			"bucket": bson.M{
				"$gte": startTime.UTC(),
				"$lte": endTime.UTC(),
			},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"requests": bson.M{"$sum": "$requests"},
			"errors":   bson.M{"$sum": "$errors"},
			"total_ms": bson.M{"$sum": "$total_ms"},
			"min_ms":   bson.M{"$min": "$min_ms"},
			"max_ms":   bson.M{"$max": "$max_ms"},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return &AggregatedStats{}, nil
	}

	var result struct {
		Requests int64 `bson:"requests"`
		Errors   int64 `bson:"errors"`
		TotalMs  int64 `bson:"total_ms"`
		MinMs    int64 `bson:"min_ms"`
		MaxMs    int64 `bson:"max_ms"`
	}
	if err := cur.Decode(&result); err != nil {
		return nil, err
	}

	return &AggregatedStats{
		Requests: result.Requests,
		Errors:   result.Errors,
		TotalMs:  result.TotalMs,
		MinMs:    result.MinMs,
		MaxMs:    result.MaxMs,
	}, nil
}

// AggregatedStats represents aggregated statistics over a time range.
type AggregatedStats struct {
	Requests int64
	Errors   int64
	TotalMs  int64
	MinMs    int64
	MaxMs    int64
}

// AvgMs returns the average response time in milliseconds.
func (a *AggregatedStats) AvgMs() float64 {
	if a.Requests == 0 {
		return 0
	}
	return float64(a.TotalMs) / float64(a.Requests)
}

// ErrorRate returns the error rate as a percentage.
func (a *AggregatedStats) ErrorRate() float64 {
	if a.Requests == 0 {
		return 0
	}
	return float64(a.Errors) / float64(a.Requests) * 100
}

// DeleteOlderThan deletes stats older than the cutoff time.
// If bucketDuration is specified, only deletes that resolution.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time, bucketDuration string) (int64, error) {
	filter := bson.M{
		"bucket": bson.M{"$lt": cutoff.UTC()},
	}
	if bucketDuration != "" {
		filter["bucket_duration"] = bucketDuration
	}

	result, err := s.c.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
