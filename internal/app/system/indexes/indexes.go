// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureFolders(ctx, db); err != nil {
		problems = append(problems, "folders: "+err.Error())
	}
	if err := ensureMediaFiles(ctx, db); err != nil {
		problems = append(problems, "media_files: "+err.Error())
	}
	if err := ensureHistoryEntries(ctx, db); err != nil {
		problems = append(problems, "history_entries: "+err.Error())
	}
	if err := ensureHistorySchema(ctx, db); err != nil {
		problems = append(problems, "history_schema: "+err.Error())
	}
	if err := ensureCaptureSettings(ctx, db); err != nil {
		problems = append(problems, "capture_settings: "+err.Error())
	}
	if err := ensureLedgerEntries(ctx, db); err != nil {
		problems = append(problems, "ledger_entries: "+err.Error())
	}
	if err := ensureAPIStats(ctx, db); err != nil {
		problems = append(problems, "api_stats: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// 1) Load existing indexes
		existing := map[string]existingIndex{} // sig -> index
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			defer cur.Close(ctx)
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
		}

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Bool("unique", ex.Unique != nil && *ex.Unique),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// 2) No existing index with the same keys: create it.
		if created, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				zap.L().Warn("index ensure failed (options conflict)",
					zap.String("collection", coll.Name()),
					zap.String("name", desiredName),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				continue
			}

			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		} else {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("created_name", created),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureFolders(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("folders")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Folder lookup by parent and name. Deliberately NOT unique: two
		// concurrent saves may each create a folder with the same name, and
		// both copies stay usable.
		{
			Keys: bson.D{
				{Key: "parent_id", Value: 1},
				{Key: "name_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_folder_parent_name"),
		},
		// List folders by parent, sorted by date
		{
			Keys: bson.D{
				{Key: "parent_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_folder_parent_created"),
		},
	})
}

func ensureMediaFiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("media_files")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// List files by folder, newest first
		{
			Keys: bson.D{
				{Key: "folder_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_mediafile_folder_created"),
		},
		// Storage keys carry a random component, so collisions mean a bug
		{
			Keys: bson.D{
				{Key: "storage_key", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_mediafile_storage_key"),
		},
		// Per-mode counts
		{
			Keys: bson.D{
				{Key: "media_type", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_mediafile_type_created"),
		},
	})
}

func ensureHistoryEntries(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("history_entries")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Newest-first listing
		{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_history_created"),
		},
	})
}

func ensureHistorySchema(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("history_schema")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Unique singleton - only one schema document
		{
			Keys: bson.D{
				{Key: "singleton", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_historyschema_singleton"),
		},
	})
}

func ensureCaptureSettings(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("capture_settings")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Unique singleton - only one settings document
		{
			Keys: bson.D{
				{Key: "singleton", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_capturesettings_singleton"),
		},
	})
}

func ensureLedgerEntries(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("ledger_entries")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Time-based queries (most common)
		{
			Keys: bson.D{
				{Key: "started_at", Value: -1},
			},
			Options: options.Index().SetName("idx_ledger_started"),
		},
		// Unique request_id
		{
			Keys: bson.D{
				{Key: "request_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_ledger_request_id"),
		},
		// Status code queries
		{
			Keys: bson.D{
				{Key: "status_code", Value: 1},
				{Key: "started_at", Value: -1},
			},
			Options: options.Index().SetName("idx_ledger_status"),
		},
		// Error queries
		{
			Keys: bson.D{
				{Key: "error_class", Value: 1},
				{Key: "started_at", Value: -1},
			},
			Options: options.Index().SetSparse(true).SetName("idx_ledger_error_class"),
		},
	})
}

func ensureAPIStats(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("api_stats")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Unique bucket + stat_type + duration combination
		{
			Keys: bson.D{
				{Key: "bucket", Value: 1},
				{Key: "stat_type", Value: 1},
				{Key: "bucket_duration", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_apistats_bucket_type_duration"),
		},
		// Range queries by stat type
		{
			Keys: bson.D{
				{Key: "stat_type", Value: 1},
				{Key: "bucket", Value: 1},
			},
			Options: options.Index().SetName("idx_apistats_type_bucket"),
		},
	})
}
