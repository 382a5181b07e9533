// internal/domain/models/historyentry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryEntry is one row of the append-only capture history log.
// Rows are never updated or deleted by the application.
type HistoryEntry struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	FileName   string `bson:"file_name" json:"file_name"`
	SavedAt    string `bson:"saved_at" json:"saved_at"` // display text, "2006/01/02 15:04:05"
	FolderPath string `bson:"folder_path" json:"folder_path"`
	FolderLink string `bson:"folder_link" json:"folder_link"`
	FileLink   string `bson:"file_link" json:"file_link"`
	FileFormat string `bson:"file_format,omitempty" json:"file_format,omitempty"`
	MediaType  string `bson:"media_type,omitempty" json:"media_type,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HistoryColumn describes one column of the history log, in display order.
type HistoryColumn struct {
	Key   string `bson:"key" json:"key"`
	Label string `bson:"label" json:"label"`
}

// HistorySchema records the ordered column set of the history log.
// Columns are only ever appended; existing columns keep their position.
type HistorySchema struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Columns   []HistoryColumn    `bson:"columns" json:"columns"`
	UpdatedAt *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
