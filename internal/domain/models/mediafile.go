package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaFile represents a captured file stored in the library.
type MediaFile struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	FolderID    *primitive.ObjectID `bson:"folder_id,omitempty"` // nil = root level
	Name        string              `bson:"name"`                // Display filename (base name + extension)
	NameCI      string              `bson:"name_ci"`             // Case-insensitive for sorting/search
	StorageKey  string              `bson:"storage_key"`         // Key in the storage backend
	Size        int64               `bson:"size"`                // File size in bytes
	ContentType string              `bson:"content_type"`        // MIME type
	MediaType   string              `bson:"media_type"`          // audio, video, photo, drawing, text
	Format      string              `bson:"format"`              // Uppercased extension label (MP3, WEBM, JPG, ...)
	CreatedAt   time.Time           `bson:"created_at"`
}

// IsInRoot returns true if the file is at the root level (not in any folder).
func (f *MediaFile) IsInRoot() bool {
	return f.FolderID == nil
}
