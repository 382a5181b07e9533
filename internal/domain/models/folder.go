package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder represents a folder in the capture library.
type Folder struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Name      string              `bson:"name"`
	NameCI    string              `bson:"name_ci"`             // Case-insensitive for sorting/search
	ParentID  *primitive.ObjectID `bson:"parent_id,omitempty"` // nil = root folder
	CreatedAt time.Time           `bson:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at"`
}

// IsRoot returns true if the folder is at the root level.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
