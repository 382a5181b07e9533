// internal/domain/models/capturesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaptureSettings holds capture-page configuration that can be edited by operators.
// A singleton document (only one per deployment).
type CaptureSettings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	// SubfolderName is the optional folder captures are filed under,
	// inside the configured root folder. Blank means save at the root.
	SubfolderName string `bson:"subfolder_name,omitempty" json:"subfolder_name,omitempty"`

	// Capture mode flags. Each enables one capture kind on the client page.
	AudioEnabled   bool `bson:"audio_enabled" json:"audio_enabled"`
	VideoEnabled   bool `bson:"video_enabled" json:"video_enabled"`
	PhotoEnabled   bool `bson:"photo_enabled" json:"photo_enabled"`
	DrawingEnabled bool `bson:"drawing_enabled" json:"drawing_enabled"`
	TextEnabled    bool `bson:"text_enabled" json:"text_enabled"`

	// IntroHTML is shown at the top of the capture page (sanitized before render).
	IntroHTML string `bson:"intro_html,omitempty" json:"intro_html,omitempty"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// AllModesDisabled reports whether every capture mode flag is off.
func (s *CaptureSettings) AllModesDisabled() bool {
	return !s.AudioEnabled && !s.VideoEnabled && !s.PhotoEnabled && !s.DrawingEnabled && !s.TextEnabled
}

// DefaultIntroHTML is the capture-page intro used when settings don't exist.
const DefaultIntroHTML = `<p>Record audio, video, photos, drawings, or notes. Everything you save is filed in the capture library.</p>`
