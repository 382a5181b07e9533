// Package modesapi tells the capture page which capture modes to offer.
//
// Endpoint:
//   - GET /api/capture/modes - Capture mode flags (audio, video, photo, drawing, text)
//
// The flags come from the capture settings document. The endpoint fails
// open: when the document is missing or unreadable, every mode is reported
// enabled (with an error annotation) so the capture page keeps working
// while an operator sorts out configuration.
package modesapi

import (
	"net/http"

	capturesettingsstore "github.com/dalemusser/mediasave/internal/app/store/capturesettings"
	"github.com/dalemusser/mediasave/internal/app/system/jsonutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles capture mode requests.
type Handler struct {
	settings *capturesettingsstore.Store
	logger   *zap.Logger
}

// NewHandler creates a new modesapi handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		settings: capturesettingsstore.New(db),
		logger:   logger,
	}
}

// Modes is the response body for GET /api/capture/modes. Error annotates a
// fail-open response so callers can tell defaults from stored flags.
type Modes struct {
	Audio   bool   `json:"audio"`
	Video   bool   `json:"video"`
	Photo   bool   `json:"photo"`
	Drawing bool   `json:"drawing"`
	Text    bool   `json:"text"`
	Error   string `json:"error,omitempty"`
}

// allEnabled is the fail-open response used when settings cannot be read.
func allEnabled(reason string) Modes {
	return Modes{Audio: true, Video: true, Photo: true, Drawing: true, Text: true, Error: reason}
}

// GetModes handles GET /modes.
//
// A settings document with every mode turned off would leave the capture
// page with nothing to show, which is never what an operator intends. That
// state is repaired in place: audio is switched back on and reported enabled.
func (h *Handler) GetModes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := h.settings.Get(ctx)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			h.logger.Warn("capture settings read failed, enabling all modes", zap.Error(err))
			jsonutil.OK(w, allEnabled("capture settings could not be read"))
			return
		}
		jsonutil.OK(w, allEnabled("capture settings not configured"))
		return
	}

	modes := Modes{
		Audio:   settings.AudioEnabled,
		Video:   settings.VideoEnabled,
		Photo:   settings.PhotoEnabled,
		Drawing: settings.DrawingEnabled,
		Text:    settings.TextEnabled,
	}

	if settings.AllModesDisabled() {
		if err := h.settings.EnableAudio(ctx); err != nil {
			h.logger.Warn("failed to re-enable audio mode", zap.Error(err))
		}
		modes.Audio = true
	}

	jsonutil.OK(w, modes)
}
