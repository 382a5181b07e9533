// internal/app/features/home/home.go

// Package home renders the capture page. The page shows an operator-edited
// intro followed by one panel per enabled capture mode; the client script
// posts captured media back to /api/capture.
package home

import (
	"html/template"
	"net/http"

	capturesettingsstore "github.com/dalemusser/mediasave/internal/app/store/capturesettings"
	"github.com/dalemusser/mediasave/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mediasave/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides the capture page handler.
type Handler struct {
	settings *capturesettingsstore.Store
	apiKey   string
	logger   *zap.Logger
}

// NewHandler creates a new home Handler. The API key is handed to the page
// script so its capture posts pass the same auth the external API uses.
func NewHandler(db *mongo.Database, apiKey string, logger *zap.Logger) *Handler {
	return &Handler{
		settings: capturesettingsstore.New(db),
		apiKey:   apiKey,
		logger:   logger,
	}
}

// CaptureVM is the view model for the capture page.
type CaptureVM struct {
	Title   string
	AppName string
	Intro   template.HTML

	Audio   bool
	Video   bool
	Photo   bool
	Drawing bool
	Text    bool

	// ClientConfig is serialized into the page for the capture script.
	ClientConfig map[string]string
}

// Routes returns a chi.Router with the capture page mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Index)
	return r
}

// Index renders the capture page.
//
// Settings are read fail-open: when the document is missing or unreadable
// the page offers every mode with the default intro. A document with every
// mode off is repaired by switching audio back on, the same correction the
// modes API applies.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	vm := CaptureVM{
		Title:   "Capture",
		AppName: "MediaSave",
		Audio:   true,
		Video:   true,
		Photo:   true,
		Drawing: true,
		Text:    true,
		Intro:   htmlsanitize.SanitizeToHTML(models.DefaultIntroHTML),
		ClientConfig: map[string]string{
			"apiKey": h.apiKey,
		},
	}

	settings, err := h.settings.Get(r.Context())
	switch {
	case err == mongo.ErrNoDocuments:
		// Fresh deployment; render with the fail-open defaults.
	case err != nil:
		h.logger.Warn("failed to load capture settings for page", zap.Error(err))
	default:
		vm.Audio = settings.AudioEnabled
		vm.Video = settings.VideoEnabled
		vm.Photo = settings.PhotoEnabled
		vm.Drawing = settings.DrawingEnabled
		vm.Text = settings.TextEnabled
		if settings.IntroHTML != "" {
			vm.Intro = htmlsanitize.SanitizeToHTML(settings.IntroHTML)
		}
		if settings.AllModesDisabled() {
			if err := h.settings.EnableAudio(r.Context()); err != nil {
				h.logger.Warn("failed to re-enable audio mode", zap.Error(err))
			}
			vm.Audio = true
		}
	}

	templates.Render(w, r, "home/index", vm)
}
