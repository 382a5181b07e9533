package captureapi

import (
	"net/http"

	apistatsstore "github.com/dalemusser/mediasave/internal/app/store/apistats"
	"github.com/dalemusser/mediasave/internal/app/system/apicors"
	"github.com/dalemusser/mediasave/internal/app/system/apistats"
	"github.com/dalemusser/mediasave/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns a router with the capture save endpoints.
//
// When mounted at /api/capture:
//   - POST /api/capture/audio   - Save a recorded audio clip
//   - POST /api/capture/video   - Save a recorded video clip
//   - POST /api/capture/photo   - Save a camera photo
//   - POST /api/capture/drawing - Save a canvas drawing
//   - POST /api/capture/text    - Save a text note
//
// Authentication is via API key (Bearer token in Authorization header).
// CORS is permissive (allows any origin) since API key auth is used.
func Routes(h *Handler, recorder *apistats.Recorder, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// API CORS - permissive for API key auth
	r.Use(apicors.Middleware())

	// API key authentication
	r.Use(auth.APIKeyAuth(apiKey, logger))

	mount := func(path string, statType apistatsstore.StatType, handler http.HandlerFunc) {
		r.Route(path, func(sr chi.Router) {
			sr.Use(apistats.MiddlewareWithRecorder(recorder, statType))
			sr.Post("/", handler)
		})
	}

	mount("/audio", audioVariant.statType, h.SaveAudio)
	mount("/video", videoVariant.statType, h.SaveVideo)
	mount("/photo", photoVariant.statType, h.SavePhoto)
	mount("/drawing", drawingVariant.statType, h.SaveDrawing)
	mount("/text", textVariant.statType, h.SaveText)

	return r
}
