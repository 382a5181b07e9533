package modesapi

import (
	"net/http"

	apistatsstore "github.com/dalemusser/mediasave/internal/app/store/apistats"
	"github.com/dalemusser/mediasave/internal/app/system/apicors"
	"github.com/dalemusser/mediasave/internal/app/system/apistats"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the capture mode endpoint.
//
// When mounted at /api/capture/modes:
//   - GET /api/capture/modes - Capture mode flags
//
// The capture page fetches this before it renders, so the endpoint is not
// behind API key auth.
func Routes(h *Handler, recorder *apistats.Recorder) http.Handler {
	r := chi.NewRouter()

	r.Use(apicors.Middleware())
	r.Use(apistats.MiddlewareWithRecorder(recorder, apistatsstore.StatTypeCaptureModes))

	r.Get("/", h.GetModes)

	return r
}
