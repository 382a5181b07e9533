package historyapi

import (
	"net/http"

	apistatsstore "github.com/dalemusser/mediasave/internal/app/store/apistats"
	"github.com/dalemusser/mediasave/internal/app/system/apicors"
	"github.com/dalemusser/mediasave/internal/app/system/apistats"
	"github.com/dalemusser/mediasave/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns a router with the history list endpoint.
//
// When mounted at /api/history:
//   - GET /api/history - Paged history rows plus the column schema
//
// Authentication is via API key (Bearer token in Authorization header).
func Routes(h *Handler, recorder *apistats.Recorder, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(apicors.Middleware())
	r.Use(auth.APIKeyAuth(apiKey, logger))
	r.Use(apistats.MiddlewareWithRecorder(recorder, apistatsstore.StatTypeHistoryList))

	r.Get("/", h.List)

	return r
}
