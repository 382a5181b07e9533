// Package historyapi serves the capture history log.
//
// Endpoint:
//   - GET /api/history - Paged history rows plus the column schema
//
// The column schema travels with the rows so a client renders whatever
// columns the deployment's log actually has, including columns added by
// later versions.
package historyapi

import (
	"net/http"
	"strconv"

	historystore "github.com/dalemusser/mediasave/internal/app/store/history"
	"github.com/dalemusser/mediasave/internal/app/system/jsonutil"
	"github.com/dalemusser/mediasave/internal/domain/models"
	"go.uber.org/zap"
)

// Handler handles history list requests.
type Handler struct {
	history *historystore.Store
	logger  *zap.Logger
}

// NewHandler creates a new historyapi handler.
func NewHandler(history *historystore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		history: history,
		logger:  logger,
	}
}

// listResponse is the response body for GET /api/history.
type listResponse struct {
	Columns []models.HistoryColumn `json:"columns"`
	Entries []models.HistoryEntry  `json:"entries"`
	Total   int64                  `json:"total"`
	Page    int                    `json:"page"`
	PerPage int                    `json:"per_page"`
}

// List handles GET /. Query parameters: page (1-based) and per_page.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 50)

	schema, err := h.history.GetSchema(ctx)
	if err != nil {
		h.logger.Error("history schema read failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load history")
		return
	}

	entries, err := h.history.List(ctx, page, perPage)
	if err != nil {
		h.logger.Error("history list failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load history")
		return
	}

	total, err := h.history.Count(ctx)
	if err != nil {
		h.logger.Error("history count failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load history")
		return
	}

	if entries == nil {
		entries = []models.HistoryEntry{}
	}

	jsonutil.OK(w, listResponse{
		Columns: schema.Columns,
		Entries: entries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or unparseable.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
