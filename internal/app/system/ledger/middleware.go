// internal/app/system/ledger/middleware.go
package ledger

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	ledgerstore "github.com/dalemusser/mediasave/internal/app/store/ledger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ctxKey is the context key type for ledger data.
type ctxKey int

const ctxKeyEntry ctxKey = iota

// Config holds configuration for the ledger middleware.
type Config struct {
	// Store is the ledger store for persisting entries.
	Store *ledgerstore.Store

	// Logger for logging errors.
	Logger *zap.Logger

	// MaxBodyPreview is the maximum number of characters to capture from request body.
	// Set to 0 to disable body preview capture.
	MaxBodyPreview int

	// HeadersToCapture is a list of header names to capture.
	// Sensitive headers like Authorization are automatically redacted.
	HeadersToCapture []string

	// ExcludePaths is a list of path prefixes to exclude from logging.
	ExcludePaths []string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(store *ledgerstore.Store, logger *zap.Logger) Config {
	return Config{
		Store:          store,
		Logger:         logger,
		MaxBodyPreview: 500,
		HeadersToCapture: []string{
			"Content-Type",
			"Accept",
			"User-Agent",
			"X-Request-ID",
			"X-Forwarded-For",
		},
		ExcludePaths: []string{
			"/health",
			"/assets",
			"/files",
			"/favicon.ico",
		},
	}
}

// Middleware returns HTTP middleware that logs requests to the ledger.
//
// Capture payloads are base64 data URLs and can run to several megabytes,
// so the body preview is truncated and only a hash of the full body is kept.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			for _, prefix := range cfg.ExcludePaths {
				if strings.HasPrefix(path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			requestID := uuid.New().String()
			clientRequestID := r.Header.Get("X-Request-ID")

			startTime := time.Now()

			// Capture request body if needed
			var bodyPreview string
			var bodyHash string
			var bodySize int64
			if cfg.MaxBodyPreview > 0 && r.Body != nil && r.ContentLength > 0 {
				body, err := io.ReadAll(r.Body)
				if err == nil {
					bodySize = int64(len(body))
					if len(body) > 0 {
						hash := sha256.Sum256(body)
						bodyHash = hex.EncodeToString(hash[:])[:8]

						preview := string(body)
						if len(preview) > cfg.MaxBodyPreview {
							preview = preview[:cfg.MaxBodyPreview] + "..."
						}
						bodyPreview = preview
					}
					// Restore body for handler
					r.Body = io.NopCloser(bytes.NewReader(body))
				}
			}

			// Capture headers
			headers := make(map[string]string)
			for _, name := range cfg.HeadersToCapture {
				if value := r.Header.Get(name); value != "" {
					if strings.EqualFold(name, "Authorization") {
						if len(value) > 10 {
							headers[name] = value[:10] + "..."
						} else {
							headers[name] = "[redacted]"
						}
					} else {
						headers[name] = value
					}
				}
			}

			// The capture API has no sessions; a bearer token marks the
			// caller as an API key actor.
			actorType := "anonymous"
			if r.Header.Get("Authorization") != "" {
				actorType = "api_key"
			}

			entry := &ledgerstore.Entry{
				RequestID:          requestID,
				ClientRequestID:    clientRequestID,
				Method:             r.Method,
				Path:               path,
				Query:              r.URL.RawQuery,
				Headers:            headers,
				RemoteIP:           extractIP(r),
				ActorType:          actorType,
				RequestBodySize:    bodySize,
				RequestBodyHash:    bodyHash,
				RequestBodyPreview: bodyPreview,
				RequestContentType: r.Header.Get("Content-Type"),
				StartedAt:          startTime,
			}

			ctx := context.WithValue(r.Context(), ctxKeyEntry, entry)
			r = r.WithContext(ctx)

			// Wrap response writer to capture status code and size
			wrapped := &responseWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			endTime := time.Now()
			entry.StatusCode = wrapped.statusCode
			entry.ResponseSize = wrapped.bytesWritten
			entry.CompletedAt = endTime
			entry.DurationMs = float64(endTime.Sub(startTime).Microseconds()) / 1000.0

			if wrapped.statusCode >= 400 && entry.ErrorClass == "" {
				switch {
				case wrapped.statusCode == 400:
					entry.ErrorClass = "validation"
				case wrapped.statusCode == 401:
					entry.ErrorClass = "auth"
				case wrapped.statusCode == 404:
					entry.ErrorClass = "not_found"
				case wrapped.statusCode >= 500:
					entry.ErrorClass = "internal"
				default:
					entry.ErrorClass = "client_error"
				}
			}

			// Store entry asynchronously to not block response
			go func() {
				storeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := cfg.Store.Create(storeCtx, *entry); err != nil {
					cfg.Logger.Error("failed to store ledger entry",
						zap.String("request_id", requestID),
						zap.Error(err))
				}
			}()
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code and bytes written.
type responseWrapper struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWrapper) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher.
func (rw *responseWrapper) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// extractIP extracts the client IP from the request.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// SetCaptureInfo records the media type and storage key of a successful
// save on the ledger entry.
func SetCaptureInfo(ctx context.Context, mediaType, storageKey string) {
	entry, ok := ctx.Value(ctxKeyEntry).(*ledgerstore.Entry)
	if !ok {
		return
	}
	entry.MediaType = mediaType
	entry.StorageKey = storageKey
}

// SetErrorClass sets the error class for the ledger entry.
func SetErrorClass(ctx context.Context, class string) {
	entry, ok := ctx.Value(ctxKeyEntry).(*ledgerstore.Entry)
	if !ok {
		return
	}
	entry.ErrorClass = class
}

// SetErrorMessage sets the error message for the ledger entry.
func SetErrorMessage(ctx context.Context, message string) {
	entry, ok := ctx.Value(ctxKeyEntry).(*ledgerstore.Entry)
	if !ok {
		return
	}
	entry.ErrorMessage = message
}

// GetRequestID returns the request ID for the current request.
func GetRequestID(ctx context.Context) string {
	entry, ok := ctx.Value(ctxKeyEntry).(*ledgerstore.Entry)
	if !ok {
		return ""
	}
	return entry.RequestID
}
