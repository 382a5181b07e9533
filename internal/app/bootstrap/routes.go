// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	browsefeature "github.com/dalemusser/mediasave/internal/app/features/browse"
	captureapifeature "github.com/dalemusser/mediasave/internal/app/features/captureapi"
	healthfeature "github.com/dalemusser/mediasave/internal/app/features/health"
	historyapifeature "github.com/dalemusser/mediasave/internal/app/features/historyapi"
	homefeature "github.com/dalemusser/mediasave/internal/app/features/home"
	modesapifeature "github.com/dalemusser/mediasave/internal/app/features/modesapi"
	appresources "github.com/dalemusser/mediasave/internal/app/resources"
	apistatsstore "github.com/dalemusser/mediasave/internal/app/store/apistats"
	historystore "github.com/dalemusser/mediasave/internal/app/store/history"
	ledgerstore "github.com/dalemusser/mediasave/internal/app/store/ledger"
	"github.com/dalemusser/mediasave/internal/app/system/apistats"
	"github.com/dalemusser/mediasave/internal/app/system/ledger"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// The route surface:
//   - /                    capture page (server-rendered)
//   - /api/capture/*       save endpoints (API key auth, request ledger)
//   - /api/capture/modes   capture mode flags (public, the page loads it)
//   - /api/history         history log (API key auth, request ledger)
//   - /browse/*            folder and file listing pages
//   - /health, /ready   probes
//   - /assets/*         embedded static assets
//   - /files/*          captured files (local storage only)
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// History rows are stamped in the configured zone.
	loc, err := historyLocation(appCfg)
	if err != nil {
		return nil, err
	}
	history := historystore.New(deps.MongoDatabase, loc)

	// API stats recorder for per-endpoint request statistics.
	apiStatsStore := apistatsstore.New(deps.MongoDatabase)
	apiStatsRecorder := apistats.NewRecorder(apiStatsStore, logger, appCfg.APIStatsBucket)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	// Capture payloads are multi-MB base64 bodies, so this is generous.
	r.Use(chimw.Timeout(60 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// ─────────────────────────────────────────────────────────────────────────────
	// Request Ledger
	// Records API requests for diagnosing failed saves. Bodies are captured
	// as a truncated preview plus a hash, never in full.
	// ─────────────────────────────────────────────────────────────────────────────
	apiLedgerStore := ledgerstore.New(deps.MongoDatabase)
	apiLedgerConfig := ledger.Config{
		Store:          apiLedgerStore,
		Logger:         logger,
		MaxBodyPreview: 500,
		HeadersToCapture: []string{
			"Content-Type",
			"Accept",
			"User-Agent",
			"X-Request-ID",
		},
	}

	// ─────────────────────────────────────────────────────────────────────────────
	// Capture API Routes
	// API key authentication; every request is recorded in the ledger.
	// ─────────────────────────────────────────────────────────────────────────────
	captureHandler := captureapifeature.NewHandler(
		deps.MongoDatabase,
		deps.FileStorage,
		history,
		appCfg.RootFolderName,
		logger,
	)
	r.Route("/api/capture", func(r chi.Router) {
		// Capture mode flags. The page script fetches this before it
		// renders panels, so it is not behind API key auth.
		modesHandler := modesapifeature.NewHandler(deps.MongoDatabase, logger)
		r.Mount("/modes", modesapifeature.Routes(modesHandler, apiStatsRecorder))

		r.Group(func(r chi.Router) {
			r.Use(ledger.Middleware(apiLedgerConfig))
			r.Mount("/", captureapifeature.Routes(captureHandler, apiStatsRecorder, appCfg.APIKey, logger))
		})
	})

	// History log API.
	historyHandler := historyapifeature.NewHandler(history, logger)
	r.Route("/api/history", func(r chi.Router) {
		r.Use(ledger.Middleware(apiLedgerConfig))
		r.Mount("/", historyapifeature.Routes(historyHandler, apiStatsRecorder, appCfg.APIKey, logger))
	})

	// Library browsing pages. Save responses and history rows link here.
	browseHandler := browsefeature.NewHandler(deps.MongoDatabase, deps.FileStorage, logger)
	r.Mount("/browse", browsefeature.Routes(browseHandler))

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// /assets/* serves embedded assets (bundled into the binary)
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// Captured files (local storage only). When using local storage, serve
	// files from the configured path with pre-compressed file support.
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Capture page
	homeHandler := homefeature.NewHandler(deps.MongoDatabase, appCfg.APIKey, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	return r, nil
}
