// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/mediasave/internal/app/resources"
	apistatsstore "github.com/dalemusser/mediasave/internal/app/store/apistats"
	ledgerstore "github.com/dalemusser/mediasave/internal/app/store/ledger"
	"github.com/dalemusser/mediasave/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// This is the place for one-time initialization that depends on having live
// database connections and fully loaded configuration. Unlike ConnectDB and
// EnsureSchema which focus on infrastructure, Startup is for application-level
// initialization.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting. The context will be cancelled if the process is asked to shut
// down while Startup is running; honor it in any long-running work.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	// Note: Indexes are created in EnsureSchema via indexes.EnsureAll().

	startTaskRunner(appCfg, deps, logger)

	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background retention jobs.
func startTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	ledgerStore := ledgerstore.New(deps.MongoDatabase)
	taskRunner.Register(tasks.LedgerRetentionJob(ledgerStore, logger, appCfg.LedgerRetention))

	statsStore := apistatsstore.New(deps.MongoDatabase)
	taskRunner.Register(tasks.APIStatsRetentionJob(statsStore, logger, appCfg.StatsRetention))

	taskRunner.Start()
}
