// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "MEDIASAVE"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, root_folder_name, etc.
//   - Environment variables: MEDIASAVE_MONGO_URI, MEDIASAVE_ROOT_FOLDER_NAME, etc.
//   - Command-line flags: --mongo_uri, --root_folder_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "mediasave", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// API key configuration (Bearer token auth on the capture and history APIs)
	{Name: "api_key", Default: "", Desc: "API key for the capture and history APIs (leave empty to disable auth)"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./captures", Desc: "Local storage path for captured files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// S3/CloudFront configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "captures/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	// Capture library configuration
	{Name: "root_folder_name", Default: "Captures", Desc: "Library folder all captures are filed under"},
	{Name: "history_time_zone", Default: "UTC", Desc: "IANA zone for history timestamps (e.g., 'America/Chicago')"},

	// API stats configuration
	{Name: "api_stats_bucket", Default: "1h", Desc: "API stats bucket duration (e.g., '1m', '15m', '1h', '24h')"},

	// Retention windows for diagnostic data
	{Name: "ledger_retention", Default: "168h", Desc: "How long request ledger entries are kept"},
	{Name: "stats_retention", Default: "2160h", Desc: "How long API stat buckets are kept"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, MEDIASAVE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		APIKey: appValues.String("api_key"),

		// File storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3/CloudFront
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),

		// Capture library
		RootFolderName:  appValues.String("root_folder_name"),
		HistoryTimeZone: appValues.String("history_time_zone"),

		// API stats
		APIStatsBucket: appValues.Duration("api_stats_bucket", 1*time.Hour),

		// Retention
		LedgerRetention: appValues.Duration("ledger_retention", 7*24*time.Hour),
		StatsRetention:  appValues.Duration("stats_retention", 90*24*time.Hour),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if strings.TrimSpace(appCfg.RootFolderName) == "" {
		return fmt.Errorf("root_folder_name must not be blank")
	}

	if appCfg.HistoryTimeZone != "" {
		if _, err := time.LoadLocation(appCfg.HistoryTimeZone); err != nil {
			logger.Error("invalid history time zone", zap.String("zone", appCfg.HistoryTimeZone), zap.Error(err))
			return fmt.Errorf("invalid history_time_zone %q: %w", appCfg.HistoryTimeZone, err)
		}
	}

	switch appCfg.StorageType {
	case "local", "s3", "":
	default:
		return fmt.Errorf("unknown storage_type %q (want 'local' or 's3')", appCfg.StorageType)
	}

	return nil
}
