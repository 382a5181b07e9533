// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// API key authentication for the capture and history APIs.
	// The capture page receives this key when it is rendered.
	APIKey string

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./captures")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "captures/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file

	// RootFolderName is the library folder all captures are filed under.
	RootFolderName string

	// HistoryTimeZone is the IANA zone name used when rendering history
	// row timestamps (e.g., "America/Chicago"). Empty means UTC.
	HistoryTimeZone string

	// APIStatsBucket is the time bucket duration for API statistics.
	APIStatsBucket time.Duration

	// Retention windows for diagnostic data.
	LedgerRetention time.Duration // Request ledger entries (default: 7 days)
	StatsRetention  time.Duration // API stat buckets (default: 90 days)
}
