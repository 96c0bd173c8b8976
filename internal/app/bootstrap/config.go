// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/dalemusser/agencycms/internal/app/system/orphanlog"
	"github.com/dalemusser/agencycms/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "AGENCYCMS"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, storage_type, etc.
//   - Environment variables: AGENCYCMS_MONGO_URI, AGENCYCMS_STORAGE_TYPE, etc.
//   - Command-line flags: --mongo_uri, --storage_type, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "agencycms", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// S3/CloudFront configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "uploads/", Desc: "S3 key prefix"},
	{Name: "storage_cf_url", Default: "", Desc: "CloudFront distribution URL"},
	{Name: "storage_cf_keypair_id", Default: "", Desc: "CloudFront key pair ID"},
	{Name: "storage_cf_key_path", Default: "", Desc: "Path to CloudFront private key file"},

	// Content images
	{Name: "service_image_dir", Default: "serviceimg", Desc: "Storage directory for service images"},
	{Name: "single_service_image_dir", Default: "singleserviceimg", Desc: "Storage directory for single service images"},
	{Name: "max_upload_mb", Default: 32, Desc: "Maximum multipart request size in MB"},

	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated CORS origins (empty allows any origin)"},

	// Orphaned-file reporting
	{Name: "orphan_report", Default: "all", Desc: "Orphaned file reporting: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "orphan_retry_interval", Default: "15m", Desc: "Interval between orphaned file cleanup retries (0 disables)"},
	{Name: "orphan_retry_max_attempts", Default: 5, Desc: "Cleanup attempts before an orphaned file report is abandoned"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, AGENCYCMS_* for app)
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

		// File storage
		StorageType:      strings.ToLower(strings.TrimSpace(appValues.String("storage_type"))),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3/CloudFront
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageCFURL:       appValues.String("storage_cf_url"),
		StorageCFKeyPairID: appValues.String("storage_cf_keypair_id"),
		StorageCFKeyPath:   appValues.String("storage_cf_key_path"),

		ServiceImageDir:       appValues.String("service_image_dir"),
		SingleServiceImageDir: appValues.String("single_service_image_dir"),
		MaxUploadMB:           int64(appValues.Int("max_upload_mb")),

		CORSAllowedOrigins: appValues.String("cors_allowed_origins"),

		OrphanReport:           strings.ToLower(strings.TrimSpace(appValues.String("orphan_report"))),
		OrphanRetryInterval:    appValues.Duration("orphan_retry_interval", tasks.DefaultOrphanRetryInterval),
		OrphanRetryMaxAttempts: appValues.Int("orphan_retry_max_attempts"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if err := validateAppConfig(appCfg); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	return nil
}

// validateAppConfig checks the settings that do not need a live backend.
func validateAppConfig(cfg AppConfig) error {
	switch cfg.StorageType {
	case "local":
		if strings.TrimSpace(cfg.StorageLocalPath) == "" {
			return fmt.Errorf("storage_local_path is required for local storage")
		}
	case "s3":
		if cfg.StorageS3Bucket == "" || cfg.StorageS3Region == "" {
			return fmt.Errorf("storage_s3_bucket and storage_s3_region are required for s3 storage")
		}
	default:
		return fmt.Errorf("storage_type must be 'local' or 's3', got %q", cfg.StorageType)
	}

	if strings.TrimSpace(cfg.ServiceImageDir) == "" || strings.TrimSpace(cfg.SingleServiceImageDir) == "" {
		return fmt.Errorf("image directories must not be empty")
	}
	if cfg.ServiceImageDir == cfg.SingleServiceImageDir {
		return fmt.Errorf("service_image_dir and single_service_image_dir must differ")
	}
	if cfg.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", cfg.MaxUploadMB)
	}
	if !orphanlog.IsValidMode(cfg.OrphanReport) {
		return fmt.Errorf("orphan_report must be one of all, db, log, off; got %q", cfg.OrphanReport)
	}
	if cfg.OrphanRetryInterval < 0 {
		return fmt.Errorf("orphan_retry_interval must not be negative")
	}
	if cfg.OrphanRetryMaxAttempts < 1 {
		return fmt.Errorf("orphan_retry_max_attempts must be at least 1, got %d", cfg.OrphanRetryMaxAttempts)
	}
	return nil
}
