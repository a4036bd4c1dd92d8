package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A
// .env file in the working directory is loaded first if present; a missing
// file is not an error.
//
// All variables are optional and carry the SAFEWORK_ prefix. Durations use
// the time.ParseDuration syntax (e.g. "20s").
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString("SAFEWORK_DATABASE_PATH", &cfg.DatabasePath)
	setString("SAFEWORK_LANGUAGE", &cfg.Language)
	setString("SAFEWORK_GATEWAY_MODE", &cfg.GatewayMode)
	setString("SAFEWORK_ENDPOINT_URL", &cfg.EndpointURL)
	setString("SAFEWORK_WORKSPACE_ID", &cfg.WorkspaceID)
	setString("SAFEWORK_SESSION_SECRET", &cfg.SessionSecret)
	setDuration("SAFEWORK_PULL_INTERVAL", &cfg.PullInterval)
	setDuration("SAFEWORK_PUSH_DEBOUNCE", &cfg.PushDebounce)
	setDuration("SAFEWORK_GUARD_WINDOW", &cfg.GuardWindow)
	setDuration("SAFEWORK_REQUEST_TIMEOUT", &cfg.RequestTimeout)
	setString("SAFEWORK_S3_BUCKET", &cfg.S3Bucket)
	setString("SAFEWORK_S3_REGION", &cfg.S3Region)
	setString("SAFEWORK_S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)
	setString("SAFEWORK_S3_ACCESS_KEY", &cfg.S3AccessKey)
	setString("SAFEWORK_S3_SECRET_KEY", &cfg.S3SecretKey)
	setString("SAFEWORK_REPORTS_DIR", &cfg.ReportsDir)
}
