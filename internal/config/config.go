// Package config handles configuration for the safework client,
// including defaults, an optional .env file, JSON overlay, and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the safework CLI.
//
// Fields:
//   - DatabasePath: path to the local SQLite database file.
//   - Language: UI language code ("nl" or "en").
//   - GatewayMode: remote backend kind ("blob", "webhook" or "s3").
//   - EndpointURL: base URL of the blob or webhook endpoint.
//   - WorkspaceID: identifier of the shared workspace to sync with.
//   - SessionSecret: HMAC secret for signing session tokens (HS256).
//   - PullInterval / PushDebounce / GuardWindow / RequestTimeout: sync
//     engine timings.
//   - S3Bucket / S3Region / S3BaseEndpoint / S3AccessKey / S3SecretKey:
//     object storage settings for the "s3" gateway mode.
//   - ReportsDir: directory CSV report exports are written to.
type Config struct {
	DatabasePath   string
	Language       string
	GatewayMode    string
	EndpointURL    string
	WorkspaceID    string
	SessionSecret  string
	PullInterval   time.Duration
	PushDebounce   time.Duration
	GuardWindow    time.Duration
	RequestTimeout time.Duration
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	ReportsDir     string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: SessionSecret is insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "safework.db"
	c.Language = "nl"
	c.GatewayMode = "blob"
	c.EndpointURL = "https://jsonblob.com/api/jsonBlob"
	c.SessionSecret = "secretKey"
	c.PullInterval = 20 * time.Second
	c.PushDebounce = 2 * time.Second
	c.GuardWindow = 1 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.S3Region = "us-east-1"
	c.S3Bucket = "safework"
	c.ReportsDir = "reports"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional .env file, an optional JSON file and finally from
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
