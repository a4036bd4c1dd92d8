package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/vcabel/safework/internal/flagx"
	"github.com/vcabel/safework/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "20s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabasePath   string         `json:"database_path"`
	Language       string         `json:"language"`
	GatewayMode    string         `json:"gateway_mode"`
	EndpointURL    string         `json:"endpoint_url"`
	WorkspaceID    string         `json:"workspace_id"`
	SessionSecret  string         `json:"session_secret"`
	PullInterval   timex.Duration `json:"pull_interval"`
	PushDebounce   timex.Duration `json:"push_debounce"`
	GuardWindow    timex.Duration `json:"guard_window"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	ReportsDir     string         `json:"reports_dir"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags via
// flagx.JsonConfigFlags(); when neither is given nothing is loaded.
// Only fields actually present in the file override the current values.
// Read or unmarshal errors panic (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlayString(&cfg.DatabasePath, jc.DatabasePath)
	overlayString(&cfg.Language, jc.Language)
	overlayString(&cfg.GatewayMode, jc.GatewayMode)
	overlayString(&cfg.EndpointURL, jc.EndpointURL)
	overlayString(&cfg.WorkspaceID, jc.WorkspaceID)
	overlayString(&cfg.SessionSecret, jc.SessionSecret)
	overlayDuration(&cfg.PullInterval, jc.PullInterval.Duration)
	overlayDuration(&cfg.PushDebounce, jc.PushDebounce.Duration)
	overlayDuration(&cfg.GuardWindow, jc.GuardWindow.Duration)
	overlayDuration(&cfg.RequestTimeout, jc.RequestTimeout.Duration)
	overlayString(&cfg.S3Bucket, jc.S3Bucket)
	overlayString(&cfg.S3Region, jc.S3Region)
	overlayString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	overlayString(&cfg.S3AccessKey, jc.S3AccessKey)
	overlayString(&cfg.S3SecretKey, jc.S3SecretKey)
	overlayString(&cfg.ReportsDir, jc.ReportsDir)
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overlayDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
