// Package store implements the persisted local key-value snapshot of the
// application's dataset. Each collection lives under one conceptual key in a
// single SQLite table; values are the JSON wire encoding of the collection.
package store

import "context"

// Persisted keys. One per synchronized collection plus local-only settings.
const (
	KeyLanguage      = "language"
	KeyAppConfig     = "app_config"
	KeyUsers         = "users"
	KeyAssessments   = "records"
	KeyMeetings      = "meetings"
	KeyNotifications = "notifications"
	KeyLastUpdated   = "last_updated"
	KeyEndpointURL   = "endpoint_url"
	KeyWorkspaceID   = "workspace_id"
	KeySession       = "session"
)

// Repository is the raw key-value surface of the local store.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
