// Package common defines shared constants and sentinel errors used across
// the safework layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository / store level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInactiveUser = errors.New("account deactivated")

	// Sync-layer errors.
	ErrorRemoteUnavailable = errors.New("remote store unavailable")
	ErrorNoWorkspace       = errors.New("no workspace configured")
	ErrorSyncBusy          = errors.New("sync operation already in flight")

	// Session errors.
	ErrInvalidToken = errors.New("invalid session token")
)
