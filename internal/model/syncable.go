// Package model defines the synchronized entity types of the safework
// dataset: users, risk assessments, kick-off meetings, notifications and the
// shared application configuration.
package model

import "time"

// Syncable is implemented by every entity that takes part in dataset
// synchronization. SyncID must be globally unique within its collection and
// immutable for the lifetime of the entity; SyncStamp is the recency signal
// (epoch milliseconds) used for merge tie-breaking.
type Syncable interface {
	SyncID() string
	SyncStamp() int64
}

// NowMillis returns the current time as epoch milliseconds, the unit used by
// every Syncable timestamp.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
