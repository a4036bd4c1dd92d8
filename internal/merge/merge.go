// Package merge implements the deterministic reconciliation of a local and a
// remote entity collection into one.
//
// The policy is per-item newer-wins: items are matched by id, and a remote
// item replaces its local counterpart only when its timestamp is strictly
// greater. A missing or zero timestamp is treated as "oldest possible", so a
// stale or malformed remote copy can never displace a locally edited item.
// Items without an id are skipped rather than silently coalesced.
//
// The merge is idempotent and, per id, commutative in outcome: whichever side
// holds the higher timestamp for an id wins regardless of merge order.
package merge

import (
	"sort"

	"github.com/vcabel/safework/internal/model"
)

// ByID merges remote into local and returns the reconciled collection,
// ordered newest first (ties broken by id so the output is reproducible).
// Neither input slice is modified.
func ByID[T model.Syncable](local, remote []T) []T {
	index := make(map[string]T, len(local))
	order := make([]string, 0, len(local)+len(remote))

	for _, item := range local {
		id := item.SyncID()
		if id == "" {
			continue
		}
		// Last write in the list wins for duplicate local ids; the id
		// generation invariant makes duplicates unexpected but they
		// must not corrupt the index.
		if _, seen := index[id]; !seen {
			order = append(order, id)
		}
		index[id] = item
	}

	for _, item := range remote {
		id := item.SyncID()
		if id == "" {
			continue
		}
		existing, ok := index[id]
		if !ok {
			index[id] = item
			order = append(order, id)
			continue
		}
		if item.SyncStamp() > existing.SyncStamp() {
			index[id] = item
		}
	}

	out := make([]T, 0, len(order))
	for _, id := range order {
		out = append(out, index[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].SyncStamp(), out[j].SyncStamp()
		if si != sj {
			return si > sj
		}
		return out[i].SyncID() < out[j].SyncID()
	})
	return out
}

// Config picks between a local and a remote configuration object using the
// snapshot-level lastUpdated stamps: whole-object replace, newest wins, ties
// keep local. A nil remote config never clears the local one.
func Config(local *model.AppConfig, localStamp int64, remote *model.AppConfig, remoteStamp int64) *model.AppConfig {
	if remote == nil {
		return local
	}
	if local == nil {
		return remote
	}
	if remoteStamp > localStamp {
		return remote
	}
	return local
}
