// Package codec serializes the full dataset to and from the JSON wire format
// exchanged with the remote store.
//
// Decoding is forward-tolerant: a collection that is absent from an incoming
// payload stays nil, which downstream merge code reads as "no update for
// that collection", never as "clear it". Unknown fields are ignored.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vcabel/safework/internal/model"
)

// Encode renders the snapshot as compact JSON.
func Encode(s *model.Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a wire payload into a snapshot.
//
// An empty body or the literal "{}" is a valid, empty snapshot (a brand new
// workspace); only malformed JSON yields an error. Callers treat that error
// as "no remote data yet", not as a fatal condition.
func Decode(data []byte) (*model.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &model.Snapshot{}, nil
	}
	var s model.Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &s, nil
}
