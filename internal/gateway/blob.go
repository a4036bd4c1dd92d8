package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vcabel/safework/internal/codec"
	"github.com/vcabel/safework/internal/logging"
	"github.com/vcabel/safework/internal/model"
)

// maxSnapshotBody bounds how much of a remote response is read. Snapshots
// for the target team sizes stay far below this.
const maxSnapshotBody = 16 << 20

// BlobGateway talks to a jsonblob-style service: POST allocates a new blob
// and returns its id in the Location header, PUT overwrites an existing
// blob, GET reads it.
type BlobGateway struct {
	base   string
	client *http.Client
	log    logging.Logger
}

func NewBlobGateway(base string, log logging.Logger) *BlobGateway {
	return &BlobGateway{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{},
		log:    log,
	}
}

// Pull reads the workspace blob. Any non-success status and any empty body
// count as "no remote data yet" and return (nil, nil); only transport
// failures and malformed payloads surface as errors.
func (g *BlobGateway) Pull(ctx context.Context, workspaceID string) (*model.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/"+workspaceID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pull request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.log.Warn(ctx, "remote returned non-success status on pull",
			"status", resp.StatusCode, "workspace", workspaceID)
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read pull response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	snap, err := codec.Decode(body)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Push overwrites the workspace blob with the given snapshot.
func (g *BlobGateway) Push(ctx context.Context, workspaceID string, snap *model.Snapshot) error {
	data, err := codec.Encode(snap)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.base+"/"+workspaceID, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxSnapshotBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push rejected with status %d", resp.StatusCode)
	}
	return nil
}

// Create allocates a fresh blob seeded with the snapshot and returns the id
// parsed from the Location header.
func (g *BlobGateway) Create(ctx context.Context, snap *model.Snapshot) (string, error) {
	data, err := codec.Encode(snap)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxSnapshotBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("create rejected with status %d", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", ErrCreateNotAcknowledged
	}
	id := location[strings.LastIndex(location, "/")+1:]
	if id == "" {
		return "", ErrCreateNotAcknowledged
	}
	return id, nil
}
