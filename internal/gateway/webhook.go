package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/vcabel/safework/internal/codec"
	"github.com/vcabel/safework/internal/logging"
	"github.com/vcabel/safework/internal/model"
	"github.com/vcabel/safework/internal/shared"
)

// WebhookGateway talks to an opaque web-app endpoint (a spreadsheet-backed
// script). Pulls are ordinary readable GETs keyed by a workspace parameter;
// pushes are fire-and-forget POSTs whose response body cannot be read, so a
// push can only ever report "sent, outcome unknown".
type WebhookGateway struct {
	endpoint string
	client   *http.Client
	log      logging.Logger
}

func NewWebhookGateway(endpoint string, log logging.Logger) *WebhookGateway {
	return &WebhookGateway{endpoint: endpoint, client: &http.Client{}, log: log}
}

func (g *WebhookGateway) url(workspaceID, action string) string {
	q := url.Values{}
	q.Set("id", workspaceID)
	q.Set("action", action)
	return g.endpoint + "?" + q.Encode()
}

// Pull reads the workspace snapshot. Non-success statuses and empty bodies
// mean "no remote data yet".
func (g *WebhookGateway) Pull(ctx context.Context, workspaceID string) (*model.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url(workspaceID, "pull"), nil)
	if err != nil {
		return nil, err
	}

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
	snap, err := codec.Decode(body)
	if err != nil {
		return nil, err
	}
	if snap.Empty() {
		return nil, nil
	}
	return snap, nil
}

// Push sends the snapshot. The response is not interpretable, so any status
// counts as sent; only a transport failure is an error. Callers must not
// retry based on the outcome and instead rely on the next pull cycle to
// confirm convergence.
func (g *WebhookGateway) Push(ctx context.Context, workspaceID string, snap *model.Snapshot) error {
	data, err := codec.Encode(snap)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url(workspaceID, "push"), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxSnapshotBody))

	g.log.Debug(ctx, "push sent, outcome unknown", "workspace", workspaceID)
	return nil
}

// Create allocates a workspace key client side (the endpoint has no create
// operation) and seeds it with an initial push.
func (g *WebhookGateway) Create(ctx context.Context, snap *model.Snapshot) (string, error) {
	id, err := shared.MakeRandHexString(12)
	if err != nil {
		return "", err
	}
	if err := g.Push(ctx, id, snap); err != nil {
		return "", err
	}
	return id, nil
}
