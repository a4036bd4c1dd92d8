// Package gateway contains thin clients for the remote snapshot store.
//
// The remote store is opaque to the rest of the application: a keyed blob of
// JSON per workspace, reachable over HTTP (or S3), best-effort and
// non-transactional. Every backend implements the same three-operation
// contract and tolerates an absent snapshot (a brand new workspace) by
// returning nil rather than an error.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/vcabel/safework/internal/logging"
	"github.com/vcabel/safework/internal/model"
)

// Mode selects the remote backend shape.
type Mode string

const (
	ModeBlob    Mode = "blob"
	ModeWebhook Mode = "webhook"
	ModeS3      Mode = "s3"
)

// Gateway is the remote store client contract.
//
// Pull returns (nil, nil) when the workspace holds no snapshot yet. Push is
// best-effort: depending on the backend a nil error can mean "sent, outcome
// unknown" rather than a confirmed write. Create allocates a fresh workspace
// seeded with the given snapshot and returns its identifier.
type Gateway interface {
	Pull(ctx context.Context, workspaceID string) (*model.Snapshot, error)
	Push(ctx context.Context, workspaceID string, snap *model.Snapshot) error
	Create(ctx context.Context, snap *model.Snapshot) (string, error)
}

// ErrCreateNotAcknowledged is returned by Create when the remote accepted
// the request but did not hand back a workspace identifier.
var ErrCreateNotAcknowledged = errors.New("remote did not return a workspace id")

// Options carries backend-specific settings for New.
type Options struct {
	Mode           Mode
	EndpointURL    string // blob and webhook modes
	S3Bucket       string // s3 mode
	S3Region       string
	S3BaseEndpoint string // optional S3-compatible endpoint
	S3AccessKey    string // optional static credentials
	S3SecretKey    string
}

// New constructs the gateway for the configured mode.
func New(ctx context.Context, opts Options, log logging.Logger) (Gateway, error) {
	switch opts.Mode {
	case ModeBlob, "":
		return NewBlobGateway(opts.EndpointURL, log), nil
	case ModeWebhook:
		return NewWebhookGateway(opts.EndpointURL, log), nil
	case ModeS3:
		return NewS3Gateway(ctx, opts.S3Bucket, opts.S3Region, opts.S3BaseEndpoint, opts.S3AccessKey, opts.S3SecretKey, log)
	default:
		return nil, fmt.Errorf("unknown gateway mode %q", opts.Mode)
	}
}
