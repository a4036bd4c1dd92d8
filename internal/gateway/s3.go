package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vcabel/safework/internal/codec"
	"github.com/vcabel/safework/internal/logging"
	"github.com/vcabel/safework/internal/model"
	"github.com/vcabel/safework/internal/shared"
)

// S3Gateway stores one JSON object per workspace in an S3 bucket. It is the
// backend of choice when a team runs its own bucket instead of a shared
// web-app endpoint.
type S3Gateway struct {
	client *s3.Client
	bucket string
	log    logging.Logger
}

// NewS3Gateway builds an S3-backed gateway. Static credentials are optional;
// when absent the default AWS credential chain applies. A non-empty
// baseEndpoint points the client at an S3-compatible store such as MinIO.
func NewS3Gateway(ctx context.Context, bucket, region, baseEndpoint, accessKey, secretKey string, log logging.Logger) (*S3Gateway, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Gateway{client: client, bucket: bucket, log: log}, nil
}

func objectKey(workspaceID string) string {
	return "workspaces/" + workspaceID + ".json"
}

// Pull reads the workspace object; a missing key means "no remote data yet".
func (g *S3Gateway) Pull(ctx context.Context, workspaceID string) (*model.Snapshot, error) {
	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(objectKey(workspaceID)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("pull request failed: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, maxSnapshotBody))
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

// Push overwrites the workspace object.
func (g *S3Gateway) Push(ctx context.Context, workspaceID string, snap *model.Snapshot) error {
	data, err := codec.Encode(snap)
	if err != nil {
		return err
	}
	_, err = g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(objectKey(workspaceID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	return nil
}

// Create allocates a workspace key client side and seeds its object.
func (g *S3Gateway) Create(ctx context.Context, snap *model.Snapshot) (string, error) {
	id, err := shared.MakeRandHexString(12)
	if err != nil {
		return "", err
	}
	if err := g.Push(ctx, id, snap); err != nil {
		return "", err
	}
	return id, nil
}
