// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// GCSBackend reads from a Cloud Storage bucket.
type GCSBackend struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

// NewGCSBackend creates a client using the service account file, or
// application default credentials when it is empty. The service account
// must be able to sign blobs for SignURL to work.
func NewGCSBackend(ctx context.Context, gcp config.GCPConfig, cfg config.AssetsConfig) (*GCSBackend, error) {
	var opts []option.ClientOption
	if gcp.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(gcp.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	logging.Info().Str("bucket", cfg.Bucket).Msg("Cloud Storage asset store ready")

	return &GCSBackend{client: client, bucket: client.Bucket(cfg.Bucket)}, nil
}

func (b *GCSBackend) Name() string { return config.AssetBackendGCS }

func (b *GCSBackend) Walk(ctx context.Context, prefix string, fn func(Object)) error {
	it := b.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		fn(Object{Key: attrs.Name, CreatedAt: attrs.Created, Metadata: gcsMetadata(attrs)})
	}
}

// Describe returns the listed metadata; GCS listings are complete.
func (b *GCSBackend) Describe(_ context.Context, obj Object) (models.AssetMetadata, error) {
	return obj.Metadata, nil
}

func (b *GCSBackend) SignURL(_ context.Context, key string, expires time.Time) (string, error) {
	return b.bucket.SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: expires,
	})
}

func (b *GCSBackend) Ping(ctx context.Context) error {
	_, err := b.bucket.Attrs(ctx)
	return err
}

func (b *GCSBackend) Close() error {
	return b.client.Close()
}

func gcsMetadata(attrs *storage.ObjectAttrs) models.AssetMetadata {
	meta := models.AssetMetadata{
		Name:         attrs.Name,
		Bucket:       attrs.Bucket,
		ContentType:  attrs.ContentType,
		Size:         strconv.FormatInt(attrs.Size, 10),
		TimeCreated:  attrs.Created,
		Updated:      attrs.Updated,
		ETag:         attrs.Etag,
		Generation:   strconv.FormatInt(attrs.Generation, 10),
		StorageClass: attrs.StorageClass,
		Metadata:     attrs.Metadata,
	}
	if len(attrs.MD5) > 0 {
		meta.MD5Hash = base64.StdEncoding.EncodeToString(attrs.MD5)
	}
	return meta
}
