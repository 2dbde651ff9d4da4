// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package assets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// S3Backend reads from an S3 bucket. Credentials come from the default AWS
// chain (environment, shared config, instance role).
type S3Backend struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// NewS3Backend loads the default AWS configuration for cfg.Region.
func NewS3Backend(ctx context.Context, cfg config.AssetsConfig) (*S3Backend, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	logging.Info().Str("bucket", cfg.Bucket).Str("region", cfg.Region).Msg("S3 asset store ready")

	return &S3Backend{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
	}, nil
}

func (b *S3Backend) Name() string { return config.AssetBackendS3 }

// Walk pages through ListObjectsV2. S3 has no creation time, so
// LastModified stands in for it; objects are written once by the detector.
func (b *S3Backend) Walk(ctx context.Context, prefix string, fn func(Object)) error {
	p := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			modified := aws.ToTime(obj.LastModified)
			fn(Object{
				Key:       key,
				CreatedAt: modified,
				Metadata: models.AssetMetadata{
					Name:         key,
					Bucket:       b.bucket,
					Size:         strconv.FormatInt(aws.ToInt64(obj.Size), 10),
					TimeCreated:  modified,
					Updated:      modified,
					ETag:         strings.Trim(aws.ToString(obj.ETag), `"`),
					StorageClass: string(obj.StorageClass),
				},
			})
		}
	}
	return nil
}

// Describe fills contentType and custom metadata with a HeadObject call.
func (b *S3Backend) Describe(ctx context.Context, obj Object) (models.AssetMetadata, error) {
	head, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(obj.Key),
	})
	if err != nil {
		return models.AssetMetadata{}, err
	}

	meta := obj.Metadata
	meta.ContentType = aws.ToString(head.ContentType)
	if len(head.Metadata) > 0 {
		meta.Metadata = head.Metadata
	}
	return meta, nil
}

func (b *S3Backend) SignURL(ctx context.Context, key string, expires time.Time) (string, error) {
	ttl := time.Until(expires)
	if ttl <= 0 {
		return "", fmt.Errorf("expiry %s is in the past", expires.Format(time.RFC3339))
	}
	req, err := b.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (b *S3Backend) Ping(ctx context.Context) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(b.bucket)})
	return err
}

// Close is a no-op; the S3 client holds no resources that need releasing.
func (b *S3Backend) Close() error { return nil }
