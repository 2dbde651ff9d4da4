// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package assets

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// LocalBackend serves images from a directory on disk. It lets the DuckDB
// demo run without a cloud account.
//
// Keys are slash-separated paths relative to the root, so the default
// results/ prefix matches files under <root>/results. The creation time is
// the file modification time. SignURL returns a file:// URL that never
// expires.
type LocalBackend struct {
	root string
}

// NewLocalBackend opens dir, which must exist.
func NewLocalBackend(cfg config.AssetsConfig) (*LocalBackend, error) {
	root, err := filepath.Abs(cfg.LocalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.LocalDir, err)
	}
	b := &LocalBackend{root: root}
	if err := b.Ping(context.Background()); err != nil {
		return nil, err
	}

	logging.Info().Str("dir", root).Msg("Local asset store ready")
	return b, nil
}

func (b *LocalBackend) Name() string { return config.AssetBackendLocal }

func (b *LocalBackend) Walk(ctx context.Context, prefix string, fn func(Object)) error {
	return filepath.WalkDir(b.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(b.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		fn(Object{Key: key, CreatedAt: info.ModTime(), Metadata: b.metadata(key, info)})
		return nil
	})
}

// Describe returns the listed metadata; the walk already stats every file.
func (b *LocalBackend) Describe(_ context.Context, obj Object) (models.AssetMetadata, error) {
	return obj.Metadata, nil
}

func (b *LocalBackend) SignURL(_ context.Context, key string, _ time.Time) (string, error) {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(b.root, filepath.FromSlash(key)))}
	return u.String(), nil
}

func (b *LocalBackend) Ping(_ context.Context) error {
	info, err := os.Stat(b.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", b.root)
	}
	return nil
}

func (b *LocalBackend) Close() error { return nil }

func (b *LocalBackend) metadata(key string, info fs.FileInfo) models.AssetMetadata {
	mod := info.ModTime().UTC()
	return models.AssetMetadata{
		Name:        key,
		Bucket:      b.root,
		ContentType: mime.TypeByExtension(filepath.Ext(key)),
		Size:        strconv.FormatInt(info.Size(), 10),
		TimeCreated: mod,
		Updated:     mod,
	}
}
