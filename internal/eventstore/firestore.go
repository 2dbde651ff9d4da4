// CrowdWatch - Crowd and Traffic Monitoring Dashboard API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crowdwatch

package eventstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/tomtom215/crowdwatch/internal/config"
	"github.com/tomtom215/crowdwatch/internal/logging"
	"github.com/tomtom215/crowdwatch/internal/models"
)

// FirestoreBackend queries Cloud Firestore collections.
type FirestoreBackend struct {
	client     *firestore.Client
	pingTarget string
}

// NewFirestoreBackend connects with the service account file in
// gcp.CredentialsFile, or application default credentials when it is empty.
// An empty project ID is detected from the credentials.
func NewFirestoreBackend(ctx context.Context, gcp config.GCPConfig, store config.StoreConfig) (*FirestoreBackend, error) {
	var opts []option.ClientOption
	if gcp.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(gcp.CredentialsFile))
	}

	projectID := gcp.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	logging.Info().
		Str("project_id", gcp.ProjectID).
		Bool("credentials_file", gcp.CredentialsFile != "").
		Msg("Firestore event store connected")

	return &FirestoreBackend{client: client, pingTarget: store.PeopleCollection}, nil
}

func (b *FirestoreBackend) Name() string { return config.StoreBackendFirestore }

// Find runs collection.OrderBy(field, dir).Limit(n).
func (b *FirestoreBackend) Find(ctx context.Context, spec FindSpec) ([]models.Sample, error) {
	dir := firestore.Asc
	if spec.Descending {
		dir = firestore.Desc
	}

	docs, err := b.client.Collection(spec.Collection).
		OrderBy(spec.OrderBy, dir).
		Limit(spec.Limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, err
	}

	samples := make([]models.Sample, 0, len(docs))
	for _, doc := range docs {
		s, err := sampleFromFields(doc.Ref.ID, doc.Data(), spec.ValueField)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// Ping reads at most one document from the people collection.
func (b *FirestoreBackend) Ping(ctx context.Context) error {
	_, err := b.client.Collection(b.pingTarget).Limit(1).Documents(ctx).GetAll()
	return err
}

func (b *FirestoreBackend) Close() error {
	return b.client.Close()
}
