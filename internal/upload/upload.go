// Package upload pushes stored documents to Firestore: the raw
// markdown, the Layer-1 records, and the Layer-2 records, each in its
// own collection keyed by entity slug.
package upload

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/anatolykoptev/go_bio/internal/metrics"
	"github.com/anatolykoptev/go_bio/internal/store"
)

// ErrQuotaExhausted distinguishes the sink's quota condition from
// generic failures: retrying it only burns more quota, so callers
// abort the whole run on it.
var ErrQuotaExhausted = errors.New("document store quota exhausted")

// Collection names, one per document kind.
const (
	CollectionMD = "md"
	CollectionL1 = "l1"
	CollectionL2 = "l2"
)

// Uploader writes documents to one Firestore project.
type Uploader struct {
	client *firestore.Client
	st     *store.Store
}

// New connects to Firestore with a service-account credentials file.
func New(ctx context.Context, projectID, credentialsFile string, st *store.Store) (*Uploader, error) {
	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Uploader{client: client, st: st}, nil
}

// Close releases the underlying connection.
func (u *Uploader) Close() error { return u.client.Close() }

// UploadMD writes one markdown document as {"md": content}.
func (u *Uploader) UploadMD(ctx context.Context, slug string) error {
	content, err := u.st.ReadMD(slug)
	if err != nil {
		return err
	}
	return u.set(ctx, CollectionMD, slug, map[string]string{"md": content})
}

// UploadL1 writes one Layer-1 record.
func (u *Uploader) UploadL1(ctx context.Context, slug string) error {
	var data map[string]any
	if err := u.st.ReadL1(slug, &data); err != nil {
		return err
	}
	return u.set(ctx, CollectionL1, slug, data)
}

// UploadL2 writes one Layer-2 record.
func (u *Uploader) UploadL2(ctx context.Context, slug string) error {
	var data map[string]any
	if err := u.st.ReadL2(slug, &data); err != nil {
		return err
	}
	return u.set(ctx, CollectionL2, slug, data)
}

func (u *Uploader) set(ctx context.Context, collection, slug string, data any) error {
	_, err := u.client.Collection(collection).Doc(slug).Set(ctx, data)
	if err != nil {
		metrics.UploadErrors.Add(1)
		return classify(err)
	}
	metrics.Uploads.Add(1)
	return nil
}

// classify maps the gRPC resource-exhausted code onto the distinguished
// quota error; everything else passes through as a per-item failure.
func classify(err error) error {
	if status.Code(err) == codes.ResourceExhausted {
		return fmt.Errorf("%w: %w", ErrQuotaExhausted, err)
	}
	return err
}
