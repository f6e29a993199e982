// Package storage keeps document text in an Azure Blob Storage container.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/JaimeStill/finsight/pkg/lifecycle"
)

// System stores and retrieves blobs by key.
type System interface {
	// Start ensures the container exists once the coordinator starts and
	// registers the "storage" readiness check.
	Start(lc *lifecycle.Coordinator) error
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	// Download returns ErrNotFound when the blob is missing. The caller
	// closes the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob and its snapshots. Returns ErrNotFound when
	// the blob is missing.
	Delete(ctx context.Context, key string) error
}

type blobStore struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
	ready     atomic.Bool
}

// New builds the client without contacting the service.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &blobStore{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage", "container", cfg.ContainerName),
	}, nil
}

func newClient(cfg *Config) (*azblob.Client, error) {
	opts := &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries: int32(cfg.MaxRetries),
				TryTimeout: cfg.TryTimeoutDuration(),
			},
		},
	}

	if !cfg.UsesIdentity() {
		return azblob.NewClientFromConnectionString(cfg.ConnectionString, opts)
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve azure credential: %w", err)
	}
	return azblob.NewClient(cfg.AccountURL, cred, opts)
}

func (s *blobStore) Start(lc *lifecycle.Coordinator) error {
	lc.Register("storage", s)

	lc.OnStartup(func() {
		_, err := s.client.CreateContainer(lc.Context(), s.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			s.logger.Error("container unavailable", "error", err)
			return
		}
		s.ready.Store(true)
		s.logger.Info("container ready")
	})

	return nil
}

// Ready reports whether the container was created or found at startup.
func (s *blobStore) Ready() bool {
	return s.ready.Load()
}

func (s *blobStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	_, err := s.client.UploadStream(ctx, s.container, key, r, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(contentType)},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (s *blobStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if err != nil {
		return nil, notFound(key, "download", err)
	}
	return resp.Body, nil
}

func (s *blobStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	_, err := s.client.DeleteBlob(ctx, s.container, key, &azblob.DeleteBlobOptions{
		DeleteSnapshots: to.Ptr(blob.DeleteSnapshotsOptionTypeInclude),
	})
	if err != nil {
		return notFound(key, "delete", err)
	}
	return nil
}

func notFound(key, op string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return fmt.Errorf("%s %s: %w", op, key, err)
}

// ValidateKey rejects empty keys, absolute keys, and keys containing
// empty, "." or ".." segments.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for seg := range strings.SplitSeq(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
