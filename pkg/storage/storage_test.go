package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JaimeStill/finsight/pkg/lifecycle"
	"github.com/JaimeStill/finsight/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=finsightstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/finsightstore;"

func newSystem(t *testing.T) storage.System {
	t.Helper()
	cfg := &storage.Config{ConnectionString: azuriteConnString}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	sys, err := storage.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return sys
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{ContainerName: "documents", ConnectionString: "not-a-connection-string"}
	if _, err := storage.New(cfg, slog.Default()); err == nil {
		t.Fatal("New() error = nil, want error for malformed connection string")
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{"documents/550e8400-e29b-41d4-a716-446655440000/q1-report.txt", true},
		{"documents/id/..hidden.txt", true},
		{"", false},
		{"/documents/id/q1.txt", false},
		{"documents//q1.txt", false},
		{"documents/id/", false},
		{"documents/./q1.txt", false},
		{"documents/../secrets/key", false},
		{"..", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := storage.ValidateKey(tt.key)
			if tt.valid && err != nil {
				t.Errorf("ValidateKey(%q) error = %v", tt.key, err)
			}
			if !tt.valid && !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("ValidateKey(%q) error = %v, want ErrInvalidKey", tt.key, err)
			}
		})
	}
}

func TestOperationsRejectInvalidKeys(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	for _, key := range []string{"", "documents/../secrets"} {
		if err := sys.Upload(ctx, key, bytes.NewReader(nil), "text/plain"); !errors.Is(err, storage.ErrInvalidKey) {
			t.Errorf("Upload(%q) error = %v, want ErrInvalidKey", key, err)
		}
		if _, err := sys.Download(ctx, key); !errors.Is(err, storage.ErrInvalidKey) {
			t.Errorf("Download(%q) error = %v, want ErrInvalidKey", key, err)
		}
		if err := sys.Delete(ctx, key); !errors.Is(err, storage.ErrInvalidKey) {
			t.Errorf("Delete(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestStartRegistersReadiness(t *testing.T) {
	sys := newSystem(t)
	lc := lifecycle.New()
	t.Cleanup(func() { lc.Shutdown(time.Second) })

	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if _, ok := lc.Status()["storage"]; !ok {
		t.Fatalf("status = %v, want storage check", lc.Status())
	}
}
