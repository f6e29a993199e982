package documents

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JaimeStill/finsight/pkg/pagination"
	"github.com/JaimeStill/finsight/pkg/query"
	"github.com/JaimeStill/finsight/pkg/repository"
	"github.com/JaimeStill/finsight/pkg/storage"
)

const insertDocumentQ = `
	INSERT INTO documents(id, filename, content_type, size_bytes, storage_key)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, filename, content_type, size_bytes, storage_key, status,
		risk_level, compliance_status, risk_score, sentiment_score, confidence_score,
		analysis_summary, analyzed_at, uploaded_at, updated_at`

const deleteDocumentQ = `DELETE FROM documents WHERE id = $1 RETURNING storage_key`

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "AnalysisSummary")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repoErrors.Map(err)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	d, err := repository.QueryOne(ctx, r.db, insertDocumentQ,
		[]any{id, cmd.Filename, cmd.ContentType, int64(len(cmd.Data)), key},
		scanDocument,
	)
	if err != nil {
		r.discardBlob(ctx, key, "insert failed")
		return nil, repoErrors.Map(err)
	}

	r.logger.Info("document created", "id", d.ID, "filename", d.Filename, "size", d.SizeBytes)
	return &d, nil
}

// Delete removes the row first so a failed blob delete leaves an orphaned
// blob rather than a row pointing at nothing.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	key, err := repository.QueryOne(ctx, r.db, deleteDocumentQ, []any{id},
		func(s repository.Scanner) (string, error) {
			var key string
			err := s.Scan(&key)
			return key, err
		},
	)
	if err != nil {
		return repoErrors.Map(err)
	}

	r.discardBlob(ctx, key, "row deleted")
	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) discardBlob(ctx context.Context, key, reason string) {
	if err := r.storage.Delete(ctx, key); err != nil {
		r.logger.Warn("blob delete failed", "key", key, "reason", reason, "error", err)
	}
}

func (r *repo) Text(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return "", err
	}

	rc, err := r.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%w: text blob missing for %s", ErrNotFound, id)
		}
		return "", fmt.Errorf("download document %s: %w", id, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", id, err)
	}

	return string(data), nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == ".." || name == "" || name == "/" {
		name = "document.txt"
	}
	return url.PathEscape(name)
}
