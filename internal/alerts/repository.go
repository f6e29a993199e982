package alerts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/finsight/pkg/pagination"
	"github.com/JaimeStill/finsight/pkg/query"
	"github.com/JaimeStill/finsight/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an alert repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "alerts"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Alert], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanAlert)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Alert, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAlert)
	if err != nil {
		return nil, repoErrors.Map(err)
	}
	return &a, nil
}

func (r *repo) Acknowledge(ctx context.Context, id uuid.UUID) (*Alert, error) {
	findQ, findArgs := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Alert, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			`UPDATE alerts
			SET status = $1, acknowledged_at = COALESCE(acknowledged_at, NOW())
			WHERE id = $2`,
			StatusAcknowledged, id,
		); err != nil {
			return Alert{}, err
		}
		return repository.QueryOne(ctx, tx, findQ, findArgs, scanAlert)
	})

	if err != nil {
		return nil, repoErrors.Map(err)
	}

	r.logger.Info("alert acknowledged", "id", a.ID, "document_id", a.DocumentID)
	return &a, nil
}
