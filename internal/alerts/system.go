package alerts

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/finsight/pkg/pagination"
)

// System defines the public contract for alert domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Alert], error)

	Find(ctx context.Context, id uuid.UUID) (*Alert, error)
	Acknowledge(ctx context.Context, id uuid.UUID) (*Alert, error)
}
