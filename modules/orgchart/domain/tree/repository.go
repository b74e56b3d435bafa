package tree

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists whole trees. Implementations replace the stored
// representation atomically on Save; no finer-grained atomicity is assumed.
type Repository interface {
	Save(ctx context.Context, t *HierarchyTree) (*HierarchyTree, error)
	FindByID(ctx context.Context, id uuid.UUID) (*HierarchyTree, error)
	FindAll(ctx context.Context) ([]*HierarchyTree, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
