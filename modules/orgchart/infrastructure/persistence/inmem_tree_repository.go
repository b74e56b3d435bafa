package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/provia-hq/provia/modules/orgchart/domain/tree"
)

// InmemTreeRepository keeps whole-tree snapshots in memory. It backs tests
// and the CLI, and doubles as the storage when the database is disabled.
type InmemTreeRepository struct {
	mu      sync.RWMutex
	storage map[uuid.UUID]tree.TreeSnapshot

	// FailNextSave makes the next Save return this error. Tests use it to
	// exercise the apply-then-rollback discipline.
	FailNextSave error
}

func NewInmemTreeRepository() *InmemTreeRepository {
	return &InmemTreeRepository{
		storage: make(map[uuid.UUID]tree.TreeSnapshot),
	}
}

func (r *InmemTreeRepository) Save(ctx context.Context, t *tree.HierarchyTree) (*tree.HierarchyTree, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailNextSave != nil {
		err := r.FailNextSave
		r.FailNextSave = nil
		return nil, err
	}
	r.storage[t.ID()] = t.Snapshot()
	return t, nil
}

func (r *InmemTreeRepository) FindByID(ctx context.Context, id uuid.UUID) (*tree.HierarchyTree, error) {
	r.mu.RLock()
	snapshot, found := r.storage[id]
	r.mu.RUnlock()
	if !found {
		return nil, &tree.NotFoundError{Kind: "tree", ID: id}
	}
	return tree.HydrateTree(snapshot)
}

func (r *InmemTreeRepository) FindAll(ctx context.Context) ([]*tree.HierarchyTree, error) {
	r.mu.RLock()
	snapshots := make([]tree.TreeSnapshot, 0, len(r.storage))
	for _, s := range r.storage {
		snapshots = append(snapshots, s)
	}
	r.mu.RUnlock()

	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].ID.String() < snapshots[j].ID.String() })
	out := make([]*tree.HierarchyTree, 0, len(snapshots))
	for _, s := range snapshots {
		t, err := tree.HydrateTree(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *InmemTreeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.storage[id]; !found {
		return &tree.NotFoundError{Kind: "tree", ID: id}
	}
	delete(r.storage, id)
	return nil
}

func (r *InmemTreeRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, found := r.storage[id]
	return found, nil
}
