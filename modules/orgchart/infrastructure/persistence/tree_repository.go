package persistence

import (
	"context"
	"encoding/json"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/provia-hq/provia/modules/orgchart/domain/tree"
)

const treeSchema = `
CREATE TABLE IF NOT EXISTS org_trees (
    id         uuid PRIMARY KEY,
    data       jsonb NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now()
)`

// PgTreeRepository persists trees as JSONB documents, one row per tree.
// Save replaces the whole document; that is the only atomicity the contract
// promises.
type PgTreeRepository struct {
	pool *pgxpool.Pool
}

func NewTreeRepository(pool *pgxpool.Pool) *PgTreeRepository {
	return &PgTreeRepository{pool: pool}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (r *PgTreeRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, treeSchema); err != nil {
		return gerrors.Wrap(err, "ensure org_trees schema")
	}
	return nil
}

func (r *PgTreeRepository) Save(ctx context.Context, t *tree.HierarchyTree) (*tree.HierarchyTree, error) {
	data, err := json.Marshal(t.Snapshot())
	if err != nil {
		return nil, gerrors.Wrap(err, "marshal tree snapshot")
	}
	_, err = r.pool.Exec(ctx, `
        INSERT INTO org_trees (id, data, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
    `, t.ID(), data)
	if err != nil {
		return nil, gerrors.Wrap(err, "save tree")
	}
	return t, nil
}

func (r *PgTreeRepository) FindByID(ctx context.Context, id uuid.UUID) (*tree.HierarchyTree, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM org_trees WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &tree.NotFoundError{Kind: "tree", ID: id}
	}
	if err != nil {
		return nil, gerrors.Wrap(err, "find tree")
	}
	return unmarshalTree(data)
}

func (r *PgTreeRepository) FindAll(ctx context.Context) ([]*tree.HierarchyTree, error) {
	rows, err := r.pool.Query(ctx, `SELECT data FROM org_trees ORDER BY updated_at DESC`)
	if err != nil {
		return nil, gerrors.Wrap(err, "list trees")
	}
	defer rows.Close()

	var out []*tree.HierarchyTree
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, gerrors.Wrap(err, "scan tree row")
		}
		t, err := unmarshalTree(data)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PgTreeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM org_trees WHERE id = $1`, id)
	if err != nil {
		return gerrors.Wrap(err, "delete tree")
	}
	if tag.RowsAffected() == 0 {
		return &tree.NotFoundError{Kind: "tree", ID: id}
	}
	return nil
}

func (r *PgTreeRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM org_trees WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, gerrors.Wrap(err, "check tree existence")
	}
	return exists, nil
}

func unmarshalTree(data []byte) (*tree.HierarchyTree, error) {
	var snapshot tree.TreeSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, gerrors.Wrap(err, "unmarshal tree snapshot")
	}
	return tree.HydrateTree(snapshot)
}
