package elements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-elements/internal/positions"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository stores elements through bun. db may be a *bun.DB or a bun.Tx.
type BunRepository struct {
	db bun.IDB
}

func NewBunRepository(db bun.IDB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) Create(ctx context.Context, record *Element) error {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("element repository error: %w", err)
	}
	return nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Element, error) {
	record := new(Element)
	if err := r.db.NewSelect().Model(record).Where("?TableAlias.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, mapError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]*Element, error) {
	var records []*Element
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.page_id = ?", pageID).
		Where("?TableAlias.trashed_at IS NULL").
		OrderExpr("?TableAlias.cell_id ASC").
		OrderExpr("?TableAlias.position ASC").
		OrderExpr("?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err, pageID.String())
	}
	return records, nil
}

func (r *BunRepository) ListTrashed(ctx context.Context) ([]*Element, error) {
	var records []*Element
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.trashed_at IS NOT NULL").
		OrderExpr("?TableAlias.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err, TrashBucket)
	}
	return records, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Element) error {
	res, err := r.db.NewUpdate().
		Model(record).
		Column("name", "public", "folded", "trashed_at", "tags", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("element repository error: %w", err)
	}
	return requireAffected(res, record.ID)
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Element)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("element repository error: %w", err)
	}
	return requireAffected(res, id)
}

func (r *BunRepository) ScopeEntries(ctx context.Context, key positions.Key) ([]positions.Entry, error) {
	key = positions.NewKey(key.Container, key.Group)
	var records []*Element
	q := r.db.NewSelect().
		Model(&records).
		Column("id", "position")
	if key.Container == TrashBucket {
		q = q.Where("?TableAlias.trashed_at IS NOT NULL")
	} else {
		pageID, cellID, err := parseKey(key)
		if err != nil {
			return nil, nil
		}
		q = q.Where("?TableAlias.page_id = ?", pageID).
			Where("?TableAlias.trashed_at IS NULL")
		if cellID == nil {
			q = q.Where("?TableAlias.cell_id IS NULL")
		} else {
			q = q.Where("?TableAlias.cell_id = ?", *cellID)
		}
	}
	if err := q.OrderExpr("?TableAlias.position ASC").Scan(ctx); err != nil {
		return nil, mapError(err, key.String())
	}
	out := make([]positions.Entry, 0, len(records))
	for _, record := range records {
		out = append(out, positions.Entry{ID: record.ID, Position: record.Position})
	}
	return out, nil
}

func (r *BunRepository) Place(ctx context.Context, id uuid.UUID, key positions.Key, position int) (bool, error) {
	q := r.db.NewUpdate().
		Model((*Element)(nil)).
		Set("position = ?", position).
		Where("?TableAlias.id = ?", id)
	if key.Container == TrashBucket {
		q = q.Where("?TableAlias.trashed_at IS NOT NULL")
	} else {
		pageID, cellID, err := parseKey(key)
		if err != nil {
			return false, nil
		}
		q = q.Set("page_id = ?", pageID).
			Set("cell_id = ?", cellID).
			Set("trashed_at = NULL")
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("element repository error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func requireAffected(res sql.Result, id uuid.UUID) error {
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return notFound(id.String())
	}
	return nil
}

func mapError(err error, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(key)
	}
	return fmt.Errorf("element repository error: %w", err)
}
