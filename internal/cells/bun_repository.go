package cells

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository stores cells through bun. db may be a *bun.DB or a bun.Tx.
type BunRepository struct {
	db bun.IDB
}

func NewBunRepository(db bun.IDB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Cell, error) {
	record := new(Cell)
	err := r.db.NewSelect().Model(record).Where("?TableAlias.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, mapError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) FindByName(ctx context.Context, pageID uuid.UUID, name string) (*Cell, error) {
	record := new(Cell)
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.page_id = ?", pageID).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapError(err, name)
	}
	return record, nil
}

func (r *BunRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]*Cell, error) {
	var records []*Cell
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.page_id = ?", pageID).
		OrderExpr("?TableAlias.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err, pageID.String())
	}
	return records, nil
}

func (r *BunRepository) Create(ctx context.Context, record *Cell) (*Cell, error) {
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, fmt.Errorf("cell repository error: %w", err)
	}
	return cloneCell(record), nil
}

func mapError(err error, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(key)
	}
	return fmt.Errorf("cell repository error: %w", err)
}
