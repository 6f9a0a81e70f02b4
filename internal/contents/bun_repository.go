package contents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-elements/internal/essences"
	"github.com/goliatone/go-cms-elements/internal/positions"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository stores contents and essences through bun. db may be a *bun.DB
// or a bun.Tx.
type BunRepository struct {
	db bun.IDB
}

func NewBunRepository(db bun.IDB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) Get(ctx context.Context, id uuid.UUID) (*Content, error) {
	record := new(Content)
	if err := r.db.NewSelect().Model(record).Where("?TableAlias.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, mapError(err, id.String())
	}
	if err := r.attachEssences(ctx, []*Content{record}); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunRepository) ListByElement(ctx context.Context, elementID uuid.UUID) ([]*Content, error) {
	var records []*Content
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.element_id = ?", elementID).
		OrderExpr("?TableAlias.position ASC").
		OrderExpr("?TableAlias.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err, elementID.String())
	}
	if err := r.attachEssences(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *BunRepository) ListByName(ctx context.Context, name string, kind essences.Kind) ([]*Content, error) {
	var records []*Content
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.name = ?", name).
		Where("?TableAlias.essence_kind = ?", kind).
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err, name)
	}
	if err := r.attachEssences(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *BunRepository) Create(ctx context.Context, record *Content) error {
	if record.Essence != nil {
		if _, err := r.db.NewInsert().Model(record.Essence).Exec(ctx); err != nil {
			return fmt.Errorf("essence repository error: %w", err)
		}
		id := record.Essence.ID
		record.EssenceID = &id
	}
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("content repository error: %w", err)
	}
	return nil
}

func (r *BunRepository) Save(ctx context.Context, record *Content) error {
	res, err := r.db.NewUpdate().
		Model(record).
		Column("skip_translate", "position", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("content repository error: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return notFound(record.ID.String())
	}
	if record.Essence != nil {
		if _, err := r.db.NewUpdate().Model(record.Essence).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("essence repository error: %w", err)
		}
	}
	return nil
}

func (r *BunRepository) DeleteByElement(ctx context.Context, elementID uuid.UUID) error {
	var essenceIDs []uuid.UUID
	err := r.db.NewSelect().
		Model((*Content)(nil)).
		Column("essence_id").
		Where("?TableAlias.element_id = ?", elementID).
		Where("?TableAlias.essence_id IS NOT NULL").
		Scan(ctx, &essenceIDs)
	if err != nil {
		return fmt.Errorf("content repository error: %w", err)
	}
	if len(essenceIDs) > 0 {
		if _, err := r.db.NewDelete().
			Model((*essences.Essence)(nil)).
			Where("?TableAlias.id IN (?)", bun.In(essenceIDs)).
			Exec(ctx); err != nil {
			return fmt.Errorf("essence repository error: %w", err)
		}
	}
	if _, err := r.db.NewDelete().
		Model((*Content)(nil)).
		Where("?TableAlias.element_id = ?", elementID).
		Exec(ctx); err != nil {
		return fmt.Errorf("content repository error: %w", err)
	}
	return nil
}

func (r *BunRepository) ScopeEntries(ctx context.Context, key positions.Key) ([]positions.Entry, error) {
	elementID, err := uuid.Parse(key.Container)
	if err != nil {
		return nil, nil
	}
	var records []*Content
	err = r.db.NewSelect().
		Model(&records).
		Column("id", "position").
		Where("?TableAlias.element_id = ?", elementID).
		Where("?TableAlias.essence_kind = ?", key.Group).
		OrderExpr("?TableAlias.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapError(err, key.String())
	}
	out := make([]positions.Entry, 0, len(records))
	for _, record := range records {
		out = append(out, positions.Entry{ID: record.ID, Position: record.Position})
	}
	return out, nil
}

// Place moves content id into key. Contents never change kind, so a key with
// a different kind reports false.
func (r *BunRepository) Place(ctx context.Context, id uuid.UUID, key positions.Key, position int) (bool, error) {
	elementID, err := uuid.Parse(key.Container)
	if err != nil {
		return false, nil
	}
	res, err := r.db.NewUpdate().
		Model((*Content)(nil)).
		Set("element_id = ?", elementID).
		Set("position = ?", position).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.essence_kind = ?", key.Group).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("content repository error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *BunRepository) attachEssences(ctx context.Context, records []*Content) error {
	ids := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		if record.EssenceID != nil {
			ids = append(ids, *record.EssenceID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	var loaded []*essences.Essence
	if err := r.db.NewSelect().
		Model(&loaded).
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Scan(ctx); err != nil {
		return fmt.Errorf("essence repository error: %w", err)
	}
	byID := make(map[uuid.UUID]*essences.Essence, len(loaded))
	for _, essence := range loaded {
		byID[essence.ID] = essence
	}
	for _, record := range records {
		if record.EssenceID != nil {
			record.Essence = byID[*record.EssenceID]
		}
	}
	return nil
}

func mapError(err error, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(key)
	}
	return fmt.Errorf("content repository error: %w", err)
}
