package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalog-review/internal/data/entity"
	"catalog-review/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var itemColumns = []string{
	"id", "title", "description", "type", "release_year", "genre", "metadata", "created_at", "updated_at",
}

// ItemFilter narrows item listings. Type is compared as given (callers uppercase it);
// TitleContains is a case-insensitive literal substring.
type ItemFilter struct {
	Type          *string
	ReleaseYear   *int
	TitleContains *string
}

// ItemChanges carries a partial update. Nil fields are left untouched.
// An empty Description or Genre clears the column, as does JSON null Metadata.
type ItemChanges struct {
	Title       *string
	Description *string
	Type        *string
	ReleaseYear *int
	Genre       *string
	Metadata    json.RawMessage
}

func (c ItemChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Type == nil &&
		c.ReleaseYear == nil && c.Genre == nil && c.Metadata == nil
}

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	Update(ctx context.Context, id uuid.UUID, changes ItemChanges) (*entity.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type itemRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewItemRepository(db database.Querier, log *zap.Logger) ItemRepository {
	return &itemRepository{
		db:  db,
		log: log.With(zap.String("repository", "item")),
	}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var item entity.Item
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Type,
		&item.ReleaseYear,
		&item.Genre,
		&item.Metadata,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// nullableJSON maps absent or JSON null metadata to SQL NULL.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	query, args, err := psql.Insert("items").
		Columns(itemColumns...).
		Values(
			item.ID,
			item.Title,
			item.Description,
			item.Type,
			item.ReleaseYear,
			item.Genre,
			nullableJSON(item.Metadata),
			item.CreatedAt,
			item.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert item: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		err = mapError(err)
		r.log.Error("Failed to create item", zap.Error(err), zap.String("title", item.Title))
		return fmt.Errorf("create item %s: %w", item.Title, err)
	}

	return nil
}

// FindByID returns nil, nil for an unknown id.
func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	query, args, err := psql.Select(itemColumns...).From("items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find item: %w", err)
	}

	item, err := scanItem(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find item by ID", zap.Error(err), zap.String("item_id", id.String()))
		return nil, fmt.Errorf("find item by ID %s: %w", id, err)
	}

	return item, nil
}

func buildItemListQuery(filter ItemFilter) (string, []any, error) {
	q := psql.Select(itemColumns...).From("items")

	if filter.Type != nil {
		q = q.Where(sq.Eq{"type": *filter.Type})
	}
	if filter.ReleaseYear != nil {
		q = q.Where(sq.Eq{"release_year": *filter.ReleaseYear})
	}
	if filter.TitleContains != nil && *filter.TitleContains != "" {
		q = q.Where(sq.ILike{"title": containsPattern(*filter.TitleContains)})
	}

	return q.OrderBy("release_year DESC NULLS LAST", "created_at DESC").ToSql()
}

func (r *itemRepository) FindAll(ctx context.Context, filter ItemFilter) ([]*entity.Item, error) {
	query, args, err := buildItemListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build list items: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list items", zap.Error(err))
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			r.log.Error("Failed to scan item row", zap.Error(err))
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate items rows: %w", err)
	}

	return items, nil
}

func emptyAsNull(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func buildItemUpdateQuery(id uuid.UUID, changes ItemChanges, now time.Time) (string, []any, error) {
	set := map[string]any{"updated_at": now}

	if changes.Title != nil {
		set["title"] = *changes.Title
	}
	if changes.Description != nil {
		set["description"] = emptyAsNull(*changes.Description)
	}
	if changes.Type != nil {
		set["type"] = *changes.Type
	}
	if changes.ReleaseYear != nil {
		set["release_year"] = *changes.ReleaseYear
	}
	if changes.Genre != nil {
		set["genre"] = emptyAsNull(*changes.Genre)
	}
	if changes.Metadata != nil {
		set["metadata"] = nullableJSON(changes.Metadata)
	}

	return psql.Update("items").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, title, description, type, release_year, genre, metadata, created_at, updated_at").
		ToSql()
}

// Update applies changes and returns the stored row, or ErrNotFound.
func (r *itemRepository) Update(ctx context.Context, id uuid.UUID, changes ItemChanges) (*entity.Item, error) {
	query, args, err := buildItemUpdateQuery(id, changes, time.Now())
	if err != nil {
		return nil, fmt.Errorf("build update item: %w", err)
	}

	item, err := scanItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrNotFound) {
			r.log.Error("Failed to update item", zap.Error(err), zap.String("item_id", id.String()))
		}
		return nil, fmt.Errorf("update item %s: %w", id, err)
	}

	return item, nil
}

// Delete removes the item row only; callers clear its reviews first.
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete("items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete item: %w", err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		err = mapError(err)
		r.log.Error("Failed to delete item", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete item %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete item %s: %w", id, ErrNotFound)
	}

	r.log.Info("Item deleted", zap.String("id", id.String()))
	return nil
}
