package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-review/internal/data/entity"
	"catalog-review/pkg/database"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	reviewColumns = []string{"id", "user_id", "item_id", "rating", "text", "created_at"}

	detailedReviewColumns = []string{
		"r.id", "r.user_id", "r.item_id", "r.rating", "r.text", "r.created_at",
		"u.name AS user_name", "i.title AS item_title",
	}
)

// ReviewFilter narrows review listings by item and/or author.
// UserIDs matches reviews by any of the listed authors.
type ReviewFilter struct {
	ItemID  *uuid.UUID
	UserID  *uuid.UUID
	UserIDs []uuid.UUID
}

func (f ReviewFilter) IsEmpty() bool {
	return f.ItemID == nil && f.UserID == nil && len(f.UserIDs) == 0
}

// ReviewChanges carries a partial update. Nil fields are left untouched.
type ReviewChanges struct {
	Rating *int
	Text   *string
}

func (c ReviewChanges) IsEmpty() bool {
	return c.Rating == nil && c.Text == nil
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindDetailedByID(ctx context.Context, id uuid.UUID) (*entity.ReviewWithAuthor, error)
	FindAll(ctx context.Context, filter ReviewFilter) ([]*entity.ReviewWithAuthor, error)
	Update(ctx context.Context, id uuid.UUID, changes ReviewChanges) (*entity.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Cascades, run inside a transaction by the services
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteByItemID(ctx context.Context, itemID uuid.UUID) (int64, error)

	// RatingsByItemIDs returns the ratings of every review per item.
	RatingsByItemIDs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]int, error)
}

type reviewRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReviewRepository(db database.Querier, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.ItemID,
		&review.Rating,
		&review.Text,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func scanDetailedReview(row pgx.Row) (*entity.ReviewWithAuthor, error) {
	var review entity.ReviewWithAuthor
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.ItemID,
		&review.Rating,
		&review.Text,
		&review.CreatedAt,
		&review.UserName,
		&review.ItemTitle,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create inserts a review. An unknown user or item yields ErrInvalidReference.
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query, args, err := psql.Insert("reviews").
		Columns(reviewColumns...).
		Values(review.ID, review.UserID, review.ItemID, review.Rating, review.Text, review.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert review: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		err = mapError(err)
		if errors.Is(err, ErrInvalidReference) || errors.Is(err, ErrConstraint) {
			r.log.Warn("Review rejected by constraint", zap.Error(err))
		} else {
			r.log.Error("Failed to create review",
				zap.Error(err),
				zap.String("user_id", review.UserID.String()),
				zap.String("item_id", review.ItemID.String()),
			)
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

// FindByID returns nil, nil for an unknown id.
func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query, args, err := psql.Select(reviewColumns...).From("reviews").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find review: %w", err)
	}

	review, err := scanReview(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID", zap.Error(err), zap.String("review_id", id.String()))
		return nil, fmt.Errorf("find review by ID %s: %w", id, err)
	}

	return review, nil
}

func detailedReviews() sq.SelectBuilder {
	return psql.Select(detailedReviewColumns...).
		From("reviews r").
		Join("users u ON u.id = r.user_id").
		Join("items i ON i.id = r.item_id")
}

func (r *reviewRepository) FindDetailedByID(ctx context.Context, id uuid.UUID) (*entity.ReviewWithAuthor, error) {
	query, args, err := detailedReviews().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find review: %w", err)
	}

	review, err := scanDetailedReview(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID", zap.Error(err), zap.String("review_id", id.String()))
		return nil, fmt.Errorf("find review by ID %s: %w", id, err)
	}

	return review, nil
}

func buildReviewListQuery(filter ReviewFilter) (string, []any, error) {
	q := detailedReviews()

	if filter.ItemID != nil {
		q = q.Where(sq.Eq{"r.item_id": *filter.ItemID})
	}
	if filter.UserID != nil {
		q = q.Where(sq.Eq{"r.user_id": *filter.UserID})
	}
	if len(filter.UserIDs) > 0 {
		q = q.Where(sq.Eq{"r.user_id": filter.UserIDs})
	}

	return q.OrderBy("r.created_at DESC").ToSql()
}

// FindAll lists reviews with author names, newest first.
func (r *reviewRepository) FindAll(ctx context.Context, filter ReviewFilter) ([]*entity.ReviewWithAuthor, error) {
	query, args, err := buildReviewListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build list reviews: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list reviews", zap.Error(err))
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*entity.ReviewWithAuthor, 0)
	for rows.Next() {
		review, err := scanDetailedReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate reviews rows: %w", err)
	}

	return reviews, nil
}

func buildReviewUpdateQuery(id uuid.UUID, changes ReviewChanges) (string, []any, error) {
	set := map[string]any{}

	if changes.Rating != nil {
		set["rating"] = *changes.Rating
	}
	if changes.Text != nil {
		set["text"] = *changes.Text
	}

	return psql.Update("reviews").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, user_id, item_id, rating, text, created_at").
		ToSql()
}

func (r *reviewRepository) Update(ctx context.Context, id uuid.UUID, changes ReviewChanges) (*entity.Review, error) {
	if changes.IsEmpty() {
		return nil, errors.New("update review: no changes")
	}

	query, args, err := buildReviewUpdateQuery(id, changes)
	if err != nil {
		return nil, fmt.Errorf("build update review: %w", err)
	}

	review, err := scanReview(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrConstraint) {
			r.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", id.String()))
		}
		return nil, fmt.Errorf("update review %s: %w", id, err)
	}

	return review, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete("reviews").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete review: %w", err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to delete review", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete review %s: %w", id, mapError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete review %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *reviewRepository) deleteWhere(ctx context.Context, where sq.Eq) (int64, error) {
	query, args, err := psql.Delete("reviews").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete reviews: %w", err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to delete reviews", zap.Error(err), zap.Any("where", where))
		return 0, fmt.Errorf("delete reviews: %w", mapError(err))
	}

	return result.RowsAffected(), nil
}

func (r *reviewRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, sq.Eq{"user_id": userID})
}

func (r *reviewRepository) DeleteByItemID(ctx context.Context, itemID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, sq.Eq{"item_id": itemID})
}

func buildRatingsQuery(itemIDs []uuid.UUID) (string, []any, error) {
	return psql.Select("item_id", "rating").
		From("reviews").
		Where(sq.Eq{"item_id": itemIDs}).
		ToSql()
}

func (r *reviewRepository) RatingsByItemIDs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]int, error) {
	ratings := make(map[uuid.UUID][]int, len(itemIDs))
	if len(itemIDs) == 0 {
		return ratings, nil
	}

	query, args, err := buildRatingsQuery(itemIDs)
	if err != nil {
		return nil, fmt.Errorf("build ratings query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to load ratings", zap.Error(err), zap.Int("items", len(itemIDs)))
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itemID uuid.UUID
			rating int
		)
		if err := rows.Scan(&itemID, &rating); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings[itemID] = append(ratings[itemID], rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	return ratings, nil
}
