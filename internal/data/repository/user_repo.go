package repository

import (
	"context"
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

var userColumns = []string{"id", "email", "name", "age", "password", "created_at", "updated_at"}

// UserFilter narrows user listings. Nil fields are ignored; set fields match exactly.
type UserFilter struct {
	Name  *string
	Email *string
	Age   *int
}

// UserChanges carries a partial update. Nil fields are left untouched.
type UserChanges struct {
	Email        *string
	Name         *string
	Age          *int
	PasswordHash *string
}

func (c UserChanges) IsEmpty() bool {
	return c.Email == nil && c.Name == nil && c.Age == nil && c.PasswordHash == nil
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context, filter UserFilter) ([]*entity.User, error)
	Update(ctx context.Context, id uuid.UUID, changes UserChanges) (*entity.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUserRepository(db database.Querier, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Age,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user; a taken email yields ErrDuplicate.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Email, user.Name, user.Age, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user: %w", err)
	}

	if _, err := ur.db.Exec(ctx, query, args...); err != nil {
		err = mapError(err)
		if errors.Is(err, ErrDuplicate) {
			ur.log.Warn("Email already registered", zap.String("email", user.Email))
		} else {
			ur.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		}
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return ur.findOne(ctx, sq.Eq{"id": id})
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return ur.findOne(ctx, sq.Eq{"email": email})
}

// findOne returns nil, nil when nothing matches.
func (ur *userRepository) findOne(ctx context.Context, where sq.Eq) (*entity.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find user: %w", err)
	}

	user, err := scanUser(ur.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user", zap.Error(err), zap.Any("where", where))
		return nil, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

func buildUserListQuery(filter UserFilter) (string, []any, error) {
	q := psql.Select(userColumns...).From("users")

	if filter.Name != nil {
		q = q.Where(sq.Eq{"name": *filter.Name})
	}
	if filter.Email != nil {
		q = q.Where(sq.Eq{"email": *filter.Email})
	}
	if filter.Age != nil {
		q = q.Where(sq.Eq{"age": *filter.Age})
	}

	return q.OrderBy("created_at DESC").ToSql()
}

// FindAll lists users matching filter, newest first.
func (ur *userRepository) FindAll(ctx context.Context, filter UserFilter) ([]*entity.User, error) {
	query, args, err := buildUserListQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}

	rows, err := ur.db.Query(ctx, query, args...)
	if err != nil {
		ur.log.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func buildUserUpdateQuery(id uuid.UUID, changes UserChanges, now time.Time) (string, []any, error) {
	set := map[string]any{"updated_at": now}

	if changes.Email != nil {
		set["email"] = *changes.Email
	}
	if changes.Name != nil {
		set["name"] = *changes.Name
	}
	if changes.Age != nil {
		set["age"] = *changes.Age
	}
	if changes.PasswordHash != nil {
		set["password"] = *changes.PasswordHash
	}

	return psql.Update("users").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, email, name, age, password, created_at, updated_at").
		ToSql()
}

// Update applies changes and returns the stored row, or ErrNotFound.
func (ur *userRepository) Update(ctx context.Context, id uuid.UUID, changes UserChanges) (*entity.User, error) {
	query, args, err := buildUserUpdateQuery(id, changes, time.Now())
	if err != nil {
		return nil, fmt.Errorf("build update user: %w", err)
	}

	user, err := scanUser(ur.db.QueryRow(ctx, query, args...))
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrDuplicate) {
			ur.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", id.String()))
		}
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	return user, nil
}

// Delete removes the user row only; callers clear dependent reviews first.
func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete user: %w", err)
	}

	result, err := ur.db.Exec(ctx, query, args...)
	if err != nil {
		err = mapError(err)
		ur.log.Error("Failed to delete user", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete user %s: %w", id, ErrNotFound)
	}

	ur.log.Info("User deleted", zap.String("id", id.String()))
	return nil
}
