package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-review/internal/data/entity"
	"catalog-review/internal/data/repository"
	"catalog-review/internal/dto/request"
	"catalog-review/internal/dto/response"
	"catalog-review/pkg/events"
	"catalog-review/pkg/security"
	"catalog-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetUsers(ctx context.Context, query request.UserListQuery) ([]response.UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID, includeReviews bool) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, identity utils.Identity, id uuid.UUID, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, identity utils.Identity, id uuid.UUID) error
}

type userService struct {
	repo      *repository.Repository
	publisher events.Publisher
	log       *zap.Logger
}

func NewUserService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) UserService {
	return &userService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetUsers(ctx context.Context, query request.UserListQuery) ([]response.UserResponse, error) {
	users, err := us.repo.User.FindAll(ctx, repository.UserFilter{
		Name:  query.Name,
		Email: query.Email,
		Age:   query.Age,
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result := response.UsersToResponse(users)
	if !query.IncludeReviews || len(users) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i, user := range users {
		ids[i] = user.ID
	}

	reviews, err := us.repo.Review.FindAll(ctx, repository.ReviewFilter{UserIDs: ids})
	if err != nil {
		return nil, fmt.Errorf("list reviews for users: %w", err)
	}

	// reviews arrive newest first, grouping keeps that order per user
	byUser := make(map[uuid.UUID][]*entity.ReviewWithAuthor, len(users))
	for _, review := range reviews {
		byUser[review.UserID] = append(byUser[review.UserID], review)
	}

	for i, user := range users {
		result[i].Reviews = response.DetailedReviewsToResponse(byUser[user.ID])
	}

	return result, nil
}

func (us *userService) GetUser(ctx context.Context, id uuid.UUID, includeReviews bool) (*response.UserResponse, error) {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	if user == nil {
		return nil, notFound("User not found")
	}

	resp := response.UserToResponse(user)
	if includeReviews {
		reviews, err := us.repo.Review.FindAll(ctx, repository.ReviewFilter{UserID: &id})
		if err != nil {
			return nil, fmt.Errorf("list reviews for user %s: %w", id, err)
		}
		resp.Reviews = response.DetailedReviewsToResponse(reviews)
	}

	return &resp, nil
}

// UpdateUser checks ownership before looking at the request body.
func (us *userService) UpdateUser(ctx context.Context, identity utils.Identity, id uuid.UUID, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if err := RequireOwner(identity, id); err != nil {
		us.log.Warn("Update of another user's account refused",
			zap.String("identity", identity.UserID.String()),
			zap.String("user_id", id.String()))
		return nil, err
	}

	if req == nil || req.IsEmpty() {
		return nil, validationError("At least one field to update is required", nil)
	}
	if err := validateRequest(req); err != nil {
		us.log.Warn("Update user validation failed", zap.Error(err))
		return nil, err
	}

	changes := repository.UserChanges{
		Name: req.Name,
		Age:  req.Age,
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		changes.Email = &email
	}
	if req.Password != nil {
		hashed, err := security.HashPassword(*req.Password)
		if err != nil {
			us.log.Error("Failed to hash password", zap.Error(err))
			return nil, fmt.Errorf("hash password: %w", err)
		}
		changes.PasswordHash = &hashed
	}

	user, err := us.repo.User.Update(ctx, id, changes)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, notFound("User not found")
	case errors.Is(err, repository.ErrDuplicate):
		return nil, validationError("Email already registered", map[string]string{"email": "Email already registered"})
	case err != nil:
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	us.log.Info("User updated", zap.String("user_id", id.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// DeleteUser removes the user's reviews and then the user in one transaction.
func (us *userService) DeleteUser(ctx context.Context, identity utils.Identity, id uuid.UUID) error {
	if err := RequireOwner(identity, id); err != nil {
		us.log.Warn("Delete of another user's account refused",
			zap.String("identity", identity.UserID.String()),
			zap.String("user_id", id.String()))
		return err
	}

	var removedReviews int64
	err := us.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		n, err := tx.Review.DeleteByUserID(ctx, id)
		if err != nil {
			return err
		}
		removedReviews = n
		return tx.User.Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("User not found")
	}
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	us.log.Info("User deleted",
		zap.String("user_id", id.String()),
		zap.Int64("reviews_removed", removedReviews))

	publishEvent(ctx, us.publisher, us.log, events.Event{
		Type:       events.UserDeleted,
		ResourceID: id,
		UserID:     &id,
	})

	return nil
}
