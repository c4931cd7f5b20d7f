package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-review/internal/data/entity"
	"catalog-review/internal/data/repository"
	"catalog-review/internal/dto/request"
	"catalog-review/internal/dto/response"
	"catalog-review/pkg/events"
	"catalog-review/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minRating = 1
	maxRating = 5
)

type ReviewService interface {
	CreateReview(ctx context.Context, identity utils.Identity, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetReviews(ctx context.Context, query request.ReviewListQuery) ([]response.ReviewResponse, error)
	UpdateReview(ctx context.Context, identity utils.Identity, id uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, identity utils.Identity, id uuid.UUID) error
}

type reviewService struct {
	repo      *repository.Repository
	publisher events.Publisher
	log       *zap.Logger
}

func NewReviewService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "review")),
	}
}

func ratingError() error {
	return validationError("Rating must be between 1 and 5", map[string]string{"rating": "Must be between 1 and 5"})
}

func (s *reviewService) CreateReview(ctx context.Context, identity utils.Identity, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	// rating is checked before anything touches the store
	if req.Rating < minRating || req.Rating > maxRating {
		s.log.Warn("Review rating out of range", zap.Int("rating", req.Rating))
		return nil, ratingError()
	}
	if err := validateRequest(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, validationError("Validation failed", map[string]string{"itemId": "Must be a valid UUID"})
	}

	item, err := s.repo.Item.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("find item %s: %w", itemID, err)
	}
	if item == nil {
		return nil, validationError("Item does not exist", map[string]string{"itemId": "Item does not exist"})
	}

	review := &entity.Review{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID: identity.UserID,
		ItemID: itemID,
		Rating: req.Rating,
		Text:   req.Text,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidReference):
			return nil, validationError("Item or user does not exist", nil)
		case errors.Is(err, repository.ErrConstraint):
			return nil, ratingError()
		default:
			return nil, fmt.Errorf("create review: %w", err)
		}
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("user_id", identity.UserID.String()),
		zap.String("item_id", itemID.String()),
		zap.Int("rating", review.Rating),
	)

	publishEvent(ctx, s.publisher, s.log, events.Event{
		Type:       events.ReviewCreated,
		ResourceID: review.ID,
		ItemID:     &review.ItemID,
		UserID:     &review.UserID,
		Rating:     review.Rating,
	})

	return s.detailed(ctx, review)
}

// detailed reloads review with author name and item title for the response.
func (s *reviewService) detailed(ctx context.Context, review *entity.Review) (*response.ReviewResponse, error) {
	found, err := s.repo.Review.FindDetailedByID(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("reload review %s: %w", review.ID, err)
	}
	if found == nil {
		// removed concurrently, answer with what was written
		resp := response.ReviewToResponse(review)
		return &resp, nil
	}

	resp := response.DetailedReviewToResponse(found)
	return &resp, nil
}

// GetReviews requires at least one of itemId or userId.
func (s *reviewService) GetReviews(ctx context.Context, query request.ReviewListQuery) ([]response.ReviewResponse, error) {
	filter := repository.ReviewFilter{ItemID: query.ItemID, UserID: query.UserID}
	if filter.IsEmpty() {
		return nil, notFound("set an itemId or userId to search for reviews")
	}

	reviews, err := s.repo.Review.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return response.DetailedReviewsToResponse(reviews), nil
}

// loadOwned fetches a review and checks that identity wrote it.
func (s *reviewService) loadOwned(ctx context.Context, identity utils.Identity, id uuid.UUID) (*entity.Review, error) {
	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find review %s: %w", id, err)
	}
	if review == nil {
		return nil, notFound("Review not found")
	}

	if review.UserID != identity.UserID {
		s.log.Warn("Review change by non-author refused",
			zap.String("review_id", id.String()),
			zap.String("identity", identity.UserID.String()))
		return nil, forbidden("You can only modify your own reviews")
	}

	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, identity utils.Identity, id uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if req == nil || req.IsEmpty() {
		return nil, validationError("Rating or text is required", nil)
	}
	if req.Rating != nil && (*req.Rating < minRating || *req.Rating > maxRating) {
		return nil, ratingError()
	}
	if err := validateRequest(req); err != nil {
		s.log.Warn("Update review validation failed", zap.Error(err))
		return nil, err
	}

	if _, err := s.loadOwned(ctx, identity, id); err != nil {
		return nil, err
	}

	review, err := s.repo.Review.Update(ctx, id, repository.ReviewChanges{
		Rating: req.Rating,
		Text:   req.Text,
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, notFound("Review not found")
	case errors.Is(err, repository.ErrConstraint):
		return nil, ratingError()
	case err != nil:
		return nil, fmt.Errorf("update review %s: %w", id, err)
	}

	s.log.Info("Review updated", zap.String("review_id", id.String()))

	publishEvent(ctx, s.publisher, s.log, events.Event{
		Type:       events.ReviewUpdated,
		ResourceID: review.ID,
		ItemID:     &review.ItemID,
		UserID:     &review.UserID,
		Rating:     review.Rating,
	})

	return s.detailed(ctx, review)
}

func (s *reviewService) DeleteReview(ctx context.Context, identity utils.Identity, id uuid.UUID) error {
	review, err := s.loadOwned(ctx, identity, id)
	if err != nil {
		return err
	}

	err = s.repo.Review.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("Review not found")
	}
	if err != nil {
		return fmt.Errorf("delete review %s: %w", id, err)
	}

	s.log.Info("Review deleted", zap.String("review_id", id.String()))

	publishEvent(ctx, s.publisher, s.log, events.Event{
		Type:       events.ReviewDeleted,
		ResourceID: review.ID,
		ItemID:     &review.ItemID,
		UserID:     &review.UserID,
		Rating:     review.Rating,
	})

	return nil
}
