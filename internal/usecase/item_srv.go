package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-review/internal/data/entity"
	"catalog-review/internal/data/repository"
	"catalog-review/internal/dto/request"
	"catalog-review/internal/dto/response"
	"catalog-review/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ItemService interface {
	CreateItem(ctx context.Context, req *request.CreateItemRequest) (*response.ItemResponse, error)
	GetItems(ctx context.Context, query request.ItemListQuery) ([]response.ItemResponse, error)
	GetItem(ctx context.Context, id uuid.UUID) (*response.ItemDetailResponse, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req *request.UpdateItemRequest) (*response.ItemResponse, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type itemService struct {
	repo      *repository.Repository
	publisher events.Publisher
	log       *zap.Logger
}

func NewItemService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) ItemService {
	return &itemService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "item")),
	}
}

func normalizeType(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

func optionalText(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}

func metadataBytes(raw []byte) []byte {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}

func (s *itemService) CreateItem(ctx context.Context, req *request.CreateItemRequest) (*response.ItemResponse, error) {
	if err := validateRequest(req); err != nil {
		s.log.Warn("Create item validation failed", zap.Error(err))
		return nil, err
	}

	itemType := normalizeType(req.Type)
	if itemType == "" {
		return nil, validationError("Validation failed", map[string]string{"type": "This field is required"})
	}

	now := time.Now()
	item := &entity.Item{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       req.Title,
		Description: optionalText(req.Description),
		Type:        itemType,
		ReleaseYear: req.ReleaseYear,
		Genre:       optionalText(req.Genre),
		Metadata:    metadataBytes(req.Metadata),
	}

	if err := s.repo.Item.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.log.Info("Item created",
		zap.String("item_id", item.ID.String()),
		zap.String("type", item.Type))

	resp := response.ItemToResponse(item)
	return &resp, nil
}

// GetItems lists items with ratings aggregated from their reviews.
func (s *itemService) GetItems(ctx context.Context, query request.ItemListQuery) ([]response.ItemResponse, error) {
	filter := repository.ItemFilter{
		ReleaseYear:   query.ReleaseYear,
		TitleContains: query.SearchTitle,
	}
	if query.Type != nil {
		t := normalizeType(*query.Type)
		filter.Type = &t
	}

	items, err := s.repo.Item.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	ratings, err := s.repo.Review.RatingsByItemIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load item ratings: %w", err)
	}

	result := make([]response.ItemResponse, len(items))
	for i, item := range items {
		result[i] = withRating(response.ItemToResponse(item), AggregateRatings(ratings[item.ID]))
	}

	return result, nil
}

func withRating(resp response.ItemResponse, summary RatingSummary) response.ItemResponse {
	resp.AverageRating = summary.AverageRating
	resp.TotalReviews = summary.TotalReviews
	return resp
}

func (s *itemService) GetItem(ctx context.Context, id uuid.UUID) (*response.ItemDetailResponse, error) {
	item, err := s.repo.Item.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find item %s: %w", id, err)
	}
	if item == nil {
		return nil, notFound("Item not found")
	}

	reviews, err := s.repo.Review.FindAll(ctx, repository.ReviewFilter{ItemID: &id})
	if err != nil {
		return nil, fmt.Errorf("list reviews for item %s: %w", id, err)
	}

	ratings := make([]int, len(reviews))
	for i, review := range reviews {
		ratings[i] = review.Rating
	}

	return &response.ItemDetailResponse{
		ItemResponse: withRating(response.ItemToResponse(item), AggregateRatings(ratings)),
		Reviews:      response.ItemReviewsToResponse(reviews),
	}, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id uuid.UUID, req *request.UpdateItemRequest) (*response.ItemResponse, error) {
	if req == nil || req.IsEmpty() {
		return nil, validationError("At least one field to update is required", nil)
	}
	if err := validateRequest(req); err != nil {
		s.log.Warn("Update item validation failed", zap.Error(err))
		return nil, err
	}

	changes := repository.ItemChanges{
		Title:       req.Title,
		Description: req.Description,
		ReleaseYear: req.ReleaseYear,
		Genre:       req.Genre,
		Metadata:    req.Metadata,
	}
	if req.Type != nil {
		t := normalizeType(*req.Type)
		if t == "" {
			return nil, validationError("Validation failed", map[string]string{"type": "Must not be empty"})
		}
		changes.Type = &t
	}

	item, err := s.repo.Item.Update(ctx, id, changes)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update item %s: %w", id, err)
	}

	ratings, err := s.repo.Review.RatingsByItemIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load item ratings: %w", err)
	}

	s.log.Info("Item updated", zap.String("item_id", id.String()))

	resp := withRating(response.ItemToResponse(item), AggregateRatings(ratings[id]))
	return &resp, nil
}

// DeleteItem removes the item's reviews and then the item in one transaction.
func (s *itemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	var removedReviews int64
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		n, err := tx.Review.DeleteByItemID(ctx, id)
		if err != nil {
			return err
		}
		removedReviews = n
		return tx.Item.Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("Item not found")
	}
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}

	s.log.Info("Item deleted",
		zap.String("item_id", id.String()),
		zap.Int64("reviews_removed", removedReviews))

	publishEvent(ctx, s.publisher, s.log, events.Event{
		Type:       events.ItemDeleted,
		ResourceID: id,
		ItemID:     &id,
	})

	return nil
}
