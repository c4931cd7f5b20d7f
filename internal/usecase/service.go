package usecase

import (
	"catalog-review/internal/data/repository"
	"catalog-review/pkg/events"

	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	User   UserService
	Item   ItemService
	Review ReviewService
}

func NewService(repo *repository.Repository, tokens TokenIssuer, publisher events.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &Service{
		Auth:   NewAuthService(repo.User, tokens, log),
		User:   NewUserService(repo, publisher, log),
		Item:   NewItemService(repo, publisher, log),
		Review: NewReviewService(repo, publisher, log),
	}
}
