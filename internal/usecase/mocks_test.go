package usecase

import (
	"context"
	"time"

	"catalog-review/internal/data/entity"
	"catalog-review/internal/data/repository"
	"catalog-review/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id uuid.UUID, changes repository.UserChanges) (*entity.User, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *entity.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entity.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, id uuid.UUID, changes repository.ItemChanges) (*entity.Item, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Item), args.Error(1)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) FindDetailedByID(ctx context.Context, id uuid.UUID) (*entity.ReviewWithAuthor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewWithAuthor), args.Error(1)
}

func (m *MockReviewRepository) FindAll(ctx context.Context, filter repository.ReviewFilter) ([]*entity.ReviewWithAuthor, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entity.ReviewWithAuthor), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, id uuid.UUID, changes repository.ReviewChanges) (*entity.Review, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) DeleteByItemID(ctx context.Context, itemID uuid.UUID) (int64, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) RatingsByItemIDs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]int, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]int), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// stubTx runs fn against the same repositories and records the outcome.
type stubTx struct {
	repo      *repository.Repository
	calls     int
	lastError error
}

func (s *stubTx) WithinTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	s.calls++
	s.lastError = fn(s.repo)
	return s.lastError
}

type stubTokens struct {
	token string
	err   error
}

func (s stubTokens) Issue(uuid.UUID, string) (string, time.Time, error) {
	return s.token, time.Now().Add(time.Hour), s.err
}

type mocks struct {
	users     *MockUserRepository
	items     *MockItemRepository
	reviews   *MockReviewRepository
	publisher *MockPublisher
	tx        *stubTx
	repo      *repository.Repository
}

func newMocks() *mocks {
	m := &mocks{
		users:     new(MockUserRepository),
		items:     new(MockItemRepository),
		reviews:   new(MockReviewRepository),
		publisher: new(MockPublisher),
	}
	m.repo = &repository.Repository{User: m.users, Item: m.items, Review: m.reviews}
	m.tx = &stubTx{repo: m.repo}
	m.repo.Tx = m.tx
	return m
}

func (m *mocks) assertExpectations(t mock.TestingT) {
	m.users.AssertExpectations(t)
	m.items.AssertExpectations(t)
	m.reviews.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}
