package wire

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"catalog-review/internal/data/entity"
	"catalog-review/internal/data/repository"

	"github.com/google/uuid"
)

// memStore backs the repository interfaces with maps so the router can be
// exercised without PostgreSQL.
type memStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*entity.User
	items   map[uuid.UUID]*entity.Item
	reviews map[uuid.UUID]*entity.Review
	clock   time.Time
}

func newMemRepository() *repository.Repository {
	s := &memStore{
		users:   map[uuid.UUID]*entity.User{},
		items:   map[uuid.UUID]*entity.Item{},
		reviews: map[uuid.UUID]*entity.Review{},
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	repo := &repository.Repository{
		User:   memUsers{s},
		Item:   memItems{s},
		Review: memReviews{s},
	}
	repo.Tx = memTx{repo}
	return repo
}

// tick hands out strictly increasing timestamps so ordering is deterministic.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type memTx struct{ repo *repository.Repository }

func (t memTx) WithinTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	return fn(t.repo)
}

type memUsers struct{ s *memStore }

func (m memUsers) Create(_ context.Context, user *entity.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	copied := *user
	m.s.users[user.ID] = &copied
	return nil
}

func (m memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (m memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m memUsers) FindAll(_ context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.User
	for _, u := range m.s.users {
		if filter.Name != nil && u.Name != *filter.Name {
			continue
		}
		if filter.Email != nil && u.Email != *filter.Email {
			continue
		}
		if filter.Age != nil && (u.Age == nil || *u.Age != *filter.Age) {
			continue
		}
		copied := *u
		out = append(out, &copied)
	}
	slices.SortFunc(out, func(a, b *entity.User) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m memUsers) Update(_ context.Context, id uuid.UUID, changes repository.UserChanges) (*entity.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if changes.Email != nil {
		u.Email = *changes.Email
	}
	if changes.Name != nil {
		u.Name = *changes.Name
	}
	if changes.Age != nil {
		u.Age = changes.Age
	}
	if changes.PasswordHash != nil {
		u.PasswordHash = *changes.PasswordHash
	}
	u.UpdatedAt = m.s.tick()
	copied := *u
	return &copied, nil
}

func (m memUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	for _, r := range m.s.reviews {
		if r.UserID == id {
			return repository.ErrInvalidReference
		}
	}
	delete(m.s.users, id)
	return nil
}

type memItems struct{ s *memStore }

func (m memItems) Create(_ context.Context, item *entity.Item) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	copied := *item
	copied.CreatedAt = m.s.tick()
	copied.UpdatedAt = copied.CreatedAt
	m.s.items[item.ID] = &copied
	return nil
}

func (m memItems) FindByID(_ context.Context, id uuid.UUID) (*entity.Item, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if it, ok := m.s.items[id]; ok {
		copied := *it
		return &copied, nil
	}
	return nil, nil
}

func (m memItems) FindAll(_ context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.Item
	for _, it := range m.s.items {
		if filter.Type != nil && it.Type != *filter.Type {
			continue
		}
		if filter.ReleaseYear != nil && (it.ReleaseYear == nil || *it.ReleaseYear != *filter.ReleaseYear) {
			continue
		}
		if filter.TitleContains != nil &&
			!strings.Contains(strings.ToLower(it.Title), strings.ToLower(*filter.TitleContains)) {
			continue
		}
		copied := *it
		out = append(out, &copied)
	}
	slices.SortFunc(out, func(a, b *entity.Item) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m memItems) Update(_ context.Context, id uuid.UUID, changes repository.ItemChanges) (*entity.Item, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	it, ok := m.s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if changes.Title != nil {
		it.Title = *changes.Title
	}
	if changes.Type != nil {
		it.Type = *changes.Type
	}
	if changes.ReleaseYear != nil {
		it.ReleaseYear = changes.ReleaseYear
	}
	if changes.Description != nil {
		it.Description = textOrNull(*changes.Description)
	}
	if changes.Genre != nil {
		it.Genre = textOrNull(*changes.Genre)
	}
	if changes.Metadata != nil {
		if string(changes.Metadata) == "null" {
			it.Metadata = nil
		} else {
			it.Metadata = []byte(changes.Metadata)
		}
	}
	it.UpdatedAt = m.s.tick()
	copied := *it
	return &copied, nil
}

func (m memItems) Delete(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.items[id]; !ok {
		return repository.ErrNotFound
	}
	for _, r := range m.s.reviews {
		if r.ItemID == id {
			return repository.ErrInvalidReference
		}
	}
	delete(m.s.items, id)
	return nil
}

// textOrNull mirrors the store turning an empty string into NULL.
func textOrNull(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

type memReviews struct{ s *memStore }

func (m memReviews) Create(_ context.Context, review *entity.Review) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[review.UserID]; !ok {
		return repository.ErrInvalidReference
	}
	if _, ok := m.s.items[review.ItemID]; !ok {
		return repository.ErrInvalidReference
	}
	copied := *review
	copied.CreatedAt = m.s.tick()
	review.CreatedAt = copied.CreatedAt
	m.s.reviews[review.ID] = &copied
	return nil
}

func (m memReviews) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if r, ok := m.s.reviews[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

// detailed must be called with the lock held.
func (m memReviews) detailed(r *entity.Review) *entity.ReviewWithAuthor {
	d := &entity.ReviewWithAuthor{Review: *r}
	if u, ok := m.s.users[r.UserID]; ok {
		d.UserName = u.Name
	}
	if it, ok := m.s.items[r.ItemID]; ok {
		d.ItemTitle = it.Title
	}
	return d
}

func (m memReviews) FindDetailedByID(_ context.Context, id uuid.UUID) (*entity.ReviewWithAuthor, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if r, ok := m.s.reviews[id]; ok {
		return m.detailed(r), nil
	}
	return nil, nil
}

func (m memReviews) FindAll(_ context.Context, filter repository.ReviewFilter) ([]*entity.ReviewWithAuthor, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*entity.ReviewWithAuthor
	for _, r := range m.s.reviews {
		if filter.ItemID != nil && r.ItemID != *filter.ItemID {
			continue
		}
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if len(filter.UserIDs) > 0 && !slices.Contains(filter.UserIDs, r.UserID) {
			continue
		}
		out = append(out, m.detailed(r))
	}
	slices.SortFunc(out, func(a, b *entity.ReviewWithAuthor) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m memReviews) Update(_ context.Context, id uuid.UUID, changes repository.ReviewChanges) (*entity.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if changes.Rating != nil {
		r.Rating = *changes.Rating
	}
	if changes.Text != nil {
		r.Text = changes.Text
	}
	copied := *r
	return &copied, nil
}

func (m memReviews) Delete(_ context.Context, id uuid.UUID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.s.reviews, id)
	return nil
}

func (m memReviews) deleteWhere(match func(*entity.Review) bool) int64 {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for id, r := range m.s.reviews {
		if match(r) {
			delete(m.s.reviews, id)
			n++
		}
	}
	return n
}

func (m memReviews) DeleteByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	return m.deleteWhere(func(r *entity.Review) bool { return r.UserID == userID }), nil
}

func (m memReviews) DeleteByItemID(_ context.Context, itemID uuid.UUID) (int64, error) {
	return m.deleteWhere(func(r *entity.Review) bool { return r.ItemID == itemID }), nil
}

func (m memReviews) RatingsByItemIDs(_ context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := map[uuid.UUID][]int{}
	for _, r := range m.s.reviews {
		if slices.Contains(itemIDs, r.ItemID) {
			out[r.ItemID] = append(out[r.ItemID], r.Rating)
		}
	}
	return out, nil
}
