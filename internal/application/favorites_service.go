package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/blogware/blogctl/internal/domain"
	"github.com/blogware/blogctl/internal/ports"
)

// FavoritesService keeps the favorited post list. Membership toggles are
// read-modify-write over the repository, serialized by a mutex.
type FavoritesService struct {
	repo ports.FavoritesRepository
	mu   sync.Mutex
}

func NewFavoritesService(repo ports.FavoritesRepository) *FavoritesService {
	return &FavoritesService{repo: repo}
}

func (s *FavoritesService) List(ctx context.Context) ([]domain.PostID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return ids, nil
}

func (s *FavoritesService) IsFavorite(ctx context.Context, id domain.PostID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list favorites: %w", err)
	}
	return contains(ids, id), nil
}

// Add appends the id unless it is already present. It reports whether the
// list changed.
func (s *FavoritesService) Add(ctx context.Context, id domain.PostID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list favorites: %w", err)
	}
	if contains(ids, id) {
		return false, nil
	}

	if err := s.repo.Save(ctx, append(ids, id)); err != nil {
		return false, fmt.Errorf("save favorites: %w", err)
	}
	return true, nil
}

// Remove deletes the id if present. It reports whether the list changed.
func (s *FavoritesService) Remove(ctx context.Context, id domain.PostID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list favorites: %w", err)
	}

	remaining := make([]domain.PostID, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			remaining = append(remaining, existing)
		}
	}
	if len(remaining) == len(ids) {
		return false, nil
	}

	if err := s.repo.Save(ctx, remaining); err != nil {
		return false, fmt.Errorf("save favorites: %w", err)
	}
	return true, nil
}

// Toggle flips the membership of id and reports whether it is a favorite
// afterwards.
func (s *FavoritesService) Toggle(ctx context.Context, id domain.PostID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list favorites: %w", err)
	}

	if !contains(ids, id) {
		if err := s.repo.Save(ctx, append(ids, id)); err != nil {
			return false, fmt.Errorf("save favorites: %w", err)
		}
		return true, nil
	}

	remaining := make([]domain.PostID, 0, len(ids)-1)
	for _, existing := range ids {
		if existing != id {
			remaining = append(remaining, existing)
		}
	}
	if err := s.repo.Save(ctx, remaining); err != nil {
		return false, fmt.Errorf("save favorites: %w", err)
	}
	return false, nil
}

func contains(ids []domain.PostID, id domain.PostID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
