package ports

import (
	"context"

	"github.com/blogware/blogctl/internal/domain"
)

// FavoritesRepository persists the list of favorited post ids. The list has
// a single logical writer; Save replaces it wholesale.
type FavoritesRepository interface {
	List(ctx context.Context) ([]domain.PostID, error)
	Save(ctx context.Context, ids []domain.PostID) error
}
