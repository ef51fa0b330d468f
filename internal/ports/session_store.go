package ports

import (
	"context"

	"github.com/blogware/blogctl/internal/domain"
)

// SessionStore persists the (token, user) pair between runs. Load returns
// domain.ErrSessionNotFound when no intact pair is stored; a corrupt pair
// is cleared as a side effect and reported the same way.
type SessionStore interface {
	Save(ctx context.Context, token string, user domain.User) error
	Load(ctx context.Context) (domain.Session, error)
	Clear(ctx context.Context) error
}
