// Package session persists the authenticated (token, user) pair across
// runs on top of a local key/value store. Both keys are present and intact
// or the pair does not exist: any half-written or corrupt state is cleared
// on sight and reported as absent.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/blogware/blogctl/internal/domain"
	"github.com/blogware/blogctl/internal/ports"
)

const (
	tokenKey = "auth_token"
	userKey  = "auth_user"
)

// KV is the slice of the local state store the session store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

type userRecord struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type Store struct {
	kv KV
}

var _ ports.SessionStore = (*Store)(nil)

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Save writes both keys. Any write failure clears both keys, so the store
// never holds a token without a user record or keeps a stale pair after a
// failed overwrite.
func (s *Store) Save(ctx context.Context, token string, user domain.User) error {
	record, err := json.Marshal(userRecord{
		ID:        int64(user.ID),
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	})
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}

	if err := s.kv.Set(ctx, tokenKey, token); err != nil {
		if clearErr := s.Clear(ctx); clearErr != nil {
			return fmt.Errorf("store auth token: %w", errors.Join(err, clearErr))
		}
		return fmt.Errorf("store auth token: %w", err)
	}

	if err := s.kv.Set(ctx, userKey, string(record)); err != nil {
		if clearErr := s.Clear(ctx); clearErr != nil {
			return fmt.Errorf("store user record: %w", errors.Join(err, clearErr))
		}
		return fmt.Errorf("store user record: %w", err)
	}

	return nil
}

// Load returns the stored session, or domain.ErrSessionNotFound when either
// key is missing, the user record does not parse, or the record lacks an id
// or email. Every failure path clears both keys as a side effect.
func (s *Store) Load(ctx context.Context) (domain.Session, error) {
	token, err := s.kv.Get(ctx, tokenKey)
	if err != nil {
		return s.discard(ctx, fmt.Errorf("load auth token: %w", err))
	}

	rawUser, err := s.kv.Get(ctx, userKey)
	if err != nil {
		return s.discard(ctx, fmt.Errorf("load user record: %w", err))
	}

	var record userRecord
	if err := json.Unmarshal([]byte(rawUser), &record); err != nil {
		return s.discard(ctx, fmt.Errorf("decode user record: %w", err))
	}

	session := domain.Session{
		Token: token,
		User: &domain.User{
			ID:        domain.UserID(record.ID),
			Email:     record.Email,
			Name:      record.Name,
			AvatarURL: record.AvatarURL,
		},
	}
	if record.ID == 0 || strings.TrimSpace(record.Email) == "" || strings.TrimSpace(token) == "" {
		return s.discard(ctx, domain.ErrInvalidSession)
	}

	return session, nil
}

// Clear removes both keys unconditionally and is safe to call repeatedly.
func (s *Store) Clear(ctx context.Context) error {
	tokenErr := s.kv.Delete(ctx, tokenKey)
	userErr := s.kv.Delete(ctx, userKey)
	if tokenErr != nil || userErr != nil {
		return fmt.Errorf("clear stored session: %w", errors.Join(tokenErr, userErr))
	}

	return nil
}

func (s *Store) discard(ctx context.Context, cause error) (domain.Session, error) {
	_ = s.Clear(ctx)
	return domain.Session{}, fmt.Errorf("%w: %w", domain.ErrSessionNotFound, cause)
}
