// Package auth handles the OAuth redirect leg of login: extracting the
// token the server appends to the callback URL and decoding the identity
// claims embedded in it. The token is server-issued and used as an opaque
// credential afterwards; claims are read without signature verification,
// the same way the browser client treats them.
package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blogware/blogctl/internal/domain"
)

var (
	ErrMissingToken = errors.New("callback token is missing")
	ErrInvalidToken = errors.New("callback token is invalid")
)

type identityClaims struct {
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	jwt.RegisteredClaims
}

// TokenFromRedirect pulls the token query parameter out of a redirect URL.
func TokenFromRedirect(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse redirect url: %w", err)
	}

	token := parsed.Query().Get("token")
	if strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}

	return token, nil
}

// DecodeIdentityToken extracts the user identity carried in the redirect
// token. A token that does not decode, or that lacks an id or email, is
// rejected.
func DecodeIdentityToken(token string) (domain.User, error) {
	claims := &identityClaims{}
	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.UserID == 0 || strings.TrimSpace(claims.Email) == "" {
		return domain.User{}, fmt.Errorf("%w: payload misses user id or email", ErrInvalidToken)
	}

	return domain.User{
		ID:        domain.UserID(claims.UserID),
		Email:     claims.Email,
		Name:      claims.Name,
		AvatarURL: claims.AvatarURL,
	}, nil
}
