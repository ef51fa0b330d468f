package domain

import (
	"fmt"
	"strings"
)

type UserID int64

type User struct {
	ID        UserID
	Email     string
	Name      string
	AvatarURL string
}

// Session is the client's record of the current authenticated identity.
// Token and User are either both set or both absent.
type Session struct {
	Token string
	User  *User
}

func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidSession)
	}
	if s.User == nil {
		return fmt.Errorf("%w: user is required", ErrInvalidSession)
	}
	if s.User.ID == 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidSession)
	}
	if strings.TrimSpace(s.User.Email) == "" {
		return fmt.Errorf("%w: user email is required", ErrInvalidSession)
	}

	return nil
}

// Clone returns a copy that shares no pointers with the receiver, so a
// caller can hand it out without exposing the owned user record.
func (s Session) Clone() Session {
	if s.User == nil {
		return Session{Token: s.Token}
	}

	user := *s.User
	return Session{Token: s.Token, User: &user}
}
