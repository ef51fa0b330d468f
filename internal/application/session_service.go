package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blogware/blogctl/internal/domain"
	"github.com/blogware/blogctl/internal/logging"
	"github.com/blogware/blogctl/internal/ports"
)

// SessionService owns the authentication lifecycle and the notification
// feed. Every state transition happens under one mutex so the persisted
// session, the live channel, and the feed can never disagree about whether
// the client is authenticated.
type SessionService struct {
	store   ports.SessionStore
	channel ports.Channel
	clock   ports.Clock

	mu        sync.Mutex
	session   domain.Session
	feed      domain.NotificationFeed
	loading   bool
	connected bool

	subMu       sync.Mutex
	subscribers map[int]chan domain.Notification
	nextSubID   int

	closeOnce sync.Once
}

func NewSessionService(store ports.SessionStore, channel ports.Channel, clock ports.Clock) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	s := &SessionService{
		store:       store,
		channel:     channel,
		clock:       clock,
		loading:     true,
		subscribers: make(map[int]chan domain.Notification),
	}

	channel.SetHandlers(ports.ChannelHandlers{
		OnConnected:    s.handleConnected,
		OnDisconnected: s.handleDisconnected,
		OnConnectError: s.handleDisconnected,
		OnNotification: s.handleNotification,
	})

	return s
}

// Start restores any persisted session and, when one is intact, opens the
// push channel for it. The loading flag drops exactly once, whatever the
// restore outcome.
func (s *SessionService) Start(ctx context.Context) error {
	session, err := s.store.Load(ctx)

	s.mu.Lock()
	s.loading = false
	if err == nil {
		s.session = session
	}
	token := s.session.Token
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("restore session: %w", err)
	}

	s.channel.Connect(ctx, token)
	return nil
}

// Login establishes a new authenticated session. An incomplete identity is
// never stored: validation failure resolves to a full logout instead.
func (s *SessionService) Login(ctx context.Context, token string, user domain.User) error {
	candidate := domain.Session{Token: token, User: &user}
	if err := candidate.Validate(); err != nil {
		logging.Warn().Err(err).Msg("rejecting login with incomplete identity")
		if logoutErr := s.Logout(ctx); logoutErr != nil {
			return fmt.Errorf("logout after invalid login: %w", errors.Join(err, logoutErr))
		}
		return err
	}

	if err := s.store.Save(ctx, token, user); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.session = candidate
	s.mu.Unlock()

	s.channel.Connect(ctx, token)
	return nil
}

// Logout tears everything down: the channel closes, the stored pair is
// removed, and the feed empties. It is safe to call when already logged
// out.
func (s *SessionService) Logout(ctx context.Context) error {
	s.channel.Disconnect()

	s.mu.Lock()
	s.session = domain.Session{}
	s.feed.Clear()
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}

	return nil
}

func (s *SessionService) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clone()
}

func (s *SessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

func (s *SessionService) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Authenticated()
}

func (s *SessionService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *SessionService) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *SessionService) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.Items()
}

func (s *SessionService) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.Unread()
}

func (s *SessionService) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed.MarkAllRead()
}

func (s *SessionService) ClearNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed.Clear()
}

// SubscribeNotifications returns a channel that receives every notification
// accepted into the feed from this point on, plus a release function that
// must be called when the subscriber is done. Slow subscribers drop
// deliveries rather than block the feed.
func (s *SessionService) SubscribeNotifications() (<-chan domain.Notification, func()) {
	ch := make(chan domain.Notification, 16)

	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.subMu.Unlock()

	release := func() {
		s.subMu.Lock()
		if existing, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(existing)
		}
		s.subMu.Unlock()
	}

	return ch, release
}

// Close disconnects the channel and releases every subscriber. The service
// is unusable afterwards.
func (s *SessionService) Close() {
	s.closeOnce.Do(func() {
		s.channel.Disconnect()

		s.subMu.Lock()
		for id, ch := range s.subscribers {
			delete(s.subscribers, id)
			close(ch)
		}
		s.subMu.Unlock()
	})
}

func (s *SessionService) handleConnected() {
	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()

	logging.Debug().Msg("notification channel connected")
}

func (s *SessionService) handleDisconnected() {
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()

	logging.Debug().Msg("notification channel disconnected")
}

func (s *SessionService) handleNotification(event ports.NotificationEvent) {
	s.mu.Lock()
	if !s.session.Authenticated() {
		s.mu.Unlock()
		logging.Debug().Msg("dropping notification received while logged out")
		return
	}

	notification := domain.Notification{
		ID:        uuid.NewString(),
		Message:   event.Message,
		PostID:    domain.PostID(event.PostID),
		CommentID: event.CommentID,
		Timestamp: s.parseTimestamp(event.Timestamp),
	}
	s.feed.Push(notification)
	s.mu.Unlock()

	s.broadcast(notification)
}

func (s *SessionService) parseTimestamp(raw string) time.Time {
	if raw == "" {
		return s.clock.Now()
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return s.clock.Now()
	}
	return ts
}

func (s *SessionService) broadcast(n domain.Notification) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- n:
		default:
		}
	}
}
