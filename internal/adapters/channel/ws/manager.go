// Package ws maintains the realtime notification channel: a single
// websocket connection to the blog backend, authenticated by the session
// token at dial time. Connection failures are never returned to callers;
// they surface only as handler transitions, and reconnection on token
// change is the caller's job.
package ws

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/blogware/blogctl/internal/ports"
)

const (
	handshakeTimeout = 10 * time.Second
	pongWait         = 60 * time.Second
	pingInterval     = 30 * time.Second
	writeWait        = 10 * time.Second
)

const eventNewNotification = "new_notification"

type Manager struct {
	socketURL string
	dialer    *websocket.Dialer
	log       zerolog.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	token     string
	connected bool
	stop      chan struct{}

	handlerMu sync.RWMutex
	handlers  ports.ChannelHandlers

	queueMu sync.Mutex
	queue   []func(ports.ChannelHandlers)
	wake    chan struct{}
}

var _ ports.Channel = (*Manager)(nil)

func NewManager(socketURL string, log zerolog.Logger) *Manager {
	m := &Manager{
		socketURL: socketURL,
		dialer:    &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		log:       log.With().Str("component", "channel").Logger(),
		wake:      make(chan struct{}, 1),
	}
	go m.emitLoop()
	return m
}

func (m *Manager) SetHandlers(handlers ports.ChannelHandlers) {
	m.handlerMu.Lock()
	defer m.handlerMu.Unlock()
	m.handlers = handlers
}

// Connect is a no-op when a live connection already carries an equal token.
// For a different token the previous connection is fully closed first, so
// two live connections never coexist.
func (m *Manager) Connect(ctx context.Context, token string) {
	m.mu.Lock()

	if m.conn != nil && m.token == token {
		m.mu.Unlock()
		return
	}
	m.closeCurrentLocked()
	m.token = token

	dialURL, err := m.dialURL(token)
	if err != nil {
		m.enqueue(func(h ports.ChannelHandlers) { call(h.OnConnectError) })
		m.mu.Unlock()
		m.log.Error().Err(err).Msg("invalid socket url")
		return
	}

	conn, resp, err := m.dialer.DialContext(ctx, dialURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		m.enqueue(func(h ports.ChannelHandlers) { call(h.OnConnectError) })
		m.mu.Unlock()
		m.log.Debug().Err(err).Msg("dial failed")
		return
	}

	stop := make(chan struct{})
	m.conn = conn
	m.connected = true
	m.stop = stop
	m.enqueue(func(h ports.ChannelHandlers) { call(h.OnConnected) })
	m.mu.Unlock()

	go m.readPump(conn)
	go m.pingLoop(conn, stop)

	m.log.Debug().Msg("connected")
}

// Disconnect closes the active connection if present and is idempotent.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	hadConn := m.conn != nil || m.connected
	m.closeCurrentLocked()
	m.token = ""
	if hadConn {
		m.enqueue(func(h ports.ChannelHandlers) { call(h.OnDisconnected) })
	}
	m.mu.Unlock()

	if hadConn {
		m.log.Debug().Msg("disconnected")
	}
}

func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *Manager) dialURL(token string) (string, error) {
	parsed, err := url.Parse(m.socketURL)
	if err != nil {
		return "", err
	}

	query := parsed.Query()
	query.Set("token", token)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

// closeCurrentLocked nulls the owned connection reference before closing
// the transport, so the read pump observes the handoff and stays silent.
func (m *Manager) closeCurrentLocked() {
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
	if m.conn != nil {
		conn := m.conn
		m.conn = nil
		_ = conn.Close()
	}
	m.connected = false
}

func (m *Manager) readPump(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.mu.Lock()
			current := m.conn == conn
			if current {
				m.conn = nil
				m.connected = false
				// A deliberate close already reported its own transition.
				m.enqueue(func(h ports.ChannelHandlers) { call(h.OnDisconnected) })
			}
			m.mu.Unlock()

			if current {
				m.log.Debug().Err(err).Msg("read failed")
			}
			return
		}

		m.handleMessage(data)
	}
}

func (m *Manager) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type notificationWire struct {
	Message   string `json:"message"`
	PostID    flexID `json:"postId"`
	CommentID int64  `json:"commentId"`
	Timestamp string `json:"timestamp"`
}

func (m *Manager) handleMessage(data []byte) {
	var msg envelope
	if err := json.Unmarshal(data, &msg); err != nil {
		m.log.Debug().Err(err).Msg("unparsable message")
		return
	}

	switch msg.Event {
	case eventNewNotification:
		var wire notificationWire
		if err := json.Unmarshal(msg.Data, &wire); err != nil {
			m.log.Debug().Err(err).Msg("unparsable notification payload")
			return
		}
		m.enqueue(func(h ports.ChannelHandlers) {
			if h.OnNotification != nil {
				h.OnNotification(ports.NotificationEvent{
					Message:   wire.Message,
					PostID:    string(wire.PostID),
					CommentID: wire.CommentID,
					Timestamp: wire.Timestamp,
				})
			}
		})
	default:
		m.log.Debug().Str("event", msg.Event).Msg("ignoring unknown event")
	}
}

// enqueue appends fn to the ordered delivery queue. Callers enqueue inside
// the same critical section that changes connection state, so handlers
// observe transitions in the order they happened. enqueue never blocks and
// is safe while holding m.mu.
func (m *Manager) enqueue(fn func(ports.ChannelHandlers)) {
	m.queueMu.Lock()
	m.queue = append(m.queue, fn)
	m.queueMu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// emitLoop is the only goroutine that invokes handlers, preserving queue
// order across concurrent Connect/Disconnect callers and read pumps.
func (m *Manager) emitLoop() {
	for range m.wake {
		for {
			m.queueMu.Lock()
			if len(m.queue) == 0 {
				m.queueMu.Unlock()
				break
			}
			fn := m.queue[0]
			m.queue = m.queue[1:]
			m.queueMu.Unlock()

			m.handlerMu.RLock()
			handlers := m.handlers
			m.handlerMu.RUnlock()
			fn(handlers)
		}
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// flexID accepts either a JSON string or number, the two shapes the server
// uses for post identifiers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*f = flexID(asString)
		return nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	*f = flexID(asNumber.String())
	return nil
}
