package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogware/blogctl/internal/ports"
)

type channelServer struct {
	*httptest.Server
	dials  atomic.Int64
	tokens chan string
	conns  chan *websocket.Conn
}

func newChannelServer(t *testing.T) *channelServer {
	t.Helper()

	srv := &channelServer{
		tokens: make(chan string, 8),
		conns:  make(chan *websocket.Conn, 8),
	}

	upgrader := websocket.Upgrader{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		srv.dials.Add(1)
		srv.tokens <- r.URL.Query().Get("token")
		srv.conns <- conn
	}))
	t.Cleanup(srv.Close)

	return srv
}

func (s *channelServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func waitSignal(t *testing.T, ch <-chan struct{}, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s: timed out", msg)
	}
}

func TestConnectIsIdempotentForEqualToken(t *testing.T) {
	srv := newChannelServer(t)
	manager := NewManager(srv.wsURL(), zerolog.Nop())

	manager.Connect(context.Background(), "T1")
	manager.Connect(context.Background(), "T1")
	defer manager.Disconnect()

	assert.True(t, manager.Connected())
	assert.Equal(t, int64(1), srv.dials.Load())
	assert.Equal(t, "T1", <-srv.tokens)
}

func TestConnectWithNewTokenReplacesConnection(t *testing.T) {
	srv := newChannelServer(t)
	manager := NewManager(srv.wsURL(), zerolog.Nop())

	manager.Connect(context.Background(), "T1")
	first := <-srv.conns

	manager.Connect(context.Background(), "T2")
	defer manager.Disconnect()

	assert.Equal(t, int64(2), srv.dials.Load())
	assert.Equal(t, "T1", <-srv.tokens)
	assert.Equal(t, "T2", <-srv.tokens)

	// The first connection must be closed before the second is live.
	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := first.ReadMessage()
	require.Error(t, err)
	assert.True(t, manager.Connected())
}

func TestConnectFailureEmitsConnectErrorNotPanic(t *testing.T) {
	manager := NewManager("ws://127.0.0.1:1/socket", zerolog.Nop())

	connectErr := make(chan struct{}, 1)
	manager.SetHandlers(ports.ChannelHandlers{
		OnConnectError: func() { connectErr <- struct{}{} },
	})

	manager.Connect(context.Background(), "T1")

	waitSignal(t, connectErr, "connect_error transition")
	assert.False(t, manager.Connected())
}

func TestInboundNotificationReachesHandler(t *testing.T) {
	srv := newChannelServer(t)
	manager := NewManager(srv.wsURL(), zerolog.Nop())

	received := make(chan ports.NotificationEvent, 1)
	manager.SetHandlers(ports.ChannelHandlers{
		OnNotification: func(ev ports.NotificationEvent) { received <- ev },
	})

	manager.Connect(context.Background(), "T1")
	defer manager.Disconnect()

	conn := <-srv.conns
	payload := `{"event":"new_notification","data":{"message":"New comment on your post","postId":7,"commentId":12,"timestamp":"2026-03-01T10:00:00Z"}}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))

	select {
	case ev := <-received:
		assert.Equal(t, "New comment on your post", ev.Message)
		assert.Equal(t, "7", ev.PostID)
		assert.Equal(t, int64(12), ev.CommentID)
		assert.Equal(t, "2026-03-01T10:00:00Z", ev.Timestamp)
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestUnknownEventsAreIgnored(t *testing.T) {
	srv := newChannelServer(t)
	manager := NewManager(srv.wsURL(), zerolog.Nop())

	received := make(chan ports.NotificationEvent, 1)
	manager.SetHandlers(ports.ChannelHandlers{
		OnNotification: func(ev ports.NotificationEvent) { received <- ev },
	})

	manager.Connect(context.Background(), "T1")
	defer manager.Disconnect()

	conn := <-srv.conns
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"presence","data":{}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))

	select {
	case <-received:
		t.Fatal("unexpected notification for unknown event")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestServerCloseEmitsDisconnected(t *testing.T) {
	srv := newChannelServer(t)
	manager := NewManager(srv.wsURL(), zerolog.Nop())

	disconnected := make(chan struct{}, 1)
	manager.SetHandlers(ports.ChannelHandlers{
		OnDisconnected: func() { disconnected <- struct{}{} },
	})

	manager.Connect(context.Background(), "T1")
	conn := <-srv.conns
	_ = conn.Close()

	waitSignal(t, disconnected, "disconnected transition")
	assert.False(t, manager.Connected())
}

func TestDisconnectIsIdempotent(t *testing.T) {
	srv := newChannelServer(t)
	manager := NewManager(srv.wsURL(), zerolog.Nop())

	disconnected := make(chan struct{}, 4)
	manager.SetHandlers(ports.ChannelHandlers{
		OnDisconnected: func() { disconnected <- struct{}{} },
	})

	manager.Connect(context.Background(), "T1")
	manager.Disconnect()
	manager.Disconnect()

	assert.False(t, manager.Connected())
	waitSignal(t, disconnected, "disconnected transition")

	select {
	case <-disconnected:
		t.Fatal("second Disconnect emitted a duplicate transition")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestTransitionsDeliverInStateOrder(t *testing.T) {
	srv := newChannelServer(t)
	manager := NewManager(srv.wsURL(), zerolog.Nop())

	events := make(chan string, 64)
	manager.SetHandlers(ports.ChannelHandlers{
		OnConnected:    func() { events <- "connected" },
		OnDisconnected: func() { events <- "disconnected" },
		OnConnectError: func() { events <- "connect_error" },
	})

	const cycles = 4
	for i := 0; i < cycles; i++ {
		manager.Connect(context.Background(), "T1")
		manager.Disconnect()
	}

	got := make([]string, 0, 2*cycles)
	timeout := time.After(2 * time.Second)
	for len(got) < 2*cycles {
		select {
		case ev := <-events:
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("timed out after %d transitions: %v", len(got), got)
		}
	}

	for i, ev := range got {
		want := "connected"
		if i%2 == 1 {
			want = "disconnected"
		}
		assert.Equalf(t, want, ev, "transition %d out of order: %v", i, got)
	}
	assert.False(t, manager.Connected())
}

func TestFlexIDAcceptsStringAndNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "number", raw: `7`, want: "7"},
		{name: "string", raw: `"abc-7"`, want: "abc-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id flexID
			require.NoError(t, id.UnmarshalJSON([]byte(tt.raw)))
			assert.Equal(t, tt.want, string(id))
		})
	}
}
