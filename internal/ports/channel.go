package ports

import "context"

// NotificationEvent is an inbound push event as delivered by the channel.
// The channel does not interpret it; timestamps stay raw wire strings.
type NotificationEvent struct {
	Message   string
	PostID    string
	CommentID int64
	Timestamp string
}

// ChannelHandlers receive connection transitions and inbound events.
// A connect error is a recoverable condition and is treated like a
// disconnect for state purposes.
type ChannelHandlers struct {
	OnConnected    func()
	OnDisconnected func()
	OnConnectError func()
	OnNotification func(NotificationEvent)
}

// Channel maintains zero-or-one live push connection authenticated by the
// current token. Connect never returns an error: failures are reported
// only through the registered handlers.
type Channel interface {
	SetHandlers(handlers ChannelHandlers)
	Connect(ctx context.Context, token string)
	Disconnect()
	Connected() bool
}
