package domain

import "time"

// FeedCapacity bounds the notification feed. Oldest entries are dropped
// once the cap is reached.
const FeedCapacity = 50

type Notification struct {
	ID        string
	Message   string
	PostID    PostID
	CommentID int64
	Timestamp time.Time
	Read      bool
}

// NotificationFeed is an ordered, newest-first collection of notifications.
// The unread counter is recomputed from the collection after every change
// rather than incrementally maintained.
type NotificationFeed struct {
	items  []Notification
	unread int
}

// Push prepends a notification, dropping the oldest entry when the feed is
// at capacity. Arrival order is authoritative; entries are never reordered
// by timestamp.
func (f *NotificationFeed) Push(n Notification) {
	f.items = append([]Notification{n}, f.items...)
	if len(f.items) > FeedCapacity {
		f.items = f.items[:FeedCapacity]
	}
	f.recount()
}

// MarkAllRead transitions every notification to read. Read flags never
// revert, so calling it repeatedly is a no-op after the first call.
func (f *NotificationFeed) MarkAllRead() {
	for i := range f.items {
		f.items[i].Read = true
	}
	f.recount()
}

func (f *NotificationFeed) Clear() {
	f.items = nil
	f.unread = 0
}

func (f *NotificationFeed) Items() []Notification {
	items := make([]Notification, len(f.items))
	copy(items, f.items)
	return items
}

func (f *NotificationFeed) Len() int {
	return len(f.items)
}

func (f *NotificationFeed) Unread() int {
	return f.unread
}

func (f *NotificationFeed) recount() {
	unread := 0
	for i := range f.items {
		if !f.items[i].Read {
			unread++
		}
	}
	f.unread = unread
}
