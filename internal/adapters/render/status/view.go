package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/blogware/blogctl/internal/domain"
)

type RenderOptions struct {
	Now time.Time
	// MaxNotifications truncates the feed section; zero shows everything.
	MaxNotifications int
}

// State is the snapshot rendered by the status view.
type State struct {
	Session       domain.Session
	Loading       bool
	Connected     bool
	Notifications []domain.Notification
	Favorites     int
}

func renderView(state State, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Blog Session"),
	}

	if state.Loading {
		lines = append(lines, s.empty.Render("Restoring session..."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, renderIdentity(state, s)...)
	lines = append(lines, s.section.Render(renderFeed(state, opts, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderIdentity(state State, s styles) []string {
	if !state.Session.Authenticated() {
		return []string{s.empty.Render("Not signed in. Run `blogctl login` to authenticate.")}
	}

	user := state.Session.User
	lines := []string{
		s.identity.Render(identityTitle(user)),
		s.detail.Render(fmt.Sprintf("favorites: %d", state.Favorites)),
	}

	if state.Connected {
		lines = append(lines, s.online.Render("notifications: live"))
	} else {
		lines = append(lines, s.offline.Render("notifications: offline"))
	}

	return lines
}

func identityTitle(user *domain.User) string {
	name := strings.TrimSpace(user.Name)
	if name == "" {
		return fmt.Sprintf("Signed in as %s", user.Email)
	}
	return fmt.Sprintf("Signed in as %s <%s>", name, user.Email)
}

func renderFeed(state State, opts RenderOptions, s styles) string {
	unread := 0
	for _, n := range state.Notifications {
		if !n.Read {
			unread++
		}
	}

	parts := []string{
		s.header.Render(fmt.Sprintf("notifications: %d (%d unread)", len(state.Notifications), unread)),
	}

	if len(state.Notifications) == 0 {
		parts = append(parts, s.empty.Render("No notifications."))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	shown := state.Notifications
	if opts.MaxNotifications > 0 && len(shown) > opts.MaxNotifications {
		shown = shown[:opts.MaxNotifications]
	}

	for _, n := range shown {
		parts = append(parts, notificationLine(n, opts.Now, s))
	}

	if hidden := len(state.Notifications) - len(shown); hidden > 0 {
		parts = append(parts, s.empty.Render(fmt.Sprintf("... and %d more", hidden)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func notificationLine(n domain.Notification, now time.Time, s styles) string {
	marker := "  "
	if !n.Read {
		marker = s.unreadDot.Render("* ")
	}

	meta := s.meta.Render(fmt.Sprintf("(%s)", formatAge(n.Timestamp, now)))

	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		marker,
		s.message.Render(n.Message),
		" ",
		meta,
	)

	if n.PostID != "" {
		line += " " + s.meta.Render(fmt.Sprintf("post %s", n.PostID))
	}

	return line
}

func formatAge(ts, now time.Time) string {
	if ts.IsZero() {
		return "unknown"
	}
	if now.IsZero() || ts.After(now) {
		return ts.Format("15:04 on 02 Jan")
	}

	elapsed := now.Sub(ts)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		minutes := int(math.Floor(elapsed.Minutes()))
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case elapsed < 24*time.Hour:
		hours := int(math.Floor(elapsed.Hours()))
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return ts.Format("15:04 on 02 Jan")
	}
}
