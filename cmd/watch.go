package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/blogware/blogctl/internal/application"
	"github.com/blogware/blogctl/internal/domain"
)

func newWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Aliases: []string{"notifications"},
		Short:   "Follow notifications live",
		RunE: func(cmd *cobra.Command, _ []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := app.requireAuth(); err != nil {
				return err
			}

			sub, unsubscribe := app.sessions.SubscribeNotifications()
			defer unsubscribe()

			p := tea.NewProgram(
				newWatchModel(app.sessions, sub),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithContext(cmd.Context()),
			)

			_, err = p.Run()
			return err
		},
	}
}

type watchNotificationMsg struct {
	notification domain.Notification
}

type watchFeedClosedMsg struct{}

type watchModel struct {
	sessions *application.SessionService
	sub      <-chan domain.Notification
	spinner  spinner.Model
	styles   watchStyles
	items    []domain.Notification
}

type watchStyles struct {
	title   lipgloss.Style
	online  lipgloss.Style
	offline lipgloss.Style
	unread  lipgloss.Style
	message lipgloss.Style
	meta    lipgloss.Style
	hint    lipgloss.Style
}

func newWatchModel(sessions *application.SessionService, sub <-chan domain.Notification) watchModel {
	// Opening the feed consumes the unread state; arrivals after this
	// point stay unread until the next mark.
	if sessions.UnreadCount() > 0 {
		sessions.MarkAllRead()
	}

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return watchModel{
		sessions: sessions,
		sub:      sub,
		spinner:  s,
		styles: watchStyles{
			title:   lipgloss.NewStyle().Bold(true),
			online:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
			offline: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			unread:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
			message: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			meta:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			hint:    lipgloss.NewStyle().Faint(true),
		},
		items: sessions.Notifications(),
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForNotification())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case watchNotificationMsg:
		m.items = append([]domain.Notification{msg.notification}, m.items...)
		if len(m.items) > domain.FeedCapacity {
			m.items = m.items[:domain.FeedCapacity]
		}
		return m, m.waitForNotification()
	case watchFeedClosedMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "m":
			m.sessions.MarkAllRead()
			m.items = m.sessions.Notifications()
			return m, nil
		case "c":
			m.sessions.ClearNotifications()
			m.items = nil
			return m, nil
		}
	}

	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Notifications"))
	b.WriteString("\n")

	if m.sessions.Connected() {
		b.WriteString(m.styles.online.Render("live"))
	} else {
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), m.styles.offline.Render("connecting...")))
	}
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(m.styles.meta.Render("Nothing yet."))
		b.WriteString("\n")
	}

	for _, n := range m.items {
		marker := "  "
		if !n.Read {
			marker = m.styles.unread.Render("* ")
		}
		line := marker + m.styles.message.Render(n.Message)
		if n.PostID != "" {
			line += " " + m.styles.meta.Render(fmt.Sprintf("(post %s)", n.PostID))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.hint.Render("m mark read  c clear  q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m watchModel) waitForNotification() tea.Cmd {
	return func() tea.Msg {
		notification, ok := <-m.sub
		if !ok {
			return watchFeedClosedMsg{}
		}
		return watchNotificationMsg{notification: notification}
	}
}

