package notifications

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/ui/common"
	"github.com/minglehq/mingle/util"
)

var unreadStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color(common.COLOR_YELLOW)).
	Bold(true)

type Model struct {
	UserId        uuid.UUID
	Notifications []domain.Notification
	Unread        int
	Selected      int
	Width         int
	Height        int
}

func InitialModel(userId uuid.UUID, width, height int) Model {
	return Model{
		UserId:        userId,
		Notifications: []domain.Notification{},
		Width:         width,
		Height:        height,
	}
}

func (m Model) Init() tea.Cmd {
	return loadNotifications(m.UserId)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationsLoadedMsg:
		m.Notifications = msg.notifications
		m.Unread = msg.unread
		if m.Selected >= len(m.Notifications) {
			m.Selected = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.Selected > 0 {
				m.Selected--
			}
		case "down", "j":
			if m.Selected < len(m.Notifications)-1 {
				m.Selected++
			}
		case "enter", "r":
			if len(m.Notifications) == 0 {
				return m, nil
			}
			return m, markReadCmd(m.UserId, m.Notifications[m.Selected].Id)
		case "a":
			return m, markAllReadCmd(m.UserId)
		case "d":
			if len(m.Notifications) == 0 {
				return m, nil
			}
			return m, removeCmd(m.UserId, m.Notifications[m.Selected].Id)
		case "c":
			return m, clearAllCmd(m.UserId)
		}
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render(fmt.Sprintf("notifications (%d unread)", m.Unread)))
	s.WriteString("\n\n")

	if len(m.Notifications) == 0 {
		s.WriteString(common.EmptyStyle.Render("You're all caught up."))
		s.WriteString("\n")
		return s.String()
	}

	for i, notification := range m.Notifications {
		line := fmt.Sprintf("%s %s · %s",
			notification.ActorName,
			notification.Message,
			util.RelativeTime(notification.CreatedAt))

		marker := "  "
		if i == m.Selected {
			marker = "→ "
		}
		if !notification.Read {
			s.WriteString(marker + unreadStyle.Render("● "+line))
		} else if i == m.Selected {
			s.WriteString(marker + common.StatusStyle.Render(line))
		} else {
			s.WriteString(marker + line)
		}
		s.WriteString("\n")
	}

	return s.String()
}

type notificationsLoadedMsg struct {
	notifications []domain.Notification
	unread        int
}

func loadNotifications(userId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		app := store.Get()
		return notificationsLoadedMsg{
			notifications: app.Notifications.ReadAll(userId),
			unread:        app.Notifications.UnreadCount(userId),
		}
	}
}

func markReadCmd(userId, notificationId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		store.Get().Notifications.MarkRead(userId, notificationId)
		return loadNotifications(userId)()
	}
}

func markAllReadCmd(userId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		store.Get().Notifications.MarkAllRead(userId)
		return loadNotifications(userId)()
	}
}

func removeCmd(userId, notificationId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		store.Get().Notifications.Remove(userId, notificationId)
		return loadNotifications(userId)()
	}
}

func clearAllCmd(userId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		store.Get().Notifications.ClearAll(userId)
		return loadNotifications(userId)()
	}
}
