package members

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/ui/common"
)

type Model struct {
	UserId   uuid.UUID
	Users    []domain.User
	Friends  map[uuid.UUID]bool
	Pending  map[uuid.UUID]bool
	Selected int
	Width    int
	Height   int
	Status   string
	Error    string
}

func InitialModel(userId uuid.UUID, width, height int) Model {
	return Model{
		UserId:  userId,
		Users:   []domain.User{},
		Friends: make(map[uuid.UUID]bool),
		Pending: make(map[uuid.UUID]bool),
		Width:   width,
		Height:  height,
	}
}

func (m Model) Init() tea.Cmd {
	return loadMembers(m.UserId)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case membersLoadedMsg:
		m.Users = msg.users
		m.Friends = msg.friends
		m.Pending = msg.pending
		return m, nil

	case clearStatusMsg:
		m.Status = ""
		m.Error = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.Selected > 0 {
				m.Selected--
			}
		case "down", "j":
			maxSelection := 0
			for _, user := range m.Users {
				if user.Id != m.UserId {
					maxSelection++
				}
			}
			if m.Selected < maxSelection-1 {
				m.Selected++
			}
		case "enter", "f":
			selected := m.selectedUser()
			if selected == nil {
				return m, nil
			}
			if m.Friends[selected.Id] {
				m.Status = fmt.Sprintf("Already friends with %s", selected.Name)
				return m, clearStatusAfter(2 * time.Second)
			}
			if m.Pending[selected.Id] {
				m.Status = fmt.Sprintf("Request to %s already pending", selected.Name)
				return m, clearStatusAfter(2 * time.Second)
			}

			m.Pending[selected.Id] = true
			m.Status = fmt.Sprintf("Friend request sent to %s", selected.Name)
			m.Error = ""
			return m, tea.Batch(
				sendRequestCmd(m.UserId, selected.Id),
				clearStatusAfter(2*time.Second),
			)
		}
	}
	return m, nil
}

// selectedUser maps the display position back onto the user list,
// skipping the signed-in user.
func (m Model) selectedUser() *domain.User {
	displayIndex := 0
	for i := range m.Users {
		if m.Users[i].Id == m.UserId {
			continue
		}
		if displayIndex == m.Selected {
			return &m.Users[i]
		}
		displayIndex++
	}
	return nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render(fmt.Sprintf("people (%d)", len(m.Users))))
	s.WriteString("\n\n")

	if len(m.Users) == 0 {
		s.WriteString(common.EmptyStyle.Render("Nobody else has joined yet."))
	} else {
		for _, user := range m.Users {
			if user.Id == m.UserId {
				s.WriteString("  " + fmt.Sprintf("%s (you)", user.Name))
				s.WriteString("\n")
				break
			}
		}

		displayIndex := 0
		for _, user := range m.Users {
			if user.Id == m.UserId {
				continue
			}

			status := ""
			if m.Friends[user.Id] {
				status = " [friend]"
			} else if m.Pending[user.Id] {
				status = " [pending]"
			}

			line := fmt.Sprintf("%s%s", user.Name, status)
			if displayIndex == m.Selected {
				s.WriteString("→ " + common.StatusStyle.Render(line))
			} else {
				s.WriteString("  " + line)
			}
			s.WriteString("\n")
			displayIndex++
		}
	}

	s.WriteString("\n")

	if m.Status != "" {
		s.WriteString(common.StatusStyle.Render(m.Status))
		s.WriteString("\n\n")
	}
	if m.Error != "" {
		s.WriteString(common.ErrorStyle.Render(m.Error))
		s.WriteString("\n\n")
	}

	return s.String()
}

type membersLoadedMsg struct {
	users   []domain.User
	friends map[uuid.UUID]bool
	pending map[uuid.UUID]bool
}

type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func loadMembers(userId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		app := store.Get()

		users := app.Graph.ReadAllUsers()

		friends := make(map[uuid.UUID]bool)
		for _, friend := range app.Graph.ReadFriends(userId) {
			friends[friend.Id] = true
		}

		pending := make(map[uuid.UUID]bool)
		for _, request := range app.Graph.ReadOutgoingRequests(userId) {
			pending[request.ToId] = true
		}
		for _, request := range app.Graph.ReadIncomingRequests(userId) {
			pending[request.FromId] = true
		}

		return membersLoadedMsg{users: users, friends: friends, pending: pending}
	}
}

func sendRequestCmd(fromId, toId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		app := store.Get()
		if err := app.Graph.SendFriendRequest(fromId, toId); err != nil {
			return nil
		}

		if _, actor := app.Graph.ReadUserById(fromId); actor != nil {
			app.Notifications.Notify(toId, domain.NotifyFriendRequest, *actor,
				"sent you a friend request", nil)
		}
		return nil
	}
}
