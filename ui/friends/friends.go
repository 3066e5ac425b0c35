package friends

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/ui/common"
)

type Model struct {
	UserId   uuid.UUID
	Friends  []domain.User
	Selected int
	Width    int
	Height   int
}

func InitialModel(userId uuid.UUID, width, height int) Model {
	return Model{
		UserId:  userId,
		Friends: []domain.User{},
		Width:   width,
		Height:  height,
	}
}

func (m Model) Init() tea.Cmd {
	return loadFriends(m.UserId)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case friendsLoadedMsg:
		m.Friends = msg.friends
		if m.Selected >= len(m.Friends) {
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
			if m.Selected < len(m.Friends)-1 {
				m.Selected++
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render(fmt.Sprintf("friends (%d)", len(m.Friends))))
	s.WriteString("\n\n")

	if len(m.Friends) == 0 {
		s.WriteString(common.EmptyStyle.Render("No friends yet. Go mingle!"))
	} else {
		for i, friend := range m.Friends {
			line := friend.Name
			if friend.Bio != "" {
				line = fmt.Sprintf("%s · %s", friend.Name, friend.Bio)
			}
			if i == m.Selected {
				s.WriteString("→ " + common.StatusStyle.Render(line))
			} else {
				s.WriteString("  " + line)
			}
			s.WriteString("\n")
		}
	}

	return s.String()
}

type friendsLoadedMsg struct {
	friends []domain.User
}

func loadFriends(userId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		return friendsLoadedMsg{friends: store.Get().Graph.ReadFriends(userId)}
	}
}
