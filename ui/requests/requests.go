package requests

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/ui/common"
	"github.com/minglehq/mingle/util"
)

type Model struct {
	UserId   uuid.UUID
	Incoming []domain.FriendRequest
	Senders  map[uuid.UUID]string
	Selected int
	Width    int
	Height   int
	Status   string
}

func InitialModel(userId uuid.UUID, width, height int) Model {
	return Model{
		UserId:   userId,
		Incoming: []domain.FriendRequest{},
		Senders:  make(map[uuid.UUID]string),
		Width:    width,
		Height:   height,
	}
}

func (m Model) Init() tea.Cmd {
	return loadRequests(m.UserId)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case requestsLoadedMsg:
		m.Incoming = msg.incoming
		m.Senders = msg.senders
		if m.Selected >= len(m.Incoming) {
			m.Selected = 0
		}
		return m, nil

	case clearStatusMsg:
		m.Status = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.Selected > 0 {
				m.Selected--
			}
		case "down", "j":
			if m.Selected < len(m.Incoming)-1 {
				m.Selected++
			}
		case "enter", "a":
			if len(m.Incoming) == 0 {
				return m, nil
			}
			request := m.Incoming[m.Selected]
			m.Status = fmt.Sprintf("You are now friends with %s", m.Senders[request.FromId])
			return m, tea.Batch(
				acceptRequestCmd(m.UserId, request),
				clearStatusAfter(2*time.Second),
			)
		case "x", "r":
			if len(m.Incoming) == 0 {
				return m, nil
			}
			request := m.Incoming[m.Selected]
			m.Status = "Request declined"
			return m, tea.Batch(
				rejectRequestCmd(m.UserId, request.Id),
				clearStatusAfter(2*time.Second),
			)
		}
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render(fmt.Sprintf("friend requests (%d)", len(m.Incoming))))
	s.WriteString("\n\n")

	if len(m.Incoming) == 0 {
		s.WriteString(common.EmptyStyle.Render("No pending requests."))
	} else {
		for i, request := range m.Incoming {
			name := m.Senders[request.FromId]
			if name == "" {
				name = "someone"
			}
			line := fmt.Sprintf("%s · %s", name, util.RelativeTime(request.CreatedAt))
			if i == m.Selected {
				s.WriteString("→ " + common.StatusStyle.Render(line))
			} else {
				s.WriteString("  " + line)
			}
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")

	if m.Status != "" {
		s.WriteString(common.StatusStyle.Render(m.Status))
		s.WriteString("\n\n")
	}

	return s.String()
}

type requestsLoadedMsg struct {
	incoming []domain.FriendRequest
	senders  map[uuid.UUID]string
}

type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func loadRequests(userId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		app := store.Get()

		incoming := app.Graph.ReadIncomingRequests(userId)
		senders := make(map[uuid.UUID]string)
		for _, request := range incoming {
			if _, sender := app.Graph.ReadUserById(request.FromId); sender != nil {
				senders[request.FromId] = sender.Name
			}
		}
		return requestsLoadedMsg{incoming: incoming, senders: senders}
	}
}

func acceptRequestCmd(userId uuid.UUID, request domain.FriendRequest) tea.Cmd {
	return func() tea.Msg {
		app := store.Get()
		if err := app.Graph.AcceptFriendRequest(request.Id); err != nil {
			return nil
		}

		if _, actor := app.Graph.ReadUserById(userId); actor != nil {
			app.Notifications.Notify(request.FromId, domain.NotifyFriendRequest, *actor,
				"accepted your friend request", nil)
		}
		return loadRequests(userId)()
	}
}

func rejectRequestCmd(userId, requestId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		app := store.Get()
		if err := app.Graph.RejectFriendRequest(requestId); err != nil {
			return nil
		}
		return loadRequests(userId)()
	}
}
