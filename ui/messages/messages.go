package messages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/ui/common"
	"github.com/minglehq/mingle/util"
)

type Model struct {
	UserId        uuid.UUID
	Conversations []domain.Conversation
	Names         map[uuid.UUID]string
	Selected      int
	Input         textinput.Model
	Width         int
	Height        int
}

func InitialModel(userId uuid.UUID, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "write a message, enter to send"
	ti.CharLimit = 500
	ti.Width = 50
	ti.Focus()

	return Model{
		UserId:        userId,
		Conversations: []domain.Conversation{},
		Names:         make(map[uuid.UUID]string),
		Input:         ti,
		Width:         width,
		Height:        height,
	}
}

func (m Model) Init() tea.Cmd {
	return loadConversations(m.UserId)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case conversationsLoadedMsg:
		m.Conversations = msg.conversations
		m.Names = msg.names
		if m.Selected >= len(m.Conversations) {
			m.Selected = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			if m.Selected > 0 {
				m.Selected--
			}
			return m, nil
		case "down":
			if m.Selected < len(m.Conversations)-1 {
				m.Selected++
			}
			return m, nil
		case "enter":
			if len(m.Conversations) == 0 {
				return m, nil
			}
			text := util.NormalizeInput(m.Input.Value())
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			conversation := m.Conversations[m.Selected]
			m.Input.SetValue("")
			return m, sendMessageCmd(m.UserId, conversation.Id, text)
		}
	}

	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render(fmt.Sprintf("messages (%d)", len(m.Conversations))))
	s.WriteString("\n\n")

	if len(m.Conversations) == 0 {
		s.WriteString(common.EmptyStyle.Render("No conversations yet. Make some friends first!"))
		s.WriteString("\n")
		return s.String()
	}

	for i, conversation := range m.Conversations {
		name := m.otherName(&conversation)
		line := fmt.Sprintf("%s · %s", name, conversation.LastMessage)
		if i == m.Selected {
			s.WriteString("→ " + common.StatusStyle.Render(line))
		} else {
			s.WriteString("  " + line)
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")

	selected := m.Conversations[m.Selected]
	for _, message := range selected.Messages {
		sender := "you"
		if message.SenderId != m.UserId {
			sender = m.Names[message.SenderId]
		}
		s.WriteString(fmt.Sprintf("  %s: %s · %s\n",
			sender, message.Text, util.RelativeTime(message.CreatedAt)))
	}

	s.WriteString("\n")
	s.WriteString(m.Input.View())
	s.WriteString("\n")

	return s.String()
}

func (m Model) otherName(conversation *domain.Conversation) string {
	otherId := conversation.OtherParticipant(m.UserId)
	if name, ok := m.Names[otherId]; ok {
		return name
	}
	return "someone"
}

type conversationsLoadedMsg struct {
	conversations []domain.Conversation
	names         map[uuid.UUID]string
}

func loadConversations(userId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		app := store.Get()

		conversations := app.Conversations.ReadConversationsFor(userId)
		names := make(map[uuid.UUID]string)
		for _, user := range app.Graph.ReadAllUsers() {
			names[user.Id] = user.Name
		}
		return conversationsLoadedMsg{conversations: conversations, names: names}
	}
}

func sendMessageCmd(userId uuid.UUID, conversationId, text string) tea.Cmd {
	return func() tea.Msg {
		app := store.Get()
		if err := app.Conversations.SendMessage(conversationId, userId, text); err != nil {
			return nil
		}
		return loadConversations(userId)()
	}
}
