package ui

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/ui/common"
	"github.com/minglehq/mingle/ui/createuser"
	"github.com/minglehq/mingle/ui/feed"
	"github.com/minglehq/mingle/ui/friends"
	"github.com/minglehq/mingle/ui/header"
	"github.com/minglehq/mingle/ui/members"
	"github.com/minglehq/mingle/ui/messages"
	"github.com/minglehq/mingle/ui/notifications"
	"github.com/minglehq/mingle/ui/requests"
	"github.com/minglehq/mingle/ui/writepost"
)

var (
	modelStyle = lipgloss.NewStyle().
			Align(lipgloss.Top, lipgloss.Top).
			BorderStyle(lipgloss.HiddenBorder()).MarginLeft(1)
	focusedModelStyle = lipgloss.NewStyle().
				Align(lipgloss.Top, lipgloss.Top).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color(common.COLOR_LIGHTBLUE)).MarginLeft(1)
)

type MainModel struct {
	width              int
	height             int
	headerModel        header.Model
	user               domain.User
	state              common.SessionState
	newUserModel       createuser.Model
	writeModel         writepost.Model
	feedModel          feed.Model
	membersModel       members.Model
	requestsModel      requests.Model
	friendsModel       friends.Model
	messagesModel      messages.Model
	notificationsModel notifications.Model
}

func completeFirstLoginCmd(user *domain.User, name, bio string) tea.Cmd {
	return func() tea.Msg {
		user.FirstTimeLogin = domain.FALSE
		graph := store.Get().Graph
		if err := graph.UpdateLoginById(name, user.Id); err != nil {
			log.Println(fmt.Sprintf("User %s could not be updated!", name))
		}
		if bio != "" {
			if err := graph.UpdateProfile(user.Id, store.ProfileUpdate{Bio: &bio}); err != nil {
				log.Println(fmt.Sprintf("Bio for %s could not be saved!", name))
			}
		}
		return nil
	}
}

func NewModel(user domain.User, width int, height int) MainModel {

	width = common.DefaultWindowWidth(width)
	height = common.DefaultWindowHeight(height)

	m := MainModel{state: common.CreateUserView}
	m.newUserModel = createuser.InitialModel()
	m.writeModel = writepost.InitialPost(width, user.Id)
	m.feedModel = feed.InitialModel(user.Id, width, height)
	m.membersModel = members.InitialModel(user.Id, width, height)
	m.requestsModel = requests.InitialModel(user.Id, width, height)
	m.friendsModel = friends.InitialModel(user.Id, width, height)
	m.messagesModel = messages.InitialModel(user.Id, width, height)
	m.notificationsModel = notifications.InitialModel(user.Id, width, height)
	m.headerModel = header.Model{Width: width, User: &user}
	m.user = user
	m.width = width
	m.height = height
	return m
}

func (m MainModel) Init() tea.Cmd {
	var cmds []tea.Cmd

	// Load the feed on startup
	cmds = append(cmds, m.feedModel.Init())

	if m.user.FirstTimeLogin == domain.TRUE {
		cmds = append(cmds, func() tea.Msg {
			return common.CreateUserView
		})
	} else {
		cmds = append(cmds, func() tea.Msg {
			return common.WritePostView
		})
	}

	return tea.Batch(cmds...)
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.headerModel.Width = msg.Width
		return m, nil

	case common.SessionState:
		switch msg {
		case common.CreateUserView:
			m.state = common.CreateUserView
		case common.WritePostView:
			m.state = common.WritePostView
		case common.FeedView:
			m.state = common.FeedView
		case common.MembersView:
			m.state = common.MembersView
		case common.RequestsView:
			m.state = common.RequestsView
		case common.FriendsView:
			m.state = common.FriendsView
		case common.MessagesView:
			m.state = common.MessagesView
		case common.NotificationsView:
			m.state = common.NotificationsView
		case common.UpdateFeed:
			return m, m.feedModel.Init()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.state == common.CreateUserView {
				return m, nil
			}
			oldState := m.state
			switch m.state {
			case common.WritePostView:
				m.state = common.FeedView
			case common.FeedView:
				m.state = common.MembersView
			case common.MembersView:
				m.state = common.RequestsView
			case common.RequestsView:
				m.state = common.FriendsView
			case common.FriendsView:
				m.state = common.MessagesView
			case common.MessagesView:
				m.state = common.NotificationsView
			case common.NotificationsView:
				m.state = common.WritePostView
			}
			if oldState != m.state {
				cmd = getViewInitCmd(m.state, &m)
				cmds = append(cmds, cmd)
			}
		case "shift+tab":
			if m.state == common.CreateUserView {
				return m, nil
			}
			oldState := m.state
			switch m.state {
			case common.WritePostView:
				m.state = common.NotificationsView
			case common.FeedView:
				m.state = common.WritePostView
			case common.MembersView:
				m.state = common.FeedView
			case common.RequestsView:
				m.state = common.MembersView
			case common.FriendsView:
				m.state = common.RequestsView
			case common.MessagesView:
				m.state = common.FriendsView
			case common.NotificationsView:
				m.state = common.MessagesView
			}
			if oldState != m.state {
				cmd = getViewInitCmd(m.state, &m)
				cmds = append(cmds, cmd)
			}
		case "enter":
			// The name/bio form submits from its last step, earlier
			// enters just advance it.
			if m.state == common.CreateUserView && m.newUserModel.Step == 1 {
				m.state = common.WritePostView
				m.user.Name = m.newUserModel.TextInput.Value()
				m.headerModel = header.Model{Width: m.width, User: &m.user}
				return m, completeFirstLoginCmd(&m.user,
					m.newUserModel.TextInput.Value(),
					m.newUserModel.Bio.Value())
			}
		}
	}

	// Route non-keyboard messages to ALL sub-models so loaded data
	// reaches its destination, keyboard only to the active view.
	if _, isKeyMsg := msg.(tea.KeyMsg); !isKeyMsg {
		m.headerModel, _ = m.headerModel.Update(msg)
		m.feedModel, cmd = m.feedModel.Update(msg)
		cmds = append(cmds, cmd)
		m.membersModel, cmd = m.membersModel.Update(msg)
		cmds = append(cmds, cmd)
		m.requestsModel, cmd = m.requestsModel.Update(msg)
		cmds = append(cmds, cmd)
		m.friendsModel, cmd = m.friendsModel.Update(msg)
		cmds = append(cmds, cmd)
		m.messagesModel, cmd = m.messagesModel.Update(msg)
		cmds = append(cmds, cmd)
		m.notificationsModel, cmd = m.notificationsModel.Update(msg)
		cmds = append(cmds, cmd)
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case common.CreateUserView:
			m.newUserModel, cmd = m.newUserModel.Update(msg)
		case common.WritePostView:
			m.writeModel, cmd = m.writeModel.Update(msg)
		case common.FeedView:
			m.feedModel, cmd = m.feedModel.Update(msg)
		case common.MembersView:
			m.membersModel, cmd = m.membersModel.Update(msg)
		case common.RequestsView:
			m.requestsModel, cmd = m.requestsModel.Update(msg)
		case common.FriendsView:
			m.friendsModel, cmd = m.friendsModel.Update(msg)
		case common.MessagesView:
			m.messagesModel, cmd = m.messagesModel.Update(msg)
		case common.NotificationsView:
			m.notificationsModel, cmd = m.notificationsModel.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m MainModel) View() string {

	var s string

	model := m.currentFocusedModel()

	availableHeight := m.height - 10 // header and help text
	leftPanelWidth := m.width / 3
	rightPanelWidth := m.width - leftPanelWidth - 6 // borders and margins

	writeStyleStr := lipgloss.NewStyle().
		MaxHeight(availableHeight).
		Height(availableHeight).
		Width(leftPanelWidth).
		MaxWidth(leftPanelWidth).
		Render(m.writeModel.View())

	rightPane := func(view string) string {
		return lipgloss.NewStyle().
			MaxHeight(availableHeight).
			Height(availableHeight).
			Width(rightPanelWidth).
			MaxWidth(rightPanelWidth).
			Margin(1).
			Render(view)
	}

	if m.state == common.CreateUserView {
		s = createuser.Style.Width(m.width).Render(m.newUserModel.View())
		return s
	}

	navContainer := lipgloss.NewStyle().Render(m.headerModel.View())
	s += navContainer + "\n"

	switch m.state {
	case common.WritePostView:
		s += lipgloss.JoinHorizontal(lipgloss.Top,
			focusedModelStyle.Render(writeStyleStr),
			modelStyle.Render(rightPane(m.feedModel.View())))
	case common.FeedView:
		s += lipgloss.JoinHorizontal(lipgloss.Top,
			modelStyle.Render(writeStyleStr),
			focusedModelStyle.Render(rightPane(m.feedModel.View())))
	case common.MembersView:
		s += lipgloss.JoinHorizontal(lipgloss.Top,
			modelStyle.Render(writeStyleStr),
			focusedModelStyle.Render(rightPane(m.membersModel.View())))
	case common.RequestsView:
		s += lipgloss.JoinHorizontal(lipgloss.Top,
			modelStyle.Render(writeStyleStr),
			focusedModelStyle.Render(rightPane(m.requestsModel.View())))
	case common.FriendsView:
		s += lipgloss.JoinHorizontal(lipgloss.Top,
			modelStyle.Render(writeStyleStr),
			focusedModelStyle.Render(rightPane(m.friendsModel.View())))
	case common.MessagesView:
		s += lipgloss.JoinHorizontal(lipgloss.Top,
			modelStyle.Render(writeStyleStr),
			focusedModelStyle.Render(rightPane(m.messagesModel.View())))
	case common.NotificationsView:
		s += lipgloss.JoinHorizontal(lipgloss.Top,
			modelStyle.Render(writeStyleStr),
			focusedModelStyle.Render(rightPane(m.notificationsModel.View())))
	}

	var viewCommands string
	switch m.state {
	case common.FeedView:
		viewCommands = "↑/↓: select • l: like • d: delete"
	case common.MembersView:
		viewCommands = "↑/↓: select • enter: send request"
	case common.RequestsView:
		viewCommands = "↑/↓: select • a: accept • x: decline"
	case common.FriendsView:
		viewCommands = "↑/↓: scroll"
	case common.MessagesView:
		viewCommands = "↑/↓: pick thread • enter: send"
	case common.NotificationsView:
		viewCommands = "r: read • a: read all • d: dismiss • c: clear"
	default:
		viewCommands = " "
	}

	s += common.HelpStyle.Render(fmt.Sprintf(
		"focused > %s\t\tkeys > tab: next • shift+tab: prev • %s • ctrl-c: exit",
		model, viewCommands))
	return lipgloss.NewStyle().Render(s)
}

func (m MainModel) currentFocusedModel() string {
	switch m.state {
	case common.WritePostView:
		return "new post"
	case common.FeedView:
		return "feed"
	case common.MembersView:
		return "people"
	case common.RequestsView:
		return "friend requests"
	case common.FriendsView:
		return "friends"
	case common.MessagesView:
		return "messages"
	case common.NotificationsView:
		return "notifications"
	default:
		return "create user"
	}
}

// getViewInitCmd returns the init command for a view to reload its data
func getViewInitCmd(state common.SessionState, m *MainModel) tea.Cmd {
	switch state {
	case common.FeedView:
		return m.feedModel.Init()
	case common.MembersView:
		return m.membersModel.Init()
	case common.RequestsView:
		return m.requestsModel.Init()
	case common.FriendsView:
		return m.friendsModel.Init()
	case common.MessagesView:
		return m.messagesModel.Init()
	case common.NotificationsView:
		return m.notificationsModel.Init()
	default:
		return nil
	}
}
