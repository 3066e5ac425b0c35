package feed

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/minglehq/mingle/domain"
	"github.com/minglehq/mingle/store"
	"github.com/minglehq/mingle/ui/common"
	"github.com/minglehq/mingle/util"
)

var (
	postStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			MarginBottom(0)

	selectedStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			MarginBottom(0).
			Foreground(lipgloss.Color(common.COLOR_GREEN)).
			Bold(true)

	metaStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(lipgloss.Color(common.COLOR_GREY))
)

type Model struct {
	UserId   uuid.UUID
	Posts    []domain.Post
	Authors  map[uuid.UUID]string
	Selected int
	Width    int
	Height   int
	Status   string
}

func InitialModel(userId uuid.UUID, width, height int) Model {
	return Model{
		UserId:  userId,
		Posts:   []domain.Post{},
		Authors: make(map[uuid.UUID]string),
		Width:   width,
		Height:  height,
	}
}

func (m Model) Init() tea.Cmd {
	return loadFeed()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postsLoadedMsg:
		m.Posts = msg.posts
		m.Authors = msg.authors
		if m.Selected >= len(m.Posts) {
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
			if m.Selected < len(m.Posts)-1 {
				m.Selected++
			}
		case "l":
			if len(m.Posts) == 0 {
				return m, nil
			}
			post := m.Posts[m.Selected]
			return m, setReactionCmd(post, m.UserId, domain.ReactionLike)
		case "d":
			if len(m.Posts) == 0 {
				return m, nil
			}
			post := m.Posts[m.Selected]
			if post.AuthorId != m.UserId {
				m.Status = "Only your own posts can be deleted"
				return m, clearStatusAfter(2 * time.Second)
			}
			return m, deletePostCmd(post.Id, m.UserId)
		}
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render(fmt.Sprintf("feed (%d)", len(m.Posts))))
	s.WriteString("\n\n")

	if len(m.Posts) == 0 {
		s.WriteString(common.EmptyStyle.Render("Nothing here yet. Write the first post!"))
	} else {
		for i, post := range m.Posts {
			author := m.Authors[post.AuthorId]
			if author == "" {
				author = "someone"
			}

			line := fmt.Sprintf("%s · %s", author, util.RelativeTime(post.CreatedAt))
			if i == m.Selected {
				s.WriteString("→ " + selectedStyle.Render(line))
			} else {
				s.WriteString("  " + postStyle.Render(line))
			}
			s.WriteString("\n")
			s.WriteString(postStyle.PaddingLeft(4).Render(post.Content))
			s.WriteString("\n")
			s.WriteString(metaStyle.Render(reactionSummary(&post)))
			s.WriteString("\n\n")
		}
	}

	if m.Status != "" {
		s.WriteString(common.StatusStyle.Render(m.Status))
		s.WriteString("\n")
	}

	return s.String()
}

func reactionSummary(post *domain.Post) string {
	parts := []string{}
	counts := post.ReactionCounts()
	for _, kind := range domain.ReactionKinds {
		if counts[kind] > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", kind, counts[kind]))
		}
	}
	parts = append(parts, fmt.Sprintf("comments %d", post.CommentCount()))
	return strings.Join(parts, " · ")
}

type postsLoadedMsg struct {
	posts   []domain.Post
	authors map[uuid.UUID]string
}

type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func loadFeed() tea.Cmd {
	return func() tea.Msg {
		app := store.Get()
		posts := app.Feed.ReadPosts()

		authors := make(map[uuid.UUID]string)
		for _, user := range app.Graph.ReadAllUsers() {
			authors[user.Id] = user.Name
		}
		return postsLoadedMsg{posts: posts, authors: authors}
	}
}

func setReactionCmd(post domain.Post, userId uuid.UUID, kind domain.ReactionKind) tea.Cmd {
	return func() tea.Msg {
		app := store.Get()
		app.Feed.SetReaction(post.Id, userId, kind)

		err, updated := app.Feed.ReadPostById(post.Id)
		if err == nil && updated != nil {
			if _, nowSet := updated.Reactions[userId]; nowSet {
				if _, actor := app.Graph.ReadUserById(userId); actor != nil {
					postId := post.Id
					app.Notifications.Notify(post.AuthorId, domain.NotifyReaction, *actor,
						"reacted to your post", &postId)
				}
			}
		}
		return common.UpdateFeed
	}
}

func deletePostCmd(postId, authorId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		store.Get().Feed.DeletePost(postId, authorId)
		return common.UpdateFeed
	}
}
