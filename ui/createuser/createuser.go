package createuser

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minglehq/mingle/util"
)

var (
	Style = lipgloss.NewStyle().Height(25).Width(80).
		Align(lipgloss.Center, lipgloss.Center).
		BorderStyle(lipgloss.ThickBorder()).
		Margin(0, 3)
)

type Model struct {
	TextInput textinput.Model
	Bio       textinput.Model
	Step      int // 0=name, 1=bio
	Err       util.ErrMsg
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case util.ErrMsg:
		m.Err = msg
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.Step == 0 {
				m.Step = 1
				m.Bio.Focus()
				m.TextInput.Blur()
				return m, nil
			}
			// Step 1 (bio) - form submission handled by parent
		}
	}

	switch m.Step {
	case 0:
		m.TextInput, cmd = m.TextInput.Update(msg)
	case 1:
		m.Bio, cmd = m.Bio.Update(msg)
	}

	return m, cmd
}

func (m Model) View() string {
	var prompt string
	var input string
	var help string

	switch m.Step {
	case 0:
		prompt = "You don't have a name yet, please choose wisely!"
		input = m.TextInput.View()
		help = "(enter to continue, ctrl-c to quit)"
	case 1:
		prompt = fmt.Sprintf("Name: %s\n\nWrite a short bio (optional):", m.TextInput.Value())
		input = m.Bio.View()
		help = "(enter to save profile, ctrl-c to quit)"
	}

	return fmt.Sprintf(
		"Logging into MINGLE v%s\n\n%s\n\n%s\n\n%s",
		util.GetVersion(),
		prompt,
		input,
		help,
	) + "\n"
}

func InitialModel() Model {
	ti := textinput.New()
	ti.Placeholder = "TomAnderson"
	ti.Focus()
	ti.CharLimit = 30
	ti.Width = 30

	bio := textinput.New()
	bio.Placeholder = "Just here to mingle..."
	bio.CharLimit = 200
	bio.Width = 60

	return Model{
		TextInput: ti,
		Bio:       bio,
		Step:      0,
		Err:       nil,
	}
}
