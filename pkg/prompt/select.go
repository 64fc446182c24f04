package prompt

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// selectModel represents the Bubble Tea model for revision selection.
type selectModel struct {
	choices         []RevisionChoice
	filteredChoices []RevisionChoice
	cursor          int
	filter          string
	selected        *RevisionChoice
	quitting        bool
}

func initialSelectModel(choices []RevisionChoice) selectModel {
	return selectModel{
		choices:         choices,
		filteredChoices: choices,
	}
}

// Init initializes the model.
func (m selectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyInput(msg)
	}

	return m, nil
}

func (m selectModel) handleKeyInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.handleSpecialKeys(key) {
		return m, tea.Quit
	}
	m.handleNavigationKeys(key)
	m.handleFilterKeys(key)

	return m, nil
}

// handleSpecialKeys handles the keys ending the selection.
func (m *selectModel) handleSpecialKeys(key string) bool {
	switch key {
	case "ctrl+c", "q":
		m.quitting = true
		return true
	case "enter":
		if m.cursor < len(m.filteredChoices) {
			selected := m.filteredChoices[m.cursor]
			m.selected = &selected
			return true
		}
	}
	return false
}

func (m *selectModel) handleNavigationKeys(key string) {
	switch key {
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(m.filteredChoices)-1 {
			m.cursor++
		}
	}
}

func (m *selectModel) handleFilterKeys(key string) {
	switch key {
	case "backspace":
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.updateFilteredChoices()
		}
	case "esc":
		m.filter = ""
		m.updateFilteredChoices()
	default:
		// Regular characters filter the list
		if len(key) == 1 {
			m.filter += key
			m.updateFilteredChoices()
		}
	}
}

// updateFilteredChoices keeps the choices whose title or number contains the filter.
func (m *selectModel) updateFilteredChoices() {
	if m.filter == "" {
		m.filteredChoices = m.choices
	} else {
		m.filteredChoices = []RevisionChoice{}
		filterLower := strings.ToLower(m.filter)
		for _, choice := range m.choices {
			if strings.Contains(strings.ToLower(formatChoice(choice)), filterLower) {
				m.filteredChoices = append(m.filteredChoices, choice)
			}
		}
	}

	if m.cursor >= len(m.filteredChoices) {
		m.cursor = 0
	}
}

// View renders the UI.
func (m selectModel) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString("? Choose a revision:  [Use arrows to move, type to filter]\n\n")
	if m.filter != "" {
		s.WriteString(fmt.Sprintf("Filter: %s\n\n", m.filter))
	}

	for i, choice := range m.filteredChoices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		s.WriteString(fmt.Sprintf("%s %s\n", cursor, formatChoice(choice)))
	}

	s.WriteString("\nPress Enter to select, Ctrl+C or q to quit")
	if m.filter != "" {
		s.WriteString(", Esc to clear filter")
	}

	return s.String()
}

func formatChoice(choice RevisionChoice) string {
	if choice.State == "" {
		return fmt.Sprintf("#%d %s", choice.ID, choice.Title)
	}
	return fmt.Sprintf("#%d %s [%s]", choice.ID, choice.Title, choice.State)
}

// promptSelectRevisionBubbleTea runs the Bubble Tea program for revision selection.
func promptSelectRevisionBubbleTea(choices []RevisionChoice, in io.Reader, out io.Writer) (RevisionChoice, error) {
	p := tea.NewProgram(initialSelectModel(choices), tea.WithInput(in), tea.WithOutput(out))

	finalModel, err := p.Run()
	if err != nil {
		return RevisionChoice{}, fmt.Errorf("failed to run selection program: %w", err)
	}

	model, ok := finalModel.(selectModel)
	if !ok {
		return RevisionChoice{}, fmt.Errorf("unexpected model type %T", finalModel)
	}

	if model.selected == nil {
		return RevisionChoice{}, ErrNoSelection
	}

	return *model.selected, nil
}
