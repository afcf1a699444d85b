package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/docsift/internal/search"
	"github.com/mmcdole/docsift/internal/tui/styles"
)

const recallVisibleRows = 10

// RecallModal fuzzy-searches previously submitted queries
type RecallModal struct {
	input     textinput.Model
	history   []string // Newest first
	matches   []search.RecallMatch
	cursor    int
	visible   bool
	prevQuery string
}

// NewRecallModal creates a new recall modal
func NewRecallModal() RecallModal {
	ti := textinput.New()
	ti.Placeholder = "Search history..."
	ti.CharLimit = 200
	ti.Width = 50
	ti.Prompt = "history: "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return RecallModal{input: ti}
}

// Show opens the modal over history, newest first
func (r *RecallModal) Show(history []string) tea.Cmd {
	r.visible = true
	r.history = history
	r.input.SetValue("")
	r.prevQuery = ""
	r.refilter()
	return r.input.Focus()
}

// Hide closes the modal
func (r *RecallModal) Hide() {
	r.visible = false
	r.input.Blur()
}

// IsVisible returns true if the modal is open
func (r RecallModal) IsVisible() bool {
	return r.visible
}

// Selected returns the highlighted query
func (r RecallModal) Selected() (string, bool) {
	if r.cursor < 0 || r.cursor >= len(r.matches) {
		return "", false
	}
	return r.matches[r.cursor].Query, true
}

// Update handles input events, returns (modal, cmd, picked)
func (r RecallModal) Update(msg tea.Msg) (RecallModal, tea.Cmd, bool) {
	if !r.visible {
		return r, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && !keyMsg.Paste {
		switch keyMsg.String() {
		case "enter":
			_, ok := r.Selected()
			return r, nil, ok
		case "esc", "ctrl+r":
			r.Hide()
			return r, nil, false
		case "up", "ctrl+p":
			if r.cursor > 0 {
				r.cursor--
			}
			return r, nil, false
		case "down", "ctrl+n":
			if r.cursor < len(r.matches)-1 {
				r.cursor++
			}
			return r, nil, false
		}
	}

	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	if r.input.Value() != r.prevQuery {
		r.prevQuery = r.input.Value()
		r.refilter()
	}
	return r, cmd, false
}

func (r *RecallModal) refilter() {
	r.matches = search.Recall(r.input.Value(), r.history)
	r.cursor = 0
}

// View renders the modal
func (r RecallModal) View() string {
	if !r.visible {
		return ""
	}

	const width = 60
	var b strings.Builder
	b.WriteString(r.input.View())
	b.WriteString("\n\n")

	if len(r.matches) == 0 {
		b.WriteString(styles.DimStyle.Render("No matching queries"))
	}

	start := 0
	if r.cursor >= recallVisibleRows {
		start = r.cursor - recallVisibleRows + 1
	}
	end := min(start+recallVisibleRows, len(r.matches))
	for i := start; i < end; i++ {
		row := styles.Pad(styles.Truncate(r.matches[i].Query, width-2), width-2)
		if i == r.cursor {
			b.WriteString(styles.SelectedItemStyle.Render(" " + row + " "))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(" " + row + " "))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	hint := styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" use  ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" close")

	return styles.ModalStyle.Width(width + 4).Render(
		lipgloss.JoinVertical(lipgloss.Left, b.String(), "", hint),
	)
}
