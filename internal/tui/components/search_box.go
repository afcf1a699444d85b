package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/docsift/internal/tui/styles"
)

// SearchBox is the query input with shell-style history navigation
type SearchBox struct {
	input   textinput.Model
	history []string // Newest first
	histIdx int      // -1 when editing a fresh line
	draft   string   // Line being edited before history navigation began
}

// NewSearchBox creates a focused search box
func NewSearchBox() SearchBox {
	ti := textinput.New()
	ti.Placeholder = "Search across your documents..."
	ti.CharLimit = 500
	ti.Prompt = "⌕ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	ti.Focus()

	return SearchBox{input: ti, histIdx: -1}
}

// SetWidth sets the input width
func (s *SearchBox) SetWidth(width int) {
	s.input.Width = max(width-lipgloss.Width(s.input.Prompt)-1, 1)
}

// SetHistory replaces the recallable queries, newest first
func (s *SearchBox) SetHistory(history []string) {
	s.history = history
	s.histIdx = -1
}

// Value returns the current text
func (s SearchBox) Value() string {
	return s.input.Value()
}

// SetValue replaces the text and moves the cursor to the end
func (s *SearchBox) SetValue(v string) {
	s.input.SetValue(v)
	s.input.CursorEnd()
	s.histIdx = -1
}

// Focus gives the box keyboard focus
func (s *SearchBox) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur removes keyboard focus
func (s *SearchBox) Blur() {
	s.input.Blur()
}

// Focused reports whether the box has focus
func (s SearchBox) Focused() bool {
	return s.input.Focused()
}

// Update handles typing and up/down history recall
func (s SearchBox) Update(msg tea.Msg) (SearchBox, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !keyMsg.Paste {
		switch keyMsg.String() {
		case "up":
			s.older()
			return s, nil
		case "down":
			s.newer()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SearchBox) older() {
	if s.histIdx+1 >= len(s.history) {
		return
	}
	if s.histIdx == -1 {
		s.draft = s.input.Value()
	}
	s.histIdx++
	s.input.SetValue(s.history[s.histIdx])
	s.input.CursorEnd()
}

func (s *SearchBox) newer() {
	if s.histIdx < 0 {
		return
	}
	s.histIdx--
	if s.histIdx == -1 {
		s.input.SetValue(s.draft)
	} else {
		s.input.SetValue(s.history[s.histIdx])
	}
	s.input.CursorEnd()
}

// View renders the input
func (s SearchBox) View() string {
	return s.input.View()
}
