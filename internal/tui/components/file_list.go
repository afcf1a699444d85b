package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// FileList shows the indexed documents with a fuzzy filter
type FileList struct {
	files []domain.FileEntry

	cursor     int
	offset     int
	maxVisible int
	width      int

	filterActive bool
	filterInput  textinput.Model
	filteredIdx  []int // indices into files, nil when unfiltered
}

// NewFileList creates an empty file list
func NewFileList() FileList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.AccentStyle

	return FileList{filterInput: ti, maxVisible: 1}
}

// SetFiles replaces the listed documents, keeping an active filter applied
func (l *FileList) SetFiles(files []domain.FileEntry) {
	l.files = files
	if l.filterActive {
		l.applyFilter()
	}
	l.clampCursor()
}

// SetSize sets the rendered width and number of visible rows
func (l *FileList) SetSize(width, rows int) {
	l.width = width
	l.maxVisible = max(rows, 1)
	l.filterInput.Width = max(width-4, 1)
	l.ensureVisible()
}

// Len returns the number of visible entries
func (l FileList) Len() int {
	if l.filteredIdx != nil {
		return len(l.filteredIdx)
	}
	return len(l.files)
}

// Selected returns the entry under the cursor
func (l FileList) Selected() (domain.FileEntry, bool) {
	if l.Len() == 0 {
		return domain.FileEntry{}, false
	}
	return l.files[l.mapIndex(l.cursor)], true
}

// StartFilter activates the filter input
func (l *FileList) StartFilter() tea.Cmd {
	l.filterActive = true
	return l.filterInput.Focus()
}

// IsFilterTyping returns true if keystrokes go to the filter input
func (l FileList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// ClearFilter shows every file again
func (l *FileList) ClearFilter() {
	l.filterActive = false
	l.filteredIdx = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.clampCursor()
}

// Update handles navigation and filter keys
func (l FileList) Update(msg tea.Msg) (FileList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	if l.IsFilterTyping() {
		switch {
		case key.Matches(keyMsg, listKeys.Clear):
			l.ClearFilter()
			return l, nil
		case key.Matches(keyMsg, listKeys.Apply):
			l.filterInput.Blur()
			return l, nil
		}
		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return l, cmd
	}

	switch {
	case key.Matches(keyMsg, listKeys.Filter):
		return l, l.StartFilter()
	case key.Matches(keyMsg, listKeys.Clear):
		if l.filterActive {
			l.ClearFilter()
		}
	case key.Matches(keyMsg, listKeys.Up):
		l.cursor--
	case key.Matches(keyMsg, listKeys.Down):
		l.cursor++
	case key.Matches(keyMsg, listKeys.Top):
		l.cursor = 0
	case key.Matches(keyMsg, listKeys.Bottom):
		l.cursor = l.Len() - 1
	case key.Matches(keyMsg, listKeys.PageUp):
		l.cursor -= l.maxVisible
	case key.Matches(keyMsg, listKeys.PageDown):
		l.cursor += l.maxVisible
	}
	l.clampCursor()
	return l, nil
}

func (l *FileList) applyFilter() {
	query := strings.TrimSpace(l.filterInput.Value())
	if query == "" {
		l.filteredIdx = nil
		return
	}

	names := make([]string, len(l.files))
	for i, f := range l.files {
		names[i] = strings.ToLower(f.Name)
	}

	matches := fuzzy.Find(strings.ToLower(query), names)
	l.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		l.filteredIdx[i] = match.Index
	}

	l.cursor = 0
	l.offset = 0
}

func (l FileList) mapIndex(i int) int {
	if l.filteredIdx != nil && i < len(l.filteredIdx) {
		return l.filteredIdx[i]
	}
	return i
}

func (l *FileList) clampCursor() {
	if l.cursor >= l.Len() {
		l.cursor = l.Len() - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.ensureVisible()
}

func (l *FileList) ensureVisible() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

// View renders the list. focused controls whether the cursor row is highlighted.
func (l FileList) View(focused bool) string {
	var b strings.Builder

	if l.filterActive {
		b.WriteString(l.filterInput.View())
		b.WriteString("\n")
	}

	if l.Len() == 0 {
		if l.filterActive && l.filterInput.Value() != "" {
			b.WriteString(styles.DimStyle.Render("No matches"))
		} else {
			b.WriteString(styles.DimStyle.Render("No documents indexed"))
		}
		return b.String()
	}

	end := min(l.offset+l.maxVisible, l.Len())
	for i := l.offset; i < end; i++ {
		f := l.files[l.mapIndex(i)]
		chunks := fmt.Sprintf("%d", f.Info.Chunks)
		nameWidth := l.width - len(chunks) - 1
		row := styles.Pad(styles.Truncate(f.Name, nameWidth), nameWidth) + " " + chunks

		if focused && i == l.cursor {
			b.WriteString(styles.SelectedItemStyle.Render(row))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(row))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
