package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/docsift/internal/tui/styles"
)

// MatchCounter reports how many uploadable files the dialog input selects
type MatchCounter func(input string) (int, error)

// FileDialog asks for paths or glob patterns to upload. Tab previews how
// many supported files the input currently matches.
type FileDialog struct {
	visible bool
	input   textinput.Model
	exts    []string

	count     MatchCounter
	previewed bool
	matches   int
	err       error
}

// NewFileDialog creates a hidden dialog. count may be nil to disable preview.
func NewFileDialog(count MatchCounter) FileDialog {
	ti := textinput.New()
	ti.Placeholder = "~/papers/**/*.pdf"
	ti.Width = 52
	ti.Prompt = "> "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return FileDialog{input: ti, count: count}
}

// Show opens the dialog with an empty input
func (d *FileDialog) Show(extensions []string) tea.Cmd {
	d.visible = true
	d.exts = extensions
	d.input.SetValue("")
	d.resetPreview()
	return d.input.Focus()
}

// Hide closes the dialog
func (d *FileDialog) Hide() {
	d.visible = false
	d.input.Blur()
}

// IsVisible returns whether the dialog is open
func (d FileDialog) IsVisible() bool {
	return d.visible
}

// Value returns the raw input
func (d FileDialog) Value() string {
	return d.input.Value()
}

// Update handles input events, returns (dialog, cmd, submitted).
// Newlines inside a paste never submit.
func (d FileDialog) Update(msg tea.Msg) (FileDialog, tea.Cmd, bool) {
	if !d.visible {
		return d, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && !keyMsg.Paste {
		switch keyMsg.String() {
		case "enter":
			return d, nil, strings.TrimSpace(d.input.Value()) != ""
		case "esc":
			d.Hide()
			return d, nil, false
		case "tab":
			d.preview()
			return d, nil, false
		}
	}

	before := d.input.Value()
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	if d.input.Value() != before {
		d.resetPreview()
	}
	return d, cmd, false
}

func (d *FileDialog) preview() {
	if d.count == nil {
		return
	}
	d.matches, d.err = d.count(d.input.Value())
	d.previewed = true
}

func (d *FileDialog) resetPreview() {
	d.previewed = false
	d.matches = 0
	d.err = nil
}

// View renders the dialog
func (d FileDialog) View() string {
	if !d.visible {
		return ""
	}

	const width = 58
	line := lipgloss.NewStyle().Width(width).Background(styles.SlateDark)

	accepts := "Accepts " + strings.Join(d.exts, ", ") + " files."
	if len(d.exts) == 0 {
		accepts = "Accepts PDF files."
	}

	var status string
	switch {
	case d.err != nil:
		status = styles.ErrorStyle.Render("Invalid pattern: " + d.err.Error())
	case !d.previewed:
		status = styles.DimStyle.Render("tab preview  enter upload  esc cancel")
	case d.matches == 0:
		status = styles.WarningStyle.Render("No supported files match")
	default:
		status = styles.SuccessStyle.Render(fmt.Sprintf("%d supported file(s) match", d.matches))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		line.Inherit(styles.TitleStyle).Render("Add documents"),
		line.Foreground(styles.DimGray).Render(accepts+" Separate paths with spaces; quote paths that contain spaces."),
		line.Render(""),
		line.Render(d.input.View()),
		line.Render(""),
		line.Render(status),
	)
	return styles.ModalStyle.Render(content)
}
