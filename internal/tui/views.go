package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/state"
	"github.com/mmcdole/docsift/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	l := m.calculateLayout()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderMain(l),
		m.renderSidebar(l),
	)

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)

	// Overlays, most urgent last
	overlay := ""
	switch {
	case m.fileDialog.IsVisible():
		overlay = m.fileDialog.View()
	case m.recall.IsVisible():
		overlay = m.recall.View()
	}
	if m.confirmingReset {
		overlay = m.renderResetConfirmation()
	}
	if n, ok := m.snap.PendingNotice(); ok && n.Blocking {
		overlay = renderNotice(n)
	}
	if overlay != "" {
		view = lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			overlay)
	}

	return view
}

// renderHeader renders the title line with the server connection badge
func (m Model) renderHeader() string {
	left := styles.LogoStyle.Render("docsift") + " " +
		styles.SubtitleStyle.Render("semantic document search")

	var badge string
	switch {
	case !m.snap.HealthChecked:
		badge = styles.DimBadgeStyle.Render("connecting")
	case m.snap.Online:
		badge = styles.OnlineBadgeStyle.Render("online")
	default:
		badge = styles.OfflineBadgeStyle.Render("offline")
	}
	right := styles.DimStyle.Render(m.opts.ServerURL) + " " + badge

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right + "\n"
}

// renderMain renders the search box and the results area
func (m Model) renderMain(l paneLayout) string {
	box := styles.InactiveBorder
	if m.focus == FocusSearch {
		box = styles.ActiveBorder
	}
	search := box.Width(l.mainWidth - 2).Render(m.searchBox.View())

	notice := ""
	if m.snap.SearchNotice != "" {
		notice = styles.ErrorStyle.Render(styles.Truncate(m.snap.SearchNotice, l.mainWidth-1))
	}

	var results string
	switch m.snap.View() {
	case state.ViewPristine:
		results = m.renderPlaceholder(l,
			"Start Querying Your Documents",
			"Type a question or phrase above to search semantically across your uploaded PDFs.")
	case state.ViewLoading:
		results = m.renderPlaceholder(l,
			RenderSpinner(m.spinnerFrame)+" Searching...", "")
	case state.ViewNoMatches:
		results = m.renderPlaceholder(l,
			"No matching passages found. Try a different query.", "")
	default:
		results = m.results.View()
		if m.snap.Loading {
			notice = RenderSpinner(m.spinnerFrame) + styles.DimStyle.Render(" Searching...")
		}
	}

	return lipgloss.NewStyle().
		Width(l.mainWidth).
		Height(l.bodyHeight).
		MaxHeight(l.bodyHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, search, notice, results))
}

func (m Model) renderPlaceholder(l paneLayout, title, subtitle string) string {
	text := styles.TitleStyle.Render(title)
	if subtitle != "" {
		wrapped := lipgloss.NewStyle().Width(min(l.mainWidth-8, 60)).Align(lipgloss.Center).Render(subtitle)
		text = lipgloss.JoinVertical(lipgloss.Center, text, "", styles.DimStyle.Render(wrapped))
	}
	return lipgloss.Place(l.mainWidth-1, l.resultsHeight,
		lipgloss.Center, lipgloss.Center, text)
}

// renderSidebar renders the library management pane
func (m Model) renderSidebar(l paneLayout) string {
	inner := l.sidebarWidth - 4
	focused := m.focus == FocusLibrary

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Manage Library"))
	b.WriteString("\n\n")
	b.WriteString(m.renderDropZone(inner))
	b.WriteString("\n\n")

	passages, documents := "-", "-"
	if m.snap.StatsLoaded {
		passages = fmt.Sprintf("%d", m.snap.Stats.PassageCount())
		documents = fmt.Sprintf("%d", m.snap.Stats.DocumentCount())
	}
	b.WriteString(renderStat("Passages", passages, inner))
	b.WriteString("\n")
	b.WriteString(renderStat("Documents", documents, inner))
	b.WriteString("\n")
	if msg := m.snap.Stats.Message; msg != "" {
		b.WriteString(styles.DimStyle.Render(styles.Truncate(msg, inner)))
	}
	b.WriteString("\n")

	b.WriteString(styles.SubtitleStyle.Render("Indexed Files"))
	b.WriteString("\n")
	b.WriteString(m.files.View(focused))
	b.WriteString("\n\n")

	reset := styles.DangerButtonStyle.Render(" Reset Library ")
	if focused {
		reset += styles.DimStyle.Render(" x")
	} else {
		reset += styles.DimStyle.Render(" C-x")
	}
	b.WriteString(reset)

	if m.opts.WatchDir != "" {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(styles.Truncate("Watching "+m.opts.WatchDir, inner)))
	}

	box := styles.InactiveBorder
	if focused {
		box = styles.ActiveBorder
	}
	return box.
		Width(l.sidebarWidth-2).
		Height(l.bodyHeight-2).
		MaxHeight(l.bodyHeight).
		Padding(0, 1).
		Render(b.String())
}

// renderDropZone renders the upload target
func (m Model) renderDropZone(width int) string {
	var text string
	switch {
	case m.snap.Uploading:
		text = RenderSpinner(m.spinnerFrame) + " " + styles.AccentStyle.Render("Processing Library...")
	case m.snap.DropHighlighted:
		text = styles.AccentStyle.Render("Paste PDF paths here") + "\n" +
			styles.DimStyle.Render("or press enter to Browse")
	default:
		text = styles.DimStyle.Render("Paste PDF paths here") + "\n" +
			styles.DimStyle.Render("or press C-o to Browse")
	}

	zone := styles.DropZoneBorder
	if m.snap.DropHighlighted || m.snap.Uploading {
		zone = styles.DropZoneActiveBorder
	}
	return zone.Width(max(width-2, 10)).Render(text)
}

func renderStat(label, value string, width int) string {
	l := styles.StatLabelStyle.Render(label)
	v := styles.StatValueStyle.Render(value)
	gap := max(width-lipgloss.Width(l)-lipgloss.Width(v), 1)
	return l + strings.Repeat(" ", gap) + v
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	var left string
	if m.statusMsg != "" {
		if m.statusIsErr {
			left = styles.ErrorStyle.Render(m.statusMsg)
		} else {
			left = styles.DimStyle.Render(m.statusMsg)
		}
	}

	var center string
	switch m.focus {
	case FocusSearch:
		center = hint("enter", "search") + "  " + hint("C-r", "history") + "  " + hint("tab", "results")
	case FocusResults:
		center = hint("j/k", "scroll") + "  " + hint("esc", "back to search")
	case FocusLibrary:
		center = hint("enter", "add files") + "  " + hint("/", "filter") + "  " + hint("r", "refresh")
	}

	right := hint("?", "help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.width {
		// Not enough space - just left + right
		gap := max(m.width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func hint(k, desc string) string {
	return styles.AccentStyle.Render(k) + styles.DimStyle.Render(" "+desc)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	var cols []string
	for _, groups := range helpColumns() {
		var b strings.Builder
		for i, g := range groups {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(styles.TitleStyle.Render(g.title) + "\n")
			for _, k := range g.bindings {
				h := k.Help()
				b.WriteString("  " + styles.HelpKeyStyle.Render(styles.Pad(h.Key, 9)) + "  " + styles.HelpDescStyle.Render(h.Desc) + "\n")
			}
		}
		cols = append(cols, lipgloss.NewStyle().Width(36).Render(b.String()))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		styles.DimStyle.Render("Press any key to return..."),
	)
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(body))
}

// renderResetConfirmation renders the reset confirmation modal
func (m Model) renderResetConfirmation() string {
	modal := `
              Reset Library?

  Are you sure? This will delete all indexed data.

             [Y] Yes      [N] No
`
	return styles.ModalStyle.Render(modal)
}

// renderNotice renders a notice that must be acknowledged
func renderNotice(n domain.Notice) string {
	style := styles.ModalStyle
	title := "Done"
	if n.Kind == domain.NoticeError {
		style = styles.ErrorModalStyle
		title = "Error"
	}

	body := lipgloss.NewStyle().Width(48).Render(n.Text)
	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		"",
		body,
		"",
		styles.DimStyle.Render("Press enter to continue"),
	))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
