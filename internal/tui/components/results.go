package components

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/tui/styles"
)

var wordRe = regexp.MustCompile(`\p{L}+|\p{N}+`)

// ResultsView is a scrollable stack of passage cards
type ResultsView struct {
	viewport viewport.Model
	width    int
}

// NewResultsView creates an empty results view
func NewResultsView() ResultsView {
	return ResultsView{viewport: viewport.New(0, 0)}
}

// SetSize sets the outer dimensions
func (r *ResultsView) SetSize(width, height int) {
	r.width = width
	r.viewport.Width = width
	r.viewport.Height = max(height, 1)
}

// SetContent replaces the rendered body and scrolls to the top
func (r *ResultsView) SetContent(content string) {
	r.viewport.SetContent(content)
	r.viewport.GotoTop()
}

// SetResults renders passages as cards, highlighting words from query
func (r *ResultsView) SetResults(results domain.SearchResult, query string) {
	r.SetContent(RenderResultCards(results, query, r.width))
}

// Update scrolls the viewport
func (r ResultsView) Update(msg tea.Msg) (ResultsView, tea.Cmd) {
	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return r, cmd
}

// View renders the visible part of the results
func (r ResultsView) View() string {
	return r.viewport.View()
}

// RenderResultCards renders one card per passage in server order
func RenderResultCards(results domain.SearchResult, query string, width int) string {
	cardWidth := max(width-2, 20)
	textWidth := max(cardWidth-4, 10)
	terms := queryTerms(query)

	cards := make([]string, 0, len(results))
	for _, p := range results {
		badge := styles.ScoreBadgeStyle.Render(p.ScorePercent())
		nameWidth := textWidth - lipgloss.Width(badge) - 1
		name := styles.FileNameStyle.Render(styles.Truncate(p.Metadata.DisplayFileName(), nameWidth))
		gap := max(textWidth-lipgloss.Width(name)-lipgloss.Width(badge), 1)
		header := name + strings.Repeat(" ", gap) + badge

		body := highlightTerms(WordWrap(p.Metadata.Text, textWidth), terms)
		page := styles.PageStyle.Render(fmt.Sprintf("Page %d", p.Metadata.Page))

		cards = append(cards, styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", page),
		))
	}
	return strings.Join(cards, "\n")
}

func queryTerms(query string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(strings.ToLower(query), -1) {
		if len([]rune(w)) > 2 {
			terms[w] = struct{}{}
		}
	}
	return terms
}

// highlightTerms styles every word of text that appears in terms
func highlightTerms(text string, terms map[string]struct{}) string {
	if len(terms) == 0 {
		return text
	}
	return wordRe.ReplaceAllStringFunc(text, func(w string) string {
		if _, ok := terms[strings.ToLower(w)]; ok {
			return styles.MatchHighlightStyle.Render(w)
		}
		return w
	})
}

// WordWrap wraps text at word boundaries to the given width
func WordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
