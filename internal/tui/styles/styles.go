// Package styles holds the palette and lipgloss styles shared by the views.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Palette is the set of colors a theme assigns
type Palette struct {
	Accent, Secondary    lipgloss.Color
	Surface, Raised      lipgloss.Color
	Muted, Soft, Text    lipgloss.Color
	Good, Bad, Attention lipgloss.Color
}

// Themes selectable through the ui.theme setting
var Themes = map[string]Palette{
	"default": {
		Accent: "#8B5CF6", Secondary: "#6366F1",
		Surface: "#1F2937", Raised: "#374151",
		Muted: "#6B7280", Soft: "#9CA3AF", Text: "#F9FAFB",
		Good: "#10B981", Bad: "#EF4444", Attention: "#F59E0B",
	},
	"light": {
		Accent: "#6D28D9", Secondary: "#4338CA",
		Surface: "#F3F4F6", Raised: "#E5E7EB",
		Muted: "#6B7280", Soft: "#4B5563", Text: "#111827",
		Good: "#047857", Bad: "#B91C1C", Attention: "#B45309",
	},
}

// Active colors, set by UseTheme
var (
	Violet     lipgloss.Color
	Indigo     lipgloss.Color
	SlateDark  lipgloss.Color
	SlateLight lipgloss.Color
	DimGray    lipgloss.Color
	LightGray  lipgloss.Color
	White      lipgloss.Color
	Green      lipgloss.Color
	Red        lipgloss.Color
	Amber      lipgloss.Color
)

// Styles, rebuilt by UseTheme
var (
	ActiveBorder, InactiveBorder         lipgloss.Style
	DropZoneBorder, DropZoneActiveBorder lipgloss.Style

	TitleStyle, LogoStyle, SubtitleStyle, DimStyle  lipgloss.Style
	AccentStyle, ErrorStyle, SuccessStyle           lipgloss.Style
	WarningStyle, HelpKeyStyle, HelpDescStyle       lipgloss.Style
	SpinnerStyle, FilterPromptStyle                 lipgloss.Style
	ModalStyle, ErrorModalStyle, ModalTitleStyle    lipgloss.Style
	CardStyle, FileNameStyle, ScoreBadgeStyle       lipgloss.Style
	PageStyle, MatchHighlightStyle                  lipgloss.Style
	OnlineBadgeStyle, OfflineBadgeStyle             lipgloss.Style
	DimBadgeStyle, SelectedItemStyle                lipgloss.Style
	NormalItemStyle, StatValueStyle, StatLabelStyle lipgloss.Style
	DangerButtonStyle                               lipgloss.Style
)

func init() {
	apply(Themes["default"])
}

// UseTheme switches the palette and rebuilds every style. An unknown
// name leaves the current theme in place and returns false.
func UseTheme(name string) bool {
	p, ok := Themes[strings.ToLower(strings.TrimSpace(name))]
	if ok {
		apply(p)
	}
	return ok
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func badge(text, bg lipgloss.Color) lipgloss.Style {
	return fg(text).Background(bg).Padding(0, 1)
}

func boxed(b lipgloss.Border, c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(b).BorderForeground(c)
}

func apply(p Palette) {
	Violet, Indigo = p.Accent, p.Secondary
	SlateDark, SlateLight = p.Surface, p.Raised
	DimGray, LightGray, White = p.Muted, p.Soft, p.Text
	Green, Red, Amber = p.Good, p.Bad, p.Attention

	// Panes and drop zone
	ActiveBorder = boxed(lipgloss.RoundedBorder(), Violet)
	InactiveBorder = boxed(lipgloss.RoundedBorder(), DimGray)
	DropZoneBorder = boxed(lipgloss.NormalBorder(), DimGray).Padding(1).Align(lipgloss.Center)
	DropZoneActiveBorder = boxed(lipgloss.ThickBorder(), Violet).Padding(1).Align(lipgloss.Center)

	// Text
	TitleStyle = fg(White).Bold(true)
	LogoStyle = fg(Violet).Bold(true)
	SubtitleStyle = fg(LightGray)
	DimStyle = fg(DimGray)
	AccentStyle = fg(Violet)
	ErrorStyle = fg(Red)
	SuccessStyle = fg(Green)
	WarningStyle = fg(Amber)
	HelpKeyStyle = AccentStyle
	HelpDescStyle = DimStyle
	SpinnerStyle = AccentStyle
	FilterPromptStyle = AccentStyle.Bold(true)

	// Modals. Notices that block input use the red frame.
	ModalStyle = boxed(lipgloss.RoundedBorder(), Violet).Padding(1, 2).Background(SlateDark)
	ErrorModalStyle = ModalStyle.BorderForeground(Red)
	ModalTitleStyle = TitleStyle.MarginBottom(1)

	// Result cards
	CardStyle = boxed(lipgloss.RoundedBorder(), SlateLight).Padding(0, 1)
	FileNameStyle = fg(Indigo).Bold(true)
	ScoreBadgeStyle = badge(White, Violet)
	PageStyle = DimStyle.Italic(true)
	MatchHighlightStyle = WarningStyle.Bold(true)

	// Connection badges
	OnlineBadgeStyle = badge(SlateDark, Green)
	OfflineBadgeStyle = badge(White, Red)
	DimBadgeStyle = badge(LightGray, SlateLight)

	// Sidebar
	SelectedItemStyle = fg(White).Background(SlateLight)
	NormalItemStyle = fg(LightGray)
	StatValueStyle = TitleStyle
	StatLabelStyle = DimStyle
	DangerButtonStyle = fg(White).Background(Red).Bold(true)
}

// Truncate cuts s to width cells, ending in an ellipsis when shortened.
// ANSI sequences in s are preserved.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// Pad right-pads s with spaces to width cells
func Pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
