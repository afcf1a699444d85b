package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the global bindings. Component-local keys live with the
// component.
type KeyMap struct {
	NextPane, PrevPane key.Binding

	Submit, Clear, Recall, History key.Binding
	Scroll, PageUp, PageDn         key.Binding

	Browse, Filter, Refresh, Reset, Paste key.Binding

	Quit, Help, Dismiss key.Binding
	Confirm, Deny       key.Binding
}

func binding(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// Keys is the active key map
var Keys = KeyMap{
	NextPane: binding("tab", "Next pane", "tab"),
	PrevPane: binding("S-tab", "Previous pane", "shift+tab"),

	Submit:  binding("enter", "Search", "enter"),
	Clear:   binding("esc", "Clear query", "esc"),
	Recall:  binding("C-r", "Search history", "ctrl+r"),
	History: binding("up/down", "Previous queries", "up", "down"),
	Scroll:  binding("j/k", "Scroll results", "j", "k", "up", "down"),
	PageUp:  binding("PgUp", "Page up", "pgup", "ctrl+u"),
	PageDn:  binding("PgDn", "Page down", "pgdown", "ctrl+d"),

	Browse:  binding("C-o", "Add files", "ctrl+o"),
	Filter:  binding("/", "Filter indexed files", "/"),
	Refresh: binding("r", "Refresh stats", "r"),
	Reset:   binding("C-x", "Reset library", "ctrl+x"),
	// Terminals deliver drag-and-drop as a bracketed paste
	Paste: binding("paste", "Drop file paths"),

	Quit:    binding("C-c", "Quit", "ctrl+c"),
	Help:    binding("?", "This help", "?"),
	Dismiss: binding("enter", "OK", "enter", "esc", " "),
	Confirm: binding("y", "Confirm", "y", "Y"),
	Deny:    binding("n/esc", "Cancel", "n", "N", "esc"),
}

type helpGroup struct {
	title    string
	bindings []key.Binding
}

// helpColumns lays out the help screen, one slice per column
func helpColumns() [][]helpGroup {
	return [][]helpGroup{
		{
			{"SEARCH", []key.Binding{Keys.Submit, Keys.Clear, Keys.History, Keys.Recall, Keys.PageUp, Keys.PageDn}},
			{"PANES", []key.Binding{Keys.NextPane, Keys.PrevPane, Keys.Scroll}},
		},
		{
			{"LIBRARY", []key.Binding{Keys.Browse, Keys.Filter, Keys.Refresh, Keys.Reset}},
			{"OTHER", []key.Binding{Keys.Paste, Keys.Quit, Keys.Help}},
		},
	}
}
