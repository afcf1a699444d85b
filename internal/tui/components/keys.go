package components

import "github.com/charmbracelet/bubbles/key"

// fileListKeys are the bindings of the indexed-files pane
type fileListKeys struct {
	Up, Down, Top, Bottom key.Binding
	PageUp, PageDown      key.Binding
	Filter, Apply, Clear  key.Binding
}

func bind(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

var listKeys = fileListKeys{
	Up:       bind("previous file", "k", "up"),
	Down:     bind("next file", "j", "down"),
	Top:      bind("first file", "g", "home"),
	Bottom:   bind("last file", "G", "end"),
	PageUp:   bind("page up", "pgup", "ctrl+u"),
	PageDown: bind("page down", "pgdown", "ctrl+d"),
	Filter:   bind("filter files", "/"),
	Apply:    bind("keep filter", "enter"),
	Clear:    bind("clear filter", "esc"),
}
