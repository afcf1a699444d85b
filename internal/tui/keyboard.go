package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Quit) && !msg.Paste {
		return m, tea.Quit
	}

	// Blocking notice swallows everything until acknowledged
	if n, ok := m.snap.PendingNotice(); ok && n.Blocking {
		if key.Matches(msg, Keys.Dismiss) && !msg.Paste {
			m.svc.Notices.Dismiss()
		}
		return m, nil
	}

	if m.confirmingReset {
		return m.handleResetConfirm(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	if msg.Paste {
		return m.handlePaste(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.NextPane):
		return m.setFocus((m.focus + 1) % focusCount)

	case key.Matches(msg, Keys.PrevPane):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)

	case key.Matches(msg, Keys.Browse):
		return m.openFileDialog()

	case key.Matches(msg, Keys.Reset):
		return m.requestReset()

	case key.Matches(msg, Keys.Recall):
		return m, m.recall.Show(m.history())
	}

	switch m.focus {
	case FocusSearch:
		return m.handleSearchKey(msg)
	case FocusResults:
		return m.handleResultsKey(msg)
	case FocusLibrary:
		return m.handleLibraryKey(msg)
	}
	return m, nil
}

// routeToModal sends input to the open modal, if any
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.fileDialog.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.fileDialog, cmd, submitted = m.fileDialog.Update(msg)
		if !submitted {
			return true, m, cmd
		}

		patterns := parsePaths(m.fileDialog.Value())
		m.fileDialog.Hide()
		if len(patterns) == 0 {
			return true, m, nil
		}
		return true, m, SelectFilesCmd(m.svc.Ingest, patterns, m.opts.UploadTimeout)
	}

	if m.recall.IsVisible() {
		var cmd tea.Cmd
		var picked bool
		m.recall, cmd, picked = m.recall.Update(msg)
		if !picked {
			return true, m, cmd
		}

		query, _ := m.recall.Selected()
		m.recall.Hide()
		m.searchBox.SetValue(query)

		var focusCmd, searchCmd tea.Cmd
		m, focusCmd = m.setFocus(FocusSearch)
		m, searchCmd = m.submitSearch(query)
		return true, m, tea.Batch(focusCmd, searchCmd)
	}

	return false, m, nil
}

func (m Model) handleResetConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Confirm):
		m.confirmingReset = false
		token := m.resetToken
		m.resetToken = ""
		return m, ConfirmResetCmd(m.svc.Reset, token, m.opts.Timeout)
	case key.Matches(msg, Keys.Deny):
		m.confirmingReset = false
		m.svc.Reset.CancelReset(m.resetToken)
		m.resetToken = ""
	}
	return m, nil
}

// handlePaste treats pasted file paths as a drop. Text pasted while the
// library pane is focused is always a drop; elsewhere it is a drop only
// when every path exists, otherwise it is typed into the search box.
func (m Model) handlePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	text := string(msg.Runes)
	paths := parsePaths(text)

	isDrop := len(paths) > 0 && (m.focus == FocusLibrary || allExist(paths))
	if isDrop {
		m.svc.Ingest.DragOver()
		return m, DropFilesCmd(m.svc.Ingest, paths, m.opts.UploadTimeout)
	}

	var focusCmd, cmd tea.Cmd
	m, focusCmd = m.setFocus(FocusSearch)
	m.searchBox, cmd = m.searchBox.Update(msg)
	return m, tea.Batch(focusCmd, cmd)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Submit):
		return m.submitSearch(m.searchBox.Value())

	case key.Matches(msg, Keys.Clear):
		m.searchBox.SetValue("")
		return m, nil

	case key.Matches(msg, Keys.PageUp, Keys.PageDn):
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd

	case msg.String() == "?" && m.searchBox.Value() == "":
		m.showHelp = true
		return m, nil
	}

	var cmd tea.Cmd
	m.searchBox, cmd = m.searchBox.Update(msg)
	return m, cmd
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, Keys.Clear):
		return m.setFocus(FocusSearch)

	case key.Matches(msg, Keys.Scroll, Keys.PageUp, Keys.PageDn):
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	// Typing from the results pane goes back to the search box
	if msg.Type == tea.KeyRunes {
		var focusCmd, cmd tea.Cmd
		m, focusCmd = m.setFocus(FocusSearch)
		m.searchBox, cmd = m.searchBox.Update(msg)
		return m, tea.Batch(focusCmd, cmd)
	}
	return m, nil
}

func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The filter input owns the keyboard while typing
	if m.files.IsFilterTyping() {
		var cmd tea.Cmd
		m.files, cmd = m.files.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		return m, RefreshStatsCmd(m.svc.Stats)

	case msg.String() == "enter", msg.String() == "o":
		return m.openFileDialog()

	case msg.String() == "x":
		return m.requestReset()
	}

	var cmd tea.Cmd
	m.files, cmd = m.files.Update(msg)
	return m, cmd
}
