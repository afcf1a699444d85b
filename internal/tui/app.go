package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/service"
	"github.com/mmcdole/docsift/internal/state"
	"github.com/mmcdole/docsift/internal/tui/components"
)

// statusTTL is how long a status bar message stays up
const statusTTL = 4 * time.Second

// Focus identifies the pane receiving keystrokes
type Focus int

const (
	FocusSearch Focus = iota
	FocusResults
	FocusLibrary
	focusCount
)

// HistorySource supplies previously submitted queries, newest first
type HistorySource interface {
	Recent(n int) []string
}

// Services bundles the controllers the UI drives
type Services struct {
	Search  *service.SearchService
	Ingest  *service.IngestService
	Stats   *service.StatsService
	Reset   *service.ResetService
	Health  *service.HealthService
	Notices *service.NoticeService
	History HistorySource // Optional
}

// Options holds presentation settings
type Options struct {
	ServerURL     string
	Timeout       time.Duration // Per search/reset
	UploadTimeout time.Duration
	WatchDir      string
}

// Model is the main Bubble Tea model for the application
type Model struct {
	store    *state.Store
	observer *StoreObserver
	svc      Services
	opts     Options

	// Last store snapshot; the model never mutates it
	snap state.Snapshot

	// UI Components
	focus      Focus
	searchBox  components.SearchBox
	results    components.ResultsView
	files      components.FileList
	fileDialog components.FileDialog
	recall     components.RecallModal

	// Reset confirmation
	confirmingReset bool
	resetToken      service.ResetToken

	showHelp bool

	// Dimensions
	width  int
	height int
	ready  bool

	// UI state
	spinnerFrame int
	statusMsg    string
	statusIsErr  bool
	statusID     int
}

// NewModel creates a new application model observing store
func NewModel(store *state.Store, svc Services, opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = 10 * time.Minute
	}

	observer := NewStoreObserver()
	store.Subscribe(observer.Notify)

	m := Model{
		store:     store,
		observer:  observer,
		svc:       svc,
		opts:      opts,
		snap:      store.Snapshot(),
		focus:     FocusSearch,
		searchBox: components.NewSearchBox(),
		results:   components.NewResultsView(),
		files:     components.NewFileList(),
		recall:    components.NewRecallModal(),
	}
	m.fileDialog = components.NewFileDialog(func(input string) (int, error) {
		return svc.Ingest.Preview(parsePaths(input))
	})
	m.searchBox.SetHistory(m.history())
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.observer.WaitCmd(),
		RefreshStatsCmd(m.svc.Stats),
		CheckHealthCmd(m.svc.Health),
		TickCmd(100*time.Millisecond),
		textinput.Blink,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case StoreChangedMsg:
		cmd := m.syncFromStore()
		return m, tea.Batch(cmd, m.observer.WaitCmd())

	case TickMsg:
		m.spinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case SearchDoneMsg:
		m.searchBox.SetHistory(m.history())
		return m, nil

	case UploadDoneMsg:
		// Outcome notices arrive through the store
		return m, nil

	case ResetDoneMsg:
		m.searchBox.SetValue("")
		return m, nil

	case StatsRefreshedMsg:
		if !msg.OK {
			return m, m.setStatus("Could not refresh library stats", true)
		}
		return m, nil

	case HealthCheckedMsg:
		if !msg.Health.OK() {
			return m, m.setStatus("Indexing server is not ready", true)
		}
		return m, nil

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		if msg.ID == m.statusID {
			m.statusMsg = ""
			m.statusIsErr = false
		}
		return m, nil

	case ErrMsg:
		return m, m.setStatus(msg.Error(), true)
	}

	// Cursor blink and other component messages
	var cmd tea.Cmd
	switch {
	case m.fileDialog.IsVisible():
		m.fileDialog, cmd, _ = m.fileDialog.Update(msg)
	case m.recall.IsVisible():
		m.recall, cmd, _ = m.recall.Update(msg)
	case m.focus == FocusSearch:
		m.searchBox, cmd = m.searchBox.Update(msg)
	}
	return m, cmd
}

// syncFromStore pulls the latest snapshot into the components and moves
// non-blocking notices to the status bar.
func (m *Model) syncFromStore() tea.Cmd {
	prev := m.snap
	m.snap = m.store.Snapshot()

	if prev.Query.Seq != m.snap.Query.Seq || prev.Loading != m.snap.Loading {
		m.results.SetResults(m.snap.Results, m.snap.Query.Text)
	}
	m.files.SetFiles(m.snap.Stats.SortedFiles())

	var cmd tea.Cmd
	for {
		n, ok := m.snap.PendingNotice()
		if !ok || n.Blocking {
			break
		}
		cmd = m.setStatus(n.Text, n.Kind == domain.NoticeError)
		m.svc.Notices.Dismiss()
		m.snap = m.store.Snapshot()
	}
	return cmd
}

// setStatus shows a status bar message and schedules its removal
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusID++
	m.statusMsg = text
	m.statusIsErr = isErr
	return ClearStatusCmd(m.statusID, statusTTL)
}

func (m Model) history() []string {
	if m.svc.History == nil {
		return nil
	}
	return m.svc.History.Recent(0)
}

// setFocus moves keyboard focus. Entering the library pane arms the drop
// target the way a drag entering it would.
func (m Model) setFocus(f Focus) (Model, tea.Cmd) {
	if m.focus == f {
		return m, nil
	}
	if m.focus == FocusLibrary {
		m.svc.Ingest.DragLeave()
		m.files.ClearFilter()
	}
	m.focus = f

	var cmd tea.Cmd
	if f == FocusSearch {
		cmd = m.searchBox.Focus()
	} else {
		m.searchBox.Blur()
	}
	if f == FocusLibrary {
		m.svc.Ingest.DragEnter()
	}
	return m, cmd
}

func (m Model) submitSearch(text string) (Model, tea.Cmd) {
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	return m, SubmitSearchCmd(m.svc.Search, text, m.opts.Timeout)
}

func (m Model) openFileDialog() (Model, tea.Cmd) {
	if m.snap.Uploading {
		return m, m.setStatus("An upload is already in progress", true)
	}
	cmd := m.fileDialog.Show(m.svc.Ingest.Extensions())
	return m, cmd
}

func (m Model) requestReset() (Model, tea.Cmd) {
	m.resetToken = m.svc.Reset.RequestReset()
	m.confirmingReset = true
	return m, nil
}
