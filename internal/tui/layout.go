package tui

// Layout proportions
const (
	SidebarPercent  = 34
	MinSidebarWidth = 30
	MaxSidebarWidth = 48
	MinMainWidth    = 30

	// Header line plus a blank spacer, and a single footer line
	HeaderHeight = 2
	ChromeHeight = HeaderHeight + 1

	// Bordered search box
	SearchBoxHeight = 3

	// Sidebar rows used by everything except the file list
	SidebarFixedRows = 20
)

// paneLayout holds calculated pane sizes for the View
type paneLayout struct {
	mainWidth     int
	sidebarWidth  int
	bodyHeight    int
	resultsHeight int
	fileRows      int
}

// calculateLayout splits the window into the search pane and the library sidebar
func (m Model) calculateLayout() paneLayout {
	l := paneLayout{}

	l.sidebarWidth = m.width * SidebarPercent / 100
	l.sidebarWidth = min(max(l.sidebarWidth, MinSidebarWidth), MaxSidebarWidth)
	l.mainWidth = m.width - l.sidebarWidth
	if l.mainWidth < MinMainWidth {
		l.mainWidth = max(m.width-MinSidebarWidth, 1)
		l.sidebarWidth = m.width - l.mainWidth
	}

	l.bodyHeight = max(m.height-ChromeHeight, 1)
	// Search box, a notice line, then the results
	l.resultsHeight = max(l.bodyHeight-SearchBoxHeight-1, 1)
	l.fileRows = max(l.bodyHeight-SidebarFixedRows, 1)
	return l
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	l := m.calculateLayout()
	m.searchBox.SetWidth(l.mainWidth - 4)
	m.results.SetSize(l.mainWidth-1, l.resultsHeight)
	m.files.SetSize(l.sidebarWidth-4, l.fileRows)
	m.results.SetResults(m.snap.Results, m.snap.Query.Text)
}
