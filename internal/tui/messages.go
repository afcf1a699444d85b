package tui

import (
	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StoreChangedMsg signals that the state store was mutated
type StoreChangedMsg struct{}

// SearchDoneMsg signals that a submitted search finished
type SearchDoneMsg struct {
	Query   string
	Applied bool
}

// UploadDoneMsg signals that an ingest request finished
type UploadDoneMsg struct {
	Outcome service.UploadOutcome
}

// ResetDoneMsg signals that a confirmed reset finished
type ResetDoneMsg struct {
	Result domain.ResetResult
}

// StatsRefreshedMsg signals that a stats fetch finished
type StatsRefreshedMsg struct {
	OK bool
}

// HealthCheckedMsg carries the startup health probe outcome
type HealthCheckedMsg struct {
	Health domain.Health
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct {
	ID int
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
