package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/docsift/internal/domain"
	"github.com/mmcdole/docsift/internal/service"
)

// Command factories for async operations. Outcomes the user must see are
// already in the state store; these messages only carry what the model
// needs beyond that.

// SubmitSearchCmd runs a search
func SubmitSearchCmd(svc *service.SearchService, text string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		applied, _ := svc.Submit(ctx, text)
		return SearchDoneMsg{Query: text, Applied: applied}
	}
}

// DropFilesCmd ingests dropped or pasted paths
func DropFilesCmd(svc *service.IngestService, paths []string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		outcome, err := svc.Drop(ctx, paths)
		return uploadResult(outcome, err)
	}
}

// SelectFilesCmd ingests the files matched by dialog patterns
func SelectFilesCmd(svc *service.IngestService, patterns []string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		outcome, err := svc.Select(ctx, patterns)
		return uploadResult(outcome, err)
	}
}

func uploadResult(outcome service.UploadOutcome, err error) tea.Msg {
	if errors.Is(err, domain.ErrUploadInFlight) {
		return StatusMsg{Message: "An upload is already in progress", IsError: true}
	}
	return UploadDoneMsg{Outcome: outcome}
}

// ConfirmResetCmd performs a confirmed reset
func ConfirmResetCmd(svc *service.ResetService, token service.ResetToken, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := svc.ConfirmReset(ctx, token)
		if errors.Is(err, domain.ErrInvalidToken) {
			return ErrMsg{Err: err, Context: "resetting library"}
		}
		return ResetDoneMsg{Result: result}
	}
}

// RefreshStatsCmd fetches library stats
func RefreshStatsCmd(svc *service.StatsService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return StatsRefreshedMsg{OK: svc.Refresh(ctx)}
	}
}

// CheckHealthCmd probes the server
func CheckHealthCmd(svc *service.HealthService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		health, err := svc.Check(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "checking server health"}
		}
		return HealthCheckedMsg{Health: health}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay.
// id ties the clear to the status it was scheduled for.
func ClearStatusCmd(id int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
