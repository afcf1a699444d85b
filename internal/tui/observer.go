package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// StoreObserver adapts state.Store subscriptions to a channel for Bubble Tea.
// Notifications coalesce: the program re-reads the whole snapshot anyway.
type StoreObserver struct {
	ch chan struct{}
}

// NewStoreObserver creates a new channel-based observer.
func NewStoreObserver() *StoreObserver {
	return &StoreObserver{ch: make(chan struct{}, 1)}
}

// Notify signals a change (non-blocking if one is already pending).
func (o *StoreObserver) Notify() {
	select {
	case o.ch <- struct{}{}:
	default: // A change is already queued
	}
}

// WaitCmd blocks until the next change and reports it as StoreChangedMsg.
// The model re-issues it after every StoreChangedMsg.
func (o *StoreObserver) WaitCmd() tea.Cmd {
	return func() tea.Msg {
		<-o.ch
		return StoreChangedMsg{}
	}
}
