package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreObserverCoalesces(t *testing.T) {
	o := NewStoreObserver()
	o.Notify()
	o.Notify()
	o.Notify()

	assert.Equal(t, StoreChangedMsg{}, o.WaitCmd()())
	assert.Len(t, o.ch, 0, "burst should collapse into one message")
}
