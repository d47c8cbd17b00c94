package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-cart/internal/storage"
)

func TestHistoryFiltersByCart(t *testing.T) {
	store := newStore(t)
	for _, r := range []storage.Run{
		{CartID: "hello-lua", Language: "lua", Loaded: true, Frames: 10},
		{CartID: "hello-js", Language: "js", Loaded: false},
		{CartID: "hello-lua", Language: "lua", Loaded: true, Frames: 5, HookErrors: 2},
	} {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	m := NewHistoryModel(store, 100, 30)
	if len(m.runs) != 3 {
		t.Fatalf("all carts: got %d runs, want 3", len(m.runs))
	}
	if m.stats != nil {
		t.Error("no stats expected for the all-carts filter")
	}

	// Filters are "" then registered carts sorted by id: hello-js, hello-lua.
	for m.cartFilter() != "hello-lua" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(HistoryModel)
	}
	if len(m.runs) != 2 {
		t.Fatalf("hello-lua: got %d runs, want 2", len(m.runs))
	}
	if m.stats == nil || m.stats.TotalFrames != 15 || m.stats.HookErrors != 2 {
		t.Errorf("stats = %+v", m.stats)
	}
	if !strings.Contains(m.View(), "hello-lua") {
		t.Errorf("view missing cart title:\n%s", m.View())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(HistoryModel)
	if m.cartFilter() != "hello-js" {
		t.Errorf("shift+tab filter = %q, want hello-js", m.cartFilter())
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	m := NewHistoryModel(nil, 80, 24)
	if !strings.Contains(m.View(), "No runs recorded yet") {
		t.Errorf("expected empty message:\n%s", m.View())
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(HistoryModel)
	if !m.IsGoingBack() || cmd == nil {
		t.Error("esc should go back")
	}
}
