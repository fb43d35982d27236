package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cobuy/pkg/pipeline"
)

func exploreSample(t *testing.T) ExploreModel {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	a, err := runner.Load(context.Background(), strings.NewReader(sampleDoc), pipeline.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return NewExploreModel(a)
}

func press(m ExploreModel, keys ...string) ExploreModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(ExploreModel)
	}
	return m
}

func rowIDs(m ExploreModel) string {
	ids := make([]string, len(m.Rows))
	for i, n := range m.Rows {
		ids[i] = n.ID
	}
	return strings.Join(ids, ",")
}

func TestExploreRankedByDegree(t *testing.T) {
	m := exploreSample(t)
	if got := rowIDs(m); got != "A,B,C,D" {
		t.Errorf("rows = %s, want A,B,C,D", got)
	}
}

func TestExploreNavigation(t *testing.T) {
	m := exploreSample(t)
	m = press(m, "down", "down", "down", "down")
	if m.Cursor != 3 {
		t.Errorf("cursor = %d, want 3 (clamped)", m.Cursor)
	}
	m = press(m, "up", "k")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor)
	}
}

func TestExploreSelect(t *testing.T) {
	m := press(exploreSample(t), "enter")
	if m.Selected == nil || m.Selected.Node.ID != "A" {
		t.Fatalf("selected = %+v, want A", m.Selected)
	}
	if !m.related["B"] || !m.related["C"] || !m.related["D"] || m.related["A"] {
		t.Errorf("related = %v", m.related)
	}
	if view := m.View(); !strings.Contains(view, "rank 1 of 4") || !strings.Contains(view, "Descaler") {
		t.Errorf("detail view missing rank or tree:\n%s", view)
	}

	m = press(m, "esc")
	if m.Selected != nil {
		t.Error("esc should clear the selection")
	}
}

func TestExploreSearch(t *testing.T) {
	m := press(exploreSample(t), "/", "f", "r", "o", "x", "backspace")
	if !m.Typing || m.Query != "fro" {
		t.Fatalf("typing=%v query=%q", m.Typing, m.Query)
	}
	m = press(m, "enter")
	if m.Typing || rowIDs(m) != "B" {
		t.Errorf("after search rows = %s, want B", rowIDs(m))
	}

	m = press(m, "esc")
	if m.Query != "" || rowIDs(m) != "A,B,C,D" {
		t.Errorf("esc should restore the ranking, rows = %s", rowIDs(m))
	}

	m = press(m, "/", "z", "z", "enter")
	if len(m.Rows) != 0 || !strings.Contains(m.View(), "No products match") {
		t.Errorf("empty search view:\n%s", m.View())
	}
	m = press(m, "enter")
	if m.Selected != nil {
		t.Error("enter on an empty list should not select")
	}
}

func TestExploreQuit(t *testing.T) {
	_, cmd := exploreSample(t).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestExploreResizeKeepsCursorVisible(t *testing.T) {
	m := exploreSample(t)
	for i := 0; len(m.Rows) < 30; i++ {
		m.Rows = append(m.Rows, m.Rows[i%4])
	}
	m.Height, m.Cursor, m.Offset = 20, 25, 10

	tests := []struct {
		name       string
		height     int
		wantHeight int
		wantOffset int
	}{
		{"Shrink", 19, 5, 21},
		{"Grow", 44, 30, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: tt.height})
			got := next.(ExploreModel)
			if got.Height != tt.wantHeight || got.Offset != tt.wantOffset {
				t.Errorf("height, offset = %d, %d, want %d, %d", got.Height, got.Offset, tt.wantHeight, tt.wantOffset)
			}
			if got.Cursor < got.Offset || got.Cursor >= got.Offset+got.Height {
				t.Errorf("cursor %d outside rows [%d, %d)", got.Cursor, got.Offset, got.Offset+got.Height)
			}
		})
	}
}
