package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/equinor/res2df/internal/frame"
)

func testTable() *frame.Table {
	tbl := frame.New("DATE", "FOPT", "WOPR:OP1", "WOPR:OP2")
	tbl.Append(map[string]any{"DATE": "2020-01-01", "FOPT": 0.0, "WOPR:OP1": 10.0, "WOPR:OP2": 5.0})
	tbl.Append(map[string]any{"DATE": "2020-02-01", "FOPT": 100.0, "WOPR:OP1": 9.0, "WOPR:OP2": 6.0})
	return tbl
}

func TestBrowserListsVectors(t *testing.T) {
	m := NewBrowser("TESTCASE", testTable())
	view := m.View()
	if !strings.Contains(view, "FOPT") || !strings.Contains(view, "WOPR:OP1") {
		t.Errorf("vector list missing in view:\n%s", view)
	}
	if strings.Contains(view, "DATE") && strings.Contains(view, "> DATE") {
		t.Error("DATE must not be a selectable vector")
	}
}

func TestBrowserFilter(t *testing.T) {
	m := NewBrowser("TESTCASE", testTable())
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("wopr")})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view := next.View()
	if strings.Contains(view, "> FOPT") {
		t.Errorf("filter should exclude FOPT from the list:\n%s", view)
	}
	if !strings.Contains(view, "WOPR:OP1") {
		t.Errorf("filtered vector missing:\n%s", view)
	}
}

func TestBrowserNavigation(t *testing.T) {
	m := NewBrowser("TESTCASE", testTable())
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	view := next.View()
	if !strings.Contains(view, "> WOPR:OP1") {
		t.Errorf("cursor should move to the second vector:\n%s", view)
	}
}
