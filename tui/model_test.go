package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wfunc/drumgame/game"
	"github.com/wfunc/drumgame/sink"
)

type MockControls struct {
	hits   []game.HitEvent
	starts int
	resets int
}

func (m *MockControls) Submit(hit game.HitEvent) bool {
	m.hits = append(m.hits, hit)
	return true
}

func (m *MockControls) RequestStart() bool {
	m.starts++
	return true
}

func (m *MockControls) RequestReset() bool {
	m.resets++
	return true
}

func testDrums() []Drum {
	return []Drum{
		{Name: "Red", Color: "#ff0000", Key: "a"},
		{Name: "Green", Color: "#00ff00", Key: "s"},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Expected Model, got %T", next)
	}
	return model, cmd
}

func TestModel_DrumKeySubmitsHit(t *testing.T) {
	ctl := &MockControls{}
	m := NewModel(NewSink(), ctl, testDrums())

	m, cmd := update(t, m, runes("s"))

	if len(ctl.hits) != 1 || ctl.hits[0].TargetID != 1 {
		t.Fatalf("Expected a hit on target 1, got %+v", ctl.hits)
	}
	if cmd == nil {
		t.Fatal("Expected a flash timer command")
	}
	if !m.Flashing(1) || m.Flashing(0) {
		t.Error("Expected only drum 1 to flash")
	}
}

func TestModel_FlashEnds(t *testing.T) {
	m := NewModel(NewSink(), &MockControls{}, testDrums())

	m, _ = update(t, m, runes("a"))
	m, _ = update(t, m, runes("a"))

	// The first strike's timer must not end the second strike's flash.
	m, _ = update(t, m, flashDoneMsg{id: 0, gen: 1})
	if !m.Flashing(0) {
		t.Fatal("Flash ended early")
	}
	m, _ = update(t, m, flashDoneMsg{id: 0, gen: 2})
	if m.Flashing(0) {
		t.Error("Expected flash to end")
	}
}

func TestModel_CommandKeys(t *testing.T) {
	ctl := &MockControls{}
	m := NewModel(NewSink(), ctl, testDrums())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, runes("r"))
	if ctl.starts != 1 || ctl.resets != 1 {
		t.Errorf("Expected one start and one reset, got %d and %d", ctl.starts, ctl.resets)
	}

	m, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("Expected empty view after quitting")
	}
}

func TestModel_ViewFollowsSink(t *testing.T) {
	s := NewSink()
	m := NewModel(s, &MockControls{}, testDrums())

	s.ShowText(sink.FieldMatchTimer, "42")
	s.ShowText(sink.FieldScore, "15")
	s.ShowText(sink.FieldMisses, "2/5")
	s.ShowText(sink.FieldCountdown, "3")
	s.ShowPanel(sink.PanelStart)

	m, cmd := update(t, m, UpdateMsg{})
	if cmd == nil {
		t.Error("Expected to keep listening for updates")
	}

	view := m.View()
	for _, want := range []string{"42", "15", "2/5", "3", "enter: start", "Red", "Green"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestModel_GameOverPanel(t *testing.T) {
	s := NewSink()
	m := NewModel(s, &MockControls{}, testDrums())

	s.ShowText(sink.FieldMatchTimer, "Time's Up!")
	s.ShowText(sink.FieldScore, "20")
	s.ShowPanel(sink.PanelGameOver)
	m, _ = update(t, m, UpdateMsg{})

	view := m.View()
	if !strings.Contains(view, "Time's Up!") || !strings.Contains(view, "final score 20") {
		t.Errorf("Expected game over panel:\n%s", view)
	}
}

func TestModel_ResponseBar(t *testing.T) {
	s := NewSink()
	m := NewModel(s, &MockControls{}, testDrums())

	s.OnSnapshot(game.Snapshot{
		Phase:                 game.PhaseAwaitingInput,
		ResponseTimeRemaining: 5 * time.Second,
		ResponseDuration:      10 * time.Second,
	})
	m, _ = update(t, m, UpdateMsg{})

	if !strings.Contains(m.View(), strings.Repeat("█", barWidth/2)) {
		t.Errorf("Expected a half-full bar:\n%s", m.View())
	}
}

func TestSink_NeverBlocks(t *testing.T) {
	s := NewSink()
	for i := 0; i < 100; i++ {
		s.Highlight(0, 3, time.Second)
		s.ClearHighlight(0)
	}
	s.Highlight(1, 3, time.Second)

	if len(s.UpdateChan) != 1 {
		t.Errorf("Expected a single pending update, got %d", len(s.UpdateChan))
	}
	st := s.State()
	if _, lit := st.Lit[1]; !lit || len(st.Lit) != 1 {
		t.Errorf("Expected only target 1 lit, got %v", st.Lit)
	}

	// The copy is detached from the sink.
	st.Lit[5] = 1
	if _, lit := s.State().Lit[5]; lit {
		t.Error("State should return a copy")
	}
}
