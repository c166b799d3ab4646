// Package tui is the terminal front end: it draws the drums and timers and
// turns key presses into hits.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wfunc/drumgame/game"
	"github.com/wfunc/drumgame/sink"
)

// FlashDuration is how long a struck drum stays flashed.
const FlashDuration = 500 * time.Millisecond

const barWidth = 30

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fff"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	countStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd75f"))
	drumStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Align(lipgloss.Center).
			Width(12)
)

// Controls is the non-blocking side of round.Controller.
type Controls interface {
	Submit(hit game.HitEvent) bool
	RequestStart() bool
	RequestReset() bool
}

// Drum is how one target is drawn and played from the keyboard.
type Drum struct {
	Name  string
	Color string
	Key   string
}

type UpdateMsg struct{}

type flashDoneMsg struct {
	id  int
	gen int
}

type Model struct {
	Sink     *Sink
	controls Controls
	drums    []Drum
	keys     map[string]int

	state    State
	flashes  map[int]int // target id -> generation of the live flash
	quitting bool
	now      func() time.Time
}

func NewModel(s *Sink, controls Controls, drums []Drum) Model {
	keys := make(map[string]int, len(drums))
	for i, d := range drums {
		if d.Key != "" {
			keys[d.Key] = i
		}
	}
	return Model{
		Sink:     s,
		controls: controls,
		drums:    drums,
		keys:     keys,
		state:    s.State(),
		flashes:  make(map[int]int),
		now:      time.Now,
	}
}

func ListenForUpdates(s *Sink) tea.Cmd {
	return func() tea.Msg {
		<-s.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Sink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if id, ok := m.keys[key]; ok {
			m.controls.Submit(game.HitEvent{TargetID: id, Timestamp: m.now()})
			return m, m.flash(id)
		}
		switch key {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter", " ":
			m.controls.RequestStart()
		case "r":
			m.controls.RequestReset()
		}

	case UpdateMsg:
		m.state = m.Sink.State()
		return m, ListenForUpdates(m.Sink)

	case flashDoneMsg:
		if m.flashes[msg.id] == msg.gen {
			delete(m.flashes, msg.id)
		}
	}

	return m, nil
}

// flash marks a drum as struck and schedules the end of the flash. A newer
// strike on the same drum supersedes the pending end.
func (m Model) flash(id int) tea.Cmd {
	gen := m.flashes[id] + 1
	m.flashes[id] = gen
	return tea.Tick(FlashDuration, func(time.Time) tea.Msg {
		return flashDoneMsg{id: id, gen: gen}
	})
}

func (m Model) Flashing(id int) bool {
	_, ok := m.flashes[id]
	return ok
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	texts := m.state.Texts

	b.WriteString(titleStyle.Render("DRUM MEMORY"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("time %s   score %s   misses %s",
		texts[sink.FieldMatchTimer], texts[sink.FieldScore], texts[sink.FieldMisses])))
	b.WriteString("\n\n")

	b.WriteString(m.renderDrums())
	b.WriteString("\n\n")

	if c := texts[sink.FieldCountdown]; c != "" {
		b.WriteString(countStyle.Render(c))
		b.WriteString("\n")
	}
	if m.state.Snapshot.Phase == game.PhaseAwaitingInput {
		b.WriteString(renderBar(m.state.Snapshot.ResponseProgress()))
		b.WriteString(" ")
		b.WriteString(texts[sink.FieldResponseTimer])
		b.WriteString("\n")
	}
	if msg := texts[sink.FieldMessage]; msg != "" {
		b.WriteString(warningStyle.Render(msg))
		b.WriteString("\n")
	}

	switch m.state.Panel {
	case sink.PanelStart:
		b.WriteString(statusStyle.Render("enter: start"))
	case sink.PanelGameOver:
		b.WriteString(titleStyle.Render(texts[sink.FieldMatchTimer]))
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(fmt.Sprintf("final score %s, %d rounds   r: new match",
			texts[sink.FieldScore], m.state.Snapshot.RoundsCompleted)))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("q: quit"))
	return b.String()
}

func (m Model) renderDrums() string {
	boxes := make([]string, len(m.drums))
	for i, d := range m.drums {
		color := lipgloss.Color(d.Color)
		style := drumStyle.BorderForeground(color).Foreground(color)
		if _, lit := m.state.Lit[i]; lit {
			style = style.Background(color).Foreground(lipgloss.Color("#000")).Bold(true)
		}
		if m.Flashing(i) {
			style = style.Reverse(true)
		}
		label := d.Name
		if d.Key != "" {
			label += "\n[" + d.Key + "]"
		}
		boxes[i] = style.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func renderBar(progress float64) string {
	filled := int(progress*barWidth + 0.5)
	return strings.Repeat("█", filled) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
}
