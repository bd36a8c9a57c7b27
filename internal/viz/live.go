package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odelab/internal/driver"
	"github.com/san-kum/odelab/internal/ode"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// Snapshot is one accepted step as seen by the live view.
type Snapshot struct {
	T  float64
	U  ode.State
	Dt float64
}

type TickMsg time.Time
type doneMsg struct{ err error }

// channelObserver forwards accepted steps into the live view without
// blocking the driver when the view lags behind.
type channelObserver struct {
	ch chan Snapshot
}

func (o *channelObserver) OnStep(t float64, u ode.State, dt float64) {
	select {
	case o.ch <- Snapshot{T: t, U: u.Clone(), Dt: dt}:
	default:
	}
}

// LiveModel drives an integration in the background and renders its
// progress: current time, step size, and a scrolling graph of u[0].
type LiveModel struct {
	title   string
	drv     *driver.Driver
	prob    *ode.Problem
	cancel  context.CancelFunc
	steps   chan Snapshot
	result  chan doneMsg
	latest  Snapshot
	history []float64
	nSteps  int
	done    bool
	err     error
}

func NewLive(title string, drv *driver.Driver, prob *ode.Problem) *LiveModel {
	return &LiveModel{
		title:   title,
		drv:     drv,
		prob:    prob,
		steps:   make(chan Snapshot, 256),
		result:  make(chan doneMsg, 1),
		history: make([]float64, 0, historyCapacity),
	}
}

func (m *LiveModel) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.drv.AddObserver(&channelObserver{ch: m.steps})

	go func() {
		_, err := m.drv.Solve(ctx, m.prob)
		m.result <- doneMsg{err: err}
	}()

	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case TickMsg:
		m.drain()
		select {
		case res := <-m.result:
			m.done = true
			m.err = res.err
			m.drain()
		default:
		}
		if m.done {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) drain() {
	for {
		select {
		case snap := <-m.steps:
			m.latest = snap
			m.nSteps++
			m.history = append(m.history, snap.U[0])
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		default:
			return
		}
	}
}

func (m *LiveModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("t", fmt.Sprintf("%.6f / %.6f", m.latest.T, m.prob.T1))
	row("dt", fmt.Sprintf("%.3e", m.latest.Dt))
	row("steps", fmt.Sprintf("%d", m.nSteps))
	if len(m.latest.U) > 0 {
		row("u", stateString(m.latest.U))
	}

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(12),
			asciigraph.Width(70),
			asciigraph.Caption("u[0]"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	if m.done {
		if m.err != nil {
			b.WriteString(doneStyle.Render(fmt.Sprintf("failed: %v", m.err)))
		} else {
			b.WriteString(doneStyle.Render("integration complete"))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("q: quit"))
	return b.String()
}

func stateString(u ode.State) string {
	var parts []string
	for i, v := range u {
		if i >= 4 {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%.4f", v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// RunLive blocks until the live view exits.
func RunLive(title string, drv *driver.Driver, prob *ode.Problem) error {
	p := tea.NewProgram(NewLive(title, drv, prob))
	_, err := p.Run()
	return err
}
