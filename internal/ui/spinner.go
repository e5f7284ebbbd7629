package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunSpinner runs a minimal Bubble Tea spinner while executing the given action.
// Messages logged through Logf while it runs are printed above the spinner.
// The UI exits when the action completes and returns the action's error.
// Cancelling from the keyboard cancels the action's context; RunSpinner
// returns only after the action has.
func RunSpinner(ctx context.Context, title string, action func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logs := make(chan logEntry, 64)
	setActiveLogChannel(logs)
	defer func() {
		clearActiveLogChannel()
		close(logs)
	}()

	m := newSpinnerModel(ctx, cancel, title, logs, action)
	p := tea.NewProgram(m)
	_, err := p.Run()
	if err != nil {
		cancel()
	}
	<-m.stopped
	if err != nil {
		return err
	}
	return m.err
}

// errCanceled is reported when the user leaves the spinner before the action ends.
var errCanceled = errors.New("operation canceled")

type actionDoneMsg struct{ err error }

type logMsg logEntry

type spinnerModel struct {
	ctx      context.Context
	cancel   context.CancelFunc
	stopped  chan struct{}
	title    string
	spin     spinner.Model
	logs     <-chan logEntry
	result   chan error
	finished bool
	err      error
	style    lipgloss.Style
}

func newSpinnerModel(ctx context.Context, cancel context.CancelFunc, title string, logs <-chan logEntry, action func(ctx context.Context) error) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := &spinnerModel{
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		title:   title,
		spin:    s,
		logs:    logs,
		result:  make(chan error, 1),
		style:   lipgloss.NewStyle().Padding(0, 1),
	}

	// Kick off the action in the background and notify on completion
	go func() {
		defer close(m.stopped)
		// Small delay for smoother paint before heavy work
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
		}
		m.result <- action(ctx)
	}()

	return m
}

func (m *spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForCompletion(m), waitForLog(m.logs))
}

func waitForCompletion(m *spinnerModel) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return actionDoneMsg{err: m.ctx.Err()}
		case err := <-m.result:
			return actionDoneMsg{err: err}
		}
	}
}

func waitForLog(logs <-chan logEntry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-logs
		if !ok {
			return nil
		}
		return logMsg(entry)
	}
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// Allow cancel via keyboard
			m.cancel()
			m.err = errCanceled
			m.finished = true
			return m, tea.Quit
		}
	case actionDoneMsg:
		m.err = msg.err
		m.finished = true
		return m, tea.Quit
	case logMsg:
		line := strings.TrimRight(msg.message, "\n")
		return m, tea.Batch(tea.Println(line), waitForLog(m.logs))
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.finished {
		if m.err != nil {
			return m.style.Render("✗ " + m.title + " (" + m.err.Error() + ")\n")
		}
		return m.style.Render("✓ " + m.title + "\n")
	}
	return m.style.Render(m.spin.View() + " " + m.title)
}
