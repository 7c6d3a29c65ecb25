package output

import (
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Spinner shows progress on the diagnostic writer while a long step runs.
// It only draws on a terminal.
type Spinner struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

type stopMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	label   string
	stopped bool
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case stopMsg:
		m.stopped = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.stopped {
		return ""
	}
	return m.spinner.View() + " " + m.label
}

// NewSpinner starts a spinner labelled label. Call Stop when the step ends.
func (r *Renderer) NewSpinner(label string) *Spinner {
	s := &Spinner{done: make(chan struct{})}
	if !r.isTTY {
		close(s.done)
		return s
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(r.styles.Muted),
	)
	s.program = tea.NewProgram(
		spinnerModel{spinner: sp, label: label},
		tea.WithOutput(r.errOut),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	go func() {
		defer close(s.done)
		_, _ = s.program.Run()
	}()
	return s
}

// Stop clears the spinner and waits for it to exit. It is safe to call
// more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		if s.program != nil {
			s.program.Send(stopMsg{})
		}
		<-s.done
	})
}
