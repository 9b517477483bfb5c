package output

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Spinner shows progress for a long-running operation. On a terminal it
// animates; elsewhere it degrades to plain status lines.
type Spinner struct {
	renderer *Renderer
	message  string
	program  *tea.Program
	done     chan struct{}
}

// NewSpinner creates a spinner with the given message. Call Start to
// begin animating and Success or Fail to finish.
func (r *Renderer) NewSpinner(message string) *Spinner {
	return &Spinner{renderer: r, message: message}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if s.renderer.EffectiveMode() != ModeText || !s.renderer.IsTTY() {
		s.renderer.Println(s.message)
		return
	}

	m := spinnerModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		message: s.message,
	}
	s.program = tea.NewProgram(m,
		tea.WithOutput(s.renderer.errOut),
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
	)
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		_, _ = s.program.Run()
	}()
}

// Success stops the spinner and prints a success line.
func (s *Spinner) Success(msg string) {
	s.stop()
	s.renderer.Success(msg)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(msg string) {
	s.stop()
	s.renderer.Error(msg)
}

func (s *Spinner) stop() {
	if s.program == nil {
		return
	}
	s.program.Send(spinnerStopMsg{})
	<-s.done
	s.program = nil
}

type spinnerStopMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	message string
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerStopMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	return m.spinner.View() + " " + m.message
}
