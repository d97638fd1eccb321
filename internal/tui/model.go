package tui

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/wizard"
)

// Evaluator scores a submitted wizard
type Evaluator interface {
	Evaluate(ctx context.Context, answers domain.SurveyAnswers, img *domain.Image) domain.Scorecard
}

// Phase is what the terminal is currently showing
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseCalculating
	PhaseResult
)

// scoredMsg carries the scorecard back from the evaluation command
type scoredMsg struct {
	scorecard domain.Scorecard
}

// submission is filled by the wizard's completion callback
type submission struct {
	sub *wizard.Submission
}

// Model is the bubbletea model of the carbon calculator
type Model struct {
	ctx       context.Context
	evaluator Evaluator
	image     *domain.Image

	wizard  *wizard.Wizard
	pending *submission
	phase   Phase

	cursor    int
	optCursor int
	inputs    map[wizard.Field]string
	err       error

	spinner   spinner.Model
	scorecard *domain.Scorecard
	styles    Styles
	width     int
}

// New creates the calculator model. A non-nil image enables the image step
// with the photo already attached.
func New(ctx context.Context, evaluator Evaluator, img *domain.Image) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = DefaultStyles().Cursor

	m := Model{
		ctx:       ctx,
		evaluator: evaluator,
		image:     img,
		spinner:   sp,
		styles:    DefaultStyles(),
	}
	m.reset()
	return m
}

func (m *Model) reset() {
	m.pending = &submission{}
	pending := m.pending

	var opts []wizard.Option
	if m.image != nil {
		opts = append(opts, wizard.WithImageStep())
	}
	m.wizard = wizard.New(func(s wizard.Submission) {
		pending.sub = &s
	}, opts...)
	if m.image != nil {
		_ = m.wizard.AttachImage(*m.image)
	}

	m.phase = PhaseEditing
	m.cursor = 0
	m.optCursor = 0
	m.inputs = make(map[wizard.Field]string)
	m.err = nil
	m.scorecard = nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Phase reports the current phase
func (m Model) Phase() Phase {
	return m.phase
}

// Wizard exposes the underlying wizard
func (m Model) Wizard() *wizard.Wizard {
	return m.wizard
}

// Scorecard returns the result once calculated
func (m Model) Scorecard() *domain.Scorecard {
	return m.scorecard
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case scoredMsg:
		sc := msg.scorecard
		m.scorecard = &sc
		m.phase = PhaseResult
		return m, nil

	case spinner.TickMsg:
		if m.phase != PhaseCalculating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.phase {
		case PhaseEditing:
			return m.updateEditing(msg)
		case PhaseResult:
			switch msg.String() {
			case "r":
				m.reset()
			case "q", "esc":
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.wizard.Snapshot().Fields
	m.cursor = min(m.cursor, max(len(fields)-1, 0))

	var field *wizard.FieldSpec
	if len(fields) > 0 {
		field = &fields[m.cursor]
	}
	m.err = nil

	switch msg.Type {
	case tea.KeyEnter:
		return m.advance()

	case tea.KeyEsc:
		m.retreat()
		return m, nil

	case tea.KeyUp, tea.KeyShiftTab:
		if m.cursor > 0 {
			m.cursor--
			m.optCursor = 0
		}
		return m, nil

	case tea.KeyDown, tea.KeyTab:
		if m.cursor < len(fields)-1 {
			m.cursor++
			m.optCursor = 0
		}
		return m, nil

	case tea.KeyLeft, tea.KeyRight:
		if field == nil {
			return m, nil
		}
		delta := 1
		if msg.Type == tea.KeyLeft {
			delta = -1
		}
		switch field.Kind {
		case wizard.KindChoice:
			m.cycle(*field, delta)
		case wizard.KindMulti:
			m.optCursor = (m.optCursor + delta + len(field.Options)) % len(field.Options)
		}
		return m, nil

	case tea.KeySpace:
		if field != nil && field.Kind == wizard.KindMulti {
			m.err = m.wizard.ToggleSetMember(field.Name, field.Options[m.optCursor])
		}
		return m, nil

	case tea.KeyBackspace:
		if field != nil && field.Kind == wizard.KindNumber {
			if text := m.input(field.Name); text != "" {
				m.setInput(field.Name, text[:len(text)-1])
				return m, nil
			}
		}
		m.retreat()
		return m, nil

	case tea.KeyRunes:
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if field != nil && field.Kind == wizard.KindNumber {
			text := m.input(field.Name)
			for _, r := range msg.Runes {
				if (r >= '0' && r <= '9') || (r == '.' && !strings.Contains(text, ".")) {
					text += string(r)
				}
			}
			m.setInput(field.Name, text)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	submitted, err := m.wizard.Advance()
	if err != nil {
		m.err = err
		return m, nil
	}
	m.cursor = 0
	m.optCursor = 0
	if !submitted {
		return m, nil
	}

	m.phase = PhaseCalculating
	sub := *m.pending.sub
	return m, tea.Batch(m.spinner.Tick, m.evaluate(sub))
}

func (m *Model) retreat() {
	m.err = m.wizard.Retreat()
	m.cursor = 0
	m.optCursor = 0
}

func (m Model) evaluate(sub wizard.Submission) tea.Cmd {
	ctx, evaluator := m.ctx, m.evaluator
	return func() tea.Msg {
		return scoredMsg{scorecard: evaluator.Evaluate(ctx, sub.Answers, sub.Image)}
	}
}

// cycle moves a choice field to the next or previous option
func (m *Model) cycle(field wizard.FieldSpec, delta int) {
	n := len(field.Options)
	if n == 0 {
		return
	}
	i := slices.Index(field.Options, m.wizard.Value(field.Name))
	if i < 0 {
		i = 0
	} else {
		i = (i + delta + n) % n
	}
	m.err = m.wizard.UpdateField(field.Name, field.Options[i])
}

// input returns the text being typed into a number field
func (m *Model) input(name wizard.Field) string {
	if text, ok := m.inputs[name]; ok {
		return text
	}
	if v := m.wizard.Value(name); v != "0" {
		return v
	}
	return ""
}

func (m *Model) setInput(name wizard.Field, text string) {
	m.inputs[name] = text
	m.err = m.wizard.UpdateField(name, text)
}
