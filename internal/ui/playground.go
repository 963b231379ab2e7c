package ui

import (
	"fmt"
	"strings"
	"time"

	"gioui.org/f32"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/gesture-pad/internal/gesture"
	"github.com/pleimann/gesture-pad/internal/pointer"
	"github.com/pleimann/gesture-pad/internal/trace"
)

// PlaygroundOptions configures the mouse playground
type PlaygroundOptions struct {
	Thresholds gesture.Thresholds
	Mode       gesture.Mode
	Multitouch bool
	// CellSize is the size of one terminal cell in pixels, so slops and
	// velocities behave as they would on a touch screen
	CellSize f32.Point
	// RecordPath, when set, is where the captured trace is saved
	RecordPath string
	// All shows lifecycle and continuous events too
	All bool
}

const playgroundLogSize = 12

// timerMsg carries a detector timer task onto the program's goroutine
type timerMsg struct{ fn func() }

// teaScheduler runs detector timers through the bubbletea event loop, so
// they execute on the same goroutine as Update
type teaScheduler struct {
	p *tea.Program
}

func (s *teaScheduler) AfterFunc(d time.Duration, f func()) gesture.Timer {
	return time.AfterFunc(d, func() { s.p.Send(timerMsg{fn: f}) })
}

// playground turns mouse input into pointer samples. The left button is one
// finger. Holding ctrl, or using the right button, adds a second finger
// mirrored around the press point, which makes pinches possible.
type playground struct {
	opts    PlaygroundOptions
	det     *gesture.Detector
	tracker pointer.FrameTracker
	capture *trace.Capture
	start   time.Time

	down     bool
	pinching bool
	anchor   f32.Point
	cursor   f32.Point

	log    []string
	status string
	width  int
}

func newPlayground(opts PlaygroundOptions, sched gesture.Scheduler) *playground {
	m := &playground{
		opts:    opts,
		capture: trace.NewCapture("playground", opts.Mode, opts.Multitouch),
		start:   time.Now(),
		width:   80,
	}
	m.det = gesture.New(opts.Thresholds,
		gesture.WithScheduler(sched),
		gesture.WithMode(opts.Mode),
		gesture.WithMultitouch(opts.Multitouch),
	)
	m.det.Listen(gesture.NewFunnel(m.record))
	return m
}

// RunPlayground runs the interactive mouse playground until the user quits
func RunPlayground(opts PlaygroundOptions) error {
	if opts.CellSize == (f32.Point{}) {
		opts.CellSize = f32.Pt(10, 20)
	}
	sched := &teaScheduler{}
	m := newPlayground(opts, sched)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	sched.p = p

	if _, err := p.Run(); err != nil {
		return err
	}
	return m.save()
}

func (m *playground) save() error {
	if m.opts.RecordPath == "" || m.capture.Len() == 0 {
		return nil
	}
	return m.capture.Trace().Save(m.opts.RecordPath)
}

func (m *playground) Init() tea.Cmd {
	return nil
}

func (m *playground) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerMsg:
		msg.fn()

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "m":
			next := gesture.ModeDragOnly
			if m.det.Policy().Pending() == gesture.ModeDragOnly {
				next = gesture.ModeAll
			}
			m.det.Select(next)
			m.status = "policy " + next.String() + " (applies when idle)"
		case "r":
			m.feed(m.tracker.Cancel(m.now()))
			m.down, m.pinching = false, false
			m.status = "cancelled"
		case "c":
			m.log = nil
			m.status = ""
		case "s":
			if err := m.save(); err != nil {
				m.status = err.Error()
			} else if m.opts.RecordPath != "" {
				m.status = fmt.Sprintf("saved %d samples to %s", m.capture.Len(), m.opts.RecordPath)
			}
		}

	case tea.MouseMsg:
		m.mouse(tea.MouseEvent(msg))
	}
	return m, nil
}

func (m *playground) mouse(e tea.MouseEvent) {
	pos := f32.Pt(float32(e.X)*m.opts.CellSize.X, float32(e.Y)*m.opts.CellSize.Y)

	switch e.Action {
	case tea.MouseActionPress:
		if e.Button != tea.MouseButtonLeft && e.Button != tea.MouseButtonRight {
			return
		}
		m.down = true
		m.pinching = e.Ctrl || e.Button == tea.MouseButtonRight
		m.anchor, m.cursor = pos, pos
		// Start the mirrored finger a little apart so the pair is distinct
		if m.pinching {
			m.anchor = pos.Add(f32.Pt(m.opts.CellSize.X, 0))
		}
	case tea.MouseActionMotion:
		if !m.down {
			return
		}
		m.cursor = pos
	case tea.MouseActionRelease:
		if !m.down {
			return
		}
		m.cursor = pos
		m.down = false
	}

	m.feed(m.tracker.Update(m.now(), m.contacts()))
	if !m.down {
		m.pinching = false
	}
}

func (m *playground) contacts() []pointer.Contact {
	if !m.down {
		return nil
	}
	contacts := []pointer.Contact{{ID: 0, Position: m.cursor, Touching: true}}
	if m.pinching {
		mirror := m.anchor.Mul(2).Sub(m.cursor)
		contacts = append(contacts, pointer.Contact{ID: 1, Position: mirror, Touching: true})
	}
	return contacts
}

func (m *playground) feed(samples []pointer.Sample) {
	for _, s := range samples {
		m.capture.Add(s)
		m.det.Feed(s, nil, nil)
	}
}

func (m *playground) now() time.Duration {
	return time.Since(m.start)
}

func (m *playground) record(e gesture.Event) {
	m.capture.Expect(e)
	if !m.opts.All && !Notable(e) {
		return
	}
	m.log = append(m.log, FormatTimedEvent(m.now(), e))
	if len(m.log) > playgroundLogSize {
		m.log = m.log[len(m.log)-playgroundLogSize:]
	}
}

func (m *playground) View() string {
	var sb strings.Builder

	sb.WriteString(Title("Gesture playground"))
	sb.WriteString("  ")
	sb.WriteString(Muted(fmt.Sprintf("policy %s  state %s  pointers %d",
		m.det.Mode(), m.det.Current(), len(m.tracker.Down()))))
	sb.WriteString("\n\n")

	body := Muted("Click, drag or ctrl+drag anywhere")
	if len(m.log) > 0 {
		body = strings.Join(m.log, "\n")
	}
	box := BoxStyle.Width(max(m.width-4, 20))
	sb.WriteString(box.Render(body))
	sb.WriteString("\n")

	if m.status != "" {
		sb.WriteString(SubtleStyle.Render(m.status))
		sb.WriteString("\n")
	}
	help := []string{"drag: one finger", "ctrl/right drag: pinch", "m: policy", "r: cancel", "c: clear"}
	if m.opts.RecordPath != "" {
		help = append(help, "s: save")
	}
	help = append(help, "q: quit")
	sb.WriteString(lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Join(help, " • ")))
	return sb.String()
}
