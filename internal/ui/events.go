package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/gesture-pad/internal/gesture"
	"github.com/pleimann/gesture-pad/internal/trace"
)

// styleFor picks the style of an event's gesture family
func styleFor(t gesture.Type) lipgloss.Style {
	switch t {
	case gesture.TypeActionBegin, gesture.TypeActionEnd:
		return LifecycleStyle
	case gesture.TypeSingleTap, gesture.TypeDoubleTap, gesture.TypeMoreTap,
		gesture.TypeLongTap, gesture.TypeLongPress:
		return TapStyle
	case gesture.TypeDragBegin, gesture.TypeDrag, gesture.TypeDragFling, gesture.TypeDragEnd:
		return DragStyle
	default:
		return PinchStyle
	}
}

// Notable reports whether an event is shown without -all: lifecycle and
// continuous updates are hidden
func Notable(e gesture.Event) bool {
	switch e.Type {
	case gesture.TypeActionBegin, gesture.TypeActionEnd, gesture.TypeDrag, gesture.TypePinch:
		return false
	}
	return true
}

// FormatEvent renders one event on a line: binding key then details
func FormatEvent(e gesture.Event) string {
	key := styleFor(e.Type).Render(e.Key())
	detail := strings.TrimPrefix(e.String(), e.Name())
	return key + Muted(detail)
}

// FormatTimedEvent prefixes FormatEvent with a time column
func FormatTimedEvent(at time.Duration, e gesture.Event) string {
	return TimeStyle.Render(fmt.Sprintf("%dms", at.Milliseconds())) + "  " + FormatEvent(e)
}

// PrintReplay shows the outcome of a trace replay, truncating lines to width
func PrintReplay(res *trace.Result, all bool, width int) {
	title := res.Trace.Name
	if title == "" {
		title = "trace"
	}
	fmt.Println()
	fmt.Println(Title(title))
	fmt.Println(Muted(fmt.Sprintf("%d samples over %dms", len(res.Samples), res.Trace.Duration().Milliseconds())))
	fmt.Println()

	line := lipgloss.NewStyle().MaxWidth(width)
	shown := 0
	for _, e := range res.Events {
		if !all && !Notable(e) {
			continue
		}
		fmt.Println(line.Render("  " + FormatEvent(e)))
		shown++
	}
	if shown == 0 {
		fmt.Println(Warning("No gestures recognized"))
	}
	fmt.Println()

	if len(res.Trace.Expect) == 0 {
		return
	}
	if err := res.Check(); err != nil {
		fmt.Println(Error(err.Error()))
	} else {
		fmt.Println(Success(fmt.Sprintf("Matched %d expected gesture(s)", len(res.Trace.Expect))))
	}
	fmt.Println()
}
