package action

import (
	"github.com/pleimann/gesture-pad/internal/gesture"
)

// Handler presses the keys bound to each recognized gesture. It is a
// listener for every gesture family; register it with Detector.Listen.
type Handler struct {
	*gesture.Funnel

	mapper   *Mapper
	executor *Executor
	onError  func(gesture.Event, error)
	onFire   func(gesture.Event, []KeyPress)
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// OnError sets the callback for key write failures
func OnError(fn func(gesture.Event, error)) HandlerOption {
	return func(h *Handler) { h.onError = fn }
}

// OnFire sets a callback invoked before a bound sequence is pressed
func OnFire(fn func(gesture.Event, []KeyPress)) HandlerOption {
	return func(h *Handler) { h.onFire = fn }
}

func NewHandler(m *Mapper, ex *Executor, opts ...HandlerOption) *Handler {
	h := &Handler{mapper: m, executor: ex}
	h.Funnel = gesture.NewFunnel(h.Handle)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle presses the sequence bound to e, if any
func (h *Handler) Handle(e gesture.Event) {
	seq := h.mapper.Map(e)
	if len(seq) == 0 {
		return
	}
	if h.onFire != nil {
		h.onFire(e, seq)
	}
	if err := h.executor.Press(seq); err != nil && h.onError != nil {
		h.onError(e, err)
	}
}
