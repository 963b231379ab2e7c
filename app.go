package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	creackpty "github.com/creack/pty"

	"github.com/pleimann/gesture-pad/internal/action"
	"github.com/pleimann/gesture-pad/internal/config"
	"github.com/pleimann/gesture-pad/internal/gesture"
	"github.com/pleimann/gesture-pad/internal/hid"
	"github.com/pleimann/gesture-pad/internal/pointer"
	"github.com/pleimann/gesture-pad/internal/pty"
	"github.com/pleimann/gesture-pad/internal/trace"
	"github.com/pleimann/gesture-pad/internal/ui"
)

type appOptions struct {
	verbose    bool
	recordPath string
	watcher    *config.Watcher
}

// App bridges a touch digitizer to a TUI: HID frames become pointer
// samples, the detector recognizes gestures and bound gestures are typed
// into the TUI's PTY.
type App struct {
	config     *config.Config
	verbose    bool
	recordPath string

	hidDevice      *hid.Device
	loop           *gesture.Loop
	detector       *gesture.Detector
	actionMapper   *action.Mapper
	actionExecutor *action.Executor
	ptyManager     *pty.Manager
	watcher        *config.Watcher
	capture        *trace.Capture
}

func keyDelay(cfg *config.Config) time.Duration {
	return time.Duration(cfg.TUI.KeyDelayMs) * time.Millisecond
}

func newApp(cfg *config.Config, opts appOptions) (*App, error) {
	app := &App{
		config:     cfg,
		verbose:    opts.verbose,
		recordPath: opts.recordPath,
		watcher:    opts.watcher,
	}

	// Initialize HID device
	hidDevice, err := hid.NewDevice(cfg.Device.VendorID, cfg.Device.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to open HID device: %w", err)
	}
	app.hidDevice = hidDevice

	// Initialize action mapper
	app.actionMapper, err = action.NewMapper(cfg)
	if err != nil {
		hidDevice.Close()
		return nil, fmt.Errorf("invalid bindings: %w", err)
	}

	// Initialize PTY manager
	ptyManager, err := pty.NewManager(cfg.TUI.Command, cfg.TUI.Args, cfg.TUI.WorkingDir)
	if err != nil {
		hidDevice.Close()
		return nil, fmt.Errorf("failed to create PTY manager: %w", err)
	}
	app.ptyManager = ptyManager

	// Initialize action executor
	app.actionExecutor = action.NewExecutor(ptyManager, keyDelay(cfg))

	// Initialize the detector; its timers run on the loop goroutine
	app.loop = gesture.NewLoop()
	app.detector = gesture.New(cfg.Gesture.Thresholds(),
		gesture.WithScheduler(app.loop),
		gesture.WithMode(cfg.Gesture.Mode()),
		gesture.WithMultitouch(cfg.Gesture.MultitouchEnabled()),
	)
	if err := cfg.Gesture.Apply(app.detector); err != nil {
		hidDevice.Close()
		return nil, err
	}

	app.detector.Listen(action.NewHandler(app.actionMapper, app.actionExecutor,
		action.OnError(func(e gesture.Event, err error) {
			log.Printf("Failed to execute action for %s: %v", e.Key(), err)
		}),
		action.OnFire(func(e gesture.Event, keys []action.KeyPress) {
			if app.verbose {
				log.Printf("Gesture %s -> %s", e.Key(), formatKeys(keys))
			}
		}),
	))

	if app.verbose {
		app.detector.Listen(gesture.NewFunnel(func(e gesture.Event) {
			if ui.Notable(e) {
				log.Printf("Gesture detected: %s", e)
			}
		}))
	}

	if app.recordPath != "" {
		name := strings.TrimSuffix(filepath.Base(app.recordPath), filepath.Ext(app.recordPath))
		app.capture = trace.NewCapture(name, cfg.Gesture.Mode(), cfg.Gesture.MultitouchEnabled())
		app.detector.Listen(gesture.NewFunnel(app.capture.Expect))
	}

	if app.watcher != nil {
		app.watcher.OnReload(app.reload)
	}

	return app, nil
}

func formatKeys(keys []action.KeyPress) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, " ")
}

// reload is called on the watcher goroutine and hands the new settings to
// the loop, which owns the detector, mapper and executor
func (a *App) reload(cfg *config.Config) {
	a.loop.Post(func() {
		if err := cfg.Gesture.Apply(a.detector); err != nil {
			log.Printf("Ignoring reloaded config: %v", err)
			return
		}
		if err := a.actionMapper.Reload(cfg); err != nil {
			log.Printf("Keeping previous bindings: %v", err)
		}
		a.actionExecutor.SetDelay(keyDelay(cfg))
		log.Printf("Reloaded configuration from %s", a.watcher.Path())
	})
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Put the controlling terminal in raw mode so keys reach the TUI
	var size *creackpty.Winsize
	term, err := pty.OpenTerminal(os.Stdin)
	if err == nil {
		if size, err = term.Size(); err != nil {
			size = nil
		}
		if err := term.MakeRaw(); err != nil {
			return err
		}
		defer term.Restore()
	} else if a.verbose {
		log.Printf("Not attached to a terminal: %v", err)
	}

	// Start PTY
	a.ptyManager.SetOutput(os.Stdout)
	if err := a.ptyManager.Start(ctx, size); err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}
	if term != nil {
		go a.ptyManager.FollowSize(ctx, term)
	}
	go func() {
		if err := a.ptyManager.ForwardInput(ctx, os.Stdin); err != nil && ctx.Err() == nil {
			log.Printf("Input forwarding stopped: %v", err)
		}
	}()
	go func() {
		<-a.ptyManager.Done()
		cancel()
	}()

	if a.watcher != nil {
		a.watcher.Start()
	}

	// Start reading from HID device
	frames := make(chan hid.Frame, 64)
	inputs := make(chan gesture.Input, 64)
	go a.readFrames(ctx, frames)
	go a.convert(ctx, frames, inputs)

	err = a.loop.Run(ctx, a.detector, inputs)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	tuiExited := false
	select {
	case <-a.ptyManager.Done():
		tuiExited = true
	default:
	}

	a.shutdown()

	if tuiExited {
		if werr := a.ptyManager.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
			return fmt.Errorf("%s exited: %w\n%s", a.config.TUI.Command, werr, a.ptyManager.GetRecentOutput())
		}
	}
	return err
}

// readFrames reads the device until ctx is done, waiting for the device to
// come back whenever a read fails. A disconnect is reported downstream as
// an aborted frame so in-flight gestures are cancelled.
func (a *App) readFrames(ctx context.Context, frames chan<- hid.Frame) {
	defer close(frames)
	poll := time.Duration(a.config.Device.PollIntervalMs) * time.Millisecond

	for {
		err := a.hidDevice.ReadFrames(ctx, frames)
		if ctx.Err() != nil {
			return
		}
		log.Printf("HID read error: %v, waiting for device", err)

		select {
		case frames <- hid.Frame{Aborted: true}:
		case <-ctx.Done():
			return
		}

		if err := a.hidDevice.WaitForDevice(ctx, poll); err != nil {
			return
		}
		if a.verbose {
			log.Println("HID device reconnected")
		}
	}
}

// convert turns contact frames into pointer samples. Device timestamps may
// restart after a reconnect, so times are kept monotonic.
func (a *App) convert(ctx context.Context, frames <-chan hid.Frame, inputs chan<- gesture.Input) {
	defer close(inputs)

	var tracker pointer.FrameTracker
	var offset, last time.Duration

	for f := range frames {
		t := f.Time() + offset
		var samples []pointer.Sample
		if f.Aborted {
			samples = tracker.Cancel(max(t, last))
		} else {
			if t < last {
				offset += last - t
				t = last
			}
			last = t
			samples = tracker.Update(t, f.PointerContacts(a.config.Device.Scale))
		}

		for _, s := range samples {
			if a.capture != nil {
				a.capture.Add(s)
			}
			select {
			case inputs <- gesture.Input{Sample: s, Target: a.hidDevice}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (a *App) shutdown() {
	if a.verbose {
		log.Println("Shutting down...")
	}
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.ptyManager.Stop()
	a.hidDevice.Close()

	if a.capture == nil {
		return
	}
	if a.capture.Len() == 0 {
		log.Printf("No samples captured, %s not written", a.recordPath)
		return
	}
	if err := a.capture.Trace().Save(a.recordPath); err != nil {
		log.Printf("Failed to save trace: %v", err)
		return
	}
	log.Printf("Saved %d samples to %s", a.capture.Len(), a.recordPath)
}
