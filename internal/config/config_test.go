package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pleimann/gesture-pad/internal/gesture"
)

const yamlConfig = `
device:
  vendor_id: 0x1234
  product_id: 0x5678
  poll_interval_ms: 20
  scale: 0.5

gesture:
  touch_slop: 12
  tap_slop: 80
  min_fling_velocity: 100
  max_fling_velocity: 6000
  tap_timeout_ms: 200
  long_press_timeout_ms: 400
  policy: drag_only
  multitouch: false
  enable:
    pinch: false

tui:
  command: "test-app"
  args: ["--flag", "value"]
  working_dir: "/tmp"

bindings:
  - gesture: double_tap
    keys: ["ctrl+z"]
  - gesture: pinch_in
    keys: ["ctrl+-"]
`

const tomlConfig = `
bindings = [
  { gesture = "double_tap", keys = ["ctrl+z"] },
  { gesture = "pinch_in", keys = ["ctrl+-"] },
]

[device]
vendor_id = 0x1234
product_id = 0x5678
poll_interval_ms = 20
scale = 0.5

[gesture]
touch_slop = 12.0
tap_slop = 80.0
min_fling_velocity = 100.0
max_fling_velocity = 6000.0
tap_timeout_ms = 200
long_press_timeout_ms = 400
policy = "drag_only"
multitouch = false

[gesture.enable]
pinch = false

[tui]
command = "test-app"
args = ["--flag", "value"]
working_dir = "/tmp"
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "config.yaml", yamlConfig},
		{"toml", "config.toml", tomlConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if cfg.Device.VendorID != 0x1234 || cfg.Device.ProductID != 0x5678 {
				t.Errorf("device = 0x%04X:0x%04X, want 0x1234:0x5678", cfg.Device.VendorID, cfg.Device.ProductID)
			}
			if cfg.Device.PollIntervalMs != 20 || cfg.Device.Scale != 0.5 {
				t.Errorf("device = %+v", cfg.Device)
			}

			want := gesture.Thresholds{
				TouchSlop:        12,
				TapSlop:          80,
				MinFlingVelocity: 100,
				MaxFlingVelocity: 6000,
				TapTimeout:       200 * time.Millisecond,
				LongPressTimeout: 400 * time.Millisecond,
			}
			if got := cfg.Gesture.Thresholds(); got != want {
				t.Errorf("Thresholds() = %+v, want %+v", got, want)
			}
			if cfg.Gesture.Mode() != gesture.ModeDragOnly {
				t.Errorf("Mode() = %s, want drag_only", cfg.Gesture.Mode())
			}
			if cfg.Gesture.MultitouchEnabled() {
				t.Error("multitouch should be disabled")
			}
			if !cfg.Gesture.Enable.TapEnabled() || cfg.Gesture.Enable.PinchEnabled() {
				t.Errorf("enable = tap %v pinch %v, want true false",
					cfg.Gesture.Enable.TapEnabled(), cfg.Gesture.Enable.PinchEnabled())
			}

			if cfg.TUI.Command != "test-app" || !reflect.DeepEqual(cfg.TUI.Args, []string{"--flag", "value"}) {
				t.Errorf("tui = %+v", cfg.TUI)
			}
			if cfg.TUI.KeyDelayMs != 10 {
				t.Errorf("KeyDelayMs = %d, want default 10", cfg.TUI.KeyDelayMs)
			}

			wantBindings := []Binding{
				{Gesture: "double_tap", Keys: []string{"ctrl+z"}},
				{Gesture: "pinch_in", Keys: []string{"ctrl+-"}},
			}
			if !reflect.DeepEqual(cfg.Bindings, wantBindings) {
				t.Errorf("Bindings = %+v, want %+v", cfg.Bindings, wantBindings)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", "tui:\n  command: app\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got, want := cfg.Gesture.Thresholds(), gesture.DefaultThresholds(); got != want {
		t.Errorf("Thresholds() = %+v, want defaults %+v", got, want)
	}
	if cfg.Gesture.Mode() != gesture.ModeAll {
		t.Errorf("Mode() = %s, want all", cfg.Gesture.Mode())
	}
	if !cfg.Gesture.MultitouchEnabled() {
		t.Error("multitouch should default to enabled")
	}
	if cfg.Device.PollIntervalMs != 10 || cfg.Device.Scale != 1 {
		t.Errorf("device defaults = %+v", cfg.Device)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"negative slop", "gesture:\n  touch_slop: -1\n", "touch_slop"},
		{"fling range", "gesture:\n  min_fling_velocity: 900\n  max_fling_velocity: 100\n", "min_fling_velocity"},
		{"unknown policy", "gesture:\n  policy: pinch_only\n", "policy"},
		{"unknown gesture", "bindings:\n  - gesture: wiggle\n    keys: [a]\n", "unknown gesture"},
		{"duplicate binding", "bindings:\n  - gesture: single_tap\n    keys: [a]\n  - gesture: single_tap\n    keys: [b]\n", "duplicate"},
		{"binding without keys", "bindings:\n  - gesture: long_press\n", "no keys"},
		{"malformed yaml", "gesture: [", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.yaml", tt.content))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRun(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", "gesture:\n  policy: all\n"))
	if err != nil {
		t.Fatal(err)
	}
	err = cfg.ValidateRun()
	if err == nil {
		t.Fatal("ValidateRun() = nil, want missing device and command")
	}
	for _, want := range []string{"vendor_id", "product_id", "tui.command"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("ValidateRun() = %v, missing %q", err, want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}

func TestApply(t *testing.T) {
	cfg, err := Parse([]byte(yamlConfig), YAML)
	if err != nil {
		t.Fatal(err)
	}
	d := gesture.New(gesture.DefaultThresholds())
	if err := cfg.Gesture.Apply(d); err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	if d.Mode() != gesture.ModeDragOnly {
		t.Errorf("Mode() = %s, want drag_only", d.Mode())
	}
	if d.Thresholds().TouchSlop != 12 {
		t.Errorf("TouchSlop = %v, want 12", d.Thresholds().TouchSlop)
	}
	if d.PinchEnabled() || !d.DragEnabled() {
		t.Errorf("enable flags = pinch %v drag %v", d.PinchEnabled(), d.DragEnabled())
	}
}

func TestUpdateDeviceIDs(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"yaml", "config.yaml"},
		{"toml", "config.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := CreateDefaultConfig(path, 0x1111, 0x2222); err != nil {
				t.Fatalf("CreateDefaultConfig() = %v", err)
			}
			if !Exists(path) {
				t.Fatal("config file was not created")
			}
			if err := UpdateDeviceIDs(path, 0xABCD, 0x00EF); err != nil {
				t.Fatalf("UpdateDeviceIDs() = %v", err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() after update = %v", err)
			}
			if cfg.Device.VendorID != 0xABCD || cfg.Device.ProductID != 0x00EF {
				t.Errorf("device = 0x%04X:0x%04X", cfg.Device.VendorID, cfg.Device.ProductID)
			}
			if len(cfg.Bindings) != 4 {
				t.Errorf("bindings lost: %+v", cfg.Bindings)
			}
		})
	}
}

func TestWatcherReload(t *testing.T) {
	path := writeConfig(t, "config.yaml", "gesture:\n  touch_slop: 5\n")
	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() = %v", err)
	}
	defer w.Stop()

	reloaded := make(chan *Config, 4)
	w.OnReload(func(c *Config) { reloaded <- c })
	w.Start()

	if err := os.WriteFile(path, []byte("gesture:\n  touch_slop: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case c := <-reloaded:
			if c.Gesture.TouchSlop == 9 {
				if w.Get().Gesture.TouchSlop != 9 {
					t.Error("Get() does not return the reloaded config")
				}
				return
			}
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}
}
