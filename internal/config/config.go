package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pleimann/gesture-pad/internal/gesture"
)

type Config struct {
	Device   DeviceConfig  `yaml:"device" toml:"device"`
	Gesture  GestureConfig `yaml:"gesture" toml:"gesture"`
	TUI      TUIConfig     `yaml:"tui" toml:"tui"`
	Bindings []Binding     `yaml:"bindings" toml:"bindings"`
}

type DeviceConfig struct {
	VendorID       uint16 `yaml:"vendor_id" toml:"vendor_id"`
	ProductID      uint16 `yaml:"product_id" toml:"product_id"`
	PollIntervalMs int    `yaml:"poll_interval_ms" toml:"poll_interval_ms"`
	// Scale converts digitizer units to pixels
	Scale float32 `yaml:"scale" toml:"scale"`
}

type GestureConfig struct {
	TouchSlop          float32      `yaml:"touch_slop" toml:"touch_slop"`
	TapSlop            float32      `yaml:"tap_slop" toml:"tap_slop"`
	MinFlingVelocity   float32      `yaml:"min_fling_velocity" toml:"min_fling_velocity"`
	MaxFlingVelocity   float32      `yaml:"max_fling_velocity" toml:"max_fling_velocity"`
	TapTimeoutMs       int          `yaml:"tap_timeout_ms" toml:"tap_timeout_ms"`
	LongPressTimeoutMs int          `yaml:"long_press_timeout_ms" toml:"long_press_timeout_ms"`
	Policy             string       `yaml:"policy" toml:"policy"`
	Multitouch         *bool        `yaml:"multitouch,omitempty" toml:"multitouch,omitempty"`
	Enable             EnableConfig `yaml:"enable" toml:"enable"`
}

// EnableConfig switches gesture families on and off. Unset means on.
type EnableConfig struct {
	Tap       *bool `yaml:"tap,omitempty" toml:"tap,omitempty"`
	LongPress *bool `yaml:"long_press,omitempty" toml:"long_press,omitempty"`
	Drag      *bool `yaml:"drag,omitempty" toml:"drag,omitempty"`
	Pinch     *bool `yaml:"pinch,omitempty" toml:"pinch,omitempty"`
}

type TUIConfig struct {
	Command    string   `yaml:"command" toml:"command"`
	Args       []string `yaml:"args" toml:"args"`
	WorkingDir string   `yaml:"working_dir,omitempty" toml:"working_dir,omitempty"`
	KeyDelayMs int      `yaml:"key_delay_ms" toml:"key_delay_ms"`
}

// Binding maps a gesture key such as "double_tap" or "drag_fling_left" to a
// key sequence
type Binding struct {
	Gesture string   `yaml:"gesture" toml:"gesture"`
	Keys    []string `yaml:"keys" toml:"keys"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Format is the encoding of a config file
type Format int

const (
	YAML Format = iota
	TOML
)

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOML
	}
	return YAML
}

// Parse decodes, validates and completes a config
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	var err error
	switch format {
	case TOML:
		err = toml.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) validate() error {
	g := c.Gesture
	if g.TouchSlop < 0 {
		return fmt.Errorf("gesture.touch_slop must not be negative")
	}
	if g.TapSlop < 0 {
		return fmt.Errorf("gesture.tap_slop must not be negative")
	}
	if g.MinFlingVelocity < 0 || g.MaxFlingVelocity < 0 {
		return fmt.Errorf("gesture fling velocities must not be negative")
	}
	if g.MaxFlingVelocity != 0 && g.MinFlingVelocity > g.MaxFlingVelocity {
		return fmt.Errorf("gesture.min_fling_velocity %v exceeds max_fling_velocity %v", g.MinFlingVelocity, g.MaxFlingVelocity)
	}
	if g.TapTimeoutMs < 0 || g.LongPressTimeoutMs < 0 {
		return fmt.Errorf("gesture timeouts must not be negative")
	}
	if _, err := gesture.ParseMode(g.Policy); err != nil {
		return fmt.Errorf("gesture.policy: %w", err)
	}
	if c.Device.Scale < 0 {
		return fmt.Errorf("device.scale must not be negative")
	}

	// Validate bindings name known gestures, once each
	seen := make(map[string]bool)
	for i, b := range c.Bindings {
		if !gesture.IsKey(b.Gesture) {
			return fmt.Errorf("binding %d: unknown gesture %q (known: %s)", i, b.Gesture, strings.Join(gesture.Keys, ", "))
		}
		if seen[b.Gesture] {
			return fmt.Errorf("duplicate binding for gesture: %s", b.Gesture)
		}
		seen[b.Gesture] = true
		if len(b.Keys) == 0 {
			return fmt.Errorf("binding %s has no keys", b.Gesture)
		}
	}

	return nil
}

// ValidateRun checks the settings only the device bridge needs
func (c *Config) ValidateRun() error {
	var errs []error
	if c.Device.VendorID == 0 {
		errs = append(errs, errors.New("device.vendor_id is required"))
	}
	if c.Device.ProductID == 0 {
		errs = append(errs, errors.New("device.product_id is required"))
	}
	if c.TUI.Command == "" {
		errs = append(errs, errors.New("tui.command is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	def := gesture.DefaultThresholds()
	if c.Device.PollIntervalMs == 0 {
		c.Device.PollIntervalMs = 10
	}
	if c.Device.Scale == 0 {
		c.Device.Scale = 1
	}
	if c.Gesture.TouchSlop == 0 {
		c.Gesture.TouchSlop = def.TouchSlop
	}
	if c.Gesture.TapSlop == 0 {
		c.Gesture.TapSlop = def.TapSlop
	}
	if c.Gesture.MinFlingVelocity == 0 {
		c.Gesture.MinFlingVelocity = def.MinFlingVelocity
	}
	if c.Gesture.MaxFlingVelocity == 0 {
		c.Gesture.MaxFlingVelocity = def.MaxFlingVelocity
	}
	if c.Gesture.TapTimeoutMs == 0 {
		c.Gesture.TapTimeoutMs = int(def.TapTimeout / time.Millisecond)
	}
	if c.Gesture.LongPressTimeoutMs == 0 {
		c.Gesture.LongPressTimeoutMs = int(def.LongPressTimeout / time.Millisecond)
	}
	if c.Gesture.Policy == "" {
		c.Gesture.Policy = gesture.ModeAll.String()
	}
	if c.TUI.KeyDelayMs == 0 {
		c.TUI.KeyDelayMs = 10
	}
}

// Thresholds converts the gesture settings for the detector
func (g GestureConfig) Thresholds() gesture.Thresholds {
	return gesture.Thresholds{
		TouchSlop:        g.TouchSlop,
		TapSlop:          g.TapSlop,
		MinFlingVelocity: g.MinFlingVelocity,
		MaxFlingVelocity: g.MaxFlingVelocity,
		TapTimeout:       time.Duration(g.TapTimeoutMs) * time.Millisecond,
		LongPressTimeout: time.Duration(g.LongPressTimeoutMs) * time.Millisecond,
	}
}

// Mode returns the policy mode; the policy was checked when loading
func (g GestureConfig) Mode() gesture.Mode {
	m, _ := gesture.ParseMode(g.Policy)
	return m
}

func (g GestureConfig) MultitouchEnabled() bool { return on(g.Multitouch) }

func (e EnableConfig) TapEnabled() bool       { return on(e.Tap) }
func (e EnableConfig) LongPressEnabled() bool { return on(e.LongPress) }
func (e EnableConfig) DragEnabled() bool      { return on(e.Drag) }
func (e EnableConfig) PinchEnabled() bool     { return on(e.Pinch) }

func on(b *bool) bool {
	return b == nil || *b
}

// Apply pushes the gesture settings into a detector. Mode, thresholds and
// multitouch latch at the detector's next idle.
func (g GestureConfig) Apply(d *gesture.Detector) error {
	if err := d.Reconfigure(g.Thresholds()); err != nil {
		return fmt.Errorf("invalid gesture thresholds: %w", err)
	}
	d.Select(g.Mode())
	d.SetMultitouch(g.MultitouchEnabled())
	d.SetTapEnabled(g.Enable.TapEnabled())
	d.SetLongPressEnabled(g.Enable.LongPressEnabled())
	d.SetDragEnabled(g.Enable.DragEnabled())
	d.SetPinchEnabled(g.Enable.PinchEnabled())
	return nil
}

// UpdateDeviceIDs updates the vendor_id and product_id in a config file
// while preserving the rest of the file structure and comments. Both the
// YAML (key: value) and TOML (key = value) spellings are handled.
func UpdateDeviceIDs(path string, vendorID, productID uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)

	vendorRegex := regexp.MustCompile(`(?m)^(\s*vendor_id\s*[:=]\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = vendorRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", vendorID))

	productRegex := regexp.MustCompile(`(?m)^(\s*product_id\s*[:=]\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = productRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", productID))

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

const defaultYAML = `# Gesture Pad Configuration

device:
  vendor_id: 0x%04X
  product_id: 0x%04X
  poll_interval_ms: 10
  scale: 1.0

gesture:
  touch_slop: 8
  tap_slop: 100
  min_fling_velocity: 50
  max_fling_velocity: 8000
  tap_timeout_ms: 150
  long_press_timeout_ms: 500
  policy: all
  multitouch: true
  enable:
    tap: true
    long_press: true
    drag: true
    pinch: true

tui:
  command: "your-tui-app"
  args: []

# Gesture bindings
bindings:
  - gesture: single_tap
    keys: ["enter"]
  - gesture: double_tap
    keys: ["esc"]
  - gesture: drag_fling_up
    keys: ["up"]
  - gesture: drag_fling_down
    keys: ["down"]
`

const defaultTOML = `# Gesture Pad Configuration

bindings = [
  { gesture = "single_tap", keys = ["enter"] },
  { gesture = "double_tap", keys = ["esc"] },
  { gesture = "drag_fling_up", keys = ["up"] },
  { gesture = "drag_fling_down", keys = ["down"] },
]

[device]
vendor_id = 0x%04X
product_id = 0x%04X
poll_interval_ms = 10
scale = 1.0

[gesture]
touch_slop = 8.0
tap_slop = 100.0
min_fling_velocity = 50.0
max_fling_velocity = 8000.0
tap_timeout_ms = 150
long_press_timeout_ms = 500
policy = "all"
multitouch = true

[gesture.enable]
tap = true
long_press = true
drag = true
pinch = true

[tui]
command = "your-tui-app"
args = []
`

// CreateDefaultConfig creates a new config file with default values and the
// specified device. A .toml path gets the TOML rendition.
func CreateDefaultConfig(path string, vendorID, productID uint16) error {
	template := defaultYAML
	if formatOf(path) == TOML {
		template = defaultTOML
	}
	content := fmt.Sprintf(template, vendorID, productID)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
