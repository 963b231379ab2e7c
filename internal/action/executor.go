package action

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// KeyWriter is the interface for writing key sequences
type KeyWriter interface {
	WriteKey(key KeyPress) error
}

// Executor writes key sequences, pausing between keys so the receiving TUI
// sees them as separate presses
type Executor struct {
	writer KeyWriter
	delay  time.Duration
	sleep  func(time.Duration)
}

// NewExecutor creates a new action executor
func NewExecutor(writer KeyWriter, delay time.Duration) *Executor {
	return &Executor{writer: writer, delay: delay, sleep: time.Sleep}
}

// SetDelay changes the pause between keys
func (e *Executor) SetDelay(d time.Duration) {
	e.delay = d
}

// Execute parses and writes a sequence of key strings
func (e *Executor) Execute(keys []string) error {
	seq, err := ParseSequence(keys)
	if err != nil {
		return err
	}
	return e.Press(seq)
}

// Press writes already parsed keys
func (e *Executor) Press(seq []KeyPress) error {
	for i, key := range seq {
		if i > 0 && e.delay > 0 {
			e.sleep(e.delay)
		}
		if err := e.writer.WriteKey(key); err != nil {
			return fmt.Errorf("failed to write key %q: %w", key, err)
		}
	}
	return nil
}

// KeyPress represents a parsed key with modifiers
type KeyPress struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
	Key   string // The base key (e.g., "c", "enter", "f1")
}

func (kp KeyPress) String() string {
	var parts []string
	if kp.Ctrl {
		parts = append(parts, "ctrl")
	}
	if kp.Alt {
		parts = append(parts, "alt")
	}
	if kp.Shift {
		parts = append(parts, "shift")
	}
	if kp.Meta {
		parts = append(parts, "meta")
	}
	return strings.Join(append(parts, kp.Key), "+")
}

// ParseSequence parses every key of a binding
func ParseSequence(keys []string) ([]KeyPress, error) {
	seq := make([]KeyPress, len(keys))
	for i, s := range keys {
		kp, err := ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("invalid key %q: %w", s, err)
		}
		seq[i] = kp
	}
	return seq, nil
}

// ParseKey parses a key string like "ctrl+shift+c" into a KeyPress
func ParseKey(s string) (KeyPress, error) {
	var kp KeyPress

	parts := strings.Split(strings.ToLower(s), "+")
	// A trailing "+" names the plus key itself
	if strings.HasSuffix(s, "++") || s == "+" {
		parts = append(parts[:len(parts)-2], "+")
	}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Last part is the actual key
		if i == len(parts)-1 {
			kp.Key = part
			break
		}

		switch part {
		case "ctrl", "control":
			kp.Ctrl = true
		case "alt", "option":
			kp.Alt = true
		case "shift":
			kp.Shift = true
		case "meta", "cmd", "command", "win", "super":
			kp.Meta = true
		default:
			return KeyPress{}, fmt.Errorf("unknown modifier: %s", part)
		}
	}

	if kp.Key == "" {
		return KeyPress{}, fmt.Errorf("no key specified")
	}

	if !isValidKey(kp.Key) {
		return KeyPress{}, fmt.Errorf("invalid key: %s", kp.Key)
	}

	return kp, nil
}

// specialKeys maps named keys to the bytes a terminal sends for them
var specialKeys = map[string][]byte{
	"enter":     {'\r'},
	"return":    {'\r'},
	"tab":       {'\t'},
	"esc":       {0x1b},
	"escape":    {0x1b},
	"space":     {' '},
	"backspace": {0x7f},
	"delete":    {0x1b, '[', '3', '~'},
	"del":       {0x1b, '[', '3', '~'},
	"insert":    {0x1b, '[', '2', '~'},
	"ins":       {0x1b, '[', '2', '~'},
	"home":      {0x1b, '[', 'H'},
	"end":       {0x1b, '[', 'F'},
	"pageup":    {0x1b, '[', '5', '~'},
	"pgup":      {0x1b, '[', '5', '~'},
	"pagedown":  {0x1b, '[', '6', '~'},
	"pgdn":      {0x1b, '[', '6', '~'},
	"up":        {0x1b, '[', 'A'},
	"down":      {0x1b, '[', 'B'},
	"right":     {0x1b, '[', 'C'},
	"left":      {0x1b, '[', 'D'},
	"f1":        {0x1b, 'O', 'P'},
	"f2":        {0x1b, 'O', 'Q'},
	"f3":        {0x1b, 'O', 'R'},
	"f4":        {0x1b, 'O', 'S'},
	"f5":        {0x1b, '[', '1', '5', '~'},
	"f6":        {0x1b, '[', '1', '7', '~'},
	"f7":        {0x1b, '[', '1', '8', '~'},
	"f8":        {0x1b, '[', '1', '9', '~'},
	"f9":        {0x1b, '[', '2', '0', '~'},
	"f10":       {0x1b, '[', '2', '1', '~'},
	"f11":       {0x1b, '[', '2', '3', '~'},
	"f12":       {0x1b, '[', '2', '4', '~'},
}

// ctrlSymbols are the non-letter characters with a control code
var ctrlSymbols = map[byte]byte{
	'[':  0x1b, // ESC
	'\\': 0x1c, // FS
	']':  0x1d, // GS
	'^':  0x1e, // RS
	'_':  0x1f, // US
	'?':  0x7f, // DEL
}

// isValidKey checks if a key name is valid
func isValidKey(key string) bool {
	if utf8.RuneCountInString(key) == 1 {
		return true
	}
	_, ok := specialKeys[key]
	return ok
}

// ToBytes converts a KeyPress to the bytes to write to a PTY
func (kp KeyPress) ToBytes() []byte {
	if kp.Ctrl && !kp.Alt && !kp.Meta && len(kp.Key) == 1 {
		char := kp.Key[0]
		// ctrl+a through ctrl+z are ASCII 1-26
		if char >= 'a' && char <= 'z' {
			return []byte{char - 'a' + 1}
		}
		if code, ok := ctrlSymbols[char]; ok {
			return []byte{code}
		}
	}

	if b, ok := specialKeys[kp.Key]; ok {
		return append([]byte(nil), b...)
	}

	// Alt key sends ESC prefix
	if kp.Alt && len(kp.Key) == 1 {
		return []byte{0x1b, kp.Key[0]}
	}

	if len(kp.Key) == 1 {
		char := kp.Key[0]
		if kp.Shift && char >= 'a' && char <= 'z' {
			return []byte{char - 32}
		}
		return []byte{char}
	}

	// Multi-byte runes are written as typed
	if utf8.RuneCountInString(kp.Key) == 1 {
		return []byte(kp.Key)
	}
	return nil
}
