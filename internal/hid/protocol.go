package hid

import (
	"encoding/binary"
	"fmt"
	"time"

	"gioui.org/f32"

	"github.com/pleimann/gesture-pad/internal/pointer"
)

// Report IDs
const (
	ReportIDTouchFrame byte = 0x03
	ReportIDTouchAbort byte = 0x04
)

// Contact flags
const (
	FlagTip        byte = 0x01 // finger touching the surface
	FlagConfidence byte = 0x02 // not a palm
)

const (
	frameHeaderSize = 6
	contactSize     = 6
	// MaxContacts is how many contacts fit in one 64 byte report
	MaxContacts = (64 - frameHeaderSize) / contactSize
)

// Contact is one finger slot of a touch frame
type Contact struct {
	ID    uint8
	Flags byte
	X     uint16
	Y     uint16
}

// Touching reports whether the contact is a confident touch
func (c Contact) Touching() bool {
	return c.Flags&FlagTip != 0 && c.Flags&FlagConfidence != 0
}

// Frame is one digitizer report: every contact the device tracks. An aborted
// frame tells the host to drop the current touch sequence (for example on
// palm detection).
type Frame struct {
	Timestamp uint32
	Aborted   bool
	Contacts  []Contact
}

// Time returns the device timestamp as a duration since device boot
func (f Frame) Time() time.Duration {
	return time.Duration(f.Timestamp) * time.Millisecond
}

// PointerContacts converts the frame for pointer.FrameTracker, scaling
// digitizer units to pixels
func (f Frame) PointerContacts(scale float32) []pointer.Contact {
	out := make([]pointer.Contact, len(f.Contacts))
	for i, c := range f.Contacts {
		out[i] = pointer.Contact{
			ID:       pointer.ID(c.ID),
			Position: f32.Pt(float32(c.X)*scale, float32(c.Y)*scale),
			Touching: c.Touching(),
		}
	}
	return out
}

// ParseFrame parses a raw HID report into a Frame
// Expected format:
//
//	Byte 0: Report ID (0x03 frame, 0x04 abort)
//	Byte 1: Contact count n
//	Byte 2-5: Timestamp (ms since boot, little-endian u32)
//	Byte 6+: n contacts of 6 bytes each:
//	  id (u8), flags (u8), x (u16 LE), y (u16 LE)
func ParseFrame(data []byte) (*Frame, error) {
	if len(data) < frameHeaderSize {
		return nil, fmt.Errorf("frame data too short: %d bytes", len(data))
	}

	switch data[0] {
	case ReportIDTouchFrame, ReportIDTouchAbort:
	default:
		return nil, fmt.Errorf("unexpected report ID: 0x%02X", data[0])
	}

	frame := &Frame{
		Timestamp: binary.LittleEndian.Uint32(data[2:6]),
		Aborted:   data[0] == ReportIDTouchAbort,
	}
	if frame.Aborted {
		return frame, nil
	}

	count := int(data[1])
	if count > MaxContacts {
		return nil, fmt.Errorf("contact count %d exceeds maximum %d", count, MaxContacts)
	}
	if need := frameHeaderSize + count*contactSize; len(data) < need {
		return nil, fmt.Errorf("frame with %d contacts needs %d bytes, got %d", count, need, len(data))
	}

	seen := make(map[uint8]bool, count)
	frame.Contacts = make([]Contact, count)
	for i := range frame.Contacts {
		b := data[frameHeaderSize+i*contactSize:]
		c := Contact{
			ID:    b[0],
			Flags: b[1],
			X:     binary.LittleEndian.Uint16(b[2:4]),
			Y:     binary.LittleEndian.Uint16(b[4:6]),
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate contact id %d", c.ID)
		}
		seen[c.ID] = true
		frame.Contacts[i] = c
	}

	return frame, nil
}

// Encode serializes the frame in the wire format ParseFrame reads
func (f *Frame) Encode() []byte {
	if f.Aborted {
		buf := make([]byte, frameHeaderSize)
		buf[0] = ReportIDTouchAbort
		binary.LittleEndian.PutUint32(buf[2:6], f.Timestamp)
		return buf
	}

	buf := make([]byte, frameHeaderSize+len(f.Contacts)*contactSize)
	buf[0] = ReportIDTouchFrame
	buf[1] = byte(len(f.Contacts))
	binary.LittleEndian.PutUint32(buf[2:6], f.Timestamp)
	for i, c := range f.Contacts {
		b := buf[frameHeaderSize+i*contactSize:]
		b[0] = c.ID
		b[1] = c.Flags
		binary.LittleEndian.PutUint16(b[2:4], c.X)
		binary.LittleEndian.PutUint16(b[4:6], c.Y)
	}
	return buf
}
