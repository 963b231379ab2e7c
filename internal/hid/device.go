package hid

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/pleimann/gesture-pad/internal/utils"
)

// ErrDeviceClosed is returned by reads and writes after Close
var ErrDeviceClosed = errors.New("device closed")

// Device represents a connection to the touch digitizer
type Device struct {
	vendorID  uint16
	productID uint16
	device    *hid.Device
	mu        sync.Mutex
	closed    bool
}

// NewDevice opens a connection to a HID device with the specified vendor and product IDs
func NewDevice(vendorID, productID uint16) (*Device, error) {
	devices := hid.Enumerate(vendorID, productID)
	if len(devices) == 0 {
		// List available devices to help user find the right one
		if len(hid.Enumerate(0, 0)) == 0 {
			return nil, fmt.Errorf("no HID devices found on system - check USB connection")
		}
		name := utils.ExecutableName()
		return nil, fmt.Errorf("no device found with VendorID=0x%04X, ProductID=0x%04X\n"+
			"  Run '%s list-devices' to see available devices\n"+
			"  Run '%s set-device' to configure the correct device",
			vendorID, productID, name, name)
	}

	dev, err := open(devices)
	if err == nil {
		return &Device{
			vendorID:  vendorID,
			productID: productID,
			device:    dev,
		}, nil
	}

	if len(devices) == 1 {
		return nil, fmt.Errorf("failed to open device 0x%04X:0x%04X: %w\n"+
			"  This may be a permissions issue. On Linux, add a udev rule granting\n"+
			"  access to /dev/hidraw*. On macOS, try:\n"+
			"  System Settings > Privacy & Security > Input Monitoring",
			vendorID, productID, err)
	}
	return nil, fmt.Errorf("failed to open any of %d interfaces for device 0x%04X:0x%04X: %w",
		len(devices), vendorID, productID, err)
}

// open tries each interface, digitizer interfaces first, until one opens.
// Composite devices expose several interfaces and not all of them can be
// opened.
func open(devices []hid.DeviceInfo) (*hid.Device, error) {
	ordered := make([]hid.DeviceInfo, 0, len(devices))
	for _, d := range devices {
		if d.UsagePage == UsagePageDigitizer {
			ordered = append(ordered, d)
		}
	}
	for _, d := range devices {
		if d.UsagePage != UsagePageDigitizer {
			ordered = append(ordered, d)
		}
	}

	var lastErr error
	for _, info := range ordered {
		dev, err := info.Open()
		if err == nil {
			return dev, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Close closes the HID device connection
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.device != nil {
		return d.device.Close()
	}
	return nil
}

// ReadFrames continuously reads touch frames from the device and sends them
// to the channel. Reports that fail to parse are skipped.
func (d *Device) ReadFrames(ctx context.Context, frames chan<- Frame) error {
	buf := make([]byte, 64)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.mu.Lock()
		if d.closed || d.device == nil {
			d.mu.Unlock()
			return ErrDeviceClosed
		}
		dev := d.device
		d.mu.Unlock()

		n, err := dev.Read(buf)
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}
		if n == 0 {
			continue
		}

		frame, err := ParseFrame(buf[:n])
		if err != nil {
			continue
		}

		select {
		case frames <- *frame:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Write sends a raw output report to the device
func (d *Device) Write(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.device == nil {
		return ErrDeviceClosed
	}

	_, err := d.device.Write(data)
	return err
}

// Reconnect attempts to reconnect to the device
func (d *Device) Reconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device != nil {
		d.device.Close()
		d.device = nil
	}
	d.closed = false

	devices := hid.Enumerate(d.vendorID, d.productID)
	if len(devices) == 0 {
		return fmt.Errorf("device not found")
	}

	dev, err := open(devices)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	d.device = dev
	return nil
}

// WaitForDevice waits for a device to become available and connects to it
func (d *Device) WaitForDevice(ctx context.Context, pollInterval time.Duration) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.Reconnect(); err == nil {
				return nil
			}
		}
	}
}
