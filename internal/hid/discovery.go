package hid

import (
	"github.com/karalabe/hid"
)

// UsagePageDigitizer is the HID usage page for touch screens and pads
const UsagePageDigitizer uint16 = 0x0D

// Digitizer usages
const (
	UsageTouchScreen uint16 = 0x04
	UsageTouchPad    uint16 = 0x05
)

// DeviceInfo contains information about a discovered HID device
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
	SerialNumber string
	UsagePage    uint16
	Usage        uint16
}

// IsDigitizer reports whether the interface is a touch screen or touch pad
func (d DeviceInfo) IsDigitizer() bool {
	return d.UsagePage == UsagePageDigitizer &&
		(d.Usage == UsageTouchScreen || d.Usage == UsageTouchPad)
}

func fromHID(d hid.DeviceInfo) DeviceInfo {
	return DeviceInfo{
		VendorID:     d.VendorID,
		ProductID:    d.ProductID,
		Path:         d.Path,
		Manufacturer: d.Manufacturer,
		Product:      d.Product,
		SerialNumber: d.Serial,
		UsagePage:    d.UsagePage,
		Usage:        d.Usage,
	}
}

// ListDevices returns a list of all available HID devices
func ListDevices() ([]DeviceInfo, error) {
	devices := hid.Enumerate(0, 0)

	result := make([]DeviceInfo, len(devices))
	for i, d := range devices {
		result[i] = fromHID(d)
	}

	return result, nil
}

// ListDigitizers returns only the touch digitizer interfaces
func ListDigitizers() ([]DeviceInfo, error) {
	all, err := ListDevices()
	if err != nil {
		return nil, err
	}
	return FilterDigitizers(all), nil
}

// FilterDigitizers keeps the digitizer interfaces, preserving order
func FilterDigitizers(devices []DeviceInfo) []DeviceInfo {
	var out []DeviceInfo
	for _, d := range devices {
		if d.IsDigitizer() {
			out = append(out, d)
		}
	}
	return out
}

// FindDevice searches for a device matching the given vendor and product IDs.
// A digitizer interface is preferred when the device exposes several.
func FindDevice(vendorID, productID uint16) (*DeviceInfo, error) {
	devices := hid.Enumerate(vendorID, productID)
	if len(devices) == 0 {
		return nil, nil
	}

	found := fromHID(devices[0])
	for _, d := range devices {
		if info := fromHID(d); info.IsDigitizer() {
			found = info
			break
		}
	}
	return &found, nil
}
