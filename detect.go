package provision

import (
	"errors"
	"fmt"

	"github.com/karalabe/usb"
)

// USB ids of the STM32 ROM bootloader in DFU mode.
const (
	dfuVendorID  = 0x0483
	dfuProductID = 0xdf11
)

// ErrUSBNotSupported is returned when USB enumeration support is missing.
//
// When building, CGO is required for USB support.
var ErrUSBNotSupported = errors.New("provision: usb support is missing")

// DFUDevice describes an attached device in DFU mode.
type DFUDevice struct {
	Path         string
	Manufacturer string
	Product      string
	Serial       string
}

// ListDFUDevices enumerates attached STM32 bootloaders.
//
// This is a convenience check before invoking dfu-util; dfu-util itself
// still selects the device through its vendor:product option.
func ListDFUDevices() ([]DFUDevice, error) {
	if !usb.Supported() {
		return nil, ErrUSBNotSupported
	}

	infos, err := usb.Enumerate(dfuVendorID, dfuProductID)
	if err != nil {
		return nil, fmt.Errorf("provision: enumerate usb devices: %w", err)
	}

	devs := make([]DFUDevice, 0, len(infos))
	for _, info := range infos {
		devs = append(devs, DFUDevice{
			Path:         info.Path,
			Manufacturer: info.Manufacturer,
			Product:      info.Product,
			Serial:       info.Serial,
		})
	}
	return devs, nil
}
