// Package gpio provides digital pin I/O with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "errors"

// ErrUnknownPin is returned for a pin that was not requested at open time.
var ErrUnknownPin = errors.New("gpio: pin not requested")

// IO reads input pins and drives output pins.
// Values are logical: true = high.
type IO interface {
	Read(pin int) (bool, error)
	Write(pin int, value bool) error

	// Close releases GPIO resources.
	Close() error
}

// DefaultChip is the Raspberry Pi header GPIO chip.
const DefaultChip = "gpiochip0"
