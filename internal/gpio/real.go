//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

var _ IO = (*RealIO)(nil)

// RealIO drives pins on actual hardware using Linux GPIO character device.
type RealIO struct {
	chip    *gpiocdev.Chip
	inputs  map[int]*gpiocdev.Line
	outputs map[int]*gpiocdev.Line
}

// NewRealIO requests the given input and output lines on chip.
// Inputs use pull-down to match Pi boot defaults; outputs start low.
func NewRealIO(chip string, inputs, outputs []int) (*RealIO, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealIO{
		chip:    c,
		inputs:  make(map[int]*gpiocdev.Line, len(inputs)),
		outputs: make(map[int]*gpiocdev.Line, len(outputs)),
	}

	for _, pin := range inputs {
		line, err := c.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request input pin %d: %w", pin, err)
		}
		r.inputs[pin] = line
	}

	for _, pin := range outputs {
		line, err := c.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request output pin %d: %w", pin, err)
		}
		r.outputs[pin] = line
	}

	return r, nil
}

// Read returns the logical level of an input pin.
func (r *RealIO) Read(pin int) (bool, error) {
	line, ok := r.inputs[pin]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownPin, pin)
	}
	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin %d: %w", pin, err)
	}
	return v == 1, nil
}

// Write drives an output pin.
func (r *RealIO) Write(pin int, value bool) error {
	line, ok := r.outputs[pin]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPin, pin)
	}
	v := 0
	if value {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("write pin %d: %w", pin, err)
	}
	return nil
}

// Close releases GPIO resources.
// Outputs are driven low, then every line is reconfigured to input with
// pull-down (matching Raspberry Pi boot defaults) before closing, so the
// LED and buzzer are left off across shutdown/reboot.
func (r *RealIO) Close() error {
	var errs []error

	for pin, line := range r.outputs {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("drive pin %d low: %w", pin, err))
		}
	}

	for _, lines := range []map[int]*gpiocdev.Line{r.inputs, r.outputs} {
		for pin, line := range lines {
			if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
				errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", pin, err))
			}
			if err := line.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
			}
		}
	}

	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
