package main

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/sweeney/office-controller/internal/clock"
	"github.com/sweeney/office-controller/internal/config"
	"github.com/sweeney/office-controller/internal/gpio"
	"github.com/sweeney/office-controller/internal/logic"
	"github.com/sweeney/office-controller/internal/lux"
	"github.com/sweeney/office-controller/internal/servo"
)

// hardware holds the opened collaborators and closes them in reverse order.
type hardware struct {
	logic.Hardware
	closers []io.Closer
}

func openHardware(cfg config.Config) (*hardware, error) {
	hw := &hardware{}
	fail := func(err error) (*hardware, error) {
		return nil, hw.abort(err)
	}

	dio, err := gpio.NewRealIO(cfg.Chip, cfg.Pins.Inputs(), cfg.Pins.Outputs())
	if err != nil {
		return fail(fmt.Errorf("init gpio: %w", err))
	}
	hw.closers = append(hw.closers, dio)
	hw.IO = dio

	sv, err := servo.NewPWMServo(cfg.ServoPin)
	if err != nil {
		return fail(fmt.Errorf("init servo: %w", err))
	}
	hw.closers = append(hw.closers, sv)
	hw.Servo = sv

	if _, err := host.Init(); err != nil {
		return fail(fmt.Errorf("init periph host: %w", err))
	}
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fail(fmt.Errorf("open i2c bus %q: %w", cfg.I2CBus, err))
	}
	hw.closers = append(hw.closers, bus)

	light, err := lux.NewVEML7700(bus, cfg.LightAddr)
	if err != nil {
		return fail(fmt.Errorf("init light sensor: %w", err))
	}
	hw.closers = append(hw.closers, light)
	hw.Light = light

	switch cfg.ClockSource {
	case config.ClockDS3231:
		loc, err := cfg.Location()
		if err != nil {
			return fail(fmt.Errorf("clock timezone: %w", err))
		}
		hw.Clock = clock.NewDS3231(bus, cfg.ClockAddr, loc)
	default:
		hw.Clock = clock.System{}
	}

	return hw, nil
}

// abort closes whatever was opened and joins any close failure to err.
func (h *hardware) abort(err error) error {
	if cerr := h.Close(); cerr != nil {
		return errors.Join(err, fmt.Errorf("close hardware: %w", cerr))
	}
	return err
}

// Close releases everything opened so far.
func (h *hardware) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	h.closers = nil

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
