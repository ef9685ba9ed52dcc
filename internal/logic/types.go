// Package logic contains the pure decision layer of the office controller.
// This package has NO hardware dependencies: every sensor and actuator is
// reached through the interfaces below, injected at construction.
// It never loops or sleeps; callers decide when each rule runs.
package logic

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPin is returned when a pin is not part of the assignment
// expected by an operation.
var ErrInvalidPin = errors.New("invalid pin")

// DigitalIO reads and writes single boolean pins.
type DigitalIO interface {
	Read(pin int) (bool, error)
	Write(pin int, value bool) error
}

// RealTimeClock reports wall-clock date and time.
type RealTimeClock interface {
	Now() (time.Time, error)
}

// LightSensor reports ambient illuminance in lux.
type LightSensor interface {
	ReadLux() (float64, error)
}

// ServoActuator positions the window blinds.
type ServoActuator interface {
	SetAngle(degrees int) error
}

// Hardware groups the collaborators a Controller drives.
type Hardware struct {
	IO    DigitalIO
	Clock RealTimeClock
	Light LightSensor
	Servo ServoActuator
}

func (h Hardware) validate() error {
	switch {
	case h.IO == nil:
		return errors.New("missing digital io")
	case h.Clock == nil:
		return errors.New("missing clock")
	case h.Light == nil:
		return errors.New("missing light sensor")
	case h.Servo == nil:
		return errors.New("missing servo")
	}
	return nil
}

// Pins is the fixed pin assignment (BCM line offsets).
type Pins struct {
	Infrared [4]int // one per room quadrant
	LED      int
	Buzzer   int
	Smoke    int
}

// DefaultPins returns the standard board wiring.
func DefaultPins() Pins {
	return Pins{
		Infrared: [4]int{17, 18, 27, 22},
		LED:      5,
		Buzzer:   16,
		Smoke:    6,
	}
}

// Validate rejects negative and duplicate pins.
func (p Pins) Validate() error {
	seen := make(map[int]string)
	check := func(name string, pin int) error {
		if pin < 0 {
			return fmt.Errorf("%w: %s pin %d is negative", ErrInvalidPin, name, pin)
		}
		if other, ok := seen[pin]; ok {
			return fmt.Errorf("%w: %s pin %d already assigned to %s", ErrInvalidPin, name, pin, other)
		}
		seen[pin] = name
		return nil
	}

	for i, pin := range p.Infrared {
		if err := check(fmt.Sprintf("infrared%d", i+1), pin); err != nil {
			return err
		}
	}
	if err := check("led", p.LED); err != nil {
		return err
	}
	if err := check("buzzer", p.Buzzer); err != nil {
		return err
	}
	return check("smoke", p.Smoke)
}

// Inputs returns the pins read by the controller.
func (p Pins) Inputs() []int {
	return []int{p.Infrared[0], p.Infrared[1], p.Infrared[2], p.Infrared[3], p.Smoke}
}

// Outputs returns the pins written by the controller.
func (p Pins) Outputs() []int {
	return []int{p.LED, p.Buzzer}
}

func (p Pins) isInfrared(pin int) bool {
	for _, ir := range p.Infrared {
		if ir == pin {
			return true
		}
	}
	return false
}

// MaxBlindsAngle is the widest servo position a rule may request.
const MaxBlindsAngle = 180

// Rules holds the thresholds used by the rule methods.
type Rules struct {
	// LuxThreshold is the illuminance at or above which light is sufficient.
	LuxThreshold float64

	// Blinds are open on workdays in [BlindsOpenFrom, BlindsOpenUntil),
	// both measured from midnight.
	BlindsOpenFrom  time.Duration
	BlindsOpenUntil time.Duration

	BlindsOpenAngle   int
	BlindsClosedAngle int
}

// DefaultRules returns the standard office thresholds.
func DefaultRules() Rules {
	return Rules{
		LuxThreshold:      500,
		BlindsOpenFrom:    8 * time.Hour,
		BlindsOpenUntil:   20 * time.Hour,
		BlindsOpenAngle:   12,
		BlindsClosedAngle: 0,
	}
}

// Validate checks the rule limits. The blind window must be a non-empty
// span within one day.
func (r Rules) Validate() error {
	if !(r.LuxThreshold >= 0) {
		return fmt.Errorf("lux threshold %v must be zero or more", r.LuxThreshold)
	}
	if r.BlindsOpenAngle < 0 || r.BlindsOpenAngle > MaxBlindsAngle {
		return fmt.Errorf("blinds open angle %d outside [0, %d]", r.BlindsOpenAngle, MaxBlindsAngle)
	}
	if r.BlindsClosedAngle < 0 || r.BlindsClosedAngle > MaxBlindsAngle {
		return fmt.Errorf("blinds closed angle %d outside [0, %d]", r.BlindsClosedAngle, MaxBlindsAngle)
	}
	if r.BlindsOpenFrom < 0 || r.BlindsOpenUntil > 24*time.Hour {
		return fmt.Errorf("blind window %v-%v outside a day", r.BlindsOpenFrom, r.BlindsOpenUntil)
	}
	if r.BlindsOpenFrom >= r.BlindsOpenUntil {
		return fmt.Errorf("blind window %v-%v is empty", r.BlindsOpenFrom, r.BlindsOpenUntil)
	}
	return nil
}

// BlindsOpenAt reports whether blinds should be open at t.
func (r Rules) BlindsOpenAt(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	tod := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
	return tod >= r.BlindsOpenFrom && tod < r.BlindsOpenUntil
}

// State is the last value applied by each rule.
type State struct {
	BlindsOpen bool
	LightOn    bool
	BuzzerOn   bool
}
