// Package servo positions the window-blind servo over PWM.
package servo

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// ErrAngleRange is returned for angles outside [0, 180].
var ErrAngleRange = errors.New("servo: angle out of range")

// Frequency is the standard hobby servo refresh rate.
const Frequency = 50 * physic.Hertz

// DefaultPin is the BCM pin wired to the blind servo.
const DefaultPin = 24

// Duty returns the PWM duty cycle for an angle: angle/18 + 2 percent,
// i.e. 2% at 0 degrees up to 12% at 180.
func Duty(degrees int) gpio.Duty {
	pct := float64(degrees)/18 + 2
	return gpio.Duty(float64(gpio.DutyMax) * pct / 100)
}

// PWMServo drives a servo from a PWM-capable pin.
type PWMServo struct {
	pin gpio.PinIO
}

// NewPWMServo opens the servo on a BCM pin number.
func NewPWMServo(pin int) (*PWMServo, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
	if p == nil {
		return nil, fmt.Errorf("servo pin GPIO%d not found", pin)
	}
	return newPWMServo(p), nil
}

func newPWMServo(p gpio.PinIO) *PWMServo {
	return &PWMServo{pin: p}
}

// SetAngle moves the servo.
func (s *PWMServo) SetAngle(degrees int) error {
	if degrees < 0 || degrees > 180 {
		return fmt.Errorf("%w: %d", ErrAngleRange, degrees)
	}
	if err := s.pin.PWM(Duty(degrees), Frequency); err != nil {
		return fmt.Errorf("pwm on %s: %w", s.pin.Name(), err)
	}
	return nil
}

// Close stops the PWM output.
func (s *PWMServo) Close() error {
	return s.pin.Halt()
}
