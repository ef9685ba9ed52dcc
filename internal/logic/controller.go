package logic

import "fmt"

// Controller maps sensor readings to actuator commands.
// It is not safe for concurrent use.
type Controller struct {
	hw    Hardware
	pins  Pins
	rules Rules
	state State
}

// NewController creates a controller with blinds closed, light off and
// buzzer off.
func NewController(hw Hardware, pins Pins, rules Rules) (*Controller, error) {
	if err := hw.validate(); err != nil {
		return nil, err
	}
	if err := pins.Validate(); err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Controller{hw: hw, pins: pins, rules: rules}, nil
}

// CheckQuadrantOccupancy returns the infrared reading for one quadrant.
// Pins outside the infrared set fail with ErrInvalidPin before any read.
func (c *Controller) CheckQuadrantOccupancy(pin int) (bool, error) {
	if !c.pins.isInfrared(pin) {
		return false, fmt.Errorf("%w: %d is not an occupancy pin", ErrInvalidPin, pin)
	}
	occupied, err := c.hw.IO.Read(pin)
	if err != nil {
		return false, fmt.Errorf("read occupancy pin %d: %w", pin, err)
	}
	return occupied, nil
}

// ManageBlindsBasedOnTime opens the blinds during the workday window and
// closes them otherwise.
func (c *Controller) ManageBlindsBasedOnTime() error {
	now, err := c.hw.Clock.Now()
	if err != nil {
		return fmt.Errorf("read clock: %w", err)
	}

	open := c.rules.BlindsOpenAt(now)
	angle := c.rules.BlindsClosedAngle
	if open {
		angle = c.rules.BlindsOpenAngle
	}
	if err := c.hw.Servo.SetAngle(angle); err != nil {
		return fmt.Errorf("set blinds angle %d: %w", angle, err)
	}

	c.state.BlindsOpen = open
	return nil
}

// ManageLightLevel turns the LED on when the room is too dark and at
// least one quadrant is occupied.
func (c *Controller) ManageLightLevel() error {
	lux, err := c.hw.Light.ReadLux()
	if err != nil {
		return fmt.Errorf("read lux: %w", err)
	}

	on := false
	if lux < c.rules.LuxThreshold {
		on, err = c.anyOccupied()
		if err != nil {
			return err
		}
	}
	if err := c.hw.IO.Write(c.pins.LED, on); err != nil {
		return fmt.Errorf("write led pin %d: %w", c.pins.LED, err)
	}

	c.state.LightOn = on
	return nil
}

// MonitorAirQuality mirrors the smoke sensor onto the buzzer.
func (c *Controller) MonitorAirQuality() error {
	smoke, err := c.hw.IO.Read(c.pins.Smoke)
	if err != nil {
		return fmt.Errorf("read smoke pin %d: %w", c.pins.Smoke, err)
	}
	if err := c.hw.IO.Write(c.pins.Buzzer, smoke); err != nil {
		return fmt.Errorf("write buzzer pin %d: %w", c.pins.Buzzer, err)
	}

	c.state.BuzzerOn = smoke
	return nil
}

// anyOccupied stops at the first occupied quadrant.
func (c *Controller) anyOccupied() (bool, error) {
	for _, pin := range c.pins.Infrared {
		occupied, err := c.CheckQuadrantOccupancy(pin)
		if err != nil {
			return false, err
		}
		if occupied {
			return true, nil
		}
	}
	return false, nil
}

// State returns the last applied actuator state.
func (c *Controller) State() State {
	return c.state
}

// Pins returns the pin assignment.
func (c *Controller) Pins() Pins {
	return c.pins
}

// Rules returns the active thresholds.
func (c *Controller) Rules() Rules {
	return c.rules
}

// SetRules replaces the thresholds used from the next rule call on.
// The current state is kept.
func (c *Controller) SetRules(r Rules) error {
	if err := r.Validate(); err != nil {
		return err
	}
	c.rules = r
	return nil
}
