// Package lux reads ambient illuminance from a VEML7700 over I2C.
package lux

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// DefaultAddr is the fixed VEML7700 I2C address.
const DefaultAddr = 0x10

// Registers
const (
	regConfig = 0x00
	regALS    = 0x04
)

const (
	configActive   = 0x0000 // gain x1, 100ms integration, powered on
	configShutdown = 0x0001 // ALS_SD

	luxPerCount = 0.0576 // at gain x1, 100ms integration
)

// VEML7700 is an ambient light sensor.
type VEML7700 struct {
	dev *i2c.Dev
}

// NewVEML7700 configures the sensor and powers it on.
func NewVEML7700(bus i2c.Bus, addr uint16) (*VEML7700, error) {
	s := &VEML7700{dev: &i2c.Dev{Bus: bus, Addr: addr}}
	if err := s.writeConfig(configActive); err != nil {
		return nil, fmt.Errorf("configure veml7700: %w", err)
	}
	return s, nil
}

// ReadLux returns the current illuminance.
func (s *VEML7700) ReadLux() (float64, error) {
	r := make([]byte, 2)
	if err := s.dev.Tx([]byte{regALS}, r); err != nil {
		return 0, fmt.Errorf("read als: %w", err)
	}
	return float64(binary.LittleEndian.Uint16(r)) * luxPerCount, nil
}

// Close puts the sensor into shutdown mode.
func (s *VEML7700) Close() error {
	return s.writeConfig(configShutdown)
}

func (s *VEML7700) writeConfig(v uint16) error {
	w := []byte{regConfig, 0, 0}
	binary.LittleEndian.PutUint16(w[1:], v)
	return s.dev.Tx(w, nil)
}
