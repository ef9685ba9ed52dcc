package lux

import (
	"math"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestVEML7700ReadLux(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddr, W: []byte{0x00, 0x00, 0x00}},
			// 0x2200 = 8704 counts
			{Addr: DefaultAddr, W: []byte{0x04}, R: []byte{0x00, 0x22}},
		},
	}

	s, err := NewVEML7700(bus, DefaultAddr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.ReadLux()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 8704 * 0.0576
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v lux, got %v", want, got)
	}

	if err := bus.Close(); err != nil {
		t.Errorf("playback not fully consumed: %v", err)
	}
}

func TestVEML7700Close(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddr, W: []byte{0x00, 0x00, 0x00}},
			{Addr: DefaultAddr, W: []byte{0x00, 0x01, 0x00}},
		},
	}

	s, err := NewVEML7700(bus, DefaultAddr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("playback not fully consumed: %v", err)
	}
}

func TestVEML7700ConfigureError(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}

	if _, err := NewVEML7700(bus, DefaultAddr); err == nil {
		t.Error("expected error when the bus rejects the config write")
	}
}

func TestFake(t *testing.T) {
	f := &Fake{Lux: 499}
	got, err := f.ReadLux()
	if err != nil || got != 499 {
		t.Errorf("expected (499, nil), got (%v, %v)", got, err)
	}
	if f.Reads != 1 {
		t.Errorf("expected 1 read, got %d", f.Reads)
	}
}
