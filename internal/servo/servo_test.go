package servo

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestDuty(t *testing.T) {
	tests := []struct {
		degrees int
		pct     float64
	}{
		{0, 2},
		{90, 7},
		{180, 12},
	}

	for _, tt := range tests {
		got := Duty(tt.degrees)
		want := gpio.Duty(float64(gpio.DutyMax) * tt.pct / 100)
		if got != want {
			t.Errorf("Duty(%d) = %v, expected %v", tt.degrees, got, want)
		}
	}
}

func TestDutyMonotonic(t *testing.T) {
	if !(Duty(0) < Duty(12) && Duty(12) < Duty(180)) {
		t.Errorf("duty not increasing: %v %v %v", Duty(0), Duty(12), Duty(180))
	}
}

func TestPWMServoSetAngle(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO24", Num: 24}
	s := newPWMServo(p)

	if err := s.SetAngle(12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.D != Duty(12) {
		t.Errorf("expected duty %v, got %v", Duty(12), p.D)
	}
	if p.F != Frequency {
		t.Errorf("expected frequency %v, got %v", Frequency, p.F)
	}
}

func TestPWMServoRejectsOutOfRange(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO24", Num: 24}
	s := newPWMServo(p)

	for _, deg := range []int{-1, 181} {
		err := s.SetAngle(deg)
		if !errors.Is(err, ErrAngleRange) {
			t.Errorf("SetAngle(%d): expected ErrAngleRange, got %v", deg, err)
		}
	}
	if p.D != 0 {
		t.Errorf("no PWM should be issued, got duty %v", p.D)
	}
}

func TestFake(t *testing.T) {
	f := &Fake{}
	if f.Last() != -1 {
		t.Errorf("expected -1 before any set, got %d", f.Last())
	}
	f.SetAngle(12)
	f.SetAngle(0)
	if f.Last() != 0 || len(f.Angles) != 2 {
		t.Errorf("unexpected angles: %v", f.Angles)
	}

	f.Err = errors.New("stall")
	if err := f.SetAngle(90); err == nil {
		t.Error("expected error")
	}
	if len(f.Angles) != 2 {
		t.Errorf("failed set should not be recorded: %v", f.Angles)
	}
}
