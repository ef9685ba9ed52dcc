package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/office-controller/internal/logic"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 1000, Chip: "gpiochip0", ClockSource: "system"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot(start)
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PollMs != 1000 {
		t.Errorf("Config.PollMs: got %d, want 1000", snap.Config.PollMs)
	}
	if snap.State != (logic.State{}) {
		t.Errorf("expected zero state initially, got %+v", snap.State)
	}
}

func TestUpdateReturnsTransitions(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	tr := NewTracker(now, Config{})

	events := tr.Update(logic.State{BlindsOpen: true, LightOn: true}, now)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	// unchanged state yields nothing
	if events := tr.Update(logic.State{BlindsOpen: true, LightOn: true}, now); len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}

	tr.Update(logic.State{BlindsOpen: true}, now)

	snap := tr.Snapshot(now)
	want := logic.EventCounts{BlindsOpened: 1, LightOn: 1, LightOff: 1}
	if snap.Counts != want {
		t.Errorf("Counts: got %+v, want %+v", snap.Counts, want)
	}
	if !snap.State.BlindsOpen || snap.State.LightOn {
		t.Errorf("unexpected state %+v", snap.State)
	}
}

func TestRecordError(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.RecordError()
	tr.RecordError()

	if got := tr.Snapshot(time.Now()).Errors; got != 2 {
		t.Errorf("Errors: got %d, want 2", got)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{})

	snap := tr.Snapshot(start.Add(90 * time.Second))
	if snap.Uptime() != 90*time.Second {
		t.Errorf("Uptime: got %v, want 90s", snap.Uptime())
	}
}

func TestCheckHeartbeat(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{})

	if tr.CheckHeartbeat(start.Add(time.Minute), 0) {
		t.Error("interval 0 should disable heartbeats")
	}
	if tr.CheckHeartbeat(start.Add(14*time.Minute), 15*time.Minute) {
		t.Error("heartbeat before interval elapsed")
	}
	if !tr.CheckHeartbeat(start.Add(15*time.Minute), 15*time.Minute) {
		t.Error("expected heartbeat at interval")
	}
	if tr.CheckHeartbeat(start.Add(16*time.Minute), 15*time.Minute) {
		t.Error("heartbeat interval should restart from the last heartbeat")
	}
	if !tr.CheckHeartbeat(start.Add(30*time.Minute), 15*time.Minute) {
		t.Error("expected second heartbeat")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{
		PollMs:       1000,
		HeartbeatMs:  900000,
		Chip:         "gpiochip0",
		ClockSource:  "ds3231",
		Pins:         logic.DefaultPins(),
		ServoPin:     24,
		LuxThreshold: 500,
		BlindsWindow: "08:00-20:00",
	})
	tr.Update(logic.State{BlindsOpen: true, BuzzerOn: true}, start)

	var out StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot(start.Add(time.Minute))), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := out.Status
	if s.Blinds != "OPEN" || s.Light != "OFF" || s.Buzzer != "ON" {
		t.Errorf("unexpected actuator fields: blinds=%s light=%s buzzer=%s", s.Blinds, s.Light, s.Buzzer)
	}
	if s.UptimeSeconds != 60 {
		t.Errorf("uptime_seconds: got %d, want 60", s.UptimeSeconds)
	}
	if s.Event != "" {
		t.Errorf("expected no event, got %q", s.Event)
	}
	if s.Counts.BlindsOpened != 1 || s.Counts.AlarmOn != 1 {
		t.Errorf("unexpected counts: %+v", s.Counts)
	}
	if len(s.Config.Pins.Infrared) != 4 || s.Config.Pins.Servo != 24 {
		t.Errorf("unexpected pins: %+v", s.Config.Pins)
	}
	if s.Config.BlindsWindow != "08:00-20:00" {
		t.Errorf("blinds_window: got %q", s.Config.BlindsWindow)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(now, Config{})

	var out map[string]map[string]any
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(now), "HEARTBEAT"), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out["status"]["event"] != "HEARTBEAT" {
		t.Errorf("event: got %v", out["status"]["event"])
	}
	if out["status"]["blinds"] != "CLOSED" {
		t.Errorf("blinds: got %v", out["status"]["blinds"])
	}
}
