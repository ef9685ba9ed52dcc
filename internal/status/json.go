package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Blinds        string     `json:"blinds"`
	Light         string     `json:"light"`
	Buzzer        string     `json:"buzzer"`
	Errors        int        `json:"errors"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	BlindsOpened int `json:"blinds_opened"`
	BlindsClosed int `json:"blinds_closed"`
	LightOn      int `json:"light_on"`
	LightOff     int `json:"light_off"`
	AlarmOn      int `json:"alarm_on"`
	AlarmOff     int `json:"alarm_off"`
}

// PinsJSON is the JSON representation of the pin assignment.
type PinsJSON struct {
	Infrared []int `json:"infrared"`
	LED      int   `json:"led"`
	Buzzer   int   `json:"buzzer"`
	Smoke    int   `json:"smoke"`
	Servo    int   `json:"servo"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs       int64    `json:"poll_ms"`
	HeartbeatMs  int64    `json:"heartbeat_ms"`
	Chip         string   `json:"chip"`
	ClockSource  string   `json:"clock_source"`
	LuxThreshold float64  `json:"lux_threshold"`
	BlindsWindow string   `json:"blinds_window"`
	Pins         PinsJSON `json:"pins"`
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func buildInner(snap Snapshot) StatusInner {
	blinds := "CLOSED"
	if snap.State.BlindsOpen {
		blinds = "OPEN"
	}
	p := snap.Config.Pins

	return StatusInner{
		Blinds:        blinds,
		Light:         onOff(snap.State.LightOn),
		Buzzer:        onOff(snap.State.BuzzerOn),
		Errors:        snap.Errors,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			BlindsOpened: snap.Counts.BlindsOpened,
			BlindsClosed: snap.Counts.BlindsClosed,
			LightOn:      snap.Counts.LightOn,
			LightOff:     snap.Counts.LightOff,
			AlarmOn:      snap.Counts.AlarmOn,
			AlarmOff:     snap.Counts.AlarmOff,
		},
		Config: ConfigJSON{
			PollMs:       snap.Config.PollMs,
			HeartbeatMs:  snap.Config.HeartbeatMs,
			Chip:         snap.Config.Chip,
			ClockSource:  snap.Config.ClockSource,
			LuxThreshold: snap.Config.LuxThreshold,
			BlindsWindow: snap.Config.BlindsWindow,
			Pins: PinsJSON{
				Infrared: p.Infrared[:],
				LED:      p.LED,
				Buzzer:   p.Buzzer,
				Smoke:    p.Smoke,
				Servo:    snap.Config.ServoPin,
			},
		},
	}
}

// FormatJSON returns the indented JSON status for the console.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns compact JSON status tagged with a lifecycle event
// (e.g. "STARTUP", "HEARTBEAT", "SHUTDOWN").
func FormatStatusEvent(snap Snapshot, event string) []byte {
	inner := buildInner(snap)
	inner.Event = event

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
