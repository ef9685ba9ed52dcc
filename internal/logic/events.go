package logic

import "time"

// EventType represents an actuator state transition.
type EventType string

const (
	EventBlindsOpened EventType = "BLINDS_OPENED"
	EventBlindsClosed EventType = "BLINDS_CLOSED"
	EventLightOn      EventType = "LIGHT_ON"
	EventLightOff     EventType = "LIGHT_OFF"
	EventAlarmOn      EventType = "ALARM_ON"
	EventAlarmOff     EventType = "ALARM_OFF"
)

// Event represents a single transition between two states.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State // state after the transition
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	BlindsOpened int
	BlindsClosed int
	LightOn      int
	LightOff     int
	AlarmOn      int
	AlarmOff     int
}

// Add tallies events.
func (c *EventCounts) Add(events []Event) {
	for _, e := range events {
		switch e.Type {
		case EventBlindsOpened:
			c.BlindsOpened++
		case EventBlindsClosed:
			c.BlindsClosed++
		case EventLightOn:
			c.LightOn++
		case EventLightOff:
			c.LightOff++
		case EventAlarmOn:
			c.AlarmOn++
		case EventAlarmOff:
			c.AlarmOff++
		}
	}
}

// Changes returns the transitions from prev to next.
// Order: blinds first, then light, then buzzer.
func Changes(prev, next State, t time.Time) []Event {
	var events []Event
	add := func(from, to bool, on, off EventType) {
		if from == to {
			return
		}
		typ := off
		if to {
			typ = on
		}
		events = append(events, Event{Timestamp: t, Type: typ, State: next})
	}

	add(prev.BlindsOpen, next.BlindsOpen, EventBlindsOpened, EventBlindsClosed)
	add(prev.LightOn, next.LightOn, EventLightOn, EventLightOff)
	add(prev.BuzzerOn, next.BuzzerOn, EventAlarmOn, EventAlarmOff)
	return events
}
