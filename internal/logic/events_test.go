package logic

import (
	"testing"
	"time"
)

func TestChangesNone(t *testing.T) {
	s := State{BlindsOpen: true}
	if events := Changes(s, s, time.Now()); len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}
}

func TestChangesOrder(t *testing.T) {
	now := time.Date(2024, 11, 11, 8, 0, 0, 0, time.UTC)
	next := State{BlindsOpen: true, LightOn: true, BuzzerOn: true}

	events := Changes(State{}, next, now)
	want := []EventType{EventBlindsOpened, EventLightOn, EventAlarmOn}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], e.Type)
		}
		if !e.Timestamp.Equal(now) {
			t.Errorf("event %d: expected timestamp %v, got %v", i, now, e.Timestamp)
		}
		if e.State != next {
			t.Errorf("event %d: expected state %+v, got %+v", i, next, e.State)
		}
	}
}

func TestChangesOff(t *testing.T) {
	prev := State{BlindsOpen: true, LightOn: true, BuzzerOn: true}

	events := Changes(prev, State{LightOn: true}, time.Now())
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != EventBlindsClosed || events[1].Type != EventAlarmOff {
		t.Errorf("unexpected events: %s, %s", events[0].Type, events[1].Type)
	}
}

func TestEventCountsAdd(t *testing.T) {
	var c EventCounts
	c.Add([]Event{
		{Type: EventBlindsOpened},
		{Type: EventBlindsClosed},
		{Type: EventLightOn},
		{Type: EventLightOn},
		{Type: EventLightOff},
		{Type: EventAlarmOn},
		{Type: EventAlarmOff},
	})

	want := EventCounts{BlindsOpened: 1, BlindsClosed: 1, LightOn: 2, LightOff: 1, AlarmOn: 1, AlarmOff: 1}
	if c != want {
		t.Errorf("expected %+v, got %+v", want, c)
	}
}
