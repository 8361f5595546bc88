package selection

import (
	"sync"
	"time"
)

// DebugSink receives navigation events for inspection. The state
// machine calls it unconditionally; the default implementation is a
// no-op, and hosts may attach a ring-buffer logger instead.
type DebugSink interface {
	OnDebugEvent(action string, details map[string]any)
}

type nopSink struct{}

func (nopSink) OnDebugEvent(string, map[string]any) {}

// NopSink returns a sink that discards all events.
func NopSink() DebugSink { return nopSink{} }

// DebugEvent is one recorded navigation event.
type DebugEvent struct {
	Time    time.Time
	Action  string
	Details map[string]any
}

// RingLog is a fixed-capacity DebugSink that keeps the most recent
// events. Safe for concurrent use.
type RingLog struct {
	mu     sync.Mutex
	cap    int
	events []DebugEvent
}

// NewRingLog creates a ring log holding up to capacity events.
func NewRingLog(capacity int) *RingLog {
	if capacity <= 0 {
		capacity = 200
	}
	return &RingLog{cap: capacity}
}

// OnDebugEvent implements DebugSink.
func (l *RingLog) OnDebugEvent(action string, details map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, DebugEvent{Time: time.Now(), Action: action, Details: details})
	if len(l.events) > l.cap {
		l.events = l.events[len(l.events)-l.cap:]
	}
}

// Events returns a snapshot of the recorded events, oldest first.
func (l *RingLog) Events() []DebugEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]DebugEvent, len(l.events))
	copy(out, l.events)
	return out
}
