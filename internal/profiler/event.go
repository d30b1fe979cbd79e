package profiler

import (
	"container/heap"
	"time"
)

// EventType represents the type of profiling event
type EventType string

const (
	// EventTypeMeasurement represents a profiling measurement completing
	EventTypeMeasurement EventType = "measurement"
)

// Event is a discrete event in simulated profiling time.
type Event struct {
	Type EventType
	Time time.Duration
	seq  int64
}

// EventQueue is a priority queue of events ordered by simulated time,
// then scheduling order. The profiling loop is strictly sequential, so
// no locking is needed.
type EventQueue struct {
	events []*Event
	seq    int64
}

// NewEventQueue creates a new event queue
func NewEventQueue() *EventQueue {
	eq := &EventQueue{events: make([]*Event, 0)}
	heap.Init(eq)
	return eq
}

// Len returns the number of events in the queue
func (eq *EventQueue) Len() int {
	return len(eq.events)
}

// Less compares two events by time, then scheduling order
func (eq *EventQueue) Less(i, j int) bool {
	if eq.events[i].Time != eq.events[j].Time {
		return eq.events[i].Time < eq.events[j].Time
	}
	return eq.events[i].seq < eq.events[j].seq
}

// Swap swaps two events in the queue
func (eq *EventQueue) Swap(i, j int) {
	eq.events[i], eq.events[j] = eq.events[j], eq.events[i]
}

// Push adds an event to the queue
func (eq *EventQueue) Push(x any) {
	eq.events = append(eq.events, x.(*Event))
}

// Pop removes and returns the last event
func (eq *EventQueue) Pop() any {
	old := eq.events
	n := len(old)
	event := old[n-1]
	old[n-1] = nil // avoid memory leak
	eq.events = old[0 : n-1]
	return event
}

// Schedule adds an event to the queue
func (eq *EventQueue) Schedule(event *Event) {
	eq.seq++
	event.seq = eq.seq
	heap.Push(eq, event)
}

// Next removes and returns the next event, or nil when empty
func (eq *EventQueue) Next() *Event {
	if eq.Len() == 0 {
		return nil
	}
	return heap.Pop(eq).(*Event)
}
