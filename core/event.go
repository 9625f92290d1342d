package core

import (
	"sync"
	"time"
)

// Event types emitted while a request moves through the pipeline. Clients
// subscribed to the bus (typically over a websocket) receive every event in
// emission order.
const (
	EventUserRequest   = "user_request"
	EventExecutionPlan = "execution_plan"
	EventTaskCompleted = "task_completed"
	EventFinalAnswer   = "final_answer"
	EventAgentResponse = "agent_response"
)

// Event is a progress notification published by the orchestration pipeline.
// Payload holds type-specific fields (request text, plan rendering, task
// outcome, ...). Events are informational only; dropping one never affects
// request processing.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NewEvent constructs an event of the given type with a fresh id and UTC
// timestamp.
func NewEvent(eventType string, payload map[string]any) Event {
	return Event{
		ID:        NewID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// Bus is a minimal publish/subscribe fan-out for pipeline events. Slow
// subscribers are skipped rather than blocking publishers: each subscriber
// channel is buffered and a full buffer drops the event.
type Bus struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewBus constructs an empty event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber and returns its receive channel.
func (b *Bus) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers the event to every current subscriber, dropping it for
// subscribers whose buffer is full.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
