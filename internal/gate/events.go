package gate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event records one access decision.
type Event struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Plate   string    `json:"plate"`
	Granted bool      `json:"granted"`
	Type    string    `json:"type"`
	Message string    `json:"message"`
}

// EventLog is a bounded in-memory record of recent access decisions,
// newest first.
type EventLog struct {
	mu     sync.RWMutex
	events []Event
	limit  int
}

// NewEventLog creates a log that retains at most limit events.
func NewEventLog(limit int) *EventLog {
	if limit <= 0 {
		limit = 100
	}
	return &EventLog{limit: limit}
}

// Record appends a decision and returns the stored event.
func (l *EventLog) Record(plate string, granted bool, accessType, message string) Event {
	ev := Event{
		ID:      uuid.NewString(),
		Time:    time.Now().UTC(),
		Plate:   plate,
		Granted: granted,
		Type:    accessType,
		Message: message,
	}

	l.mu.Lock()
	l.events = append([]Event{ev}, l.events...)
	if len(l.events) > l.limit {
		l.events = l.events[:l.limit]
	}
	l.mu.Unlock()
	return ev
}

// Recent returns up to n events, newest first.
func (l *EventLog) Recent(n int) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || n > len(l.events) {
		n = len(l.events)
	}
	out := make([]Event, n)
	copy(out, l.events[:n])
	return out
}
