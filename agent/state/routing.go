package state

import (
	"sync"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
)

// DefaultRoutingWindow bounds the rolling routing context fed back into
// future selection prompts.
const DefaultRoutingWindow = 4

// RoutingLog is the orchestrator's bounded history of routing
// decisions. Older entries fall off the front once the window is full.
type RoutingLog struct {
	mu      sync.Mutex
	window  int
	records []contractx.RoutingRecord
}

// NewRoutingLog returns a log bounded to window entries. A window of
// zero or less uses DefaultRoutingWindow.
func NewRoutingLog(window int) *RoutingLog {
	if window <= 0 {
		window = DefaultRoutingWindow
	}
	return &RoutingLog{window: window}
}

// Append records a routing decision, trimming to the most recent
// window entries.
func (l *RoutingLog) Append(rec contractx.RoutingRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	if len(l.records) > l.window {
		l.records = l.records[len(l.records)-l.window:]
	}
}

// Recent returns a snapshot of the recorded window, oldest first.
func (l *RoutingLog) Recent() []contractx.RoutingRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]contractx.RoutingRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of retained records.
func (l *RoutingLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
