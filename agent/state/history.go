package state

import (
	"sync"

	"github.com/cloudwego/eino/schema"
)

// History is one persona's in-process conversation log. It is owned by
// exactly one responder; histories of different personas never merge.
//
// The log is append-only and grows only through AppendExchange, which
// records a completed turn as user message then assistant message. A
// turn that fails before the full reply is known appends nothing, so
// the log never holds half an exchange.
type History struct {
	mu   sync.Mutex
	msgs []*schema.Message
}

// NewHistory returns an empty conversation log.
func NewHistory() *History {
	return &History{}
}

// AppendExchange records one completed turn.
func (h *History) AppendExchange(input, reply string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, schema.UserMessage(input), schema.AssistantMessage(reply, nil))
}

// Messages returns a snapshot of the log in chronological order.
func (h *History) Messages() []*schema.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*schema.Message, len(h.msgs))
	copy(out, h.msgs)
	return out
}

// Len returns the number of recorded messages.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.msgs)
}
