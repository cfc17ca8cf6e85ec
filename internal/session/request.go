package session

import (
	"context"
	"math/rand/v2"
	"time"

	"zenchat/internal/models"
)

// Bounds of the simulated reply delay
const (
	DefaultMinDelay = 1000 * time.Millisecond
	DefaultMaxDelay = 3000 * time.Millisecond
)

// Request is an outstanding reply. It pins the thread and request id that were
// current when the user message was sent, so a reply can never land in a
// thread the user switched to afterwards.
type Request struct {
	ID       uint64
	ThreadID int
	History  []models.Message

	ctx context.Context
}

// Reply is the outcome of awaiting a Request
type Reply struct {
	Request Request
	Content string
	Err     error
}

// UniformDelay returns a delay source drawing uniformly from [lo, hi).
// If hi <= lo it always returns lo.
func UniformDelay(lo, hi time.Duration) func() time.Duration {
	return func() time.Duration {
		if hi <= lo {
			return lo
		}
		return lo + rand.N(hi-lo)
	}
}

// Await waits out the simulated delay and asks the responder for content.
// It touches no session state and is meant to run off the update loop; the
// result is handed back through Deliver. Cancelling the request (Stop, clearing
// its thread, Close) makes Await return early with context.Canceled.
func (m *Manager) Await(req Request) Reply {
	ctx := req.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	timer := time.NewTimer(m.delay())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Reply{Request: req, Err: ctx.Err()}
	case <-timer.C:
	}

	content, err := m.responder.Reply(ctx, req.History)
	return Reply{Request: req, Content: content, Err: err}
}
