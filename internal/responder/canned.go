package responder

import (
	"context"
	"math/rand/v2"
	"sync"

	"zenchat/internal/models"
)

var cannedResponses = []string{
	"That's an interesting perspective. Have you considered looking at it from a different angle?",
	"I see where you're coming from. Let's explore that idea further.",
	"Your thoughts on this matter are quite insightful. Here's another way to approach it...",
	"That's a great question. The answer might be more nuanced than you'd expect.",
	"I appreciate you sharing that. It reminds me of a concept in mindfulness practice...",
	"Your input is valuable. Let's break this down step by step.",
	"That's a complex topic. Perhaps we can simplify it by focusing on one aspect at a time.",
	"I'm glad you brought that up. It's important to consider various viewpoints on this subject.",
	"Your question touches on a fundamental aspect of personal growth. Let's delve deeper.",
	"That's an excellent point. It relates to several key principles we've discussed before.",
}

// CannedResponses returns the fixed set of replies the Canned responder picks from
func CannedResponses() []string {
	out := make([]string, len(cannedResponses))
	copy(out, cannedResponses)
	return out
}

// Canned ignores the history and returns one of the fixed responses,
// chosen uniformly at random.
type Canned struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCanned creates a canned responder. A nil source seeds from the runtime.
func NewCanned(src rand.Source) *Canned {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Canned{rng: rand.New(src)}
}

// Reply picks a response. It only fails if ctx is already done.
func (c *Canned) Reply(ctx context.Context, _ []models.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	i := c.rng.IntN(len(cannedResponses))
	c.mu.Unlock()
	return cannedResponses[i], nil
}
