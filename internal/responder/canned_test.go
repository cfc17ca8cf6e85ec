package responder

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"zenchat/internal/models"
)

func TestCannedResponsesHasTenEntries(t *testing.T) {
	if got := len(CannedResponses()); got != 10 {
		t.Fatalf("expected 10 canned responses, got %d", got)
	}
}

func TestCannedReplyComesFromFixedSet(t *testing.T) {
	c := NewCanned(rand.NewPCG(1, 2))
	set := CannedResponses()
	seen := map[string]bool{}

	for i := 0; i < 500; i++ {
		reply, err := c.Reply(context.Background(), []models.Message{{Role: models.RoleUser, Content: "hi"}})
		if err != nil {
			t.Fatalf("Reply: %v", err)
		}
		if !slices.Contains(set, reply) {
			t.Fatalf("reply %q not in canned set", reply)
		}
		seen[reply] = true
	}

	// 500 uniform draws over 10 values hit every value with overwhelming probability
	if len(seen) != len(set) {
		t.Errorf("expected all %d responses to appear, saw %d", len(set), len(seen))
	}
}

func TestCannedReplyIgnoresHistory(t *testing.T) {
	a := NewCanned(rand.NewPCG(7, 7))
	b := NewCanned(rand.NewPCG(7, 7))

	ra, _ := a.Reply(context.Background(), nil)
	rb, _ := b.Reply(context.Background(), []models.Message{{Content: "something else entirely"}})
	if ra != rb {
		t.Errorf("same seed produced different replies: %q vs %q", ra, rb)
	}
}

func TestCannedReplyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCanned(nil).Reply(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCannedConcurrentUse(t *testing.T) {
	c := NewCanned(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := c.Reply(context.Background(), nil); err != nil {
					t.Errorf("Reply: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestFuncAdapter(t *testing.T) {
	var r Responder = Func(func(_ context.Context, history []models.Message) (string, error) {
		return history[len(history)-1].Content, nil
	})

	got, err := r.Reply(context.Background(), []models.Message{{Content: "echo"}})
	if err != nil || got != "echo" {
		t.Errorf("Func.Reply = %q, %v", got, err)
	}
}
