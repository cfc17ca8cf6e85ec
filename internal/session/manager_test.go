package session

import (
	"context"
	"errors"
	"slices"
	"sort"
	"testing"
	"time"

	"zenchat/internal/models"
	"zenchat/internal/responder"
	"zenchat/internal/storage"
)

const fixedReply = "That's an excellent point. It relates to several key principles we've discussed before."

// newTestManager builds a seeded manager with an immediate delay and a fixed reply
func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return newTestManagerWith(t, storage.NewMemoryStore(), Options{})
}

func newTestManagerWith(t *testing.T, store storage.Store, opts Options) *Manager {
	t.Helper()
	if opts.Responder == nil {
		opts.Responder = responder.Func(func(context.Context, []models.Message) (string, error) {
			return fixedReply, nil
		})
	}
	if opts.Delay == nil {
		opts.Delay = func() time.Duration { return 0 }
	}
	m, err := New(store, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

// settle runs the reply for req to completion and delivers it
func settle(t *testing.T, m *Manager, req Request) bool {
	t.Helper()
	delivered, err := m.Deliver(m.Await(req))
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	return delivered
}

func storedMessages(t *testing.T, m *Manager, id int) []models.Message {
	t.Helper()
	for _, th := range mustThreads(t, m) {
		if th.ID == id {
			return th.Messages
		}
	}
	t.Fatalf("thread %d not found", id)
	return nil
}

func mustThreads(t *testing.T, m *Manager) []models.Thread {
	t.Helper()
	threads, err := m.Threads()
	if err != nil {
		t.Fatalf("Threads: %v", err)
	}
	return threads
}

func assertMirrored(t *testing.T, m *Manager) {
	t.Helper()
	stored := storedMessages(t, m, m.ActiveThreadID())
	shown := m.Messages()
	if len(stored) != len(shown) {
		t.Fatalf("displayed has %d messages, stored has %d", len(shown), len(stored))
	}
	for i := range stored {
		if stored[i].ID != shown[i].ID || stored[i].Content != shown[i].Content || stored[i].Role != shown[i].Role {
			t.Fatalf("message %d differs: displayed %+v stored %+v", i, shown[i], stored[i])
		}
	}
}

func TestNewSeedsThreads(t *testing.T) {
	m := newTestManager(t)

	threads := mustThreads(t, m)
	if len(threads) != 5 {
		t.Fatalf("expected 5 seeded threads, got %d", len(threads))
	}
	wantTitles := []string{"Morning Reflection", "Creative Ideas", "Work Planning", "Travel Inspiration", "Book Recommendations"}
	for i, want := range wantTitles {
		if threads[i].Title != want {
			t.Errorf("threads[%d].Title = %q, want %q", i, threads[i].Title, want)
		}
		if threads[i].ID != i+1 {
			t.Errorf("threads[%d].ID = %d, want %d", i, threads[i].ID, i+1)
		}
	}

	if m.ActiveThreadID() != 1 {
		t.Errorf("expected thread 1 active, got %d", m.ActiveThreadID())
	}
	if got := len(m.Messages()); got != 4 {
		t.Errorf("expected 4 seeded messages on display, got %d", got)
	}
	if m.Pending() {
		t.Error("expected idle session")
	}
	if m.Mode() != models.ModeSystem {
		t.Errorf("expected default mode system, got %q", m.Mode())
	}
	assertMirrored(t, m)
}

func TestNewKeepsExistingThreads(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.Prepend(models.Thread{ID: 9, Title: "Only"}); err != nil {
		t.Fatalf("Prepend: %v", err)
	}

	m := newTestManagerWith(t, store, Options{})
	if got := len(mustThreads(t, m)); got != 1 {
		t.Errorf("expected existing store to be left unseeded, got %d threads", got)
	}
	if m.ActiveThreadID() != 9 {
		t.Errorf("expected thread 9 active, got %d", m.ActiveThreadID())
	}
}

func TestNewRejectsInvalidMode(t *testing.T) {
	_, err := New(storage.NewMemoryStore(), Options{Mode: "sepia"})
	if !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}

func TestMessageIDsSortByCreation(t *testing.T) {
	m := newTestManager(t)
	ids := []string{}
	for _, msg := range m.Messages() {
		ids = append(ids, msg.ID)
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("seeded message ids are not in creation order: %v", ids)
	}
	if len(slices.Compact(slices.Clone(ids))) != len(ids) {
		t.Errorf("duplicate message ids: %v", ids)
	}
}

func TestSendThenDeliver(t *testing.T) {
	m := newTestManager(t)

	req, err := m.Send("hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs := m.Messages()
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages right after send, got %d", len(msgs))
	}
	last := msgs[4]
	if last.Role != models.RoleUser || last.Content != "hi" {
		t.Errorf("unexpected last message: %+v", last)
	}
	if !m.Pending() {
		t.Error("expected pending after send")
	}
	if req.ThreadID != 1 {
		t.Errorf("request bound to thread %d, want 1", req.ThreadID)
	}
	if len(req.History) != 5 {
		t.Errorf("request history has %d messages, want 5", len(req.History))
	}
	assertMirrored(t, m)

	if !settle(t, m, req) {
		t.Fatal("expected reply to be delivered")
	}

	msgs = m.Messages()
	if len(msgs) != 6 {
		t.Fatalf("expected 6 messages after reply, got %d", len(msgs))
	}
	if msgs[5].Role != models.RoleAssistant || msgs[5].Content != fixedReply {
		t.Errorf("unexpected reply message: %+v", msgs[5])
	}
	if m.Pending() {
		t.Error("expected idle after reply")
	}
	assertMirrored(t, m)
}

func TestSendWithCannedResponder(t *testing.T) {
	m := newTestManagerWith(t, storage.NewMemoryStore(), Options{Responder: responder.NewCanned(nil)})

	req, err := m.Send("hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	settle(t, m, req)

	msgs := m.Messages()
	if len(msgs) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(msgs))
	}
	if !slices.Contains(responder.CannedResponses(), msgs[5].Content) {
		t.Errorf("reply %q is not from the canned set", msgs[5].Content)
	}
}

func TestSendRejectsBlank(t *testing.T) {
	m := newTestManager(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := m.Send(text); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send(%q): expected ErrEmptyMessage, got %v", text, err)
		}
	}
	if got := len(m.Messages()); got != 4 {
		t.Errorf("blank sends changed message count to %d", got)
	}
	if m.Pending() {
		t.Error("blank send must not set pending")
	}
}

func TestSendRejectsWhilePending(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Send("first"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := m.Send("second"); !errors.Is(err, ErrReplyPending) {
		t.Errorf("expected ErrReplyPending, got %v", err)
	}
	if got := len(m.Messages()); got != 5 {
		t.Errorf("rejected send changed message count to %d", got)
	}
}

func TestCreateThread(t *testing.T) {
	m := newTestManager(t)
	before := storedMessages(t, m, 1)

	th, err := m.CreateThread()
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}

	if th.ID != 6 {
		t.Errorf("new thread id = %d, want 6", th.ID)
	}
	if th.Title != "New Chat 6" || th.DateLabel != "Just now" {
		t.Errorf("unexpected new thread header: %+v", th)
	}
	if m.ActiveThreadID() != th.ID {
		t.Errorf("active = %d, want %d", m.ActiveThreadID(), th.ID)
	}
	if len(m.Messages()) != 0 {
		t.Errorf("expected empty display, got %d messages", len(m.Messages()))
	}

	threads := mustThreads(t, m)
	if threads[0].ID != th.ID {
		t.Errorf("new thread not at front: %d", threads[0].ID)
	}
	if after := storedMessages(t, m, 1); len(after) != len(before) {
		t.Errorf("previous thread changed from %d to %d messages", len(before), len(after))
	}
	assertMirrored(t, m)
}

func TestCreateThreadTwiceGivesDistinctIDs(t *testing.T) {
	m := newTestManager(t)
	before := mustThreads(t, m)
	existing := map[int]bool{}
	for _, th := range before {
		existing[th.ID] = true
	}

	a, err := m.CreateThread()
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	b, err := m.CreateThread()
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}

	if got := len(mustThreads(t, m)); got != len(before)+2 {
		t.Errorf("expected %d threads, got %d", len(before)+2, got)
	}
	if a.ID == b.ID {
		t.Errorf("new threads share id %d", a.ID)
	}
	if existing[a.ID] || existing[b.ID] {
		t.Errorf("new ids %d, %d collide with existing ones", a.ID, b.ID)
	}
}

func TestSelectThread(t *testing.T) {
	m := newTestManager(t)

	if err := m.SelectThread(2); err != nil {
		t.Fatalf("SelectThread(2): %v", err)
	}
	if m.ActiveThreadID() != 2 || len(m.Messages()) != 0 {
		t.Errorf("after select 2: active=%d messages=%d", m.ActiveThreadID(), len(m.Messages()))
	}

	if err := m.SelectThread(1); err != nil {
		t.Fatalf("SelectThread(1): %v", err)
	}
	stored := storedMessages(t, m, 1)
	shown := m.Messages()
	if len(shown) != len(stored) {
		t.Fatalf("displayed %d, stored %d", len(shown), len(stored))
	}
	for i := range stored {
		if shown[i].ID != stored[i].ID || shown[i].Content != stored[i].Content {
			t.Errorf("message %d differs", i)
		}
	}
}

func TestSelectUnknownThreadIsNoop(t *testing.T) {
	m := newTestManager(t)
	before := m.Messages()

	if err := m.SelectThread(99); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("expected ErrThreadNotFound, got %v", err)
	}
	if m.ActiveThreadID() != 1 {
		t.Errorf("active changed to %d", m.ActiveThreadID())
	}
	if len(m.Messages()) != len(before) {
		t.Errorf("displayed changed from %d to %d", len(before), len(m.Messages()))
	}
}

func TestSelectDoesNotTouchPending(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Send("hi"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := m.SelectThread(3); err != nil {
		t.Fatalf("SelectThread: %v", err)
	}
	if !m.Pending() {
		t.Error("select must not reset pending")
	}
	if id, ok := m.PendingThreadID(); !ok || id != 1 {
		t.Errorf("PendingThreadID = %d, %v; want 1, true", id, ok)
	}
}

func TestReplyLandsOnThreadItWasSentFrom(t *testing.T) {
	m := newTestManager(t)

	req, err := m.Send("hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := m.SelectThread(2); err != nil {
		t.Fatalf("SelectThread: %v", err)
	}

	if !settle(t, m, req) {
		t.Fatal("expected delivery")
	}

	t1 := storedMessages(t, m, 1)
	if len(t1) != 6 || t1[5].Role != models.RoleAssistant {
		t.Errorf("thread 1 should end with the reply, has %d messages", len(t1))
	}
	if len(storedMessages(t, m, 2)) != 0 {
		t.Error("reply leaked into thread 2")
	}
	if len(m.Messages()) != 0 {
		t.Error("display of thread 2 should stay empty")
	}
	if m.Pending() {
		t.Error("expected idle after delivery")
	}
	assertMirrored(t, m)
}

func TestReplyAfterCreateThreadStaysOnOrigin(t *testing.T) {
	m := newTestManager(t)

	req, err := m.Send("hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	th, err := m.CreateThread()
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	settle(t, m, req)

	if len(storedMessages(t, m, th.ID)) != 0 {
		t.Error("reply leaked into the new thread")
	}
	if len(storedMessages(t, m, 1)) != 6 {
		t.Error("reply missing from thread 1")
	}
}

func TestStopCancelsReply(t *testing.T) {
	m := newTestManagerWith(t, storage.NewMemoryStore(), Options{
		Delay: func() time.Duration { return time.Hour },
	})

	req, err := m.Send("hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !m.Stop() {
		t.Fatal("expected Stop to report a pending reply")
	}
	if m.Pending() {
		t.Error("expected idle after stop")
	}

	done := make(chan Reply, 1)
	go func() { done <- m.Await(req) }()

	var reply Reply
	select {
	case reply = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Await did not return after stop")
	}
	if !errors.Is(reply.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", reply.Err)
	}

	delivered, err := m.Deliver(reply)
	if delivered || err != nil {
		t.Errorf("Deliver after stop = %v, %v; want false, nil", delivered, err)
	}
	if got := len(m.Messages()); got != 5 {
		t.Errorf("expected only the user message to remain, got %d messages", got)
	}
	if m.Stop() {
		t.Error("second Stop should report nothing pending")
	}
}

func TestStaleReplyIsDiscarded(t *testing.T) {
	m := newTestManager(t)

	first, err := m.Send("first")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	m.Stop()
	second, err := m.Send("second")
	if err != nil {
		t.Fatalf("Send after stop: %v", err)
	}

	// a reply for the stopped request arriving late
	delivered, err := m.Deliver(Reply{Request: first, Content: "late"})
	if delivered || err != nil {
		t.Errorf("stale Deliver = %v, %v", delivered, err)
	}
	if !m.Pending() {
		t.Error("stale reply must not settle the newer request")
	}

	if !settle(t, m, second) {
		t.Fatal("expected second reply to be delivered")
	}
	msgs := m.Messages()
	for _, msg := range msgs {
		if msg.Content == "late" {
			t.Error("stale reply content reached the thread")
		}
	}
	if len(msgs) != 7 {
		t.Errorf("expected 7 messages, got %d", len(msgs))
	}

	// duplicate delivery of the same reply
	delivered, _ = m.Deliver(Reply{Request: second, Content: fixedReply})
	if delivered {
		t.Error("duplicate delivery accepted")
	}
}

func TestResponderErrorResetsPending(t *testing.T) {
	boom := errors.New("backend unavailable")
	m := newTestManagerWith(t, storage.NewMemoryStore(), Options{
		Responder: responder.Func(func(context.Context, []models.Message) (string, error) {
			return "", boom
		}),
	})

	req, err := m.Send("hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	delivered, err := m.Deliver(m.Await(req))
	if delivered {
		t.Error("failed reply must not be delivered")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped backend error, got %v", err)
	}
	if m.Pending() {
		t.Error("expected idle after failure")
	}
	if got := len(m.Messages()); got != 5 {
		t.Errorf("expected 5 messages, got %d", got)
	}
}

func TestClearActiveThread(t *testing.T) {
	m := newTestManager(t)

	if err := m.ClearActiveThread(); err != nil {
		t.Fatalf("ClearActiveThread: %v", err)
	}
	if len(m.Messages()) != 0 {
		t.Errorf("display not empty: %d", len(m.Messages()))
	}
	if len(storedMessages(t, m, 1)) != 0 {
		t.Error("stored messages not empty")
	}
	if got := len(mustThreads(t, m)); got != 5 {
		t.Errorf("clear must keep the thread, have %d threads", got)
	}

	// clearing an already empty thread is fine
	if err := m.ClearActiveThread(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestClearCancelsReplyForThatThread(t *testing.T) {
	m := newTestManager(t)

	req, err := m.Send("hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := m.ClearActiveThread(); err != nil {
		t.Fatalf("ClearActiveThread: %v", err)
	}
	if m.Pending() {
		t.Error("expected clear to cancel the reply of the cleared thread")
	}
	if settle(t, m, req) {
		t.Error("reply delivered into a cleared thread")
	}
	if len(storedMessages(t, m, 1)) != 0 {
		t.Error("cleared thread gained messages")
	}
}

func TestClearOtherThreadKeepsReply(t *testing.T) {
	m := newTestManager(t)

	req, err := m.Send("hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := m.SelectThread(2); err != nil {
		t.Fatalf("SelectThread: %v", err)
	}
	if err := m.ClearActiveThread(); err != nil {
		t.Fatalf("ClearActiveThread: %v", err)
	}
	if !m.Pending() {
		t.Error("clearing another thread must not cancel the reply")
	}
	if !settle(t, m, req) {
		t.Error("expected delivery to thread 1")
	}
}

func TestSetMode(t *testing.T) {
	m := newTestManager(t)

	for _, mode := range models.Modes {
		if err := m.SetMode(mode); err != nil {
			t.Fatalf("SetMode(%q): %v", mode, err)
		}
		if m.Mode() != mode {
			t.Errorf("Mode() = %q, want %q", m.Mode(), mode)
		}
	}

	if err := m.SetMode("neon"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
	if m.Mode() != models.ModeSystem {
		t.Errorf("invalid mode changed state to %q", m.Mode())
	}
}

func TestManagerOverSQLiteStore(t *testing.T) {
	store, err := storage.NewSQLiteStore()
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := newTestManagerWith(t, store, Options{})
	if got := len(mustThreads(t, m)); got != 5 {
		t.Fatalf("expected 5 seeded threads, got %d", got)
	}

	req, err := m.Send("hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := m.SelectThread(2); err != nil {
		t.Fatalf("SelectThread: %v", err)
	}
	settle(t, m, req)

	if got := len(storedMessages(t, m, 1)); got != 6 {
		t.Errorf("thread 1 has %d messages, want 6", got)
	}
	if _, err := m.CreateThread(); err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	assertMirrored(t, m)
}

func TestUniformDelayBounds(t *testing.T) {
	d := UniformDelay(DefaultMinDelay, DefaultMaxDelay)
	for i := 0; i < 1000; i++ {
		got := d()
		if got < DefaultMinDelay || got >= DefaultMaxDelay {
			t.Fatalf("delay %v outside [%v, %v)", got, DefaultMinDelay, DefaultMaxDelay)
		}
	}

	if got := UniformDelay(time.Second, time.Second)(); got != time.Second {
		t.Errorf("degenerate range returned %v", got)
	}
}

func TestAwaitWaitsForDelay(t *testing.T) {
	const delay = 30 * time.Millisecond
	m := newTestManagerWith(t, storage.NewMemoryStore(), Options{
		Delay: func() time.Duration { return delay },
	})

	req, err := m.Send("hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	start := time.Now()
	reply := m.Await(req)
	if elapsed := time.Since(start); elapsed < delay {
		t.Errorf("Await returned after %v, before the %v delay", elapsed, delay)
	}
	if reply.Err != nil || reply.Content != fixedReply {
		t.Errorf("unexpected reply: %+v", reply)
	}
	if len(m.Messages()) != 5 {
		t.Error("Await must not modify the session")
	}
}
