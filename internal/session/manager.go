// Package session holds the chat session state: the threads, which one is
// active, the messages on display, the pending reply and the display mode.
//
// A Manager is not safe for concurrent use. It is driven from a single
// goroutine (the UI update loop); only Await may run elsewhere.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"zenchat/internal/models"
	"zenchat/internal/responder"
	"zenchat/internal/storage"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	Responder responder.Responder
	Delay     func() time.Duration
	Mode      models.Mode
	Logger    *zerolog.Logger
	Now       func() time.Time
}

// Manager owns the session state
type Manager struct {
	store     storage.Store
	responder responder.Responder
	delay     func() time.Duration
	log       zerolog.Logger
	now       func() time.Time
	entropy   *ulid.MonotonicEntropy

	activeID  int
	displayed []models.Message
	mode      models.Mode

	lastRequest uint64
	pending     *Request
	cancel      context.CancelFunc
}

// New creates a Manager on top of store. An empty store is seeded with the
// starter threads; the thread at the front of the list becomes active.
func New(store storage.Store, opts Options) (*Manager, error) {
	m := &Manager{
		store:     store,
		responder: opts.Responder,
		delay:     opts.Delay,
		now:       opts.Now,
		mode:      opts.Mode,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
	if m.responder == nil {
		m.responder = responder.NewCanned(nil)
	}
	if m.delay == nil {
		m.delay = UniformDelay(DefaultMinDelay, DefaultMaxDelay)
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.mode == "" {
		m.mode = models.ModeSystem
	}
	if _, err := models.ParseMode(string(m.mode)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMode, err)
	}
	if opts.Logger != nil {
		m.log = opts.Logger.With().Str("component", "session").Logger()
	} else {
		m.log = zerolog.Nop()
	}

	threads, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("load threads: %w", err)
	}
	if len(threads) == 0 {
		if err := m.seed(); err != nil {
			return nil, fmt.Errorf("seed threads: %w", err)
		}
		if threads, err = store.List(); err != nil {
			return nil, fmt.Errorf("load threads: %w", err)
		}
	}

	m.activeID = threads[0].ID
	m.displayed = models.CloneMessages(threads[0].Messages)
	m.log.Debug().Int("threads", len(threads)).Int("active", m.activeID).Msg("session ready")
	return m, nil
}

// Threads returns all threads, newest first
func (m *Manager) Threads() ([]models.Thread, error) {
	return m.store.List()
}

// ActiveThreadID returns the id of the thread on display
func (m *Manager) ActiveThreadID() int {
	return m.activeID
}

// ActiveThread returns the stored record of the active thread
func (m *Manager) ActiveThread() (models.Thread, error) {
	return m.store.Get(m.activeID)
}

// Messages returns a copy of the displayed messages
func (m *Manager) Messages() []models.Message {
	return models.CloneMessages(m.displayed)
}

// Pending reports whether a reply is outstanding
func (m *Manager) Pending() bool {
	return m.pending != nil
}

// PendingThreadID returns the thread the outstanding reply is bound to
func (m *Manager) PendingThreadID() (int, bool) {
	if m.pending == nil {
		return 0, false
	}
	return m.pending.ThreadID, true
}

// Mode returns the display mode preference
func (m *Manager) Mode() models.Mode {
	return m.mode
}

// SetMode changes the display mode preference
func (m *Manager) SetMode(mode models.Mode) error {
	if _, err := models.ParseMode(string(mode)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMode, err)
	}
	m.mode = mode
	m.log.Info().Str("mode", string(mode)).Msg("display mode changed")
	return nil
}

// SelectThread makes the thread with the given id active. An unknown id
// returns ErrThreadNotFound and leaves the session untouched.
func (m *Manager) SelectThread(id int) error {
	t, err := m.store.Get(id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrThreadNotFound
	}
	if err != nil {
		return fmt.Errorf("load thread %d: %w", id, err)
	}

	m.activeID = t.ID
	m.displayed = t.Messages
	m.log.Debug().Int("thread", id).Msg("thread selected")
	return nil
}

// CreateThread adds an empty thread at the front of the list and makes it
// active. A reply in flight stays bound to the thread it was sent from.
func (m *Manager) CreateThread() (models.Thread, error) {
	threads, err := m.store.List()
	if err != nil {
		return models.Thread{}, fmt.Errorf("load threads: %w", err)
	}
	maxID := 0
	for _, t := range threads {
		if t.ID > maxID {
			maxID = t.ID
		}
	}

	t := models.Thread{
		ID:        maxID + 1,
		Title:     fmt.Sprintf("New Chat %d", maxID+1),
		DateLabel: "Just now",
		Messages:  []models.Message{},
	}
	if err := m.store.Prepend(t); err != nil {
		return models.Thread{}, fmt.Errorf("create thread: %w", err)
	}

	m.activeID = t.ID
	m.displayed = []models.Message{}
	m.log.Info().Int("thread", t.ID).Msg("thread created")
	return t.Clone(), nil
}

// Send appends a user message to the active thread and opens a reply request.
// Blank text returns ErrEmptyMessage; a send while another reply is pending
// returns ErrReplyPending. The caller runs Await for the returned request and
// passes the result to Deliver.
func (m *Manager) Send(text string) (Request, error) {
	if strings.TrimSpace(text) == "" {
		return Request{}, ErrEmptyMessage
	}
	if m.pending != nil {
		return Request{}, ErrReplyPending
	}

	next := append(models.CloneMessages(m.displayed), m.newMessage(models.RoleUser, text))
	if err := m.store.SaveMessages(m.activeID, next); err != nil {
		return Request{}, fmt.Errorf("save message: %w", err)
	}
	m.displayed = next

	m.lastRequest++
	ctx, cancel := context.WithCancel(context.Background())
	req := Request{
		ID:       m.lastRequest,
		ThreadID: m.activeID,
		History:  models.CloneMessages(next),
		ctx:      ctx,
	}
	m.pending = &req
	m.cancel = cancel

	m.log.Debug().Uint64("request", req.ID).Int("thread", req.ThreadID).Msg("message sent")
	return req, nil
}

// Deliver applies a reply produced by Await. Replies whose request is no
// longer outstanding (stopped, cleared, superseded) are dropped and Deliver
// reports false. The assistant message goes to the thread captured at send
// time, whether or not it is still active. A responder failure settles the
// request and is returned.
func (m *Manager) Deliver(r Reply) (bool, error) {
	if m.pending == nil || m.pending.ID != r.Request.ID {
		m.log.Debug().Uint64("request", r.Request.ID).Msg("discarding stale reply")
		return false, nil
	}
	m.settle()

	if r.Err != nil {
		if errors.Is(r.Err, context.Canceled) {
			return false, nil
		}
		m.log.Error().Err(r.Err).Uint64("request", r.Request.ID).Msg("reply failed")
		return false, fmt.Errorf("generate reply: %w", r.Err)
	}

	t, err := m.store.Get(r.Request.ThreadID)
	if errors.Is(err, storage.ErrNotFound) {
		m.log.Warn().Int("thread", r.Request.ThreadID).Msg("reply target thread is gone")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load thread %d: %w", r.Request.ThreadID, err)
	}

	t.Messages = append(t.Messages, m.newMessage(models.RoleAssistant, r.Content))
	if err := m.store.SaveMessages(t.ID, t.Messages); err != nil {
		return false, fmt.Errorf("save reply: %w", err)
	}
	if t.ID == m.activeID {
		m.displayed = models.CloneMessages(t.Messages)
	}

	m.log.Debug().Uint64("request", r.Request.ID).Int("thread", t.ID).Bool("active", t.ID == m.activeID).Msg("reply delivered")
	return true, nil
}

// Stop cancels the outstanding reply. The late result, if any, is discarded
// by Deliver. Reports whether there was anything to stop.
func (m *Manager) Stop() bool {
	if m.pending == nil {
		return false
	}
	id := m.pending.ID
	m.settle()
	m.log.Info().Uint64("request", id).Msg("reply stopped")
	return true
}

// ClearActiveThread removes every message of the active thread. A reply
// outstanding for that thread is cancelled.
func (m *Manager) ClearActiveThread() error {
	if err := m.store.SaveMessages(m.activeID, nil); err != nil {
		return fmt.Errorf("clear thread %d: %w", m.activeID, err)
	}
	m.displayed = []models.Message{}

	if m.pending != nil && m.pending.ThreadID == m.activeID {
		m.settle()
	}
	m.log.Info().Int("thread", m.activeID).Msg("thread cleared")
	return nil
}

// Close cancels any outstanding reply. The store is left to its owner.
func (m *Manager) Close() {
	m.settle()
}

func (m *Manager) settle() {
	if m.cancel != nil {
		m.cancel()
	}
	m.pending = nil
	m.cancel = nil
}

func (m *Manager) newMessage(role models.Role, content string) models.Message {
	now := m.now()
	return models.Message{
		ID:      ulid.MustNew(ulid.Timestamp(now), m.entropy).String(),
		Role:    role,
		Content: content,
		Time:    now,
	}
}
