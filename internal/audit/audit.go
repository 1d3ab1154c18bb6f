// Package audit records who changed which traveler record and how it went.
// Publishing is best effort: an audit failure is logged, never surfaced to
// the caller, because the mutation it describes has already happened.
package audit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Event is one recorded mutation.
type Event struct {
	ID      string    `json:"id"`
	Actor   string    `json:"actor"`
	Action  string    `json:"action"`
	LoginID string    `json:"login_id"`
	Outcome string    `json:"outcome"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context, limit int) ([]Event, error)
}

// MemoryStore keeps the most recent events in memory.
type MemoryStore struct {
	mu     sync.Mutex
	events []Event
	max    int
}

// NewMemoryStore keeps up to max events, oldest evicted first.
func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = 1000
	}
	return &MemoryStore{max: max}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) > s.max {
		s.events = s.events[len(s.events)-s.max:]
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]Event, limit)
	copy(out, s.events[len(s.events)-limit:])
	return out, nil
}

// Publisher stamps and stores events.
type Publisher struct {
	store Store
	log   *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

func WithLogger(log *slog.Logger) Option {
	return func(p *Publisher) { p.log = log }
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish stamps the event with an id and timestamp and appends it.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	event.ID = uuid.NewString()
	event.At = time.Now().UTC()

	if err := p.store.Append(ctx, event); err != nil {
		p.log.ErrorContext(ctx, "audit append failed",
			"action", event.Action,
			"login_id", event.LoginID,
			"error", err,
		)
		return
	}
	p.log.InfoContext(ctx, "audit event",
		"action", event.Action,
		"actor", event.Actor,
		"login_id", event.LoginID,
		"outcome", event.Outcome,
	)
}
