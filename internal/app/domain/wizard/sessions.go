package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/cache"
)

const (
	sessionIdleTTL         = 30 * time.Minute
	sessionCleanupInterval = 10 * time.Minute
)

// Sessions hands out one Machine per wizard session id. Idle machines are
// evicted from memory and reloaded from the store on next use, except while
// a generation is running on them.
type Sessions struct {
	mu       sync.Mutex
	machines *cache.UnifiedCache[*Machine]
	// generating pins machines with a generation in flight. Lock order is
	// Machine.mu before mu.
	generating map[string]*Machine
	prefix     string
	store      Store
	gen        Generator
	logger     *zap.Logger
}

func NewSessions(prefix string, store Store, gen Generator, logger *zap.Logger) *Sessions {
	return &Sessions{
		machines:   cache.NewUnifiedCache[*Machine](sessionIdleTTL, sessionCleanupInterval, "wizard_sessions", logger),
		generating: make(map[string]*Machine),
		prefix:     prefix,
		store:      store,
		gen:        gen,
		logger:     logger,
	}
}

func (s *Sessions) newMachine(ctx context.Context, id uuid.UUID) (*Machine, error) {
	m, err := NewMachine(ctx, s.key(id), s.store, s.gen, s.logger)
	if err != nil {
		return nil, err
	}
	m.onGenerating = func(running bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if running {
			s.generating[id.String()] = m
			return
		}
		if s.generating[id.String()] == m {
			delete(s.generating, id.String())
		}
	}
	return m, nil
}

func (s *Sessions) key(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", s.prefix, id)
}

// Create starts a new session with default state and persists it.
func (s *Sessions) Create(ctx context.Context) (uuid.UUID, *Machine, error) {
	id := uuid.New()
	m, err := s.newMachine(ctx, id)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if _, err := m.mutate(ctx, func(*models.WizardState) error { return nil }); err != nil {
		return uuid.Nil, nil, err
	}

	s.machines.Set(id.String(), m)
	s.logger.Info("Wizard session created", zap.String("session_id", id.String()))
	return id, m, nil
}

// Get returns the session's machine, loading it from the store if needed.
func (s *Sessions) Get(ctx context.Context, id uuid.UUID) (*Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.machines.Get(id.String()); ok {
		// refresh the idle deadline
		s.machines.Set(id.String(), m)
		return m, nil
	}
	if m, ok := s.generating[id.String()]; ok {
		s.machines.Set(id.String(), m)
		return m, nil
	}
	if s.store == nil {
		return nil, fmt.Errorf("wizard session %s: %w", id, models.ErrNotFound)
	}
	if _, err := s.store.Load(ctx, s.key(id)); err != nil {
		return nil, err
	}
	m, err := s.newMachine(ctx, id)
	if err != nil {
		return nil, err
	}
	s.machines.Set(id.String(), m)
	return m, nil
}

// Delete drops the session from memory and the store.
func (s *Sessions) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.machines.Delete(id.String())
	delete(s.generating, id.String())
	if s.store == nil {
		return nil
	}
	return s.store.Delete(ctx, s.key(id))
}
