// Package wizard holds the step-by-step trip preference state and drives
// itinerary generation from it.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ziptrip/internal/app/domain/itinerary"
	"github.com/FACorreiaa/go-ziptrip/internal/app/models"
	"github.com/FACorreiaa/go-ziptrip/internal/app/observability/metrics"
)

// GenerationFailedMessage is stored in the state when generation fails.
const GenerationFailedMessage = "Failed to generate itinerary"

// Generator produces an itinerary from a request snapshot.
type Generator interface {
	Generate(ctx context.Context, req models.ItineraryRequest) (*models.Itinerary, error)
}

// Machine is one wizard session. Every mutation is saved to the store.
type Machine struct {
	mu     sync.Mutex
	key    string
	state  models.WizardState
	store  Store
	gen    Generator
	logger *zap.Logger

	// epoch is bumped by Reset so a generation started before it is discarded.
	epoch uint64
	// onGenerating is called with mu held when a generation starts or ends.
	onGenerating func(running bool)
}

// NewMachine loads the state saved under key, or starts from defaults.
func NewMachine(ctx context.Context, key string, store Store, gen Generator, logger *zap.Logger) (*Machine, error) {
	m := &Machine{
		key:    key,
		state:  defaultState(),
		store:  store,
		gen:    gen,
		logger: logger,
	}
	if store == nil {
		return m, nil
	}

	saved, err := store.Load(ctx, key)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return m, nil
	case err != nil:
		return nil, err
	}
	m.state = *saved
	// A generation cannot survive a restart.
	m.state.IsGenerating = false
	m.state.WizardData = normalize(m.state.WizardData)
	if m.state.Step < 0 || m.state.Step >= StepCount {
		m.state.Step = 0
	}
	return m, nil
}

func defaultState() models.WizardState {
	return models.WizardState{WizardData: models.NewWizardData()}
}

func normalize(w models.WizardData) models.WizardData {
	if w.Preferences == nil {
		w.Preferences = []string{}
	}
	if w.PlacesPreference == nil {
		w.PlacesPreference = []string{}
	}
	return w
}

// Key returns the persistence key of the session.
func (m *Machine) Key() string {
	return m.key
}

// State returns a copy of the current state.
func (m *Machine) State() models.WizardState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Machine) snapshot() models.WizardState {
	s := m.state
	s.WizardData.Preferences = append([]string{}, m.state.WizardData.Preferences...)
	s.WizardData.PlacesPreference = append([]string{}, m.state.WizardData.PlacesPreference...)
	return s
}

// Next advances one step. On the last step it generates instead.
func (m *Machine) Next(ctx context.Context) (models.WizardState, error) {
	m.mu.Lock()
	if m.state.Step >= StepCount-1 {
		m.mu.Unlock()
		return m.Generate(ctx)
	}
	defer m.mu.Unlock()
	m.state.Step++
	return m.snapshot(), m.save(ctx)
}

// Back moves one step back; it does nothing on the first step.
func (m *Machine) Back(ctx context.Context) (models.WizardState, error) {
	return m.mutate(ctx, func(s *models.WizardState) error {
		if s.Step > 0 {
			s.Step--
		}
		return nil
	})
}

// GoTo jumps directly to step.
func (m *Machine) GoTo(ctx context.Context, step int) (models.WizardState, error) {
	return m.mutate(ctx, func(s *models.WizardState) error {
		if step < 0 || step >= StepCount {
			return fmt.Errorf("step %d out of range [0,%d): %w", step, StepCount, models.ErrValidation)
		}
		s.Step = step
		return nil
	})
}

// Update merges a partial set of fields into the wizard data.
func (m *Machine) Update(ctx context.Context, patch models.WizardPatch) (models.WizardState, error) {
	return m.mutate(ctx, func(s *models.WizardState) error {
		s.WizardData = normalize(patch.Apply(s.WizardData))
		return nil
	})
}

// TogglePreference adds tag to the preferences, or removes it if present.
func (m *Machine) TogglePreference(ctx context.Context, tag string) (models.WizardState, error) {
	return m.mutate(ctx, func(s *models.WizardState) error {
		s.WizardData.Preferences = toggle(s.WizardData.Preferences, tag)
		return nil
	})
}

// TogglePlace adds tag to the places preference, or removes it if present.
func (m *Machine) TogglePlace(ctx context.Context, tag string) (models.WizardState, error) {
	return m.mutate(ctx, func(s *models.WizardState) error {
		s.WizardData.PlacesPreference = toggle(s.WizardData.PlacesPreference, tag)
		return nil
	})
}

func toggle(tags []string, tag string) []string {
	if lo.Contains(tags, tag) {
		return lo.Without(tags, tag)
	}
	return append(append([]string{}, tags...), tag)
}

// Reset restores default data and clears the itinerary and error. A
// generation still in flight is abandoned and its result dropped.
func (m *Machine) Reset(ctx context.Context) (models.WizardState, error) {
	return m.mutate(ctx, func(s *models.WizardState) error {
		m.epoch++
		if s.IsGenerating {
			s.IsGenerating = false
			m.notifyGenerating(false)
		}
		s.Step = 0
		s.WizardData = models.NewWizardData()
		s.Itinerary = nil
		s.Error = nil
		return nil
	})
}

// Generate submits the wizard data. Only one generation may run per session.
func (m *Machine) Generate(ctx context.Context) (models.WizardState, error) {
	m.mu.Lock()
	if m.state.IsGenerating {
		m.mu.Unlock()
		return m.State(), models.ErrGenerationInProgress
	}
	req := m.state.WizardData.Request()
	if err := itinerary.Validate(req); err != nil {
		m.mu.Unlock()
		return m.State(), err
	}
	if _, err := itinerary.NumDays(req.StartDate, req.EndDate); err != nil {
		m.mu.Unlock()
		return m.State(), err
	}
	m.state.IsGenerating = true
	m.state.Error = nil
	m.notifyGenerating(true)
	epoch := m.epoch
	if err := m.save(ctx); err != nil {
		m.logger.Warn("Failed to persist wizard state", zap.String("key", m.key), zap.Error(err))
	}
	m.mu.Unlock()

	it, genErr := m.gen.Generate(ctx, itinerary.ApplyDefaults(req))

	m.mu.Lock()
	defer m.mu.Unlock()
	if epoch != m.epoch {
		m.logger.Info("Discarding itinerary for reset wizard session", zap.String("key", m.key), zap.Error(genErr))
		metrics.Get().WizardGenerationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "discarded")))
		return m.snapshot(), nil
	}
	m.state.IsGenerating = false
	m.notifyGenerating(false)
	outcome := "success"
	if genErr != nil {
		outcome = "error"
		msg := GenerationFailedMessage
		m.state.Error = &msg
		m.logger.Error("Generation error", zap.String("key", m.key), zap.Error(genErr))
	} else {
		m.state.Itinerary = it
	}
	metrics.Get().WizardGenerationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	if err := m.save(ctx); err != nil && genErr == nil {
		return m.snapshot(), err
	}
	if genErr != nil {
		return m.snapshot(), fmt.Errorf("%s: %w", GenerationFailedMessage, genErr)
	}
	return m.snapshot(), nil
}

func (m *Machine) notifyGenerating(running bool) {
	if m.onGenerating != nil {
		m.onGenerating(running)
	}
}

func (m *Machine) mutate(ctx context.Context, fn func(*models.WizardState) error) (models.WizardState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := fn(&m.state); err != nil {
		return m.snapshot(), err
	}
	return m.snapshot(), m.save(ctx)
}

// save must be called with mu held.
func (m *Machine) save(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Save(ctx, m.key, m.snapshot()); err != nil {
		return fmt.Errorf("failed to save wizard state: %w", err)
	}
	return nil
}
