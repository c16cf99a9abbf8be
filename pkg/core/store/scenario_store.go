package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"underwriting/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	scenariosKey = "scenarios"
	activeKey    = "activeScenarioId"
)

var ErrScenarioNotFound = errors.New("scenario not found")

// ScenarioStore owns the versioned scenario collection and the active pointer.
//
// Every mutation reads the whole collection, changes it and writes it back.
// There is no locking across that cycle: concurrent writers are last-writer-wins.
type ScenarioStore struct {
	backend Backend
	log     logrus.FieldLogger
	now     func() time.Time
	newID   func() string
	prefix  string
}

// StoreOption configures a ScenarioStore.
type StoreOption func(*ScenarioStore)

func WithLogger(l logrus.FieldLogger) StoreOption {
	return func(s *ScenarioStore) { s.log = l }
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *ScenarioStore) { s.now = now }
}

func WithIDGenerator(newID func() string) StoreOption {
	return func(s *ScenarioStore) { s.newID = newID }
}

// WithKeyPrefix namespaces the backend keys, e.g. "underwriting:".
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *ScenarioStore) { s.prefix = prefix }
}

// NewScenarioStore creates a store over backend.
func NewScenarioStore(backend Backend, opts ...StoreOption) *ScenarioStore {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	s := &ScenarioStore{
		backend: backend,
		log:     silent,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ScenarioStore) load(ctx context.Context) ([]models.Scenario, error) {
	raw, found, err := s.backend.Read(ctx, s.prefix+scenariosKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}
	if !found || raw == "" {
		return nil, nil
	}
	var list []models.Scenario
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("failed to decode stored scenarios: %w", err)
	}
	return list, nil
}

func (s *ScenarioStore) save(ctx context.Context, list []models.Scenario) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode scenarios: %w", err)
	}
	key := s.prefix + scenariosKey
	if err := s.backend.Write(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to write scenarios: %w", err)
	}
	s.log.WithFields(logrus.Fields{"key": key, "count": len(list)}).Debug("scenarios written")
	return nil
}

// List returns every scenario. An empty store is seeded with the default
// scenario, which is persisted before returning.
func (s *ScenarioStore) List(ctx context.Context) ([]models.Scenario, error) {
	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) > 0 {
		return list, nil
	}

	def := models.DefaultScenario(s.newID(), s.now())
	list = []models.Scenario{def}
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	s.log.WithField("scenario_id", def.ID).Info("seeded default scenario")
	return list, nil
}

// Get returns the scenario with the given id.
func (s *ScenarioStore) Get(ctx context.Context, id string) (models.Scenario, error) {
	list, err := s.List(ctx)
	if err != nil {
		return models.Scenario{}, err
	}
	for _, sc := range list {
		if sc.ID == id {
			return sc, nil
		}
	}
	return models.Scenario{}, fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
}

// GetActiveID returns the active pointer, "" if never set.
func (s *ScenarioStore) GetActiveID(ctx context.Context) (string, error) {
	id, _, err := s.backend.Read(ctx, s.prefix+activeKey)
	if err != nil {
		return "", fmt.Errorf("failed to read active scenario id: %w", err)
	}
	return id, nil
}

// SetActiveID moves the active pointer. The id is not checked; a stale pointer
// is resolved by GetActive.
func (s *ScenarioStore) SetActiveID(ctx context.Context, id string) error {
	if err := s.backend.Write(ctx, s.prefix+activeKey, id); err != nil {
		return fmt.Errorf("failed to write active scenario id: %w", err)
	}
	return nil
}

// GetActive resolves the active pointer. A stale or unset pointer falls back to
// the first stored scenario, which is the default on an empty store.
func (s *ScenarioStore) GetActive(ctx context.Context) (models.Scenario, error) {
	list, err := s.List(ctx)
	if err != nil {
		return models.Scenario{}, err
	}
	id, err := s.GetActiveID(ctx)
	if err != nil {
		return models.Scenario{}, err
	}
	for _, sc := range list {
		if sc.ID == id {
			return sc, nil
		}
	}
	if id != "" {
		s.log.WithFields(logrus.Fields{
			"scenario_id": id,
			"fallback_id": list[0].ID,
		}).Warn("active scenario not found, falling back")
	}
	return list[0], nil
}

// Update replaces the stored record with the same id, bumping its version and
// refreshing LastModified. An unknown id is inserted; an empty id gets a new one.
func (s *ScenarioStore) Update(ctx context.Context, sc models.Scenario) (models.Scenario, error) {
	list, err := s.load(ctx)
	if err != nil {
		return models.Scenario{}, err
	}

	sc = sc.Clone()
	if sc.ID == "" {
		sc.ID = s.newID()
	}
	sc.LastModified = s.now()

	replaced := false
	for i := range list {
		if list[i].ID == sc.ID {
			sc.Version = list[i].Version + 1
			list[i] = sc
			replaced = true
			break
		}
	}
	if !replaced {
		if sc.Version < 1 {
			sc.Version = 1
		}
		list = append(list, sc)
	}

	if err := s.save(ctx, list); err != nil {
		return models.Scenario{}, err
	}
	s.log.WithFields(logrus.Fields{
		"scenario_id": sc.ID,
		"version":     sc.Version,
		"inserted":    !replaced,
	}).Debug("scenario updated")
	return sc, nil
}

// Duplicate copies a scenario under a new id at version 1. The source is left
// unchanged.
func (s *ScenarioStore) Duplicate(ctx context.Context, id string) (models.Scenario, error) {
	list, err := s.List(ctx)
	if err != nil {
		return models.Scenario{}, err
	}

	for _, src := range list {
		if src.ID != id {
			continue
		}
		dup := src.Clone()
		dup.ID = s.newID()
		dup.Name = src.Name + " (Copy)"
		dup.Version = 1
		dup.LastModified = s.now()

		if err := s.save(ctx, append(list, dup)); err != nil {
			return models.Scenario{}, err
		}
		s.log.WithFields(logrus.Fields{"scenario_id": dup.ID, "source_id": id}).Debug("scenario duplicated")
		return dup, nil
	}
	return models.Scenario{}, fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
}

// Delete removes a scenario and clears the active pointer if it pointed there.
func (s *ScenarioStore) Delete(ctx context.Context, id string) error {
	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := list[:0:0]
	for _, sc := range list {
		if sc.ID != id {
			kept = append(kept, sc)
		}
	}
	if len(kept) == len(list) {
		return fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
	}
	if err := s.save(ctx, kept); err != nil {
		return err
	}

	active, err := s.GetActiveID(ctx)
	if err != nil {
		return err
	}
	if active == id {
		return s.SetActiveID(ctx, "")
	}
	return nil
}
