package watch

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/go-drift/timepiece/pkg/animation"
	"github.com/go-drift/timepiece/pkg/localtime"
	"github.com/go-drift/timepiece/pkg/scene"
)

// Manager is the dispenser: it creates watch instances on demand, tracks
// who wears what, and tears instances down when wearers leave. All
// instances dispensed by one manager share one clip cache, the
// per-asset-container reuse scope.
type Manager struct {
	host    scene.Host
	player  animation.Player
	cache   *animation.ClipCache
	sampler *localtime.Sampler
	log     *zap.Logger

	mu        sync.Mutex
	catalog   *Catalog
	instances map[string]*Instance
}

// NewManager creates a dispenser over the given catalog and host systems.
// A nil catalog means the built-in default list.
func NewManager(catalog *Catalog, host scene.Host, player animation.Player, log *zap.Logger) *Manager {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		host:      host,
		player:    player,
		cache:     animation.NewClipCache(),
		sampler:   localtime.NewSampler(log),
		log:       log,
		catalog:   catalog,
		instances: make(map[string]*Instance),
	}
}

// SetCatalog swaps the model list, typically from a hot reload. Running
// instances are unaffected; only future dispenses see the new catalog.
func (m *Manager) SetCatalog(c *Catalog) {
	if c == nil {
		return
	}
	m.mu.Lock()
	m.catalog = c
	m.mu.Unlock()
}

// Cache exposes the shared clip cache.
func (m *Manager) Cache() *animation.ClipCache { return m.cache }

// Dispense creates and starts a watch of the named model for a wearer.
// Empty owner dispenses an unworn display model. Empty timezone keeps the
// model's own zone (or the default).
func (m *Manager) Dispense(ctx context.Context, model, owner, timezone string) (*Instance, error) {
	m.mu.Lock()
	spec, ok := m.catalog.Lookup(model)
	m.mu.Unlock()
	if !ok {
		return nil, errors.Errorf("watch model %q is not in the catalog", model)
	}
	if owner != "" {
		spec = spec.WithOwner(owner)
	}
	if timezone != "" {
		spec = spec.WithTimezone(timezone)
	}

	w, err := New(spec, Deps{
		Host:    m.host,
		Player:  m.player,
		Cache:   m.cache,
		Sampler: m.sampler,
		Log:     m.log,
	})
	if err != nil {
		return nil, err
	}
	inst, err := w.Start(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.instances[inst.ID()] = inst
	m.mu.Unlock()

	m.log.Info("watch dispensed",
		zap.String("model", model),
		zap.String("owner", owner),
		zap.String("instance", inst.ID()))
	return inst, nil
}

// Release removes one instance by ID. Unknown IDs are a no-op.
func (m *Manager) Release(ctx context.Context, id string) error {
	m.mu.Lock()
	inst, ok := m.instances[id]
	delete(m.instances, id)
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return inst.Remove(ctx)
}

// OnWearerLeft removes every instance owned by the departing wearer.
func (m *Manager) OnWearerLeft(ctx context.Context, owner string) error {
	m.mu.Lock()
	var leaving []*Instance
	for id, inst := range m.instances {
		if inst.Spec().Owner == owner {
			leaving = append(leaving, inst)
			delete(m.instances, id)
		}
	}
	m.mu.Unlock()

	var firstErr error
	for _, inst := range leaving {
		if err := inst.Remove(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(leaving) > 0 {
		m.log.Info("wearer watches removed",
			zap.String("owner", owner),
			zap.Int("count", len(leaving)))
	}
	return firstErr
}

// Count returns how many instances are currently live.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instances)
}

// Close removes every instance and releases the shared clip cache.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	remaining := make([]*Instance, 0, len(m.instances))
	for _, inst := range m.instances {
		remaining = append(remaining, inst)
	}
	m.instances = make(map[string]*Instance)
	m.mu.Unlock()

	var firstErr error
	for _, inst := range remaining {
		if err := inst.Remove(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := m.cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
