package service

import (
	"log/slog"
	"sync"

	"github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/modules/source/registry"
	"github.com/samber/lo"
)

// Service tracks which registered sources take part in the next refresh.
// Toggling a source never touches items that are already displayed.
type Service struct {
	registry *registry.Registry
	active   map[string]bool
	mu       sync.RWMutex
}

// New creates a source service with every registered source active
func New(reg *registry.Registry) *Service {
	active := lo.SliceToMap(reg.All(), func(s domain.Source) (string, bool) {
		return s.ID, true
	})
	return &Service{
		registry: reg,
		active:   active,
	}
}

// All returns every registered source in registry order
func (s *Service) All() []domain.Source {
	return s.registry.All()
}

// Active returns the sources enabled for the next cycle, in registry order
func (s *Service) Active() []domain.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Filter(s.registry.All(), func(src domain.Source, _ int) bool {
		return s.active[src.ID]
	})
}

// IsActive reports whether a source will be fetched on the next cycle
func (s *Service) IsActive(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[id]
}

// SetActive enables or disables a source for future cycles
func (s *Service) SetActive(id string, active bool) error {
	if _, err := s.registry.Get(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[id] = active

	slog.Info("Source toggled", "source_id", id, "active", active)
	return nil
}

// Toggle flips a source's active flag and returns the new value
func (s *Service) Toggle(id string) (bool, error) {
	if _, err := s.registry.Get(id); err != nil {
		return false, err
	}

	s.mu.Lock()
	next := !s.active[id]
	s.active[id] = next
	s.mu.Unlock()

	slog.Info("Source toggled", "source_id", id, "active", next)
	return next, nil
}

// ByEndpoint finds the social source served at a proxy path
func (s *Service) ByEndpoint(path string) (domain.Source, error) {
	return s.registry.ByEndpoint(path)
}
