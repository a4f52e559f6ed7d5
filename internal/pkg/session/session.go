// Package session holds the per-item edit state of one editing session. It
// replaces hidden module-level maps with an explicit, caller-owned store that
// is created when items are imported and torn down when they are removed.
package session

import (
	"sync"

	"github.com/pixmill/PixMill/internal/pkg/crop"
	"github.com/pixmill/PixMill/internal/pkg/cropqueue"
	"github.com/pixmill/PixMill/internal/pkg/lens"
	"github.com/pixmill/PixMill/internal/pkg/transform"
)

// Store keeps crop, transform and lens per item identifier. Values are
// materialized lazily to their defaults on first access. All accessors work
// on copies: a stored rect can never be aliased by two items.
type Store struct {
	mu         sync.RWMutex
	crops      map[string]crop.Crop
	transforms map[string]transform.Transform
	lenses     map[string]lens.Position
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		crops:      make(map[string]crop.Crop),
		transforms: make(map[string]transform.Transform),
		lenses:     make(map[string]lens.Position),
	}
}

// Crop returns the stored crop for the item, or the materialized default.
func (s *Store) Crop(itemID string) crop.Crop {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.crops[itemID]; ok {
		return c.Clone()
	}
	return crop.Default()
}

// SetCrop stores an independent copy of the crop for the item.
func (s *Store) SetCrop(itemID string, c crop.Crop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crops[itemID] = c.Clone()
}

// Transform returns the stored transform for the item, identity by default.
func (s *Store) Transform(itemID string) transform.Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.transforms[itemID]; ok {
		return t
	}
	return transform.Identity()
}

// SetTransform stores the transform for the item.
func (s *Store) SetTransform(itemID string, t transform.Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.RotateSteps = ((t.RotateSteps % 4) + 4) % 4
	s.transforms[itemID] = t
}

// Lens returns the stored lens position for the item, a centered full-image
// lens by default.
func (s *Store) Lens(itemID string) lens.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.lenses[itemID]; ok {
		return p
	}
	return lens.Centered(1, 1)
}

// SetLens stores the lens position for the item, clamped into the image.
func (s *Store) SetLens(itemID string, p lens.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lenses[itemID] = p.Clamp()
}

// Remove drops all stored state for the item.
func (s *Store) Remove(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.crops, itemID)
	delete(s.transforms, itemID)
	delete(s.lenses, itemID)
}

// Clear drops all stored state, ending the session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crops = make(map[string]crop.Crop)
	s.transforms = make(map[string]transform.Transform)
	s.lenses = make(map[string]lens.Position)
}

// QueueCallbacks adapts the store to the crop queue's storage contract.
func (s *Store) QueueCallbacks(onStateChange func(*cropqueue.State)) cropqueue.Callbacks {
	return cropqueue.Callbacks{
		GetCrop:       s.Crop,
		SetCrop:       s.SetCrop,
		GetTransform:  s.Transform,
		SetTransform:  s.SetTransform,
		OnStateChange: onStateChange,
	}
}
