package cropqueue

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/pixmill/PixMill/app/models"
	"github.com/pixmill/PixMill/internal/pkg/crop"
	"github.com/pixmill/PixMill/internal/pkg/transform"
)

// ItemStatus is the queue-relative status of a single item.
type ItemStatus string

const (
	StatusCurrent ItemStatus = "current"
	StatusDone    ItemStatus = "done"
	StatusPending ItemStatus = "pending"
	StatusNone    ItemStatus = "none"
)

var (
	ErrNotEnoughItems = errors.New("crop queue needs more than one item")
	ErrNoActiveCrop   = errors.New("crop queue needs at least one item with an active crop")
)

// Callbacks is the caller-supplied storage for per-item crop and transform
// plus an optional state observer. GetCrop and GetTransform must return
// materialized defaults, never a missing value.
type Callbacks struct {
	GetCrop       func(itemID string) crop.Crop
	SetCrop       func(itemID string, c crop.Crop)
	GetTransform  func(itemID string) transform.Transform
	SetTransform  func(itemID string, t transform.Transform)
	OnStateChange func(s *State)
}

// State drives the sequential "crop one image, then export it" workflow.
// Transitions are driven one at a time by the hosting event loop; the state
// imposes no locking of its own.
type State struct {
	Active       bool
	Items        []*models.Image
	CurrentIndex int
	CompletedIDs map[string]struct{}
	Canceled     bool

	cb Callbacks
}

// Enter starts queue mode over the given items in caller order. It requires
// more than one item and at least one active crop among them. When the first
// item has no active crop yet, an active full-image crop is materialized for
// it so the user always starts on a croppable item.
func Enter(items []*models.Image, cb Callbacks) (*State, error) {
	if len(items) < 2 {
		return nil, ErrNotEnoughItems
	}

	hasActive := false
	for _, item := range items {
		if crop.IsActive(cb.GetCrop(item.UUID)) {
			hasActive = true
			break
		}
	}
	if !hasActive {
		return nil, ErrNoActiveCrop
	}

	ensureActiveCrop(items[0].UUID, cb)

	s := &State{
		Active:       true,
		Items:        items,
		CurrentIndex: 0,
		CompletedIDs: make(map[string]struct{}),
		cb:           cb,
	}

	log.Infof("[CropQueue] Entered queue mode with %d items", len(items))
	s.notify()
	return s, nil
}

// Advance marks the current item completed and moves on. On the last item the
// queue folds back to idle. The next item always starts with an identity
// transform (orientation choices do not carry over between queue items) and
// an active crop. Calling Advance while idle or canceled is a no-op.
func (s *State) Advance() {
	if !s.Active || s.Canceled {
		return
	}

	s.CompletedIDs[s.Items[s.CurrentIndex].UUID] = struct{}{}
	s.CurrentIndex++

	if s.CurrentIndex >= len(s.Items) {
		s.Active = false
		log.Infof("[CropQueue] Queue finished, %d items completed", len(s.CompletedIDs))
		s.notify()
		return
	}

	next := s.Items[s.CurrentIndex]
	s.cb.SetTransform(next.UUID, transform.Identity())
	ensureActiveCrop(next.UUID, s.cb)

	s.notify()
}

// Cancel aborts the queue. Completed items stay completed; items never
// reached are left untouched. Canceling an idle queue is a no-op.
func (s *State) Cancel() {
	if !s.Active {
		return
	}

	s.Canceled = true
	s.Active = false
	log.Infof("[CropQueue] Queue canceled at item %d of %d", s.CurrentIndex+1, len(s.Items))
	s.notify()
}

// CurrentItem returns the item being cropped, or nil when the queue is idle
// or past the end.
func (s *State) CurrentItem() *models.Image {
	if !s.Active || s.CurrentIndex >= len(s.Items) {
		return nil
	}
	return s.Items[s.CurrentIndex]
}

// CompletedCount returns how many items have been exported.
func (s *State) CompletedCount() int {
	return len(s.CompletedIDs)
}

// RemainingCount returns how many items are still open.
func (s *State) RemainingCount() int {
	return len(s.Items) - len(s.CompletedIDs)
}

// ProgressString renders the position indicator shown in the UI.
func (s *State) ProgressString() string {
	return fmt.Sprintf("%d / %d", s.CurrentIndex+1, len(s.Items))
}

// ItemStatus reports the queue-relative status of an item. Once the queue is
// inactive, items that were never completed report StatusNone so stale
// "pending" labels cannot survive the session.
func (s *State) ItemStatus(itemID string) ItemStatus {
	if _, ok := s.CompletedIDs[itemID]; ok {
		return StatusDone
	}
	if !s.Active {
		return StatusNone
	}

	for i, item := range s.Items {
		if item.UUID != itemID {
			continue
		}
		switch {
		case i == s.CurrentIndex:
			return StatusCurrent
		case i > s.CurrentIndex:
			return StatusPending
		}
	}
	return StatusNone
}

func (s *State) notify() {
	if s.cb.OnStateChange != nil {
		s.cb.OnStateChange(s)
	}
}

// ensureActiveCrop flips the stored crop to active, falling back to a
// full-image rect when the stored rect is degenerate.
func ensureActiveCrop(itemID string, cb Callbacks) {
	c := cb.GetCrop(itemID)
	if c.Active && c.Rect.Width > 0 && c.Rect.Height > 0 {
		return
	}
	if c.Rect.Width <= 0 || c.Rect.Height <= 0 {
		c.Rect = crop.FullRect()
	}
	c.Active = true
	cb.SetCrop(itemID, c)
}
