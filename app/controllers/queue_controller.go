package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/pixmill/PixMill/app/models"
	"github.com/pixmill/PixMill/internal/pkg/cropqueue"
)

// EnterQueueRequest selects the items for a crop-then-export run, in the
// order they should be processed.
type EnterQueueRequest struct {
	ItemUUIDs []string `json:"item_uuids" validate:"required,min=2,dive,required"`
}

// HandleEnterCropQueue starts queue mode over the selected items.
func HandleEnterCropQueue(c *fiber.Ctx) error {
	var req EnterQueueRequest
	if err := parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	selected := make([]*models.Image, 0, len(req.ItemUUIDs))
	for _, uuid := range req.ItemUUIDs {
		item := getItem(uuid)
		if item == nil {
			return notFound(c, "unknown item: "+uuid)
		}
		selected = append(selected, item)
	}

	mu.Lock()
	defer mu.Unlock()

	if queueState != nil && queueState.Active {
		return badRequest(c, "a crop queue is already active")
	}

	state, err := cropqueue.Enter(selected, store.QueueCallbacks(logQueueChange))
	if err != nil {
		return badRequest(c, err.Error())
	}

	queueState = state
	return c.Status(fiber.StatusCreated).JSON(queueStateJSON(state))
}

// HandleAdvanceCropQueue is called after the current item's export finished:
// it marks the item done and prepares the next one.
func HandleAdvanceCropQueue(c *fiber.Ctx) error {
	mu.Lock()
	defer mu.Unlock()

	if queueState == nil {
		return badRequest(c, "no crop queue in progress")
	}

	queueState.Advance()
	return c.JSON(queueStateJSON(queueState))
}

// HandleCancelCropQueue aborts the queue. Completed items stay completed.
func HandleCancelCropQueue(c *fiber.Ctx) error {
	mu.Lock()
	defer mu.Unlock()

	if queueState == nil {
		return badRequest(c, "no crop queue in progress")
	}

	queueState.Cancel()
	return c.JSON(queueStateJSON(queueState))
}

// HandleGetCropQueue reports the queue state including per-item statuses.
func HandleGetCropQueue(c *fiber.Ctx) error {
	mu.RLock()
	defer mu.RUnlock()

	if queueState == nil {
		return c.JSON(fiber.Map{"active": false})
	}
	return c.JSON(queueStateJSON(queueState))
}

func queueStateJSON(s *cropqueue.State) fiber.Map {
	statuses := make(map[string]cropqueue.ItemStatus, len(s.Items))
	for _, item := range s.Items {
		statuses[item.UUID] = s.ItemStatus(item.UUID)
	}

	out := fiber.Map{
		"active":    s.Active,
		"canceled":  s.Canceled,
		"progress":  s.ProgressString(),
		"completed": s.CompletedCount(),
		"remaining": s.RemainingCount(),
		"statuses":  statuses,
	}
	if current := s.CurrentItem(); current != nil {
		out["current"] = current
	}
	return out
}

func logQueueChange(s *cropqueue.State) {
	log.Debugf("[CropQueue] State change: active=%v canceled=%v progress=%s", s.Active, s.Canceled, s.ProgressString())
}
