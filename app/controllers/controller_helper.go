package controllers

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/pixmill/PixMill/app/models"
	"github.com/pixmill/PixMill/internal/pkg/cropqueue"
	"github.com/pixmill/PixMill/internal/pkg/session"
)

// The controllers share one editing session: the ordered list of imported
// items, their per-item edit state and the optional crop queue. PixMill is a
// single-user tool, so one session per process is the model.
var (
	mu         sync.RWMutex
	items      []*models.Image
	itemsByID  map[string]*models.Image
	store      *session.Store
	queueState *cropqueue.State

	validate = validator.New()
)

// Setup initializes the shared session state. Must be called before any
// route is served.
func Setup() {
	mu.Lock()
	defer mu.Unlock()
	items = nil
	itemsByID = make(map[string]*models.Image)
	store = session.NewStore()
	queueState = nil
}

// Store exposes the per-item edit store, e.g. for tests.
func Store() *session.Store {
	mu.RLock()
	defer mu.RUnlock()
	return store
}

func getItem(uuid string) *models.Image {
	mu.RLock()
	defer mu.RUnlock()
	return itemsByID[uuid]
}

func allItems() []*models.Image {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]*models.Image, len(items))
	copy(out, items)
	return out
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "bad_request",
		"message": message,
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":   "not_found",
		"message": message,
	})
}

func serverError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": err.Error(),
	})
}

func parseAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return err
	}
	return validate.Struct(req)
}
