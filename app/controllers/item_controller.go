package controllers

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/pixmill/PixMill/app/models"
	"github.com/pixmill/PixMill/internal/pkg/imageprocessor"
)

// ImportRequest names the local files to pull into the session.
type ImportRequest struct {
	Paths []string `json:"paths" validate:"required,min=1,dive,required"`
}

// HandleImportImages imports local files as session items. Each item gets a
// detected format, pixel dimensions, EXIF metadata and an initial transform
// derived from the EXIF orientation so photos start upright.
func HandleImportImages(c *fiber.Ctx) error {
	var req ImportRequest
	if err := parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	imported := make([]*models.Image, 0, len(req.Paths))
	var skipped []string

	for _, path := range req.Paths {
		item, err := importOne(path)
		if err != nil {
			log.Warnf("[Import] Skipping %s: %v", path, err)
			skipped = append(skipped, path)
			continue
		}
		imported = append(imported, item)
	}

	mu.Lock()
	for _, item := range imported {
		items = append(items, item)
		itemsByID[item.UUID] = item
	}
	mu.Unlock()

	for _, item := range imported {
		store.SetTransform(item.UUID, imageprocessor.OrientationTransform(item.FilePath))
	}

	log.Infof("[Import] Imported %d items (%d skipped)", len(imported), len(skipped))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"items":   imported,
		"skipped": skipped,
	})
}

func importOne(path string) (*models.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	format, err := imageprocessor.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	item := models.NewImage(path, filepath.Base(path))
	item.FileSize = info.Size()
	item.FileType = filepath.Ext(path)
	item.Format = format

	if err := imageprocessor.ReadDimensions(item); err != nil {
		return nil, err
	}
	if err := imageprocessor.ExtractMetadata(item, path); err != nil {
		log.Warnf("[Import] Metadata extraction failed for %s: %v", path, err)
	}

	return item, nil
}

// HandleListItems returns all session items in import order.
func HandleListItems(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"items": allItems()})
}

// HandleGetItem returns one item with its current edit state.
func HandleGetItem(c *fiber.Ctx) error {
	item := getItem(c.Params("uuid"))
	if item == nil {
		return notFound(c, "unknown item")
	}

	return c.JSON(fiber.Map{
		"item":      item,
		"crop":      store.Crop(item.UUID),
		"transform": store.Transform(item.UUID),
		"lens":      store.Lens(item.UUID),
	})
}

// HandleDeleteItem removes an item and tears down its edit state.
func HandleDeleteItem(c *fiber.Ctx) error {
	uuid := c.Params("uuid")

	mu.Lock()
	item, ok := itemsByID[uuid]
	if ok {
		delete(itemsByID, uuid)
		for i := range items {
			if items[i].UUID == uuid {
				items = append(items[:i], items[i+1:]...)
				break
			}
		}
	}
	mu.Unlock()

	if !ok {
		return notFound(c, "unknown item")
	}

	store.Remove(uuid)
	imageprocessor.ClearExportStatus(uuid)
	log.Infof("[Import] Removed item %s (%s)", uuid, item.FileName)
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleClearItems ends the session: all items and their edit state go away.
func HandleClearItems(c *fiber.Ctx) error {
	mu.Lock()
	for _, item := range items {
		imageprocessor.ClearExportStatus(item.UUID)
	}
	items = nil
	itemsByID = make(map[string]*models.Image)
	queueState = nil
	mu.Unlock()

	store.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}
