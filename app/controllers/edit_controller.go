package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pixmill/PixMill/internal/pkg/crop"
	"github.com/pixmill/PixMill/internal/pkg/lens"
	"github.com/pixmill/PixMill/internal/pkg/transform"
)

// HandleGetCrop returns the item's current crop.
func HandleGetCrop(c *fiber.Ctx) error {
	item := getItem(c.Params("uuid"))
	if item == nil {
		return notFound(c, "unknown item")
	}
	return c.JSON(store.Crop(item.UUID))
}

// CropRequest replaces an item's crop. When only a preset is given, the
// largest centered rect with that ratio is computed from the transformed
// image dimensions.
type CropRequest struct {
	Active bool        `json:"active"`
	Preset crop.Preset `json:"preset"`
	Rect   *crop.Rect  `json:"rect"`
}

// HandleSetCrop stores a crop for the item.
func HandleSetCrop(c *fiber.Ctx) error {
	item := getItem(c.Params("uuid"))
	if item == nil {
		return notFound(c, "unknown item")
	}

	var req CropRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err.Error())
	}

	next := crop.Crop{Active: req.Active, Preset: req.Preset}
	switch {
	case req.Rect != nil:
		if req.Rect.Width <= 0 || req.Rect.Height <= 0 ||
			req.Rect.X+req.Rect.Width > 1 || req.Rect.Y+req.Rect.Height > 1 ||
			req.Rect.X < 0 || req.Rect.Y < 0 {
			return badRequest(c, "crop rect must stay within the unit square with positive dimensions")
		}
		next.Rect = *req.Rect
	default:
		// the crop applies to the already-oriented image
		w, h := store.Transform(item.UUID).DimensionsAfter(item.Width, item.Height)
		if ratio, ok := crop.AspectRatioFor(req.Preset, w, h); ok {
			next.Rect = crop.CenteredRect(ratio, w, h)
		} else {
			next.Rect = crop.FullRect()
		}
	}

	store.SetCrop(item.UUID, next)
	return c.JSON(store.Crop(item.UUID))
}

// HandleGetTransform returns the item's current transform.
func HandleGetTransform(c *fiber.Ctx) error {
	item := getItem(c.Params("uuid"))
	if item == nil {
		return notFound(c, "unknown item")
	}

	t := store.Transform(item.UUID)
	w, h := t.DimensionsAfter(item.Width, item.Height)
	return c.JSON(fiber.Map{
		"transform": t,
		"width":     w,
		"height":    h,
	})
}

// HandleTransformOp applies a named orientation operation to the item.
func HandleTransformOp(c *fiber.Ctx) error {
	item := getItem(c.Params("uuid"))
	if item == nil {
		return notFound(c, "unknown item")
	}

	t := store.Transform(item.UUID)
	switch op := c.Params("op"); op {
	case "rotate-cw":
		t = t.RotateCW()
	case "rotate-ccw":
		t = t.RotateCCW()
	case "flip-h":
		t = t.WithFlipH()
	case "flip-v":
		t = t.WithFlipV()
	case "reset":
		t = transform.Identity()
	default:
		return badRequest(c, "unknown transform operation: "+op)
	}

	store.SetTransform(item.UUID, t)

	w, h := t.DimensionsAfter(item.Width, item.Height)
	return c.JSON(fiber.Map{
		"transform": t,
		"width":     w,
		"height":    h,
	})
}

// HandleGetLens returns the item's lens position and the pixel region it
// selects in the transformed coordinate space.
func HandleGetLens(c *fiber.Ctx) error {
	item := getItem(c.Params("uuid"))
	if item == nil {
		return notFound(c, "unknown item")
	}

	p := store.Lens(item.UUID)
	return c.JSON(fiber.Map{
		"lens":          p,
		"region":        lens.PixelRegionFor(p, item.Width, item.Height, store.Transform(item.UUID)),
		"full_coverage": p.IsFullCoverage(),
	})
}

// LensRequest sizes the lens for a detail panel and optionally moves it.
type LensRequest struct {
	PanelWidth  int      `json:"panel_width" validate:"required,gt=0"`
	PanelHeight int      `json:"panel_height" validate:"required,gt=0"`
	DX          *float64 `json:"dx"`
	DY          *float64 `json:"dy"`
}

// HandleSetLens sizes the lens so the selected region fills the given detail
// panel at 1:1, keeping the lens centered unless a drag delta is supplied.
func HandleSetLens(c *fiber.Ctx) error {
	item := getItem(c.Params("uuid"))
	if item == nil {
		return notFound(c, "unknown item")
	}

	var req LensRequest
	if err := parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	t := store.Transform(item.UUID)
	w, h := lens.DimensionsFor(item.Width, item.Height, req.PanelWidth, req.PanelHeight, t)

	p := store.Lens(item.UUID)
	p.Width, p.Height = w, h
	p = p.Clamp()
	if req.DX != nil || req.DY != nil {
		var dx, dy float64
		if req.DX != nil {
			dx = *req.DX
		}
		if req.DY != nil {
			dy = *req.DY
		}
		p = p.Move(dx, dy)
	}

	store.SetLens(item.UUID, p)
	return c.JSON(fiber.Map{
		"lens":          p,
		"region":        lens.PixelRegionFor(p, item.Width, item.Height, t),
		"full_coverage": p.IsFullCoverage(),
	})
}

// MoveLensRequest is a drag delta in normalized coordinates.
type MoveLensRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// HandleMoveLens translates the lens, clamped so it never leaves the image.
func HandleMoveLens(c *fiber.Ctx) error {
	item := getItem(c.Params("uuid"))
	if item == nil {
		return notFound(c, "unknown item")
	}

	var req MoveLensRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err.Error())
	}

	p := store.Lens(item.UUID).Move(req.DX, req.DY)
	store.SetLens(item.UUID, p)

	return c.JSON(fiber.Map{
		"lens":          p,
		"region":        lens.PixelRegionFor(p, item.Width, item.Height, store.Transform(item.UUID)),
		"full_coverage": p.IsFullCoverage(),
	})
}
