package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/pixmill/PixMill/internal/pkg/env"
	"github.com/pixmill/PixMill/internal/pkg/imageprocessor"
	"github.com/pixmill/PixMill/internal/pkg/jobqueue"
	"github.com/pixmill/PixMill/internal/pkg/targetsize"
)

// EstimateRequest asks for the cheap analytic size approximation used for
// live display while the user drags the quality/target sliders.
type EstimateRequest struct {
	SourceWidth  int     `json:"source_width" validate:"required,gt=0"`
	SourceHeight int     `json:"source_height" validate:"required,gt=0"`
	TargetMiB    float64 `json:"target_mib"`
	Quality      int     `json:"quality" validate:"required,gte=40,lte=100"`
}

// HandleEstimateTargetSize never touches an encoder; the numbers are not
// authoritative.
func HandleEstimateTargetSize(c *fiber.Ctx) error {
	var req EstimateRequest
	if err := parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	opts := targetsize.Options{
		SourceWidth:  req.SourceWidth,
		SourceHeight: req.SourceHeight,
		TargetMiB:    req.TargetMiB,
		Quality:      req.Quality,
	}

	w, h, scale := targetsize.EstimateDimensionsForTarget(opts)
	return c.JSON(fiber.Map{
		"width":           w,
		"height":          h,
		"scale":           scale,
		"estimated_bytes": targetsize.EstimateFileSize(w, h, req.Quality),
	})
}

// FindTargetSizeRequest runs the real probing search for one item.
type FindTargetSizeRequest struct {
	TargetMiB float64 `json:"target_mib" validate:"required"`
	Quality   int     `json:"quality" validate:"required,gte=40,lte=100"`
	Format    string  `json:"format" validate:"omitempty,oneof=jpeg png webp"`
}

// HandleFindTargetSize resolves a byte budget into output dimensions using
// real encode probes against the item's file.
func HandleFindTargetSize(c *fiber.Ctx) error {
	item := getItem(c.Params("uuid"))
	if item == nil {
		return notFound(c, "unknown item")
	}

	var req FindTargetSizeRequest
	if err := parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	probe, err := imageprocessor.NewEncodeProbe(item.FilePath, req.Format)
	if err != nil {
		return serverError(c, err)
	}

	// dimensions the search works from are the transform-adjusted ones
	w, h := store.Transform(item.UUID).DimensionsAfter(item.Width, item.Height)
	result, err := targetsize.Find(c.Context(), targetsize.Options{
		SourceWidth:  w,
		SourceHeight: h,
		TargetMiB:    req.TargetMiB,
		Quality:      req.Quality,
	}, probe)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(result)
}

// ExportRequest starts a batch export run over the given items (all session
// items when empty). Either explicit dimensions or a target budget may be
// set; the budget wins and resolves per-item dimensions via the search.
type ExportRequest struct {
	ItemUUIDs []string `json:"item_uuids"`
	OutputDir string   `json:"output_dir" validate:"required"`
	Format    string   `json:"format" validate:"omitempty,oneof=jpeg png webp"`
	Quality   int      `json:"quality" validate:"omitempty,gte=40,lte=100"`
	Width     int      `json:"width" validate:"omitempty,gt=0"`
	Height    int      `json:"height" validate:"omitempty,gt=0"`
	TargetMiB float64  `json:"target_mib"`
}

// HandleStartExport resolves the per-item configuration (transform, crop,
// resize parameters) and enqueues one export job per item.
func HandleStartExport(c *fiber.Ctx) error {
	var req ExportRequest
	if err := parseAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	selected := allItems()
	if len(req.ItemUUIDs) > 0 {
		selected = selected[:0]
		for _, uuid := range req.ItemUUIDs {
			item := getItem(uuid)
			if item == nil {
				return notFound(c, "unknown item: "+uuid)
			}
			selected = append(selected, item)
		}
	}
	if len(selected) == 0 {
		return badRequest(c, "no items to export")
	}

	queue := jobqueue.GetManager().GetQueue()
	jobIDs := make(map[string]string, len(selected))

	// an omitted quality must mean the same thing to the search probe and to
	// the encoder that writes the file
	if req.Quality <= 0 {
		req.Quality = imageprocessor.DefaultQuality
	}

	for _, item := range selected {
		cfg := imageprocessor.ExportConfig{
			Transform: store.Transform(item.UUID),
			Crop:      store.Crop(item.UUID),
			Width:     req.Width,
			Height:    req.Height,
			Format:    req.Format,
			Quality:   req.Quality,
		}

		if req.TargetMiB > 0 {
			probe, err := imageprocessor.NewEncodeProbe(item.FilePath, req.Format)
			if err != nil {
				return serverError(c, err)
			}
			w, h := cfg.Transform.DimensionsAfter(item.Width, item.Height)
			result, err := targetsize.Find(c.Context(), targetsize.Options{
				SourceWidth:  w,
				SourceHeight: h,
				TargetMiB:    req.TargetMiB,
				Quality:      cfg.Quality,
			}, probe)
			if err != nil {
				return serverError(c, err)
			}
			cfg.Width, cfg.Height = result.Width, result.Height
			if result.Warning != "" {
				log.Warnf("[Export] Target size for %s: %s", item.UUID, result.Warning)
			}
		}

		job, err := queue.Enqueue(jobqueue.ExportJobPayload{
			Item:      item,
			Config:    cfg,
			OutputDir: req.OutputDir,
		})
		if err != nil {
			return serverError(c, err)
		}
		jobIDs[item.UUID] = job.ID
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"jobs": jobIDs})
}

// HandleGetExportJob reports one export job.
func HandleGetExportJob(c *fiber.Ctx) error {
	job, err := jobqueue.GetManager().GetQueue().GetJob(c.Params("id"))
	if err != nil {
		return notFound(c, err.Error())
	}
	return c.JSON(job)
}

// HandleGetExportStatus reports the per-item export status tracked in the
// status cache.
func HandleGetExportStatus(c *fiber.Ctx) error {
	item := getItem(c.Params("uuid"))
	if item == nil {
		return notFound(c, "unknown item")
	}

	status := imageprocessor.GetExportStatus(item.UUID)
	out := fiber.Map{
		"status":   status,
		"complete": imageprocessor.IsExportComplete(item.UUID),
	}
	if ts, err := imageprocessor.GetExportStatusTimestamp(item.UUID); err == nil {
		out["updated_at"] = ts
	}
	return c.JSON(out)
}

// HandleGetExportStats reports queue-wide counters.
func HandleGetExportStats(c *fiber.Ctx) error {
	queue := jobqueue.GetManager().GetQueue()
	return c.JSON(fiber.Map{
		"pending": queue.GetQueueSize(),
		"stats":   queue.GetJobStats(),
		"workers": env.GetEnv("EXPORT_WORKERS", "3"),
	})
}
