package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pixmill/PixMill/app/controllers"
	"github.com/pixmill/PixMill/internal/pkg/constants"
)

// InstallRouter wires the loopback control API the desktop UI talks to.
func InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute)
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "PixMill control API",
		})
	})

	v1 := api.Group(constants.APIV1Route)

	// session items
	v1.Post("/items", controllers.HandleImportImages)
	v1.Get("/items", controllers.HandleListItems)
	v1.Delete("/items", controllers.HandleClearItems)
	v1.Get("/items/:uuid", controllers.HandleGetItem)
	v1.Delete("/items/:uuid", controllers.HandleDeleteItem)

	// per-item edit state
	v1.Get("/items/:uuid/crop", controllers.HandleGetCrop)
	v1.Put("/items/:uuid/crop", controllers.HandleSetCrop)
	v1.Get("/items/:uuid/transform", controllers.HandleGetTransform)
	v1.Post("/items/:uuid/transform/:op", controllers.HandleTransformOp)
	v1.Get("/items/:uuid/lens", controllers.HandleGetLens)
	v1.Put("/items/:uuid/lens", controllers.HandleSetLens)
	v1.Post("/items/:uuid/lens/move", controllers.HandleMoveLens)

	// target size
	v1.Post("/targetsize/estimate", controllers.HandleEstimateTargetSize)
	v1.Post("/items/:uuid/targetsize", controllers.HandleFindTargetSize)

	// crop queue
	v1.Post("/cropqueue", controllers.HandleEnterCropQueue)
	v1.Get("/cropqueue", controllers.HandleGetCropQueue)
	v1.Post("/cropqueue/advance", controllers.HandleAdvanceCropQueue)
	v1.Post("/cropqueue/cancel", controllers.HandleCancelCropQueue)

	// export
	v1.Post("/export", controllers.HandleStartExport)
	v1.Get("/export/jobs/:id", controllers.HandleGetExportJob)
	v1.Get("/export/status/:uuid", controllers.HandleGetExportStatus)
	v1.Get("/export/stats", controllers.HandleGetExportStats)
}
