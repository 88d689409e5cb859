package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(app *fiber.App, uploads *UploadHandler, photos *PhotoHandler) {
	api := app.Group("/api")

	api.Post("/uploads", uploads.CreateUpload)
	api.Post("/uploads/archive", uploads.ImportArchive)
	api.Get("/uploads/:id", uploads.GetUpload)
	api.Put("/uploads/:id/location", uploads.SelectLocation)
	api.Post("/uploads/:id/save", uploads.SaveUpload)
	api.Delete("/uploads/:id", uploads.DiscardUpload)

	api.Get("/photos", photos.ListPhotos)
	api.Get("/photos/:id", photos.GetPhoto)
	api.Get("/photos/:id/image", photos.GetPhotoImage)
	api.Get("/map", photos.GetMap)
	api.Get("/cache/stats", photos.CacheStats)

	api.Get("/swagger/*", swagger.HandlerDefault)

	api.Get("/health", photos.Health)
}
