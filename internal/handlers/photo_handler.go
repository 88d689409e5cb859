package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"photo-map/internal/models"
	"photo-map/internal/services"
)

// DateLayout is the format of the gallery date filters.
const DateLayout = "2006-01-02"

// PhotoHandler defines handlers for stored photos, the gallery and the map.
type PhotoHandler struct {
	Service *services.PhotoService
	Logger  *zap.Logger
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(service *services.PhotoService, logger *zap.Logger) *PhotoHandler {
	return &PhotoHandler{Service: service, Logger: logger}
}

// ListPhotos handles GET /photos.
// @Summary Browse the gallery
// @Description Filter by filename substring, capture date range and distance from a point. Newest captures first, undated photos last.
// @Tags photos
// @Produce json
// @Param filename query string false "Filename substring"
// @Param from query string false "First capture day (YYYY-MM-DD)"
// @Param to query string false "Last capture day (YYYY-MM-DD)"
// @Param lat query number false "Latitude of the search center"
// @Param lng query number false "Longitude of the search center"
// @Param radius query number false "Search radius in meters"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} models.GalleryPage "Gallery page"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Failure 503 {object} map[string]interface{} "Storage unavailable"
// @Router /photos [get]
func (h *PhotoHandler) ListPhotos(c *fiber.Ctx) error {
	q, err := parseGalleryQuery(c)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	page, err := h.Service.Gallery(c.UserContext(), q)
	if err != nil {
		if statusFor(err) >= fiber.StatusInternalServerError {
			h.Logger.Error("gallery query failed", zap.Error(err))
		}
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetPhoto handles GET /photos/:id.
// @Summary Get a photo
// @Description Returns the stored record with signed image and thumbnail links.
// @Tags photos
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} models.PhotoView "Photo"
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Failure 404 {object} map[string]interface{} "Photo not found"
// @Router /photos/{id} [get]
func (h *PhotoHandler) GetPhoto(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, InvalidUuidError)
	}
	view, err := h.Service.GetPhoto(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// GetPhotoImage handles GET /photos/:id/image.
// @Summary Open the full image
// @Description Redirects to a time-limited signed link to the image.
// @Tags photos
// @Param id path string true "Photo ID"
// @Success 302 "Redirect to the signed URL"
// @Failure 404 {object} map[string]interface{} "Photo not found"
// @Failure 503 {object} map[string]interface{} "Storage unavailable"
// @Router /photos/{id}/image [get]
func (h *PhotoHandler) GetPhotoImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, InvalidUuidError)
	}
	signed, err := h.Service.ImageURL(c.UserContext(), id)
	if err != nil {
		if statusFor(err) >= fiber.StatusInternalServerError {
			h.Logger.Error("could not sign image url", zap.String("id", id.String()), zap.Error(err))
		}
		return respondServiceError(c, err)
	}
	return c.Redirect(signed, fiber.StatusFound)
}

// GetMap handles GET /map.
// @Summary Map markers
// @Description One marker per stored photo, centered on their mean position.
// @Tags photos
// @Produce json
// @Success 200 {object} models.MapView "Map"
// @Failure 503 {object} map[string]interface{} "Storage unavailable"
// @Router /map [get]
func (h *PhotoHandler) GetMap(c *fiber.Ctx) error {
	view, err := h.Service.MapView(c.UserContext())
	if err != nil {
		h.Logger.Error("map query failed", zap.Error(err))
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// CacheStats handles GET /cache/stats.
// @Summary Signed URL cache statistics
// @Tags cache
// @Produce json
// @Success 200 {object} cache.LayerStats "Cache statistics"
// @Router /cache/stats [get]
func (h *PhotoHandler) CacheStats(c *fiber.Ctx) error {
	return c.JSON(h.Service.CacheStats())
}

// Health handles GET /health.
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service status and open upload sessions"
// @Router /health [get]
func (h *PhotoHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "ok",
		"pending_uploads": h.Service.PendingUploads(),
	})
}

func parseGalleryQuery(c *fiber.Ctx) (services.GalleryQuery, error) {
	var q services.GalleryQuery
	q.Filter.Filename = c.Query("filename")

	var err error
	if q.Filter.From, err = parseDate(c.Query("from"), "from"); err != nil {
		return q, err
	}
	if q.Filter.To, err = parseDate(c.Query("to"), "to"); err != nil {
		return q, err
	}

	lat, lng, radius := c.Query("lat"), c.Query("lng"), c.Query("radius")
	if lat != "" || lng != "" || radius != "" {
		if lat == "" || lng == "" || radius == "" {
			return q, fiber.NewError(fiber.StatusBadRequest, "lat, lng and radius must be given together")
		}
		var near models.Coordinates
		if near.Latitude, err = strconv.ParseFloat(lat, 64); err != nil {
			return q, fiber.NewError(fiber.StatusBadRequest, "invalid lat")
		}
		if near.Longitude, err = strconv.ParseFloat(lng, 64); err != nil {
			return q, fiber.NewError(fiber.StatusBadRequest, "invalid lng")
		}
		if q.Filter.RadiusMeters, err = strconv.ParseFloat(radius, 64); err != nil || q.Filter.RadiusMeters <= 0 {
			return q, fiber.NewError(fiber.StatusBadRequest, "invalid radius")
		}
		if !near.Valid() {
			return q, fiber.NewError(fiber.StatusBadRequest, "lat/lng out of range")
		}
		q.Filter.Near = &near
	}

	if q.Page, err = parseInt(c.Query("page"), 1); err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "invalid page")
	}
	if q.PageSize, err = parseInt(c.Query("page_size"), services.DefaultPageSize); err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "invalid page_size")
	}
	return q, nil
}

func parseDate(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" date, expected YYYY-MM-DD")
	}
	return &t, nil
}

func parseInt(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fiber.ErrBadRequest
	}
	return n, nil
}
