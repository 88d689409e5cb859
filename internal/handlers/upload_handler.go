package handlers

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"photo-map/internal/models"
	"photo-map/internal/services"
)

var archiveExtensions = map[string]bool{
	".zip": true, ".tar": true, ".tgz": true, ".gz": true, ".7z": true, ".rar": true,
}

// UploadHandler defines handlers for the upload session flow.
type UploadHandler struct {
	Service        *services.PhotoService
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service *services.PhotoService, logger *zap.Logger, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{Service: service, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

// LocationRequest is a user supplied point.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CreateUpload handles POST /uploads.
// @Summary Upload a photo
// @Description Upload a single JPEG. Its EXIF capture time and GPS position are read and an upload session is opened.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JPEG file (.jpg or .jpeg)"
// @Success 201 {object} services.UploadStatus "Upload session"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Failure 413 {object} map[string]interface{} "File too large"
// @Router /uploads [post]
func (h *UploadHandler) CreateUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "failed to read file: "+err.Error())
	}
	if h.MaxUploadBytes > 0 && fileHeader.Size > h.MaxUploadBytes {
		return respondServiceError(c, services.ErrFileTooLarge)
	}

	data, err := readFormFile(fileHeader, h.MaxUploadBytes)
	if err != nil {
		h.Logger.Warn("could not read uploaded file", zap.String("filename", fileHeader.Filename), zap.Error(err))
		return respondError(c, fiber.StatusBadRequest, "failed to read file")
	}

	status, err := h.Service.BeginUpload(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		h.Logger.Info("upload rejected", zap.String("filename", fileHeader.Filename), zap.Error(err))
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(status)
}

// GetUpload handles GET /uploads/:id.
// @Summary Get an upload session
// @Tags uploads
// @Produce json
// @Param id path string true "Upload session ID"
// @Success 200 {object} services.UploadStatus "Upload session"
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /uploads/{id} [get]
func (h *UploadHandler) GetUpload(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, InvalidUuidError)
	}
	status, err := h.Service.GetUpload(id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(status)
}

// SelectLocation handles PUT /uploads/:id/location.
// @Summary Pick the location of a photo
// @Description Records a point chosen on the map or typed in. Not allowed when the photo carries EXIF coordinates.
// @Tags uploads
// @Accept json
// @Produce json
// @Param id path string true "Upload session ID"
// @Param location body LocationRequest true "Point in decimal degrees"
// @Success 200 {object} services.UploadStatus "Updated session"
// @Failure 400 {object} map[string]interface{} "Invalid coordinates"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Failure 409 {object} map[string]interface{} "Location fixed by EXIF data"
// @Router /uploads/{id}/location [put]
func (h *UploadHandler) SelectLocation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, InvalidUuidError)
	}

	var req LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Latitude == nil || req.Longitude == nil {
		return respondError(c, fiber.StatusBadRequest, "latitude and longitude are required")
	}

	status, err := h.Service.SelectLocation(id, models.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(status)
}

// SaveUpload handles POST /uploads/:id/save.
// @Summary Save a photo
// @Description Stores the photo and its metadata once a location is known.
// @Tags uploads
// @Produce json
// @Param id path string true "Upload session ID"
// @Success 201 {object} models.PhotoView "Stored photo"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Failure 422 {object} map[string]interface{} "No location selected"
// @Failure 503 {object} map[string]interface{} "Storage unavailable"
// @Router /uploads/{id}/save [post]
func (h *UploadHandler) SaveUpload(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, InvalidUuidError)
	}

	view, err := h.Service.SaveUpload(c.UserContext(), id)
	if err != nil {
		if statusFor(err) >= fiber.StatusInternalServerError {
			h.Logger.Error("save failed", zap.String("session", id.String()), zap.Error(err))
		}
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// DiscardUpload handles DELETE /uploads/:id.
// @Summary Discard an upload session
// @Tags uploads
// @Param id path string true "Upload session ID"
// @Success 204 "Discarded"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /uploads/{id} [delete]
func (h *UploadHandler) DiscardUpload(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, InvalidUuidError)
	}
	if err := h.Service.DiscardUpload(id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ImportArchive handles POST /uploads/archive.
// @Summary Import an archive of photos
// @Description Every JPEG in a ZIP, TAR, 7z or RAR archive is uploaded. Photos with EXIF coordinates are saved, the rest wait as upload sessions.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Archive file"
// @Success 200 {object} services.ImportResult "Import summary"
// @Failure 400 {object} map[string]interface{} "Bad request"
// @Router /uploads/archive [post]
func (h *UploadHandler) ImportArchive(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "failed to read file: "+err.Error())
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !archiveExtensions[ext] {
		return respondError(c, fiber.StatusBadRequest, "unsupported archive format: "+ext)
	}

	// Save the uploaded archive to a temporary location
	srcFile, err := fileHeader.Open()
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "could not open uploaded archive")
	}
	defer srcFile.Close()

	tempArchive, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		h.Logger.Error("could not create temporary file", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "internal server error")
	}
	tempArchivePath := tempArchive.Name()
	defer os.Remove(tempArchivePath)

	_, err = io.Copy(tempArchive, srcFile)
	tempArchive.Close()
	if err != nil {
		h.Logger.Error("failed to write uploaded archive", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "internal server error")
	}

	result, err := h.Service.ImportArchive(c.UserContext(), tempArchivePath)
	if err != nil {
		h.Logger.Info("archive rejected", zap.String("filename", fileHeader.Filename), zap.Error(err))
		if statusFor(err) == fiber.StatusRequestEntityTooLarge {
			return respondError(c, fiber.StatusRequestEntityTooLarge, "archive exceeds the import limits")
		}
		return respondError(c, fiber.StatusBadRequest, "could not read archive")
	}
	return c.JSON(result)
}

func readFormFile(fileHeader *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	return io.ReadAll(r)
}
