package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"photo-map/internal/extraction"
	"photo-map/internal/location"
	"photo-map/internal/models"
	"photo-map/internal/services"
)

const InvalidUuidError = "invalid UUID"
const PhotoNotFoundError = "photo not found"

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnsupportedFile),
		errors.Is(err, services.ErrEmptyFile),
		errors.Is(err, location.ErrInvalidCoordinates),
		errors.Is(err, models.ErrInvalidPhoto):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, extraction.ErrArchiveTooLarge),
		errors.Is(err, extraction.ErrTooManyArchiveEntries):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, location.ErrLocationLocked):
		return fiber.StatusConflict
	case errors.Is(err, location.ErrNoLocation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": true, "message": message,
	})
}

// respondServiceError hides internal details of unexpected failures.
func respondServiceError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	switch {
	case status == fiber.StatusServiceUnavailable:
		message = "storage is temporarily unavailable"
	case status == fiber.StatusInternalServerError:
		message = "internal server error"
	case errors.Is(err, gorm.ErrRecordNotFound):
		message = PhotoNotFoundError
	}
	return respondError(c, status, message)
}
