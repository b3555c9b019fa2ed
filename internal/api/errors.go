package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"trade-journal/internal/journal"
	"trade-journal/internal/storage"
)

// classify maps an intent error to an HTTP status and a short kind.
func classify(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, "request"
	case journal.IsValidation(err), errors.Is(err, storage.ErrInvalidInput):
		return fiber.StatusBadRequest, "validation"
	case journal.IsPolicy(err):
		return fiber.StatusConflict, "policy"
	case errors.Is(err, journal.ErrNotSignedIn):
		return fiber.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, journal.ErrNoFocus),
		errors.Is(err, journal.ErrNotEditing),
		errors.Is(err, journal.ErrNoPendingConfirmation):
		return fiber.StatusConflict, "state"
	case errors.Is(err, storage.ErrNotFound):
		return fiber.StatusNotFound, "not_found"
	case storage.IsRepositoryError(err):
		return fiber.StatusBadGateway, "repository"
	default:
		return fiber.StatusInternalServerError, "internal"
	}
}

// errorHandler renders errors that carry no snapshot.
func errorHandler(c *fiber.Ctx, err error) error {
	status, kind := classify(err)
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{"kind": kind, "message": err.Error()},
	})
}
