package controllers

import (
	"errors"

	"parts-ledger/repositories"

	"github.com/gofiber/fiber/v2"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Row     int    `json:"row,omitempty"`
}

type ExcelRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondRepoError maps repository errors to HTTP responses so every
// controller reports the same shapes for the same failures.
func respondRepoError(ctx *fiber.Ctx, err error) error {
	var insufficient *repositories.InsufficientQuantityError
	var incomplete *repositories.IncompleteCountError

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, repositories.ErrInvalidArgument),
		errors.Is(err, repositories.ErrInvalidStateTransition),
		errors.Is(err, repositories.ErrDuplicateRecord):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case errors.As(err, &insufficient):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":   false,
			"message":   err.Error(),
			"current":   insufficient.Current,
			"requested": insufficient.Requested,
		})
	case errors.As(err, &incomplete):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"pending": incomplete.Pending,
		})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
}

func actorID(ctx *fiber.Ctx) uint {
	if id, ok := ctx.Locals("userID").(float64); ok {
		return uint(id)
	}
	return 0
}
