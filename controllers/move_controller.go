package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"parts-ledger/repositories"
)

type MoveController struct {
	DB *gorm.DB
}

func NewMoveController(DB *gorm.DB) *MoveController {
	return &MoveController{DB: DB}
}

// History lists the move log newest first. Filters: part_id, location_id,
// user_id, reason, from, to (RFC3339), page, page_size.
func (c *MoveController) History(ctx *fiber.Ctx) error {
	filter := repositories.MoveFilter{
		PartID:     uint(ctx.QueryInt("part_id")),
		LocationID: uint(ctx.QueryInt("location_id")),
		UserID:     uint(ctx.QueryInt("user_id")),
		Reason:     ctx.Query("reason"),
		Page:       ctx.QueryInt("page", 1),
		PageSize:   ctx.QueryInt("page_size", 50),
	}

	if v := ctx.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid from timestamp",
			})
		}
		filter.From = &t
	}
	if v := ctx.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid to timestamp",
			})
		}
		filter.To = &t
	}

	repo := repositories.NewMoveRepository(c.DB)
	rows, total, err := repo.History(filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    rows,
		"total":   total,
	})
}

// Undo appends a compensating move for the given move id.
func (c *MoveController) Undo(ctx *fiber.Ctx) error {
	userID := actorID(ctx)

	moveID, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid move id",
		})
	}

	var input struct {
		Note string `json:"note"`
	}
	// body is optional
	_ = ctx.BodyParser(&input)

	ledger := repositories.NewLedgerRepository(c.DB)
	result, err := ledger.Undo(userID, moveID, input.Note)
	if err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Move undone successfully",
		"data":    result,
	})
}
