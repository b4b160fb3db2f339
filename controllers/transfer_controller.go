package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"parts-ledger/repositories"
)

type TransferController struct {
	DB *gorm.DB
}

func NewTransferController(DB *gorm.DB) *TransferController {
	return &TransferController{DB: DB}
}

// Transfer moves a quantity of one part between two locations. Both legs run
// in one transaction; a partial transfer is never visible.
func (c *TransferController) Transfer(ctx *fiber.Ctx) error {
	userID := actorID(ctx)

	var input struct {
		PartID         uint   `json:"part_id"`
		FromLocationID uint   `json:"from_location_id"`
		ToLocationID   uint   `json:"to_location_id"`
		Qty            int    `json:"qty"`
		Note           string `json:"note"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	ledger := repositories.NewLedgerRepository(c.DB)
	result, err := ledger.Transfer(userID, input.PartID, input.FromLocationID, input.ToLocationID, input.Qty, input.Note)
	if err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Transfer completed successfully",
		"data":    result,
	})
}
