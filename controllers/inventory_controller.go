package controllers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"parts-ledger/repositories"
)

type InventoryController struct {
	DB *gorm.DB
}

func NewInventoryController(DB *gorm.DB) *InventoryController {
	return &InventoryController{DB: DB}
}

type movePayload struct {
	PartID     uint   `json:"part_id"`
	LocationID uint   `json:"location_id"`
	DeltaQty   int    `json:"delta_qty"`
	Reason     string `json:"reason"`
	Note       string `json:"note"`
}

// Move applies one signed quantity change for a part at a location.
func (c *InventoryController) Move(ctx *fiber.Ctx) error {
	userID := actorID(ctx)

	var input movePayload
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	ledger := repositories.NewLedgerRepository(c.DB)
	result, err := ledger.ApplyMove(userID, input.PartID, input.LocationID, input.DeltaQty, input.Reason, input.Note)
	if err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Move applied successfully",
		"data":    result,
	})
}

// Adjust is the admin correction endpoint. It may stock a pair that has no
// inventory record yet.
func (c *InventoryController) Adjust(ctx *fiber.Ctx) error {
	userID := actorID(ctx)

	var input movePayload
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	ledger := repositories.NewLedgerRepository(c.DB)
	result, err := ledger.AdminAdjust(userID, input.PartID, input.LocationID, input.DeltaQty, input.Reason, input.Note)
	if err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Adjustment applied successfully",
		"data":    result,
	})
}

// GetQuantity reports the quantity for one (part, location) pair.
func (c *InventoryController) GetQuantity(ctx *fiber.Ctx) error {
	partID := ctx.QueryInt("part_id")
	locationID := ctx.QueryInt("location_id")
	if partID <= 0 || locationID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "part_id and location_id are required",
		})
	}

	ledger := repositories.NewLedgerRepository(c.DB)
	qty, err := ledger.GetQuantity(uint(partID), uint(locationID))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"part_id":     partID,
			"location_id": locationID,
			"qty":         qty,
		},
	})
}

type inventoryRow struct {
	PartID       uint   `json:"part_id"`
	PartCode     string `json:"part_code"`
	PartName     string `json:"part_name"`
	Category     string `json:"category"`
	LocationID   uint   `json:"location_id"`
	LocationCode string `json:"location_code"`
	Zone         string `json:"zone"`
	Qty          int    `json:"qty"`
}

func (c *InventoryController) getInventoryRows() ([]inventoryRow, error) {
	sqlInventory := `select i.part_id, p.part_code, p.part_name, p.category,
	i.location_id, l.location_code, l.zone, i.qty
	from inventory_records i
	inner join parts p on i.part_id = p.id
	inner join locations l on i.location_id = l.id
	where i.qty > 0
	order by p.part_code, l.location_code`

	var rows []inventoryRow
	if err := c.DB.Raw(sqlInventory).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetInventory lists every stocked (part, location) pair.
func (c *InventoryController) GetInventory(ctx *fiber.Ctx) error {
	rows, err := c.getInventoryRows()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    rows,
	})
}

// ExportExcel streams the current stock as an xlsx download.
func (c *InventoryController) ExportExcel(ctx *fiber.Ctx) error {
	rows, err := c.getInventoryRows()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Part Code")
	f.SetCellValue(sheet, "B1", "Part Name")
	f.SetCellValue(sheet, "C1", "Category")
	f.SetCellValue(sheet, "D1", "Location")
	f.SetCellValue(sheet, "E1", "Zone")
	f.SetCellValue(sheet, "F1", "Quantity")

	for i, item := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), item.PartCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), item.PartName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), item.Category)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), item.LocationCode)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), item.Zone)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), item.Qty)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="inventory.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}

// Verify recomputes the ledger sum for a pair and compares it to the stored
// quantity.
func (c *InventoryController) Verify(ctx *fiber.Ctx) error {
	partID := ctx.QueryInt("part_id")
	locationID := ctx.QueryInt("location_id")
	if partID <= 0 || locationID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "part_id and location_id are required",
		})
	}

	ledger := repositories.NewLedgerRepository(c.DB)
	qty, err := ledger.GetQuantity(uint(partID), uint(locationID))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	sum, err := ledger.LedgerSum(uint(partID), uint(locationID))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"qty":        qty,
			"ledger_sum": sum,
			"consistent": qty == sum,
		},
	})
}
