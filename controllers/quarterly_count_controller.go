package controllers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"parts-ledger/repositories"
)

type QuarterlyCountController struct {
	DB *gorm.DB
}

func NewQuarterlyCountController(DB *gorm.DB) *QuarterlyCountController {
	return &QuarterlyCountController{DB: DB}
}

// CREATE. Snapshots current inventory as the expected baseline.
func (qc *QuarterlyCountController) CreateCount(ctx *fiber.Ctx) error {
	userID := actorID(ctx)

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	repo := repositories.NewQuarterlyCountRepository(qc.DB)
	count, err := repo.Create(input.Name, input.Description, userID)
	if err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Count created successfully",
		"data":    count,
	})
}

// READ ALL
func (qc *QuarterlyCountController) GetAllCounts(ctx *fiber.Ctx) error {
	repo := repositories.NewQuarterlyCountRepository(qc.DB)
	counts, err := repo.GetAll()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    counts,
	})
}

// READ BY ID, records grouped by location for the count sheet.
func (qc *QuarterlyCountController) GetCountByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := repositories.NewQuarterlyCountRepository(qc.DB)
	count, records, err := repo.GetDetail(uint(id))
	if err != nil {
		return respondRepoError(ctx, err)
	}

	byLocation := make(map[string][]repositories.CountRecordDetail)
	var order []string
	for _, rec := range records {
		if _, seen := byLocation[rec.LocationCode]; !seen {
			order = append(order, rec.LocationCode)
		}
		byLocation[rec.LocationCode] = append(byLocation[rec.LocationCode], rec)
	}

	var groups []fiber.Map
	for _, code := range order {
		groups = append(groups, fiber.Map{
			"location_code": code,
			"records":       byLocation[code],
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"count":     count,
			"locations": groups,
		},
	})
}

// RecordCounts takes a batch of counted quantities. Bad entries do not block
// good ones.
func (qc *QuarterlyCountController) RecordCounts(ctx *fiber.Ctx) error {
	userID := actorID(ctx)

	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var input struct {
		Entries []repositories.CountEntry `json:"entries"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if len(input.Entries) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "entries are required",
		})
	}

	repo := repositories.NewQuarterlyCountRepository(qc.DB)
	result, err := repo.RecordCounts(uint(id), userID, input.Entries)
	if err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Recorded %d counts", result.Updated),
		"data":    result,
	})
}

// AddRecord registers a (part, location) pair discovered during counting.
func (qc *QuarterlyCountController) AddRecord(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var input struct {
		PartID      uint `json:"part_id"`
		LocationID  uint `json:"location_id"`
		ExpectedQty int  `json:"expected_qty"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	repo := repositories.NewQuarterlyCountRepository(qc.DB)
	record, err := repo.AddRecord(uint(id), input.PartID, input.LocationID, input.ExpectedQty)
	if err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Record added successfully",
		"data":    record,
	})
}

// RemoveRecord drops a record from an in-progress count.
func (qc *QuarterlyCountController) RemoveRecord(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}
	recordID, err := ctx.ParamsInt("recordId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record id"})
	}

	repo := repositories.NewQuarterlyCountRepository(qc.DB)
	if err := repo.RemoveRecord(uint(id), uint(recordID)); err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Record removed successfully",
	})
}

// Complete closes the count, optionally applying variance adjustments to
// inventory.
func (qc *QuarterlyCountController) CompleteCount(ctx *fiber.Ctx) error {
	userID := actorID(ctx)

	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var input struct {
		ApplyAdjustments bool `json:"apply_adjustments"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	repo := repositories.NewQuarterlyCountRepository(qc.DB)
	summary, err := repo.Complete(uint(id), userID, input.ApplyAdjustments)
	if err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Count completed successfully",
		"data":    summary,
	})
}

// Cancel abandons an in-progress count.
func (qc *QuarterlyCountController) CancelCount(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := repositories.NewQuarterlyCountRepository(qc.DB)
	if err := repo.Cancel(uint(id)); err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Count cancelled successfully",
	})
}

// DELETE
func (qc *QuarterlyCountController) DeleteCount(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := repositories.NewQuarterlyCountRepository(qc.DB)
	if err := repo.Delete(uint(id)); err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Count deleted successfully",
	})
}

// Summary reports counting progress.
func (qc *QuarterlyCountController) GetSummary(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := repositories.NewQuarterlyCountRepository(qc.DB)
	summary, err := repo.Summary(uint(id))
	if err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

// ExportExcel streams the count sheet as an xlsx download.
func (qc *QuarterlyCountController) ExportExcel(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := repositories.NewQuarterlyCountRepository(qc.DB)
	count, records, err := repo.GetDetail(uint(id))
	if err != nil {
		return respondRepoError(ctx, err)
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Location")
	f.SetCellValue(sheet, "B1", "Part Code")
	f.SetCellValue(sheet, "C1", "Part Name")
	f.SetCellValue(sheet, "D1", "Expected")
	f.SetCellValue(sheet, "E1", "Counted")
	f.SetCellValue(sheet, "F1", "Variance")
	f.SetCellValue(sheet, "G1", "Status")
	f.SetCellValue(sheet, "H1", "Notes")

	for i, rec := range records {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), rec.LocationCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), rec.PartCode)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), rec.PartName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), rec.ExpectedQty)
		if rec.CountedQty != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", i+2), *rec.CountedQty)
		}
		f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), rec.Variance)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", i+2), rec.Status)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", i+2), rec.Notes)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="count-%s.xlsx"`, count.Name))

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}
