package controllers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"parts-ledger/models"
	"parts-ledger/repositories"
)

type ReceivingController struct {
	DB *gorm.DB
}

func NewReceivingController(DB *gorm.DB) *ReceivingController {
	return &ReceivingController{DB: DB}
}

type ReceivingItem struct {
	PartCode     string  `json:"part_code"`
	PartName     string  `json:"part_name"`
	Color        string  `json:"color"`
	Category     string  `json:"category"`
	JobNumber    string  `json:"job_number"`
	SizeW        float64 `json:"size_w"`
	SizeL        float64 `json:"size_l"`
	Thickness    float64 `json:"thickness"`
	Brand        string  `json:"brand"`
	Unit         string  `json:"unit"`
	LocationCode string  `json:"location_code"`
	Qty          int     `json:"qty"`
	Note         string  `json:"note"`
}

type ReceivingResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	TotalItems   int             `json:"total_items"`
	SuccessCount int             `json:"success_count"`
	FailedCount  int             `json:"failed_count"`
	Errors       []ExcelRowError `json:"errors,omitempty"`
}

// Receive books a batch of incoming items. Items are independent: a failed
// row is reported and skipped, the rest still land.
func (rc *ReceivingController) Receive(ctx *fiber.Ctx) error {
	userID := actorID(ctx)

	var input struct {
		Items []ReceivingItem `json:"items"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if len(input.Items) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "items are required",
		})
	}

	resp := rc.receiveItems(userID, input.Items)
	status := fiber.StatusOK
	if resp.SuccessCount == 0 {
		status = fiber.StatusBadRequest
	}
	return ctx.Status(status).JSON(resp)
}

func (rc *ReceivingController) receiveItems(userID uint, items []ReceivingItem) *ReceivingResponse {
	resp := &ReceivingResponse{TotalItems: len(items)}

	for i, item := range items {
		rowNum := i + 1
		if err := rc.receiveOne(userID, item); err != nil {
			resp.FailedCount++
			resp.Errors = append(resp.Errors, ExcelRowError{
				Row:     rowNum,
				Message: "Failed to receive item",
				Detail:  err.Error(),
			})
			continue
		}
		resp.SuccessCount++
	}

	resp.Success = resp.FailedCount == 0
	resp.Message = fmt.Sprintf("Received %d of %d items", resp.SuccessCount, resp.TotalItems)
	return resp
}

func (rc *ReceivingController) receiveOne(userID uint, item ReceivingItem) error {
	if item.PartCode == "" {
		return fmt.Errorf("part_code is required")
	}
	if item.LocationCode == "" {
		return fmt.Errorf("location_code is required")
	}
	if item.Qty <= 0 {
		return fmt.Errorf("qty must be positive")
	}

	return rc.DB.Transaction(func(tx *gorm.DB) error {
		part, err := rc.upsertPart(tx, int(userID), item)
		if err != nil {
			return err
		}

		var location models.Location
		err = tx.Where("location_code = ?", item.LocationCode).First(&location).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Incoming stock may name a brand-new location.
			location = models.Location{LocationCode: item.LocationCode, CreatedBy: int(userID), UpdatedBy: int(userID)}
			if err := tx.Create(&location).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		note := item.Note
		if note == "" {
			note = "Received " + strconv.Itoa(item.Qty) + " units of " + part.PartCode
		}

		ledger := repositories.NewLedgerRepository(tx)
		_, err = ledger.ApplyMove(userID, part.ID, location.ID, item.Qty, models.ReasonReceiving, note)
		return err
	})
}

// upsertPart registers a new part or tops up descriptive fields on an
// existing one. Only empty fields are filled, a receiving row never
// overwrites what the catalog already says.
func (rc *ReceivingController) upsertPart(tx *gorm.DB, userID int, item ReceivingItem) (*models.Part, error) {
	var part models.Part
	err := tx.Where("part_code = ?", item.PartCode).First(&part).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		part = models.Part{
			PartCode:  item.PartCode,
			PartName:  item.PartName,
			Color:     item.Color,
			Category:  item.Category,
			JobNumber: item.JobNumber,
			SizeW:     item.SizeW,
			SizeL:     item.SizeL,
			Thickness: item.Thickness,
			Brand:     item.Brand,
			Unit:      item.Unit,
			CreatedBy: userID,
			UpdatedBy: userID,
		}
		if err := tx.Create(&part).Error; err != nil {
			return nil, err
		}
		return &part, nil
	}
	if err != nil {
		return nil, err
	}

	changed := false
	if part.PartName == "" && item.PartName != "" {
		part.PartName = item.PartName
		changed = true
	}
	if part.Color == "" && item.Color != "" {
		part.Color = item.Color
		changed = true
	}
	if part.Category == "" && item.Category != "" {
		part.Category = item.Category
		changed = true
	}
	if part.JobNumber == "" && item.JobNumber != "" {
		part.JobNumber = item.JobNumber
		changed = true
	}
	if part.Brand == "" && item.Brand != "" {
		part.Brand = item.Brand
		changed = true
	}
	if part.Unit == "" && item.Unit != "" {
		part.Unit = item.Unit
		changed = true
	}
	if changed {
		part.UpdatedBy = userID
		if err := tx.Save(&part).Error; err != nil {
			return nil, err
		}
	}
	return &part, nil
}

//====================================================================
// BEGIN RECEIVING FROM EXCEL
//====================================================================

// ReceiveFromExcel books incoming items from an uploaded spreadsheet.
// Expected columns: Part Code, Part Name, Qty, Location, Color, Category,
// Brand, Unit.
func (rc *ReceivingController) ReceiveFromExcel(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ReceivingResponse{
			Success: false,
			Message: "No file uploaded or invalid file",
			Errors: []ExcelRowError{
				{Row: 0, Message: "File Error", Detail: err.Error()},
			},
		})
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") &&
		!strings.HasSuffix(strings.ToLower(file.Filename), ".xls") {
		return ctx.Status(fiber.StatusBadRequest).JSON(ReceivingResponse{
			Success: false,
			Message: "Invalid file format. Only .xlsx and .xls files are allowed",
		})
	}

	if file.Size > 10*1024*1024 {
		return ctx.Status(fiber.StatusBadRequest).JSON(ReceivingResponse{
			Success: false,
			Message: "File size exceeds maximum limit of 10MB",
		})
	}

	fileHeader, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(ReceivingResponse{
			Success: false,
			Message: "Failed to open uploaded file",
		})
	}
	defer fileHeader.Close()

	excelFile, err := excelize.OpenReader(fileHeader)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ReceivingResponse{
			Success: false,
			Message: "Failed to read Excel file. Please ensure the file is not corrupted",
		})
	}
	defer excelFile.Close()

	sheets := excelFile.GetSheetList()
	if len(sheets) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(ReceivingResponse{
			Success: false,
			Message: "Excel file contains no sheets",
		})
	}

	rows, err := excelFile.GetRows(sheets[0])
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(ReceivingResponse{
			Success: false,
			Message: "Failed to read rows from Excel",
		})
	}

	if len(rows) < 2 {
		return ctx.Status(fiber.StatusBadRequest).JSON(ReceivingResponse{
			Success: false,
			Message: "Excel file must contain at least header row and one data row",
		})
	}

	userID := actorID(ctx)

	items, validationErrors := parseReceivingRows(rows)
	if len(validationErrors) > 0 {
		log.Printf("Receiving upload rejected: %d validation errors", len(validationErrors))
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":           false,
			"message":           fmt.Sprintf("Validation failed with %d errors", len(validationErrors)),
			"validation_errors": validationErrors,
			"total_rows":        len(rows) - 1,
		})
	}

	if len(items) < 1 {
		return ctx.Status(fiber.StatusBadRequest).JSON(ReceivingResponse{
			Success: false,
			Message: "No valid items found in Excel file",
		})
	}

	resp := rc.receiveItems(userID, items)
	status := fiber.StatusOK
	if resp.SuccessCount == 0 {
		status = fiber.StatusBadRequest
	}
	return ctx.Status(status).JSON(resp)
}

func parseReceivingRows(rows [][]string) ([]ReceivingItem, []ValidationError) {
	var items []ReceivingItem
	var errs []ValidationError

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		if len(row) == 0 || (getCell(row, 0) == "" && getCell(row, 1) == "") {
			continue
		}

		item := ReceivingItem{
			PartCode:     strings.ToUpper(getCell(row, 0)),
			PartName:     getCell(row, 1),
			LocationCode: strings.ToUpper(getCell(row, 3)),
			Color:        getCell(row, 4),
			Category:     getCell(row, 5),
			Brand:        getCell(row, 6),
			Unit:         getCell(row, 7),
		}

		if item.PartCode == "" {
			errs = append(errs, ValidationError{
				Field:   "PartCode",
				Message: "Part code cannot be empty",
				Row:     rowNum,
			})
			continue
		}
		if item.LocationCode == "" {
			errs = append(errs, ValidationError{
				Field:   "Location",
				Message: "Location cannot be empty",
				Row:     rowNum,
			})
			continue
		}

		qty, err := strconv.Atoi(getCell(row, 2))
		if err != nil || qty <= 0 {
			errs = append(errs, ValidationError{
				Field:   "Qty",
				Message: fmt.Sprintf("Qty must be a positive number. Current: %s", getCell(row, 2)),
				Row:     rowNum,
			})
			continue
		}
		item.Qty = qty

		items = append(items, item)
	}

	return items, errs
}

func getCell(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

//====================================================================
// END RECEIVING FROM EXCEL
//====================================================================
