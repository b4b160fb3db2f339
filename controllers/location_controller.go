package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"parts-ledger/models"
	"parts-ledger/repositories"
)

type LocationController struct {
	DB *gorm.DB
}

func NewLocationController(DB *gorm.DB) *LocationController {
	return &LocationController{DB: DB}
}

// CREATE
func (lc *LocationController) CreateLocation(ctx *fiber.Ctx) error {
	userID := int(actorID(ctx))

	var location models.Location
	if err := ctx.BodyParser(&location); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if location.LocationCode == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "location_code is required",
		})
	}

	var existing models.Location
	err := lc.DB.Where("location_code = ?", location.LocationCode).First(&existing).Error
	if err == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Location code already exists",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	location.CreatedBy = userID
	location.UpdatedBy = userID

	if err := lc.DB.Create(&location).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Location created successfully",
		"data":    location,
	})
}

// READ ALL
func (lc *LocationController) GetAllLocations(ctx *fiber.Ctx) error {
	var locations []models.Location
	if err := lc.DB.Order("location_code").Find(&locations).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    locations,
	})
}

// READ BY ID, with the parts currently held there
func (lc *LocationController) GetLocationByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var location models.Location
	if err := lc.DB.First(&location, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
	}

	ledger := repositories.NewLedgerRepository(lc.DB)
	parts, err := ledger.GetQuantitiesByLocation(uint(id))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"location": location,
			"parts":    parts,
		},
	})
}

// UPDATE
func (lc *LocationController) UpdateLocation(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	userID := int(actorID(ctx))

	var location models.Location
	if err := lc.DB.First(&location, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
	}

	var input models.Location
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if input.LocationCode != "" {
		location.LocationCode = input.LocationCode
	}
	location.Type = input.Type
	location.Zone = input.Zone
	location.UpdatedBy = userID

	if err := lc.DB.Save(&location).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Location updated successfully",
		"data":    location,
	})
}

// DELETE. A location still holding stock cannot be removed, the quantities
// would silently vanish from the totals.
func (lc *LocationController) DeleteLocation(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var location models.Location
	if err := lc.DB.First(&location, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Location not found"})
	}

	var stocked int64
	if err := lc.DB.Model(&models.InventoryRecord{}).
		Where("location_id = ? AND qty > 0", id).
		Count(&stocked).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if stocked > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Location still holds inventory",
		})
	}

	err = lc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("location_id = ?", id).Delete(&models.InventoryRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("location_id = ?", id).Delete(&models.MoveRecord{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Location{}, id).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Location deleted successfully",
	})
}
