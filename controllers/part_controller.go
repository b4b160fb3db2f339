package controllers

import (
	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"parts-ledger/models"
	"parts-ledger/repositories"
)

type PartController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewPartController(DB *gorm.DB) *PartController {
	return &PartController{DB: DB, validate: validator.New()}
}

// CREATE
func (pc *PartController) CreatePart(ctx *fiber.Ctx) error {
	userID := int(actorID(ctx))

	var part models.Part
	if err := ctx.BodyParser(&part); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if err := pc.validate.Struct(part); err != nil {
		var details []ValidationError
		for _, fieldErr := range err.(validator.ValidationErrors) {
			details = append(details, ValidationError{
				Field:   fieldErr.Field(),
				Message: "failed on tag " + fieldErr.Tag(),
			})
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  details,
		})
	}

	part.CreatedBy = userID
	part.UpdatedBy = userID

	repo := repositories.NewPartRepository(pc.DB)
	if err := repo.Create(&part); err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Part created successfully",
		"data":    part,
	})
}

// READ ALL (optional ?search= term)
func (pc *PartController) GetAllParts(ctx *fiber.Ctx) error {
	repo := repositories.NewPartRepository(pc.DB)
	parts, err := repo.Search(ctx.Query("search"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    parts,
	})
}

// READ BY ID, with per-location quantities
func (pc *PartController) GetPartByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := repositories.NewPartRepository(pc.DB)
	part, err := repo.GetByID(uint(id))
	if err != nil {
		return respondRepoError(ctx, err)
	}

	ledger := repositories.NewLedgerRepository(pc.DB)
	locations, total, err := ledger.GetQuantitiesByPart(uint(id))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"part":      part,
			"locations": locations,
			"total_qty": total,
		},
	})
}

// UPDATE
func (pc *PartController) UpdatePart(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}
	userID := int(actorID(ctx))

	repo := repositories.NewPartRepository(pc.DB)
	part, err := repo.GetByID(uint(id))
	if err != nil {
		return respondRepoError(ctx, err)
	}

	var input models.Part
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if input.PartCode != "" {
		part.PartCode = input.PartCode
	}
	part.PartName = input.PartName
	part.Color = input.Color
	part.Category = input.Category
	part.JobNumber = input.JobNumber
	part.SizeW = input.SizeW
	part.SizeL = input.SizeL
	part.Thickness = input.Thickness
	part.Brand = input.Brand
	part.Pallet = input.Pallet
	part.Unit = input.Unit
	part.UpdatedBy = userID

	if err := repo.Update(part); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Part updated successfully",
		"data":    part,
	})
}

// DELETE
func (pc *PartController) DeletePart(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	repo := repositories.NewPartRepository(pc.DB)
	if err := repo.Delete(uint(id)); err != nil {
		return respondRepoError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Part deleted successfully",
	})
}
