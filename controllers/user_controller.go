package controllers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"parts-ledger/models"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(DB *gorm.DB) *UserController {
	return &UserController{DB: DB}
}

type userPayload struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Pin      string `json:"pin"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// CREATE
func (uc *UserController) CreateUser(ctx *fiber.Ctx) error {
	var input userPayload
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if input.Name == "" || input.Username == "" || input.Pin == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "name, username and pin are required",
		})
	}

	if input.Role != models.RoleAdmin && input.Role != models.RoleUser {
		input.Role = models.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Pin), bcrypt.DefaultCost)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	user := models.User{
		Name:     input.Name,
		Username: input.Username,
		PinHash:  string(hash),
		Role:     input.Role,
		IsActive: true,
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"data":    user,
	})
}

// READ ALL
func (uc *UserController) GetAllUsers(ctx *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Find(&users).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    users,
	})
}

// READ BY ID
func (uc *UserController) GetUserByID(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	var user models.User

	if err := uc.DB.First(&user, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// UPDATE
func (uc *UserController) UpdateUser(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var input userPayload
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Role == models.RoleAdmin || input.Role == models.RoleUser {
		user.Role = input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Pin), bcrypt.DefaultCost)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		user.PinHash = string(hash)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"data":    user,
	})
}

// DELETE (soft delete, move history keeps the user_id)
func (uc *UserController) DeleteUser(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	if err := uc.DB.Delete(&user).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}
