package controllers

import (
	"errors"
	"time"

	"parts-ledger/config"
	"parts-ledger/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(DB *gorm.DB) *AuthController {
	return &AuthController{DB: DB}
}

// Login authenticates a user by name and PIN and issues a JWT.
func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input struct {
		Name string `json:"name"`
		Pin  string `json:"pin"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
		})
	}

	if input.Name == "" || input.Pin == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing required fields",
		})
	}

	var mUser models.User
	result := c.DB.Where("username = ? OR name = ?", input.Name, input.Name).First(&mUser)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid name or PIN",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": result.Error.Error(),
		})
	}

	if !mUser.IsActive {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "User is inactive",
		})
	}

	if bcrypt.CompareHashAndPassword([]byte(mUser.PinHash), []byte(input.Pin)) != nil {
		return ctx.Status(401).JSON(fiber.Map{"error": "invalid credentials"})
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": mUser.ID,
		"role":    mUser.Role,
		"exp":     time.Now().Add(time.Duration(config.JWTExpiration) * time.Second).Unix(),
		"jti":     uuid.NewString(),
	})

	tokenString, err := token.SignedString([]byte(config.JWTSecret))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to generate token",
		})
	}

	ctx.Cookie(config.GetTokenCookie(tokenString))

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successfully",
		"x_token": tokenString,
		"user": fiber.Map{
			"id":       mUser.ID,
			"name":     mUser.Name,
			"username": mUser.Username,
			"role":     mUser.Role,
		},
	})
}

func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(config.GetTokenCookie(""))
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}

// Me returns the authenticated user for session restore on the client.
func (c *AuthController) Me(ctx *fiber.Ctx) error {
	userID := actorID(ctx)

	var mUser models.User
	if err := c.DB.First(&mUser, userID).Error; err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":       mUser.ID,
			"name":     mUser.Name,
			"username": mUser.Username,
			"role":     mUser.Role,
		},
	})
}
