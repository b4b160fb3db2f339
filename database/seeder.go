package database

import (
	"errors"
	"fmt"
	"log"

	"parts-ledger/models"
	"parts-ledger/repositories"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedAdmin(db)
}

// SeedAdmin creates the default admin account if no user exists yet. The PIN
// must be changed after first login.
func SeedAdmin(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash default PIN: %v", err)
	}

	admin := models.User{
		Name:     "Admin",
		Username: "admin",
		PinHash:  string(hash),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Println("Seeded default admin user (PIN 1234, change it)")
}

// SeedDemoData fills an empty catalog with sample parts, locations and
// stock so the app is explorable out of the box.
func SeedDemoData(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Part{}).Count(&count).Error; err != nil {
		log.Printf("Demo seed skipped: %v", err)
		return
	}
	if count > 0 {
		return
	}

	var admin models.User
	if err := db.Where("username = ?", "admin").First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("Demo seed skipped: no admin user")
			return
		}
		log.Printf("Demo seed skipped: %v", err)
		return
	}

	zones := []string{"A", "B", "C"}
	var locations []models.Location
	for _, zone := range zones {
		for i := 1; i <= 3; i++ {
			locations = append(locations, models.Location{
				LocationCode: fmt.Sprintf("%s-%02d", zone, i),
				Type:         "rack",
				Zone:         zone,
				CreatedBy:    int(admin.ID),
				UpdatedBy:    int(admin.ID),
			})
		}
	}
	if err := db.Create(&locations).Error; err != nil {
		log.Printf("Demo seed failed creating locations: %v", err)
		return
	}

	categories := []string{"panel", "frame", "trim"}
	colors := []string{"white", "black", "oak"}
	var parts []models.Part
	for i := 1; i <= 12; i++ {
		parts = append(parts, models.Part{
			PartCode:  fmt.Sprintf("DEMO-%03d", i),
			PartName:  fmt.Sprintf("Demo part %d", i),
			Category:  categories[i%len(categories)],
			Color:     colors[i%len(colors)],
			Unit:      "PCS",
			CreatedBy: int(admin.ID),
			UpdatedBy: int(admin.ID),
		})
	}
	if err := db.Create(&parts).Error; err != nil {
		log.Printf("Demo seed failed creating parts: %v", err)
		return
	}

	rng := rand.New(rand.NewSource(99))
	ledger := repositories.NewLedgerRepository(db)
	for _, part := range parts {
		location := locations[rng.Intn(len(locations))]
		qty := 5 + rng.Intn(45)
		if _, err := ledger.AdminAdjust(admin.ID, part.ID, location.ID, qty, "", "Demo seed"); err != nil {
			log.Printf("Demo seed failed stocking %s: %v", part.PartCode, err)
		}
	}

	log.Printf("Seeded %d demo parts across %d locations", len(parts), len(locations))
}
