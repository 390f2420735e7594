package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// Seeds a demo inventory and the initial dashboard account.
// Run with: go run ./scripts
func main() {
	db := storage.InitializeDB()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing admin password: %v", err)
	}
	admin := models.User{
		FirstName: "Admin",
		LastName:  "User",
		Email:     adminEmail,
		Password:  string(hash),
		Role:      "super_admin",
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&admin).Error; err != nil {
		log.Fatalf("Error creating admin user: %v", err)
	}

	var existing int64
	db.Model(&models.Car{}).Count(&existing)
	if existing > 0 {
		log.Printf("Inventory already has %d cars, skipping car seed", existing)
		return
	}

	cars := []models.Car{
		{Brand: "Toyota", CarModel: "Corolla", Year: 2021, Price: 18500, Status: models.CarAvailable,
			ImageURL: "https://placehold.co/800x600?text=Corolla", Description: "Low mileage, single owner."},
		{Brand: "Volkswagen", CarModel: "Golf", Year: 2019, Price: 15900, Status: models.CarAvailable,
			ImageURL: "https://placehold.co/800x600?text=Golf", Description: "Full service history."},
		{Brand: "Ford", CarModel: "Ranger", Year: 2022, Price: 32750, Status: models.CarStandby,
			ImageURL: "https://placehold.co/800x600?text=Ranger", Description: "4x4, tow package."},
		{Brand: "Honda", CarModel: "Civic", Year: 2020, Price: 17200, Status: models.CarAvailable,
			ImageURL: "https://placehold.co/800x600?text=Civic", Description: "New tires, recently inspected."},
	}
	for i := range cars {
		gallery, _ := json.Marshal([]string{cars[i].ImageURL})
		cars[i].Images = datatypes.JSON(gallery)
		if err := db.Create(&cars[i]).Error; err != nil {
			log.Fatalf("Error seeding car %s %s: %v", cars[i].Brand, cars[i].CarModel, err)
		}
	}

	log.Printf("Seeded %d cars and admin account %s", len(cars), adminEmail)
}
