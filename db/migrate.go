package db

import (
	"fmt"
	"log"

	"github.com/lawbridge/lawbridge-api/models"
)

// Migrate runs AutoMigrate for every entity and seeds the fixed roles.
// Init must have been called first.
func Migrate() {
	err := DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.LawyerProfile{},
		&models.AvailabilityRule{},
		&models.Appointment{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	seedRoles()

	fmt.Println("✅ Migrations applied successfully!")
}

func seedRoles() {
	roles := []models.Role{
		{Name: models.RoleAdmin, Description: "Administrator with full access"},
		{Name: models.RoleLawyer, Description: "Lawyer who manages availability and appointments"},
		{Name: models.RoleClient, Description: "Client who books appointments"},
	}
	for _, role := range roles {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&role)
		}
	}
}
