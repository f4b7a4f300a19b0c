package config

import (
	"log"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedReferenceData inserts the agency network and the bootstrap DSI
// user when their tables are empty. Idempotent across restarts.
func SeedReferenceData(db *gorm.DB, cfg *Config) error {
	if err := seedAgencies(db); err != nil {
		return err
	}
	return seedAdmin(db, cfg)
}

func seedAgencies(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Agency{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	agencies := []models.Agency{
		{
			Code:          "OUA",
			Name:          "OUAGADOUGOU",
			ServicePoints: []string{"Bonheur-Ville", "Kilouin", "Saba", "Boulmigou", "Siège", "Léo"},
		},
		{
			Code:          "BOB",
			Name:          "BOBO-DIOULASSO",
			ServicePoints: []string{"Sikassocira", "Yegueri", "Orodara"},
		},
		{
			Code:          "BAN",
			Name:          "BANFORA",
			ServicePoints: []string{},
		},
	}

	if err := db.Create(&agencies).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d agencies", len(agencies))
	return nil
}

func seedAdmin(db *gorm.DB, cfg *Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", domain.RoleDSI).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	var agency models.Agency
	if err := db.Order("id").First(&agency).Error; err != nil {
		return err
	}

	admin := models.User{
		Email:     cfg.Seed.AdminEmail,
		Password:  hashed,
		FirstName: "Admin",
		LastName:  "Système",
		Role:      domain.RoleDSI,
		AgencyID:  agency.ID,
		IsActive:  true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded bootstrap DSI user: %s", admin.Email)
	return nil
}
