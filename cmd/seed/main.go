package main

import (
	"log"

	"gorm.io/gorm"

	"github.com/atelier-montres/montres_shop/internal/config"
	"github.com/atelier-montres/montres_shop/internal/models"
)

// Seeds the five reference tables so a fresh database serves meaningful
// joins. Each table is filled only when empty; re-running is safe.
func main() {
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("seed error: %v", err)
	}

	log.Println("reference tables seeded")
}

func seed(db *gorm.DB) error {
	if err := seedTable(db, &models.Case{}, []models.Case{
		{Name: "Rond", Price: 120},
		{Name: "Carre", Price: 110},
		{Name: "Ovale", Price: 130},
		{Name: "Tonneau", Price: 150},
	}); err != nil {
		return err
	}

	if err := seedTable(db, &models.CaseTexture{}, []models.CaseTexture{
		{Name: "Or", Price: 300},
		{Name: "Argent", Price: 180},
		{Name: "Acier brosse", Price: 90},
		{Name: "Titane", Price: 220},
	}); err != nil {
		return err
	}

	if err := seedTable(db, &models.Gem{}, []models.Gem{
		{Name: "Diamant", Price: 500},
		{Name: "Rubis", Price: 350},
		{Name: "Saphir", Price: 320},
		{Name: "Emeraude", Price: 280},
	}); err != nil {
		return err
	}

	if err := seedTable(db, &models.StrapTexture{}, []models.StrapTexture{
		{Name: "Cuir", Price: 60},
		{Name: "Metal", Price: 80},
		{Name: "Tissu", Price: 40},
	}); err != nil {
		return err
	}

	return seedTable(db, &models.Strap{}, []models.Strap{
		{Name: "Cuir noir", Price: 70},
		{Name: "Acier maille milanaise", Price: 95},
		{Name: "Caoutchouc", Price: 45},
	})
}

func seedTable[T any](db *gorm.DB, model *T, rows []T) error {
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&rows).Error
}
