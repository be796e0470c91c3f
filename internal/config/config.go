package config

import (
	"fmt"
	"log"
	"os"

	"github.com/atelier-montres/montres_shop/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DB_PATH       string
	DB_HOST       string
	DB_PORT       string
	DB_USER       string
	DB_PASSWORD   string
	DB_NAME       string
	ES_URL        string
	ES_USER       string
	ES_PASSWORD   string
	JWT_SECRET    string
	KAFKA_ADDRESS string
	PORT          string
	LOG_LEVEL     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_PATH:       os.Getenv("DB_PATH"),
		DB_HOST:       os.Getenv("DB_HOST"),
		DB_PORT:       os.Getenv("DB_PORT"),
		DB_USER:       os.Getenv("DB_USER"),
		DB_PASSWORD:   os.Getenv("DB_PASSWORD"),
		DB_NAME:       os.Getenv("DB_NAME"),
		ES_URL:        os.Getenv("ES_URL"),
		ES_USER:       os.Getenv("ES_USER"),
		ES_PASSWORD:   os.Getenv("ES_PASSWORD"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		PORT:          os.Getenv("PORT"),
		LOG_LEVEL:     os.Getenv("LOG_LEVEL"),
	}

	if config.DB_PATH == "" {
		config.DB_PATH = "./database/montres.db"
	}
	if config.PORT == "" {
		config.PORT = "4000"
	}

	return config, nil
}

// InitDB opens the store and migrates the schema. The embedded SQLite file
// is the default; setting DB_HOST switches to postgres.
func InitDB() (*gorm.DB, error) {
	configuration, _ := LoadConfig()

	var (
		db  *gorm.DB
		err error
	)
	if configuration.DB_HOST != "" {
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			configuration.DB_USER, configuration.DB_PASSWORD,
			configuration.DB_HOST, configuration.DB_PORT, configuration.DB_NAME,
		)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(configuration.DB_PATH), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Case{},
		&models.CaseTexture{},
		&models.Gem{},
		&models.StrapTexture{},
		&models.Strap{},
		&models.Watch{},
		&models.CartItem{},
	); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}
