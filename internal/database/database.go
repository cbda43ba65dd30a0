package database

import (
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"securebank/internal/config"
)

func Connect(c *config.Config) (*gorm.DB, error) {
	// TranslateError turns postgres unique violations into gorm.ErrDuplicatedKey.
	db, err := gorm.Open(postgres.Open(c.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	log.Debug("GORM connected to database")

	return db, nil
}
