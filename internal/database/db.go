package database

import (
	"log"

	"invoicing/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate runs the schema migration for all core models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Company{},
		&model.Client{},
		&model.BankAccount{},
		&model.ClientBankMapping{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.InvoiceBankDetail{},
	)
}
