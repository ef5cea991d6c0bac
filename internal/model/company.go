package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is an issuing organization. Clients, bank accounts and invoices
// all hang off a company.
type Company struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(200);not null" json:"name"`
	Address    string    `gorm:"type:varchar(500)" json:"address"`
	City       string    `gorm:"type:varchar(100)" json:"city"`
	State      string    `gorm:"type:varchar(100)" json:"state"`
	Country    string    `gorm:"type:varchar(100)" json:"country"`
	PostalCode string    `gorm:"type:varchar(20)" json:"postal_code"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone"`
	Email      string    `gorm:"type:varchar(100)" json:"email"`
	Website    string    `gorm:"type:varchar(200)" json:"website"`
	LogoURL    string    `gorm:"type:varchar(500)" json:"logo_url"`
	TaxNumber  string    `gorm:"type:varchar(100)" json:"tax_number"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Company) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
