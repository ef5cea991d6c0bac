package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client is a billed party owned by a Company. It carries the per-client
// invoice numbering state: InvoiceNumberFormat is a template with the
// placeholders {YYYY}, {MM}, {####} and {###}, and LastInvoiceNumber is a
// counter that only ever increases.
type Client struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Company             *Company        `gorm:"foreignKey:CompanyID;constraint:OnDelete:RESTRICT" json:"company,omitempty"`
	Name                string          `gorm:"type:varchar(200);not null" json:"name"`
	ContactPerson       string          `gorm:"type:varchar(200)" json:"contact_person"`
	Email               string          `gorm:"type:varchar(100)" json:"email"`
	Phone               string          `gorm:"type:varchar(50)" json:"phone"`
	Address             string          `gorm:"type:varchar(500)" json:"address"`
	City                string          `gorm:"type:varchar(100)" json:"city"`
	State               string          `gorm:"type:varchar(100)" json:"state"`
	Country             string          `gorm:"type:varchar(100)" json:"country"`
	PostalCode          string          `gorm:"type:varchar(20)" json:"postal_code"`
	TaxNumber           string          `gorm:"type:varchar(100)" json:"tax_number"`
	Currency            string          `gorm:"type:varchar(10);default:'INR'" json:"currency"` // INR, USD, EUR
	TaxRate             decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate"`
	TaxType             string          `gorm:"type:varchar(50)" json:"tax_type"` // GST, VAT or empty
	InvoiceNumberFormat string          `gorm:"type:varchar(100)" json:"invoice_number_format"`
	InvoicePrefix       string          `gorm:"type:varchar(50)" json:"invoice_prefix"`
	LastInvoiceNumber   int64           `gorm:"not null;default:0" json:"last_invoice_number"`
	IsActive            bool            `gorm:"default:true" json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (c *Client) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
