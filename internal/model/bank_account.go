package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BankAccount holds the payment coordinates of a Company.
type BankAccount struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID         uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Company           *Company  `gorm:"foreignKey:CompanyID;constraint:OnDelete:RESTRICT" json:"company,omitempty"`
	AccountName       string    `gorm:"type:varchar(200);not null" json:"account_name"`
	BankName          string    `gorm:"type:varchar(200);not null" json:"bank_name"`
	AccountNumber     string    `gorm:"type:varchar(100);not null" json:"account_number"`
	IFSCCode          string    `gorm:"type:varchar(50)" json:"ifsc_code"`
	SwiftCode         string    `gorm:"type:varchar(50)" json:"swift_code"`
	Branch            string    `gorm:"type:varchar(200)" json:"branch"`
	Currency          string    `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	AdditionalDetails string    `gorm:"type:text" json:"additional_details"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (b *BankAccount) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ClientBankMapping is the ordered many-to-many join between clients and the
// bank accounts shown on their invoices. Mappings are removed with a hard
// delete, unlike the soft-deleted entities around them.
type ClientBankMapping struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        *Client      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	BankAccountID uuid.UUID    `gorm:"type:uuid;not null;index" json:"bank_account_id"`
	BankAccount   *BankAccount `gorm:"foreignKey:BankAccountID" json:"bank_account,omitempty"`
	DisplayOrder  int          `gorm:"not null;default:1" json:"display_order"`
	IsActive      bool         `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (m *ClientBankMapping) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
