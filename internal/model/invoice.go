package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus enum constants
const (
	StatusDraft     = "Draft"
	StatusSent      = "Sent"
	StatusPaid      = "Paid"
	StatusCancelled = "Cancelled"
)

// statusTransitions is the legal transition table. Paid and Cancelled are
// terminal; writes that keep the current status are always allowed.
var statusTransitions = map[string][]string{
	StatusDraft:     {StatusSent, StatusCancelled},
	StatusSent:      {StatusPaid, StatusCancelled},
	StatusPaid:      {},
	StatusCancelled: {},
}

// ValidStatus reports whether status names a known invoice state.
func ValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

// CanTransition reports whether moving an invoice from one status to another
// is legal. A no-op transition (from == to) is permitted.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Invoice is the aggregate root: the header exclusively owns its ordered
// Items and BankDetails, which are hard-deleted with it. Company, Client and
// Creator are referenced, not owned.
type Invoice struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"company_id"`
	Company       *Company            `gorm:"foreignKey:CompanyID;constraint:OnDelete:RESTRICT" json:"company,omitempty"`
	ClientID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        *Client             `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT" json:"client,omitempty"`
	InvoiceNumber string              `gorm:"type:varchar(100);uniqueIndex;not null" json:"invoice_number"`
	InvoiceDate   time.Time           `gorm:"not null" json:"invoice_date"`
	DueDate       *time.Time          `json:"due_date"`
	Currency      string              `gorm:"type:varchar(10);not null" json:"currency"`
	SubTotal      decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"sub_total"`
	TaxRate       decimal.Decimal     `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	TaxAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"tax_amount"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	Status        string              `gorm:"type:varchar(50);not null;default:'Draft';index" json:"status"` // Draft, Sent, Paid, Cancelled
	Notes         string              `gorm:"type:text" json:"notes"`
	Terms         string              `gorm:"type:text" json:"terms"`
	CreatedBy     uuid.UUID           `gorm:"type:uuid;not null" json:"created_by"`
	Creator       *User               `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT" json:"creator,omitempty"`
	ModifiedBy    *uuid.UUID          `gorm:"type:uuid" json:"modified_by"`
	Items         []InvoiceItem       `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	BankDetails   []InvoiceBankDetail `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"bank_details"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// InvoiceItem is a billed line. LineNumber is 1-based and contiguous in
// payload order; Amount is taken as sent, not derived from Quantity×UnitPrice.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	LineNumber  int             `gorm:"not null" json:"line_number"`
	Description string          `gorm:"type:varchar(500);not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (i *InvoiceItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// InvoiceBankDetail pins a bank account onto an invoice, in display order.
type InvoiceBankDetail struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"invoice_id"`
	BankAccountID uuid.UUID    `gorm:"type:uuid;not null" json:"bank_account_id"`
	BankAccount   *BankAccount `gorm:"foreignKey:BankAccountID" json:"bank_account,omitempty"`
	DisplayOrder  int          `gorm:"not null;default:1" json:"display_order"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (d *InvoiceBankDetail) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
