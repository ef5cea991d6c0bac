package repository

import (
	"context"

	"invoicing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceListFilter narrows List results. Nil/empty fields are ignored.
type InvoiceListFilter struct {
	CompanyID *uuid.UUID
	Status    string
	Page      int
	Limit     int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByIDFull(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []model.InvoiceItem) error
	ReplaceBankDetails(ctx context.Context, invoiceID uuid.UUID, details []model.InvoiceBankDetail) error
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create persists the invoice header together with its items and bank
// details; GORM cascades the associations in a single transaction.
func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByIDFull loads the whole aggregate: header, client, company, creator,
// items in line order and bank details in display order.
func (r *invoiceRepository) FindByIDFull(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := GetDB(ctx, r.db).
		Preload("Company").
		Preload("Client").
		Preload("Creator").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number")
		}).
		Preload("BankDetails", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		Preload("BankDetails.BankAccount").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.CompanyID != nil {
			q = q.Where("company_id = ?", *filter.CompanyID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	if err := apply(db.Model(&model.Invoice{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := apply(db.Preload("Company").Preload("Client").Preload("Creator")).
		Order("created_at desc").Offset(offset).Limit(filter.Limit).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	// Omit associations: items and bank details are replaced explicitly.
	return GetDB(ctx, r.db).Omit("Items", "BankDetails").Save(invoice).Error
}

// Delete removes the invoice and, through the cascade constraints, its items
// and bank details. Children are cleared explicitly as well so the behavior
// does not depend on the database enforcing the constraint.
func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("invoice_id = ?", id).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("invoice_id = ?", id).Delete(&model.InvoiceBankDetail{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Invoice{}).Error
}

// ReplaceItems swaps the invoice's line set: delete-all + re-create.
func (r *invoiceRepository) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []model.InvoiceItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("invoice_id = ?", invoiceID).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

// ReplaceBankDetails swaps the invoice's bank details: delete-all + re-create.
func (r *invoiceRepository) ReplaceBankDetails(ctx context.Context, invoiceID uuid.UUID, details []model.InvoiceBankDetail) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("invoice_id = ?", invoiceID).Delete(&model.InvoiceBankDetail{}).Error; err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}
	return db.Create(&details).Error
}
