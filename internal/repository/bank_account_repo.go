package repository

import (
	"context"

	"invoicing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BankAccountRepository interface {
	Create(ctx context.Context, account *model.BankAccount) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error)
	List(ctx context.Context, companyID *uuid.UUID, page, limit int) ([]model.BankAccount, int64, error)
	Update(ctx context.Context, account *model.BankAccount) error

	CreateMapping(ctx context.Context, mapping *model.ClientBankMapping) error
	FindMappingByID(ctx context.Context, id uuid.UUID) (*model.ClientBankMapping, error)
	DeleteMapping(ctx context.Context, id uuid.UUID) error
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]model.BankAccount, error)
}

type bankAccountRepository struct {
	db *gorm.DB
}

func NewBankAccountRepository(db *gorm.DB) BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func (r *bankAccountRepository) Create(ctx context.Context, account *model.BankAccount) error {
	return GetDB(ctx, r.db).Create(account).Error
}

func (r *bankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error) {
	var account model.BankAccount
	if err := GetDB(ctx, r.db).Preload("Company").First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *bankAccountRepository) List(ctx context.Context, companyID *uuid.UUID, page, limit int) ([]model.BankAccount, int64, error) {
	var accounts []model.BankAccount
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.BankAccount{}).Where("is_active = ?", true)
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Preload("Company").Where("is_active = ?", true)
	if companyID != nil {
		fetch = fetch.Where("company_id = ?", *companyID)
	}
	if err := fetch.Order("account_name").Offset(offset).Limit(limit).Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

func (r *bankAccountRepository) Update(ctx context.Context, account *model.BankAccount) error {
	return GetDB(ctx, r.db).Save(account).Error
}

// --- Client ↔ bank account mappings ---

func (r *bankAccountRepository) CreateMapping(ctx context.Context, mapping *model.ClientBankMapping) error {
	return GetDB(ctx, r.db).Create(mapping).Error
}

func (r *bankAccountRepository) FindMappingByID(ctx context.Context, id uuid.UUID) (*model.ClientBankMapping, error) {
	var mapping model.ClientBankMapping
	if err := GetDB(ctx, r.db).First(&mapping, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

// DeleteMapping removes the join row for good; mappings are not soft-deleted.
func (r *bankAccountRepository) DeleteMapping(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ClientBankMapping{}).Error
}

// FindByClient returns the client's mapped bank accounts in display order.
func (r *bankAccountRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]model.BankAccount, error) {
	var mappings []model.ClientBankMapping
	err := GetDB(ctx, r.db).
		Preload("BankAccount").
		Preload("BankAccount.Company").
		Where("client_id = ? AND is_active = ?", clientID, true).
		Order("display_order").
		Find(&mappings).Error
	if err != nil {
		return nil, err
	}

	accounts := make([]model.BankAccount, 0, len(mappings))
	for _, m := range mappings {
		if m.BankAccount != nil {
			accounts = append(accounts, *m.BankAccount)
		}
	}
	return accounts, nil
}
