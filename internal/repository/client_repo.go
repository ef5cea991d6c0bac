package repository

import (
	"context"

	"invoicing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	List(ctx context.Context, companyID *uuid.UUID, page, limit int) ([]model.Client, int64, error)
	Update(ctx context.Context, client *model.Client) error
	IncrementInvoiceNumber(ctx context.Context, id uuid.UUID) (*model.Client, error)
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	return GetDB(ctx, r.db).Create(client).Error
}

func (r *clientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := GetDB(ctx, r.db).Preload("Company").First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context, companyID *uuid.UUID, page, limit int) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Client{}).Where("is_active = ?", true)
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
	if err := fetch.Order("name").Offset(offset).Limit(limit).Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	return GetDB(ctx, r.db).Save(client).Error
}

// IncrementInvoiceNumber bumps the client's counter with a single UPDATE
// expression and reads the row back. Under RunInTx the update and the read
// share one transaction, so concurrent callers can never observe the same
// counter value.
func (r *clientRepository) IncrementInvoiceNumber(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	db := GetDB(ctx, r.db)

	res := db.Model(&model.Client{}).Where("id = ?", id).
		UpdateColumn("last_invoice_number", gorm.Expr("last_invoice_number + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var client model.Client
	if err := db.First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}
