package repository

import (
	"context"

	"invoicing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	List(ctx context.Context, page, limit int) ([]model.Company, int64, error)
	Update(ctx context.Context, company *model.Company) error
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *model.Company) error {
	return GetDB(ctx, r.db).Create(company).Error
}

func (r *companyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := GetDB(ctx, r.db).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) List(ctx context.Context, page, limit int) ([]model.Company, int64, error) {
	var companies []model.Company
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Company{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("is_active = ?", true).Order("name").Offset(offset).Limit(limit).Find(&companies).Error; err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}

func (r *companyRepository) Update(ctx context.Context, company *model.Company) error {
	return GetDB(ctx, r.db).Save(company).Error
}