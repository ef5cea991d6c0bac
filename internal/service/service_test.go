package service

import (
	"testing"

	"invoicing/internal/database"
	"invoicing/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema. Each
// top-level test gets its own database, named after the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *model.User {
	t.Helper()

	user := &model.User{
		Username: "user-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: "not-a-real-hash",
		FullName: "Test User",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCompany(t *testing.T, db *gorm.DB) *model.Company {
	t.Helper()

	company := &model.Company{
		Name:     "Acme Exports " + uuid.NewString()[:8],
		Email:    "billing@acme.test",
		IsActive: true,
	}
	require.NoError(t, db.Create(company).Error)
	return company
}

func seedClient(t *testing.T, db *gorm.DB, companyID uuid.UUID) *model.Client {
	t.Helper()

	client := &model.Client{
		CompanyID:           companyID,
		Name:                "Globex " + uuid.NewString()[:8],
		Currency:            "INR",
		TaxRate:             decimal.NewFromInt(10),
		TaxType:             "GST",
		InvoiceNumberFormat: "INV-{YYYY}-{####}",
		InvoicePrefix:       "INV",
		IsActive:            true,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

func seedBankAccount(t *testing.T, db *gorm.DB, companyID uuid.UUID) *model.BankAccount {
	t.Helper()

	account := &model.BankAccount{
		CompanyID:     companyID,
		BankName:      "State Bank",
		AccountName:   "Acme Exports",
		AccountNumber: "0001-" + uuid.NewString()[:8],
		IsActive:      true,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}
