package service

import (
	"context"
	"testing"

	"invoicing/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newClientService(db *gorm.DB) ClientService {
	return NewClientService(repository.NewClientRepository(db), repository.NewCompanyRepository(db))
}

func TestClientService_Create(t *testing.T) {
	db := newTestDB(t)
	svc := newClientService(db)
	ctx := context.Background()

	company := seedCompany(t, db)

	created, err := svc.CreateClient(ctx, CreateClientRequest{
		CompanyID:           company.ID.String(),
		Name:                "Globex",
		TaxRate:             "18",
		TaxType:             "GST",
		InvoiceNumberFormat: "GLX-{YYYY}-{####}",
	})
	require.NoError(t, err)
	assert.Equal(t, "INR", created.Currency, "currency defaults to INR")
	assert.Equal(t, "18.00", created.TaxRate)
	assert.EqualValues(t, 0, created.LastInvoiceNumber)
	assert.True(t, created.IsActive)

	t.Run("unknown company", func(t *testing.T) {
		_, err := svc.CreateClient(ctx, CreateClientRequest{
			CompanyID: "0b0d47b4-4c4c-44ff-a014-52e0bd1cf447",
			Name:      "Orphan",
		})
		assert.ErrorContains(t, err, "company not found")
	})

	t.Run("bad tax rate", func(t *testing.T) {
		_, err := svc.CreateClient(ctx, CreateClientRequest{
			CompanyID: company.ID.String(),
			Name:      "Bad Rate",
			TaxRate:   "eighteen",
		})
		assert.ErrorContains(t, err, "invalid tax_rate")
	})
}

func TestClientService_Deactivate(t *testing.T) {
	db := newTestDB(t)
	svc := newClientService(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	kept := seedClient(t, db, company.ID)
	dropped := seedClient(t, db, company.ID)

	require.NoError(t, svc.DeactivateClient(ctx, dropped.ID.String()))

	clients, total, err := svc.ListClients(ctx, &company.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "deactivated clients drop out of lists")
	require.Len(t, clients, 1)
	assert.Equal(t, kept.ID, clients[0].ID)

	// Direct fetch still works so historical invoices keep their context.
	fetched, err := svc.GetClientByID(ctx, dropped.ID.String())
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)
}

func TestCompanyService_Deactivate(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompanyService(repository.NewCompanyRepository(db))
	ctx := context.Background()

	kept := seedCompany(t, db)
	dropped := seedCompany(t, db)

	require.NoError(t, svc.DeactivateCompany(ctx, dropped.ID.String()))

	companies, total, err := svc.ListCompanies(ctx, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, companies, 1)
	assert.Equal(t, kept.ID, companies[0].ID)

	fetched, err := svc.GetCompanyByID(ctx, dropped.ID.String())
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)
}
