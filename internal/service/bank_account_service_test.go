package service

import (
	"context"
	"testing"

	"invoicing/internal/model"
	"invoicing/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBankAccountService(db *gorm.DB) BankAccountService {
	return NewBankAccountService(
		repository.NewBankAccountRepository(db),
		repository.NewClientRepository(db),
		repository.NewCompanyRepository(db),
	)
}

func TestBankAccountService_Mapping(t *testing.T) {
	db := newTestDB(t)
	svc := newBankAccountService(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	client := seedClient(t, db, company.ID)
	first := seedBankAccount(t, db, company.ID)
	second := seedBankAccount(t, db, company.ID)

	// Map out of order, then expect display order to win.
	mapping2, err := svc.MapBankToClient(ctx, CreateMappingRequest{
		ClientID:      client.ID.String(),
		BankAccountID: second.ID.String(),
		DisplayOrder:  2,
	})
	require.NoError(t, err)

	_, err = svc.MapBankToClient(ctx, CreateMappingRequest{
		ClientID:      client.ID.String(),
		BankAccountID: first.ID.String(),
		DisplayOrder:  1,
	})
	require.NoError(t, err)

	accounts, err := svc.ListByClient(ctx, client.ID.String())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, first.ID, accounts[0].ID)
	assert.Equal(t, second.ID, accounts[1].ID)

	t.Run("mapping removal is a hard delete", func(t *testing.T) {
		require.NoError(t, svc.RemoveMapping(ctx, mapping2.ID.String()))

		accounts, err := svc.ListByClient(ctx, client.ID.String())
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, first.ID, accounts[0].ID)

		var count int64
		require.NoError(t, db.Model(&model.ClientBankMapping{}).Where("id = ?", mapping2.ID).Count(&count).Error)
		assert.Zero(t, count, "row is gone, not flagged")
	})

	t.Run("unknown client rejected", func(t *testing.T) {
		_, err := svc.MapBankToClient(ctx, CreateMappingRequest{
			ClientID:      "e3a7dbb9-35f4-4a74-b9f2-4f47c3bb29d1",
			BankAccountID: first.ID.String(),
		})
		assert.ErrorContains(t, err, "client not found")
	})

	t.Run("unknown account rejected", func(t *testing.T) {
		_, err := svc.MapBankToClient(ctx, CreateMappingRequest{
			ClientID:      client.ID.String(),
			BankAccountID: "e3a7dbb9-35f4-4a74-b9f2-4f47c3bb29d1",
		})
		assert.ErrorContains(t, err, "bank account not found")
	})
}

func TestBankAccountService_Deactivate(t *testing.T) {
	db := newTestDB(t)
	svc := newBankAccountService(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	kept := seedBankAccount(t, db, company.ID)
	dropped := seedBankAccount(t, db, company.ID)

	require.NoError(t, svc.DeactivateBankAccount(ctx, dropped.ID.String()))

	accounts, total, err := svc.ListBankAccounts(ctx, &company.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, accounts, 1)
	assert.Equal(t, kept.ID, accounts[0].ID)

	fetched, err := svc.GetBankAccountByID(ctx, dropped.ID.String())
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)
}
