package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"invoicing/internal/model"
	"invoicing/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInvoiceService(db *gorm.DB) InvoiceService {
	return NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewClientRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewReportRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
}

func TestFormatInvoiceNumber(t *testing.T) {
	now := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV-2026-0042", FormatInvoiceNumber("INV-{YYYY}-{####}", 42, now))
	assert.Equal(t, "2026/03/007", FormatInvoiceNumber("{YYYY}/{MM}/{###}", 7, now))
	assert.Equal(t, "ACME-12345", FormatInvoiceNumber("ACME-{####}", 12345, now), "counter wider than the pad is kept whole")
	assert.Equal(t, "PLAIN", FormatInvoiceNumber("PLAIN", 9, now), "templates without placeholders pass through")
}

func TestComputeTotals(t *testing.T) {
	items := []model.InvoiceItem{
		{Amount: decimal.NewFromInt(200)},
		{Amount: decimal.NewFromInt(50)},
	}

	subTotal, taxAmount, totalAmount := ComputeTotals(items, decimal.NewFromInt(10))
	assert.Equal(t, "250.00", subTotal.StringFixed(2))
	assert.Equal(t, "25.00", taxAmount.StringFixed(2))
	assert.Equal(t, "275.00", totalAmount.StringFixed(2))

	t.Run("zero rate", func(t *testing.T) {
		subTotal, taxAmount, totalAmount := ComputeTotals(items, decimal.Zero)
		assert.Equal(t, "250.00", subTotal.StringFixed(2))
		assert.Equal(t, "0.00", taxAmount.StringFixed(2))
		assert.Equal(t, "250.00", totalAmount.StringFixed(2))
	})

	t.Run("tax rounds half up", func(t *testing.T) {
		odd := []model.InvoiceItem{{Amount: decimal.RequireFromString("33.33")}}
		_, taxAmount, _ := ComputeTotals(odd, decimal.NewFromInt(15))
		// 33.33 * 0.15 = 4.9995
		assert.Equal(t, "5.00", taxAmount.StringFixed(2))
	})

	t.Run("no items", func(t *testing.T) {
		subTotal, taxAmount, totalAmount := ComputeTotals(nil, decimal.NewFromInt(18))
		assert.True(t, subTotal.IsZero())
		assert.True(t, taxAmount.IsZero())
		assert.True(t, totalAmount.IsZero())
	})
}

func TestGenerateInvoiceNumber(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	client := seedClient(t, db, company.ID)
	require.NoError(t, db.Model(client).Update("last_invoice_number", 41).Error)

	year := fmt.Sprintf("%04d", time.Now().Year())

	number, err := svc.GenerateInvoiceNumber(ctx, client.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "INV-"+year+"-0042", number)

	number, err = svc.GenerateInvoiceNumber(ctx, client.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "INV-"+year+"-0043", number)

	var reloaded model.Client
	require.NoError(t, db.First(&reloaded, "id = ?", client.ID).Error)
	assert.EqualValues(t, 43, reloaded.LastInvoiceNumber)

	t.Run("unknown client", func(t *testing.T) {
		_, err := svc.GenerateInvoiceNumber(ctx, "b5fba2f9-14e5-4df0-99a4-50c1d4a978f3")
		assert.Error(t, err)
	})

	t.Run("client without a format", func(t *testing.T) {
		bare := seedClient(t, db, company.ID)
		require.NoError(t, db.Model(bare).Update("invoice_number_format", "").Error)

		_, err := svc.GenerateInvoiceNumber(ctx, bare.ID.String())
		assert.ErrorContains(t, err, "format")
	})
}

func TestCreateInvoice(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	client := seedClient(t, db, company.ID)
	creator := seedUser(t, db, model.RoleInvoiceCreator)
	account := seedBankAccount(t, db, company.ID)

	req := CreateInvoiceRequest{
		CompanyID: company.ID.String(),
		ClientID:  client.ID.String(),
		Items: []InvoiceItemPayload{
			{Description: "Consulting", Quantity: "10", UnitPrice: "20", Amount: "200"},
			{Description: "Support retainer", Quantity: "1", UnitPrice: "50", Amount: "50"},
		},
		BankDetails: []BankDetailPayload{
			{BankAccountID: account.ID.String()},
		},
	}

	invoice, err := svc.CreateInvoice(ctx, req, creator.ID.String())
	require.NoError(t, err)

	assert.Equal(t, model.StatusDraft, invoice.Status, "defaults to Draft")
	assert.Equal(t, "INR", invoice.Currency, "currency defaults from the client")
	assert.Equal(t, "10.00", invoice.TaxRate, "tax rate defaults from the client")
	assert.Equal(t, "250.00", invoice.SubTotal)
	assert.Equal(t, "25.00", invoice.TaxAmount)
	assert.Equal(t, "275.00", invoice.TotalAmount)
	assert.Contains(t, invoice.InvoiceNumber, "-0001")
	assert.Equal(t, creator.ID, invoice.CreatedBy)

	require.Len(t, invoice.Items, 2)
	assert.Equal(t, 1, invoice.Items[0].LineNumber)
	assert.Equal(t, "Consulting", invoice.Items[0].Description)
	assert.Equal(t, 2, invoice.Items[1].LineNumber)
	assert.Equal(t, "Support retainer", invoice.Items[1].Description)

	require.Len(t, invoice.BankDetails, 1)
	assert.Equal(t, account.ID, invoice.BankDetails[0].BankAccountID)

	t.Run("client from another company is rejected", func(t *testing.T) {
		other := seedCompany(t, db)
		bad := req
		bad.CompanyID = other.ID.String()

		_, err := svc.CreateInvoice(ctx, bad, creator.ID.String())
		assert.ErrorContains(t, err, "does not belong")
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		bad := req
		bad.Status = "Overdue"

		_, err := svc.CreateInvoice(ctx, bad, creator.ID.String())
		assert.ErrorContains(t, err, "invalid status")
	})

	t.Run("explicit currency and tax rate win", func(t *testing.T) {
		custom := req
		custom.Currency = "USD"
		custom.TaxRate = "18"

		invoice, err := svc.CreateInvoice(ctx, custom, creator.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "USD", invoice.Currency)
		assert.Equal(t, "18.00", invoice.TaxRate)
		assert.Equal(t, "45.00", invoice.TaxAmount)
	})
}

func TestCreateInvoice_ItemOrderRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	client := seedClient(t, db, company.ID)
	creator := seedUser(t, db, model.RoleInvoiceCreator)

	var items []InvoiceItemPayload
	for i := 1; i <= 7; i++ {
		items = append(items, InvoiceItemPayload{
			Description: fmt.Sprintf("Line %d", i),
			Quantity:    "1",
			UnitPrice:   "10",
			Amount:      "10",
		})
	}

	created, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CompanyID: company.ID.String(),
		ClientID:  client.ID.String(),
		Items:     items,
	}, creator.ID.String())
	require.NoError(t, err)

	fetched, err := svc.GetInvoiceByID(ctx, created.ID.String())
	require.NoError(t, err)
	require.Len(t, fetched.Items, 7)
	for i, item := range fetched.Items {
		assert.Equal(t, i+1, item.LineNumber)
		assert.Equal(t, fmt.Sprintf("Line %d", i+1), item.Description)
	}
}

func TestUpdateInvoice_StatusTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	client := seedClient(t, db, company.ID)
	creator := seedUser(t, db, model.RoleInvoiceCreator)

	items := []InvoiceItemPayload{
		{Description: "Work", Quantity: "1", UnitPrice: "100", Amount: "100"},
	}

	created, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CompanyID: company.ID.String(),
		ClientID:  client.ID.String(),
		Items:     items,
	}, creator.ID.String())
	require.NoError(t, err)

	statusOf := func(s string) *string { return &s }

	t.Run("Draft cannot jump to Paid", func(t *testing.T) {
		_, err := svc.UpdateInvoice(ctx, created.ID.String(), UpdateInvoiceRequest{
			Status: statusOf(model.StatusPaid),
			Items:  items,
		}, creator.ID.String())
		assert.ErrorContains(t, err, "illegal status transition")
	})

	t.Run("Draft to Sent to Paid", func(t *testing.T) {
		updated, err := svc.UpdateInvoice(ctx, created.ID.String(), UpdateInvoiceRequest{
			Status: statusOf(model.StatusSent),
			Items:  items,
		}, creator.ID.String())
		require.NoError(t, err)
		assert.Equal(t, model.StatusSent, updated.Status)
		require.NotNil(t, updated.ModifiedBy)
		assert.Equal(t, creator.ID, *updated.ModifiedBy)

		updated, err = svc.UpdateInvoice(ctx, created.ID.String(), UpdateInvoiceRequest{
			Status: statusOf(model.StatusPaid),
			Items:  items,
		}, creator.ID.String())
		require.NoError(t, err)
		assert.Equal(t, model.StatusPaid, updated.Status)
	})

	t.Run("Paid is terminal", func(t *testing.T) {
		_, err := svc.UpdateInvoice(ctx, created.ID.String(), UpdateInvoiceRequest{
			Status: statusOf(model.StatusDraft),
			Items:  items,
		}, creator.ID.String())
		assert.ErrorContains(t, err, "illegal status transition")
	})

	t.Run("same status is a no-op transition", func(t *testing.T) {
		updated, err := svc.UpdateInvoice(ctx, created.ID.String(), UpdateInvoiceRequest{
			Status: statusOf(model.StatusPaid),
			Items:  items,
		}, creator.ID.String())
		require.NoError(t, err)
		assert.Equal(t, model.StatusPaid, updated.Status)
	})
}

func TestUpdateInvoice_ReplacesLinesAndRecomputes(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	client := seedClient(t, db, company.ID)
	creator := seedUser(t, db, model.RoleInvoiceCreator)

	created, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CompanyID: company.ID.String(),
		ClientID:  client.ID.String(),
		Items: []InvoiceItemPayload{
			{Description: "Old line", Quantity: "1", UnitPrice: "100", Amount: "100"},
		},
	}, creator.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "110.00", created.TotalAmount)

	updated, err := svc.UpdateInvoice(ctx, created.ID.String(), UpdateInvoiceRequest{
		Items: []InvoiceItemPayload{
			{Description: "New line A", Quantity: "2", UnitPrice: "150", Amount: "300"},
			{Description: "New line B", Quantity: "1", UnitPrice: "100", Amount: "100"},
		},
	}, creator.ID.String())
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	assert.Equal(t, "New line A", updated.Items[0].Description)
	assert.Equal(t, "400.00", updated.SubTotal)
	assert.Equal(t, "40.00", updated.TaxAmount)
	assert.Equal(t, "440.00", updated.TotalAmount)

	var itemCount int64
	require.NoError(t, db.Model(&model.InvoiceItem{}).Where("invoice_id = ?", created.ID).Count(&itemCount).Error)
	assert.EqualValues(t, 2, itemCount, "old lines are gone, not orphaned")
}

func TestDeleteInvoice_HardDeletesAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	client := seedClient(t, db, company.ID)
	creator := seedUser(t, db, model.RoleInvoiceCreator)
	account := seedBankAccount(t, db, company.ID)

	created, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CompanyID: company.ID.String(),
		ClientID:  client.ID.String(),
		Items: []InvoiceItemPayload{
			{Description: "Work", Quantity: "1", UnitPrice: "100", Amount: "100"},
		},
		BankDetails: []BankDetailPayload{
			{BankAccountID: account.ID.String()},
		},
	}, creator.ID.String())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteInvoice(ctx, created.ID.String()))

	_, err = svc.GetInvoiceByID(ctx, created.ID.String())
	assert.Error(t, err)

	var itemCount, detailCount int64
	require.NoError(t, db.Model(&model.InvoiceItem{}).Where("invoice_id = ?", created.ID).Count(&itemCount).Error)
	require.NoError(t, db.Model(&model.InvoiceBankDetail{}).Where("invoice_id = ?", created.ID).Count(&detailCount).Error)
	assert.Zero(t, itemCount)
	assert.Zero(t, detailCount)

	t.Run("deleting twice fails", func(t *testing.T) {
		assert.Error(t, svc.DeleteInvoice(ctx, created.ID.String()))
	})
}

func TestListInvoices_Filters(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	otherCompany := seedCompany(t, db)
	client := seedClient(t, db, company.ID)
	otherClient := seedClient(t, db, otherCompany.ID)
	creator := seedUser(t, db, model.RoleInvoiceCreator)

	items := []InvoiceItemPayload{
		{Description: "Work", Quantity: "1", UnitPrice: "100", Amount: "100"},
	}

	for i := 0; i < 3; i++ {
		_, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
			CompanyID: company.ID.String(),
			ClientID:  client.ID.String(),
			Items:     items,
		}, creator.ID.String())
		require.NoError(t, err)
	}
	sent, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		CompanyID: otherCompany.ID.String(),
		ClientID:  otherClient.ID.String(),
		Status:    model.StatusSent,
		Items:     items,
	}, creator.ID.String())
	require.NoError(t, err)

	all, total, err := svc.ListInvoices(ctx, nil, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, all, 4)

	scoped, total, err := svc.ListInvoices(ctx, &company.ID, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	for _, inv := range scoped {
		assert.Equal(t, company.ID, inv.CompanyID)
	}

	bySent, total, err := svc.ListInvoices(ctx, nil, model.StatusSent, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, bySent, 1)
	assert.Equal(t, sent.ID, bySent[0].ID)

	_, _, err = svc.ListInvoices(ctx, nil, "Overdue", 1, 20)
	assert.ErrorContains(t, err, "invalid status")
}
