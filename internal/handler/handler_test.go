package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"invoicing/internal/database"
	"invoicing/internal/middleware"
	"invoicing/internal/model"
	"invoicing/internal/repository"
	"invoicing/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	banks  service.BankAccountService
}

// newTestEnv wires handlers against a fresh in-memory database, mirroring
// the composition in cmd/api.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	clientRepo := repository.NewClientRepository(db)
	bankAccountRepo := repository.NewBankAccountRepository(db)

	userService := service.NewUserService(userRepo)
	clientService := service.NewClientService(clientRepo, companyRepo)
	bankAccountService := service.NewBankAccountService(bankAccountRepo, clientRepo, companyRepo)

	router := gin.New()
	root := router.Group("")
	NewUserHandler(userService).RegisterRoutes(root)
	NewClientHandler(clientService, bankAccountService).RegisterRoutes(root)

	return &testEnv{db: db, router: router, banks: bankAccountService}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestRegister_NoTokenRequired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/register", "", service.RegisterUserRequest{
		Username: "first.admin",
		Email:    "first.admin@example.com",
		Password: "s3cret-pass",
		FullName: "First Admin",
		Role:     model.RoleAdmin,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.User
	require.NoError(t, env.db.First(&created, "username = ?", "first.admin").Error)
	assert.Equal(t, model.RoleAdmin, created.Role)

	t.Run("invalid payload is 400 not 401", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/auth/register", "", service.RegisterUserRequest{
			Username: "second",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetClientBanks(t *testing.T) {
	env := newTestEnv(t)

	company := &model.Company{Name: "Acme Exports", Email: "billing@acme.test", IsActive: true}
	require.NoError(t, env.db.Create(company).Error)

	client := &model.Client{
		CompanyID:           company.ID,
		Name:                "Globex",
		Currency:            "INR",
		TaxRate:             decimal.NewFromInt(10),
		InvoiceNumberFormat: "INV-{YYYY}-{####}",
		IsActive:            true,
	}
	require.NoError(t, env.db.Create(client).Error)

	first := &model.BankAccount{CompanyID: company.ID, BankName: "State Bank", AccountName: "Acme Primary", AccountNumber: "0001", IsActive: true}
	second := &model.BankAccount{CompanyID: company.ID, BankName: "HDFC", AccountName: "Acme Secondary", AccountNumber: "0002", IsActive: true}
	require.NoError(t, env.db.Create(first).Error)
	require.NoError(t, env.db.Create(second).Error)

	ctx := context.Background()
	_, err := env.banks.MapBankToClient(ctx, service.CreateMappingRequest{
		ClientID: client.ID.String(), BankAccountID: second.ID.String(), DisplayOrder: 1,
	})
	require.NoError(t, err)
	_, err = env.banks.MapBankToClient(ctx, service.CreateMappingRequest{
		ClientID: client.ID.String(), BankAccountID: first.ID.String(), DisplayOrder: 2,
	})
	require.NoError(t, err)

	token, err := middleware.NewToken(&model.User{
		ID: uuid.New(), Username: "viewer", Email: "viewer@example.com", Role: model.RoleViewOnly,
	})
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/api/clients/"+client.ID.String()+"/banks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data []service.BankAccountResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Acme Secondary", body.Data[0].AccountName)
	assert.Equal(t, "Acme Primary", body.Data[1].AccountName)

	t.Run("requires authentication", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/clients/"+client.ID.String()+"/banks", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad client id is 400", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/api/clients/not-a-uuid/banks", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
