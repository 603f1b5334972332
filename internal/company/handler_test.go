package company

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/paketdefter/paketdefter-backend/internal/branch"
	"github.com/paketdefter/paketdefter-backend/internal/testutil"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"github.com/paketdefter/paketdefter-backend/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	router   *gin.Engine
	adminTok string
	staffTok string
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	r := testutil.NewRouter()

	h := NewHandler(db)
	bh := branch.NewHandler(db)
	api := r.Group("/api/v1")
	api.Use(middleware.AuthRequired())
	api.GET("/companies", h.List)
	api.GET("/companies/:id/branches", h.ListBranches)

	adminOnly := middleware.RequireRole(database.RoleAdmin)
	api.POST("/companies", adminOnly, h.Create)
	api.PUT("/companies/:id", adminOnly, h.Update)
	api.DELETE("/companies/:id", adminOnly, h.Delete)
	api.POST("/companies/:id/branches", adminOnly, h.CreateBranch)
	api.PUT("/branches/:id", adminOnly, bh.Update)
	api.DELETE("/branches/:id", adminOnly, bh.Delete)

	admin := testutil.CreateUser(t, db, "Admin", database.RoleAdmin, "1234")
	staff := testutil.CreateUser(t, db, "Staff", database.RoleStaff, "2222")

	return &fixture{
		db:       db,
		router:   r,
		adminTok: testutil.Token(t, admin),
		staffTok: testutil.Token(t, staff),
	}
}

func TestCreateCompanyWithDefaultBranch(t *testing.T) {
	f := setup(t)

	w := testutil.Do(t, f.router, http.MethodPost, "/api/v1/companies", gin.H{
		"name": "Acme", "phone": "555-0100", "price_per_pack": 50,
	}, f.adminTok)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data database.Company `json:"data"`
	}
	testutil.Decode(t, w, &resp)
	assert.Equal(t, "Acme", resp.Data.Name)
	assert.True(t, resp.Data.IsActive)

	var branches []database.Branch
	require.NoError(t, f.db.Where("company_id = ?", resp.Data.ID).Find(&branches).Error)
	require.Len(t, branches, 1)
	assert.Equal(t, DefaultBranchName, branches[0].Name)
}

func TestCreateCompanyDuplicateName(t *testing.T) {
	f := setup(t)
	testutil.CreateCompany(t, f.db, "Acme", 50)

	w := testutil.Do(t, f.router, http.MethodPost, "/api/v1/companies", gin.H{
		"name": "Acme", "price_per_pack": 10,
	}, f.adminTok)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateCompanyReactivatesInactive(t *testing.T) {
	f := setup(t)
	old := testutil.CreateCompany(t, f.db, "Acme", 50)
	require.NoError(t, f.db.Model(&old).Update("is_active", false).Error)

	w := testutil.Do(t, f.router, http.MethodPost, "/api/v1/companies", gin.H{
		"name": "Acme", "price_per_pack": 60,
	}, f.adminTok)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data database.Company `json:"data"`
	}
	testutil.Decode(t, w, &resp)
	assert.Equal(t, old.ID, resp.Data.ID, "reactivation keeps the original record and its history")
	assert.Equal(t, float64(60), resp.Data.PricePerPack)

	var count int64
	require.NoError(t, f.db.Model(&database.Company{}).Where("name = ?", "Acme").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestListCompaniesWithBalance(t *testing.T) {
	f := setup(t)
	acme := testutil.CreateCompany(t, f.db, "Acme", 50)
	testutil.CreateCompany(t, f.db, "Bravo", 10)

	require.NoError(t, f.db.Create(&database.LedgerEntry{
		CompanyID: acme.ID, EntryType: database.EntryCreditSale, Packs: 10, Amount: 500, EntryDate: "2026-03-10",
	}).Error)
	require.NoError(t, f.db.Create(&database.LedgerEntry{
		CompanyID: acme.ID, EntryType: database.EntryPayment, Amount: -200, EntryDate: "2026-03-11",
	}).Error)

	w := testutil.Do(t, f.router, http.MethodGet, "/api/v1/companies", nil, f.staffTok)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []CompanyRow `json:"data"`
	}
	testutil.Decode(t, w, &resp)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Acme", resp.Data[0].Name)
	assert.Equal(t, float64(300), resp.Data[0].Balance)
	assert.Equal(t, "Bravo", resp.Data[1].Name)
	assert.Equal(t, float64(0), resp.Data[1].Balance)
}

func TestDeleteCompanyKeepsHistory(t *testing.T) {
	f := setup(t)
	acme := testutil.CreateCompany(t, f.db, "Acme", 50)
	require.NoError(t, f.db.Create(&database.LedgerEntry{
		CompanyID: acme.ID, EntryType: database.EntryCreditSale, Packs: 1, Amount: 50, EntryDate: "2026-03-10",
	}).Error)

	w := testutil.Do(t, f.router, http.MethodDelete, "/api/v1/companies/"+acme.ID.String(), nil, f.adminTok)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(t, f.router, http.MethodGet, "/api/v1/companies", nil, f.adminTok)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []CompanyRow `json:"data"`
	}
	testutil.Decode(t, w, &resp)
	assert.Empty(t, resp.Data)

	var count int64
	require.NoError(t, f.db.Model(&database.LedgerEntry{}).Where("company_id = ?", acme.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "soft delete must not touch ledger history")
}

func TestCompanyMutationsAdminOnly(t *testing.T) {
	f := setup(t)
	acme := testutil.CreateCompany(t, f.db, "Acme", 50)

	w := testutil.Do(t, f.router, http.MethodPost, "/api/v1/companies", gin.H{"name": "Bravo"}, f.staffTok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.Do(t, f.router, http.MethodDelete, "/api/v1/companies/"+acme.ID.String(), nil, f.staffTok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBranchNamesScopedPerCompany(t *testing.T) {
	f := setup(t)
	acme := testutil.CreateCompany(t, f.db, "Acme", 50)
	bravo := testutil.CreateCompany(t, f.db, "Bravo", 10)

	w := testutil.Do(t, f.router, http.MethodPost, "/api/v1/companies/"+acme.ID.String()+"/branches",
		gin.H{"name": "North"}, f.adminTok)
	require.Equal(t, http.StatusCreated, w.Code)

	// Same name under another company is fine
	w = testutil.Do(t, f.router, http.MethodPost, "/api/v1/companies/"+bravo.ID.String()+"/branches",
		gin.H{"name": "North"}, f.adminTok)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Same name under the same company conflicts
	w = testutil.Do(t, f.router, http.MethodPost, "/api/v1/companies/"+acme.ID.String()+"/branches",
		gin.H{"name": "North"}, f.adminTok)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateBranchReactivatesInactive(t *testing.T) {
	f := setup(t)
	acme := testutil.CreateCompany(t, f.db, "Acme", 50)
	old := testutil.CreateBranch(t, f.db, acme, "North")
	require.NoError(t, f.db.Model(&old).Update("is_active", false).Error)

	w := testutil.Do(t, f.router, http.MethodPost, "/api/v1/companies/"+acme.ID.String()+"/branches",
		gin.H{"name": "North"}, f.adminTok)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data database.Branch `json:"data"`
	}
	testutil.Decode(t, w, &resp)
	assert.Equal(t, old.ID, resp.Data.ID)
	assert.True(t, resp.Data.IsActive)
}

func TestListBranchesActiveOnly(t *testing.T) {
	f := setup(t)
	acme := testutil.CreateCompany(t, f.db, "Acme", 50)
	testutil.CreateBranch(t, f.db, acme, "North")
	south := testutil.CreateBranch(t, f.db, acme, "South")
	require.NoError(t, f.db.Model(&south).Update("is_active", false).Error)

	w := testutil.Do(t, f.router, http.MethodGet, "/api/v1/companies/"+acme.ID.String()+"/branches", nil, f.staffTok)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []database.Branch `json:"data"`
	}
	testutil.Decode(t, w, &resp)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "North", resp.Data[0].Name)
}

func TestRenameBranch(t *testing.T) {
	f := setup(t)
	acme := testutil.CreateCompany(t, f.db, "Acme", 50)
	north := testutil.CreateBranch(t, f.db, acme, "North")
	testutil.CreateBranch(t, f.db, acme, "South")

	w := testutil.Do(t, f.router, http.MethodPut, "/api/v1/branches/"+north.ID.String(),
		gin.H{"name": "East"}, f.adminTok)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(t, f.router, http.MethodPut, "/api/v1/branches/"+north.ID.String(),
		gin.H{"name": "South"}, f.adminTok)
	assert.Equal(t, http.StatusConflict, w.Code)
}
