package balance

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paketdefter/paketdefter-backend/internal/testutil"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"github.com/paketdefter/paketdefter-backend/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *gin.Engine, string) {
	t.Helper()

	db := testutil.NewDB(t)
	r := testutil.NewRouter()

	h := NewHandler(db)
	api := r.Group("/api/v1")
	api.Use(middleware.AuthRequired())
	api.GET("/balances/company/:id", h.Company)
	api.GET("/balances/branch/:id", h.Branch)

	staff := testutil.CreateUser(t, db, "Staff", database.RoleStaff, "2222")
	return db, r, testutil.Token(t, staff)
}

func getBalance(t *testing.T, r *gin.Engine, path, token string) (float64, int) {
	t.Helper()

	w := testutil.Do(t, r, http.MethodGet, path, nil, token)
	if w.Code != http.StatusOK {
		return 0, w.Code
	}
	var resp struct {
		Balance float64 `json:"balance"`
	}
	testutil.Decode(t, w, &resp)
	return resp.Balance, w.Code
}

func TestCompanyBalance(t *testing.T) {
	db, r, token := setup(t)
	acme := testutil.CreateCompany(t, db, "Acme", 50)

	// No entries yet
	balance, code := getBalance(t, r, "/api/v1/balances/company/"+acme.ID.String(), token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), balance)

	require.NoError(t, db.Create(&database.LedgerEntry{
		CompanyID: acme.ID, EntryType: database.EntryCreditSale, Packs: 10, Amount: 500, EntryDate: "2026-03-10",
	}).Error)
	require.NoError(t, db.Create(&database.LedgerEntry{
		CompanyID: acme.ID, EntryType: database.EntryPayment, Amount: -200, EntryDate: "2026-03-11",
	}).Error)

	balance, code = getBalance(t, r, "/api/v1/balances/company/"+acme.ID.String(), token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(300), balance)
}

func TestInactiveCompanyBalanceStillReadable(t *testing.T) {
	db, r, token := setup(t)
	acme := testutil.CreateCompany(t, db, "Acme", 50)
	require.NoError(t, db.Create(&database.LedgerEntry{
		CompanyID: acme.ID, EntryType: database.EntryDebit, Amount: 120, EntryDate: "2026-03-10",
	}).Error)
	require.NoError(t, db.Model(&acme).Update("is_active", false).Error)

	balance, code := getBalance(t, r, "/api/v1/balances/company/"+acme.ID.String(), token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(120), balance)
}

func TestBranchBalanceScope(t *testing.T) {
	db, r, token := setup(t)
	acme := testutil.CreateCompany(t, db, "Acme", 50)
	north := testutil.CreateBranch(t, db, acme, "North")
	south := testutil.CreateBranch(t, db, acme, "South")

	require.NoError(t, db.Create(&database.LedgerEntry{
		CompanyID: acme.ID, BranchID: &north.ID, EntryType: database.EntryCreditSale, Packs: 2, Amount: 100, EntryDate: "2026-03-10",
	}).Error)
	require.NoError(t, db.Create(&database.LedgerEntry{
		CompanyID: acme.ID, BranchID: &south.ID, EntryType: database.EntryCreditSale, Packs: 1, Amount: 50, EntryDate: "2026-03-10",
	}).Error)
	// Company-level entry with no branch
	require.NoError(t, db.Create(&database.LedgerEntry{
		CompanyID: acme.ID, EntryType: database.EntryDebit, Amount: 30, EntryDate: "2026-03-10",
	}).Error)

	balance, code := getBalance(t, r, "/api/v1/balances/branch/"+north.ID.String(), token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(100), balance)

	balance, code = getBalance(t, r, "/api/v1/balances/company/"+acme.ID.String(), token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(180), balance)
}

func TestBalanceNotFound(t *testing.T) {
	_, r, token := setup(t)

	_, code := getBalance(t, r, "/api/v1/balances/company/"+uuid.NewString(), token)
	assert.Equal(t, http.StatusNotFound, code)

	_, code = getBalance(t, r, "/api/v1/balances/branch/"+uuid.NewString(), token)
	assert.Equal(t, http.StatusNotFound, code)
}
