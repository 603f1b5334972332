// Package testutil provides the shared harness for handler tests: an
// in-memory database, a gin router in test mode and signed tokens.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"github.com/paketdefter/paketdefter-backend/pkg/middleware"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory database
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// NewRouter returns a bare gin engine in test mode
func NewRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// CreateUser inserts an active user with the given PIN
func CreateUser(t *testing.T, db *gorm.DB, name, role, pin string) database.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)

	user := database.User{
		Name:     name,
		Role:     role,
		PinHash:  string(hash),
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateCompany inserts an active company
func CreateCompany(t *testing.T, db *gorm.DB, name string, pricePerPack float64) database.Company {
	t.Helper()

	company := database.Company{
		Name:         name,
		PricePerPack: pricePerPack,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&company).Error)
	return company
}

// CreateBranch inserts an active branch for a company
func CreateBranch(t *testing.T, db *gorm.DB, company database.Company, name string) database.Branch {
	t.Helper()

	branch := database.Branch{
		CompanyID: company.ID,
		Name:      name,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&branch).Error)
	return branch
}

// Token signs a bearer token for user
func Token(t *testing.T, user database.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"uid":  user.ID.String(),
		"name": user.Name,
		"role": user.Role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.JWTSecret())
	require.NoError(t, err)
	return signed
}

// Do performs a request against r, JSON-encoding body when non-nil and
// attaching token as a bearer header when non-empty
func Do(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Decode unmarshals a recorded JSON response body into out
func Decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
