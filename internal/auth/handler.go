package auth

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/paketdefter/paketdefter-backend/pkg/activitylog"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"github.com/paketdefter/paketdefter-backend/pkg/middleware"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 30 * 24 * time.Hour

type Handler struct {
	db     *gorm.DB
	logger *activitylog.Logger
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		db:     db,
		logger: activitylog.NewLogger(db),
	}
}

type LoginRequest struct {
	Pin string `json:"pin" binding:"required"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type UserView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Login authenticates a user by PIN
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PIN required"})
		return
	}

	var users []database.User
	if err := h.db.Where("is_active = ?", true).Order("created_at ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	// PINs are not stored in clear, so the match is a bcrypt compare per user.
	// The user count is small (single-digit staff roster).
	for _, user := range users {
		if bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(req.Pin)) == nil {
			token, err := generateToken(user)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign token"})
				return
			}

			c.Set("user_id", user.ID.String())
			h.logger.LogActivity(c, "login", "user", &user.ID, nil)

			c.JSON(http.StatusOK, LoginResponse{
				Token: token,
				User:  UserView{ID: user.ID.String(), Name: user.Name, Role: user.Role},
			})
			return
		}
	}

	c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid PIN"})
}

// Me returns the current user's info
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString("user_id")

	var user database.User
	if err := h.db.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": UserView{ID: user.ID.String(), Name: user.Name, Role: user.Role}})
}

func generateToken(user database.User) (string, error) {
	claims := jwt.MapClaims{
		"uid":  user.ID.String(),
		"name": user.Name,
		"role": user.Role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.JWTSecret())
}

// SeedUsers inserts the initial user roster when the users table is empty.
// PINs come from ADMIN_PIN, STAFF_CASH_PIN and STAFF_PIN env vars.
func SeedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&database.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds := []struct {
		name string
		role string
		pin  string
	}{
		{"Admin", database.RoleAdmin, envOr("ADMIN_PIN", "1234")},
		{"Staff-1", database.RoleStaffCash, envOr("STAFF_CASH_PIN", "1111")},
		{"Staff-2", database.RoleStaff, envOr("STAFF_PIN", "2222")},
	}

	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.pin), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := database.User{
			Name:     s.name,
			Role:     s.role,
			PinHash:  string(hash),
			IsActive: true,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
