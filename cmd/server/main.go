package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/paketdefter/paketdefter-backend/internal/auth"
	"github.com/paketdefter/paketdefter-backend/internal/balance"
	"github.com/paketdefter/paketdefter-backend/internal/branch"
	"github.com/paketdefter/paketdefter-backend/internal/company"
	"github.com/paketdefter/paketdefter-backend/internal/expense"
	"github.com/paketdefter/paketdefter-backend/internal/ledger"
	"github.com/paketdefter/paketdefter-backend/internal/production"
	"github.com/paketdefter/paketdefter-backend/internal/reports"
	"github.com/paketdefter/paketdefter-backend/internal/user"
	"github.com/paketdefter/paketdefter-backend/pkg/config"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"github.com/paketdefter/paketdefter-backend/pkg/middleware"
)

func main() {
	log := config.GetLogger()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := auth.SeedUsers(db); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(middleware.NewRateLimiter(300, time.Minute).Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		v1.POST("/auth/login", authHandler.Login)

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", authHandler.Me)

			adminOnly := middleware.RequireRole(database.RoleAdmin)

			// Company directory
			companyHandler := company.NewHandler(db)
			protected.GET("/companies", companyHandler.List)
			protected.POST("/companies", adminOnly, companyHandler.Create)
			protected.PUT("/companies/:id", adminOnly, companyHandler.Update)
			protected.DELETE("/companies/:id", adminOnly, companyHandler.Delete)
			protected.GET("/companies/:id/branches", companyHandler.ListBranches)
			protected.POST("/companies/:id/branches", adminOnly, companyHandler.CreateBranch)

			branchHandler := branch.NewHandler(db)
			protected.PUT("/branches/:id", adminOnly, branchHandler.Update)
			protected.DELETE("/branches/:id", adminOnly, branchHandler.Delete)

			// Ledger
			ledgerHandler := ledger.NewHandler(db)
			protected.POST("/ledger", ledgerHandler.Post)
			protected.GET("/companies/:id/ledger", ledgerHandler.List)

			// Expenses and production
			expenseHandler := expense.NewHandler(db)
			protected.POST("/expenses", expenseHandler.Create)
			protected.GET("/expenses", expenseHandler.List)

			productionHandler := production.NewHandler(db)
			protected.POST("/production", productionHandler.Create)
			protected.GET("/production", productionHandler.List)

			// Reports: staff see today only, range history is ADMIN
			reportsHandler := reports.NewHandler(db)
			protected.GET("/reports/today", reportsHandler.Today)
			protected.GET("/reports/range", adminOnly, reportsHandler.Range)
			protected.GET("/reports/month", adminOnly, reportsHandler.Month)
			protected.GET("/reports/range/export", adminOnly, reportsHandler.Export)

			// Balances
			balanceHandler := balance.NewHandler(db)
			protected.GET("/balances/company/:id", balanceHandler.Company)
			protected.GET("/balances/branch/:id", balanceHandler.Branch)

			// Staff management and audit trail
			userHandler := user.NewHandler(db)
			protected.GET("/staff", adminOnly, userHandler.ListStaff)
			protected.POST("/staff", adminOnly, userHandler.CreateStaff)
			protected.PUT("/staff/:id", adminOnly, userHandler.UpdateStaff)
			protected.DELETE("/staff/:id", adminOnly, userHandler.DeleteStaff)
			protected.GET("/audit-logs", adminOnly, userHandler.GetActivityLogs)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Infof("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
