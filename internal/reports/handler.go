package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paketdefter/paketdefter-backend/pkg/database"
	"github.com/paketdefter/paketdefter-backend/pkg/entrydate"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// Summary aggregates ledger, expense and production rows over a date range.
// Payments and returns are stored negative but reported as positive
// magnitudes.
type Summary struct {
	From            string             `json:"from"`
	To              string             `json:"to"`
	TotalSales      float64            `json:"total_sales"`
	CreditSales     float64            `json:"credit_sales"`
	CashSales       float64            `json:"cash_sales"`
	Payments        float64            `json:"payments"`
	Returns         float64            `json:"returns"`
	Debits          float64            `json:"debits"`
	Expenses        float64            `json:"expenses"`
	ProductionPacks int                `json:"production_packs"`
	ByCompany       []CompanyBreakdown `json:"by_company"`
	ByBranch        []BranchBreakdown  `json:"by_branch"`
}

type CompanyBreakdown struct {
	CompanyID   string  `json:"company_id"`
	CompanyName string  `json:"company_name"`
	Sales       float64 `json:"sales"`
	Payments    float64 `json:"payments"`
}

type BranchBreakdown struct {
	BranchID   string  `json:"branch_id"`
	BranchName string  `json:"branch_name"`
	Sales      float64 `json:"sales"`
	Payments   float64 `json:"payments"`
}

// Today returns the report for the current calendar date
func (h *Handler) Today(c *gin.Context) {
	today := entrydate.Today()
	summary, err := h.summarize(today, today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

type RangeRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// Range returns the report for an inclusive [from, to] date range
func (h *Handler) Range(c *gin.Context) {
	var req RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil || !entrydate.Valid(req.From) || !entrydate.Valid(req.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be YYYY-MM-DD"})
		return
	}

	summary, err := h.summarize(req.From, req.To)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// Month returns the report for a YYYY-MM calendar month. Month bounds come
// from calendar arithmetic, so variable month lengths and leap years are
// handled.
func (h *Handler) Month(c *gin.Context) {
	ym := c.Query("ym")
	first, err := time.Parse("2006-01", ym)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ym must be YYYY-MM"})
		return
	}

	from := first.Format(entrydate.Layout)
	to := first.AddDate(0, 1, -1).Format(entrydate.Layout)

	summary, err := h.summarize(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// Export writes the range report as an xlsx attachment
func (h *Handler) Export(c *gin.Context) {
	var req RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil || !entrydate.Valid(req.From) || !entrydate.Valid(req.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be YYYY-MM-DD"})
		return
	}

	summary, err := h.summarize(req.From, req.To)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	rows := [][]interface{}{
		{"From", summary.From},
		{"To", summary.To},
		{},
		{"Total sales", summary.TotalSales},
		{"Credit sales", summary.CreditSales},
		{"Cash sales", summary.CashSales},
		{"Payments received", summary.Payments},
		{"Returns", summary.Returns},
		{"Receivable adjustments", summary.Debits},
		{"Expenses", summary.Expenses},
		{"Production packs", summary.ProductionPacks},
		{},
		{"Company", "Sales", "Payments"},
	}
	for _, bc := range summary.ByCompany {
		rows = append(rows, []interface{}{bc.CompanyName, bc.Sales, bc.Payments})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Branch", "Sales", "Payments"})
	for _, bb := range summary.ByBranch {
		rows = append(rows, []interface{}{bb.BranchName, bb.Sales, bb.Payments})
	}

	for i, row := range rows {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			f.SetCellValue(sheet, cell, val)
		}
	}

	filename := fmt.Sprintf("report-%s-%s.xlsx", summary.From, summary.To)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export"})
	}
}

// summarize sums entries with entry_date in [from, to], grouped by kind.
// An empty range yields an all-zero summary, not an error.
func (h *Handler) summarize(from, to string) (*Summary, error) {
	summary := &Summary{
		From:      from,
		To:        to,
		ByCompany: []CompanyBreakdown{},
		ByBranch:  []BranchBreakdown{},
	}

	var kindTotals []struct {
		EntryType string
		Total     float64
	}
	if err := h.db.Model(&database.LedgerEntry{}).
		Select("entry_type, COALESCE(SUM(amount), 0) AS total").
		Where("entry_date BETWEEN ? AND ?", from, to).
		Group("entry_type").
		Scan(&kindTotals).Error; err != nil {
		return nil, err
	}

	for _, kt := range kindTotals {
		switch kt.EntryType {
		case database.EntryCreditSale:
			summary.CreditSales = kt.Total
		case database.EntryCashSale:
			summary.CashSales = kt.Total
		case database.EntryPayment:
			summary.Payments = -kt.Total
		case database.EntryReturn:
			summary.Returns = -kt.Total
		case database.EntryDebit:
			summary.Debits = kt.Total
		}
	}
	summary.TotalSales = summary.CreditSales + summary.CashSales

	if err := h.db.Model(&database.ExpenseEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("entry_date BETWEEN ? AND ?", from, to).
		Scan(&summary.Expenses).Error; err != nil {
		return nil, err
	}

	if err := h.db.Model(&database.ProductionEntry{}).
		Select("COALESCE(SUM(packs), 0)").
		Where("entry_date BETWEEN ? AND ?", from, to).
		Scan(&summary.ProductionPacks).Error; err != nil {
		return nil, err
	}

	if err := h.db.Model(&database.LedgerEntry{}).
		Select(`companies.id AS company_id, companies.name AS company_name,
			COALESCE(SUM(CASE WHEN entry_type IN ('CREDIT_SALE', 'CASH_SALE') THEN amount ELSE 0 END), 0) AS sales,
			COALESCE(SUM(CASE WHEN entry_type = 'PAYMENT' THEN -amount ELSE 0 END), 0) AS payments`).
		Joins("JOIN companies ON companies.id = ledger_entries.company_id").
		Where("entry_date BETWEEN ? AND ?", from, to).
		Group("companies.id, companies.name").
		Order("companies.name ASC").
		Scan(&summary.ByCompany).Error; err != nil {
		return nil, err
	}

	if err := h.db.Model(&database.LedgerEntry{}).
		Select(`branches.id AS branch_id, branches.name AS branch_name,
			COALESCE(SUM(CASE WHEN entry_type IN ('CREDIT_SALE', 'CASH_SALE') THEN amount ELSE 0 END), 0) AS sales,
			COALESCE(SUM(CASE WHEN entry_type = 'PAYMENT' THEN -amount ELSE 0 END), 0) AS payments`).
		Joins("JOIN branches ON branches.id = ledger_entries.branch_id").
		Where("entry_date BETWEEN ? AND ?", from, to).
		Group("branches.id, branches.name").
		Order("branches.name ASC").
		Scan(&summary.ByBranch).Error; err != nil {
		return nil, err
	}

	return summary, nil
}
