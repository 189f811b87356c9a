package handler

import (
	"time"

	"github.com/backoffice/backend/internal/application/reporting"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler serves the receivable report projections
type ReportHandler struct {
	BaseHandler
	reportService *reporting.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reporting.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/balance-statement", h.GetBalanceStatement)
		reports.GET("/payment-detail", h.GetPaymentDetail)
		reports.GET("/customer-summary", h.GetCustomerSummary)
		reports.GET("/open-references", h.GetOpenReferences)
		reports.GET("/cancelled-invoices", h.GetCancelledInvoices)
	}
}

// ReportFilterRequest defines the common filter for receivable reports
type ReportFilterRequest struct {
	From       string `form:"from"`
	To         string `form:"to"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// parseQuery binds the filter request and builds a scoped report query
func (h *ReportHandler) parseQuery(c *gin.Context) (reporting.Query, bool) {
	scope, err := getScope(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return reporting.Query{}, false
	}

	var req ReportFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return reporting.Query{}, false
	}

	query := reporting.Query{
		Scope:    scope,
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}

	if req.From != "" {
		from, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return reporting.Query{}, false
		}
		query.From = &from
	}
	if req.To != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return reporting.Query{}, false
		}
		// include the whole end day
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		query.To = &end
	}
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID")
			return reporting.Query{}, false
		}
		query.CustomerID = &customerID
	}

	return query, true
}

// GetBalanceStatement returns the merged debit/credit statement
func (h *ReportHandler) GetBalanceStatement(c *gin.Context) {
	query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	report, err := h.reportService.BalanceStatement(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// GetPaymentDetail returns received payments with receipt links
func (h *ReportHandler) GetPaymentDetail(c *gin.Context) {
	query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	report, err := h.reportService.PaymentDetail(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// GetCustomerSummary returns per customer debit/credit totals
func (h *ReportHandler) GetCustomerSummary(c *gin.Context) {
	query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	report, err := h.reportService.CustomerSummary(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// GetOpenReferences returns references with an outstanding balance
func (h *ReportHandler) GetOpenReferences(c *gin.Context) {
	query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	report, err := h.reportService.OpenReferences(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// GetCancelledInvoices returns cancelled orders that had received payments
func (h *ReportHandler) GetCancelledInvoices(c *gin.Context) {
	query, ok := h.parseQuery(c)
	if !ok {
		return
	}

	report, err := h.reportService.CancelledInvoices(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
