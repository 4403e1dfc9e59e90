package handlers

import (
	"github.com/gin-gonic/gin"

	"partshub/internal/domain/reports"
	"partshub/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// FinancialSummary handles GET /reports/financial-summary
func (h *ReportsHandler) FinancialSummary(c *gin.Context) {
	var query dto.FinancialSummaryQuery
	if !h.BindQuery(c, &query) {
		return
	}

	summary, err := h.service.GetFinancialSummary(c.Request.Context(), query.Months)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromFinancialSummary(summary))
}
