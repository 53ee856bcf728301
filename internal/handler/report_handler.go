package handler

import (
	"net/http"

	"tindahan/internal/middleware"
	"tindahan/internal/service"
	"tindahan/pkg/currency"
	"tindahan/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports", middleware.RequireAuth())
	{
		reports.GET("/valuation", h.GetValuation)
		reports.GET("/reorder", h.GetReorder)
		reports.GET("/sales", h.GetSales)
		reports.GET("/summary", h.GetSummary)
		reports.GET("/cogs", h.GetCOGS)
		reports.GET("/dashboard", h.GetDashboard)
	}
}

// GetValuation totals the inventory at cost and at selling price
// @Summary      Inventory valuation
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.Valuation}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) GetValuation(c *gin.Context) {
	valuation, err := h.reportService.InventoryValuation(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"valuation":                valuation,
		"projected_profit_display": currency.Format(valuation.ProjectedProfit),
	}))
}

// GetReorder lists items below threshold and costs out the restock
// @Summary      Reorder report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/reorder [get]
func (h *ReportHandler) GetReorder(c *gin.Context) {
	ctx := c.Request.Context()

	alerts, err := h.reportService.ReorderAlerts(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	cost, err := h.reportService.ReorderCost(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items":                alerts,
		"reorder_cost":         cost,
		"reorder_cost_display": currency.Format(cost),
	}))
}

// GetSales aggregates revenue and cost of goods sold for a window
// @Summary      Sales report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start   query     string  false  "Start date YYYY-MM-DD"
// @Param        end     query     string  false  "End date YYYY-MM-DD (inclusive)"
// @Param        period  query     string  false  "daily, weekly or monthly"
// @Param        date    query     string  false  "Reference date for period, YYYY-MM-DD"
// @Success      200     {object}  response.Response{data=model.SalesStats}
// @Failure      400     {object}  response.Response
// @Router       /api/reports/sales [get]
func (h *ReportHandler) GetSales(c *gin.Context) {
	start, end, err := parseRange(c)
	if err != nil {
		writeError(c, err)
		return
	}

	stats, err := h.reportService.SalesStats(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetSummary produces the full financial statement for a window
// @Summary      Financial summary
// @Description  Revenue, COGS, gross profit, expenses and net income for the window
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start   query     string  false  "Start date YYYY-MM-DD"
// @Param        end     query     string  false  "End date YYYY-MM-DD (inclusive)"
// @Param        period  query     string  false  "daily, weekly or monthly"
// @Param        date    query     string  false  "Reference date for period, YYYY-MM-DD"
// @Success      200     {object}  response.Response{data=model.FinancialSummary}
// @Failure      400     {object}  response.Response
// @Router       /api/reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	start, end, err := parseRange(c)
	if err != nil {
		writeError(c, err)
		return
	}

	summary, err := h.reportService.FinancialSummary(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"summary":            summary,
		"net_income_display": currency.Format(summary.NetIncome),
	}))
}

// GetCOGS breaks cost of goods sold down per item
// @Summary      COGS by item
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start   query     string  false  "Start date YYYY-MM-DD"
// @Param        end     query     string  false  "End date YYYY-MM-DD (inclusive)"
// @Param        period  query     string  false  "daily, weekly or monthly"
// @Param        date    query     string  false  "Reference date for period, YYYY-MM-DD"
// @Success      200     {object}  response.Response{data=object}
// @Failure      400     {object}  response.Response
// @Router       /api/reports/cogs [get]
func (h *ReportHandler) GetCOGS(c *gin.Context) {
	start, end, err := parseRange(c)
	if err != nil {
		writeError(c, err)
		return
	}

	lines, err := h.reportService.COGSByItem(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items": lines,
		"start": start,
		"end":   end,
	}))
}

// GetDashboard assembles the landing view aggregates
// @Summary      Dashboard
// @Description  Valuation, reorder pressure and today's sales in one call
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.Dashboard}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, dashboard))
}
