package handler

import (
	"net/http"

	"tindahan/internal/middleware"
	"tindahan/internal/service"
	"tindahan/pkg/pagination"
	"tindahan/pkg/response"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/api/expenses", middleware.RequireAuth())
	{
		expenses.GET("", h.ListExpenses)
		expenses.POST("", h.CreateExpense)
		expenses.PUT("/:id", h.UpdateExpense)
		expenses.DELETE("/:id", h.DeleteExpense)
	}
}

// ListExpenses returns expense entries, newest first
// @Summary      List expenses
// @Description  Lists expenses paginated, or within a date range / named period when given
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of rows per page (default 20)"
// @Param        start   query     string  false  "Start date YYYY-MM-DD"
// @Param        end     query     string  false  "End date YYYY-MM-DD (inclusive)"
// @Param        period  query     string  false  "daily, weekly or monthly"
// @Success      200     {object}  response.Response{data=object}
// @Failure      400     {object}  response.Response
// @Router       /api/expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("start") != "" || c.Query("period") != "" {
		start, end, err := parseRange(c)
		if err != nil {
			writeError(c, err)
			return
		}
		expenses, err := h.expenseService.ListByPeriod(ctx, start, end)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
			"expenses": expenses,
			"start":    start,
			"end":      end,
		}))
		return
	}

	p := pagination.Parse(c)
	expenses, total, err := h.expenseService.ListExpenses(ctx, p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"expenses":   expenses,
		"pagination": pagination.MetaFor(p, total),
	}))
}

// CreateExpense records an operating expense
// @Summary      Create expense
// @Tags         expenses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ExpenseRequest  true  "Expense Payload"
// @Success      201      {object}  response.Response{data=service.ExpenseResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req service.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	expense, err := h.expenseService.AddExpense(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expense))
}

// UpdateExpense edits a recorded expense
// @Summary      Update expense
// @Tags         expenses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                     true  "Expense ID"
// @Param        payload  body      service.ExpenseRequest  true  "Expense Payload"
// @Success      200      {object}  response.Response{data=service.ExpenseResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid expense ID"))
		return
	}

	var req service.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	expense, err := h.expenseService.EditExpense(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// DeleteExpense removes an expense entry
// @Summary      Delete expense
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Expense ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid expense ID"))
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
