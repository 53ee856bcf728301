package handler

import (
	"net/http"

	"tindahan/internal/middleware"
	"tindahan/internal/service"
	"tindahan/pkg/pagination"
	"tindahan/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	creditService service.CreditService
}

func NewCreditHandler(creditService service.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

func (h *CreditHandler) RegisterRoutes(router *gin.RouterGroup) {
	credits := router.Group("/api/credits", middleware.RequireAuth())
	{
		credits.GET("", h.ListCreditSales)
		credits.GET("/:id", h.GetCreditSale)
		credits.POST("/:id/deposits", h.RecordDeposit)
		credits.DELETE("/:id", h.DeleteCreditSale)
	}
}

// ListCreditSales returns the credit book
// @Summary      List credit sales
// @Description  Lists credit sales, optionally filtered by status or customer name
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of rows per page (default 20)"
// @Param        status    query     string  false  "UNPAID, PARTIAL or PAID"
// @Param        customer  query     string  false  "Filter by customer name"
// @Success      200       {object}  response.Response{data=object}
// @Failure      400       {object}  response.Response
// @Router       /api/credits [get]
func (h *CreditHandler) ListCreditSales(c *gin.Context) {
	ctx := c.Request.Context()

	if status := c.Query("status"); status != "" {
		sales, err := h.creditService.ListByStatus(ctx, status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{"credit_sales": sales}))
		return
	}

	if customer := c.Query("customer"); customer != "" {
		sales, err := h.creditService.ListByCustomer(ctx, customer)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{"credit_sales": sales}))
		return
	}

	p := pagination.Parse(c)
	sales, total, err := h.creditService.ListCreditSales(ctx, p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"credit_sales": sales,
		"pagination":   pagination.MetaFor(p, total),
	}))
}

// GetCreditSale returns one credit record
// @Summary      Get credit sale
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Credit sale ID"
// @Success      200  {object}  response.Response{data=service.CreditSaleResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/credits/{id} [get]
func (h *CreditHandler) GetCreditSale(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid credit sale ID"))
		return
	}

	sale, err := h.creditService.GetCreditSale(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// RecordDeposit applies a customer payment to a credit sale
// @Summary      Record deposit
// @Description  Adds a payment toward the balance; status moves to PARTIAL or PAID as the math dictates
// @Tags         credits
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                     true  "Credit sale ID"
// @Param        payload  body      service.DepositRequest  true  "Deposit Payload"
// @Success      200      {object}  response.Response{data=service.CreditSaleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/credits/{id}/deposits [post]
func (h *CreditHandler) RecordDeposit(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid credit sale ID"))
		return
	}

	var req service.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	sale, err := h.creditService.RecordDeposit(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// DeleteCreditSale removes a credit record
// @Summary      Delete credit sale
// @Description  Removes the credit record only; the underlying sale movement stays on the ledger
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Credit sale ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/credits/{id} [delete]
func (h *CreditHandler) DeleteCreditSale(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid credit sale ID"))
		return
	}

	if err := h.creditService.DeleteCreditSale(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
