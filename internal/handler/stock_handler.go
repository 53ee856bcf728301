package handler

import (
	"net/http"

	"tindahan/internal/middleware"
	"tindahan/internal/service"
	"tindahan/pkg/response"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockService service.StockService
}

func NewStockHandler(stockService service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	stock := router.Group("/api/stock", middleware.RequireAuth())
	{
		stock.POST("/in", h.StockIn)
		stock.POST("/out", h.StockOut)
		stock.GET("/movements", h.ListMovements)
		stock.PUT("/movements/:id", h.EditMovement)
		stock.DELETE("/movements/:id", h.DeleteMovement)
	}
}

// StockIn records a delivery into the ledger
// @Summary      Record stock in
// @Description  Adds quantity to an item and writes the IN movement, returning a markup-based price suggestion
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.StockInRequest  true  "Stock In Payload"
// @Success      201      {object}  response.Response{data=service.StockInResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/stock/in [post]
func (h *StockHandler) StockIn(c *gin.Context) {
	var req service.StockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.stockService.RecordStockIn(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// StockOut records a sale out of the ledger
// @Summary      Record stock out
// @Description  Deducts quantity from an item and writes the OUT movement; a CREDIT sale opens a credit record in the same transaction
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.StockOutRequest  true  "Stock Out Payload"
// @Success      201      {object}  response.Response{data=service.StockOutResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/stock/out [post]
func (h *StockHandler) StockOut(c *gin.Context) {
	var req service.StockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.stockService.RecordStockOut(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// ListMovements returns the ledger for a reporting window
// @Summary      List stock movements
// @Description  Lists movements inside a date range or a named period (daily/weekly/monthly)
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        start   query     string  false  "Start date YYYY-MM-DD"
// @Param        end     query     string  false  "End date YYYY-MM-DD (inclusive)"
// @Param        period  query     string  false  "daily, weekly or monthly"
// @Param        date    query     string  false  "Reference date for period, YYYY-MM-DD"
// @Success      200     {object}  response.Response{data=object}
// @Failure      400     {object}  response.Response
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *gin.Context) {
	start, end, err := parseRange(c)
	if err != nil {
		writeError(c, err)
		return
	}

	movements, err := h.stockService.ListByPeriod(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"start":     start,
		"end":       end,
	}))
}

// EditMovement corrects a ledger entry in place
// @Summary      Edit stock movement
// @Description  Adjusts quantity, price or charge of a past movement and replays the item's stock
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                          true  "Movement ID"
// @Param        payload  body      service.EditMovementRequest  true  "Edit Movement Payload"
// @Success      200      {object}  response.Response{data=service.MovementResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/stock/movements/{id} [put]
func (h *StockHandler) EditMovement(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid movement ID"))
		return
	}

	var req service.EditMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.stockService.EditMovement(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// DeleteMovement removes a ledger entry and reverses its stock effect
// @Summary      Delete stock movement
// @Description  Deletes the movement, restores the item's stock and drops any linked credit sale
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Movement ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/stock/movements/{id} [delete]
func (h *StockHandler) DeleteMovement(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid movement ID"))
		return
	}

	if err := h.stockService.DeleteMovement(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
