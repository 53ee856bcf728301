package handler

import (
	"io"
	"net/http"

	"tindahan/internal/middleware"
	"tindahan/internal/service"
	"tindahan/pkg/pagination"
	"tindahan/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService  service.CatalogService
	transferService service.TransferService
}

func NewCatalogHandler(catalogService service.CatalogService, transferService service.TransferService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, transferService: transferService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items", middleware.RequireAuth())
	{
		items.GET("", h.ListItems)
		items.POST("", h.CreateItem)
		items.GET("/search", h.SearchItems)
		items.GET("/export", h.ExportCatalog)
		items.POST("/import", h.ImportCatalog)
		items.GET("/:itemNo", h.GetItem)
		items.PUT("/:itemNo", h.UpdateItem)
		items.DELETE("/:itemNo", h.DeleteItem)
		items.PATCH("/:itemNo/active", h.SetActive)
	}
}

// ListItems returns the catalog one page at a time
// @Summary      List items
// @Description  Retrieves a paginated list of catalog items in insertion order
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/items [get]
func (h *CatalogHandler) ListItems(c *gin.Context) {
	p := pagination.Parse(c)

	items, total, err := h.catalogService.ListItems(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"items":      items,
		"pagination": pagination.MetaFor(p, total),
	}))
}

// CreateItem adds a new item to the catalog
// @Summary      Create item
// @Description  Registers a new catalog item, optionally with opening stock
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateItemRequest  true  "Create Item Payload"
// @Success      201      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/items [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.AddItem(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// SearchItems filters the catalog by name or item number
// @Summary      Search items
// @Description  Case-insensitive search over item name (substring) and item number (prefix)
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        q    query     string  true  "Search query"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/items/search [get]
func (h *CatalogHandler) SearchItems(c *gin.Context) {
	items, err := h.catalogService.SearchItems(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{"items": items}))
}

// GetItem returns a single catalog item
// @Summary      Get item
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        itemNo  path      string  true  "Item number"
// @Success      200     {object}  response.Response{data=service.ItemResponse}
// @Failure      404     {object}  response.Response
// @Router       /api/items/{itemNo} [get]
func (h *CatalogHandler) GetItem(c *gin.Context) {
	item, err := h.catalogService.GetItem(c.Request.Context(), c.Param("itemNo"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateItem edits a catalog item's descriptive fields and prices
// @Summary      Update item
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        itemNo   path      string                     true  "Item number"
// @Param        payload  body      service.UpdateItemRequest  true  "Update Item Payload"
// @Success      200      {object}  response.Response{data=service.ItemResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/items/{itemNo} [put]
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), c.Param("itemNo"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteItem retires an item from the catalog
// @Summary      Delete item
// @Description  Soft-deletes the item; its movement history stays on the books
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        itemNo  path      string  true  "Item number"
// @Success      200     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /api/items/{itemNo} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	if err := h.catalogService.DeleteItem(c.Request.Context(), c.Param("itemNo")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": c.Param("itemNo")}))
}

// SetActive toggles whether an item can be sold
// @Summary      Set item active flag
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        itemNo   path      string  true  "Item number"
// @Param        payload  body      object  true  "{\"active\": bool}"
// @Success      200      {object}  response.Response{data=service.ItemResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/items/{itemNo}/active [patch]
func (h *CatalogHandler) SetActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.catalogService.SetActive(c.Request.Context(), c.Param("itemNo"), *req.Active)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// ExportCatalog streams the catalog as a CSV or JSON download
// @Summary      Export catalog
// @Description  Streams the full catalog in the requested format
// @Tags         catalog
// @Security     BearerAuth
// @Produce      text/csv
// @Produce      json
// @Param        format  query  string  false  "csv (default) or json"
// @Success      200
// @Failure      500  {object}  response.Response
// @Router       /api/items/export [get]
func (h *CatalogHandler) ExportCatalog(c *gin.Context) {
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="catalog.csv"`)
		if _, err := h.transferService.ExportCSV(c.Request.Context(), c.Writer); err != nil {
			writeError(c, err)
		}
	case "json":
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", `attachment; filename="catalog.json"`)
		if _, err := h.transferService.ExportJSON(c.Request.Context(), c.Writer); err != nil {
			writeError(c, err)
		}
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unknown export format, expected csv or json"))
	}
}

// ImportCatalog upserts catalog rows from an uploaded CSV or JSON file
// @Summary      Import catalog
// @Description  Upserts items from an uploaded file (multipart field "file") or the raw request body; bad rows are reported, not fatal
// @Tags         catalog
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        format  query     string  false  "csv (default) or json"
// @Param        file    formData  file    false  "Catalog file"
// @Success      200  {object}  response.Response{data=service.ImportReport}
// @Failure      400  {object}  response.Response
// @Router       /api/items/import [post]
func (h *CatalogHandler) ImportCatalog(c *gin.Context) {
	src := io.Reader(c.Request.Body)
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to open uploaded file: "+err.Error()))
			return
		}
		defer f.Close()
		src = f
	}

	var (
		report *service.ImportReport
		err    error
	)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		report, err = h.transferService.ImportCSV(c.Request.Context(), src)
	case "json":
		report, err = h.transferService.ImportJSON(c.Request.Context(), src)
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unknown import format, expected csv or json"))
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
