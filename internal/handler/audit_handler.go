package handler

import (
	"net/http"

	"tindahan/internal/middleware"
	"tindahan/internal/service"
	"tindahan/pkg/pagination"
	"tindahan/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/audit", middleware.RequireAuth())
	{
		audit.GET("", h.ListEntries)
	}
}

// ListEntries returns the mutation trail, newest first
// @Summary      List audit entries
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of rows per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/audit [get]
func (h *AuditHandler) ListEntries(c *gin.Context) {
	p := pagination.Parse(c)

	entries, total, err := h.auditService.ListEntries(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"entries":    entries,
		"pagination": pagination.MetaFor(p, total),
	}))
}
