package handlers

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guestpass/guestpass/internal/models"
	"github.com/guestpass/guestpass/internal/services"
	appErrors "github.com/guestpass/guestpass/pkg/errors"
	"github.com/guestpass/guestpass/pkg/response"
)

// AuditHandler serves the administrative audit trail.
type AuditHandler struct {
	audit      *services.AuditService
	adminToken string
}

// NewAuditHandler constructs an AuditHandler. An empty adminToken disables
// the route, like the revoke endpoint.
func NewAuditHandler(audit *services.AuditService, adminToken string) *AuditHandler {
	return &AuditHandler{audit: audit, adminToken: adminToken}
}

type auditListResponse struct {
	OK       bool              `json:"ok"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Logs     []models.AuditLog `json:"logs"`
}

// List handles GET /api/audit, an administrative action.
func (h *AuditHandler) List(c *gin.Context) {
	if h.audit == nil || h.adminToken == "" {
		response.Error(c, appErrors.ErrNotFound)
		return
	}

	provided := c.GetHeader(adminTokenHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.adminToken)) != 1 {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "25"))

	var filters services.AuditFilters
	filters.Action = c.Query("action")
	filters.Result = c.Query("result")
	filters.Resource = c.Query("resource")

	if s := c.Query("since"); s != "" {
		if at, err := time.Parse(time.RFC3339, s); err == nil {
			filters.Since = &at
		}
	}
	if u := c.Query("until"); u != "" {
		if at, err := time.Parse(time.RFC3339, u); err == nil {
			filters.Until = &at
		}
	}

	logs, total, err := h.audit.List(requestContext(c), services.AuditListOptions{
		Page:     page,
		PageSize: pageSize,
		Filters:  filters,
	})
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	if logs == nil {
		logs = []models.AuditLog{}
	}
	c.JSON(http.StatusOK, auditListResponse{
		OK:       true,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Logs:     logs,
	})
}
