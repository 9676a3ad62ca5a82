package api

import (
	"github.com/gin-gonic/gin"

	"github.com/guestpass/guestpass/internal/handlers"
)

func registerAuditRoutes(r *gin.Engine, h *handlers.AuditHandler) {
	r.GET("/api/audit", h.List)
}
