package api

import (
	"github.com/gin-gonic/gin"

	"github.com/guestpass/guestpass/internal/handlers"
)

func registerCheckinRoutes(r *gin.Engine, h *handlers.CheckinHandler) {
	r.GET("/api/checkin", h.CheckIn)
}
