package api

import (
	"github.com/gin-gonic/gin"

	"github.com/guestpass/guestpass/internal/handlers"
)

func registerGuestRoutes(r *gin.Engine, h *handlers.GuestHandler) {
	guests := r.Group("/api/guests")
	{
		guests.POST("", h.Register)
		guests.GET("/:id/qr", h.QRImage)
		guests.POST("/:id/revoke", h.Revoke)
	}

	// Human-viewable pass page lives outside the /api prefix.
	r.GET("/guests/:id/pass", h.Pass)
}
