package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guestpass/guestpass/pkg/logger"
	"github.com/guestpass/guestpass/pkg/response"
)

var passTemplate = template.Must(template.New("pass").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Your Pass</title>
  <style>
    body { font-family: Arial, Helvetica, sans-serif; max-width: 28rem; margin: 0 auto; padding: 1.5rem; text-align: center; }
    h1 { font-size: 1.25rem; }
    img { border: 1px solid #ddd; border-radius: .5rem; box-shadow: 0 1px 3px rgba(0,0,0,.15); }
    p.note { font-size: .875rem; color: #444; }
  </style>
</head>
<body>
  <h1>Your Pass</h1>
  <p class="note">Show this QR code at check-in.</p>
  <img src="/api/guests/{{.GuestID}}/qr" alt="Invite QR code" width="300" height="300">
  <p>{{.FullName}}</p>
</body>
</html>
`))

// Pass handles GET /guests/:id/pass, the human-viewable pass page.
func (h *GuestHandler) Pass(c *gin.Context) {
	guest, err := h.registration.GetGuest(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	err = passTemplate.Execute(c.Writer, struct {
		GuestID  string
		FullName string
	}{GuestID: guest.ID, FullName: guest.FullName})
	if err != nil {
		// Headers are already out; the best we can do is record it.
		logger.WithModule("guests").Error("render pass page",
			zap.String("guest_id", guest.ID), zap.Error(err))
	}
}
