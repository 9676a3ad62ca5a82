package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/guestpass/guestpass/pkg/errors"
)

// ErrorBody is the wire shape of every failed API call.
type ErrorBody struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// JSON writes a success payload verbatim. Handlers own their response
// shapes; this exists so the wire contract stays in one place.
func JSON(c *gin.Context, statusCode int, payload any) {
	c.JSON(statusCode, payload)
}

// Error writes a JSON error response derived from an AppError. Internal
// error detail is never rendered to the client.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorBody{
		OK:      false,
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}
