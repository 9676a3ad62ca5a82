package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guestpass/guestpass/internal/models"
	"github.com/guestpass/guestpass/internal/services"
	appErrors "github.com/guestpass/guestpass/pkg/errors"
	"github.com/guestpass/guestpass/pkg/logger"
	"github.com/guestpass/guestpass/pkg/response"
)

// adminTokenHeader carries the shared secret for administrative operations.
const adminTokenHeader = "X-Admin-Token"

// GuestHandler serves registration, QR image, pass, and revocation routes.
type GuestHandler struct {
	registration *services.RegistrationService
	checkins     *services.CheckinService
	audit        *services.AuditService
	adminToken   string
}

// NewGuestHandler constructs a GuestHandler. audit may be nil; adminToken
// empty disables the revoke route.
func NewGuestHandler(registration *services.RegistrationService, checkins *services.CheckinService, audit *services.AuditService, adminToken string) *GuestHandler {
	return &GuestHandler{
		registration: registration,
		checkins:     checkins,
		audit:        audit,
		adminToken:   adminToken,
	}
}

type registerRequest struct {
	FullName       string `json:"fullName" validate:"required"`
	Email          string `json:"email" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	DocumentType   string `json:"documentType" validate:"omitempty"`
	DocumentNumber string `json:"documentNumber" validate:"omitempty"`
	Company        string `json:"company" validate:"omitempty,max=160"`
	JobTitle       string `json:"jobTitle" validate:"omitempty,max=160"`
	State          string `json:"state" validate:"required"`
	City           string `json:"city" validate:"required"`
}

type registerResponse struct {
	OK                bool   `json:"ok"`
	AlreadyRegistered bool   `json:"alreadyRegistered"`
	GuestID           string `json:"guestId"`
	EmailSent         bool   `json:"emailSent"`
	Message           string `json:"message"`
}

type revokeResponse struct {
	OK      bool   `json:"ok"`
	GuestID string `json:"guestId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Register handles POST /api/guests.
func (h *GuestHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.registration.Register(requestContext(c), services.RegistrationInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		Company:        req.Company,
		JobTitle:       req.JobTitle,
		State:          req.State,
		City:           req.City,
	})
	if err != nil {
		h.recordAudit(c, "guest.register", "", auditResultForError(err), nil)
		response.Error(c, err)
		return
	}

	auditResult := "created"
	if result.AlreadyRegistered {
		auditResult = "duplicate"
	}
	h.recordAudit(c, "guest.register", result.GuestID, auditResult, map[string]any{
		"email_sent": result.Email.Sent,
	})

	c.JSON(http.StatusOK, registerResponse{
		OK:                true,
		AlreadyRegistered: result.AlreadyRegistered,
		GuestID:           result.GuestID,
		EmailSent:         result.Email.Sent,
		Message:           result.Message,
	})
}

// QRImage handles GET /api/guests/:id/qr.
func (h *GuestHandler) QRImage(c *gin.Context) {
	png, err := h.registration.QRImage(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// Revoke handles POST /api/guests/:id/revoke, an administrative action.
func (h *GuestHandler) Revoke(c *gin.Context) {
	if h.checkins == nil || h.adminToken == "" {
		response.Error(c, appErrors.ErrNotFound)
		return
	}

	provided := c.GetHeader(adminTokenHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.adminToken)) != 1 {
		h.recordAudit(c, "guest.revoke", c.Param("id"), "denied", nil)
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	guest, err := h.checkins.Revoke(requestContext(c), c.Param("id"))
	if err != nil {
		h.recordAudit(c, "guest.revoke", c.Param("id"), auditResultForError(err), nil)
		response.Error(c, err)
		return
	}

	h.recordAudit(c, "guest.revoke", guest.ID, "revoked", nil)
	c.JSON(http.StatusOK, revokeResponse{
		OK:      true,
		GuestID: guest.ID,
		Status:  string(models.StatusRevoked),
		Message: "Invite revoked.",
	})
}

func (h *GuestHandler) recordAudit(c *gin.Context, action, resource, result string, metadata map[string]any) {
	if h.audit == nil {
		return
	}

	entry := services.AuditEntry{
		Action:    action,
		Resource:  resource,
		Result:    result,
		Metadata:  metadata,
		IPAddress: c.ClientIP(),
	}
	if c.Request != nil {
		entry.UserAgent = c.Request.UserAgent()
	}
	if err := h.audit.Log(requestContext(c), entry); err != nil {
		logger.WithModule("audit").Warn("audit write failed",
			zap.String("action", action), zap.Error(err))
	}
}

func auditResultForError(err error) string {
	appErr := appErrors.FromError(err)
	switch appErr.StatusCode {
	case http.StatusBadRequest:
		return "invalid"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusConflict:
		return "conflict"
	default:
		return "error"
	}
}
