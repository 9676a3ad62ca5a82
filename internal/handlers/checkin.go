package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guestpass/guestpass/internal/services"
	appErrors "github.com/guestpass/guestpass/pkg/errors"
	"github.com/guestpass/guestpass/pkg/logger"
	"github.com/guestpass/guestpass/pkg/response"
)

// CheckinHandler serves the staff-facing check-in endpoint.
type CheckinHandler struct {
	checkins *services.CheckinService
	audit    *services.AuditService
}

// NewCheckinHandler constructs a CheckinHandler. audit may be nil.
func NewCheckinHandler(checkins *services.CheckinService, audit *services.AuditService) *CheckinHandler {
	return &CheckinHandler{checkins: checkins, audit: audit}
}

type checkinResponse struct {
	OK             bool       `json:"ok"`
	AlreadyChecked bool       `json:"alreadyChecked"`
	GuestID        string     `json:"guestId"`
	FullName       string     `json:"fullName"`
	Email          string     `json:"email"`
	Company        string     `json:"company,omitempty"`
	JobTitle       string     `json:"jobTitle,omitempty"`
	CheckInAt      *time.Time `json:"checkInAt"`
	Message        string     `json:"message"`
}

// CheckIn handles GET /api/checkin?t=<token>. The parameter accepts either
// a bare token or a full check-in URL, as scanners sometimes submit the raw
// decoded payload.
func (h *CheckinHandler) CheckIn(c *gin.Context) {
	scan := services.ParseScanPayload(c.Query("t"))
	if scan.Kind == services.ScanInvalid {
		h.recordAudit(c, "", "missing_token")
		response.Error(c, appErrors.ErrMissingToken)
		return
	}

	result, err := h.checkins.CheckIn(requestContext(c), scan.Token)
	if err != nil {
		h.recordAudit(c, "", auditResultForError(err))
		response.Error(c, err)
		return
	}

	auditResult := "checked_in"
	if result.AlreadyChecked {
		auditResult = "already_checked"
	}
	h.recordAudit(c, result.GuestID, auditResult)

	var checkInAt *time.Time
	if !result.CheckInAt.IsZero() {
		at := result.CheckInAt
		checkInAt = &at
	}

	c.JSON(http.StatusOK, checkinResponse{
		OK:             true,
		AlreadyChecked: result.AlreadyChecked,
		GuestID:        result.GuestID,
		FullName:       result.FullName,
		Email:          result.Email,
		Company:        result.Company,
		JobTitle:       result.JobTitle,
		CheckInAt:      checkInAt,
		Message:        result.Message,
	})
}

func (h *CheckinHandler) recordAudit(c *gin.Context, resource, result string) {
	if h.audit == nil {
		return
	}

	entry := services.AuditEntry{
		Action:    "guest.checkin",
		Resource:  resource,
		Result:    result,
		IPAddress: c.ClientIP(),
	}
	if c.Request != nil {
		entry.UserAgent = c.Request.UserAgent()
	}
	if err := h.audit.Log(requestContext(c), entry); err != nil {
		logger.WithModule("audit").Warn("audit write failed",
			zap.String("action", "guest.checkin"), zap.Error(err))
	}
}
