package handlers

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/guestpass/guestpass/internal/database/testutil"
	"github.com/guestpass/guestpass/internal/services"
	"github.com/guestpass/guestpass/pkg/mail"
)

const testAdminToken = "test-admin-token"

func init() {
	gin.SetMode(gin.TestMode)
}

// noopMailer accepts every message without delivering anything.
type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, msg mail.Message) error { return nil }

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	checkins *services.CheckinService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.MustOpenTestDB(t)

	links := services.NewLinkBuilder("https://pass.example.com")
	notifier, err := services.NewNotificationService(noopMailer{}, links, true)
	require.NoError(t, err)

	registration, err := services.NewRegistrationService(db, notifier, links)
	require.NoError(t, err)

	checkins, err := services.NewCheckinService(db)
	require.NoError(t, err)

	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	guests := NewGuestHandler(registration, checkins, audit, testAdminToken)
	checkinHandler := NewCheckinHandler(checkins, audit)
	auditHandler := NewAuditHandler(audit, testAdminToken)

	router := gin.New()
	router.POST("/api/guests", guests.Register)
	router.GET("/api/guests/:id/qr", guests.QRImage)
	router.POST("/api/guests/:id/revoke", guests.Revoke)
	router.GET("/guests/:id/pass", guests.Pass)
	router.GET("/api/checkin", checkinHandler.CheckIn)
	router.GET("/api/audit", auditHandler.List)
	router.GET("/health", Health())

	return &testEnv{db: db, router: router, checkins: checkins}
}
