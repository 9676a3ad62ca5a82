package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/guestpass/guestpass/internal/models"
	"github.com/guestpass/guestpass/pkg/crypto"
	apperrors "github.com/guestpass/guestpass/pkg/errors"
	"github.com/guestpass/guestpass/pkg/logger"
	"github.com/guestpass/guestpass/pkg/metrics"
)

// CheckinResult reports the outcome of a check-in attempt for a valid token.
type CheckinResult struct {
	GuestID        string
	FullName       string
	Email          string
	Company        string
	JobTitle       string
	AlreadyChecked bool
	CheckInAt      time.Time
	Message        string
}

// CheckinOption customises CheckinService behaviour.
type CheckinOption func(*CheckinService)

// WithCheckinClock injects a custom clock, primarily for testing.
func WithCheckinClock(clock func() time.Time) CheckinOption {
	return func(s *CheckinService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithCheckinLogger overrides the module logger.
func WithCheckinLogger(log *zap.Logger) CheckinOption {
	return func(s *CheckinService) {
		if log != nil {
			s.log = log
		}
	}
}

// CheckinService owns the guest status state machine: the one-way
// PENDING -> CHECKED_IN transition and the administrative revocation guard.
type CheckinService struct {
	db  *gorm.DB
	now func() time.Time
	log *zap.Logger
}

// NewCheckinService constructs a CheckinService.
func NewCheckinService(db *gorm.DB, opts ...CheckinOption) (*CheckinService, error) {
	if db == nil {
		return nil, errors.New("checkin service: db is required")
	}

	service := &CheckinService{db: db, now: time.Now, log: logger.WithModule("checkin")}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// CheckIn looks up the guest by token and performs the status transition.
// The transition is a single conditional update so that of two concurrent
// scans exactly one observes the fresh check-in and the other reports
// already-checked.
func (s *CheckinService) CheckIn(ctx context.Context, token string) (*CheckinResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		metrics.Checkins.WithLabelValues("invalid").Inc()
		return nil, apperrors.ErrMissingToken
	}

	guest, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	switch guest.Status {
	case models.StatusRevoked:
		metrics.Checkins.WithLabelValues("revoked").Inc()
		return nil, apperrors.ErrInviteRevoked
	case models.StatusCheckedIn:
		metrics.Checkins.WithLabelValues("already_checked").Inc()
		return alreadyCheckedResult(guest), nil
	}

	now := s.now().UTC()
	update := s.db.WithContext(ctx).
		Model(&models.GuestInvite{}).
		Where("id = ? AND status = ?", guest.ID, models.StatusPending).
		Updates(map[string]any{"status": models.StatusCheckedIn, "check_in_at": now})
	if update.Error != nil {
		metrics.Checkins.WithLabelValues("error").Inc()
		return nil, apperrors.ErrInternalServer.WithInternal(fmt.Errorf("checkin: update status: %w", update.Error))
	}

	if update.RowsAffected == 0 {
		// A concurrent scan or a revocation got there first; report
		// whatever state actually landed.
		current, err := s.findByToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if current.Status == models.StatusRevoked {
			metrics.Checkins.WithLabelValues("revoked").Inc()
			return nil, apperrors.ErrInviteRevoked
		}
		metrics.Checkins.WithLabelValues("already_checked").Inc()
		return alreadyCheckedResult(current), nil
	}

	metrics.Checkins.WithLabelValues("checked_in").Inc()
	s.log.Info("guest checked in",
		zap.String("guest_id", guest.ID),
		zap.String("token_sha256", crypto.HashToken(token)))
	return &CheckinResult{
		GuestID:        guest.ID,
		FullName:       guest.FullName,
		Email:          guest.Email,
		Company:        guest.Company,
		JobTitle:       guest.JobTitle,
		AlreadyChecked: false,
		CheckInAt:      now,
		Message:        "Check-in confirmed. Welcome!",
	}, nil
}

// Revoke marks a pending invite as revoked. Revoking an already revoked
// invite is a no-op; a checked-in guest cannot be revoked.
func (s *CheckinService) Revoke(ctx context.Context, guestID string) (*models.GuestInvite, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return nil, apperrors.ErrGuestNotFound
	}

	var guest models.GuestInvite
	if err := s.db.WithContext(ctx).First(&guest, "id = ?", guestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGuestNotFound
		}
		return nil, apperrors.ErrInternalServer.WithInternal(fmt.Errorf("checkin: load guest: %w", err))
	}

	switch guest.Status {
	case models.StatusRevoked:
		return &guest, nil
	case models.StatusCheckedIn:
		return nil, apperrors.ErrAlreadyCheckedIn
	}

	update := s.db.WithContext(ctx).
		Model(&models.GuestInvite{}).
		Where("id = ? AND status = ?", guest.ID, models.StatusPending).
		Update("status", models.StatusRevoked)
	if update.Error != nil {
		return nil, apperrors.ErrInternalServer.WithInternal(fmt.Errorf("checkin: revoke guest: %w", update.Error))
	}
	if update.RowsAffected == 0 {
		// Checked in between the read and the write.
		return nil, apperrors.ErrAlreadyCheckedIn
	}

	guest.Status = models.StatusRevoked
	return &guest, nil
}

func (s *CheckinService) findByToken(ctx context.Context, token string) (*models.GuestInvite, error) {
	var guest models.GuestInvite
	if err := s.db.WithContext(ctx).First(&guest, "check_in_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.Checkins.WithLabelValues("not_found").Inc()
			// Raw tokens grant entry; only their hash ever reaches the logs.
			s.log.Warn("unknown check-in token",
				zap.String("token_sha256", crypto.HashToken(token)))
			return nil, apperrors.ErrInviteNotFound
		}
		metrics.Checkins.WithLabelValues("error").Inc()
		return nil, apperrors.ErrInternalServer.WithInternal(fmt.Errorf("checkin: lookup token: %w", err))
	}
	return &guest, nil
}

func alreadyCheckedResult(guest *models.GuestInvite) *CheckinResult {
	result := &CheckinResult{
		GuestID:        guest.ID,
		FullName:       guest.FullName,
		Email:          guest.Email,
		Company:        guest.Company,
		JobTitle:       guest.JobTitle,
		AlreadyChecked: true,
		Message:        "Guest had already checked in.",
	}
	if guest.CheckInAt != nil {
		result.CheckInAt = *guest.CheckInAt
	}
	return result
}
