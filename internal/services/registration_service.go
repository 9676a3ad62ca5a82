package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/guestpass/guestpass/internal/models"
	"github.com/guestpass/guestpass/internal/qr"
	"github.com/guestpass/guestpass/pkg/crypto"
	apperrors "github.com/guestpass/guestpass/pkg/errors"
	"github.com/guestpass/guestpass/pkg/logger"
	"github.com/guestpass/guestpass/pkg/metrics"
)

const checkInTokenBytes = 24

// RegistrationInput carries one registration form submission, as received.
// Normalisation happens inside Register.
type RegistrationInput struct {
	FullName       string
	Email          string
	Phone          string
	DocumentType   string
	DocumentNumber string
	Company        string
	JobTitle       string
	State          string
	City           string
}

// RegistrationResult reports the outcome of a registration attempt.
type RegistrationResult struct {
	GuestID           string
	AlreadyRegistered bool
	Email             EmailResult
	Message           string
}

// RegistrationService validates and deduplicates registrations, creates
// guest records, and triggers the invite email.
type RegistrationService struct {
	db       *gorm.DB
	notifier *NotificationService
	links    *LinkBuilder
	log      *zap.Logger
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(db *gorm.DB, notifier *NotificationService, links *LinkBuilder) (*RegistrationService, error) {
	if db == nil {
		return nil, errors.New("registration service: db is required")
	}
	if notifier == nil {
		return nil, errors.New("registration service: notifier is required")
	}
	if links == nil {
		return nil, errors.New("registration service: link builder is required")
	}
	return &RegistrationService{
		db:       db,
		notifier: notifier,
		links:    links,
		log:      logger.WithModule("registration"),
	}, nil
}

// Register normalises and validates a submission, resolves it against
// existing guests by email/phone/document, and either reuses the existing
// record (idempotent resubmission) or creates a new one. The invite email
// is sent best-effort in both cases.
func (s *RegistrationService) Register(ctx context.Context, input RegistrationInput) (*RegistrationResult, error) {
	norm := normalizeRegistration(input)
	if err := validateRegistration(norm); err != nil {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	existing, err := s.findByIdentity(ctx, norm)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, apperrors.ErrInternalServer.WithInternal(fmt.Errorf("registration: lookup guest: %w", err))
	}
	if existing != nil {
		return s.resubmission(ctx, existing), nil
	}

	token, err := crypto.GenerateToken(checkInTokenBytes)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, apperrors.ErrInternalServer.WithInternal(fmt.Errorf("registration: generate token: %w", err))
	}

	guest := models.GuestInvite{
		FullName:     norm.FullName,
		Email:        norm.Email,
		Phone:        norm.Phone,
		Company:      norm.Company,
		JobTitle:     norm.JobTitle,
		State:        norm.State,
		City:         norm.City,
		CheckInToken: token,
		Status:       models.StatusPending,
	}
	if norm.DocumentNumber != "" {
		docNumber := norm.DocumentNumber
		guest.DocumentNumber = &docNumber
	}
	if norm.DocumentType != "" {
		docType := models.DocumentType(norm.DocumentType)
		guest.DocumentType = &docType
	}

	if err := s.db.WithContext(ctx).Create(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against a concurrent submission for the same
			// identity: resolve to the record that won.
			winner, lookupErr := s.findByIdentity(ctx, norm)
			if lookupErr == nil && winner != nil {
				return s.resubmission(ctx, winner), nil
			}
			metrics.Registrations.WithLabelValues("error").Inc()
			return nil, apperrors.ErrDuplicateIdentity.WithInternal(err)
		}
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, apperrors.ErrInternalServer.WithInternal(fmt.Errorf("registration: create guest: %w", err))
	}

	emailResult := s.sendInvite(ctx, &guest)
	metrics.Registrations.WithLabelValues("created").Inc()

	message := "Registration complete! The QR code was sent by email."
	if !emailResult.Sent {
		message = "Registration complete! We could not send the email right now."
	}

	return &RegistrationResult{
		GuestID:           guest.ID,
		AlreadyRegistered: false,
		Email:             emailResult,
		Message:           message,
	}, nil
}

// GetGuest fetches a guest by identifier for the QR and pass endpoints.
func (s *RegistrationService) GetGuest(ctx context.Context, id string) (*models.GuestInvite, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.ErrGuestNotFound
	}

	var guest models.GuestInvite
	if err := s.db.WithContext(ctx).First(&guest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGuestNotFound
		}
		return nil, apperrors.ErrInternalServer.WithInternal(fmt.Errorf("registration: get guest: %w", err))
	}
	return &guest, nil
}

// QRImage renders the PNG QR code carrying a guest's check-in URL.
func (s *RegistrationService) QRImage(ctx context.Context, guestID string) ([]byte, error) {
	guest, err := s.GetGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}

	png, err := qr.Encode(s.links.CheckinURL(guest.CheckInToken))
	if err != nil {
		return nil, apperrors.ErrInternalServer.WithInternal(err)
	}
	return png, nil
}

func (s *RegistrationService) resubmission(ctx context.Context, guest *models.GuestInvite) *RegistrationResult {
	emailResult := s.sendInvite(ctx, guest)
	metrics.Registrations.WithLabelValues("duplicate").Inc()

	message := "You are already registered. The QR code was resent by email."
	if !emailResult.Sent {
		message = "You are already registered. We could not resend the email right now."
	}

	return &RegistrationResult{
		GuestID:           guest.ID,
		AlreadyRegistered: true,
		Email:             emailResult,
		Message:           message,
	}
}

func (s *RegistrationService) sendInvite(ctx context.Context, guest *models.GuestInvite) EmailResult {
	png, err := qr.Encode(s.links.CheckinURL(guest.CheckInToken))
	if err != nil {
		s.log.Error("encode invite qr", zap.String("guest_id", guest.ID), zap.Error(err))
		return EmailResult{Sent: false, Reason: "qr encoding failed"}
	}
	return s.notifier.SendInvite(ctx, guest, png)
}

func (s *RegistrationService) findByIdentity(ctx context.Context, norm RegistrationInput) (*models.GuestInvite, error) {
	query := s.db.WithContext(ctx).Where("email = ? OR phone = ?", norm.Email, norm.Phone)
	if norm.DocumentNumber != "" {
		query = s.db.WithContext(ctx).
			Where("email = ? OR phone = ? OR document_number = ?", norm.Email, norm.Phone, norm.DocumentNumber)
	}

	var guest models.GuestInvite
	if err := query.First(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &guest, nil
}

func normalizeRegistration(input RegistrationInput) RegistrationInput {
	return RegistrationInput{
		FullName:       strings.TrimSpace(input.FullName),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:          onlyDigits(input.Phone),
		DocumentType:   strings.ToUpper(strings.TrimSpace(input.DocumentType)),
		DocumentNumber: onlyDigits(input.DocumentNumber),
		Company:        strings.TrimSpace(input.Company),
		JobTitle:       strings.TrimSpace(input.JobTitle),
		State:          strings.ToUpper(strings.TrimSpace(input.State)),
		City:           strings.TrimSpace(input.City),
	}
}

func validateRegistration(norm RegistrationInput) *apperrors.AppError {
	if len([]rune(norm.FullName)) < 3 {
		return apperrors.NewValidation("full_name", "must be at least 3 characters")
	}
	if _, err := mail.ParseAddress(norm.Email); err != nil {
		return apperrors.NewValidation("email", "must be a valid email address")
	}
	if len(norm.Phone) < 10 || len(norm.Phone) > 14 {
		return apperrors.NewValidation("phone", "must contain 10 to 14 digits")
	}
	if norm.DocumentType != "" && !models.ValidDocumentType(models.DocumentType(norm.DocumentType)) {
		return apperrors.NewValidation("document_type", "must be one of CPF, RG, CNH, PASSPORT")
	}
	if !models.ValidState(norm.State) {
		return apperrors.NewValidation("state", "must be a valid state code")
	}
	if cityLen := len([]rune(norm.City)); cityLen < 2 || cityLen > 120 {
		return apperrors.NewValidation("city", "must be between 2 and 120 characters")
	}
	return nil
}

func onlyDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
