package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"html/template"

	"go.uber.org/zap"

	"github.com/guestpass/guestpass/internal/models"
	"github.com/guestpass/guestpass/pkg/logger"
	"github.com/guestpass/guestpass/pkg/mail"
	"github.com/guestpass/guestpass/pkg/metrics"
)

const inviteSubject = "Your invite - QR code check-in"

var inviteTemplate = template.Must(template.New("invite").Parse(`
<div style="font-family:Arial,Helvetica,sans-serif;max-width:560px;margin:0 auto">
  <h2>Hello, {{.Name}}!</h2>
  <p>Your registration is confirmed. Present this QR code at the entrance to check in.</p>
  <p><strong>Tip:</strong> keep this email, or
    <a href="{{.QRURL}}" target="_blank" rel="noopener noreferrer">download the QR image</a>.</p>
  <p style="text-align:center">
    <img alt="Your QR code" style="width:260px;height:auto"
         src="data:image/png;base64,{{.QRBase64}}" />
  </p>
  <p>You can also open your pass here:<br/>
    <a href="{{.PassURL}}" target="_blank" rel="noopener noreferrer">{{.PassURL}}</a>
  </p>
  <hr/>
  <p style="font-size:12px;color:#666">If you did not request this invite, you can ignore this message.</p>
</div>`))

// EmailResult reports whether the invite email went out, and why not when
// it did not. Delivery is best-effort: a failure never fails the request
// that triggered it.
type EmailResult struct {
	Sent   bool
	Reason string
}

// NotificationService composes and sends the confirmation email carrying a
// guest's QR code and pass link.
type NotificationService struct {
	mailer  mail.Mailer
	links   *LinkBuilder
	enabled bool
	log     *zap.Logger
}

// NewNotificationService constructs a NotificationService. enabled maps the
// global outbound-email kill switch; when false every send reports
// Sent=false without touching the mailer.
func NewNotificationService(mailer mail.Mailer, links *LinkBuilder, enabled bool) (*NotificationService, error) {
	if links == nil {
		return nil, errors.New("notification service: link builder is required")
	}
	return &NotificationService{
		mailer:  mailer,
		links:   links,
		enabled: enabled,
		log:     logger.WithModule("notifications"),
	}, nil
}

// SendInvite delivers the invite email for a guest, embedding the rendered
// QR image inline. Failures are logged and folded into the result.
func (s *NotificationService) SendInvite(ctx context.Context, guest *models.GuestInvite, qrPNG []byte) EmailResult {
	if guest == nil {
		return EmailResult{Sent: false, Reason: "no guest"}
	}
	if !s.enabled || s.mailer == nil {
		s.log.Warn("outbound email disabled; invite not sent",
			zap.String("guest_id", guest.ID))
		metrics.InviteEmails.WithLabelValues("disabled").Inc()
		return EmailResult{Sent: false, Reason: "email delivery disabled"}
	}

	body, err := s.renderInvite(guest, qrPNG)
	if err != nil {
		s.log.Error("render invite email", zap.String("guest_id", guest.ID), zap.Error(err))
		metrics.InviteEmails.WithLabelValues("failed").Inc()
		return EmailResult{Sent: false, Reason: "template error"}
	}

	msg := mail.Message{
		To:      []string{guest.Email},
		Subject: inviteSubject,
		Body:    body,
		HTML:    true,
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		if errors.Is(err, mail.ErrSMTPDisabled) {
			metrics.InviteEmails.WithLabelValues("disabled").Inc()
			return EmailResult{Sent: false, Reason: "email delivery disabled"}
		}
		s.log.Error("send invite email", zap.String("guest_id", guest.ID), zap.Error(err))
		metrics.InviteEmails.WithLabelValues("failed").Inc()
		return EmailResult{Sent: false, Reason: "delivery failed"}
	}

	metrics.InviteEmails.WithLabelValues("sent").Inc()
	return EmailResult{Sent: true}
}

func (s *NotificationService) renderInvite(guest *models.GuestInvite, qrPNG []byte) (string, error) {
	data := struct {
		Name     string
		QRBase64 string
		PassURL  string
		QRURL    string
	}{
		Name:     guest.FullName,
		QRBase64: base64.StdEncoding.EncodeToString(qrPNG),
		PassURL:  s.links.PassURL(guest.ID),
		QRURL:    s.links.QRImageURL(guest.ID),
	}

	var buf bytes.Buffer
	if err := inviteTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
