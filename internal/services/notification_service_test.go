package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guestpass/guestpass/internal/models"
	"github.com/guestpass/guestpass/pkg/mail"
)

var tinyPNG = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func testGuest() *models.GuestInvite {
	guest := &models.GuestInvite{
		FullName: "Maria Silva",
		Email:    "maria@x.com",
	}
	guest.ID = "guest-1"
	return guest
}

func TestNotificationService_SendInvite(t *testing.T) {
	mailer := &fakeMailer{}
	svc, err := NewNotificationService(mailer, NewLinkBuilder("https://pass.example.com"), true)
	require.NoError(t, err)

	result := svc.SendInvite(context.Background(), testGuest(), tinyPNG)
	require.True(t, result.Sent)
	require.Empty(t, result.Reason)

	messages := mailer.messages()
	require.Len(t, messages, 1)
	msg := messages[0]
	require.Equal(t, []string{"maria@x.com"}, msg.To)
	require.Equal(t, inviteSubject, msg.Subject)
	require.True(t, msg.HTML)
	require.Contains(t, msg.Body, "Maria Silva")
	require.Contains(t, msg.Body, base64.StdEncoding.EncodeToString(tinyPNG))
	require.Contains(t, msg.Body, "https://pass.example.com/guests/guest-1/pass")
	require.Contains(t, msg.Body, "https://pass.example.com/api/guests/guest-1/qr")
}

func TestNotificationService_Disabled(t *testing.T) {
	mailer := &fakeMailer{}
	svc, err := NewNotificationService(mailer, NewLinkBuilder("https://pass.example.com"), false)
	require.NoError(t, err)

	result := svc.SendInvite(context.Background(), testGuest(), tinyPNG)
	require.False(t, result.Sent)
	require.Equal(t, "email delivery disabled", result.Reason)
	require.Empty(t, mailer.messages())
}

func TestNotificationService_DeliveryFailure(t *testing.T) {
	mailer := &fakeMailer{failWith: errors.New("connection refused")}
	svc, err := NewNotificationService(mailer, NewLinkBuilder("https://pass.example.com"), true)
	require.NoError(t, err)

	result := svc.SendInvite(context.Background(), testGuest(), tinyPNG)
	require.False(t, result.Sent)
	require.Equal(t, "delivery failed", result.Reason)
}

func TestNotificationService_SMTPDisabledMailer(t *testing.T) {
	mailer := &fakeMailer{failWith: mail.ErrSMTPDisabled}
	svc, err := NewNotificationService(mailer, NewLinkBuilder("https://pass.example.com"), true)
	require.NoError(t, err)

	result := svc.SendInvite(context.Background(), testGuest(), tinyPNG)
	require.False(t, result.Sent)
	require.Equal(t, "email delivery disabled", result.Reason)
}

func TestNotificationService_NilGuest(t *testing.T) {
	svc, err := NewNotificationService(&fakeMailer{}, NewLinkBuilder("https://pass.example.com"), true)
	require.NoError(t, err)

	result := svc.SendInvite(context.Background(), nil, tinyPNG)
	require.False(t, result.Sent)
}
