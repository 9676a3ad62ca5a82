package services

import (
	"context"
	"sync"

	"github.com/guestpass/guestpass/pkg/mail"
)

// fakeMailer records outbound messages and optionally fails every send.
type fakeMailer struct {
	mu       sync.Mutex
	sent     []mail.Message
	failWith error
}

func (m *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mail.Message, len(m.sent))
	copy(out, m.sent)
	return out
}
