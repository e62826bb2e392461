package mailer

import (
	"context"
	"sync"
)

// SentMail is one message captured by the mock.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer records messages instead of delivering them. Used in tests and
// in environments without an SMTP relay.
type MockMailer struct {
	mu   sync.Mutex
	sent []SentMail
	Err  error
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of all captured messages.
func (m *MockMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}
