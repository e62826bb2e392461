// Package mailer delivers transactional email. Delivery is best effort: the
// portal records the attempt in email_logs either way and never fails a
// request because SMTP was down.
package mailer

import "context"

// Mailer sends a single plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
