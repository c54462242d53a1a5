// Package email delivers invoices over SMTP.
package email

import (
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/stefankostic/efakture/internal/application/invoicing"
)

var _ invoicing.EmailSender = (*GomailSender)(nil)

// GomailSender implements invoicing.EmailSender over plain SMTP.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailSender builds the sender. user and password may be empty for
// unauthenticated relays (local mailcatchers in development).
func NewGomailSender(host string, port int, from, user, password string) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Send delivers one HTML message with an optional PDF attachment.
func (s *GomailSender) Send(ctx context.Context, to, subject, htmlBody string, attachment []byte, filename string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if len(attachment) > 0 {
		msg.Attach(filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(attachment)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
		)
	}

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
