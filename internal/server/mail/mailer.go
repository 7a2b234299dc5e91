// Package mail renders account emails from embedded templates and delivers
// them over SMTP.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	gomail "github.com/go-mail/mail/v2"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	confirmTemplate = template.Must(template.ParseFS(templateFS, "templates/confirm.tmpl"))
	resetTemplate   = template.Must(template.ParseFS(templateFS, "templates/reset.tmpl"))
)

// Dialer delivers fully built messages. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender renders and delivers one templated email.
type Sender interface {
	Send(ctx context.Context, to string, tmpl *template.Template, data any) error
}

type Mailer struct {
	dialer   Dialer
	sender   string
	attempts int
}

func NewMailer(host string, port int, username, password, sender string) *Mailer {
	return NewMailerWithDialer(gomail.NewDialer(host, port, username, password), sender)
}

func NewMailerWithDialer(d Dialer, sender string) *Mailer {
	return &Mailer{dialer: d, sender: sender, attempts: 3}
}

// Send executes the "subject", "plainBody" and "htmlBody" blocks of tmpl
// and delivers the result. Delivery is retried a couple of times before
// giving up.
func (m *Mailer) Send(ctx context.Context, to string, tmpl *template.Template, data any) error {
	var subject, plainBody, htmlBody bytes.Buffer

	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return fmt.Errorf("render subject: %w", err)
	}
	if err := tmpl.ExecuteTemplate(&plainBody, "plainBody", data); err != nil {
		return fmt.Errorf("render plain body: %w", err)
	}
	if err := tmpl.ExecuteTemplate(&htmlBody, "htmlBody", data); err != nil {
		return fmt.Errorf("render html body: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("To", to)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	var err error
	for i := 0; i < m.attempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = m.dialer.DialAndSend(msg); err == nil {
			return nil
		}
	}
	return err
}
