package notify

import (
	"fmt"

	"github.com/wneessen/go-mail"

	"javadocbot/internal/config"
	"javadocbot/internal/models"
)

// EmailNotifier delivers the report over SMTP with an HTML body and a
// plain-text alternative.
type EmailNotifier struct {
	cfg config.EmailConfig
}

func NewEmailNotifier(cfg config.EmailConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (e *EmailNotifier) Name() string { return "email" }

func (e *EmailNotifier) Send(report *models.RunReport) error {
	msg := mail.NewMsg()
	if err := msg.From(e.cfg.From); err != nil {
		return fmt.Errorf("invalid from address %q: %w", e.cfg.From, err)
	}
	if err := msg.To(e.cfg.To...); err != nil {
		return fmt.Errorf("invalid recipient list: %w", err)
	}
	msg.Subject(RenderSubject(e.cfg.SubjectTemplate, report))

	html, err := RenderHTML(report)
	if err != nil {
		return err
	}
	msg.SetBodyString(mail.TypeTextHTML, html)
	msg.AddAlternativeString(mail.TypeTextPlain, RenderText(report))

	opts := []mail.Option{
		mail.WithPort(e.cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if e.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(e.cfg.From),
			mail.WithPassword(e.cfg.Password),
		)
	}
	client, err := mail.NewClient(e.cfg.SMTPServer, opts...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}
	return nil
}
