package services

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/dmkoval/metools/internal/logging"
	"github.com/dmkoval/metools/internal/server/config"
)

// VerificationNotifier delivers the verification link for a freshly issued
// verify token. A send failure aborts the registration it belongs to.
type VerificationNotifier interface {
	SendVerificationMail(ctx context.Context, toMail string, verifyKey string) error
}

// verificationLink builds the redemption URL embedded into the mail body.
func verificationLink(serviceURL, verifyKey string) string {
	return fmt.Sprintf("%s/api/v1/users/verify?verify_key=%s&redirect=%s", serviceURL, verifyKey, serviceURL)
}

// SMTPNotifier sends verification mail through an SMTP relay.
type SMTPNotifier struct {
	client     *mail.Client
	from       string
	serviceURL string
}

// NewSMTPNotifier builds an SMTP-backed notifier from the mail settings in cfg.
func NewSMTPNotifier(cfg *config.Config) (*SMTPNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client init: %w", err)
	}

	return &SMTPNotifier{
		client:     client,
		from:       cfg.MailFrom,
		serviceURL: cfg.ServiceURL,
	}, nil
}

func (n *SMTPNotifier) SendVerificationMail(ctx context.Context, toMail string, verifyKey string) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(toMail); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject("Verification")
	msg.SetBodyString(mail.TypeTextHTML,
		fmt.Sprintf("Your verification link: %s", verificationLink(n.serviceURL, verifyKey)))

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending verification mail: %w", err)
	}

	return nil
}

// LogNotifier logs the verification link instead of mailing it. Used when no
// SMTP relay is configured (local development).
type LogNotifier struct {
	logger     logging.Logger
	serviceURL string
}

func NewLogNotifier(l logging.Logger, serviceURL string) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "mailer"), serviceURL: serviceURL}
}

func (n *LogNotifier) SendVerificationMail(ctx context.Context, toMail string, verifyKey string) error {
	n.logger.Info(ctx, "verification link issued",
		"to", toMail,
		"link", verificationLink(n.serviceURL, verifyKey),
	)
	return nil
}
