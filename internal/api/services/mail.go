package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/rohits-web03/recipeshare/internal/config"
	"github.com/rohits-web03/recipeshare/internal/logging"
	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/wneessen/go-mail"
)

const resetSubject = "[Recipe Share] Reset Your Password"

var resetBody = template.Must(template.New("reset").Parse(`Dear {{.User.Username}},

To reset your password, visit the following link:

{{.Link}}

If you did not make this request then simply ignore this email and no changes will be made.

Sincerely,

The Recipe Share Team
`))

// Notifier delivers password-reset links.
type Notifier interface {
	SendPasswordReset(ctx context.Context, to *models.User, link string) error
}

func renderResetBody(to *models.User, link string) (string, error) {
	var buf bytes.Buffer
	err := resetBody.Execute(&buf, struct {
		User *models.User
		Link string
	}{to, link})
	return buf.String(), err
}

// SMTPNotifier sends mail through the configured SMTP server.
type SMTPNotifier struct {
	client *mail.Client
	from   string
}

func NewSMTPNotifier(cfg config.MailConfig) (*SMTPNotifier, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Server, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail client: %w", err)
	}
	return &SMTPNotifier{client: client, from: cfg.NoReply}, nil
}

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, to *models.User, link string) error {
	body, err := renderResetBody(to, link)
	if err != nil {
		return err
	}

	m := mail.NewMsg()
	if err := m.From(n.from); err != nil {
		return fmt.Errorf("invalid sender %q: %w", n.from, err)
	}
	if err := m.To(to.Email); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(resetSubject)
	m.SetBodyString(mail.TypeTextPlain, body)

	if err := n.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ErrMailRequired means production was asked to run without an SMTP server.
var ErrMailRequired = errors.New("MAIL_SERVER must be set in production")

// NewNotifier picks SMTP when a server is configured. Outside production
// it falls back to logging the links; in production that would leak live
// tokens, so it fails instead.
func NewNotifier(cfg config.MailConfig, production bool, log logging.Logger) (Notifier, error) {
	if cfg.Server != "" {
		return NewSMTPNotifier(cfg)
	}
	if production {
		return nil, ErrMailRequired
	}
	log.Warn(context.Background(), "MAIL_SERVER not set, reset links will only be logged")
	return NewLogNotifier(log), nil
}

// LogNotifier writes the reset link to the log instead of sending mail.
// It is used when no MAIL_SERVER is configured.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, to *models.User, link string) error {
	n.log.Info(ctx, "password reset link (mail disabled)", "user_id", to.ID, "link", link)
	return nil
}
