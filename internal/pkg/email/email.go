package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/smtp"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrNotConfigured is returned when the SMTP account credentials are missing.
var ErrNotConfigured = errors.New("smtp credentials are not configured")

// EmailService defines the interface for sending emails
type EmailService interface {
	// Configured reports whether SMTP credentials are present.
	Configured() bool
	// SendInvite sends a single invite email. It never retries.
	SendInvite(to, link string) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
	}, nil
}

func (s *emailServiceImpl) Configured() bool {
	return s.cfg.Username != "" && s.cfg.Password != ""
}

type inviteEmailData struct {
	Email string
	Link  string
}

func (s *emailServiceImpl) SendInvite(to, link string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "invite.html", inviteEmailData{Email: to, Link: link}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, "Einladung zur Zeiterfassung", body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	headers := fmt.Sprintf("From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", s.cfg.FromName), from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	if err := s.send(addr, auth, from, []string{to}, message); err != nil {
		slog.Error("Failed to send email", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	slog.Info("Email sent successfully", "to", to, "subject", subject)
	return nil
}
