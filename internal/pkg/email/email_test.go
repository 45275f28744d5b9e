package email

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg config.SMTPConfig, send sendFunc) *emailServiceImpl {
	t.Helper()
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)
	impl.send = send
	return impl
}

func TestSendInvite_NotConfigured(t *testing.T) {
	calls := 0
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Port: 587}, func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		return nil
	})

	assert.False(t, svc.Configured())
	assert.ErrorIs(t, svc.SendInvite("a@example.com", "https://app.example.com/invite?email=a%40example.com"), ErrNotConfigured)
	assert.Equal(t, 0, calls)
}

func TestSendInvite_RendersLink(t *testing.T) {
	var gotTo []string
	var gotMsg string
	svc := newTestService(t, config.SMTPConfig{
		Host: "smtp.example.com", Port: 587, Username: "mailer", Password: "secret", From: "noreply@example.com", FromName: "Zeiterfassung",
	}, func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "smtp.example.com:587", addr)
		assert.Equal(t, "noreply@example.com", from)
		gotTo = to
		gotMsg = string(msg)
		return nil
	})

	link := "https://app.example.com/invite?email=a%40example.com"
	require.NoError(t, svc.SendInvite("a@example.com", link))
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "To: a@example.com\r\n")
	assert.Contains(t, gotMsg, "text/html")
	assert.Contains(t, gotMsg, "a%40example.com")
}

func TestSendInvite_NoRetry(t *testing.T) {
	calls := 0
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"},
		func(string, smtp.Auth, string, []string, []byte) error {
			calls++
			return errors.New("connection refused")
		})

	err := svc.SendInvite("a@example.com", "https://app.example.com/invite")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
