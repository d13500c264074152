package mailer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ritikk978/next-nest/pkg/config"
)

type recordingNotifier struct {
	Nop
	mu   sync.Mutex
	sent []string
	fail bool
}

func (r *recordingNotifier) SendWelcome(toEmail, toName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("relay unavailable")
	}
	r.sent = append(r.sent, toEmail)
	return nil
}

func TestNewFallsBackToNop(t *testing.T) {
	cfg := &config.Config{}
	cfg.SMTP.Enabled = false

	_, ok := New(cfg).(Nop)
	assert.True(t, ok)

	cfg.SMTP.Enabled = true
	cfg.SMTP.Username = ""
	_, ok = New(cfg).(Nop)
	assert.True(t, ok)
}

func TestNewPicksSMTPWhenConfigured(t *testing.T) {
	cfg := &config.Config{}
	cfg.SMTP.Enabled = true
	cfg.SMTP.Username = "mailer@nextnest.local"
	cfg.SMTP.Host = "smtp.nextnest.local"
	cfg.SMTP.Port = 587

	_, ok := New(cfg).(*SMTPNotifier)
	assert.True(t, ok)
}

func TestDispatchSwallowsErrors(t *testing.T) {
	n := &recordingNotifier{fail: true}

	// Must not panic or propagate the failure
	Dispatch("welcome", func() error {
		return n.SendWelcome("someone@example.com", "Someone")
	})

	assert.Eventually(t, func() bool {
		n.mu.Lock()
		defer n.mu.Unlock()
		return len(n.sent) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestDispatchDelivers(t *testing.T) {
	n := &recordingNotifier{}

	Dispatch("welcome", func() error {
		return n.SendWelcome("someone@example.com", "Someone")
	})

	assert.Eventually(t, func() bool {
		n.mu.Lock()
		defer n.mu.Unlock()
		return len(n.sent) == 1
	}, time.Second, 10*time.Millisecond)
}
