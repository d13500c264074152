package handler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ritikk978/next-nest/internal/mailer"
	"github.com/ritikk978/next-nest/internal/model"
)

type recordingNotifier struct {
	mailer.Nop
	mu   sync.Mutex
	sent []string
}

func (r *recordingNotifier) record(kind, toEmail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, kind+":"+toEmail)
}

func (r *recordingNotifier) SendBookingRequested(toEmail, _, _, _ string) error {
	r.record("requested", toEmail)
	return nil
}

func (r *recordingNotifier) SendBookingReceived(toEmail, _, _, _ string) error {
	r.record("received", toEmail)
	return nil
}

func (r *recordingNotifier) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

func TestBookingCreationNotifiesBothParties(t *testing.T) {
	rec := &recordingNotifier{}
	prev := Notifier
	Notifier = rec
	defer func() { Notifier = prev }()

	tenant := &model.User{ID: 1, Email: "asha@example.com", FirstName: "Asha"}
	owner := &model.User{ID: 2, Email: "ravi@example.com", FirstName: "Ravi"}
	property := &model.Property{ID: 7, Title: "2BHK in Baner", OwnerID: 2}
	b := &model.Booking{
		ID:            3,
		PropertyID:    7,
		TenantID:      1,
		ScheduledTime: time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC),
	}

	notifyBookingCreated(b, property, tenant, owner)

	assert.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 10*time.Millisecond)

	sent := rec.snapshot()
	assert.Contains(t, sent, "requested:asha@example.com")
	assert.Contains(t, sent, "received:ravi@example.com")
}

func TestBookingCreationSkipsMissingParties(t *testing.T) {
	rec := &recordingNotifier{}
	prev := Notifier
	Notifier = rec
	defer func() { Notifier = prev }()

	owner := &model.User{ID: 2, Email: "ravi@example.com", FirstName: "Ravi"}
	property := &model.Property{ID: 7, Title: "2BHK in Baner", OwnerID: 2}
	b := &model.Booking{ID: 3, PropertyID: 7, TenantID: 1, ScheduledTime: time.Now()}

	notifyBookingCreated(b, property, nil, owner)

	assert.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"received:ravi@example.com"}, rec.snapshot())
}
