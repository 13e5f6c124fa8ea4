package email

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSubmissionNotification(t *testing.T) {
	svc := NewEmailService(Config{Host: "smtp.test", Port: "587", Username: "bot@test", Password: "x", To: "admin@test"})

	var gotAddr string
	var gotTo []string
	var gotMsg string
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotTo = to
		gotMsg = string(msg)
		assert.Equal(t, "bot@test", from)
		return nil
	}

	err := svc.SendSubmissionNotification(SubmissionEmailData{PersonID: "p1", Name: "Asha <b>", Gender: "Female", Religion: "Hindu"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.test:587", gotAddr)
	assert.Equal(t, []string{"admin@test"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: New profile submission: Asha <b>")
	assert.Contains(t, gotMsg, "Asha &lt;b&gt;")
	assert.Contains(t, gotMsg, "Profile ID p1")
}

func TestSendSubmissionNotificationError(t *testing.T) {
	svc := NewEmailService(Config{Host: "h", Port: "25", Username: "u", Password: "p", To: "t"})
	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	err := svc.SendSubmissionNotification(SubmissionEmailData{Name: "x"})
	assert.ErrorContains(t, err, "refused")
}

func TestIsConfigured(t *testing.T) {
	assert.False(t, NewEmailService(Config{Host: "h"}).IsConfigured())
	assert.True(t, NewEmailService(Config{Host: "h", Username: "u", Password: "p", To: "t"}).IsConfigured())
}
