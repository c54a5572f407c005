package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	args := buildArgs(Notification{
		Title:   "Projekt geändert",
		Body:    "Sommerkleid",
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
		Icon:    "document-edit-symbolic",
	})

	assert.Equal(t, []string{
		"-u", "low",
		"-t", "5000",
		"-i", "document-edit-symbolic",
		"-a", "naehbuch",
		"Projekt geändert", "Sommerkleid",
	}, args)
}

func TestBuildArgsWithoutBody(t *testing.T) {
	assert.Equal(t, UrgencyNormal, Notification{}.Urgency)

	args := buildArgs(Notification{Title: "Hallo"})
	assert.Equal(t, []string{"-u", "normal", "-a", "naehbuch", "Hallo"}, args)
}

func TestDisabledNotifierDoesNothing(t *testing.T) {
	n := &Notifier{command: "/nonexistent/notify-send"}
	n.SetEnabled(false)

	require.False(t, n.IsEnabled())
	assert.NoError(t, n.SendSimple("x", "y"))
}
