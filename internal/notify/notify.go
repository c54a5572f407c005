package notify

import (
	"os/exec"
	"strconv"
	"time"

	"github.com/dori/naehbuch/internal/model"
)

// Urgency levels for notifications. The zero value is normal.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyLow
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	command string
}

// NewNotifier creates a new notifier. It is disabled when notify-send is
// not installed.
func NewNotifier() *Notifier {
	_, err := exec.LookPath("notify-send")
	return &Notifier{
		enabled: err == nil,
		command: "notify-send",
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}

	cmd := exec.Command(n.command, buildArgs(notification)...)
	return cmd.Run()
}

func buildArgs(notification Notification) []string {
	args := []string{}

	// Add urgency
	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Add timeout (in milliseconds)
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	// Add icon if specified
	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	// Add app name
	args = append(args, "-a", "naehbuch")

	// Add title and body
	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	return args
}

// SendSimple sends a simple notification with title and body
func (n *Notifier) SendSimple(title, body string) error {
	return n.Send(Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 5 * time.Second,
	})
}

// SendProjectChanged announces a project change made outside this session
func (n *Notifier) SendProjectChanged(kind model.ChangeKind, name string) error {
	var title string
	switch kind {
	case model.ChangeInserted:
		title = "Neues Projekt"
	case model.ChangeUpdated:
		title = "Projekt geändert"
	default:
		title = "Projekt gelöscht"
	}

	return n.Send(Notification{
		Title:   title,
		Body:    name,
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
		Icon:    "document-edit-symbolic",
	})
}
