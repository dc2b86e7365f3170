// Package notify posts desktop notifications when an export completes.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/overmark/internal/export"
)

// Message is a single desktop notification.
type Message struct {
	Title string
	Body  string
	// Icon is an optional image file shown alongside the message.
	Icon string
}

// SendFunc delivers a Message to the host notification service.
type SendFunc func(Message) error

// Notifier reports exports to the desktop.
type Notifier struct {
	title   string
	enabled bool
	send    SendFunc
	log     zerolog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithTitle sets the notification title.
func WithTitle(t string) Option { return func(n *Notifier) { n.title = t } }

// WithSender replaces the platform delivery function.
func WithSender(s SendFunc) Option { return func(n *Notifier) { n.send = s } }

// WithLogger sets where delivery failures are logged.
func WithLogger(l zerolog.Logger) Option { return func(n *Notifier) { n.log = l } }

// New returns a Notifier. A disabled notifier drops every message.
func New(enabled bool, opts ...Option) *Notifier {
	n := &Notifier{title: "Overmark", enabled: enabled, send: platformSend, log: zerolog.Nop()}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Exported announces a completed export.
func (n *Notifier) Exported(r export.Result) {
	if n == nil || !n.enabled {
		return
	}
	msg := n.describe(r)
	if err := n.send(msg); err != nil {
		n.log.Warn().Err(err).Str("body", msg.Body).Msg("notification failed")
	}
}

func (n *Notifier) describe(r export.Result) Message {
	msg := Message{Title: n.title}
	var saved []string
	copied := false
	for _, dest := range strings.Split(r.Sink, ",") {
		dest = strings.TrimSpace(dest)
		switch dest {
		case "":
		case "clipboard":
			copied = true
		default:
			if abs, err := filepath.Abs(dest); err == nil {
				dest = abs
			}
			if _, err := os.Stat(dest); err == nil && msg.Icon == "" {
				msg.Icon = dest
			}
			saved = append(saved, dest)
		}
	}
	var parts []string
	if len(saved) > 0 {
		parts = append(parts, fmt.Sprintf("Saved %s", strings.Join(saved, ", ")))
	}
	if copied {
		parts = append(parts, "Copied to clipboard")
	}
	if len(parts) == 0 {
		parts = append(parts, "Exported annotated image")
	}
	msg.Body = strings.Join(parts, "; ")
	return msg
}
