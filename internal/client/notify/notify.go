// Package notify is the toast layer of the terminal client: success and
// failure messages emitted by dialogs and mutations, kept in a small ring so
// the shell can show the latest ones.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Kind classifies a notification.
type Kind int

const (
	// Success reports a completed mutation or upload.
	Success Kind = iota
	// Failure reports a failed mutation, upload or fetch.
	Failure
)

// Notification is one user-visible message.
type Notification struct {
	Kind    Kind
	Message string
}

// Notifier receives user-visible notifications. Dialogs and flows depend on
// this interface so tests can capture emitted messages.
type Notifier interface {
	Notify(n Notification)
}

// Center is the default Notifier: it logs every notification and keeps the
// most recent ones in a fixed-size ring.
type Center struct {
	mu     sync.Mutex
	recent []Notification
	limit  int
	log    *zap.Logger
}

// NewCenter creates a Center keeping up to limit recent notifications.
// If limit is 0 it defaults to 20.
func NewCenter(limit int, log *zap.Logger) *Center {
	if limit <= 0 {
		limit = 20
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Center{limit: limit, log: log}
}

// Notify records the notification and logs it.
func (c *Center) Notify(n Notification) {
	c.mu.Lock()
	c.recent = append(c.recent, n)
	if len(c.recent) > c.limit {
		c.recent = c.recent[len(c.recent)-c.limit:]
	}
	c.mu.Unlock()

	switch n.Kind {
	case Success:
		c.log.Info(n.Message)
	case Failure:
		c.log.Warn(n.Message)
	}
}

// Recent returns a copy of the retained notifications, oldest first.
func (c *Center) Recent() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.recent))
	copy(out, c.recent)
	return out
}

// Successf emits a success notification.
func Successf(n Notifier, msg string) { n.Notify(Notification{Kind: Success, Message: msg}) }

// Failuref emits a failure notification.
func Failuref(n Notifier, msg string) { n.Notify(Notification{Kind: Failure, Message: msg}) }
