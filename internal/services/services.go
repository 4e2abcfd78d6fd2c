// Package services holds the application logic behind each HTTP route. Each
// service reads and rewrites whole documents through db.Collection.
package services

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	Logger     *slog.Logger
	Events     Publisher
	BcryptCost int
	Now        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Events == nil {
		o.Events = nopPublisher{}
	}
	if o.BcryptCost == 0 {
		o.BcryptCost = bcrypt.DefaultCost
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) now() time.Time {
	return o.Now().UTC()
}

func (o Options) publish(eventType string, data any) {
	o.Events.Publish(Event{Type: eventType, Data: data, At: o.now()})
}

func newID() string {
	return uuid.NewString()
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
