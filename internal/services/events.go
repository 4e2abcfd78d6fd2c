package services

import "time"

const (
	EventContactCreated = "contact.created"
	EventNewsCreated    = "news.created"
	EventNewsDeleted    = "news.deleted"
	EventUserCreated    = "user.created"
	EventUserDeleted    = "user.deleted"
)

// Event is a change notification pushed to connected admin panels.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

type Publisher interface {
	Publish(event Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}
