package services

import (
	"context"
	"sort"
	"time"

	"github.com/ecophos-dev/ecophos/db"
	"github.com/ecophos-dev/ecophos/internal/apperr"
	"github.com/ecophos-dev/ecophos/internal/models"
)

const notifyTimeout = 10 * time.Second

// ContactNotifier forwards new contact messages somewhere a human will see
// them.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, msg models.ContactMessage) error
}

type ContactInput struct {
	Name    string
	Phone   string
	Email   string
	Message string
}

type ContactService struct {
	contacts *db.Collection[models.ContactMessage]
	notifier ContactNotifier
	opts     Options
}

// NewContactService builds the service; notifier may be nil.
func NewContactService(store *db.Store, notifier ContactNotifier, opts Options) *ContactService {
	return &ContactService{
		contacts: db.NewCollection[models.ContactMessage](store, db.Contacts),
		notifier: notifier,
		opts:     opts.withDefaults(),
	}
}

func (s *ContactService) Submit(in ContactInput) (models.ContactMessage, error) {
	if blank(in.Name) || blank(in.Phone) || blank(in.Email) || blank(in.Message) {
		return models.ContactMessage{}, apperr.BadRequest("All fields are required")
	}

	msg := models.ContactMessage{
		ID:        newID(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Message:   in.Message,
		CreatedAt: s.opts.now(),
	}

	if err := s.contacts.Append(msg); err != nil {
		return models.ContactMessage{}, err
	}

	s.opts.publish(EventContactCreated, msg)

	if s.notifier != nil {
		go s.notify(msg)
	}

	return msg, nil
}

func (s *ContactService) notify(msg models.ContactMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyContact(ctx, msg); err != nil {
		s.opts.Logger.Warn("contact notification failed", "contact", msg.ID, "error", err)
	}
}

// List returns every message, newest first.
func (s *ContactService) List() []models.ContactMessage {
	msgs := s.contacts.All()

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})

	return msgs
}
