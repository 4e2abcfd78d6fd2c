package services

import (
	"context"
	"testing"
	"time"

	"github.com/ecophos-dev/ecophos/internal/apperr"
	"github.com/ecophos-dev/ecophos/internal/models"
)

type chanNotifier struct {
	got chan models.ContactMessage
}

func (n *chanNotifier) NotifyContact(_ context.Context, msg models.ContactMessage) error {
	n.got <- msg
	return nil
}

func validContact() ContactInput {
	return ContactInput{Name: "Ana", Phone: "555", Email: "ana@x.com", Message: "Hola"}
}

func TestSubmitContactRequiresEveryField(t *testing.T) {
	svc := NewContactService(newTestStore(t), nil, testOptions(nil))

	for _, unset := range []func(*ContactInput){
		func(in *ContactInput) { in.Name = "" },
		func(in *ContactInput) { in.Phone = " " },
		func(in *ContactInput) { in.Email = "" },
		func(in *ContactInput) { in.Message = "" },
	} {
		in := validContact()
		unset(&in)

		_, err := svc.Submit(in)
		expectKind(t, err, apperr.KindBadRequest)
	}

	if got := svc.List(); len(got) != 0 {
		t.Errorf("expected no messages, got %d", len(got))
	}
}

func TestSubmitContactNotifies(t *testing.T) {
	notifier := &chanNotifier{got: make(chan models.ContactMessage, 1)}
	svc := NewContactService(newTestStore(t), notifier, testOptions(nil))

	msg, err := svc.Submit(validContact())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case got := <-notifier.got:
		if got.ID != msg.ID {
			t.Errorf("expected notification for %s, got %s", msg.ID, got.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestListContactsNewestFirst(t *testing.T) {
	svc := NewContactService(newTestStore(t), nil, testOptions(nil))

	first, _ := svc.Submit(validContact())
	second, _ := svc.Submit(validContact())

	got := svc.List()
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("expected newest first, got %s then %s", got[0].ID, got[1].ID)
	}
}
