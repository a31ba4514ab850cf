package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
)

// MessageService stores contact form submissions and anonymous feedback.
type MessageService struct {
	Store    repository.Store
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewMessageService(store repository.Store, notifier Notifier, logger *logrus.Logger) *MessageService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &MessageService{Store: store, Notifier: notifier, Logger: logger}
}

func (s *MessageService) SendContact(ctx context.Context, name, email string, subject *string, message string) (*entity.Contact, error) {
	ct := &entity.Contact{
		Name:    strings.TrimSpace(name),
		Email:   normalizeEmail(email),
		Subject: trimmedOrNil(subject),
		Message: strings.TrimSpace(message),
	}
	if ct.Name == "" || ct.Email == "" || ct.Message == "" {
		return nil, ErrMissingFields
	}
	if err := s.Store.Repos().Contacts.Create(ctx, ct); err != nil {
		return nil, internalErr(s.Logger, "create contact", err)
	}
	s.Notifier.ContactReceived(ctx, ct)
	return ct, nil
}

func (s *MessageService) ListContacts(ctx context.Context) ([]entity.Contact, error) {
	list, err := s.Store.Repos().Contacts.List(ctx)
	if err != nil {
		return nil, internalErr(s.Logger, "list contacts", err)
	}
	if list == nil {
		list = []entity.Contact{}
	}
	return list, nil
}

func (s *MessageService) SendFeedback(ctx context.Context, message string) (*entity.Feedback, error) {
	fb := &entity.Feedback{Message: strings.TrimSpace(message)}
	if fb.Message == "" {
		return nil, ErrMissingFields
	}
	if err := s.Store.Repos().Feedback.Create(ctx, fb); err != nil {
		return nil, internalErr(s.Logger, "create feedback", err)
	}
	return fb, nil
}

func (s *MessageService) ListFeedback(ctx context.Context) ([]entity.Feedback, error) {
	list, err := s.Store.Repos().Feedback.List(ctx)
	if err != nil {
		return nil, internalErr(s.Logger, "list feedback", err)
	}
	if list == nil {
		list = []entity.Feedback{}
	}
	return list, nil
}
