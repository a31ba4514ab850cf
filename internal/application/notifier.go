package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/pkg/helpers"
	"github.com/oksasatya/pet-adoption-api/pkg/mailer"
	mailtpl "github.com/oksasatya/pet-adoption-api/pkg/mailer/templates"
)

// Notifier announces domain events. Delivery is best effort: failures are
// logged and never fail the request that triggered them.
type Notifier interface {
	Welcome(ctx context.Context, u *entity.User)
	AdoptionReceived(ctx context.Context, ad *entity.Adoption)
	AdoptionStatusChanged(ctx context.Context, ad *entity.Adoption)
	ContactReceived(ctx context.Context, ct *entity.Contact)
}

// JobPublisher is satisfied by *helpers.RabbitPublisher.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// MailNotifier turns events into email jobs for the email worker.
type MailNotifier struct {
	Publisher JobPublisher
	Branding  mailtpl.Branding
	// OrgInbox receives adoption requests and contact messages.
	OrgInbox string
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewMailNotifier(pub JobPublisher, branding mailtpl.Branding, orgInbox string, logger *logrus.Logger) *MailNotifier {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &MailNotifier{Publisher: pub, Branding: branding, OrgInbox: orgInbox, Logger: logger, Now: time.Now}
}

func (n *MailNotifier) Welcome(ctx context.Context, u *entity.User) {
	data := mailtpl.NewWelcomeData(n.Branding, u.Name, u.Email, string(u.Role), mailtpl.WithTime(n.Now()))
	n.publish(ctx, mailer.EmailJob{To: u.Email, Template: mailtpl.Welcome, Data: data})
}

func (n *MailNotifier) AdoptionReceived(ctx context.Context, ad *entity.Adoption) {
	if n.OrgInbox == "" {
		return
	}
	data := mailtpl.NewAdoptionReceivedData(n.Branding, n.OrgInbox, ad.ID,
		mailtpl.WithAnimal(animalName(ad)),
		mailtpl.WithAdopter(ad.AdopterName, ad.AdopterEmail, deref(ad.AdopterPhone)),
		mailtpl.WithTime(n.Now()),
	)
	n.publish(ctx, mailer.EmailJob{To: n.OrgInbox, Template: mailtpl.AdoptionReceived, Data: data})
}

func (n *MailNotifier) AdoptionStatusChanged(ctx context.Context, ad *entity.Adoption) {
	data := mailtpl.NewAdoptionStatusChangedData(n.Branding, ad.AdopterName, ad.AdopterEmail, ad.ID, string(ad.Status),
		mailtpl.WithAnimal(animalName(ad)),
		mailtpl.WithTime(n.Now()),
	)
	n.publish(ctx, mailer.EmailJob{To: ad.AdopterEmail, Template: mailtpl.AdoptionStatusChanged, Data: data})
}

func (n *MailNotifier) ContactReceived(ctx context.Context, ct *entity.Contact) {
	if n.OrgInbox == "" {
		return
	}
	data := mailtpl.NewContactReceivedData(n.Branding, n.OrgInbox, ct.Name, ct.Email, deref(ct.Subject), ct.Message,
		mailtpl.WithTime(n.Now()))
	n.publish(ctx, mailer.EmailJob{To: n.OrgInbox, Template: mailtpl.ContactReceived, Data: data})
}

func (n *MailNotifier) publish(ctx context.Context, job mailer.EmailJob) {
	if n.Publisher == nil || job.To == "" {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := n.Publisher.PublishJSON(c, job); err != nil {
		n.Logger.WithError(err).WithFields(logrus.Fields{"template": job.Template, "to": job.To}).Warn("enqueue email failed")
	}
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Welcome(context.Context, *entity.User)                   {}
func (NopNotifier) AdoptionReceived(context.Context, *entity.Adoption)      {}
func (NopNotifier) AdoptionStatusChanged(context.Context, *entity.Adoption) {}
func (NopNotifier) ContactReceived(context.Context, *entity.Contact)        {}

func animalName(ad *entity.Adoption) string {
	if ad.Animal == nil {
		return ""
	}
	return ad.Animal.Name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
