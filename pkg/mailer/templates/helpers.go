package templates

import (
	"strings"
	"time"
)

// Branding holds the sender identity rendered into every email.
type Branding struct {
	AppName     string
	CompanyName string
	SupportURL  string
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithAnimal(name string) Option {
	return func(d *EmailData) { d.AnimalName = strings.TrimSpace(name) }
}

func WithAdopter(name, email, phone string) Option {
	return func(d *EmailData) {
		d.AdopterName = name
		d.AdopterEmail = email
		d.AdopterPhone = phone
	}
}

// NewBaseEmailData fills branding and recipient fields, then applies opts.
func NewBaseEmailData(b Branding, typ, name, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		RecipientEmail: recipient,
		Type:           typ,

		AppName:     b.AppName,
		CompanyName: b.CompanyName,
		SupportURL:  b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewAdoptionReceivedData is sent to the organization inbox when an adopter applies.
func NewAdoptionReceivedData(b Branding, recipient string, adoptionID int64, opts ...Option) map[string]any {
	d := NewBaseEmailData(b, AdoptionReceived, "", recipient, opts...)
	d.AdoptionID = adoptionID
	return ToMap(d)
}

// NewAdoptionStatusChangedData is sent to the adopter when a request is reviewed.
func NewAdoptionStatusChangedData(b Branding, name, recipient string, adoptionID int64, status string, opts ...Option) map[string]any {
	d := NewBaseEmailData(b, AdoptionStatusChanged, name, recipient, opts...)
	d.AdoptionID = adoptionID
	d.Status = status
	return ToMap(d)
}

func NewContactReceivedData(b Branding, recipient, fromName, fromEmail, subject, message string, opts ...Option) map[string]any {
	d := NewBaseEmailData(b, ContactReceived, fromName, recipient, opts...)
	d.AdopterEmail = fromEmail
	d.Subject = subject
	d.Message = message
	return ToMap(d)
}

func NewWelcomeData(b Branding, name, email, role string, opts ...Option) map[string]any {
	d := NewBaseEmailData(b, Welcome, name, email, opts...)
	d.Role = role
	return ToMap(d)
}
