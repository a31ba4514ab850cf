package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mailtpl "github.com/oksasatya/pet-adoption-api/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	got []sent
	err error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.got = append(f.got, sent{to, subject, text, html})
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func encode(t *testing.T, job EmailJob) []byte {
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestWorkerRendersTemplate(t *testing.T) {
	s := &fakeSender{}
	w := NewWorker(s, quietLogger())
	data := mailtpl.NewWelcomeData(mailtpl.Branding{AppName: "Pets"}, "Ana", "ana@example.org", "adopter")

	out := w.Handle(context.Background(), encode(t, EmailJob{To: "ana@example.org", Template: "WELCOME", Data: data}))
	assert.Equal(t, Ack, out)
	require.Len(t, s.got, 1)
	assert.Equal(t, "Welcome to Pets", s.got[0].subject)
	assert.Contains(t, s.got[0].text, "adopter account is ready")
}

func TestWorkerSendsLiteralMessage(t *testing.T) {
	s := &fakeSender{}
	out := NewWorker(s, quietLogger()).Handle(context.Background(), encode(t, EmailJob{To: "a@b.c", Subject: "hi", Text: "body"}))
	assert.Equal(t, Ack, out)
	assert.Equal(t, sent{"a@b.c", "hi", "body", ""}, s.got[0])
}

func TestWorkerDropsBadJobs(t *testing.T) {
	w := NewWorker(&fakeSender{}, quietLogger())
	ctx := context.Background()

	assert.Equal(t, Drop, w.Handle(ctx, []byte("{not json")))
	assert.Equal(t, Drop, w.Handle(ctx, encode(t, EmailJob{Subject: "no recipient"})))
	assert.Equal(t, Drop, w.Handle(ctx, encode(t, EmailJob{To: "a@b.c", Template: "login_otp"})))
}

func TestWorkerRetriesSendFailures(t *testing.T) {
	w := NewWorker(&fakeSender{err: errors.New("503")}, quietLogger())
	assert.Equal(t, Retry, w.Handle(context.Background(), encode(t, EmailJob{To: "a@b.c", Subject: "s"})))
}
