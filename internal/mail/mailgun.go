package mail

import (
	"context"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// Email is an outbound notification. Delivery is a collaborator concern: the
// auth core builds the message, the Mailer gets it off the request path.
type Email struct {
	Subject string
	Body    string
	From    string
	To      []string
}

type Mailer interface {
	SendMail(e *Email) error
}

type Mailgun struct {
	client *mailgun.MailgunImpl
}

func NewMailer(domain, apiKey, apiBase string) *Mailgun {
	client := mailgun.NewMailgun(domain, apiKey)
	if apiBase != "" {
		client.SetAPIBase(apiBase)
	}

	return &Mailgun{client: client}
}

func (m *Mailgun) SendMail(e *Email) error {
	message := m.client.NewMessage(e.From, e.Subject, e.Body, e.To...)

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	_, _, err := m.client.Send(ctx, message)
	return err
}
