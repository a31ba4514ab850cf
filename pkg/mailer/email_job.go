package mailer

import (
	"fmt"
	"strings"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or a literal Subject/Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "adoption_received", "welcome"
	Data     map[string]any `json:"data,omitempty"`
}

// Normalize lowercases the template name and makes sure the recipient is
// available to templates as RecipientEmail.
func (j *EmailJob) Normalize() {
	j.To = strings.TrimSpace(j.To)
	j.Template = strings.ToLower(strings.TrimSpace(j.Template))
	if j.Template == "" {
		return
	}
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	if v, ok := j.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		j.Data["RecipientEmail"] = j.To
	}
}

func (j *EmailJob) Validate() error {
	if j.To == "" {
		return fmt.Errorf("email job: missing recipient")
	}
	if j.Template == "" && j.Subject == "" {
		return fmt.Errorf("email job: missing template or subject")
	}
	return nil
}
