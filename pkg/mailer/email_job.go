package mailer

// Email job kinds produced by the auth flows.
const (
	KindWelcome       = "welcome"
	KindPasswordReset = "password_reset"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
type EmailJob struct {
	To      string         `json:"to"`
	Kind    string         `json:"kind"`
	Subject string         `json:"subject,omitempty"`
	Text    string         `json:"text,omitempty"`
	HTML    string         `json:"html,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// SubjectFor returns the default subject line for a job kind.
func SubjectFor(kind string) string {
	switch kind {
	case KindWelcome:
		return "Welcome aboard"
	case KindPasswordReset:
		return "Reset your password"
	default:
		return "Notification"
	}
}
