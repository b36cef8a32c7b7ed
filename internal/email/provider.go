package email

// Provider defines the interface for sending email.
type Provider interface {
	// Send sends a plain email message
	Send(email *Email) error

	// SendWelcome sends the post-registration welcome message
	SendWelcome(to, name string) error

	// Validate checks the provider configuration
	Validate() error
}

// Email is a single outgoing message.
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// NoopProvider discards all messages. Used when email is disabled.
type NoopProvider struct{}

func (p *NoopProvider) Send(email *Email) error           { return nil }
func (p *NoopProvider) SendWelcome(to, name string) error { return nil }
func (p *NoopProvider) Validate() error                   { return nil }
