package notify

import "context"

// Message is one e-mail. HTML is optional; Text is always sent.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
