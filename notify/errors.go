package notify

import "errors"

var (
	// ErrNoRecipients is returned for a message without recipients.
	ErrNoRecipients = errors.New("notify: no recipients")
)
