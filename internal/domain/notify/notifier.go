package notify

// Notifier pushes a short status message to the operator. Implementations must
// tolerate being called from tick callbacks; a send failure is the caller's to
// log, never to act on.
type Notifier interface {
	Notify(text string) error
}

// Discard is a Notifier that drops every message. Used when no notification
// channel is configured.
type Discard struct{}

func (Discard) Notify(string) error { return nil }
