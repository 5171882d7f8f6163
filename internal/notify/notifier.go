// Package notify fans task lifecycle events out to connected listeners.
// Delivery is best effort: no acknowledgment, no retry, and a listener that
// connects after an event was sent never observes it.
package notify

// Notifier publishes a named event with its payload to all listeners.
type Notifier interface {
	Publish(event string, payload any)
}

// Nop discards every event. Used in tests and when no sink is configured.
type Nop struct{}

func (Nop) Publish(string, any) {}

// Multi forwards each event to every wrapped notifier.
type Multi []Notifier

func (m Multi) Publish(event string, payload any) {
	for _, n := range m {
		n.Publish(event, payload)
	}
}
