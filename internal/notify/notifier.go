package notify

import "log"

// Notifier is the toast seam: one success or failure notification per
// user-initiated action. Implementations must not block the caller.
type Notifier interface {
	Success(title, description string)
	Error(title, description string)
}

// LogNotifier writes notifications to the process log. Used as the default
// sink when no UI is attached.
type LogNotifier struct{}

func (LogNotifier) Success(title, description string) {
	log.Printf("notify: %s: %s", title, description)
}

func (LogNotifier) Error(title, description string) {
	log.Printf("notify: ERROR %s: %s", title, description)
}
