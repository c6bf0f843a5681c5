package domain

import "fmt"

// Level grades a user notification.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a one-off message for the administrator. Store
// failures are reported this way exactly once and never retried.
type Notification struct {
	Level Level

	// Operation names what was being done, e.g. "add section".
	Operation string

	// DocumentKey identifies the document the operation touched.
	DocumentKey string

	// Err is the underlying failure, nil for informational notices.
	Err error
}

// Message renders the notification for display.
func (n Notification) Message() string {
	if n.Err == nil {
		return fmt.Sprintf("%s (%s)", n.Operation, n.DocumentKey)
	}
	return fmt.Sprintf("%s (%s): %v", n.Operation, n.DocumentKey, n.Err)
}

// Confirm is the yes/no gate consulted before a destructive operation.
// A nil Confirm counts as "no".
type Confirm func(prompt string) bool

// Approve reports whether c allows the operation described by prompt.
func (c Confirm) Approve(prompt string) bool {
	return c != nil && c(prompt)
}

// AlwaysConfirm approves every prompt. Used by non-interactive callers
// that already obtained consent (e.g. a --yes flag).
func AlwaysConfirm(string) bool { return true }
