package code2doc

import (
	"errors"
	"fmt"
)

// Severity ranks a notification.
type Severity string

// Notification severities.
const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is the user-facing outcome of an export.
type Notification struct {
	Severity Severity
	Message  string
}

// NotificationFor converts the result of exporting to format into a
// notification. Missing content is a warning the user can fix; every other
// error is reported as a failed export.
func NotificationFor(format Format, err error) Notification {
	switch {
	case err == nil && format == FormatPDF:
		return Notification{SeveritySuccess, "PDF exported successfully"}
	case err == nil:
		return Notification{SeveritySuccess, fmt.Sprintf("Exported to %s successfully", format.Label())}
	case errors.Is(err, ErrMissingContent):
		return Notification{SeverityWarning, "Please upload a file first"}
	default:
		return Notification{SeverityError, fmt.Sprintf("Error exporting to %s", format.Label())}
	}
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s", n.Severity, n.Message)
}
