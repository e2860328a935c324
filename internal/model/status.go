package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a lead as stored on the sheet.
type Status string

// Lead statuses. The wire values are the Portuguese labels the backend
// stores verbatim; StatusScheduled additionally carries its date in the
// cell ("Agendado - 02/01/2006").
const (
	StatusUnset     Status = ""
	StatusScheduled Status = "Agendado"
	StatusInContact Status = "Em contato"
	StatusNoContact Status = "Sem contato"
	StatusClosed    Status = "Fechado"
	StatusLost      Status = "Perdido"
)

// statusSentinel is the placeholder option the selector shows before the
// user picks anything. Confirming it is a validation error, not a transition.
const statusSentinel = "Selecione"

// ScheduledLabel renders the sheet value for a scheduled status.
func ScheduledLabel(date time.Time) Status {
	return Status(fmt.Sprintf("%s - %s", StatusScheduled, date.Format("02/01/2006")))
}

// ParseStatus normalizes a raw sheet value into a Status. Scheduled values
// keep their embedded date.
func ParseStatus(raw string) Status {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, statusSentinel) {
		return StatusUnset
	}
	return Status(raw)
}

// IsUnset reports whether the status still allows selection.
func (s Status) IsUnset() bool {
	trimmed := strings.TrimSpace(string(s))
	return trimmed == "" || strings.EqualFold(trimmed, statusSentinel)
}

// IsScheduled reports whether the status carries a scheduling date.
func (s Status) IsScheduled() bool {
	return strings.HasPrefix(string(s), string(StatusScheduled))
}

// IsClosed reports whether the status is the terminal renewed state.
func (s Status) IsClosed() bool {
	return s == StatusClosed
}

// IsLost reports whether the lead was given up on.
func (s Status) IsLost() bool {
	return s == StatusLost
}

// IsConfirmed reports whether the status locks the selector. Every named
// state does; only an unset lead can still be transitioned freely.
func (s Status) IsConfirmed() bool {
	return !s.IsUnset()
}

// ScheduledDate extracts the date embedded in a scheduled status, if any.
func (s Status) ScheduledDate() (time.Time, bool) {
	if !s.IsScheduled() {
		return time.Time{}, false
	}
	_, after, found := strings.Cut(string(s), "-")
	if !found {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("02/01/2006", strings.TrimSpace(after), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
