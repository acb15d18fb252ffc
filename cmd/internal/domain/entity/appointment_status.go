package entity

import "fmt"

type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusInProgress  AppointmentStatus = "in-progress"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusNoShow      AppointmentStatus = "no-show"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// BadgeVariant is the badge style a status is rendered with.
type BadgeVariant string

const (
	VariantDefault     BadgeVariant = "default"
	VariantSecondary   BadgeVariant = "secondary"
	VariantDestructive BadgeVariant = "destructive"
	VariantOutline     BadgeVariant = "outline"
)

// AppointmentStatuses returns every known status, in lifecycle order.
func AppointmentStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		StatusPending,
		StatusConfirmed,
		StatusInProgress,
		StatusCompleted,
		StatusCancelled,
		StatusNoShow,
		StatusRescheduled,
	}
}

// allowedTransitions is the only source of truth for status changes.
// Every status has a row, terminal ones included.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:     {StatusConfirmed, StatusCancelled, StatusRescheduled},
	StatusConfirmed:   {StatusInProgress, StatusCancelled, StatusRescheduled, StatusNoShow},
	StatusInProgress:  {StatusCompleted, StatusCancelled},
	StatusCompleted:   {},
	StatusCancelled:   {StatusPending},
	StatusNoShow:      {StatusPending, StatusCancelled},
	StatusRescheduled: {StatusConfirmed, StatusCancelled},
}

func (s AppointmentStatus) String() string {
	return string(s)
}

func (s AppointmentStatus) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
// Unknown statuses are not terminal, they are just unknown.
func (s AppointmentStatus) IsTerminal() bool {
	next, ok := allowedTransitions[s]
	return ok && len(next) == 0
}

func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	status := AppointmentStatus(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown appointment status: %q", raw)
	}
	return status, nil
}

// CanTransition reports whether an appointment in status from may move to status to.
// An unknown from is never allowed to move.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns a copy of the statuses reachable from s in one step.
func NextStatuses(s AppointmentStatus) []AppointmentStatus {
	next := allowedTransitions[s]
	out := make([]AppointmentStatus, len(next))
	copy(out, next)
	return out
}

func DisplayName(s AppointmentStatus) string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	case StatusNoShow:
		return "No Show"
	case StatusRescheduled:
		return "Rescheduled"
	default:
		return string(s)
	}
}

// Color returns the CSS classes of the status badge.
func Color(s AppointmentStatus) string {
	switch s {
	case StatusPending:
		return "bg-yellow-100 text-yellow-800"
	case StatusConfirmed:
		return "bg-blue-100 text-blue-800"
	case StatusInProgress:
		return "bg-purple-100 text-purple-800"
	case StatusCompleted:
		return "bg-green-100 text-green-800"
	case StatusCancelled:
		return "bg-red-100 text-red-800"
	case StatusNoShow:
		return "bg-gray-100 text-gray-800"
	case StatusRescheduled:
		return "bg-orange-100 text-orange-800"
	default:
		return "bg-gray-100 text-gray-800"
	}
}

func Variant(s AppointmentStatus) BadgeVariant {
	switch s {
	case StatusPending, StatusRescheduled:
		return VariantSecondary
	case StatusConfirmed, StatusInProgress, StatusCompleted:
		return VariantDefault
	case StatusCancelled, StatusNoShow:
		return VariantDestructive
	default:
		return VariantOutline
	}
}
