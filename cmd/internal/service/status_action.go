package service

import (
	"clinicportal/cmd/internal/domain/entity"
	"fmt"
)

// Action is a status change a user can ask for. Each action aims at exactly one status.
type Action string

const (
	ActionConfirm    Action = "confirm"
	ActionStart      Action = "start"
	ActionComplete   Action = "complete"
	ActionCancel     Action = "cancel"
	ActionNoShow     Action = "no-show"
	ActionReschedule Action = "reschedule"
	ActionReopen     Action = "reopen"
)

var actionTargets = map[Action]entity.AppointmentStatus{
	ActionConfirm:    entity.StatusConfirmed,
	ActionStart:      entity.StatusInProgress,
	ActionComplete:   entity.StatusCompleted,
	ActionCancel:     entity.StatusCancelled,
	ActionNoShow:     entity.StatusNoShow,
	ActionReschedule: entity.StatusRescheduled,
	ActionReopen:     entity.StatusPending,
}

func ParseAction(raw string) (Action, error) {
	action := Action(raw)
	if _, ok := actionTargets[action]; !ok {
		return "", fmt.Errorf("unknown action %q", raw)
	}
	return action, nil
}

func (a Action) Target() entity.AppointmentStatus {
	return actionTargets[a]
}

func actionFor(target entity.AppointmentStatus) Action {
	for action, status := range actionTargets {
		if status == target {
			return action
		}
	}
	return ""
}

// allowedAction tells whether the caller's role may trigger action at all.
// Clients manage their own bookings only through cancel and reschedule.
func allowedAction(caller *entity.User, action Action) bool {
	switch caller.Role {
	case entity.RoleAdmin, entity.RoleStaff:
		return true
	case entity.RoleClient:
		return action == ActionCancel || action == ActionReschedule
	default:
		return false
	}
}
