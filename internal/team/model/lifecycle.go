package model

// Status is the state of a (team, user) pair.
type Status string

// Application statuses. StatusNone means no relation.
const (
	StatusNone      Status = ""
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Action is a lifecycle operation on a (team, user) pair.
type Action string

// Lifecycle actions.
const (
	ActionSubmit   Action = "submit"
	ActionWithdraw Action = "withdraw"
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionRemove   Action = "remove"
)

// Transition returns the state reached by applying action in state from.
//
//	[none|rejected|withdrawn] --submit--> pending
//	pending --withdraw--> withdrawn
//	pending --accept--> accepted (member)
//	pending --reject--> rejected
//	accepted --remove--> none
func Transition(from Status, action Action) (Status, error) {
	switch action {
	case ActionSubmit:
		switch from {
		case StatusNone, StatusRejected, StatusWithdrawn:
			return StatusPending, nil
		case StatusPending:
			return from, ErrAlreadyApplied
		case StatusAccepted:
			return from, ErrAlreadyMember
		}
	case ActionWithdraw:
		if from == StatusPending {
			return StatusWithdrawn, nil
		}
		return from, ErrNotPending
	case ActionAccept:
		if from == StatusPending {
			return StatusAccepted, nil
		}
		return from, ErrNotPending
	case ActionReject:
		if from == StatusPending {
			return StatusRejected, nil
		}
		return from, ErrNotPending
	case ActionRemove:
		if from == StatusAccepted {
			return StatusNone, nil
		}
		return from, ErrNotMember
	}
	return from, ErrUnknownTransition
}

// RelationOf derives the current state of userID on the team. Membership wins
// over any application record, which covers the lead who never applied.
func RelationOf(team *Team, userID string) Status {
	if team.HasMember(userID) {
		return StatusAccepted
	}
	if app := team.ApplicationOf(userID); app != nil {
		return app.Status
	}
	return StatusNone
}
