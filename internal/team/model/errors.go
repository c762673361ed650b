package model

import "errors"

var (
	// ErrTeamNotFound indicates that the requested team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrAlreadyApplied indicates a pending application already exists.
	ErrAlreadyApplied = errors.New("application already pending")
	// ErrAlreadyMember indicates the user is already on the team.
	ErrAlreadyMember = errors.New("user is already a member")
	// ErrNotPending indicates the user has no pending application.
	ErrNotPending = errors.New("no pending application")
	// ErrTeamFull indicates that no seat is left.
	ErrTeamFull = errors.New("team is full")
	// ErrNotMember indicates the user is not on the team.
	ErrNotMember = errors.New("user is not a member")
	// ErrCannotRemoveLead indicates an attempt to remove the team creator.
	ErrCannotRemoveLead = errors.New("team lead cannot be removed")
	// ErrForbidden indicates the actor is not the team creator.
	ErrForbidden = errors.New("only the team creator can do this")
	// ErrInvalidLink indicates a group chat link on an unrecognized host.
	ErrInvalidLink = errors.New("invalid group chat link")
	// ErrInvalidRequest indicates a request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownTransition indicates an action the state machine does not define.
	ErrUnknownTransition = errors.New("unknown lifecycle transition")
	// ErrApplicationNotFound indicates the (team, user) pair has no application record.
	ErrApplicationNotFound = errors.New("application not found")
)
