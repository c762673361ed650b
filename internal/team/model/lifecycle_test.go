package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from    Status
		action  Action
		want    Status
		wantErr error
	}{
		{StatusNone, ActionSubmit, StatusPending, nil},
		{StatusRejected, ActionSubmit, StatusPending, nil},
		{StatusWithdrawn, ActionSubmit, StatusPending, nil},
		{StatusPending, ActionSubmit, StatusPending, ErrAlreadyApplied},
		{StatusAccepted, ActionSubmit, StatusAccepted, ErrAlreadyMember},

		{StatusPending, ActionWithdraw, StatusWithdrawn, nil},
		{StatusNone, ActionWithdraw, StatusNone, ErrNotPending},
		{StatusAccepted, ActionWithdraw, StatusAccepted, ErrNotPending},

		{StatusPending, ActionAccept, StatusAccepted, nil},
		{StatusAccepted, ActionAccept, StatusAccepted, ErrNotPending},
		{StatusRejected, ActionAccept, StatusRejected, ErrNotPending},

		{StatusPending, ActionReject, StatusRejected, nil},
		{StatusAccepted, ActionReject, StatusAccepted, ErrNotPending},
		{StatusNone, ActionReject, StatusNone, ErrNotPending},

		{StatusAccepted, ActionRemove, StatusNone, nil},
		{StatusPending, ActionRemove, StatusPending, ErrNotMember},
		{StatusNone, ActionRemove, StatusNone, ErrNotMember},

		{StatusPending, Action("promote"), StatusPending, ErrUnknownTransition},
	}

	for _, tt := range tests {
		name := string(tt.action) + " from " + string(tt.from)
		if tt.from == StatusNone {
			name = string(tt.action) + " from none"
		}
		t.Run(name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.action)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRelationOf(t *testing.T) {
	team := &Team{
		CreatedBy: "lead",
		Members:   []Member{{UserID: "lead", Role: RoleLead}, {UserID: "m1", Role: RoleMember}},
		Applications: []Application{
			{UserID: "m1", Status: StatusAccepted},
			{UserID: "p1", Status: StatusPending},
			{UserID: "r1", Status: StatusRejected},
		},
	}

	assert.Equal(t, StatusAccepted, RelationOf(team, "lead"))
	assert.Equal(t, StatusAccepted, RelationOf(team, "m1"))
	assert.Equal(t, StatusPending, RelationOf(team, "p1"))
	assert.Equal(t, StatusRejected, RelationOf(team, "r1"))
	assert.Equal(t, StatusNone, RelationOf(team, "stranger"))
}
