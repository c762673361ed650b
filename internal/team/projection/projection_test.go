package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	teamModel "github.com/festy23/collabase/internal/team/model"
)

func fixture() []teamModel.Team {
	now := time.Now().UTC()
	member := func(teamID, userID, role string) teamModel.Member {
		return teamModel.Member{TeamID: teamID, UserID: userID, Role: role, JoinedAt: now}
	}
	app := func(teamID, userID string, status teamModel.Status) teamModel.Application {
		return teamModel.Application{ID: teamID + userID, TeamID: teamID, UserID: userID, Status: status, CreatedAt: now}
	}
	return []teamModel.Team{
		{
			ID: "t1", CreatedBy: "A", TeamSize: 3, CurrentMembers: 2,
			Members:      []teamModel.Member{member("t1", "A", teamModel.RoleLead), member("t1", "U", teamModel.RoleMember)},
			Applications: []teamModel.Application{app("t1", "U", teamModel.StatusAccepted)},
		},
		{
			ID: "t2", CreatedBy: "B", TeamSize: 3, CurrentMembers: 1,
			Members:      []teamModel.Member{member("t2", "B", teamModel.RoleLead)},
			Applications: []teamModel.Application{app("t2", "U", teamModel.StatusRejected)},
		},
		{
			ID: "t3", CreatedBy: "U", TeamSize: 2, CurrentMembers: 1,
			Members:      []teamModel.Member{member("t3", "U", teamModel.RoleLead)},
			Applications: []teamModel.Application{app("t3", "A", teamModel.StatusPending)},
		},
		{
			ID: "t4", CreatedBy: "C", TeamSize: 2, CurrentMembers: 1,
			Members:      []teamModel.Member{member("t4", "C", teamModel.RoleLead)},
			Applications: []teamModel.Application{app("t4", "U", teamModel.StatusPending), app("t4", "D", teamModel.StatusWithdrawn)},
		},
	}
}

func TestMyApplications(t *testing.T) {
	views := MyApplications(fixture(), "U")
	require.Len(t, views, 3)

	statuses := map[string]teamModel.Status{}
	for _, v := range views {
		statuses[v.Team.ID] = v.Status
	}
	assert.Equal(t, map[string]teamModel.Status{
		"t1": teamModel.StatusAccepted,
		"t2": teamModel.StatusRejected,
		"t4": teamModel.StatusPending,
	}, statuses)

	withdrawn := MyApplications(fixture(), "D")
	require.Len(t, withdrawn, 1)
	assert.Equal(t, teamModel.StatusWithdrawn, withdrawn[0].Status)

	assert.NotNil(t, MyApplications(nil, "U"))
}

func TestCreatedBy(t *testing.T) {
	teams := CreatedBy(fixture(), "U")
	require.Len(t, teams, 1)
	assert.Equal(t, "t3", teams[0].ID)
	assert.Empty(t, CreatedBy(fixture(), "nobody"))
}

func TestMemberOf(t *testing.T) {
	teams := MemberOf(fixture(), "U")
	require.Len(t, teams, 1, "own team is excluded")
	assert.Equal(t, "t1", teams[0].ID)

	assert.Empty(t, MemberOf(fixture(), "B"))
}
