package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTeam() *Team {
	base := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	link := "https://chat.whatsapp.com/abc"
	return &Team{
		ID:             "t1",
		Title:          "Robotics",
		Category:       "Hackathon",
		TeamSize:       3,
		CurrentMembers: 2,
		CreatedBy:      "lead",
		WhatsAppLink:   &link,
		Members: []Member{
			{UserID: "m1", Name: "Bo", Role: RoleMember, JoinedAt: base.Add(time.Hour)},
			{UserID: "lead", Name: "Ann", Role: RoleLead, JoinedAt: base},
		},
		Applications: []Application{
			{UserID: "p2", Status: StatusPending, CreatedAt: base.Add(3 * time.Hour)},
			{UserID: "m1", Status: StatusAccepted, CreatedAt: base},
			{UserID: "p1", Status: StatusPending, CreatedAt: base.Add(2 * time.Hour)},
			{UserID: "r1", Status: StatusRejected, CreatedAt: base.Add(time.Hour)},
		},
	}
}

func TestNewTeamResponse(t *testing.T) {
	t.Run("derives pending applicants in submission order", func(t *testing.T) {
		resp := NewTeamResponse(sampleTeam(), "stranger")

		assert.Equal(t, []string{"p1", "p2"}, resp.Applications)
		assert.Equal(t, "lead", resp.Members[0].UserID, "members ordered by join time")
		assert.Equal(t, []string{}, resp.SkillsNeeded)
	})

	t.Run("chat link visible to members only", func(t *testing.T) {
		assert.Nil(t, NewTeamResponse(sampleTeam(), "p1").WhatsAppLink)

		resp := NewTeamResponse(sampleTeam(), "m1")
		require.NotNil(t, resp.WhatsAppLink)
		assert.Equal(t, "https://chat.whatsapp.com/abc", *resp.WhatsAppLink)
	})

	t.Run("empty lists serialize as arrays", func(t *testing.T) {
		data, err := json.Marshal(NewTeamResponse(&Team{ID: "t2"}, ""))
		require.NoError(t, err)

		assert.Contains(t, string(data), `"applications":[]`)
		assert.Contains(t, string(data), `"members":[]`)
		assert.NotContains(t, string(data), "whatsapp_link")
	})
}

func TestTeam_Helpers(t *testing.T) {
	team := sampleTeam()

	assert.False(t, team.IsFull())
	team.CurrentMembers = 3
	assert.True(t, team.IsFull())

	assert.True(t, team.HasMember("m1"))
	assert.False(t, team.HasMember("p1"))

	require.NotNil(t, team.ApplicationOf("r1"))
	assert.Equal(t, StatusRejected, team.ApplicationOf("r1").Status)
	assert.Nil(t, team.ApplicationOf("nobody"))
}
