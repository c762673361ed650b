// Package projection derives per-user views from loaded teams.
package projection

import (
	teamModel "github.com/festy23/collabase/internal/team/model"
)

// MyApplications returns the teams userID applied to, each annotated with
// the status of the application record.
func MyApplications(teams []teamModel.Team, userID string) []teamModel.ApplicationView {
	views := []teamModel.ApplicationView{}
	for i := range teams {
		app := teams[i].ApplicationOf(userID)
		if app == nil {
			continue
		}
		views = append(views, teamModel.ApplicationView{
			Team:   teamModel.NewTeamResponse(&teams[i], userID),
			Status: app.Status,
		})
	}
	return views
}

// CreatedBy returns the teams created by userID.
func CreatedBy(teams []teamModel.Team, userID string) []teamModel.Team {
	out := []teamModel.Team{}
	for _, team := range teams {
		if team.CreatedBy == userID {
			out = append(out, team)
		}
	}
	return out
}

// MemberOf returns the teams userID joined, excluding the ones they created.
func MemberOf(teams []teamModel.Team, userID string) []teamModel.Team {
	out := []teamModel.Team{}
	for i := range teams {
		if teams[i].CreatedBy != userID && teams[i].HasMember(userID) {
			out = append(out, teams[i])
		}
	}
	return out
}
