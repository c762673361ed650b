package model

import (
	"sort"
	"time"
)

// CreateTeamRequest represents the request to post a team listing.
type CreateTeamRequest struct {
	Title        string   `json:"title"         validate:"required,max=120"`
	Description  string   `json:"description"   validate:"max=5000"`
	Category     string   `json:"category"      validate:"required,max=64"`
	SkillsNeeded []string `json:"skills_needed" validate:"max=30,dive,required,max=50"`
	TeamSize     int      `json:"team_size"     validate:"required,min=1,max=20"`
	WhatsAppLink string   `json:"whatsapp_link"`
}

// UpdateTeamRequest replaces a team's editable metadata. Team size is fixed.
type UpdateTeamRequest struct {
	Title        string   `json:"title"         validate:"required,max=120"`
	Description  string   `json:"description"   validate:"max=5000"`
	Category     string   `json:"category"      validate:"required,max=64"`
	SkillsNeeded []string `json:"skills_needed" validate:"max=30,dive,required,max=50"`
}

// SetWhatsAppLinkRequest sets or clears the team chat link.
type SetWhatsAppLinkRequest struct {
	WhatsAppLink string `json:"whatsapp_link"`
}

// ApplicantSnapshot is the applicant profile data copied into the member record.
// Empty fields fall back to the applicant's stored profile.
type ApplicantSnapshot struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// ListFilter narrows the team listing.
type ListFilter struct {
	Category string
	OpenOnly bool
}

// TeamResponse is the API view of a team.
type TeamResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	SkillsNeeded   []string  `json:"skills_needed"`
	TeamSize       int       `json:"team_size"`
	CurrentMembers int       `json:"current_members"`
	CreatedBy      string    `json:"created_by"`
	Members        []Member  `json:"members"`
	Applications   []string  `json:"applications"`
	WhatsAppLink   *string   `json:"whatsapp_link,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewTeamResponse builds the view of team seen by viewerID. The chat link is
// shown to members only.
func NewTeamResponse(team *Team, viewerID string) TeamResponse {
	members := make([]Member, len(team.Members))
	copy(members, team.Members)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	for i := range members {
		if members[i].Skills == nil {
			members[i].Skills = []string{}
		}
	}

	skills := team.SkillsNeeded
	if skills == nil {
		skills = []string{}
	}

	resp := TeamResponse{
		ID:             team.ID,
		Title:          team.Title,
		Description:    team.Description,
		Category:       team.Category,
		SkillsNeeded:   skills,
		TeamSize:       team.TeamSize,
		CurrentMembers: team.CurrentMembers,
		CreatedBy:      team.CreatedBy,
		Members:        members,
		Applications:   team.PendingApplicants(),
		CreatedAt:      team.CreatedAt,
	}
	if team.HasMember(viewerID) {
		resp.WhatsAppLink = team.WhatsAppLink
	}
	return resp
}

// NewTeamResponses builds views for a list of teams.
func NewTeamResponses(teams []Team, viewerID string) []TeamResponse {
	out := make([]TeamResponse, 0, len(teams))
	for i := range teams {
		out = append(out, NewTeamResponse(&teams[i], viewerID))
	}
	return out
}

// ApplicationView is one entry of a user's application history.
type ApplicationView struct {
	Team   TeamResponse `json:"team"`
	Status Status       `json:"status"`
}
