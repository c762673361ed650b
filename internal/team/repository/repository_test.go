package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	teamModel "github.com/festy23/collabase/internal/team/model"
	"github.com/festy23/collabase/internal/testutil"
)

func createTeam(t *testing.T, db *gorm.DB, id, lead string, size int, createdAt time.Time) *teamModel.Team {
	t.Helper()
	team := &teamModel.Team{
		ID:             id,
		Title:          "Team " + id,
		Category:       "Hackathon",
		SkillsNeeded:   []string{"go"},
		TeamSize:       size,
		CurrentMembers: 1,
		CreatedBy:      lead,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	lm := &teamModel.Member{TeamID: id, UserID: lead, Name: "Lead", Role: teamModel.RoleLead, JoinedAt: createdAt}
	require.NoError(t, New(db).Create(context.Background(), team, lm))
	return team
}

func apply(t *testing.T, repo Repository, teamID, userID string, at time.Time) {
	t.Helper()
	require.NoError(t, repo.InsertApplication(context.Background(), &teamModel.Application{
		ID: teamID + "-" + userID, TeamID: teamID, UserID: userID,
		Status: teamModel.StatusPending, CreatedAt: at, UpdatedAt: at,
	}))
}

func TestRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := New(db)
	ctx := context.Background()
	now := time.Now().UTC()

	createTeam(t, db, "t1", "lead", 3, now)
	apply(t, repo, "t1", "b", now.Add(time.Second))

	team, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, team.CurrentMembers)
	require.Len(t, team.Members, 1)
	assert.Equal(t, teamModel.RoleLead, team.Members[0].Role)
	assert.Equal(t, []string{"b"}, team.PendingApplicants())
	assert.Equal(t, []string{"go"}, team.SkillsNeeded)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, teamModel.ErrTeamNotFound)
}

func TestRepository_Listing(t *testing.T) {
	db := testutil.NewDB(t)
	repo := New(db)
	ctx := context.Background()
	base := time.Now().UTC()

	createTeam(t, db, "old", "ann", 2, base)
	createTeam(t, db, "new", "bo", 1, base.Add(time.Minute))
	require.NoError(t, db.Model(&teamModel.Team{}).Where("id = ?", "old").Update("category", "Research").Error)

	t.Run("newest first", func(t *testing.T) {
		teams, err := repo.List(ctx, teamModel.ListFilter{})
		require.NoError(t, err)
		require.Len(t, teams, 2)
		assert.Equal(t, "new", teams[0].ID)
	})

	t.Run("category and open filters", func(t *testing.T) {
		teams, err := repo.List(ctx, teamModel.ListFilter{Category: "Research"})
		require.NoError(t, err)
		require.Len(t, teams, 1)
		assert.Equal(t, "old", teams[0].ID)

		open, err := repo.List(ctx, teamModel.ListFilter{OpenOnly: true})
		require.NoError(t, err)
		require.Len(t, open, 1, "size-1 team is full from creation")
		assert.Equal(t, "old", open[0].ID)
	})

	t.Run("equality-filtered fetches", func(t *testing.T) {
		apply(t, repo, "old", "cy", base)
		require.NoError(t, repo.AddMember(ctx, &teamModel.Member{
			TeamID: "new", UserID: "ann", Name: "Ann", Role: teamModel.RoleMember, JoinedAt: base,
		}))

		created, err := repo.ListByCreator(ctx, "ann")
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, "old", created[0].ID)

		member, err := repo.ListByMember(ctx, "ann")
		require.NoError(t, err)
		assert.Len(t, member, 2)

		applied, err := repo.ListByApplicant(ctx, "cy")
		require.NoError(t, err)
		require.Len(t, applied, 1)
		assert.Equal(t, "old", applied[0].ID)

		none, err := repo.ListByApplicant(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})
}

func TestRepository_ApplicationTransitions(t *testing.T) {
	db := testutil.NewDB(t)
	repo := New(db)
	ctx := context.Background()
	now := time.Now().UTC()
	createTeam(t, db, "t1", "lead", 3, now)
	apply(t, repo, "t1", "b", now)

	t.Run("duplicate pair", func(t *testing.T) {
		err := repo.InsertApplication(ctx, &teamModel.Application{
			ID: "dup", TeamID: "t1", UserID: "b", Status: teamModel.StatusPending, CreatedAt: now, UpdatedAt: now,
		})
		assert.ErrorIs(t, err, teamModel.ErrAlreadyApplied)
	})

	t.Run("conditional transition applies once", func(t *testing.T) {
		ok, err := repo.TransitionApplication(ctx, "t1", "b", teamModel.StatusPending, teamModel.StatusRejected, now)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.TransitionApplication(ctx, "t1", "b", teamModel.StatusPending, teamModel.StatusAccepted, now)
		require.NoError(t, err)
		assert.False(t, ok)

		app, err := repo.GetApplication(ctx, "t1", "b")
		require.NoError(t, err)
		assert.Equal(t, teamModel.StatusRejected, app.Status)
		assert.NotNil(t, app.DecidedAt)
	})

	t.Run("reopen rejected", func(t *testing.T) {
		ok, err := repo.ReopenApplication(ctx, "t1", "b", now.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ReopenApplication(ctx, "t1", "b", now.Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, ok, "pending records are not reopened")

		app, err := repo.GetApplication(ctx, "t1", "b")
		require.NoError(t, err)
		assert.Equal(t, teamModel.StatusPending, app.Status)
		assert.Nil(t, app.DecidedAt)
	})

	t.Run("delete and missing", func(t *testing.T) {
		require.NoError(t, repo.DeleteApplication(ctx, "t1", "b"))
		_, err := repo.GetApplication(ctx, "t1", "b")
		assert.ErrorIs(t, err, teamModel.ErrApplicationNotFound)
	})
}

func TestRepository_Seats(t *testing.T) {
	db := testutil.NewDB(t)
	repo := New(db)
	ctx := context.Background()
	createTeam(t, db, "t1", "lead", 2, time.Now().UTC())

	ok, err := repo.ClaimSeat(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ClaimSeat(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok, "team of two is full")

	ok, err = repo.ReleaseSeat(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ReleaseSeat(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok, "lead seat is never released")

	team, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, team.CurrentMembers)

	require.NoError(t, db.Exec("UPDATE teams SET current_members = 2 WHERE id = ?", "t1").Error)
	seats, err := repo.ResyncSeats(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, len(team.Members), seats)

	team, err = repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, seats, team.CurrentMembers)
}

func TestRepository_Members(t *testing.T) {
	db := testutil.NewDB(t)
	repo := New(db)
	ctx := context.Background()
	now := time.Now().UTC()
	createTeam(t, db, "t1", "lead", 3, now)

	m := &teamModel.Member{TeamID: "t1", UserID: "b", Name: "Bo", Role: teamModel.RoleMember, Skills: []string{"ui"}, JoinedAt: now}
	require.NoError(t, repo.AddMember(ctx, m))
	assert.ErrorIs(t, repo.AddMember(ctx, m), teamModel.ErrAlreadyMember)

	team, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, team.HasMember("b"))

	removed, err := repo.RemoveMember(ctx, "t1", "b")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveMember(ctx, "t1", "b")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepository_MetadataLinkAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := New(db)
	ctx := context.Background()
	now := time.Now().UTC()
	createTeam(t, db, "t1", "lead", 3, now)
	apply(t, repo, "t1", "b", now)

	require.NoError(t, repo.UpdateMetadata(ctx, "t1", &teamModel.UpdateTeamRequest{
		Title: "Renamed", Category: "Research", SkillsNeeded: []string{"ml", "ml"},
	}))
	link := "https://chat.whatsapp.com/x"
	require.NoError(t, repo.SetWhatsAppLink(ctx, "t1", &link))

	team, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", team.Title)
	assert.Equal(t, []string{"ml", "ml"}, team.SkillsNeeded)
	assert.Equal(t, 3, team.TeamSize)
	require.NotNil(t, team.WhatsAppLink)
	assert.Equal(t, link, *team.WhatsAppLink)

	require.NoError(t, repo.SetWhatsAppLink(ctx, "t1", nil))
	team, err = repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, team.WhatsAppLink)

	require.NoError(t, repo.Delete(ctx, "t1"))
	_, err = repo.GetByID(ctx, "t1")
	assert.ErrorIs(t, err, teamModel.ErrTeamNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "t1"), teamModel.ErrTeamNotFound)
	assert.ErrorIs(t, repo.UpdateMetadata(ctx, "t1", &teamModel.UpdateTeamRequest{Title: "x"}), teamModel.ErrTeamNotFound)
	assert.ErrorIs(t, repo.SetWhatsAppLink(ctx, "t1", nil), teamModel.ErrTeamNotFound)

	var leftovers int64
	require.NoError(t, db.Model(&teamModel.Application{}).Where("team_id = ?", "t1").Count(&leftovers).Error)
	assert.Zero(t, leftovers)
}
