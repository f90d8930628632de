package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")

	team, err := env.teams.CreateTeam(ctx, &CreateTeamInput{
		Name:         "  Field Ops  ",
		JoinPassword: "secret123",
	}, admin.ID)
	require.NoError(t, err)

	assert.Equal(t, "Field Ops", team.Name)
	assert.Equal(t, admin.ID, team.AdminID)
	// Join secret is stored hashed, never the plaintext
	assert.NotEqual(t, "secret123", team.JoinPassword)

	// The creator is a member from the start
	ok, err := env.teamRepo.IsMember(ctx, team.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = env.teams.CreateTeam(ctx, &CreateTeamInput{Name: "", JoinPassword: "x"}, admin.ID)
	assert.ErrorIs(t, err, ErrTeamNameRequired)

	_, err = env.teams.CreateTeam(ctx, &CreateTeamInput{Name: "Ops", JoinPassword: ""}, admin.ID)
	assert.ErrorIs(t, err, ErrJoinPasswordRequired)
}

func TestJoinTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")
	member := env.createUser(t, "Bob", "bob@example.com")
	team := env.createTeam(t, "Field Ops", "secret123", admin.ID)

	joined, err := env.teams.JoinTeam(ctx, member.ID, "Field Ops", "secret123")
	require.NoError(t, err)
	assert.Equal(t, team.ID, joined.ID)

	ok, err := env.teamRepo.IsMember(ctx, team.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Joining again is a no-op, no duplicate row and no error
	_, err = env.teams.JoinTeam(ctx, member.ID, "Field Ops", "secret123")
	require.NoError(t, err)

	ids, err := env.teamRepo.MemberIDs(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{admin.ID, member.ID}, ids)

	// Wrong password
	_, err = env.teams.JoinTeam(ctx, member.ID, "Field Ops", "wrong")
	assert.ErrorIs(t, err, ErrInvalidTeamCredentials)

	// Unknown team name
	_, err = env.teams.JoinTeam(ctx, member.ID, "Ghost Team", "secret123")
	assert.ErrorIs(t, err, ErrInvalidTeamCredentials)
}

func TestJoinTeamDuplicateNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "Alice", "alice@example.com")
	carol := env.createUser(t, "Carol", "carol@example.com")
	dave := env.createUser(t, "Dave", "dave@example.com")

	// Two teams may share a name, the join secret picks the right one
	first := env.createTeam(t, "Ops", "alpha-secret", alice.ID)
	second := env.createTeam(t, "Ops", "beta-secret", carol.ID)

	joined, err := env.teams.JoinTeam(ctx, dave.ID, "Ops", "beta-secret")
	require.NoError(t, err)
	assert.Equal(t, second.ID, joined.ID)

	ok, err := env.teamRepo.IsMember(ctx, first.ID, dave.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetTeamMemberOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")
	outsider := env.createUser(t, "Eve", "eve@example.com")
	team := env.createTeam(t, "Field Ops", "secret123", admin.ID)

	got, err := env.teams.GetByID(ctx, team.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Field Ops", got.Name)

	_, err = env.teams.GetByID(ctx, team.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrNotTeamMember)

	_, err = env.teams.GetByID(ctx, 9999, admin.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestListMyTeams(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")
	member := env.createUser(t, "Bob", "bob@example.com")

	env.createTeam(t, "Ops", "s1", admin.ID)
	env.createTeam(t, "Sales", "s2", admin.ID)

	teams, err := env.teams.ListMyTeams(ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	teams, err = env.teams.ListMyTeams(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestListMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")
	member := env.createUser(t, "Bob", "bob@example.com")
	outsider := env.createUser(t, "Eve", "eve@example.com")
	team := env.createTeam(t, "Field Ops", "secret123", admin.ID)
	_, err := env.teams.JoinTeam(ctx, member.ID, "Field Ops", "secret123")
	require.NoError(t, err)

	members, err := env.teams.ListMembers(ctx, team.ID, admin.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Alice", members[0].Name)
	assert.Equal(t, "Bob", members[1].Name)

	// Membership rows pointing at deleted users are dropped silently
	require.NoError(t, env.db.Exec("DELETE FROM users WHERE id = ?", member.ID).Error)

	members, err = env.teams.ListMembers(ctx, team.ID, admin.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Alice", members[0].Name)

	_, err = env.teams.ListMembers(ctx, team.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrNotTeamMember)
}

func TestAddBranch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")
	member := env.createUser(t, "Bob", "bob@example.com")
	team := env.createTeam(t, "Field Ops", "secret123", admin.ID)
	_, err := env.teams.JoinTeam(ctx, member.ID, "Field Ops", "secret123")
	require.NoError(t, err)

	branch, err := env.teams.AddBranch(ctx, team.ID, &AddBranchInput{
		Name:          "North Office",
		HolderName:    "Alice A",
		AccountNumber: "1234567890",
		IFSC:          "TEST0001",
		UPIID:         "northoffice@upi",
	}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "North Office", branch.Name)
	assert.Equal(t, team.ID, branch.TeamID)

	// Duplicate branch names inside a team are allowed
	_, err = env.teams.AddBranch(ctx, team.ID, &AddBranchInput{
		Name:          "North Office",
		HolderName:    "Alice A",
		AccountNumber: "0987654321",
		IFSC:          "TEST0002",
	}, admin.ID)
	require.NoError(t, err)

	branches, err := env.teams.ListBranches(ctx, team.ID, member.ID)
	require.NoError(t, err)
	assert.Len(t, branches, 2)

	// Members who are not the admin cannot add branches
	_, err = env.teams.AddBranch(ctx, team.ID, &AddBranchInput{
		Name: "South Office",
	}, member.ID)
	assert.ErrorIs(t, err, ErrNotTeamAdmin)

	_, err = env.teams.AddBranch(ctx, team.ID, &AddBranchInput{Name: ""}, admin.ID)
	assert.ErrorIs(t, err, ErrBranchNameRequired)
}

func TestListBranchesMemberOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Alice", "alice@example.com")
	outsider := env.createUser(t, "Eve", "eve@example.com")
	team := env.createTeam(t, "Field Ops", "secret123", admin.ID)
	env.createBranch(t, team.ID, admin.ID, "North Office")

	_, err := env.teams.ListBranches(ctx, team.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrNotTeamMember)
}
