package services

import (
	"context"
	"testing"

	"github.com/gheetdufa/ifad-portal-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUnverifiedHost(t *testing.T, te *testEnv, userID string) {
	t.Helper()
	_, err := te.users.CreateUser(context.Background(), models.User{
		UserID:    userID,
		Role:      models.RoleHost,
		Email:     userID + "@example.org",
		FirstName: "New",
		LastName:  userID,
		Visible:   true,
	})
	require.NoError(t, err)
}

// Approving a host is an admin-only write; until it happens the host is
// invisible to anonymous traffic.
func TestAdminVerifyHostAppearsInDirectory(t *testing.T) {
	te := newTestEnv(t)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)
	ctx := context.Background()

	seedUnverifiedHost(t, te, "h1")

	hosts, _ := te.users.PublicHosts(ctx, PublicHostFilters{})
	assert.Empty(t, hosts)

	verified := true
	host := models.Caller{UserID: "h1", Role: models.RoleHost}
	_, err := te.users.UpdateUser(ctx, host, "h1", AdminUpdateUserRequest{Verified: &verified})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	updated, err := te.users.UpdateUser(ctx, admin, "h1", AdminUpdateUserRequest{Verified: &verified})
	require.NoError(t, err)
	assert.True(t, updated.Verified)

	hosts, _ = te.users.PublicHosts(ctx, PublicHostFilters{})
	require.Len(t, hosts, 1)
	assert.Equal(t, "h1", hosts[0].UserID)

	// rejection takes the host back out
	rejected := false
	_, err = te.users.UpdateUser(ctx, admin, "h1", AdminUpdateUserRequest{Verified: &rejected})
	require.NoError(t, err)
	hosts, _ = te.users.PublicHosts(ctx, PublicHostFilters{})
	assert.Empty(t, hosts)
}

func TestAdminUpdateUserPatchesProfile(t *testing.T) {
	te := newTestEnv(t)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)
	te.seedUser(t, "h1", models.RoleHost)
	ctx := context.Background()

	updated, err := te.users.UpdateUser(ctx, admin, "h1", AdminUpdateUserRequest{
		UpdateProfileRequest: UpdateProfileRequest{Organization: "Acme", Industry: "Aerospace"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Organization)
	assert.Equal(t, "Aerospace", updated.Industry)
	// moderation flags untouched when absent from the patch
	assert.True(t, updated.Verified)
	assert.True(t, updated.Active)

	_, err = te.users.UpdateUser(ctx, admin, "nobody", AdminUpdateUserRequest{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestHostDirectoryVisibility(t *testing.T) {
	te := newTestEnv(t)
	student := te.seedUser(t, "stu-1", models.RoleStudent)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)
	te.seedUser(t, "h1", models.RoleHost)
	seedUnverifiedHost(t, te, "h2")
	ctx := context.Background()

	_, _, err := te.users.HostDirectory(ctx, models.Caller{}, HostDirectoryFilters{})
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	// students get verified hosts only, with full profile fields
	hosts, _, err := te.users.HostDirectory(ctx, student, HostDirectoryFilters{})
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "h1", hosts[0].UserID)
	assert.NotEmpty(t, hosts[0].Email)

	// admins see the whole roster and may filter on verification state
	hosts, _, err = te.users.HostDirectory(ctx, admin, HostDirectoryFilters{})
	require.NoError(t, err)
	assert.Len(t, hosts, 2)

	unverified := false
	hosts, _, err = te.users.HostDirectory(ctx, admin, HostDirectoryFilters{Verified: &unverified})
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "h2", hosts[0].UserID)
}

func TestHostDirectoryLocationFilter(t *testing.T) {
	te := newTestEnv(t)
	student := te.seedUser(t, "stu-1", models.RoleStudent)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)
	te.seedUser(t, "h1", models.RoleHost)
	ctx := context.Background()

	_, err := te.users.UpdateUser(ctx, admin, "h1", AdminUpdateUserRequest{
		UpdateProfileRequest: UpdateProfileRequest{Location: "College Park, MD"},
	})
	require.NoError(t, err)

	hosts, _, err := te.users.HostDirectory(ctx, student, HostDirectoryFilters{Location: "college"})
	require.NoError(t, err)
	assert.Len(t, hosts, 1)

	hosts, _, err = te.users.HostDirectory(ctx, student, HostDirectoryFilters{Location: "boston"})
	require.NoError(t, err)
	assert.Empty(t, hosts)
}

func TestAdminStats(t *testing.T) {
	te := newTestEnv(t)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)
	stu1 := te.seedUser(t, "stu-1", models.RoleStudent)
	stu2 := te.seedUser(t, "stu-2", models.RoleStudent)
	te.seedUser(t, "h1", models.RoleHost)
	seedUnverifiedHost(t, te, "h2")
	ctx := context.Background()

	app := te.submit(t, stu1, []string{"h1"}, "Fall2025")
	te.submit(t, stu2, []string{"h1", "h2"}, "Fall2025")
	te.submit(t, stu1, []string{"h2"}, "Spring2026")

	_, err := te.matches.CreateMatch(ctx, admin, app.ApplicationID, CreateMatchRequest{HostID: "h1"})
	require.NoError(t, err)

	_, err = te.users.AdminStats(ctx, stu1, "Fall2025")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	stats, err := te.users.AdminStats(ctx, admin, "Fall2025")
	require.NoError(t, err)
	assert.Equal(t, "Fall2025", stats.Semester)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 2, stats.TotalHosts)
	assert.Equal(t, 1, stats.VerifiedHosts)
	assert.Equal(t, 1, stats.UnverifiedHosts)
	assert.Equal(t, 2, stats.Applications.Total)
	assert.Equal(t, 1, stats.Applications.Submitted)
	assert.Equal(t, 1, stats.Applications.Matched)
	assert.Equal(t, 1, stats.Matches.Total)
	assert.Equal(t, 1, stats.Matches.Confirmed)

	// other semesters keep their own counts
	stats, err = te.users.AdminStats(ctx, admin, "Spring2026")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Applications.Total)
	assert.Zero(t, stats.Matches.Total)
	assert.NotEmpty(t, stats.GeneratedAt)
}
