package services

import (
	"context"
	"testing"

	"github.com/gheetdufa/ifad-portal-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMatchRequiresAdmin(t *testing.T) {
	te := newTestEnv(t)
	student := te.seedUser(t, "stu-1", models.RoleStudent)
	host := te.seedUser(t, "h1", models.RoleHost)
	app := te.submit(t, student, []string{"h1"}, "Fall2025")
	ctx := context.Background()

	for _, caller := range []models.Caller{student, host} {
		_, err := te.matches.CreateMatch(ctx, caller, app.ApplicationID, CreateMatchRequest{HostID: "h1"})
		assert.ErrorIs(t, err, models.ErrUnauthorized, caller.UserID)
	}
}

func TestCreateMatchUnrankedHost(t *testing.T) {
	te := newTestEnv(t)
	student := te.seedUser(t, "stu-1", models.RoleStudent)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)
	app := te.submit(t, student, []string{"h1", "h2"}, "Fall2025")
	ctx := context.Background()

	_, err := te.matches.CreateMatch(ctx, admin, app.ApplicationID, CreateMatchRequest{HostID: "h3"})
	assert.ErrorIs(t, err, models.ErrValidation)

	// the failed match must not have touched the application
	got, err := te.apps.GetApplication(ctx, admin, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)
	assert.Empty(t, got.MatchedHostID)
}

func TestCreateMatchNotFound(t *testing.T) {
	te := newTestEnv(t)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)

	_, err := te.matches.CreateMatch(context.Background(), admin, "missing", CreateMatchRequest{HostID: "h1"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// The full placement scenario: submit, review, match, then re-drive.
func TestCreateMatchScenario(t *testing.T) {
	te := newTestEnv(t)
	student := te.seedUser(t, "stu-1", models.RoleStudent)
	h1 := te.seedUser(t, "h1", models.RoleHost)
	te.seedUser(t, "h2", models.RoleHost)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)
	ctx := context.Background()

	app := te.submit(t, student, []string{"h1", "h2"}, "Fall2025")
	assert.Equal(t, models.StatusSubmitted, app.Status)

	_, err := te.apps.ReviewApplication(ctx, h1, app.ApplicationID, ReviewApplicationRequest{Decision: models.DecisionAccept})
	require.NoError(t, err)

	got, err := te.apps.GetApplication(ctx, admin, app.ApplicationID)
	require.NoError(t, err)
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, models.DecisionAccept, got.Reviews["h1"].Decision)

	match, err := te.matches.CreateMatch(ctx, admin, app.ApplicationID, CreateMatchRequest{HostID: "h1"})
	require.NoError(t, err)
	assert.Equal(t, student.UserID, match.StudentID)
	assert.Equal(t, "h1", match.HostID)
	assert.Equal(t, "Fall2025", match.Semester)
	assert.Equal(t, models.MatchStatusConfirmed, match.Status)

	got, err = te.apps.GetApplication(ctx, admin, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusMatched, got.Status)
	assert.Equal(t, "h1", got.MatchedHostID)
	assert.Equal(t, match.MatchID, got.MatchID)

	// idempotent retry: same arguments converge on the same match
	again, err := te.matches.CreateMatch(ctx, admin, app.ApplicationID, CreateMatchRequest{HostID: "h1"})
	require.NoError(t, err)
	assert.Equal(t, match.MatchID, again.MatchID)

	all, _, err := te.matches.ListMatches(ctx, admin, ListMatchesRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// a different host for a matched application is a conflict
	_, err = te.matches.CreateMatch(ctx, admin, app.ApplicationID, CreateMatchRequest{HostID: "h2"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

// A crash between the two writes leaves a matched application without its
// match record; the retry rewrites it.
func TestCreateMatchRedriveAfterLostMatchRecord(t *testing.T) {
	te := newTestEnv(t)
	student := te.seedUser(t, "stu-1", models.RoleStudent)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)
	app := te.submit(t, student, []string{"h1"}, "Fall2025")
	ctx := context.Background()

	match, err := te.matches.CreateMatch(ctx, admin, app.ApplicationID, CreateMatchRequest{HostID: "h1"})
	require.NoError(t, err)

	require.NoError(t, te.store.DeleteItem(ctx, matchKeyPrefix+match.MatchID, skMetadata))

	recovered, err := te.matches.CreateMatch(ctx, admin, app.ApplicationID, CreateMatchRequest{HostID: "h1"})
	require.NoError(t, err)
	assert.Equal(t, match.MatchID, recovered.MatchID)
	assert.Equal(t, "h1", recovered.HostID)

	_, err = te.matches.GetMatch(ctx, admin, match.MatchID)
	assert.NoError(t, err)
}

func TestCreateMatchWithdrawnApplication(t *testing.T) {
	te := newTestEnv(t)
	student := te.seedUser(t, "stu-1", models.RoleStudent)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)
	app := te.submit(t, student, []string{"h1"}, "Fall2025")
	ctx := context.Background()

	_, err := te.apps.WithdrawApplication(ctx, student, app.ApplicationID)
	require.NoError(t, err)

	_, err = te.matches.CreateMatch(ctx, admin, app.ApplicationID, CreateMatchRequest{HostID: "h1"})
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestGetMatchVisibility(t *testing.T) {
	te := newTestEnv(t)
	student := te.seedUser(t, "stu-1", models.RoleStudent)
	host := te.seedUser(t, "h1", models.RoleHost)
	otherHost := te.seedUser(t, "h2", models.RoleHost)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)
	app := te.submit(t, student, []string{"h1"}, "Fall2025")
	ctx := context.Background()

	match, err := te.matches.CreateMatch(ctx, admin, app.ApplicationID, CreateMatchRequest{HostID: "h1"})
	require.NoError(t, err)

	for _, caller := range []models.Caller{student, host, admin} {
		_, err := te.matches.GetMatch(ctx, caller, match.MatchID)
		assert.NoError(t, err, caller.UserID)
	}
	_, err = te.matches.GetMatch(ctx, otherHost, match.MatchID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestListMatchesRoleScoping(t *testing.T) {
	te := newTestEnv(t)
	stu1 := te.seedUser(t, "stu-1", models.RoleStudent)
	stu2 := te.seedUser(t, "stu-2", models.RoleStudent)
	h1 := te.seedUser(t, "h1", models.RoleHost)
	admin := te.seedUser(t, "adm-1", models.RoleAdmin)
	ctx := context.Background()

	app1 := te.submit(t, stu1, []string{"h1"}, "Fall2025")
	app2 := te.submit(t, stu2, []string{"h1", "h2"}, "Fall2025")

	_, err := te.matches.CreateMatch(ctx, admin, app1.ApplicationID, CreateMatchRequest{HostID: "h1"})
	require.NoError(t, err)
	_, err = te.matches.CreateMatch(ctx, admin, app2.ApplicationID, CreateMatchRequest{HostID: "h2"})
	require.NoError(t, err)

	mine, _, err := te.matches.ListMatches(ctx, stu1, ListMatchesRequest{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, stu1.UserID, mine[0].StudentID)

	hosted, _, err := te.matches.ListMatches(ctx, h1, ListMatchesRequest{})
	require.NoError(t, err)
	require.Len(t, hosted, 1)
	assert.Equal(t, "h1", hosted[0].HostID)

	all, _, err := te.matches.ListMatches(ctx, admin, ListMatchesRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
