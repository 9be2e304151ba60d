package services

import (
	"testing"

	"github.com/gheetdufa/ifad-portal-sub001/models"
	"github.com/gheetdufa/ifad-portal-sub001/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeApplicationDerivesIndexKeys(t *testing.T) {
	app := models.Application{
		ApplicationID: "app-1",
		StudentID:     "stu-1",
		RankedHostIDs: []string{"h1", "h2"},
		Semester:      "Fall2025",
		Status:        models.StatusSubmitted,
		Reviews:       map[string]models.Review{"h1": {HostID: "h1", Decision: models.DecisionAccept}},
	}

	item, err := EncodeApplication(app)
	require.NoError(t, err)

	assert.Equal(t, "APPLICATION#app-1", utils.ExtractString(item, AttrPK))
	assert.Equal(t, "METADATA", utils.ExtractString(item, AttrSK))
	assert.Equal(t, "STUDENT#stu-1", utils.ExtractString(item, AttrGSI1PK))
	assert.Equal(t, "APPLICATION#app-1", utils.ExtractString(item, AttrGSI1SK))
	assert.Equal(t, "SEMESTER#Fall2025", utils.ExtractString(item, AttrGSI2PK))

	// reviews live in their own records, never on the application
	_, hasReviews := item["reviews"]
	assert.False(t, hasReviews)

	decoded := DecodeApplication(item)
	assert.Equal(t, app.RankedHostIDs, decoded.RankedHostIDs)
	assert.Empty(t, decoded.Reviews)
}

func TestEncodeUserDerivesIndexKeys(t *testing.T) {
	user := models.User{UserID: "u-1", Role: models.RoleHost, Email: "Ada@Example.ORG"}

	item, err := EncodeUser(user)
	require.NoError(t, err)

	assert.Equal(t, "USER#u-1", utils.ExtractString(item, AttrPK))
	assert.Equal(t, "PROFILE", utils.ExtractString(item, AttrSK))
	assert.Equal(t, "EMAIL#ada@example.org", utils.ExtractString(item, AttrGSI1PK))
	assert.Equal(t, "ROLE#host", utils.ExtractString(item, AttrGSI2PK))
}

func TestEncodeMatchDerivesIndexKeys(t *testing.T) {
	match := models.Match{
		MatchID:       "m-1",
		ApplicationID: "app-1",
		StudentID:     "stu-1",
		HostID:        "h1",
		Semester:      "Fall2025",
		Status:        models.MatchStatusConfirmed,
	}

	item, err := EncodeMatch(match)
	require.NoError(t, err)

	assert.Equal(t, "MATCH#m-1", utils.ExtractString(item, AttrPK))
	assert.Equal(t, "STUDENT#stu-1", utils.ExtractString(item, AttrGSI1PK))
	assert.Equal(t, "HOST#h1", utils.ExtractString(item, AttrGSI2PK))
}

// A legacy record with only key attributes must still decode to a usable
// entity with defaults in place.
func TestDecodeUserPartialRecord(t *testing.T) {
	item := Record{
		AttrPK:      stringAttr("USER#legacy-1"),
		AttrSK:      stringAttr("PROFILE"),
		AttrGSI2PK:  stringAttr("ROLE#host"),
		"firstName": stringAttr("Grace"),
		"lastName":  stringAttr("Hopper"),
	}

	user := DecodeUser(item)
	assert.Equal(t, "legacy-1", user.UserID)
	assert.Equal(t, models.RoleHost, user.Role)
	assert.Equal(t, "Grace Hopper", user.Name)
	assert.NotNil(t, user.CareerFields)
}

func TestDecodeApplicationDefaults(t *testing.T) {
	item := Record{
		AttrPK:     stringAttr("APPLICATION#legacy-2"),
		AttrSK:     stringAttr("METADATA"),
		AttrGSI1PK: stringAttr("STUDENT#stu-9"),
		AttrGSI2PK: stringAttr("SEMESTER#Fall2024"),
	}

	app := DecodeApplication(item)
	assert.Equal(t, "legacy-2", app.ApplicationID)
	assert.Equal(t, "stu-9", app.StudentID)
	assert.Equal(t, "Fall2024", app.Semester)
	assert.Equal(t, models.StatusSubmitted, app.Status)
	assert.NotNil(t, app.RankedHostIDs)
	assert.NotNil(t, app.Answers)
	assert.NotNil(t, app.Preferences)
	assert.NotNil(t, app.Reviews)
}

func TestReviewRecordKeyedByHost(t *testing.T) {
	review := models.Review{HostID: "h1", Decision: models.DecisionMaybe, Notes: "call back"}

	item, err := EncodeReview("app-1", review)
	require.NoError(t, err)
	assert.Equal(t, "APPLICATION#app-1", utils.ExtractString(item, AttrPK))
	assert.Equal(t, "REVIEW#h1", utils.ExtractString(item, AttrSK))

	// host id recoverable from the sort key alone
	delete(item, "hostId")
	decoded := DecodeReview(item)
	assert.Equal(t, "h1", decoded.HostID)
	assert.Equal(t, models.DecisionMaybe, decoded.Decision)
}
