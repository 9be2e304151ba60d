package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/gheetdufa/ifad-portal-sub001/models"
	"github.com/gheetdufa/ifad-portal-sub001/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Key prefixes of the single-table layout. Index keys are always derived from
// entity state, never stored independently.
const (
	userKeyPrefix        = "USER#"
	applicationKeyPrefix = "APPLICATION#"
	matchKeyPrefix       = "MATCH#"
	reviewKeyPrefix      = "REVIEW#"
	slotKeyPrefix        = "APPSLOT#"

	emailKeyPrefix    = "EMAIL#"
	roleKeyPrefix     = "ROLE#"
	studentKeyPrefix  = "STUDENT#"
	semesterKeyPrefix = "SEMESTER#"
	hostKeyPrefix     = "HOST#"

	skProfile  = "PROFILE"
	skMetadata = "METADATA"
	skClaim    = "CLAIM"
)

func stringAttr(value string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: value}
}

// EncodeUser maps a user to its record. Index A keys by email, index B by
// role for role-scoped scans.
func EncodeUser(user models.User) (Record, error) {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}
	item[AttrPK] = stringAttr(userKeyPrefix + user.UserID)
	item[AttrSK] = stringAttr(skProfile)
	item[AttrGSI1PK] = stringAttr(emailKeyPrefix + strings.ToLower(user.Email))
	item[AttrGSI1SK] = stringAttr(userKeyPrefix + user.UserID)
	item[AttrGSI2PK] = stringAttr(roleKeyPrefix + user.Role)
	item[AttrGSI2SK] = stringAttr(userKeyPrefix + user.UserID)
	return item, nil
}

// DecodeUser is best-effort: a partially populated or legacy record yields a
// usable user with display defaults rather than an error.
func DecodeUser(item Record) models.User {
	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		log.Printf("Decoding user record failed, keeping defaults: %v", err)
	}
	if user.UserID == "" {
		user.UserID = strings.TrimPrefix(utils.ExtractString(item, AttrPK), userKeyPrefix)
	}
	if user.Role == "" {
		user.Role = strings.TrimPrefix(utils.ExtractString(item, AttrGSI2PK), roleKeyPrefix)
	}
	if user.Name == "" {
		user.Name = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	if user.CareerFields == nil {
		user.CareerFields = []string{}
	}
	return user
}

// EncodeApplication maps an application to its record. Index A keys by
// student, index B by semester. The reviews map is excluded; reviews live in
// their own records.
func EncodeApplication(app models.Application) (Record, error) {
	item, err := attributevalue.MarshalMap(app)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal application: %w", err)
	}
	item[AttrPK] = stringAttr(applicationKeyPrefix + app.ApplicationID)
	item[AttrSK] = stringAttr(skMetadata)
	item[AttrGSI1PK] = stringAttr(studentKeyPrefix + app.StudentID)
	item[AttrGSI1SK] = stringAttr(applicationKeyPrefix + app.ApplicationID)
	item[AttrGSI2PK] = stringAttr(semesterKeyPrefix + app.Semester)
	item[AttrGSI2SK] = stringAttr(applicationKeyPrefix + app.ApplicationID)
	return item, nil
}

func DecodeApplication(item Record) models.Application {
	var app models.Application
	if err := attributevalue.UnmarshalMap(item, &app); err != nil {
		log.Printf("Decoding application record failed, keeping defaults: %v", err)
	}
	if app.ApplicationID == "" {
		app.ApplicationID = strings.TrimPrefix(utils.ExtractString(item, AttrPK), applicationKeyPrefix)
	}
	if app.StudentID == "" {
		app.StudentID = strings.TrimPrefix(utils.ExtractString(item, AttrGSI1PK), studentKeyPrefix)
	}
	if app.Semester == "" {
		app.Semester = strings.TrimPrefix(utils.ExtractString(item, AttrGSI2PK), semesterKeyPrefix)
	}
	if app.Status == "" {
		app.Status = models.StatusSubmitted
	}
	if app.RankedHostIDs == nil {
		app.RankedHostIDs = []string{}
	}
	if app.Answers == nil {
		app.Answers = map[string]string{}
	}
	if app.Preferences == nil {
		app.Preferences = map[string]string{}
	}
	if app.Reviews == nil {
		app.Reviews = map[string]models.Review{}
	}
	return app
}

// EncodeReview keys a review under its application's partition with a
// per-host sort key, so each host writes only its own record.
func EncodeReview(applicationID string, review models.Review) (Record, error) {
	item, err := attributevalue.MarshalMap(review)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review: %w", err)
	}
	item[AttrPK] = stringAttr(applicationKeyPrefix + applicationID)
	item[AttrSK] = stringAttr(reviewKeyPrefix + review.HostID)
	return item, nil
}

func DecodeReview(item Record) models.Review {
	var review models.Review
	if err := attributevalue.UnmarshalMap(item, &review); err != nil {
		log.Printf("Decoding review record failed, keeping defaults: %v", err)
	}
	if review.HostID == "" {
		review.HostID = strings.TrimPrefix(utils.ExtractString(item, AttrSK), reviewKeyPrefix)
	}
	return review
}

// EncodeMatch maps a match to its record. Index A keys by student, index B by
// host.
func EncodeMatch(match models.Match) (Record, error) {
	item, err := attributevalue.MarshalMap(match)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal match: %w", err)
	}
	item[AttrPK] = stringAttr(matchKeyPrefix + match.MatchID)
	item[AttrSK] = stringAttr(skMetadata)
	item[AttrGSI1PK] = stringAttr(studentKeyPrefix + match.StudentID)
	item[AttrGSI1SK] = stringAttr(matchKeyPrefix + match.MatchID)
	item[AttrGSI2PK] = stringAttr(hostKeyPrefix + match.HostID)
	item[AttrGSI2SK] = stringAttr(matchKeyPrefix + match.MatchID)
	return item, nil
}

func DecodeMatch(item Record) models.Match {
	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		log.Printf("Decoding match record failed, keeping defaults: %v", err)
	}
	if match.MatchID == "" {
		match.MatchID = strings.TrimPrefix(utils.ExtractString(item, AttrPK), matchKeyPrefix)
	}
	if match.Status == "" {
		match.Status = models.MatchStatusConfirmed
	}
	return match
}

// applicationSlotKey is the uniqueness claim for one (student, semester)
// pair. Submissions take the slot with a conditional put; withdrawal releases
// it.
func applicationSlotKey(studentID, semester string) string {
	return slotKeyPrefix + studentID + "#" + semester
}

func applicationSlotRecord(studentID, semester, applicationID, claimedAt string) Record {
	return Record{
		AttrPK:          stringAttr(applicationSlotKey(studentID, semester)),
		AttrSK:          stringAttr(skClaim),
		"applicationId": stringAttr(applicationID),
		"studentId":     stringAttr(studentID),
		"semester":      stringAttr(semester),
		"claimedAt":     stringAttr(claimedAt),
	}
}
