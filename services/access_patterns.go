package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gheetdufa/ifad-portal-sub001/models"
	"github.com/gheetdufa/ifad-portal-sub001/utils"
)

// Page carries listing pagination through the access layer.
type Page struct {
	Limit int32
	Token string
}

// AccessPatterns answers each role's view of the data with a fixed set of
// query templates, absorbing the record store's lack of query flexibility.
// Indexed queries that fail are retried once as an equivalent full scan
// before models.ErrStoreUnavailable surfaces.
type AccessPatterns struct {
	Store RecordStore
}

// queryWithFallback runs an index query and, on failure, one scan with an
// equivalent predicate. The fallback only applies to unpaginated reads: a
// continuation token is meaningless across backends.
func (ap *AccessPatterns) queryWithFallback(ctx context.Context, indexName, indexKey, sortKeyPrefix string, scanFilter func(Record) bool) ([]Record, error) {
	page, err := ap.Store.QueryByIndex(ctx, indexName, indexKey, QueryOptions{SortKeyPrefix: sortKeyPrefix})
	if err == nil {
		return page.Items, nil
	}
	log.Printf("Indexed query %s=%s failed, falling back to scan: %v", indexName, indexKey, err)

	scanPage, scanErr := ap.Store.ScanAll(ctx, scanFilter, QueryOptions{})
	if scanErr != nil {
		log.Printf("Fallback scan failed: %v", scanErr)
		return nil, fmt.Errorf("indexed query and fallback scan both failed: %w", models.ErrStoreUnavailable)
	}
	return scanPage.Items, nil
}

func indexEquals(pkAttr, want, skAttr, skPrefix string) func(Record) bool {
	return func(item Record) bool {
		if utils.ExtractString(item, pkAttr) != want {
			return false
		}
		return skPrefix == "" || strings.HasPrefix(utils.ExtractString(item, skAttr), skPrefix)
	}
}

// GetApplication fetches and decodes one application by id.
func (ap *AccessPatterns) GetApplication(ctx context.Context, applicationID string) (*models.Application, error) {
	item, err := ap.Store.GetItem(ctx, applicationKeyPrefix+applicationID, skMetadata)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("application %q: %w", applicationID, models.ErrNotFound)
	}
	app := DecodeApplication(item)
	return &app, nil
}

// GetUser fetches and decodes one user profile by id.
func (ap *AccessPatterns) GetUser(ctx context.Context, userID string) (*models.User, error) {
	item, err := ap.Store.GetItem(ctx, userKeyPrefix+userID, skProfile)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("user %q: %w", userID, models.ErrNotFound)
	}
	user := DecodeUser(item)
	return &user, nil
}

// ApplicationsForStudent lists a student's own applications. The sort-key
// prefix keeps match records, which share the student's index partition, out
// of the result.
func (ap *AccessPatterns) ApplicationsForStudent(ctx context.Context, studentID string) ([]models.Application, error) {
	items, err := ap.queryWithFallback(ctx, IndexGSI1, studentKeyPrefix+studentID, applicationKeyPrefix,
		indexEquals(AttrGSI1PK, studentKeyPrefix+studentID, AttrGSI1SK, applicationKeyPrefix))
	if err != nil {
		return nil, err
	}
	return decodeApplications(items), nil
}

// ApplicationsForSemester is the admin term-wide view.
func (ap *AccessPatterns) ApplicationsForSemester(ctx context.Context, semester string, page Page) ([]models.Application, string, error) {
	if page.Token != "" || page.Limit > 0 {
		result, err := ap.Store.QueryByIndex(ctx, IndexGSI2, semesterKeyPrefix+semester, QueryOptions{
			SortKeyPrefix: applicationKeyPrefix,
			Limit:         page.Limit,
			StartToken:    page.Token,
		})
		if err != nil {
			return nil, "", err
		}
		return decodeApplications(result.Items), result.NextToken, nil
	}
	items, err := ap.queryWithFallback(ctx, IndexGSI2, semesterKeyPrefix+semester, applicationKeyPrefix,
		indexEquals(AttrGSI2PK, semesterKeyPrefix+semester, AttrGSI2SK, applicationKeyPrefix))
	if err != nil {
		return nil, "", err
	}
	return decodeApplications(items), "", nil
}

// ApplicationsForHost lists applications naming the host in their ranked
// preferences. No index is keyed by list membership, so this is an explicit
// full-table scan with a contains predicate, O(table size) by design.
func (ap *AccessPatterns) ApplicationsForHost(ctx context.Context, hostID string) ([]models.Application, error) {
	result, err := ap.Store.ScanAll(ctx, func(item Record) bool {
		if !strings.HasPrefix(utils.ExtractString(item, AttrPK), applicationKeyPrefix) {
			return false
		}
		if utils.ExtractString(item, AttrSK) != skMetadata {
			return false
		}
		for _, id := range utils.ExtractStringList(item, "rankedHostIds") {
			if id == hostID {
				return true
			}
		}
		return false
	}, QueryOptions{})
	if err != nil {
		return nil, err
	}
	return decodeApplications(result.Items), nil
}

// AllApplications walks every application record, paginated.
func (ap *AccessPatterns) AllApplications(ctx context.Context, page Page) ([]models.Application, string, error) {
	result, err := ap.Store.ScanAll(ctx, func(item Record) bool {
		return strings.HasPrefix(utils.ExtractString(item, AttrPK), applicationKeyPrefix) &&
			utils.ExtractString(item, AttrSK) == skMetadata
	}, QueryOptions{Limit: page.Limit, StartToken: page.Token})
	if err != nil {
		return nil, "", err
	}
	return decodeApplications(result.Items), result.NextToken, nil
}

// ReviewsForApplication loads the per-host review records of one application.
func (ap *AccessPatterns) ReviewsForApplication(ctx context.Context, applicationID string) (map[string]models.Review, error) {
	items, err := ap.Store.QueryByPrefix(ctx, applicationKeyPrefix+applicationID, reviewKeyPrefix)
	if err != nil {
		return nil, err
	}
	reviews := make(map[string]models.Review, len(items))
	for _, item := range items {
		review := DecodeReview(item)
		reviews[review.HostID] = review
	}
	return reviews, nil
}

// UsersByRole lists users by the role index, paginated when requested.
func (ap *AccessPatterns) UsersByRole(ctx context.Context, role string, page Page) ([]models.User, string, error) {
	if page.Token != "" || page.Limit > 0 {
		result, err := ap.Store.QueryByIndex(ctx, IndexGSI2, roleKeyPrefix+role, QueryOptions{
			Limit:      page.Limit,
			StartToken: page.Token,
		})
		if err != nil {
			return nil, "", err
		}
		return decodeUsers(result.Items), result.NextToken, nil
	}
	items, err := ap.queryWithFallback(ctx, IndexGSI2, roleKeyPrefix+role, "",
		indexEquals(AttrGSI2PK, roleKeyPrefix+role, AttrGSI2SK, ""))
	if err != nil {
		return nil, "", err
	}
	return decodeUsers(items), "", nil
}

// MatchesForStudent lists a student's matches via the student index.
func (ap *AccessPatterns) MatchesForStudent(ctx context.Context, studentID string) ([]models.Match, error) {
	items, err := ap.queryWithFallback(ctx, IndexGSI1, studentKeyPrefix+studentID, matchKeyPrefix,
		indexEquals(AttrGSI1PK, studentKeyPrefix+studentID, AttrGSI1SK, matchKeyPrefix))
	if err != nil {
		return nil, err
	}
	return decodeMatches(items), nil
}

// MatchesForHost lists a host's matches via the host index.
func (ap *AccessPatterns) MatchesForHost(ctx context.Context, hostID string) ([]models.Match, error) {
	items, err := ap.queryWithFallback(ctx, IndexGSI2, hostKeyPrefix+hostID, matchKeyPrefix,
		indexEquals(AttrGSI2PK, hostKeyPrefix+hostID, AttrGSI2SK, matchKeyPrefix))
	if err != nil {
		return nil, err
	}
	return decodeMatches(items), nil
}

// AllMatches walks every match record, paginated.
func (ap *AccessPatterns) AllMatches(ctx context.Context, page Page) ([]models.Match, string, error) {
	result, err := ap.Store.ScanAll(ctx, func(item Record) bool {
		return strings.HasPrefix(utils.ExtractString(item, AttrPK), matchKeyPrefix) &&
			utils.ExtractString(item, AttrSK) == skMetadata
	}, QueryOptions{Limit: page.Limit, StartToken: page.Token})
	if err != nil {
		return nil, "", err
	}
	return decodeMatches(result.Items), result.NextToken, nil
}

func decodeApplications(items []Record) []models.Application {
	apps := make([]models.Application, 0, len(items))
	for _, item := range items {
		apps = append(apps, DecodeApplication(item))
	}
	return apps
}

func decodeUsers(items []Record) []models.User {
	users := make([]models.User, 0, len(items))
	for _, item := range items {
		users = append(users, DecodeUser(item))
	}
	return users
}

func decodeMatches(items []Record) []models.Match {
	matches := make([]models.Match, 0, len(items))
	for _, item := range items {
		matches = append(matches, DecodeMatch(item))
	}
	return matches
}
