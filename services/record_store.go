package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/gheetdufa/ifad-portal-sub001/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Record is the flat key/attribute shape every entity is persisted as: a
// composite primary key (PK, SK), up to two secondary index key pairs, and
// entity attributes.
type Record = map[string]types.AttributeValue

// Key attribute names shared by every record.
const (
	AttrPK     = "PK"
	AttrSK     = "SK"
	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
	AttrGSI2PK = "GSI2PK"
	AttrGSI2SK = "GSI2SK"
)

// Secondary index names.
const (
	IndexGSI1 = "GSI1"
	IndexGSI2 = "GSI2"
)

// QueryOptions narrows and pages an index query or scan.
type QueryOptions struct {
	// SortKeyPrefix restricts results to records whose index sort key
	// begins with the prefix.
	SortKeyPrefix string
	// Limit caps the page size; zero means backend default.
	Limit int32
	// StartToken resumes a prior listing. Callers echo the token back
	// unmodified; its contents are opaque.
	StartToken string
}

// QueryPage is one page of query or scan results, ascending by the queried
// index's sort key.
type QueryPage struct {
	Items     []Record
	NextToken string
}

// RecordStore is the generic keyed store behind every entity. No transactions
// and no cross-key atomicity: concurrent puts to the same key are
// last-write-wins, except PutItemIfAbsent which is conditional on primary-key
// absence. Backend failures surface as models.ErrStoreUnavailable.
type RecordStore interface {
	// GetItem returns the record at (pk, sk), or nil when absent.
	GetItem(ctx context.Context, pk, sk string) (Record, error)
	// PutItem upserts the record, replacing it entirely.
	PutItem(ctx context.Context, item Record) error
	// PutItemIfAbsent writes the record only if no record exists at its
	// primary key, failing with models.ErrConditionFailed otherwise.
	PutItemIfAbsent(ctx context.Context, item Record) error
	DeleteItem(ctx context.Context, pk, sk string) error
	// QueryByIndex returns records whose index partition key equals
	// indexKey, ascending by the index sort key.
	QueryByIndex(ctx context.Context, indexName, indexKey string, opts QueryOptions) (*QueryPage, error)
	// QueryByPrefix returns records under one partition key whose sort key
	// begins with skPrefix, ascending by sort key.
	QueryByPrefix(ctx context.Context, pk, skPrefix string) ([]Record, error)
	// ScanAll walks the whole table, keeping records the filter accepts.
	// The fallback path when no index matches the query shape.
	ScanAll(ctx context.Context, filter func(Record) bool, opts QueryOptions) (*QueryPage, error)
}

// indexKeyAttrs maps an index name to its partition and sort key attributes.
func indexKeyAttrs(indexName string) (pkAttr, skAttr string, err error) {
	switch indexName {
	case IndexGSI1:
		return AttrGSI1PK, AttrGSI1SK, nil
	case IndexGSI2:
		return AttrGSI2PK, AttrGSI2SK, nil
	default:
		return "", "", fmt.Errorf("unknown index %q: %w", indexName, models.ErrValidation)
	}
}

// encodeStartKey turns a last-evaluated key into an opaque continuation token.
func encodeStartKey(key map[string]string) string {
	if len(key) == 0 {
		return ""
	}
	b, err := json.Marshal(key)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeStartKey parses a continuation token previously produced by
// encodeStartKey.
func decodeStartKey(token string) (map[string]string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed continuation token: %w", models.ErrValidation)
	}
	var key map[string]string
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("malformed continuation token: %w", models.ErrValidation)
	}
	return key, nil
}
