package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gheetdufa/ifad-portal-sub001/models"
	"github.com/gheetdufa/ifad-portal-sub001/utils"
)

// MemoryStore simulates the DynamoDB-backed RecordStore in process. It keeps
// the exact same record shape, so the codec and access patterns behave
// identically; used by tests and local development (USE_MEMORY_STORE=1).
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Record)}
}

func memoryKey(pk, sk string) string {
	return pk + "|" + sk
}

func copyRecord(item Record) Record {
	out := make(Record, len(item))
	for name, attr := range item {
		out[name] = attr
	}
	return out
}

func (ms *MemoryStore) GetItem(_ context.Context, pk, sk string) (Record, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	item, ok := ms.items[memoryKey(pk, sk)]
	if !ok {
		return nil, nil
	}
	return copyRecord(item), nil
}

func (ms *MemoryStore) PutItem(_ context.Context, item Record) error {
	pk := utils.ExtractString(item, AttrPK)
	sk := utils.ExtractString(item, AttrSK)
	if pk == "" || sk == "" {
		return fmt.Errorf("record missing primary key: %w", models.ErrValidation)
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.items[memoryKey(pk, sk)] = copyRecord(item)
	return nil
}

// PutItemIfAbsent holds the lock across the existence check and the write,
// which is what makes it the in-process equivalent of a DynamoDB conditional
// put.
func (ms *MemoryStore) PutItemIfAbsent(_ context.Context, item Record) error {
	pk := utils.ExtractString(item, AttrPK)
	sk := utils.ExtractString(item, AttrSK)
	if pk == "" || sk == "" {
		return fmt.Errorf("record missing primary key: %w", models.ErrValidation)
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, exists := ms.items[memoryKey(pk, sk)]; exists {
		return models.ErrConditionFailed
	}
	ms.items[memoryKey(pk, sk)] = copyRecord(item)
	return nil
}

func (ms *MemoryStore) DeleteItem(_ context.Context, pk, sk string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.items, memoryKey(pk, sk))
	return nil
}

// sortEntry orders listings by (primary, secondary); what the pair holds
// depends on the operation (index sort key + PK for queries, PK + SK for
// scans).
type sortEntry struct {
	primary   string
	secondary string
	item      Record
}

func sortEntries(entries []sortEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].primary != entries[j].primary {
			return entries[i].primary < entries[j].primary
		}
		return entries[i].secondary < entries[j].secondary
	})
}

// entriesAfter drops every entry at or before the resume position. Assumes
// entries are already sorted.
func entriesAfter(entries []sortEntry, afterPrimary, afterSecondary string) []sortEntry {
	idx := sort.Search(len(entries), func(i int) bool {
		if entries[i].primary != afterPrimary {
			return entries[i].primary > afterPrimary
		}
		return entries[i].secondary > afterSecondary
	})
	return entries[idx:]
}

// pageOf applies the limit and mints a continuation token whose attribute
// names are supplied by the caller.
func pageOf(entries []sortEntry, limit int32, primaryAttr, secondaryAttr string) *QueryPage {
	page := &QueryPage{}
	if limit > 0 && int(limit) < len(entries) {
		last := entries[limit-1]
		page.NextToken = encodeStartKey(map[string]string{
			primaryAttr:   last.primary,
			secondaryAttr: last.secondary,
		})
		entries = entries[:limit]
	}
	for _, entry := range entries {
		page.Items = append(page.Items, entry.item)
	}
	return page
}

func (ms *MemoryStore) QueryByIndex(_ context.Context, indexName, indexKey string, opts QueryOptions) (*QueryPage, error) {
	pkAttr, skAttr, err := indexKeyAttrs(indexName)
	if err != nil {
		return nil, err
	}

	ms.mu.RLock()
	var entries []sortEntry
	for _, item := range ms.items {
		if utils.ExtractString(item, pkAttr) != indexKey {
			continue
		}
		sortKey := utils.ExtractString(item, skAttr)
		if opts.SortKeyPrefix != "" && !strings.HasPrefix(sortKey, opts.SortKeyPrefix) {
			continue
		}
		entries = append(entries, sortEntry{
			primary:   sortKey,
			secondary: utils.ExtractString(item, AttrPK),
			item:      copyRecord(item),
		})
	}
	ms.mu.RUnlock()

	sortEntries(entries)
	if opts.StartToken != "" {
		startKey, err := decodeStartKey(opts.StartToken)
		if err != nil {
			return nil, err
		}
		entries = entriesAfter(entries, startKey[skAttr], startKey[AttrPK])
	}
	return pageOf(entries, opts.Limit, skAttr, AttrPK), nil
}

func (ms *MemoryStore) QueryByPrefix(_ context.Context, pk, skPrefix string) ([]Record, error) {
	ms.mu.RLock()
	var entries []sortEntry
	for _, item := range ms.items {
		if utils.ExtractString(item, AttrPK) != pk {
			continue
		}
		sk := utils.ExtractString(item, AttrSK)
		if !strings.HasPrefix(sk, skPrefix) {
			continue
		}
		entries = append(entries, sortEntry{primary: sk, item: copyRecord(item)})
	}
	ms.mu.RUnlock()

	sortEntries(entries)
	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		records = append(records, entry.item)
	}
	return records, nil
}

func (ms *MemoryStore) ScanAll(_ context.Context, filter func(Record) bool, opts QueryOptions) (*QueryPage, error) {
	ms.mu.RLock()
	var entries []sortEntry
	for _, item := range ms.items {
		if filter != nil && !filter(item) {
			continue
		}
		entries = append(entries, sortEntry{
			primary:   utils.ExtractString(item, AttrPK),
			secondary: utils.ExtractString(item, AttrSK),
			item:      copyRecord(item),
		})
	}
	ms.mu.RUnlock()

	sortEntries(entries)
	if opts.StartToken != "" {
		startKey, err := decodeStartKey(opts.StartToken)
		if err != nil {
			return nil, err
		}
		entries = entriesAfter(entries, startKey[AttrPK], startKey[AttrSK])
	}
	return pageOf(entries, opts.Limit, AttrPK, AttrSK), nil
}

var (
	_ RecordStore = (*MemoryStore)(nil)
	_ RecordStore = (*DynamoStore)(nil)
)
