package record

import (
	"context"
	"testing"
	"time"

	"github.com/naga-cloud/mediadex/internal/db"
	domrec "github.com/naga-cloud/mediadex/internal/domain/record"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetNXFn    func(ctx context.Context, key, path string, data []byte) (bool, error)
	delFn          func(ctx context.Context, key string) error
	incrByFn       func(ctx context.Context, key string, val int64) (int64, error)
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	searchFn       func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	searchCountFn  func(ctx context.Context, index, query string) (int, error)
	aggGroupFn     func(ctx context.Context, index, query, groupBy string) (map[string]int, error)
}

func (m *mockStore) JSONSetNX(ctx context.Context, key, path string, data []byte) (bool, error) {
	if m.jsonSetNXFn != nil {
		return m.jsonSetNXFn(ctx, key, path, data)
	}
	return true, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) IncrBy(ctx context.Context, key string, val int64) (int64, error) {
	if m.incrByFn != nil {
		return m.incrByFn(ctx, key, val)
	}
	return 1, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index, query string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index, query)
	}
	return 0, nil
}

func (m *mockStore) AggregateGroupCount(
	ctx context.Context, index, query, groupBy string,
) (map[string]int, error) {
	if m.aggGroupFn != nil {
		return m.aggGroupFn(ctx, index, query, groupBy)
	}
	return map[string]int{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "mediadex:", false, 0)
	return repo, ms
}

func testRecord(t *testing.T) domrec.Record {
	t.Helper()
	return domrec.Record{
		FileID:       "file-abc",
		UniqueID:     "uniq-1",
		FileName:     "lecture_01.mp4",
		FileSize:     1536,
		Kind:         domrec.KindVideo,
		MIMEType:     "video/mp4",
		ChannelID:    -1001234567890,
		ChannelTitle: "Lectures",
		MessageID:    42,
		Date:         time.Unix(1700000000, 0).UTC(),
		IndexedAt:    time.Unix(1700000100, 0).UTC(),
	}
}
