// Package record implements the persistent record index: a RedisJSON
// collection with an FT index over display name, caption, kind, locator and
// origin, plus the insertion-sequence counter used to order text results.
package record

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/naga-cloud/mediadex/internal/db"
	"github.com/naga-cloud/mediadex/internal/domain"
	domrec "github.com/naga-cloud/mediadex/internal/domain/record"
)

// store is the consumer interface for record persistence (ISP).
type store interface {
	JSONSetNX(ctx context.Context, key, path string, data []byte) (bool, error)
	Del(ctx context.Context, key string) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	AggregateGroupCount(ctx context.Context, index, query, groupBy string) (map[string]int, error)
}

// Repo is the Document Store: upsert-with-dedup, filtered search and
// aggregate stats over canonical records.
type Repo struct {
	store         store
	prefix        string
	captionSearch bool
	timeout       time.Duration
}

// New creates a record repository. captionSearch is fixed at construction:
// when set, free-text queries match captions as well as display names.
// timeout bounds every backend call; zero disables the bound.
func New(s store, prefix string, captionSearch bool, timeout time.Duration) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix, captionSearch: captionSearch, timeout: timeout}
}

// EnsureIndex creates the FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	def, err := db.NewIndex(r.indexName()).
		OnJSON().
		WithPrefix(r.keyPrefix()).
		TextField("$.file_name", "file_name").
		TextField("$.caption", "caption").
		TagField("$.file_type", "file_type").
		TagField("$.file_id", "file_id").
		TagField("$.channel_id", "channel_id").
		NumericField("$.seq", "seq").Sortable().
		NumericField("$.indexed_at", "indexed_at").Sortable().
		Build()
	if err != nil {
		return fmt.Errorf("build record index: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create record index: %w", err)
	}
	return nil
}

// Upsert inserts a record if its dedup key is new. Returns false for an
// already-stored key; the duplicate outcome is not an error. The JSON.SET NX
// constraint makes exactly one concurrent insert win.
func (r *Repo) Upsert(ctx context.Context, rec *domrec.Record) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	seq, err := r.store.IncrBy(ctx, r.seqKey(), 1)
	if err != nil {
		return false, fmt.Errorf("next seq: %w", err)
	}
	rec.Seq = seq

	data, err := marshalRecord(rec)
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	created, err := r.store.JSONSetNX(ctx, r.recordKey(rec.UniqueID), "$", data)
	if err != nil {
		return false, fmt.Errorf("json.set %s: %w", rec.UniqueID, err)
	}
	return created, nil
}

// Search returns records matching terms and the optional kind filter.
// Ordering: browse (no terms, no kind) is most-recently-indexed first;
// everything else is ascending insertion order.
func (r *Repo) Search(
	ctx context.Context, terms string, kind domrec.Kind, hasKind bool, limit int,
) ([]domrec.Record, error) {
	if limit <= 0 {
		return nil, nil
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := &db.SearchQuery{
		IndexName:    r.indexName(),
		Query:        r.buildQuery(terms, kind, hasKind),
		Limit:        limit,
		ReturnFields: []string{"$"},
	}

	if strings.TrimSpace(terms) == "" && !hasKind {
		q.SortBy, q.SortOrder = "indexed_at", db.SortDesc
	} else {
		q.SortBy, q.SortOrder = "seq", db.SortAsc
	}

	result, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}

	records := make([]domrec.Record, 0, len(result.Entries))
	for _, entry := range result.Entries {
		raw, ok := entry.Fields["$"]
		if !ok {
			continue
		}
		rec, err := unmarshalRecord([]byte(raw))
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// DeleteByLocator removes the record whose transport reference equals
// locator. Returns false when no such record exists.
func (r *Repo) DeleteByLocator(ctx context.Context, locator string) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result, err := r.store.Search(ctx, &db.SearchQuery{
		IndexName: r.indexName(),
		Query:     fmt.Sprintf("@file_id:{%s}", escapeTag(locator)),
		Limit:     1,
	})
	if err != nil {
		return false, fmt.Errorf("lookup locator: %w", err)
	}
	if len(result.Entries) == 0 {
		return false, nil
	}

	if err := r.store.Del(ctx, result.Entries[0].Key); err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return true, nil
}

// CountAll returns the number of stored records.
func (r *Repo) CountAll(ctx context.Context) (int, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	n, err := r.store.SearchCount(ctx, r.indexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// CountByKind returns per-kind record counts.
func (r *Repo) CountByKind(ctx context.Context) (map[string]int, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	groups, err := r.store.AggregateGroupCount(ctx, r.indexName(), "*", "file_type")
	if err != nil {
		return nil, fmt.Errorf("count by kind: %w", err)
	}
	return groups, nil
}

// CountByOrigin returns per-origin-channel record counts, keyed by the
// channel id in decimal form.
func (r *Repo) CountByOrigin(ctx context.Context) (map[string]int, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	groups, err := r.store.AggregateGroupCount(ctx, r.indexName(), "*", "channel_id")
	if err != nil {
		return nil, fmt.Errorf("count by origin: %w", err)
	}
	return groups, nil
}

// buildQuery translates terms + kind filter into an FT query string.
// Free text becomes per-token infix wildcards so partial filenames match;
// the kind filter is AND'd as a tag condition.
func (r *Repo) buildQuery(terms string, kind domrec.Kind, hasKind bool) string {
	tokens := strings.Fields(terms)

	var textPart string
	if len(tokens) > 0 {
		wildcards := make([]string, len(tokens))
		for i, tok := range tokens {
			wildcards[i] = fmt.Sprintf("w'*%s*'", escapeWildcard(tok))
		}
		joined := strings.Join(wildcards, " ")

		if r.captionSearch {
			textPart = fmt.Sprintf("(@file_name:(%s) | @caption:(%s))", joined, joined)
		} else {
			textPart = fmt.Sprintf("@file_name:(%s)", joined)
		}
	}

	var kindPart string
	if hasKind {
		kindPart = fmt.Sprintf("@file_type:{%s}", kind)
	}

	switch {
	case textPart != "" && kindPart != "":
		return textPart + " " + kindPart
	case textPart != "":
		return textPart
	case kindPart != "":
		return kindPart
	default:
		return "*"
	}
}

func (r *Repo) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *Repo) keyPrefix() string { return r.prefix + "record:" }
func (r *Repo) indexName() string { return r.prefix + "record:idx" }
func (r *Repo) seqKey() string    { return r.prefix + "record:seq" }

func (r *Repo) recordKey(uniqueID string) string {
	return r.keyPrefix() + uniqueID
}

// escapeWildcard makes a token safe inside a w'...' wildcard literal.
var wildcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`*`, ``,
	`?`, ``,
)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}

// escapeTag makes a value safe inside a {...} tag condition.
var tagEscaper = strings.NewReplacer(
	",", "\\,", ".", "\\.", "<", "\\<", ">", "\\>",
	"{", "\\{", "}", "\\}", "\"", "\\\"", "'", "\\'",
	":", "\\:", ";", "\\;", "!", "\\!", "@", "\\@",
	"#", "\\#", "$", "\\$", "%", "\\%", "^", "\\^",
	"&", "\\&", "*", "\\*", "(", "\\(", ")", "\\)",
	"-", "\\-", "+", "\\+", "=", "\\=", "~", "\\~",
	" ", "\\ ",
)

func escapeTag(s string) string {
	return tagEscaper.Replace(s)
}
