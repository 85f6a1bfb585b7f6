package search

import (
	"context"
	"errors"
	"testing"
	"time"

	domrec "github.com/naga-cloud/mediadex/internal/domain/record"
)

type mockRepo struct {
	searchFn func(ctx context.Context, terms string, kind domrec.Kind, hasKind bool, limit int) (
		[]domrec.Record, error,
	)
	calls int
}

func (m *mockRepo) Search(
	ctx context.Context, terms string, kind domrec.Kind, hasKind bool, limit int,
) ([]domrec.Record, error) {
	m.calls++
	if m.searchFn != nil {
		return m.searchFn(ctx, terms, kind, hasKind, limit)
	}
	return nil, nil
}

type mockLimiter struct {
	admit bool
	reset time.Duration
}

func (m *mockLimiter) Admit(_ int64) bool { return m.admit }

func (m *mockLimiter) TimeUntilReset(_ int64) (time.Duration, bool) {
	return m.reset, m.reset > 0
}

type mockTracker struct {
	banned  map[int64]bool
	tracked []int64
}

func (m *mockTracker) IsBanned(id int64) bool { return m.banned[id] }
func (m *mockTracker) TrackQuery(id int64)    { m.tracked = append(m.tracked, id) }

type mockMembership struct {
	member bool
	err    error
	calls  int
}

func (m *mockMembership) IsMember(_ context.Context, _, _ int64) (bool, error) {
	m.calls++
	return m.member, m.err
}

func testConfig() Config {
	return Config{
		MaxResults:   10,
		CacheEmpty:   5 * time.Second,
		CacheDefault: 300 * time.Second,
		CacheBrowse:  600 * time.Second,
	}
}

func testRecords(n int) []domrec.Record {
	records := make([]domrec.Record, n)
	for i := range records {
		records[i] = domrec.Record{
			FileName:  "clip.mp4",
			FileSize:  1024,
			Kind:      domrec.KindVideo,
			ChannelID: -1001234567890,
			MessageID: int64(i + 1),
		}
	}
	return records
}

func TestHandle_Served(t *testing.T) {
	repo := &mockRepo{
		searchFn: func(_ context.Context, terms string, kind domrec.Kind, hasKind bool, limit int) (
			[]domrec.Record, error,
		) {
			if terms != "golang" || kind != domrec.KindVideo || !hasKind {
				t.Errorf("unexpected parsed query: %q %q %v", terms, kind, hasKind)
			}
			if limit != 10 {
				t.Errorf("unexpected limit: %d", limit)
			}
			return testRecords(2), nil
		},
	}
	tracker := &mockTracker{}
	svc := New(repo, &mockLimiter{admit: true}, tracker, nil, testConfig(), nil)

	resp := svc.Handle(context.Background(), Request{CallerID: 1, Text: "golang | video"})
	if resp.Status != StatusServed {
		t.Fatalf("status = %s, want %s", resp.Status, StatusServed)
	}
	if len(resp.Entries) != 2 || resp.Total != 2 {
		t.Errorf("unexpected entries: %d total %d", len(resp.Entries), resp.Total)
	}
	if resp.CacheTTL != 300*time.Second {
		t.Errorf("expected default cache window, got %v", resp.CacheTTL)
	}
	if len(tracker.tracked) != 1 || tracker.tracked[0] != 1 {
		t.Errorf("served query must be tracked exactly once: %v", tracker.tracked)
	}
}

func TestHandle_Banned(t *testing.T) {
	repo := &mockRepo{}
	tracker := &mockTracker{banned: map[int64]bool{1: true}}
	svc := New(repo, &mockLimiter{admit: true}, tracker, nil, testConfig(), nil)

	resp := svc.Handle(context.Background(), Request{CallerID: 1, Text: "x"})
	if resp.Status != StatusBanned {
		t.Fatalf("status = %s, want %s", resp.Status, StatusBanned)
	}
	if repo.calls != 0 {
		t.Error("banned caller must not reach the store")
	}
	if len(tracker.tracked) != 0 {
		t.Error("rejected query must not be tracked")
	}
}

func TestHandle_Unauthorized(t *testing.T) {
	repo := &mockRepo{}
	cfg := testConfig()
	cfg.AuthUsers = []int64{100, 200}
	svc := New(repo, nil, nil, nil, cfg, nil)

	resp := svc.Handle(context.Background(), Request{CallerID: 1, Text: "x"})
	if resp.Status != StatusUnauthorized {
		t.Fatalf("status = %s, want %s", resp.Status, StatusUnauthorized)
	}
	if repo.calls != 0 {
		t.Error("unauthorized caller must not reach the store")
	}

	resp = svc.Handle(context.Background(), Request{CallerID: 200, Text: "x"})
	if resp.Status != StatusServed {
		t.Fatalf("listed caller must be served, got %s", resp.Status)
	}
}

func TestHandle_EmptyAllowListIsOpen(t *testing.T) {
	svc := New(&mockRepo{}, nil, nil, nil, testConfig(), nil)

	resp := svc.Handle(context.Background(), Request{CallerID: 999, Text: "x"})
	if resp.Status != StatusServed {
		t.Fatalf("open access expected, got %s", resp.Status)
	}
}

func TestHandle_Membership(t *testing.T) {
	cfg := testConfig()
	cfg.AuthChannel = -100555

	t.Run("not a member", func(t *testing.T) {
		repo := &mockRepo{}
		mem := &mockMembership{member: false}
		svc := New(repo, nil, nil, mem, cfg, nil)

		resp := svc.Handle(context.Background(), Request{CallerID: 1, Text: "x"})
		if resp.Status != StatusNotMember {
			t.Fatalf("status = %s, want %s", resp.Status, StatusNotMember)
		}
		if repo.calls != 0 {
			t.Error("non-member must not reach the store")
		}
	})

	t.Run("member", func(t *testing.T) {
		mem := &mockMembership{member: true}
		svc := New(&mockRepo{}, nil, nil, mem, cfg, nil)

		resp := svc.Handle(context.Background(), Request{CallerID: 1, Text: "x"})
		if resp.Status != StatusServed {
			t.Fatalf("status = %s, want %s", resp.Status, StatusServed)
		}
		if mem.calls != 1 {
			t.Errorf("expected one membership check, got %d", mem.calls)
		}
	})

	t.Run("checker failure fails open", func(t *testing.T) {
		mem := &mockMembership{err: errors.New("gateway timeout")}
		svc := New(&mockRepo{}, nil, nil, mem, cfg, nil)

		resp := svc.Handle(context.Background(), Request{CallerID: 1, Text: "x"})
		if resp.Status != StatusServed {
			t.Fatalf("checker error must fail open, got %s", resp.Status)
		}
	})

	t.Run("no channel configured skips check", func(t *testing.T) {
		mem := &mockMembership{member: false}
		svc := New(&mockRepo{}, nil, nil, mem, testConfig(), nil)

		resp := svc.Handle(context.Background(), Request{CallerID: 1, Text: "x"})
		if resp.Status != StatusServed {
			t.Fatalf("status = %s, want %s", resp.Status, StatusServed)
		}
		if mem.calls != 0 {
			t.Error("checker must not be called without a configured channel")
		}
	})
}

func TestHandle_RateLimited(t *testing.T) {
	repo := &mockRepo{}
	tracker := &mockTracker{}
	limiter := &mockLimiter{admit: false, reset: 42 * time.Second}
	svc := New(repo, limiter, tracker, nil, testConfig(), nil)

	resp := svc.Handle(context.Background(), Request{CallerID: 1, Text: "x"})
	if resp.Status != StatusRateLimited {
		t.Fatalf("status = %s, want %s", resp.Status, StatusRateLimited)
	}
	if resp.RetryAfter != 42*time.Second {
		t.Errorf("expected retry-after from limiter, got %v", resp.RetryAfter)
	}
	if repo.calls != 0 {
		t.Error("rate-limited caller must not reach the store")
	}
	if len(tracker.tracked) != 0 {
		t.Error("rejected query must not be tracked")
	}
}

func TestHandle_BackendFailureDegrades(t *testing.T) {
	repo := &mockRepo{
		searchFn: func(_ context.Context, _ string, _ domrec.Kind, _ bool, _ int) (
			[]domrec.Record, error,
		) {
			return nil, errors.New("connection refused")
		},
	}
	tracker := &mockTracker{}
	svc := New(repo, nil, tracker, nil, testConfig(), nil)

	resp := svc.Handle(context.Background(), Request{CallerID: 1, Text: "x"})
	if resp.Status != StatusServed {
		t.Fatalf("backend failure must still serve, got %s", resp.Status)
	}
	if !resp.Degraded {
		t.Error("degraded flag not set")
	}
	if len(resp.Entries) != 0 {
		t.Errorf("expected empty entries, got %d", len(resp.Entries))
	}
	if resp.CacheTTL != 5*time.Second {
		t.Errorf("degraded response must use the short cache window, got %v", resp.CacheTTL)
	}
	if len(tracker.tracked) != 1 {
		t.Errorf("degraded serve still counts once: %v", tracker.tracked)
	}
}

func TestHandle_CacheWindows(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		records int
		want    time.Duration
	}{
		{"zero results cached briefly", "nothing", 0, 5 * time.Second},
		{"text query default window", "golang", 3, 300 * time.Second},
		{"browse cached longer", "", 3, 600 * time.Second},
		{"kind filter default window", "clip | video", 3, 300 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{
				searchFn: func(_ context.Context, _ string, _ domrec.Kind, _ bool, _ int) (
					[]domrec.Record, error,
				) {
					return testRecords(tt.records), nil
				},
			}
			svc := New(repo, nil, nil, nil, testConfig(), nil)

			resp := svc.Handle(context.Background(), Request{CallerID: 1, Text: tt.text})
			if resp.CacheTTL != tt.want {
				t.Errorf("cache ttl = %v, want %v", resp.CacheTTL, tt.want)
			}
		})
	}
}

func TestHandle_ShortCircuitOrder(t *testing.T) {
	// A banned caller that is also unauthorized and rate limited must be
	// reported as banned: the ban check runs first.
	cfg := testConfig()
	cfg.AuthUsers = []int64{999}
	tracker := &mockTracker{banned: map[int64]bool{1: true}}
	svc := New(&mockRepo{}, &mockLimiter{admit: false}, tracker, nil, cfg, nil)

	resp := svc.Handle(context.Background(), Request{CallerID: 1, Text: "x"})
	if resp.Status != StatusBanned {
		t.Fatalf("status = %s, want %s", resp.Status, StatusBanned)
	}
}
