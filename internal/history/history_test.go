package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/attack"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/config"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testRecord(offset time.Duration, cracked bool, attempts int) Record {
	r := Record{
		ID:            uuid.NewString(),
		StartedAt:     baseTime.Add(offset),
		Source:        SourceCLI,
		Mode:          "dictionary",
		Encoding:      "plain",
		TargetMask:    "a****",
		Ceiling:       100,
		Cracked:       cracked,
		Attempts:      attempts,
		ElapsedMillis: 12,
	}
	if cracked {
		r.MatchMask = "a****"
	}
	return r
}

// storeFactories lists the backends exercised without external services.
func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(t.Context(), filepath.Join(t.TempDir(), "history.db"))
			if err != nil {
				t.Fatalf("NewSQLiteStore() error = %v", err)
			}
			return s
		},
	}
}

func TestStore_AddList(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			oldest := testRecord(0, false, 100)
			middle := testRecord(time.Minute, true, 7)
			newest := testRecord(2*time.Minute, false, 30)
			newest.Cancelled = true
			for _, r := range []Record{middle, oldest, newest} {
				if err := s.Add(ctx, r); err != nil {
					t.Fatalf("Add() error = %v", err)
				}
			}

			all, err := s.List(ctx, 0)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("List() returned %d records, want 3", len(all))
			}
			wantOrder := []string{newest.ID, middle.ID, oldest.ID}
			for i, id := range wantOrder {
				if all[i].ID != id {
					t.Errorf("List()[%d].ID = %s, want %s", i, all[i].ID, id)
				}
			}

			got := all[1]
			if !got.StartedAt.Equal(middle.StartedAt) {
				t.Errorf("StartedAt = %v, want %v", got.StartedAt, middle.StartedAt)
			}
			if !got.Cracked || got.MatchMask != "a****" || got.Attempts != 7 {
				t.Errorf("round trip mismatch: %+v", got)
			}
			if !all[0].Cancelled {
				t.Error("Cancelled flag lost")
			}

			limited, err := s.List(ctx, 2)
			if err != nil {
				t.Fatalf("List(2) error = %v", err)
			}
			if len(limited) != 2 || limited[0].ID != newest.ID {
				t.Errorf("List(2) = %d records, first %v", len(limited), limited)
			}
		})
	}
}

func TestStore_AddRejectsInvalid(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()

			bad := testRecord(0, false, 1)
			bad.ID = "not-a-uuid"
			if err := s.Add(context.Background(), bad); err == nil {
				t.Error("Add() accepted a record without a valid ID")
			}
		})
	}
}

func TestStore_AddDuplicate(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()

			r := testRecord(0, false, 1)
			if err := s.Add(context.Background(), r); err != nil {
				t.Fatalf("Add() error = %v", err)
			}
			if err := s.Add(context.Background(), r); err == nil {
				t.Error("Add() accepted a duplicate ID")
			}
		})
	}
}

func TestStore_SummaryAndClear(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			empty, err := s.Summary(ctx)
			if err != nil {
				t.Fatalf("Summary() error = %v", err)
			}
			if empty != (Summary{}) {
				t.Errorf("empty Summary() = %+v", empty)
			}

			cancelled := testRecord(3*time.Second, false, 5)
			cancelled.Cancelled = true
			records := []Record{
				testRecord(0, true, 10),
				testRecord(time.Second, false, 100),
				testRecord(2*time.Second, false, 100),
				cancelled,
			}
			for _, r := range records {
				if err := s.Add(ctx, r); err != nil {
					t.Fatalf("Add() error = %v", err)
				}
			}

			sum, err := s.Summary(ctx)
			if err != nil {
				t.Fatalf("Summary() error = %v", err)
			}
			want := Summary{Runs: 4, Cracked: 1, Exhausted: 2, Cancelled: 1, TotalAttempts: 215, CrackRate: 0.25}
			if sum != want {
				t.Errorf("Summary() = %+v, want %+v", sum, want)
			}

			n, err := s.Clear(ctx)
			if err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			if n != 4 {
				t.Errorf("Clear() = %d, want 4", n)
			}
			left, _ := s.List(ctx, 0)
			if len(left) != 0 {
				t.Errorf("List() after Clear() returned %d records", len(left))
			}
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	r := testRecord(0, true, 3)
	if err := s.Add(ctx, r); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	records, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != r.ID {
		t.Errorf("records after reopen = %+v", records)
	}
}

func TestNewRecord(t *testing.T) {
	cfg := attack.Config{
		Mode:     attack.BruteForce,
		Encoding: attack.Hashed,
		Target:   "c21",
		Ceiling:  5000,
	}
	res := attack.Result{Cracked: true, Match: "ab", Attempts: 145, Elapsed: 1500 * time.Millisecond}
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("EAT", 3*3600))

	id := uuid.NewString()
	r := NewRecord(id, SourceHTTP, cfg, res, nil, started)

	if r.ID != id {
		t.Errorf("ID = %q, want %q", r.ID, id)
	}
	if r.StartedAt.Location() != time.UTC || !r.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v", r.StartedAt)
	}
	if r.Mode != "bruteforce" || r.Encoding != "hashed" {
		t.Errorf("Mode/Encoding = %s/%s", r.Mode, r.Encoding)
	}
	if r.TargetMask != "c**" || r.MatchMask != "a*" {
		t.Errorf("masks = %q/%q", r.TargetMask, r.MatchMask)
	}
	if strings.Contains(r.TargetMask, "21") {
		t.Error("target leaked into record")
	}
	if r.ElapsedMillis != 1500 || r.Attempts != 145 || r.Outcome() != "cracked" {
		t.Errorf("unexpected record %+v", r)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestNewRecord_Cancelled(t *testing.T) {
	cfg := attack.Config{Mode: attack.Dictionary, Target: "x", Wordlist: []string{"a"}, Ceiling: 10}
	runErr := fmt.Errorf("%w after 3 attempts: %w", attack.ErrCancelled, context.Canceled)

	r := NewRecord(uuid.NewString(), SourceCLI, cfg, attack.Result{Attempts: 3}, runErr, baseTime)
	if !r.Cancelled || r.Outcome() != "cancelled" {
		t.Errorf("expected cancelled record, got %+v", r)
	}

	r = NewRecord(uuid.NewString(), SourceCLI, cfg, attack.Result{Attempts: 10}, nil, baseTime)
	if r.Cancelled || r.Outcome() != "exhausted" {
		t.Errorf("expected exhausted record, got %+v", r)
	}
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Record)
	}{
		{"bad id", func(r *Record) { r.ID = "" }},
		{"zero time", func(r *Record) { r.StartedAt = time.Time{} }},
		{"bad mode", func(r *Record) { r.Mode = "rainbow" }},
		{"bad encoding", func(r *Record) { r.Encoding = "sha1" }},
		{"attempts over ceiling", func(r *Record) { r.Attempts = r.Ceiling + 1 }},
		{"zero ceiling", func(r *Record) { r.Ceiling = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRecord(0, false, 1)
			tt.mutate(&r)
			if err := r.Validate(); err == nil {
				t.Error("Validate() accepted invalid record")
			}
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()

	s, err := Open(ctx, config.HistoryConfig{Backend: "sqlite"}, dir)
	if err != nil {
		t.Fatalf("Open(sqlite) error = %v", err)
	}
	s.Close()
	if _, err := os.Stat(filepath.Join(dir, DefaultFileName)); err != nil {
		t.Errorf("history.db not created: %v", err)
	}

	s, err = Open(ctx, config.HistoryConfig{Backend: "memory"}, dir)
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T", s)
	}

	s, err = Open(ctx, config.HistoryConfig{Backend: "none"}, dir)
	if err != nil {
		t.Fatalf("Open(none) error = %v", err)
	}
	if err := s.Add(ctx, Record{}); err != nil {
		t.Errorf("none backend Add() = %v", err)
	}

	if _, err := Open(ctx, config.HistoryConfig{Backend: "redis"}, dir); err == nil {
		t.Error("Open(redis) should fail")
	}
}

// TestMongoStore runs against a live server when ATTACKSIM_TEST_MONGO_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("ATTACKSIM_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ATTACKSIM_TEST_MONGO_URI not set")
	}
	ctx := t.Context()

	s, err := NewMongoStore(ctx, uri, "attacksim_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("NewMongoStore() error = %v", err)
	}
	defer s.Close()
	defer s.coll.Database().Drop(context.Background())

	r := testRecord(0, true, 4)
	if err := s.Add(ctx, r); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	records, err := s.List(ctx, 10)
	if err != nil || len(records) != 1 || records[0].ID != r.ID {
		t.Fatalf("List() = %+v, %v", records, err)
	}
	sum, err := s.Summary(ctx)
	if err != nil || sum.Runs != 1 || sum.Cracked != 1 {
		t.Errorf("Summary() = %+v, %v", sum, err)
	}
	if n, err := s.Clear(ctx); err != nil || n != 1 {
		t.Errorf("Clear() = %d, %v", n, err)
	}
	if err := s.Add(ctx, Record{}); err == nil {
		t.Error("Add() accepted an invalid record")
	}
}
