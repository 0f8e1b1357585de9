package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/driftchain/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "driftchain.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(id string, drift float64, ts time.Time, chain ...string) model.RunRecord {
	return model.RunRecord{
		ID:           id,
		OriginalText: "Hello world",
		Chain:        chain,
		Steps: []model.Step{
			{Index: 0, Language: chain[0], Text: model.StringPtr("Hello world"), Provider: model.ProviderOriginal},
			{Index: 1, Language: chain[1], Text: model.StringPtr("Привет мир"), Provider: "google", SourceLanguage: chain[0]},
			{Index: 2, Language: chain[2], Error: "all translation providers failed"},
		},
		DriftRecords: []model.DriftRecord{
			{StepIndex: 1, Language: chain[1], SimilarityToOriginal: 1 - drift, LocalDrift: drift, Method: model.MethodJaccard, Text: "Привет мир"},
		},
		OverallDrift: drift,
		FinalText:    "Привет мир",
		Timestamp:    ts,
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := s.SaveRun(ctx, sampleRecord("run-1", 0.4, ts, "en", "ru", "ja"))
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if id != "run-1" {
		t.Errorf("expected id run-1, got %s", id)
	}

	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}

	if got.OriginalText != "Hello world" || got.FinalText != "Привет мир" {
		t.Errorf("unexpected texts: %+v", got)
	}
	if len(got.Chain) != 3 || got.Chain[2] != "ja" {
		t.Errorf("unexpected chain: %v", got.Chain)
	}
	if len(got.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(got.Steps))
	}
	if got.Steps[2].Text != nil || got.Steps[2].Error == "" {
		t.Errorf("expected failed step to round-trip with nil text, got %+v", got.Steps[2])
	}
	if len(got.DriftRecords) != 1 || got.DriftRecords[0].LocalDrift != 0.4 {
		t.Errorf("unexpected drift records: %+v", got.DriftRecords)
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("expected timestamp %v, got %v", ts, got.Timestamp)
	}
}

func TestSQLiteStore_GetUnknown(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	rec := sampleRecord("dup", 0.1, time.Now(), "en", "ru", "en")

	if _, err := s.SaveRun(ctx, rec); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if _, err := s.SaveRun(ctx, rec); err == nil {
		t.Error("expected duplicate id to fail")
	}
}

func TestSQLiteStore_RequiresID(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveRun(context.Background(), model.RunRecord{}); err == nil {
		t.Error("expected error for record without id")
	}
}

func TestSQLiteStore_History(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		rec := sampleRecord(fmt.Sprintf("run-%d", i), float64(i)/10, base.Add(time.Duration(i)*time.Hour), "en", "ru", "en")
		if _, err := s.SaveRun(ctx, rec); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	history, err := s.History(ctx, 3)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}
	if history[0].ID != "run-4" || history[2].ID != "run-2" {
		t.Errorf("expected newest first, got %s..%s", history[0].ID, history[2].ID)
	}
	if history[0].OverallDrift != 0.4 {
		t.Errorf("expected drift 0.4, got %v", history[0].OverallDrift)
	}
}

func TestSQLiteStore_Stats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	empty, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats on empty store failed: %v", err)
	}
	if empty.TotalRuns != 0 || empty.UniqueLanguages != 0 {
		t.Errorf("expected empty stats, got %+v", empty)
	}

	_, _ = s.SaveRun(ctx, sampleRecord("a", 0.2, time.Now(), "en", "ru", "en"))
	_, _ = s.SaveRun(ctx, sampleRecord("b", 0.6, time.Now(), "en", "ja", "ka"))

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalRuns != 2 {
		t.Errorf("expected 2 runs, got %d", stats.TotalRuns)
	}
	if stats.MaxDrift != 0.6 {
		t.Errorf("expected max drift 0.6, got %v", stats.MaxDrift)
	}
	if stats.UniqueLanguages != 4 {
		t.Errorf("expected 4 languages, got %v", stats.LanguagesUsed)
	}
}

func TestSQLiteStore_ConcurrentSaves(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.SaveRun(ctx, sampleRecord(fmt.Sprintf("c-%d", i), 0.1, time.Now(), "en", "ru", "en")); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent save failed: %v", err)
	}

	stats, _ := s.Stats(ctx)
	if stats.TotalRuns != 20 {
		t.Errorf("expected 20 runs, got %d", stats.TotalRuns)
	}
}
