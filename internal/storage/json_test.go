package storage

import (
	"testing"
	"time"

	"cts/internal/config"
	"cts/internal/domain"
)

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	cfg := config.New()
	cfg.WorkspacePath = t.TempDir()

	results := []domain.ResultRecord{
		domain.NewComparisonResult(1, true, "1 2", "3", "3", 0.05, 4.2),
		domain.NewComparisonResult(2, false, "5 6", "11", "12", 0.07, 4.0),
	}
	output := domain.NewRunOutput(domain.KindComparison, results, 3*time.Second, 2)

	st := NewJSONStorage(cfg)
	if err := st.Save(output); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := st.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Meta.Kind != domain.KindComparison {
		t.Errorf("expected comparison kind, got %v", loaded.Meta.Kind)
	}
	if loaded.Meta.TotalTests != 2 || loaded.Meta.PassedTests != 1 || loaded.Meta.FailedTests != 1 {
		t.Errorf("unexpected meta: %+v", loaded.Meta)
	}
	if len(loaded.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(loaded.Results))
	}
	second := loaded.Results[1]
	if second.Comparison == nil || second.Comparison.ActualOutput != "12" {
		t.Errorf("payload not round-tripped: %+v", second)
	}
	if failures := loaded.Failures(); len(failures) != 1 || failures[0].TestNumber != 2 {
		t.Errorf("unexpected failures: %v", failures)
	}
}

func TestJSONStorage_LoadMissingFile(t *testing.T) {
	cfg := config.New()
	cfg.WorkspacePath = t.TempDir()

	if _, err := NewJSONStorage(cfg).Load(); err == nil {
		t.Error("expected error for missing results file")
	}
}
