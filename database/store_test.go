package database

import (
	"path/filepath"
	"testing"

	"suppliernorm/normalization"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)

	run, err := store.CreateRun("suppliers.csv", "hybrid", 42)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("run ID must not be empty")
	}
	if run.Status != RunStatusRunning {
		t.Errorf("new run status = %q, want running", run.Status)
	}

	loaded, err := store.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if loaded.SourceFile != "suppliers.csv" || loaded.Mode != "hybrid" || loaded.TotalRows != 42 {
		t.Errorf("loaded run mismatch: %+v", loaded)
	}
	if loaded.FinishedAt != nil {
		t.Error("running run must not have finished_at")
	}

	if err := store.FinishRun(run.ID, RunStatusCompleted); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	loaded, err = store.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun after finish: %v", err)
	}
	if loaded.Status != RunStatusCompleted {
		t.Errorf("status = %q, want completed", loaded.Status)
	}
	if loaded.FinishedAt == nil {
		t.Error("completed run must have finished_at")
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := openTestStore(t)
	if err := store.FinishRun("nope", RunStatusFailed); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestResultsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	run, err := store.CreateRun("suppliers.csv", "hybrid", 3)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	in := []normalization.NormalizationResult{
		{Original: "Acme Inc", Normalized: "Acme Corporation", Cluster: "C-1", Confidence: "high", Method: "algo-cluster", Count: 2},
		{Original: "J. Smith", Normalized: "J. Smith", Individual: true, Cluster: "S-j smith", Confidence: "auto", Method: "singleton", Count: 1},
		{Original: "", Normalized: "", Cluster: "ERR", Confidence: "low", Method: "passthrough", Count: 1},
	}
	if err := store.SaveResults(run.ID, in); err != nil {
		t.Fatalf("SaveResults: %v", err)
	}

	out, err := store.GetResults(run.ID)
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d results, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("result %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	for i := 0; i < 3; i++ {
		if _, err := store.CreateRun("f.csv", "semantic", i); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
	}
	runs, err := store.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
}

func TestMigrationIdempotent(t *testing.T) {
	store := openTestStore(t)
	if err := MigrateNormalizationRuns(store.db); err != nil {
		t.Fatalf("second migration: %v", err)
	}
}
