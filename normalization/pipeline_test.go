package normalization

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// stubOracle returns canned responses or a fixed error.
type stubOracle struct {
	clusterFn func(names []string) ([]OracleCluster, error)
	confirmFn func(clusters [][]string) ([]ClusterConfirmation, error)
	calls     int
}

func (s *stubOracle) ClusterNames(_ context.Context, names []string) ([]OracleCluster, error) {
	s.calls++
	if s.clusterFn == nil {
		return nil, errors.New("no cluster stub")
	}
	return s.clusterFn(names)
}

func (s *stubOracle) ConfirmClusters(_ context.Context, clusters [][]string) ([]ClusterConfirmation, error) {
	s.calls++
	if s.confirmFn == nil {
		return nil, errors.New("no confirm stub")
	}
	return s.confirmFn(clusters)
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxRetries: 3, ErrorDelay: time.Millisecond, Sleep: func(time.Duration) {}}
}

func TestNormalizeTotality(t *testing.T) {
	sn, err := NewSupplierNormalizer(Options{Retry: fastRetry()})
	if err != nil {
		t.Fatal(err)
	}

	input := []string{
		"Acme Corp",
		"ACME CORPORATION",
		"",
		"12345",
		"Zenith Optical Instruments",
		"Acme Corp",
	}

	results := sn.Normalize(context.Background(), input)
	if len(results) != len(input) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(input))
	}

	// Unusable rows pass through.
	if results[2].Method != MethodPassthrough || results[3].Method != MethodPassthrough {
		t.Errorf("unusable rows did not pass through: %v, %v", results[2], results[3])
	}
	if results[3].Normalized != "12345" {
		t.Errorf("passthrough changed the name: %q", results[3].Normalized)
	}

	// Duplicate rows share the outcome and keep their own original.
	if results[0].Normalized != results[5].Normalized {
		t.Errorf("duplicate rows diverged: %q vs %q", results[0].Normalized, results[5].Normalized)
	}
	if results[0].Count != 3 || results[1].Count != 3 {
		t.Errorf("acme count = %d/%d, want 3", results[0].Count, results[1].Count)
	}
}

func TestNormalizeHybridMergesVariants(t *testing.T) {
	sn, err := NewSupplierNormalizer(Options{Retry: fastRetry()})
	if err != nil {
		t.Fatal(err)
	}

	results := sn.Normalize(context.Background(), []string{
		"Johnson Controls",
		"Johnson Controls Automation",
		"Lone Star Fabrication",
	})

	if results[0].Normalized != results[1].Normalized {
		t.Errorf("variants not merged: %q vs %q", results[0].Normalized, results[1].Normalized)
	}
	if results[0].Cluster != results[1].Cluster {
		t.Errorf("variants in different clusters: %q vs %q", results[0].Cluster, results[1].Cluster)
	}
	if results[0].Method != MethodAlgoCluster {
		t.Errorf("method = %q, want %q", results[0].Method, MethodAlgoCluster)
	}
	if results[2].Method != MethodSingleton {
		t.Errorf("singleton method = %q, want %q", results[2].Method, MethodSingleton)
	}
	if results[2].Confidence != "auto" {
		t.Errorf("singleton confidence = %q, want auto", results[2].Confidence)
	}
}

func TestNormalizeSemanticClustering(t *testing.T) {
	oracle := &stubOracle{
		clusterFn: func(names []string) ([]OracleCluster, error) {
			members := make([]int, len(names))
			for i := range names {
				members[i] = i
			}
			return []OracleCluster{{Canonical: "Acme Corporation", Members: members, Confidence: "high"}}, nil
		},
	}

	sn, err := NewSupplierNormalizer(Options{Mode: ModeSemantic, Oracle: oracle, Retry: fastRetry()})
	if err != nil {
		t.Fatal(err)
	}

	results := sn.Normalize(context.Background(), []string{"Acme Widgets", "Acme Widgetworks"})
	for i, r := range results {
		if r.Normalized != "Acme Corporation" {
			t.Errorf("results[%d].Normalized = %q, want Acme Corporation", i, r.Normalized)
		}
		if r.Method != MethodLLMCluster {
			t.Errorf("results[%d].Method = %q, want %q", i, r.Method, MethodLLMCluster)
		}
		if r.Confidence != "high" {
			t.Errorf("results[%d].Confidence = %q, want high", i, r.Confidence)
		}
	}
	if results[0].Cluster != results[1].Cluster {
		t.Errorf("cluster IDs differ: %q vs %q", results[0].Cluster, results[1].Cluster)
	}
}

func TestNormalizeSemanticMissedIndices(t *testing.T) {
	oracle := &stubOracle{
		clusterFn: func(names []string) ([]OracleCluster, error) {
			// Only assign index 0; forget the rest.
			return []OracleCluster{{Canonical: names[0], Members: []int{0}, Confidence: "high"}}, nil
		},
	}

	sn, err := NewSupplierNormalizer(Options{Mode: ModeSemantic, Oracle: oracle, Retry: fastRetry()})
	if err != nil {
		t.Fatal(err)
	}

	results := sn.Normalize(context.Background(), []string{"Acme Widgets", "Acme Widgetworks"})
	missed := 0
	for _, r := range results {
		if r.Method == MethodLLMMissed {
			missed++
			if r.Normalized != r.Original {
				t.Errorf("missed name was altered: %q -> %q", r.Original, r.Normalized)
			}
		}
	}
	if missed == 0 {
		t.Error("expected at least one llm-missed result")
	}
}

func TestNormalizeOracleFailureDegrades(t *testing.T) {
	oracle := &stubOracle{
		clusterFn: func([]string) ([]OracleCluster, error) {
			return nil, errors.New("429 rate limited")
		},
	}

	sn, err := NewSupplierNormalizer(Options{Mode: ModeSemantic, Oracle: oracle, Retry: fastRetry()})
	if err != nil {
		t.Fatal(err)
	}

	input := make([]string, 10)
	for i := range input {
		input[i] = fmt.Sprintf("Northstar Division %c Inc", 'A'+i)
	}

	results := sn.Normalize(context.Background(), input)
	if len(results) != 10 {
		t.Fatalf("len(results) = %d, want 10", len(results))
	}
	for i, r := range results {
		if r.Method != MethodFallback {
			t.Errorf("results[%d].Method = %q, want %q", i, r.Method, MethodFallback)
		}
		if r.Confidence != "error" {
			t.Errorf("results[%d].Confidence = %q, want error", i, r.Confidence)
		}
		if r.Normalized != r.Original {
			t.Errorf("fallback altered name: %q -> %q", r.Original, r.Normalized)
		}
		if r.Cluster != "ERR" {
			t.Errorf("results[%d].Cluster = %q, want ERR", i, r.Cluster)
		}
	}
}

func TestNormalizeHybridConfirmation(t *testing.T) {
	oracle := &stubOracle{
		confirmFn: func(clusters [][]string) ([]ClusterConfirmation, error) {
			out := make([]ClusterConfirmation, len(clusters))
			for i := range clusters {
				out[i] = ClusterConfirmation{ClusterID: i, SameCompany: true, CanonicalName: "Continental Group"}
			}
			return out, nil
		},
	}

	sn, err := NewSupplierNormalizer(Options{Mode: ModeHybrid, Oracle: oracle, Retry: fastRetry()})
	if err != nil {
		t.Fatal(err)
	}

	// Shares only its longest token: similar enough to cluster (0.80 floor),
	// not enough to auto-confirm.
	results := sn.Normalize(context.Background(), []string{"Continental Tires", "Continental Bakery"})
	if oracle.calls == 0 {
		t.Fatal("oracle was never consulted for ambiguous clusters")
	}
	for i, r := range results {
		if r.Method != MethodLLMCluster {
			t.Errorf("results[%d].Method = %q, want %q", i, r.Method, MethodLLMCluster)
		}
		if r.Normalized != "Continental Group" {
			t.Errorf("results[%d].Normalized = %q, want confirmed canonical", i, r.Normalized)
		}
	}
}

func TestNormalizeHybridFollowsExportedClustering(t *testing.T) {
	sn, err := NewSupplierNormalizer(Options{Retry: fastRetry()})
	if err != nil {
		t.Fatal(err)
	}

	// Without an oracle, ambiguous clusters finalize algorithmically with
	// medium confidence; confirmed ones get high.
	results := sn.Normalize(context.Background(), []string{
		"Continental Tires",
		"Continental Bakery",
		"Johnson Controls",
		"Johnson Controls Automation",
	})

	if results[0].Cluster != results[1].Cluster || results[0].Confidence != "medium" {
		t.Errorf("ambiguous pair: %+v / %+v", results[0], results[1])
	}
	if results[2].Cluster != results[3].Cluster || results[2].Confidence != "high" {
		t.Errorf("confirmed pair: %+v / %+v", results[2], results[3])
	}

	// The same decisions must come out of the clustering API directly: the
	// pipeline runs through ClusterNames and SplitByConfidence, not a
	// private variant that can drift.
	for _, tc := range []struct {
		names     []string
		ambiguous bool
	}{
		{[]string{"Continental Tires", "Continental Bakery"}, true},
		{[]string{"Johnson Controls", "Johnson Controls Automation"}, false},
	} {
		clusters := ClusterNames(tc.names, DefaultClusterThreshold)
		if len(clusters) != 1 {
			t.Fatalf("ClusterNames(%v) = %v, want one cluster", tc.names, clusters)
		}
		confirmed, ambiguous, _ := SplitByConfidence(clusters, DefaultConfirmThreshold)
		if tc.ambiguous && len(ambiguous) != 1 {
			t.Errorf("%v: want ambiguous, got confirmed=%v ambiguous=%v", tc.names, confirmed, ambiguous)
		}
		if !tc.ambiguous && len(confirmed) != 1 {
			t.Errorf("%v: want confirmed, got confirmed=%v ambiguous=%v", tc.names, confirmed, ambiguous)
		}
	}
}

func TestNewSupplierNormalizerValidation(t *testing.T) {
	if _, err := NewSupplierNormalizer(Options{Mode: ModeSemantic}); err == nil {
		t.Error("semantic mode without oracle should fail")
	}
	if _, err := NewSupplierNormalizer(Options{Mode: "bogus"}); err == nil {
		t.Error("unknown mode should fail")
	}
	if _, err := NewSupplierNormalizer(Options{}); err != nil {
		t.Errorf("default options should validate: %v", err)
	}
}
