package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"suppliernorm/normalization"
)

// Oracle adapts a Provider into the pipeline's semantic grouping interface.
// It owns prompt construction and lenient response parsing; batching,
// retries and degradation stay with the pipeline.
type Oracle struct {
	provider Provider
	log      *slog.Logger
}

// NewOracle wraps a provider.
func NewOracle(provider Provider) *Oracle {
	return &Oracle{
		provider: provider,
		log:      slog.Default().With("component", "oracle"),
	}
}

var (
	quoteRe      = regexp.MustCompile(`"`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// sanitizeName keeps prompt lines single-line and quote-free so names cannot
// break the JSON the model is asked to return.
func sanitizeName(name string) string {
	s := quoteRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

type clusterResponse struct {
	Clusters []normalization.OracleCluster `json:"clusters"`
}

// ClusterNames implements normalization.GroupingOracle.
func (o *Oracle) ClusterNames(ctx context.Context, names []string) ([]normalization.OracleCluster, error) {
	var indexed strings.Builder
	for i, n := range names {
		fmt.Fprintf(&indexed, "%d: %s\n", i, sanitizeName(n))
	}

	prompt := fmt.Sprintf(`You are an expert at supplier/company name normalization for procurement spend data.

Given this list of company names, identify which names refer to the SAME real-world entity and group them.

RULES:
- Spelling variations, abbreviations, different legal suffixes of same company = SAME cluster
- Genuinely different companies = DIFFERENT clusters
- Pick the most complete/official name as canonical
- Every index must appear in exactly one cluster

NAMES:
%s
Return JSON:
{"clusters":[{"canonical":"Name","members":[0,2],"confidence":"high"}]}

confidence: high/medium/low. Singletons get their own cluster.`, indexed.String())

	raw, err := o.provider.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed clusterResponse
	if err := DecodeLenient(raw, &parsed); err != nil {
		// Unusable output degrades to all-singletons rather than failing
		// the batch.
		o.log.Warn("unparsable cluster response, degrading to singletons", "names", len(names))
		singles := make([]normalization.OracleCluster, len(names))
		for i, n := range names {
			singles[i] = normalization.OracleCluster{Canonical: n, Members: []int{i}, Confidence: "low"}
		}
		return singles, nil
	}
	return parsed.Clusters, nil
}

type confirmResponse struct {
	Results []normalization.ClusterConfirmation `json:"results"`
}

// ConfirmClusters implements normalization.GroupingOracle.
func (o *Oracle) ConfirmClusters(ctx context.Context, clusters [][]string) ([]normalization.ClusterConfirmation, error) {
	type promptCluster struct {
		ClusterID int      `json:"cluster_id"`
		Names     []string `json:"names"`
	}

	payload := make([]promptCluster, len(clusters))
	for i, cluster := range clusters {
		names := make([]string, len(cluster))
		for j, n := range cluster {
			names[j] = sanitizeName(n)
		}
		payload[i] = promptCluster{ClusterID: i, Names: names}
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("oracle: marshal clusters: %w", err)
	}

	prompt := fmt.Sprintf(`You are a supplier data expert. For each cluster of company names, determine:
1. Are these names referring to the SAME company? (Yes/No)
2. If Yes, what is the best canonical name?

Return ONLY valid JSON.

Analyze these %d clusters:

%s

Return JSON:
{
    "results": [
        {"cluster_id": 0, "same_company": true, "canonical_name": "Best Name Inc"},
        {"cluster_id": 1, "same_company": false, "reason": "Different companies"}
    ]
}`, len(clusters), encoded)

	raw, err := o.provider.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed confirmResponse
	if err := DecodeLenient(raw, &parsed); err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}
	return parsed.Results, nil
}
