package normalization

// Greedy single-linkage clustering over company-name similarity. Order of
// input is preserved so results are deterministic for a given name list.

const (
	// DefaultClusterThreshold admits a name into a cluster when any member
	// scores at or above it.
	DefaultClusterThreshold = 0.65
	// DefaultConfirmThreshold marks a cluster confirmed when the average
	// pairwise similarity reaches it; below, the cluster is ambiguous and
	// eligible for oracle confirmation.
	DefaultConfirmThreshold = 0.85
)

// ClusterConfig carries the clustering thresholds.
type ClusterConfig struct {
	Threshold        float64
	ConfirmThreshold float64
}

// DefaultClusterConfig returns the tuned defaults.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		Threshold:        DefaultClusterThreshold,
		ConfirmThreshold: DefaultConfirmThreshold,
	}
}

// ClusterNames groups names by greedy single linkage: each name joins the
// cluster holding its best match above the threshold, else starts its own.
func ClusterNames(names []string, threshold float64) [][]string {
	var clusters [][]string

	for _, name := range names {
		if name == "" {
			continue
		}

		bestCluster := -1
		bestScore := 0.0
		for idx, cluster := range clusters {
			for _, existing := range cluster {
				score := CompanySimilarity(name, existing)
				if score > bestScore {
					bestScore = score
					if score >= threshold {
						bestCluster = idx
					}
				}
			}
		}

		if bestCluster >= 0 {
			clusters[bestCluster] = append(clusters[bestCluster], name)
		} else {
			clusters = append(clusters, []string{name})
		}
	}

	return clusters
}

// SplitByConfidence partitions multi-member clusters into confirmed and
// ambiguous by average pairwise similarity. Single-member clusters come back
// as singletons.
func SplitByConfidence(clusters [][]string, confirmThreshold float64) (confirmed, ambiguous [][]string, singletons []string) {
	for _, cluster := range clusters {
		if len(cluster) == 1 {
			singletons = append(singletons, cluster[0])
			continue
		}

		var sum float64
		pairs := 0
		for i := 0; i < len(cluster); i++ {
			for j := i + 1; j < len(cluster); j++ {
				sum += CompanySimilarity(cluster[i], cluster[j])
				pairs++
			}
		}

		avg := 0.0
		if pairs > 0 {
			avg = sum / float64(pairs)
		}

		if avg >= confirmThreshold {
			confirmed = append(confirmed, cluster)
		} else {
			ambiguous = append(ambiguous, cluster)
		}
	}
	return confirmed, ambiguous, singletons
}
