package normalization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Result methods. Every input row gets exactly one result carrying one of
// these.
const (
	MethodSingleton   = "singleton"
	MethodAlgoCluster = "algo-cluster"
	MethodLLMCluster  = "llm-cluster"
	MethodLLMSingle   = "llm-singleton"
	MethodLLMMissed   = "llm-missed"
	MethodFallback    = "fallback"
	MethodPassthrough = "passthrough"
)

// Resolution modes.
const (
	// ModeSemantic sends every multi-member group to the oracle for
	// clustering (LLM-first).
	ModeSemantic = "semantic"
	// ModeHybrid clusters algorithmically and only escalates ambiguous
	// clusters to the oracle for confirmation.
	ModeHybrid = "hybrid"
)

// NormalizationResult is the per-input-row outcome of the pipeline.
type NormalizationResult struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
	Individual bool   `json:"individual"`
	Cluster    string `json:"cluster"`
	Confidence string `json:"confidence"` // high | medium | low | auto | error
	Method     string `json:"method"`
	Count      int    `json:"count"` // rows sharing this cleaned name
}

// OracleCluster is one cluster in an oracle response. Members index into the
// batch that was sent.
type OracleCluster struct {
	Canonical  string `json:"canonical"`
	Members    []int  `json:"members"`
	Confidence string `json:"confidence"`
}

// ClusterConfirmation is the oracle's verdict on one ambiguous cluster.
type ClusterConfirmation struct {
	ClusterID     int    `json:"cluster_id"`
	SameCompany   bool   `json:"same_company"`
	CanonicalName string `json:"canonical_name"`
}

// GroupingOracle resolves entity identity semantically. Implementations must
// tolerate being called serially with small batches.
type GroupingOracle interface {
	// ClusterNames groups a batch of names by real-world entity.
	ClusterNames(ctx context.Context, names []string) ([]OracleCluster, error)
	// ConfirmClusters answers whether each proposed cluster is one company.
	ConfirmClusters(ctx context.Context, clusters [][]string) ([]ClusterConfirmation, error)
}

// ProgressFunc receives human-readable pipeline progress. Observability
// only; errors in the sink must not affect the run.
type ProgressFunc func(msg, level string)

// Options configures a SupplierNormalizer.
type Options struct {
	Mode             string
	Oracle           GroupingOracle
	BatchSize        int
	ConfirmBatchSize int
	MinGroupSize     int
	Cluster          ClusterConfig
	Retry            RetryConfig
	Progress         ProgressFunc
	Logger           *slog.Logger
}

// SupplierNormalizer runs the full normalization pipeline:
// clean -> classify -> block -> resolve -> pick canonical -> assemble.
type SupplierNormalizer struct {
	cleaner    *NameCleaner
	classifier *EntityClassifier
	oracle     GroupingOracle
	mode       string
	batchSize  int
	confirmBSz int
	minGroup   int
	clusterCfg ClusterConfig
	retry      RetryConfig
	progress   ProgressFunc
	log        *slog.Logger

	clusterSeq int
}

// NewSupplierNormalizer validates options once. ModeSemantic without an
// oracle is a configuration error; data problems never are.
func NewSupplierNormalizer(opts Options) (*SupplierNormalizer, error) {
	if opts.Mode == "" {
		opts.Mode = ModeHybrid
	}
	if opts.Mode != ModeSemantic && opts.Mode != ModeHybrid {
		return nil, fmt.Errorf("unknown mode %q", opts.Mode)
	}
	if opts.Mode == ModeSemantic && opts.Oracle == nil {
		return nil, errors.New("semantic mode requires a grouping oracle")
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.ConfirmBatchSize <= 0 {
		opts.ConfirmBatchSize = 10
	}
	if opts.MinGroupSize <= 0 {
		opts.MinGroupSize = 2
	}
	if opts.Cluster.Threshold == 0 {
		opts.Cluster = DefaultClusterConfig()
	}
	if opts.Retry.MaxRetries == 0 {
		opts.Retry = DefaultRetryConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default().With("component", "normalizer")
	}

	return &SupplierNormalizer{
		cleaner:    NewNameCleaner(),
		classifier: NewEntityClassifier(),
		oracle:     opts.Oracle,
		mode:       opts.Mode,
		batchSize:  opts.BatchSize,
		confirmBSz: opts.ConfirmBatchSize,
		minGroup:   opts.MinGroupSize,
		clusterCfg: opts.Cluster,
		retry:      opts.Retry,
		progress:   opts.Progress,
		log:        opts.Logger,
	}, nil
}

func (sn *SupplierNormalizer) emit(msg, level string) {
	switch level {
	case "warning":
		sn.log.Warn(msg)
	case "error":
		sn.log.Error(msg)
	default:
		sn.log.Info(msg)
	}
	if sn.progress != nil {
		sn.progress(msg, level)
	}
}

// Normalize runs the pipeline over raw supplier names. It always returns
// exactly one result per input row, in input order; failures degrade
// individual results, never the row count.
func (sn *SupplierNormalizer) Normalize(ctx context.Context, rawNames []string) []NormalizationResult {
	sn.clusterSeq = 0

	entries, order := sn.extractAndClean(rawNames)
	sn.classifyEntities(entries, order)

	oracleGroups, singletonEntries := sn.buildGroups(entries, order)

	outcomes := make(map[string]NormalizationResult, len(entries))

	for _, entry := range singletonEntries {
		outcomes[entry.Cleaned] = sn.singletonOutcome(entry, MethodSingleton)
	}

	switch sn.mode {
	case ModeSemantic:
		sn.resolveSemantic(ctx, oracleGroups, outcomes)
	default:
		sn.resolveHybrid(ctx, oracleGroups, outcomes)
	}

	results := sn.assemble(rawNames, entries, outcomes)
	sn.consolidate(results)
	sn.summarize(rawNames, entries, results)
	return results
}

// extractAndClean builds the unique-name map and remembers first-seen order.
func (sn *SupplierNormalizer) extractAndClean(rawNames []string) (map[string]*UniqueNameEntry, []string) {
	sn.emit(fmt.Sprintf("Stage 1: Extracting and cleaning %d supplier names...", len(rawNames)), "info")

	entries := make(map[string]*UniqueNameEntry)
	var order []string

	for i, raw := range rawNames {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		cleaned := sn.cleaner.Clean(raw)
		if cleaned == "" {
			continue
		}

		entry, ok := entries[cleaned]
		if !ok {
			entry = &UniqueNameEntry{Cleaned: cleaned, Originals: make(map[string]int)}
			entries[cleaned] = entry
			order = append(order, cleaned)
		}
		entry.Originals[raw]++
		entry.Indices = append(entry.Indices, i)
	}

	sn.emit(fmt.Sprintf("Extracted %d rows -> %d unique cleaned names", len(rawNames), len(entries)), "info")
	return entries, order
}

func (sn *SupplierNormalizer) classifyEntities(entries map[string]*UniqueNameEntry, order []string) {
	individuals := 0
	for _, cleaned := range order {
		entry := entries[cleaned]
		c := sn.classifier.Classify(entry.BestOriginal())
		entry.EntityType = c.Type
		entry.Individual = c.Type == "individual"
		if entry.Individual {
			individuals++
		}
	}
	sn.emit(fmt.Sprintf("Entity classification complete: %d individuals out of %d unique names", individuals, len(entries)), "info")
}

type nameGroup struct {
	key     string
	members []*UniqueNameEntry
}

// buildGroups blocks entries by token key and splits off singleton buckets.
// Multi-member groups come back largest first, key order on ties.
func (sn *SupplierNormalizer) buildGroups(entries map[string]*UniqueNameEntry, order []string) ([]nameGroup, []*UniqueNameEntry) {
	sn.emit("Stage 2: Token-based grouping...", "info")

	list := make([]*UniqueNameEntry, 0, len(order))
	for _, cleaned := range order {
		list = append(list, entries[cleaned])
	}
	buckets := BuildGroups(list)

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var groups []nameGroup
	var singles []*UniqueNameEntry
	for _, key := range keys {
		members := buckets[key]
		if len(members) >= sn.minGroup {
			groups = append(groups, nameGroup{key: key, members: members})
		} else {
			singles = append(singles, members...)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].members) != len(groups[j].members) {
			return len(groups[i].members) > len(groups[j].members)
		}
		return groups[i].key < groups[j].key
	})

	sn.emit(fmt.Sprintf("Created %d token groups: %d for resolution, %d singletons",
		len(buckets), len(groups), len(singles)), "info")
	return groups, singles
}

func (sn *SupplierNormalizer) singletonOutcome(entry *UniqueNameEntry, method string) NormalizationResult {
	original := entry.BestOriginal()
	return NormalizationResult{
		Original:   original,
		Normalized: original,
		Individual: entry.Individual,
		Cluster:    singletonClusterID(entry.Cleaned),
		Confidence: "auto",
		Method:     method,
		Count:      entry.TotalCount(),
	}
}

func (sn *SupplierNormalizer) nextClusterID() string {
	sn.clusterSeq++
	return fmt.Sprintf("C-%d", sn.clusterSeq)
}

func singletonClusterID(cleaned string) string {
	if len(cleaned) > 20 {
		cleaned = cleaned[:20]
	}
	return "S-" + cleaned
}

// resolveSemantic sends each multi-member group to the oracle in batches.
// Indices the oracle leaves uncovered degrade to llm-missed singletons;
// exhausted retries degrade the whole batch to fallback.
func (sn *SupplierNormalizer) resolveSemantic(ctx context.Context, groups []nameGroup, outcomes map[string]NormalizationResult) {
	sn.emit("Stage 3: Semantic entity clustering...", "info")

	for _, group := range groups {
		for start := 0; start < len(group.members); start += sn.batchSize {
			end := start + sn.batchSize
			if end > len(group.members) {
				end = len(group.members)
			}
			sn.resolveSemanticBatch(ctx, group, group.members[start:end], outcomes)
		}
	}
}

func (sn *SupplierNormalizer) resolveSemanticBatch(ctx context.Context, group nameGroup, batch []*UniqueNameEntry, outcomes map[string]NormalizationResult) {
	names := make([]string, len(batch))
	for i, entry := range batch {
		names[i] = entry.BestOriginal()
	}

	var clusters []OracleCluster
	err := sn.retry.Retry(func() error {
		var callErr error
		clusters, callErr = sn.oracle.ClusterNames(ctx, names)
		return callErr
	})
	if err != nil {
		sn.emit(fmt.Sprintf("Group %q failed after retries: %v", group.key, err), "error")
		for _, entry := range batch {
			outcomes[entry.Cleaned] = NormalizationResult{
				Original:   entry.BestOriginal(),
				Normalized: entry.BestOriginal(),
				Individual: entry.Individual,
				Cluster:    "ERR",
				Confidence: "error",
				Method:     MethodFallback,
				Count:      entry.TotalCount(),
			}
		}
		return
	}

	assigned := make(map[int]bool, len(batch))
	for _, cluster := range clusters {
		canonical := strings.TrimSpace(cluster.Canonical)
		conf := cluster.Confidence
		if conf == "" {
			conf = "medium"
		}

		multi := len(cluster.Members) > 1
		var clusterID string
		if multi {
			clusterID = sn.nextClusterID()
		}

		for _, idx := range cluster.Members {
			if idx < 0 || idx >= len(batch) || assigned[idx] {
				continue
			}
			assigned[idx] = true
			entry := batch[idx]

			normalized := canonical
			if normalized == "" {
				normalized = entry.BestOriginal()
			}

			method := MethodLLMSingle
			id := singletonClusterID(entry.Cleaned)
			if multi {
				method = MethodLLMCluster
				id = clusterID
			}

			outcomes[entry.Cleaned] = NormalizationResult{
				Original:   entry.BestOriginal(),
				Normalized: normalized,
				Individual: entry.Individual,
				Cluster:    id,
				Confidence: conf,
				Method:     method,
				Count:      entry.TotalCount(),
			}
		}
	}

	// Recover anything the oracle forgot to assign.
	for i, entry := range batch {
		if !assigned[i] {
			outcomes[entry.Cleaned] = sn.singletonOutcome(entry, MethodLLMMissed)
		}
	}
}

// resolveHybrid clusters each group algorithmically, confirms ambiguous
// clusters with the oracle when one is configured, and finalizes the rest.
func (sn *SupplierNormalizer) resolveHybrid(ctx context.Context, groups []nameGroup, outcomes map[string]NormalizationResult) {
	sn.emit("Stage 3: Algorithmic clustering...", "info")

	var ambiguous [][]*UniqueNameEntry

	confirmedCount := 0
	for _, group := range groups {
		byName := make(map[string]*UniqueNameEntry, len(group.members))
		names := make([]string, len(group.members))
		for i, entry := range group.members {
			names[i] = entry.BestOriginal()
			byName[names[i]] = entry
		}

		clusters := ClusterNames(names, sn.clusterCfg.Threshold)
		confirmed, ambig, singles := SplitByConfidence(clusters, sn.clusterCfg.ConfirmThreshold)

		for _, name := range singles {
			entry := byName[name]
			outcomes[entry.Cleaned] = sn.singletonOutcome(entry, MethodSingleton)
		}
		for _, cluster := range confirmed {
			sn.finalizeAlgoCluster(entriesFor(cluster, byName), "high", outcomes)
			confirmedCount++
		}
		for _, cluster := range ambig {
			ambiguous = append(ambiguous, entriesFor(cluster, byName))
		}
	}

	sn.emit(fmt.Sprintf("Pre-clustering: %d confirmed, %d ambiguous", confirmedCount, len(ambiguous)), "info")

	if len(ambiguous) == 0 {
		return
	}
	if sn.oracle == nil {
		for _, cluster := range ambiguous {
			sn.finalizeAlgoCluster(cluster, "medium", outcomes)
		}
		return
	}

	sn.emit(fmt.Sprintf("Confirming %d ambiguous clusters with oracle...", len(ambiguous)), "info")
	for start := 0; start < len(ambiguous); start += sn.confirmBSz {
		end := start + sn.confirmBSz
		if end > len(ambiguous) {
			end = len(ambiguous)
		}
		sn.confirmBatch(ctx, ambiguous[start:end], outcomes)
	}
}

func (sn *SupplierNormalizer) confirmBatch(ctx context.Context, batch [][]*UniqueNameEntry, outcomes map[string]NormalizationResult) {
	nameClusters := make([][]string, len(batch))
	for i, cluster := range batch {
		for _, entry := range cluster {
			nameClusters[i] = append(nameClusters[i], entry.BestOriginal())
		}
	}

	var confirmations []ClusterConfirmation
	err := sn.retry.Retry(func() error {
		var callErr error
		confirmations, callErr = sn.oracle.ConfirmClusters(ctx, nameClusters)
		return callErr
	})
	if err != nil {
		// Oracle unavailable: accept the algorithmic grouping.
		sn.emit(fmt.Sprintf("Cluster confirmation failed: %v", err), "warning")
		for _, cluster := range batch {
			sn.finalizeAlgoCluster(cluster, "medium", outcomes)
		}
		return
	}

	decided := make(map[int]bool, len(batch))
	for _, c := range confirmations {
		if c.ClusterID < 0 || c.ClusterID >= len(batch) || decided[c.ClusterID] {
			continue
		}
		decided[c.ClusterID] = true
		cluster := batch[c.ClusterID]

		if c.SameCompany {
			canonical := strings.TrimSpace(c.CanonicalName)
			if canonical == "" {
				canonical = PickCanonical(nameClusters[c.ClusterID])
			}
			id := sn.nextClusterID()
			for _, entry := range cluster {
				outcomes[entry.Cleaned] = NormalizationResult{
					Original:   entry.BestOriginal(),
					Normalized: canonical,
					Individual: entry.Individual,
					Cluster:    id,
					Confidence: "high",
					Method:     MethodLLMCluster,
					Count:      entry.TotalCount(),
				}
			}
		} else {
			for _, entry := range cluster {
				outcomes[entry.Cleaned] = sn.singletonOutcome(entry, MethodLLMSingle)
			}
		}
	}

	// Clusters the oracle did not mention keep their algorithmic grouping.
	for i, cluster := range batch {
		if !decided[i] {
			sn.finalizeAlgoCluster(cluster, "medium", outcomes)
		}
	}
}

func (sn *SupplierNormalizer) finalizeAlgoCluster(cluster []*UniqueNameEntry, confidence string, outcomes map[string]NormalizationResult) {
	variants := make([]string, len(cluster))
	for i, entry := range cluster {
		variants[i] = entry.BestOriginal()
	}
	canonical := PickCanonical(variants)
	id := sn.nextClusterID()

	for _, entry := range cluster {
		outcomes[entry.Cleaned] = NormalizationResult{
			Original:   entry.BestOriginal(),
			Normalized: canonical,
			Individual: entry.Individual,
			Cluster:    id,
			Confidence: confidence,
			Method:     MethodAlgoCluster,
			Count:      entry.TotalCount(),
		}
	}
}

// entriesFor maps clustered names back onto their entries. A raw original
// belongs to exactly one cleaned entry, so the lookup is unambiguous.
func entriesFor(names []string, byName map[string]*UniqueNameEntry) []*UniqueNameEntry {
	members := make([]*UniqueNameEntry, len(names))
	for i, name := range names {
		members[i] = byName[name]
	}
	return members
}

// assemble expands per-unique-name outcomes into one result per input row.
// Rows whose names were unusable pass through unchanged so the row count is
// always preserved.
func (sn *SupplierNormalizer) assemble(rawNames []string, entries map[string]*UniqueNameEntry, outcomes map[string]NormalizationResult) []NormalizationResult {
	results := make([]NormalizationResult, len(rawNames))
	for i := range results {
		raw := strings.TrimSpace(rawNames[i])
		results[i] = NormalizationResult{
			Original:   raw,
			Normalized: raw,
			Cluster:    "ERR",
			Confidence: "low",
			Method:     MethodPassthrough,
			Count:      1,
		}
	}

	for cleaned, entry := range entries {
		outcome, ok := outcomes[cleaned]
		if !ok {
			// Defensive: an unresolved entry degrades to a singleton.
			outcome = sn.singletonOutcome(entry, MethodFallback)
			outcome.Confidence = "error"
			outcome.Cluster = "ERR"
		}
		for _, idx := range entry.Indices {
			r := outcome
			r.Original = rawNames[idx]
			results[idx] = r
		}
	}
	return results
}

// consolidate re-examines low-confidence unclustered results against the
// run's high-confidence clusters and adopts a cluster only on a genuine
// similarity fit. Confidence is never boosted and nothing is force-merged.
func (sn *SupplierNormalizer) consolidate(results []NormalizationResult) {
	const fitThreshold = 0.6

	type clusterRef struct {
		id        string
		canonical string
	}
	var refs []clusterRef
	seen := make(map[string]bool)
	for _, r := range results {
		if r.Confidence == "high" && (r.Method == MethodAlgoCluster || r.Method == MethodLLMCluster) && !seen[r.Cluster] {
			seen[r.Cluster] = true
			refs = append(refs, clusterRef{id: r.Cluster, canonical: r.Normalized})
		}
	}
	if len(refs) == 0 {
		return
	}

	reassigned := 0
	for i := range results {
		r := &results[i]
		if r.Confidence != "low" && r.Confidence != "auto" {
			continue
		}
		if r.Method != MethodSingleton && r.Method != MethodLLMMissed {
			continue
		}

		bestScore := 0.0
		best := -1
		for j, ref := range refs {
			score := CompanySimilarity(r.Original, ref.canonical)
			if score > bestScore {
				bestScore = score
				best = j
			}
		}
		if best >= 0 && bestScore >= fitThreshold {
			r.Normalized = refs[best].canonical
			r.Cluster = refs[best].id
			r.Method = MethodAlgoCluster
			reassigned++
		}
	}
	if reassigned > 0 {
		sn.emit(fmt.Sprintf("Consolidation: %d low-confidence names joined existing clusters", reassigned), "info")
	}
}

func (sn *SupplierNormalizer) summarize(rawNames []string, entries map[string]*UniqueNameEntry, results []NormalizationResult) {
	clustered := 0
	individuals := 0
	errors := 0
	for _, r := range results {
		switch r.Method {
		case MethodLLMCluster, MethodAlgoCluster:
			clustered++
		case MethodFallback:
			errors++
		}
		if r.Individual {
			individuals++
		}
	}

	sn.emit("Normalization complete", "info")
	sn.log.Info("run summary",
		"rows", len(rawNames),
		"unique_names", len(entries),
		"clustered_rows", clustered,
		"individuals", individuals,
		"fallback_rows", errors,
	)
}
