package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"suppliernorm/ai"
	"suppliernorm/importer"
	"suppliernorm/internal/config"
	"suppliernorm/normalization"
	"suppliernorm/server"
)

func main() {
	input := flag.String("input", "", "Input CSV or XLSX file with supplier names")
	output := flag.String("output", "suppliers_normalized", "Output base path; _full/_mapping/_clusters CSVs are derived from it")
	column := flag.String("column", "", "Supplier column header (auto-detected when empty)")
	columnIndex := flag.Int("column-index", -1, "Supplier column index (overrides auto-detection when >= 0)")
	mode := flag.String("mode", "", "Resolution mode: hybrid or semantic (default from config)")
	excel := flag.Bool("excel", false, "Write XLSX instead of CSV")
	flag.Parse()

	if *input == "" {
		log.Fatal("-input is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	server.SetupLogger(cfg.LogLevel)

	spec := importer.AutoDetect()
	if *column != "" {
		spec = importer.ColumnSpec{Header: *column}
	} else if *columnIndex >= 0 {
		spec = importer.ColumnSpec{Index: *columnIndex}
	}

	names, err := importer.ReadNamesFile(*input, spec)
	if err != nil {
		log.Fatalf("failed to read supplier names: %v", err)
	}

	var oracle normalization.GroupingOracle
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewGeminiClient(cfg.GeminiAPIKey,
			ai.WithGeminiModel(cfg.GeminiModel),
			ai.WithGeminiMaxRPM(cfg.MaxRPM),
			ai.WithGeminiHTTPClient(&http.Client{Timeout: cfg.AITimeout}),
		)
		if err != nil {
			log.Fatalf("failed to create Gemini client: %v", err)
		}
		oracle = ai.NewOracle(client)
	} else if cfg.Mode == normalization.ModeSemantic {
		log.Fatal("semantic mode requires GEMINI_API_KEY")
	}

	normalizer, err := normalization.NewSupplierNormalizer(normalization.Options{
		Mode:             cfg.Mode,
		Oracle:           oracle,
		BatchSize:        cfg.BatchSize,
		ConfirmBatchSize: cfg.ConfirmBatchSize,
		MinGroupSize:     cfg.MinGroupSize,
		Cluster: normalization.ClusterConfig{
			Threshold:        cfg.ClusterThreshold,
			ConfirmThreshold: cfg.ConfirmThreshold,
		},
		Retry: normalization.RetryConfig{
			MaxRetries: cfg.MaxRetries,
			ErrorDelay: normalization.DefaultErrorDelay,
		},
		Progress: func(msg, level string) {
			if level == "error" || level == "warning" {
				fmt.Printf("[%s] %s\n", strings.ToUpper(level), msg)
			}
		},
	})
	if err != nil {
		log.Fatalf("failed to build normalizer: %v", err)
	}

	started := time.Now()
	results := normalizer.Normalize(context.Background(), names)

	format := normalization.FormatCSV
	ext := ".csv"
	if *excel {
		format = normalization.FormatExcel
		ext = ".xlsx"
	}

	base := strings.TrimSuffix(*output, filepath.Ext(*output))
	exporter := normalization.NewExporter()
	views := []normalization.ExportView{
		normalization.ViewFull,
		normalization.ViewMapping,
		normalization.ViewClusters,
	}
	for _, view := range views {
		path := fmt.Sprintf("%s_%s%s", base, view, ext)
		if err := exporter.ExportFile(path, format, view, results); err != nil {
			log.Fatalf("failed to export %s view: %v", view, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}

	byMethod := make(map[string]int)
	for _, r := range results {
		byMethod[r.Method]++
	}

	fmt.Println("\n--- Supplier Name Normalization ---")
	fmt.Printf("Input: %s\n", *input)
	fmt.Printf("Mode: %s\n", cfg.Mode)
	fmt.Printf("Total Rows: %d\n", len(results))
	for _, method := range []string{
		normalization.MethodSingleton,
		normalization.MethodAlgoCluster,
		normalization.MethodLLMCluster,
		normalization.MethodLLMSingle,
		normalization.MethodLLMMissed,
		normalization.MethodFallback,
		normalization.MethodPassthrough,
	} {
		if n := byMethod[method]; n > 0 {
			fmt.Printf(" - %s: %d\n", method, n)
		}
	}
	fmt.Printf("Duration: %s\n", time.Since(started).Round(time.Millisecond))
}
