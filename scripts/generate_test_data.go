package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// Supplier-name test data generator. Produces a messy CSV the way ERP
// exports look in practice: duplicate companies under different legal
// suffixes and casings, person names, numeric junk and blank rows.

var legalSuffixes = []string{"Inc", "Inc.", "LLC", "Ltd", "Ltd.", "Corp", "Corporation", "Co", "Company", "GmbH", "Pvt Ltd", "Pte Ltd"}

var decorations = []string{"", "", "", " (USA)", " (India)", " International", " Group", " Holdings"}

func variantsOf(base string, n int) []string {
	variants := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := base
		if gofakeit.Bool() {
			name += " " + legalSuffixes[gofakeit.Number(0, len(legalSuffixes)-1)]
		}
		name += decorations[gofakeit.Number(0, len(decorations)-1)]
		switch gofakeit.Number(0, 5) {
		case 0:
			name = strings.ToUpper(name)
		case 1:
			name = strings.ToLower(name)
		case 2:
			name = "The " + name
		}
		variants = append(variants, name)
	}
	return variants
}

func main() {
	out := flag.String("out", "testdata_suppliers.csv", "Output CSV path")
	companies := flag.Int("companies", 200, "Distinct companies to generate")
	rows := flag.Int("rows", 1000, "Total data rows")
	seed := flag.Int64("seed", 0, "Random seed")
	flag.Parse()

	gofakeit.Seed(*seed)

	var pool []string
	for i := 0; i < *companies; i++ {
		base := gofakeit.Company()
		pool = append(pool, variantsOf(base, gofakeit.Number(1, 5))...)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ID", "Supplier Name", "Amount"}); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	for i := 0; i < *rows; i++ {
		var name string
		switch gofakeit.Number(0, 19) {
		case 0:
			// Person payee, not a company.
			name = gofakeit.FirstName() + " " + gofakeit.LastName()
		case 1:
			name = ""
		case 2:
			name = fmt.Sprintf("%d", gofakeit.Number(1000, 99999))
		default:
			name = pool[gofakeit.Number(0, len(pool)-1)]
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			name,
			fmt.Sprintf("%.2f", gofakeit.Price(10, 100000)),
		}
		if err := w.Write(row); err != nil {
			log.Fatalf("Failed to write row %d: %v", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Failed to flush CSV: %v", err)
	}

	fmt.Printf("Generated %d rows (%d distinct variants) in %s\n", *rows, len(pool), *out)
}
