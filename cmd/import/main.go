// Command import merges phone numbers from a CSV export into the trusted
// numbers document. One-shot offline tool; run it while the server is
// stopped or let the server pick up the result on its next lookup.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/portvakt/portvakt/internal/allowlist"
	"github.com/portvakt/portvakt/internal/phone"
)

var phoneColumnHints = []string{"nummer", "number", "phone", "tel", "mobil", "mobile"}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <numbers.csv> [trusted_numbers.json]\n", os.Args[0])
		os.Exit(1)
	}

	csvPath := os.Args[1]
	outPath := filepath.Join("data", "trusted_numbers.json")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	numbers, err := readNumbers(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(numbers) == 0 {
		fmt.Fprintln(os.Stderr, "No valid phone numbers found in file")
		os.Exit(1)
	}

	fmt.Printf("Found %d unique valid phone numbers\n", len(numbers))

	store := allowlist.NewStore(outPath)
	added, err := store.Merge(numbers, fmt.Sprintf("Imported from %s", filepath.Base(csvPath)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saved to %s\n", outPath)
	fmt.Printf("  New numbers: %d\n", added)
	fmt.Printf("  Duplicates skipped: %d\n", len(numbers)-added)
}

// readNumbers scans the CSV for phone numbers. Columns whose header hints
// at phone data are preferred; if none match, every cell is scanned.
func readNumbers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	phoneCols := make([]int, 0, len(header))
	for i, col := range header {
		name := strings.ToLower(col)
		for _, hint := range phoneColumnHints {
			if strings.Contains(name, hint) {
				phoneCols = append(phoneCols, i)
				break
			}
		}
	}

	seen := make(map[string]bool)
	var numbers []string
	collect := func(value string) {
		if n, ok := phone.Clean(value); ok && !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}

	if len(phoneCols) > 0 {
		for _, row := range rows {
			for _, i := range phoneCols {
				if i < len(row) {
					collect(row[i])
				}
			}
		}
	}

	// No phone column found: scan every cell, including the header row in
	// case the file has no header at all.
	if len(numbers) == 0 {
		for _, cell := range header {
			collect(cell)
		}
		for _, row := range rows {
			for _, cell := range row {
				collect(cell)
			}
		}
	}

	sort.Strings(numbers)
	return numbers, nil
}
