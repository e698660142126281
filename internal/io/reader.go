package io

import (
	"encoding/csv"
	"errors"
	"fmt"
	stdio "io"
	"os"
	"strings"

	"github.com/williampepple1/year-checker/internal/config"
)

var (
	// ErrInputNotFound is returned when the identifier file does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrEmptyInput is returned when the identifier file holds no usable IDs.
	ErrEmptyInput = errors.New("input file has no valid IDs")
)

// IDColumn is the preferred identifier column header
const IDColumn = "ID"

// missingValues are cell values treated as empty, the usual NA spellings of
// spreadsheet and dataframe exports. Matching is case-sensitive.
var missingValues = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "1.#IND": true, "1.#QNAN": true,
	"-NaN": true, "-nan": true, "NaN": true, "nan": true,
	"<NA>": true, "N/A": true, "n/a": true, "NA": true,
	"NULL": true, "null": true, "None": true,
}

// IsMissing reports whether a trimmed cell value stands for "no value"
func IsMissing(v string) bool {
	return v == "" || missingValues[v]
}

// IDReader reads identifiers from the configured CSV source
type IDReader struct {
	Config *config.IOConfig
}

// NewIDReader creates a new identifier reader
func NewIDReader(config *config.IOConfig) *IDReader {
	return &IDReader{
		Config: config,
	}
}

// ResolveInputFile picks the file to read. In auto mode the production file
// is used when it exists and the bundled example otherwise.
func (r *IDReader) ResolveInputFile() string {
	switch r.Config.Mode {
	case config.ModeProd:
		return r.Config.ProdFile
	case config.ModeExample:
		return r.Config.ExampleFile
	}
	if _, err := os.Stat(r.Config.ProdFile); err == nil {
		return r.Config.ProdFile
	}
	return r.Config.ExampleFile
}

// IsExample reports whether path is the bundled example file
func (r *IDReader) IsExample(path string) bool {
	return path == r.Config.ExampleFile
}

// ReadFromFile reads identifiers from a CSV file with a header row.
// The ID column is used when present, otherwise the first column.
// Values are trimmed; blanks and NA placeholders are dropped.
func (r *IDReader) ReadFromFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, filename)
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, stdio.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", ErrEmptyInput, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	col := 0
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == IDColumn {
			col = i
			break
		}
	}

	var ids []string
	for {
		record, err := reader.Read()
		if errors.Is(err, stdio.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filename, err)
		}
		if col >= len(record) {
			continue
		}
		id := strings.TrimSpace(record[col])
		if IsMissing(id) {
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, filename)
	}
	return ids, nil
}

// GetIDs resolves the input file and reads identifiers from it
func (r *IDReader) GetIDs() ([]string, string, error) {
	path := r.ResolveInputFile()
	ids, err := r.ReadFromFile(path)
	return ids, path, err
}

// StartFrom drops the identifiers before the 1-based position n.
// Positions below 1 are treated as 1.
func StartFrom(ids []string, n int) []string {
	if n < 1 {
		n = 1
	}
	if n-1 >= len(ids) {
		return []string{}
	}
	return ids[n-1:]
}
