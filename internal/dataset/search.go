// Package dataset decodes a header-delimited CSV stream and filters its rows.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrEmptyDataset reports a CSV with no header row.
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrColumnNotFound reports that none of the requested columns exist in
	// the CSV header. Raised before any row is scanned.
	ErrColumnNotFound = errors.New("no requested column present in dataset")
)

// Row maps column names to cell values for one CSV record.
type Row map[string]string

// Result holds the matching rows plus the header order they were read in.
type Result struct {
	Headers []string
	Rows    []Row
}

// Search decodes r as a header-delimited CSV and returns every row where any
// of the requested columns contains value as a case-insensitive substring.
// Column names are matched against the header case-insensitively. A partial
// value matches: searching "027" finds a cell "10271".
func Search(r io.Reader, columns []string, value string) (*Result, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	targets := columnIndexes(headers, columns)
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: requested %s", ErrColumnNotFound, strings.Join(columns, ", "))
	}

	needle := strings.ToLower(value)
	result := &Result{Headers: headers}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		if !recordMatches(record, targets, needle) {
			continue
		}

		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// columnIndexes resolves requested column names to header positions.
func columnIndexes(headers, columns []string) []int {
	var idx []int
	for _, col := range columns {
		for i, h := range headers {
			if strings.EqualFold(h, strings.TrimSpace(col)) {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

func recordMatches(record []string, targets []int, needle string) bool {
	for _, i := range targets {
		if i >= len(record) {
			continue
		}
		if strings.Contains(strings.ToLower(record[i]), needle) {
			return true
		}
	}
	return false
}
