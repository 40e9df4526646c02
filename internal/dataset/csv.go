package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

var ErrMissingColumn = errors.New("missing column")

// ParseCSV reads tips records from CSV. The header must name every
// schema column (any order, extra columns ignored). A malformed row
// fails the whole parse.
func ParseCSV(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectComma(data)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	index := make(map[Column]int, len(Columns))
	for i, h := range headers {
		if col, err := ParseColumn(strings.ToLower(strings.TrimSpace(h))); err == nil {
			index[col] = i
		}
	}
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	records := []Record{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(col Column) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec, err := parseRecord(field)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRecord(field func(Column) string) (Record, error) {
	var rec Record
	var err error

	if rec.TotalBill, err = strconv.ParseFloat(field(TotalBill), 64); err != nil {
		return rec, fmt.Errorf("%s: %w", TotalBill, err)
	}
	if rec.Tip, err = strconv.ParseFloat(field(Tip), 64); err != nil {
		return rec, fmt.Errorf("%s: %w", Tip, err)
	}
	if rec.Size, err = strconv.Atoi(field(Size)); err != nil {
		return rec, fmt.Errorf("%s: %w", Size, err)
	}
	rec.Sex = field(Sex)
	rec.Smoker = field(Smoker)
	rec.Day = field(Day)
	rec.Time = field(Time)

	return rec, validateRecord(rec)
}

// validateRecord checks the categorical labels and numeric ranges.
func validateRecord(rec Record) error {
	for col, allowed := range categories {
		v, _ := rec.Value(col)
		if !slices.Contains(allowed, v) {
			return fmt.Errorf("%s: unexpected value %q", col, v)
		}
	}
	if rec.TotalBill < 0 || rec.Tip < 0 {
		return fmt.Errorf("negative amount")
	}
	if rec.Size < 1 {
		return fmt.Errorf("%s: must be positive, got %d", Size, rec.Size)
	}
	return nil
}

// detectComma falls back to ';' when the header has no commas.
func detectComma(data []byte) rune {
	header, _, _ := bytes.Cut(data, []byte("\n"))
	if !bytes.Contains(header, []byte(",")) && bytes.Contains(header, []byte(";")) {
		return ';'
	}
	return ','
}
