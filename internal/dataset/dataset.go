// Package dataset holds the tips records in memory and exposes the
// filtering and grouping primitives the chart builders need.
package dataset

import (
	"errors"
	"fmt"
	"strconv"
)

// Column names a dataset column.
type Column string

const (
	TotalBill Column = "total_bill"
	Tip       Column = "tip"
	Sex       Column = "sex"
	Smoker    Column = "smoker"
	Day       Column = "day"
	Time      Column = "time"
	Size      Column = "size"
)

// Columns is the schema in table order.
var Columns = []Column{TotalBill, Tip, Sex, Smoker, Day, Time, Size}

var (
	ErrUnknownColumn  = errors.New("unknown column")
	ErrNotNumeric     = errors.New("column is not numeric")
	ErrNotCategorical = errors.New("column is not categorical")
)

// categories lists the accepted labels of each categorical column.
var categories = map[Column][]string{
	Sex:    {"Male", "Female"},
	Smoker: {"Yes", "No"},
	Day:    {"Thur", "Fri", "Sat", "Sun"},
	Time:   {"Lunch", "Dinner"},
}

// ParseColumn maps a column name to a Column.
func ParseColumn(name string) (Column, error) {
	for _, c := range Columns {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// IsCategorical reports whether the column can be used as a group key.
func IsCategorical(col Column) bool {
	_, ok := categories[col]
	return ok
}

// IsNumeric reports whether the column holds numbers.
func IsNumeric(col Column) bool {
	return col == TotalBill || col == Tip || col == Size
}

// Record is one restaurant bill.
type Record struct {
	TotalBill float64 `json:"total_bill"`
	Tip       float64 `json:"tip"`
	Sex       string  `json:"sex"`
	Smoker    string  `json:"smoker"`
	Day       string  `json:"day"`
	Time      string  `json:"time"`
	Size      int     `json:"size"`
}

// Value returns the column's value formatted for display and comparison.
func (r Record) Value(col Column) (string, error) {
	switch col {
	case TotalBill:
		return strconv.FormatFloat(r.TotalBill, 'f', -1, 64), nil
	case Tip:
		return strconv.FormatFloat(r.Tip, 'f', -1, 64), nil
	case Sex:
		return r.Sex, nil
	case Smoker:
		return r.Smoker, nil
	case Day:
		return r.Day, nil
	case Time:
		return r.Time, nil
	case Size:
		return strconv.Itoa(r.Size), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, col)
}

// Float returns a numeric column's value.
func (r Record) Float(col Column) (float64, error) {
	switch col {
	case TotalBill:
		return r.TotalBill, nil
	case Tip:
		return r.Tip, nil
	case Size:
		return float64(r.Size), nil
	}
	if _, err := ParseColumn(string(col)); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%w: %q", ErrNotNumeric, col)
}

// Dataset is an ordered, read-only collection of records. Nothing
// mutates it after construction, so it is safe to share between
// goroutines.
type Dataset struct {
	records []Record
	source  string
}

// New copies records into a Dataset. source names where they came from.
func New(records []Record, source string) *Dataset {
	owned := make([]Record, len(records))
	copy(owned, records)
	return &Dataset{records: owned, source: source}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Columns returns the header of the table view.
func (d *Dataset) Columns() []string {
	out := make([]string, len(Columns))
	for i, col := range Columns {
		out[i] = string(col)
	}
	return out
}

// Source names the resource the records were loaded from.
func (d *Dataset) Source() string {
	return d.source
}

// Records returns a copy of all records in load order.
func (d *Dataset) Records() []Record {
	return d.Head(len(d.records))
}

// Head returns a copy of at most n leading records.
func (d *Dataset) Head(n int) []Record {
	if n > len(d.records) {
		n = len(d.records)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Record, n)
	copy(out, d.records[:n])
	return out
}

// FilterBy returns the records whose column equals value, in load order.
func (d *Dataset) FilterBy(col Column, value string) ([]Record, error) {
	if _, err := ParseColumn(string(col)); err != nil {
		return nil, err
	}

	filtered := []Record{}
	for _, rec := range d.records {
		v, _ := rec.Value(col)
		if v == value {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// DistinctValues returns the unique values of a column in first-seen
// order. The order decides series draw order and color assignment.
func (d *Dataset) DistinctValues(col Column) ([]string, error) {
	if _, err := ParseColumn(string(col)); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	values := []string{}
	for _, rec := range d.records {
		v, _ := rec.Value(col)
		if seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values, nil
}
