package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
)

//go:embed tips.csv
var bundledTips []byte

// Source produces the records of the dataset. It is consulted once at
// startup.
type Source interface {
	Name() string
	Records(ctx context.Context) ([]Record, error)
}

// Load reads all records from src. Any failure is fatal for the
// dashboard: there is nothing to show without the dataset.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset from %s: %w", src.Name(), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("load dataset from %s: no records", src.Name())
	}
	return New(records, src.Name()), nil
}

// EmbeddedSource serves the CSV bundled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Name() string { return "embedded:tips.csv" }

func (EmbeddedSource) Records(context.Context) ([]Record, error) {
	return ParseCSV(bytes.NewReader(bundledTips))
}

// FileSource reads a CSV file from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Records(context.Context) ([]Record, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseCSV(file)
}
