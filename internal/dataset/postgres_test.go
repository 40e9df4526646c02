package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (f *fakeRows) Next() bool {
	f.pos++
	return f.pos <= len(f.rows)
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.rows[f.pos-1]
	if len(row) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i, v := range row {
		switch d := dest[i].(type) {
		case *float64:
			*d = v.(float64)
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		}
	}
	return nil
}

func (f *fakeRows) Err() error { return f.err }

func TestPostgresConfig_ConnString(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "tips"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=tips sslmode=disable", cfg.ConnString())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.ConnString(), "sslmode=require")
}

func TestPostgresSource_Query(t *testing.T) {
	src := PostgresSource{Table: "public.tips", OrderBy: "id"}
	assert.Equal(t,
		`SELECT "total_bill", "tip", "sex", "smoker", "day", "time", "size" FROM "public"."tips" ORDER BY "id"`,
		src.Query())

	src = PostgresSource{Table: `tips"; DROP TABLE x; --`}
	assert.Contains(t, src.Query(), `FROM "tips""; DROP TABLE x; --"`)
}

func TestScanRecords(t *testing.T) {
	rows := &fakeRows{rows: [][]any{
		{16.99, 1.01, "Female", "No", "Sun", "Dinner", 2},
		{10.34, 1.66, "Male ", "No", "Sun", "Dinner", 3},
	}}

	records, err := scanRecords(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Male", records[1].Sex)
}

func TestScanRecords_Invalid(t *testing.T) {
	rows := &fakeRows{rows: [][]any{
		{16.99, 1.01, "Female", "Maybe", "Sun", "Dinner", 2},
	}}

	_, err := scanRecords(rows)
	assert.ErrorContains(t, err, "row 1")
}

func TestScanRecords_RowsErr(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := scanRecords(&fakeRows{err: boom})
	assert.ErrorIs(t, err, boom)
}
