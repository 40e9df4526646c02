package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// PostgresConfig holds connection details for a PostgreSQL source.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"` // "disable", "require"
}

// ConnString renders the config as a lib/pq keyword/value string.
func (c PostgresConfig) ConnString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// PostgresSource reads the tips table once at startup.
type PostgresSource struct {
	Config  PostgresConfig
	Table   string
	OrderBy string // optional column defining row order
}

func (s PostgresSource) Name() string {
	return fmt.Sprintf("postgres:%s/%s", s.Config.DBName, s.Table)
}

// Query builds the SELECT. Identifiers are quoted so the table name
// from config cannot inject SQL.
func (s PostgresSource) Query() string {
	cols := make([]string, len(Columns))
	for i, c := range Columns {
		cols[i] = pq.QuoteIdentifier(string(c))
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), quoteTable(s.Table))
	if s.OrderBy != "" {
		query += " ORDER BY " + pq.QuoteIdentifier(s.OrderBy)
	}
	return query
}

func (s PostgresSource) Records(ctx context.Context) ([]Record, error) {
	db, err := sql.Open("postgres", s.Config.ConnString())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	rows, err := db.QueryContext(ctx, s.Query())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// rowScanner is the subset of *sql.Rows used by scanRecords.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows rowScanner) ([]Record, error) {
	records := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.TotalBill, &rec.Tip, &rec.Sex, &rec.Smoker, &rec.Day, &rec.Time, &rec.Size); err != nil {
			return nil, err
		}
		rec.Sex = strings.TrimSpace(rec.Sex)
		rec.Smoker = strings.TrimSpace(rec.Smoker)
		rec.Day = strings.TrimSpace(rec.Day)
		rec.Time = strings.TrimSpace(rec.Time)

		if err := validateRecord(rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// quoteTable quotes a possibly schema-qualified table name.
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
