// Package table runs SQL over local delimited files through DuckDB and
// converts the results to Arrow records or JSON-friendly rows.
package table

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/dencangan/automation-framework/core"
	_ "github.com/marcboeker/go-duckdb/v2"
)

// Ensure Client implements the core.TableClient interface
var _ core.TableClient = (*Client)(nil)

// Client executes SQL against an in-process DuckDB instance.
type Client struct {
	DB *sql.DB
}

// NewClient creates a new Client
func NewClient() *Client {
	return &Client{}
}

// Initialize sets up the DuckDB connection
func (c *Client) Initialize() error {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %v", err)
	}
	c.DB = db
	return nil
}

// ReadCSV loads a delimited file into rows, letting DuckDB sniff the
// dialect (separator, header, column types).
func (c *Client) ReadCSV(ctx context.Context, path string) ([]map[string]interface{}, error) {
	return c.Query(ctx, fmt.Sprintf("SELECT * FROM read_csv_auto('%s')", escapePath(path)))
}

// Query executes a SQL query. File paths referenced with read_csv_auto or
// read_parquet resolve relative to the working directory.
func (c *Client) Query(ctx context.Context, query string) ([]map[string]interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Clean up the query string
	query = strings.TrimSpace(query)
	query = strings.ReplaceAll(query, "\n", " ")
	query = strings.ReplaceAll(query, "\r", " ")
	query = regexp.MustCompile(`\s+`).ReplaceAllString(query, " ")

	core.Debugf(ctx, "executing query: %s", query)

	stmt, err := c.DB.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query: %v", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %v", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %v", err)
	}

	var result []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}

		row := make(map[string]interface{})
		for i, col := range columns {
			row[col] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return result, nil
}

// Close releases resources
func (c *Client) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func escapePath(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}
