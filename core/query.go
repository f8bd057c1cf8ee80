package core

import (
	"context"
)

// TableClient defines the interface for querying tabular data
type TableClient interface {
	// Query executes a SQL query and returns the results
	Query(ctx context.Context, query string) ([]map[string]interface{}, error)

	// Initialize sets up the query client
	Initialize() error

	// Close releases resources
	Close() error
}
