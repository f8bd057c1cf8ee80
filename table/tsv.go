package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadTSV parses tab-separated content with a header row into result rows,
// one map per record keyed by column name. Useful for readers pulled out
// of archives, where there is no file path to hand to DuckDB.
func ReadTSV(r io.Reader) ([]map[string]interface{}, error) {
	return ReadDelimited(r, '\t')
}

// ReadDelimited is ReadTSV with a configurable separator.
func ReadDelimited(r io.Reader, comma rune) ([]map[string]interface{}, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input, expected a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %v", err)
	}

	var rows []map[string]interface{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %v", err)
		}
		row := make(map[string]interface{}, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
