// Package convert rewrites delimited files into other formats.
package convert

import (
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

// CSVToJSON converts a CSV file with a header row into an indented JSON
// object keyed by the value of keyColumn, one entry per record. Records
// sharing a key overwrite earlier ones, last record wins.
func CSVToJSON(fs afero.Fs, src, dst, keyColumn string) error {
	f, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", src, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %v", src, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%s is empty, expected a header row", src)
	}

	header := records[0]
	keyIdx := -1
	for i, name := range header {
		if name == keyColumn {
			keyIdx = i
			break
		}
	}
	if keyIdx == -1 {
		return fmt.Errorf("column %q not found in %s", keyColumn, src)
	}

	data := make(map[string]map[string]string, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		data[record[keyIdx]] = row
	}

	out, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, dst, out, 0o644)
}
