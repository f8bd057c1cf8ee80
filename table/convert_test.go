package table

import (
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToArrow(t *testing.T) {
	results := []map[string]interface{}{
		{"count": int64(3), "name": "alpha", "ok": true},
		{"count": int64(5), "name": "beta", "ok": false},
		{"count": nil, "name": "gamma", "ok": true},
	}

	schema, record, err := ToArrow(results)
	require.NoError(t, err)
	require.Equal(t, int64(3), record.NumRows())
	require.Equal(t, int64(3), record.NumCols())

	// Columns are sorted by name: count, name, ok
	assert.Equal(t, arrow.PrimitiveTypes.Int64, schema.Field(0).Type)
	assert.Equal(t, arrow.BinaryTypes.String, schema.Field(1).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Boolean, schema.Field(2).Type)

	counts := record.Column(0).(*array.Int64)
	assert.Equal(t, int64(3), counts.Value(0))
	assert.True(t, counts.IsNull(2))

	names := record.Column(1).(*array.String)
	assert.Equal(t, "gamma", names.Value(2))
}

func TestToArrowEmpty(t *testing.T) {
	_, _, err := ToArrow(nil)
	assert.Error(t, err)
}

func TestToArrowTimestamps(t *testing.T) {
	stamp := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	results := []map[string]interface{}{
		{"time": stamp},
		{"time": "2024-01-02T00:00:00Z"},
		{"time": "not a time"},
	}

	_, record, err := ToArrow(results)
	require.NoError(t, err)

	col := record.Column(0).(*array.Timestamp)
	assert.Equal(t, arrow.Timestamp(stamp.UnixMicro()), col.Value(0))
	assert.False(t, col.IsNull(1))
	assert.True(t, col.IsNull(2))
}

func TestProcessForJSON(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	results := []map[string]interface{}{
		{"big": int64(9007199254740993), "when": stamp, "plain": "x", "none": nil},
	}

	got := ProcessForJSON(results)
	require.Len(t, got, 1)
	assert.Equal(t, "9007199254740993", got[0]["big"])
	assert.Equal(t, "2024-03-01T00:00:00Z", got[0]["when"])
	assert.Equal(t, "x", got[0]["plain"])
	assert.Nil(t, got[0]["none"])
}

func TestReadTSV(t *testing.T) {
	input := "id\tname\n1\talpha\n2\tbeta\n"

	rows, err := ReadTSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0]["id"])
	assert.Equal(t, "beta", rows[1]["name"])
}

func TestReadTSVEmpty(t *testing.T) {
	_, err := ReadTSV(strings.NewReader(""))
	assert.Error(t, err)
}
