package table

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
)

// ToArrow converts query result rows into an Arrow record. Column types
// come from the first non-null value seen per column; values that do not
// fit the column type become nulls.
func ToArrow(results []map[string]interface{}) (*arrow.Schema, arrow.Record, error) {
	if len(results) == 0 {
		return nil, nil, fmt.Errorf("no results to convert")
	}

	names := make([]string, 0, len(results[0]))
	for name := range results[0] {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: columnType(name, results), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	mem := memory.DefaultAllocator
	arrays := make([]arrow.Array, len(fields))
	for i, field := range fields {
		builder := array.NewBuilder(mem, field.Type)
		for _, row := range results {
			appendCell(builder, row[field.Name])
		}
		arrays[i] = builder.NewArray()
		builder.Release()
	}

	return schema, array.NewRecord(schema, arrays, int64(len(results))), nil
}

// columnType infers the Arrow type for a column from its first non-null
// value, defaulting to string.
func columnType(name string, results []map[string]interface{}) arrow.DataType {
	for _, row := range results {
		switch row[name].(type) {
		case nil:
			continue
		case int, int32, int64:
			return arrow.PrimitiveTypes.Int64
		case float32, float64:
			return arrow.PrimitiveTypes.Float64
		case bool:
			return arrow.FixedWidthTypes.Boolean
		case time.Time:
			return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
		default:
			return arrow.BinaryTypes.String
		}
	}
	return arrow.BinaryTypes.String
}

func appendCell(builder array.Builder, val interface{}) {
	if val == nil {
		builder.AppendNull()
		return
	}

	switch b := builder.(type) {
	case *array.Int64Builder:
		switch v := val.(type) {
		case int:
			b.Append(int64(v))
		case int32:
			b.Append(int64(v))
		case int64:
			b.Append(v)
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				b.Append(n)
			} else {
				b.AppendNull()
			}
		default:
			b.AppendNull()
		}
	case *array.Float64Builder:
		switch v := val.(type) {
		case float32:
			b.Append(float64(v))
		case float64:
			b.Append(v)
		case int64:
			b.Append(float64(v))
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				b.Append(f)
			} else {
				b.AppendNull()
			}
		default:
			b.AppendNull()
		}
	case *array.BooleanBuilder:
		switch v := val.(type) {
		case bool:
			b.Append(v)
		case string:
			if parsed, err := strconv.ParseBool(v); err == nil {
				b.Append(parsed)
			} else {
				b.AppendNull()
			}
		default:
			b.AppendNull()
		}
	case *array.TimestampBuilder:
		switch v := val.(type) {
		case time.Time:
			b.Append(arrow.Timestamp(v.UTC().UnixMicro()))
		case string:
			if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
				b.Append(arrow.Timestamp(t.UTC().UnixMicro()))
			} else {
				b.AppendNull()
			}
		default:
			b.AppendNull()
		}
	case *array.StringBuilder:
		b.Append(fmt.Sprintf("%v", val))
	default:
		log.Printf("no append rule for builder %T, writing null", builder)
		builder.AppendNull()
	}
}

// ProcessForJSON prepares result rows for JSON serialization
func ProcessForJSON(results []map[string]interface{}) []map[string]interface{} {
	processed := make([]map[string]interface{}, len(results))

	for i, row := range results {
		processedRow := make(map[string]interface{})
		for key, value := range row {
			switch v := value.(type) {
			case nil:
				processedRow[key] = nil
			case int64:
				// Convert int64 to string for JSON
				processedRow[key] = strconv.FormatInt(v, 10)
			case time.Time:
				processedRow[key] = v.Format(time.RFC3339Nano)
			default:
				processedRow[key] = v
			}
		}
		processed[i] = processedRow
	}

	return processed
}
