package arrays

import (
	"reflect"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/float16"
)

// Kind tags the semantic type of a normalization input. Classification
// happens once, before any dispatch, so the fallback path is an explicit
// variant rather than an implicit catch-all.
type Kind int

const (
	KindOpaque Kind = iota
	KindNull
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat16
	KindFloat32
	KindFloat64
	KindString
	KindDate
	KindSequence
	KindArray
	KindColumn
)

var kindNames = map[Kind]string{
	KindOpaque:   "opaque",
	KindNull:     "null",
	KindBool:     "bool",
	KindInt8:     "int8",
	KindInt16:    "int16",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindUint8:    "uint8",
	KindUint16:   "uint16",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindFloat16:  "float16",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindString:   "string",
	KindDate:     "date",
	KindSequence: "sequence",
	KindArray:    "array",
	KindColumn:   "column",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// KindOf classifies a value. Order matters: dates before scalars, container
// shapes before scalars, so container types are never misread as scalars.
func KindOf(v any) Kind {
	if v == nil {
		return KindNull
	}

	switch v.(type) {
	case time.Time:
		return KindDate
	case *arrow.Column:
		return KindColumn
	case *arrow.Chunked:
		return KindColumn
	}

	if _, ok := v.(arrow.Array); ok {
		return KindArray
	}

	switch v.(type) {
	case bool:
		return KindBool
	case int8:
		return KindInt8
	case int16:
		return KindInt16
	case int32:
		return KindInt32
	case int64, int:
		return KindInt64
	case uint8:
		return KindUint8
	case uint16:
		return KindUint16
	case uint32:
		return KindUint32
	case uint64, uint:
		return KindUint64
	case float16.Num:
		return KindFloat16
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	case string:
		return KindString
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return KindSequence
	}

	return KindOpaque
}
