// Package arrays converts heterogeneous values into uniform one-dimensional
// Arrow arrays, preserving the exact width of fixed-width scalar inputs.
package arrays

import (
	"iter"
	"log"
	"reflect"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/float16"
	"github.com/apache/arrow/go/v14/arrow/memory"
)

// Array is a normalized one-dimensional result. Typed results carry an
// arrow.Array; unrecognized inputs are carried verbatim as opaque values.
type Array struct {
	kind Kind
	data arrow.Array
	raw  []any
}

// Kind reports the classified kind of the input that produced this array.
func (a Array) Kind() Kind { return a.kind }

// Len returns the number of elements.
func (a Array) Len() int {
	if a.data != nil {
		return a.data.Len()
	}
	return len(a.raw)
}

// Arrow returns the typed array, or nil for opaque results.
func (a Array) Arrow() arrow.Array { return a.data }

// Opaque returns the verbatim values of an opaque result, or nil otherwise.
func (a Array) Opaque() []any { return a.raw }

// Normalize converts each input, in order, into exactly one Array. The
// sequence is lazy: arrays are built as the consumer advances, one per
// positional input. No input raises an error; unrecognized kinds fall
// through to an opaque array with a warning.
func Normalize(vals ...any) iter.Seq[Array] {
	return func(yield func(Array) bool) {
		mem := memory.DefaultAllocator
		for _, v := range vals {
			if !yield(normalizeOne(mem, v)) {
				return
			}
		}
	}
}

// Collect is Normalize with the laziness drained into a slice.
func Collect(vals ...any) []Array {
	out := make([]Array, 0, len(vals))
	for a := range Normalize(vals...) {
		out = append(out, a)
	}
	return out
}

func normalizeOne(mem memory.Allocator, v any) Array {
	kind := KindOf(v)

	switch kind {
	case KindNull:
		return Array{kind: KindNull, data: array.NewNull(0)}

	case KindDate:
		b := array.NewDate32Builder(mem)
		defer b.Release()
		b.Append(arrow.Date32FromTime(v.(time.Time)))
		return Array{kind: KindDate, data: b.NewArray()}

	case KindArray:
		return Array{kind: KindArray, data: v.(arrow.Array)}

	case KindColumn:
		return normalizeColumn(mem, v)

	case KindSequence:
		return normalizeSequence(mem, v)

	case KindOpaque:
		log.Printf("data type %T is not configured, yielding opaque array", v)
		return Array{kind: KindOpaque, raw: []any{v}}
	}

	return normalizeScalar(mem, kind, v)
}

// normalizeColumn unwraps a column-like input to its underlying values.
// Multi-chunk inputs are stitched into a single contiguous array.
func normalizeColumn(mem memory.Allocator, v any) Array {
	var chunked *arrow.Chunked
	switch c := v.(type) {
	case *arrow.Column:
		chunked = c.Data()
	case *arrow.Chunked:
		chunked = c
	}

	chunks := chunked.Chunks()
	if len(chunks) == 1 {
		return Array{kind: KindColumn, data: chunks[0]}
	}

	joined, err := array.Concatenate(chunks, mem)
	if err != nil {
		log.Printf("failed to concatenate column chunks: %v", err)
		vals := make([]any, 0, chunked.Len())
		for _, chunk := range chunks {
			for i := 0; i < chunk.Len(); i++ {
				vals = append(vals, chunk.GetOneForMarshal(i))
			}
		}
		return Array{kind: KindOpaque, raw: vals}
	}
	return Array{kind: KindColumn, data: joined}
}

func normalizeScalar(mem memory.Allocator, kind Kind, v any) Array {
	var b array.Builder

	switch kind {
	case KindBool:
		bb := array.NewBooleanBuilder(mem)
		bb.Append(v.(bool))
		b = bb
	case KindInt8:
		bb := array.NewInt8Builder(mem)
		bb.Append(v.(int8))
		b = bb
	case KindInt16:
		bb := array.NewInt16Builder(mem)
		bb.Append(v.(int16))
		b = bb
	case KindInt32:
		bb := array.NewInt32Builder(mem)
		bb.Append(v.(int32))
		b = bb
	case KindInt64:
		bb := array.NewInt64Builder(mem)
		if i, ok := v.(int); ok {
			bb.Append(int64(i))
		} else {
			bb.Append(v.(int64))
		}
		b = bb
	case KindUint8:
		bb := array.NewUint8Builder(mem)
		bb.Append(v.(uint8))
		b = bb
	case KindUint16:
		bb := array.NewUint16Builder(mem)
		bb.Append(v.(uint16))
		b = bb
	case KindUint32:
		bb := array.NewUint32Builder(mem)
		bb.Append(v.(uint32))
		b = bb
	case KindUint64:
		bb := array.NewUint64Builder(mem)
		if u, ok := v.(uint); ok {
			bb.Append(uint64(u))
		} else {
			bb.Append(v.(uint64))
		}
		b = bb
	case KindFloat16:
		bb := array.NewFloat16Builder(mem)
		bb.Append(v.(float16.Num))
		b = bb
	case KindFloat32:
		bb := array.NewFloat32Builder(mem)
		bb.Append(v.(float32))
		b = bb
	case KindFloat64:
		bb := array.NewFloat64Builder(mem)
		bb.Append(v.(float64))
		b = bb
	case KindString:
		bb := array.NewStringBuilder(mem)
		bb.Append(v.(string))
		b = bb
	default:
		log.Printf("data type %T is not configured, yielding opaque array", v)
		return Array{kind: KindOpaque, raw: []any{v}}
	}

	defer b.Release()
	return Array{kind: kind, data: b.NewArray()}
}

// normalizeSequence builds an array from the elements of a slice. Typed
// slices map straight onto their Arrow element type. []any resolves to a
// typed array when all elements classify to the same scalar kind; mixed
// or unrecognized elements fall back to an opaque array of the elements.
func normalizeSequence(mem memory.Allocator, v any) Array {
	switch s := v.(type) {
	case []bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []int8:
		b := array.NewInt8Builder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []int16:
		b := array.NewInt16Builder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []int32:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []int:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for _, e := range s {
			b.Append(int64(e))
		}
		return Array{kind: KindSequence, data: b.NewArray()}
	case []uint8:
		b := array.NewUint8Builder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []uint16:
		b := array.NewUint16Builder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []uint32:
		b := array.NewUint32Builder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []uint64:
		b := array.NewUint64Builder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []float32:
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []string:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(s, nil)
		return Array{kind: KindSequence, data: b.NewArray()}
	case []time.Time:
		b := array.NewDate32Builder(mem)
		defer b.Release()
		for _, t := range s {
			b.Append(arrow.Date32FromTime(t))
		}
		return Array{kind: KindSequence, data: b.NewArray()}
	case []any:
		return normalizeAnySequence(mem, s)
	}

	// Some other slice or array type: unpack via reflection and retry as []any.
	rv := reflect.ValueOf(v)
	elems := make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return normalizeAnySequence(mem, elems)
}

func normalizeAnySequence(mem memory.Allocator, elems []any) Array {
	if len(elems) == 0 {
		return Array{kind: KindSequence, data: array.NewNull(0)}
	}

	common := KindOf(elems[0])
	for _, e := range elems[1:] {
		if KindOf(e) != common {
			common = KindOpaque
			break
		}
	}

	switch common {
	case KindBool, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat16, KindFloat32, KindFloat64, KindString, KindDate:
		b := builderFor(mem, common)
		defer b.Release()
		for _, e := range elems {
			appendScalar(b, common, e)
		}
		return Array{kind: KindSequence, data: b.NewArray()}
	}

	log.Printf("mixed or unconfigured sequence elements, yielding opaque array")
	return Array{kind: KindOpaque, raw: elems}
}

func builderFor(mem memory.Allocator, kind Kind) array.Builder {
	switch kind {
	case KindBool:
		return array.NewBooleanBuilder(mem)
	case KindInt8:
		return array.NewInt8Builder(mem)
	case KindInt16:
		return array.NewInt16Builder(mem)
	case KindInt32:
		return array.NewInt32Builder(mem)
	case KindInt64:
		return array.NewInt64Builder(mem)
	case KindUint8:
		return array.NewUint8Builder(mem)
	case KindUint16:
		return array.NewUint16Builder(mem)
	case KindUint32:
		return array.NewUint32Builder(mem)
	case KindUint64:
		return array.NewUint64Builder(mem)
	case KindFloat16:
		return array.NewFloat16Builder(mem)
	case KindFloat32:
		return array.NewFloat32Builder(mem)
	case KindFloat64:
		return array.NewFloat64Builder(mem)
	case KindString:
		return array.NewStringBuilder(mem)
	case KindDate:
		return array.NewDate32Builder(mem)
	}
	return array.NewStringBuilder(mem)
}

func appendScalar(b array.Builder, kind Kind, v any) {
	switch kind {
	case KindBool:
		b.(*array.BooleanBuilder).Append(v.(bool))
	case KindInt8:
		b.(*array.Int8Builder).Append(v.(int8))
	case KindInt16:
		b.(*array.Int16Builder).Append(v.(int16))
	case KindInt32:
		b.(*array.Int32Builder).Append(v.(int32))
	case KindInt64:
		if i, ok := v.(int); ok {
			b.(*array.Int64Builder).Append(int64(i))
		} else {
			b.(*array.Int64Builder).Append(v.(int64))
		}
	case KindUint8:
		b.(*array.Uint8Builder).Append(v.(uint8))
	case KindUint16:
		b.(*array.Uint16Builder).Append(v.(uint16))
	case KindUint32:
		b.(*array.Uint32Builder).Append(v.(uint32))
	case KindUint64:
		if u, ok := v.(uint); ok {
			b.(*array.Uint64Builder).Append(uint64(u))
		} else {
			b.(*array.Uint64Builder).Append(v.(uint64))
		}
	case KindFloat16:
		b.(*array.Float16Builder).Append(v.(float16.Num))
	case KindFloat32:
		b.(*array.Float32Builder).Append(v.(float32))
	case KindFloat64:
		b.(*array.Float64Builder).Append(v.(float64))
	case KindString:
		b.(*array.StringBuilder).Append(v.(string))
	case KindDate:
		b.(*array.Date32Builder).Append(arrow.Date32FromTime(v.(time.Time)))
	}
}
