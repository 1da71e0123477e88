package offer

import (
	"encoding/json"
	"sort"
)

// Kind tags the type held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindNumber
	KindText
	KindChoice
)

// Value is one extracted field value.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Number returns a numeric value.
func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

// Text returns a string value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// ChoiceValue returns a dropdown value.
func ChoiceValue(c Choice) Value { return Value{kind: KindChoice, text: string(c)} }

// Absent marks a field that was looked for and not found.
func Absent() Value { return Value{} }

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric value and whether v is a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// String returns the text of v, or "" for numbers and absent values.
func (v Value) String() string { return v.text }

// Interface returns float64, string, or nil for an absent value.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText, KindChoice:
		return v.text
	default:
		return nil
	}
}

// MarshalJSON encodes v as a number, a string, or null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Record is the extraction result of one document, keyed by field.
type Record struct {
	values map[Field]Value
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{values: make(map[Field]Value)}
}

// Set stores v under f.
func (r Record) Set(f Field, v Value) {
	r.values[f] = v
}

// Get returns the value of f and whether f is present.
func (r Record) Get(f Field) (Value, bool) {
	v, ok := r.values[f]
	return v, ok
}

// Delete removes f.
func (r Record) Delete(f Field) {
	delete(r.values, f)
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.values)
}

// Fields returns the fields in row order.
func (r Record) Fields() []Field {
	fields := make([]Field, 0, len(r.values))
	for f := range r.values {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// Rows returns the values keyed by spreadsheet row.
func (r Record) Rows() map[int]any {
	rows := make(map[int]any, len(r.values))
	for f, v := range r.values {
		rows[f.Row()] = v.Interface()
	}
	return rows
}

// MarshalJSON encodes the record as an object keyed by field name.
func (r Record) MarshalJSON() ([]byte, error) {
	named := make(map[string]Value, len(r.values))
	for f, v := range r.values {
		named[f.String()] = v
	}
	return json.Marshal(named)
}
