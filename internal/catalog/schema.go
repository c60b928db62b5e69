// Package catalog defines the commerce entities exchanged with the backend and
// the JSON codec that validates them.
//
// Every entity comes in two shapes: a write record (the fields sent on create)
// and a read record (the same fields plus the server-assigned ID). Both shapes
// share one field table and one set of `validate` rules per kind, so a read
// record is always checked against the same constraints as its write record.
package catalog

import (
	"fmt"
	"strings"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// FieldError describes a single missing or mistyped field.
type FieldError struct {
	Field  string
	Reason string
}

// SchemaError is returned when a JSON document does not match the expected
// entity shape. All offending fields of the object are reported together.
type SchemaError struct {
	Entity string
	// Index is the position of the object inside a decoded list, or -1.
	Index   int
	Fields  []FieldError
	Payload jx.Raw
}

func newSchemaError(entity string) *SchemaError {
	return &SchemaError{Entity: entity, Index: -1}
}

func (e *SchemaError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// FieldNames returns the names of the offending fields in report order.
func (e *SchemaError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field != "" {
			names = append(names, f.Field)
		}
	}
	return names
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("decode ")
	b.WriteString(e.Entity)
	if e.Index >= 0 {
		fmt.Fprintf(&b, "[%d]", e.Index)
	}
	b.WriteString(": ")
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteString("; ")
		}
		if f.Field != "" {
			b.WriteString(f.Field)
			b.WriteString(": ")
		}
		b.WriteString(f.Reason)
	}
	return b.String()
}

// field binds a JSON member name to exactly one typed destination.
type field struct {
	name string
	str  *string
	num  *decimal.Decimal
}

func strField(name string, v *string) field {
	return field{name: name, str: v}
}

func numField(name string, v *decimal.Decimal) field {
	return field{name: name, num: v}
}

func (f field) decode(d *jx.Decoder, serr *SchemaError) error {
	t := d.Next()
	switch {
	case f.str != nil:
		if t != jx.String {
			serr.add(f.name, "expected string, got "+t.String())
			return d.Skip()
		}
		v, err := d.Str()
		if err != nil {
			return err
		}
		*f.str = v
	case f.num != nil:
		if t != jx.Number {
			serr.add(f.name, "expected number, got "+t.String())
			return d.Skip()
		}
		n, err := d.Num()
		if err != nil {
			return err
		}
		v, err := decimal.NewFromString(string(n))
		if err != nil {
			serr.add(f.name, "invalid number "+string(n))
			return nil
		}
		*f.num = v
	}
	return nil
}

func (f field) encode(e *jx.Encoder) {
	e.FieldStart(f.name)
	switch {
	case f.str != nil:
		e.Str(*f.str)
	case f.num != nil:
		e.Num(jx.Num(f.num.String()))
	}
}

// decodeObject reads one JSON object into the bound fields of rec. Unknown
// members are skipped; every bound field is required. Value rules of rec run
// only once every field decoded cleanly.
func decodeObject(d *jx.Decoder, entity string, rec any, fields []field) error {
	serr := newSchemaError(entity)

	raw, err := d.Raw()
	if err != nil {
		serr.add("", "malformed JSON: "+err.Error())
		return serr
	}
	serr.Payload = raw

	if t := raw.Type(); t != jx.Object {
		serr.add("", "expected object, got "+t.String())
		return serr
	}

	seen := make([]bool, len(fields))
	if err := jx.DecodeBytes(raw).ObjBytes(func(d *jx.Decoder, key []byte) error {
		for i := range fields {
			if fields[i].name == string(key) {
				seen[i] = true
				return fields[i].decode(d, serr)
			}
		}
		return d.Skip()
	}); err != nil {
		serr.add("", "malformed JSON: "+err.Error())
		return serr
	}

	for i, f := range fields {
		if !seen[i] {
			serr.add(f.name, "field required")
		}
	}
	if len(serr.Fields) == 0 {
		checkRules(rec, serr)
	}
	if len(serr.Fields) > 0 {
		return serr
	}
	return nil
}

func encodeObject(e *jx.Encoder, fields []field) {
	e.ObjStart()
	for _, f := range fields {
		f.encode(e)
	}
	e.ObjEnd()
}
