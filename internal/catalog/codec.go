package catalog

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Encoder is implemented by every record type.
type Encoder interface {
	Encode(e *jx.Encoder)
}

// Decoder is the pointer form of a record type T.
type Decoder[T any] interface {
	*T
	Decode(d *jx.Decoder) error
}

// Unmarshal decodes a single record from a JSON document.
func Unmarshal[T any, P Decoder[T]](data []byte) (T, error) {
	var v T
	if err := P(&v).Decode(jx.DecodeBytes(data)); err != nil {
		return v, err
	}
	return v, nil
}

// DecodeList decodes a JSON array element by element, preserving order. The
// first element that fails aborts the decode; its position is recorded in the
// returned *SchemaError. An empty array yields an empty, non-nil slice.
func DecodeList[T any, P Decoder[T]](entity string, data []byte) ([]T, error) {
	d := jx.DecodeBytes(data)
	if t := d.Next(); t != jx.Array {
		serr := newSchemaError(entity)
		serr.Payload = data
		serr.add("", "expected array, got "+t.String())
		return nil, serr
	}

	out := make([]T, 0)
	if err := d.Arr(func(d *jx.Decoder) error {
		var v T
		if err := P(&v).Decode(d); err != nil {
			var serr *SchemaError
			if errors.As(err, &serr) {
				serr.Index = len(out)
			}
			return err
		}
		out = append(out, v)
		return nil
	}); err != nil {
		var serr *SchemaError
		if errors.As(err, &serr) {
			return nil, serr
		}
		serr = newSchemaError(entity)
		serr.Payload = data
		serr.add("", "malformed JSON: "+err.Error())
		return nil, serr
	}
	return out, nil
}

// Marshal encodes a single record.
func Marshal(v Encoder) []byte {
	var e jx.Encoder
	v.Encode(&e)
	return e.Bytes()
}

// EncodeList writes records as a JSON array.
func EncodeList[T Encoder](e *jx.Encoder, items []T) {
	e.ArrStart()
	for _, item := range items {
		item.Encode(e)
	}
	e.ArrEnd()
}

// MarshalList encodes records as a JSON array.
func MarshalList[T Encoder](items []T) []byte {
	var e jx.Encoder
	EncodeList(&e, items)
	return e.Bytes()
}
