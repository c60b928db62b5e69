package gateway

import (
	"github.com/go-faster/jx"

	"github.com/xenking/memcommerce-mcp/internal/catalog"
)

// Outcome is the per-record result of a best-effort create.
type Outcome[R any] struct {
	Record R
	Err    error
}

// OK reports whether the record was created and decoded.
func (o Outcome[R]) OK() bool {
	return o.Err == nil
}

// Failed counts outcomes with an error.
func Failed[R any](outcomes []Outcome[R]) int {
	var n int
	for _, o := range outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

// EncodeOutcomes writes outcomes as
//
//	[{"index":0,"ok":true,"record":{...}},{"index":1,"ok":false,"error":{"kind":"...","message":"..."}}]
func EncodeOutcomes[R catalog.Encoder](e *jx.Encoder, outcomes []Outcome[R]) {
	e.ArrStart()
	for i, o := range outcomes {
		e.ObjStart()
		e.FieldStart("index")
		e.Int(i)
		e.FieldStart("ok")
		e.Bool(o.OK())
		if o.OK() {
			e.FieldStart("record")
			o.Record.Encode(e)
		} else {
			e.FieldStart("error")
			e.ObjStart()
			e.FieldStart("kind")
			e.Str(string(Classify(o.Err)))
			e.FieldStart("message")
			e.Str(o.Err.Error())
			e.ObjEnd()
		}
		e.ObjEnd()
	}
	e.ArrEnd()
}

// MarshalOutcomes returns the JSON form of outcomes.
func MarshalOutcomes[R catalog.Encoder](outcomes []Outcome[R]) []byte {
	var e jx.Encoder
	EncodeOutcomes(&e, outcomes)
	return e.Bytes()
}
