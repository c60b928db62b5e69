package gateway

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"

	"github.com/xenking/memcommerce-mcp/internal/backend"
	"github.com/xenking/memcommerce-mcp/internal/catalog"
)

func TestClassify(t *testing.T) {
	berr := &backend.Error{Method: "GET", URL: "http://backend/sizes/", StatusCode: 502, Err: backend.ErrStatus}
	serr := &catalog.SchemaError{Entity: catalog.EntitySize, Index: 3, Fields: []catalog.FieldError{{Field: "label", Reason: "field required"}}}

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"transport", berr, KindBackendUnavailable},
		{"wrapped transport", errors.Wrap(berr, "list sizes"), KindBackendUnavailable},
		{"schema", serr, KindSchemaValidation},
		{"wrapped schema", errors.Wrap(serr, "decode"), KindSchemaValidation},
		{"gateway error keeps kind", &Error{Kind: KindSchemaValidation}, KindSchemaValidation},
		{"unknown", errors.New("something else"), KindBackendUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassify_SchemaIndexFromList(t *testing.T) {
	serr := &catalog.SchemaError{Entity: catalog.EntityColor, Index: 4}
	gerr := classify(catalog.EntityColor, OpFetchAll, -1, serr)

	assert.Equal(t, KindSchemaValidation, gerr.Kind)
	assert.Equal(t, 4, gerr.Index)
}

func TestError_Is(t *testing.T) {
	unavailable := &Error{Kind: KindBackendUnavailable, Index: -1}
	invalid := &Error{Kind: KindSchemaValidation, Index: -1}

	assert.ErrorIs(t, unavailable, ErrBackendUnavailable)
	assert.NotErrorIs(t, unavailable, ErrSchemaValidation)
	assert.ErrorIs(t, invalid, ErrSchemaValidation)
	assert.NotErrorIs(t, invalid, ErrBackendUnavailable)
	assert.ErrorIs(t, errors.Wrap(invalid, "tool"), ErrSchemaValidation)
}

func TestError_Message(t *testing.T) {
	berr := &backend.Error{Method: "POST", URL: "http://backend/sizes/", StatusCode: 503, Err: backend.ErrStatus}
	err := classify(catalog.EntitySize, OpCreateMany, 1, berr)

	assert.Equal(t, "BackendUnavailable: create_many size: item 1: POST http://backend/sizes/: status 503", err.Error())
	assert.Same(t, berr, errors.Unwrap(err))
}

func TestClassify_UnknownTransportFailureIsWrapped(t *testing.T) {
	err := classify(catalog.EntitySize, OpFetchAll, -1, errors.New("dial"))
	assert.Equal(t, KindBackendUnavailable, err.Kind)
	assert.Contains(t, err.Error(), "unexpected transport failure: dial")
}
