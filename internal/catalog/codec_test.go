package catalog

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSchemaError(t *testing.T, err error) *SchemaError {
	t.Helper()
	var serr *SchemaError
	require.True(t, errors.As(err, &serr), "expected *SchemaError, got %T: %v", err, err)
	return serr
}

func TestUnmarshal_Category(t *testing.T) {
	c, err := Unmarshal[Category]([]byte(`{"id":"c1","name":"Shoes","description":"Footwear"}`))
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, CategoryData{Name: "Shoes", Description: "Footwear"}, c.CategoryData)
}

func TestUnmarshal_IgnoresUnknownFields(t *testing.T) {
	s, err := Unmarshal[Size]([]byte(`{"id":"s1","label":"XL","created_at":"2024-01-01","meta":{"a":[1,2]}}`))
	require.NoError(t, err)
	assert.Equal(t, "XL", s.Label)
}

func TestUnmarshal_MissingField(t *testing.T) {
	_, err := Unmarshal[Color]([]byte(`{"id":"col1","name":"Red"}`))

	serr := requireSchemaError(t, err)
	assert.Equal(t, EntityColor, serr.Entity)
	assert.Equal(t, []string{"hex"}, serr.FieldNames())
	assert.Equal(t, -1, serr.Index)
	assert.JSONEq(t, `{"id":"col1","name":"Red"}`, string(serr.Payload))
	assert.Contains(t, err.Error(), "hex: field required")
}

func TestUnmarshal_ReportsAllFields(t *testing.T) {
	_, err := Unmarshal[Product]([]byte(`{"name":42,"brand":"Acme","category_id":null}`))

	serr := requireSchemaError(t, err)
	assert.ElementsMatch(t, []string{"id", "name", "description", "category_id"}, serr.FieldNames())
	assert.Contains(t, err.Error(), "name: expected string, got number")
	assert.Contains(t, err.Error(), "category_id: expected string, got null")
}

func TestUnmarshal_NotAnObject(t *testing.T) {
	for _, payload := range []string{`[]`, `"size"`, `12`, `null`} {
		t.Run(payload, func(t *testing.T) {
			_, err := Unmarshal[Size]([]byte(payload))
			serr := requireSchemaError(t, err)
			assert.Empty(t, serr.FieldNames())
			assert.Contains(t, err.Error(), "expected object")
		})
	}
}

func TestUnmarshal_MalformedJSON(t *testing.T) {
	_, err := Unmarshal[Size]([]byte(`{"id":"s1","label":`))
	serr := requireSchemaError(t, err)
	assert.Contains(t, serr.Error(), "malformed JSON")
}

func TestUnmarshal_VariantPrice(t *testing.T) {
	t.Run("float", func(t *testing.T) {
		v, err := Unmarshal[ProductVariant]([]byte(`{"id":"v1","price":19.99,"product_id":"p1","color_id":"c1","size_id":"s1"}`))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("19.99").Equal(v.Price))
	})

	t.Run("integer", func(t *testing.T) {
		v, err := Unmarshal[ProductVariant]([]byte(`{"id":"v1","price":20,"product_id":"p1","color_id":"c1","size_id":"s1"}`))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(20).Equal(v.Price))
	})

	t.Run("string is rejected", func(t *testing.T) {
		_, err := Unmarshal[ProductVariant]([]byte(`{"id":"v1","price":"20","product_id":"p1","color_id":"c1","size_id":"s1"}`))
		serr := requireSchemaError(t, err)
		assert.Equal(t, []string{"price"}, serr.FieldNames())
	})
}

func TestDecodeList(t *testing.T) {
	sizes, err := DecodeList[Size](EntitySize, []byte(`[{"id":"s2","label":"M"},{"id":"s1","label":"S"}]`))
	require.NoError(t, err)
	require.Len(t, sizes, 2)

	// Backend order is preserved.
	assert.Equal(t, "s2", sizes[0].ID)
	assert.Equal(t, "s1", sizes[1].ID)
}

func TestDecodeList_Empty(t *testing.T) {
	colors, err := DecodeList[Color](EntityColor, []byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, colors)
	assert.Empty(t, colors)
}

func TestDecodeList_FailsOnAnyElement(t *testing.T) {
	colors, err := DecodeList[Color](EntityColor, []byte(`[
		{"id":"c1","name":"Red","hex":"#ff0000"},
		{"id":"c2","name":"Green"},
		{"id":"c3","name":"Blue","hex":"#0000ff"}
	]`))

	assert.Nil(t, colors)
	serr := requireSchemaError(t, err)
	assert.Equal(t, 1, serr.Index)
	assert.Equal(t, []string{"hex"}, serr.FieldNames())
	assert.Contains(t, err.Error(), "decode color[1]")
}

func TestDecodeList_NotAnArray(t *testing.T) {
	_, err := DecodeList[Category](EntityCategory, []byte(`{"detail":"Not found"}`))
	serr := requireSchemaError(t, err)
	assert.Contains(t, serr.Error(), "expected array, got object")
}

func TestRoundTrip(t *testing.T) {
	// Encoding a write record and decoding the echoed response with an ID
	// added must give back the same non-ID fields.
	in := ProductVariantData{
		Price:     decimal.RequireFromString("49.90"),
		ProductID: "p1",
		ColorID:   "c1",
		SizeID:    "s1",
	}
	echo := []byte(`{"id":"v1",` + string(Marshal(in))[1:])

	out, err := Unmarshal[ProductVariant](echo)
	require.NoError(t, err)
	assert.Equal(t, "v1", out.ID)
	assert.True(t, in.Price.Equal(out.Price))
	assert.Equal(t, in.ProductID, out.ProductID)
	assert.Equal(t, in.ColorID, out.ColorID)
	assert.Equal(t, in.SizeID, out.SizeID)
}

func TestMarshal(t *testing.T) {
	assert.JSONEq(t,
		`{"name":"Sneaker","brand":"Acme","description":"Running shoe","category_id":"c1"}`,
		string(Marshal(ProductData{Name: "Sneaker", Brand: "Acme", Description: "Running shoe", CategoryID: "c1"})),
	)
	assert.JSONEq(t,
		`[{"id":"s1","label":"XXL"},{"id":"s2","label":"4XL"}]`,
		string(MarshalList([]Size{
			{ID: "s1", SizeData: SizeData{Label: "XXL"}},
			{ID: "s2", SizeData: SizeData{Label: "4XL"}},
		})),
	)
	assert.Equal(t, `[]`, string(MarshalList([]Color{})))
}
