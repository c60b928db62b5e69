package catalog

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Entity names used in errors, logs and span names.
const (
	EntityCategory       = "category"
	EntityColor          = "color"
	EntitySize           = "size"
	EntityProduct        = "product"
	EntityProductVariant = "product_variant"
)

// CategoryData holds the fields required to create a category.
type CategoryData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *CategoryData) fields() []field {
	return []field{
		strField("name", &c.Name),
		strField("description", &c.Description),
	}
}

// Encode writes the category as a JSON object.
func (c CategoryData) Encode(e *jx.Encoder) { encodeObject(e, c.fields()) }

// Decode reads and validates a category create payload.
func (c *CategoryData) Decode(d *jx.Decoder) error {
	return decodeObject(d, EntityCategory, c, c.fields())
}

// Category is a category as stored by the backend.
type Category struct {
	ID string `json:"id"`
	CategoryData
}

func (c *Category) fields() []field {
	return append([]field{strField("id", &c.ID)}, c.CategoryData.fields()...)
}

// Encode writes the category as a JSON object.
func (c Category) Encode(e *jx.Encoder) { encodeObject(e, c.fields()) }

// Decode reads and validates a stored category.
func (c *Category) Decode(d *jx.Decoder) error { return decodeObject(d, EntityCategory, c, c.fields()) }

// ColorData holds the fields required to create a color.
type ColorData struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

func (c *ColorData) fields() []field {
	return []field{
		strField("name", &c.Name),
		strField("hex", &c.Hex),
	}
}

// Encode writes the color as a JSON object.
func (c ColorData) Encode(e *jx.Encoder) { encodeObject(e, c.fields()) }

// Decode reads and validates a color create payload.
func (c *ColorData) Decode(d *jx.Decoder) error { return decodeObject(d, EntityColor, c, c.fields()) }

// Color is a color as stored by the backend.
type Color struct {
	ID string `json:"id"`
	ColorData
}

func (c *Color) fields() []field {
	return append([]field{strField("id", &c.ID)}, c.ColorData.fields()...)
}

// Encode writes the color as a JSON object.
func (c Color) Encode(e *jx.Encoder) { encodeObject(e, c.fields()) }

// Decode reads and validates a stored color.
func (c *Color) Decode(d *jx.Decoder) error { return decodeObject(d, EntityColor, c, c.fields()) }

// SizeData holds the fields required to create a size, e.g. "XL".
type SizeData struct {
	Label string `json:"label"`
}

func (s *SizeData) fields() []field {
	return []field{strField("label", &s.Label)}
}

// Encode writes the size as a JSON object.
func (s SizeData) Encode(e *jx.Encoder) { encodeObject(e, s.fields()) }

// Decode reads and validates a size create payload.
func (s *SizeData) Decode(d *jx.Decoder) error { return decodeObject(d, EntitySize, s, s.fields()) }

// Size is a size as stored by the backend.
type Size struct {
	ID string `json:"id"`
	SizeData
}

func (s *Size) fields() []field {
	return append([]field{strField("id", &s.ID)}, s.SizeData.fields()...)
}

// Encode writes the size as a JSON object.
func (s Size) Encode(e *jx.Encoder) { encodeObject(e, s.fields()) }

// Decode reads and validates a stored size.
func (s *Size) Decode(d *jx.Decoder) error { return decodeObject(d, EntitySize, s, s.fields()) }

// ProductData holds the fields required to create a product. CategoryID
// references a category; the backend enforces that it exists.
type ProductData struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
}

func (p *ProductData) fields() []field {
	return []field{
		strField("name", &p.Name),
		strField("brand", &p.Brand),
		strField("description", &p.Description),
		strField("category_id", &p.CategoryID),
	}
}

// Encode writes the product as a JSON object.
func (p ProductData) Encode(e *jx.Encoder) { encodeObject(e, p.fields()) }

// Decode reads and validates a product create payload.
func (p *ProductData) Decode(d *jx.Decoder) error { return decodeObject(d, EntityProduct, p, p.fields()) }

// Product is a product as stored by the backend.
type Product struct {
	ID string `json:"id"`
	ProductData
}

func (p *Product) fields() []field {
	return append([]field{strField("id", &p.ID)}, p.ProductData.fields()...)
}

// Encode writes the product as a JSON object.
func (p Product) Encode(e *jx.Encoder) { encodeObject(e, p.fields()) }

// Decode reads and validates a stored product.
func (p *Product) Decode(d *jx.Decoder) error { return decodeObject(d, EntityProduct, p, p.fields()) }

// ProductVariantData holds the fields required to create a purchasable
// variant of a product in a given color and size.
type ProductVariantData struct {
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	ProductID string          `json:"product_id"`
	ColorID   string          `json:"color_id"`
	SizeID    string          `json:"size_id"`
}

func (v *ProductVariantData) fields() []field {
	return []field{
		numField("price", &v.Price),
		strField("product_id", &v.ProductID),
		strField("color_id", &v.ColorID),
		strField("size_id", &v.SizeID),
	}
}

// Encode writes the variant as a JSON object.
func (v ProductVariantData) Encode(e *jx.Encoder) { encodeObject(e, v.fields()) }

// Decode reads and validates a variant create payload.
func (v *ProductVariantData) Decode(d *jx.Decoder) error {
	return decodeObject(d, EntityProductVariant, v, v.fields())
}

// ProductVariant is a product variant as stored by the backend.
type ProductVariant struct {
	ID string `json:"id"`
	ProductVariantData
}

func (v *ProductVariant) fields() []field {
	return append([]field{strField("id", &v.ID)}, v.ProductVariantData.fields()...)
}

// Encode writes the variant as a JSON object.
func (v ProductVariant) Encode(e *jx.Encoder) { encodeObject(e, v.fields()) }

// Decode reads and validates a stored variant.
func (v *ProductVariant) Decode(d *jx.Decoder) error {
	return decodeObject(d, EntityProductVariant, v, v.fields())
}
