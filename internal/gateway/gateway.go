// Package gateway turns tool calls into batched backend requests: one GET per
// listing, one concurrent POST per created record, every response validated
// by the catalog codec before anything is returned.
package gateway

import (
	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/memcommerce-mcp/internal/catalog"
)

// REST path segments of the backend collections.
const (
	SegmentCategories      = "categories"
	SegmentColors          = "colors"
	SegmentSizes           = "sizes"
	SegmentProducts        = "products"
	SegmentProductVariants = "product-variants"
)

type (
	// Categories is the category resource.
	Categories = Resource[catalog.CategoryData, catalog.Category, *catalog.Category]
	// Colors is the color resource.
	Colors = Resource[catalog.ColorData, catalog.Color, *catalog.Color]
	// Sizes is the size resource.
	Sizes = Resource[catalog.SizeData, catalog.Size, *catalog.Size]
	// Products is the product resource.
	Products = Resource[catalog.ProductData, catalog.Product, *catalog.Product]
	// ProductVariants is the product variant resource.
	ProductVariants = Resource[catalog.ProductVariantData, catalog.ProductVariant, *catalog.ProductVariant]
)

type options struct {
	maxConcurrency int
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Gateway.
type Option func(*options)

// WithMaxConcurrency bounds the number of in-flight POSTs per create call.
// Zero or negative means unbounded.
func WithMaxConcurrency(n int) Option {
	return func(o *options) { o.maxConcurrency = n }
}

// WithTracerProvider sets the tracer provider for operation spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider for operation counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// Gateway bundles the resources of all five entity kinds. It holds no state
// between calls and is safe for concurrent use.
type Gateway struct {
	Categories      *Categories
	Colors          *Colors
	Sizes           *Sizes
	Products        *Products
	ProductVariants *ProductVariants
}

// New creates a Gateway issuing requests through client.
func New(client Doer, opts ...Option) (*Gateway, error) {
	o := options{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	tel, err := newTelemetry(o.tracerProvider, o.meterProvider)
	if err != nil {
		return nil, errors.Wrap(err, "init telemetry")
	}

	limit := o.maxConcurrency
	return &Gateway{
		Categories:      newResource[catalog.CategoryData, catalog.Category](catalog.EntityCategory, SegmentCategories, client, limit, tel),
		Colors:          newResource[catalog.ColorData, catalog.Color](catalog.EntityColor, SegmentColors, client, limit, tel),
		Sizes:           newResource[catalog.SizeData, catalog.Size](catalog.EntitySize, SegmentSizes, client, limit, tel),
		Products:        newResource[catalog.ProductData, catalog.Product](catalog.EntityProduct, SegmentProducts, client, limit, tel),
		ProductVariants: newResource[catalog.ProductVariantData, catalog.ProductVariant](catalog.EntityProductVariant, SegmentProductVariants, client, limit, tel),
	}, nil
}
