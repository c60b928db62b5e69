// Package tools exposes the gateway operations as MCP tools: one listing tool
// and one batch-create tool per entity kind.
package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xenking/memcommerce-mcp/internal/catalog"
	"github.com/xenking/memcommerce-mcp/internal/gateway"
)

// kind describes the tool pair of one entity kind.
type kind struct {
	// plural names the tools (get_all_<plural>, create_<plural>) and the
	// array argument of the create tool.
	plural   string
	about    string
	item     map[string]any
	required []string
}

// MCP arguments are decoded into float64 before any tool code sees them.
const priceDescription = "Unit price. Tool arguments are parsed as 64-bit floats, so digits " +
	"beyond about 15 significant places are rounded before the backend sees them"

func strProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

var (
	categoryKind = kind{
		plural: "categories",
		about: "Categories group products in the MemCommerce catalog (e.g. Shoes, Outerwear). " +
			"Every product references exactly one category by ID.",
		item: map[string]any{
			"name":        strProp("Category name"),
			"description": strProp("Short description shown to shoppers"),
		},
		required: []string{"name", "description"},
	}
	colorKind = kind{
		plural: "colors",
		about: "Colors are the color options a product variant can be sold in. " +
			"Each color has a display name and a hex code.",
		item: map[string]any{
			"name": strProp("Color display name, e.g. Navy"),
			"hex":  strProp("Hex color code, e.g. #1f2a44"),
		},
		required: []string{"name", "hex"},
	}
	sizeKind = kind{
		plural: "sizes",
		about: "Sizes represent standard clothing or accessory dimensions (e.g. XS, S, M, L, XL) " +
			"used to define product variants. They appear on product pages, in filters, and are " +
			"needed when managing inventory and creating variants.",
		item: map[string]any{
			"label": strProp("Size label, e.g. XXL"),
		},
		required: []string{"label"},
	}
	productKind = kind{
		plural: "products",
		about:  "Products are catalog items. Each product belongs to a category; variants add price, color and size.",
		item: map[string]any{
			"name":        strProp("Product name"),
			"brand":       strProp("Brand name"),
			"description": strProp("Product description"),
			"category_id": strProp("ID of an existing category"),
		},
		required: []string{"name", "brand", "description", "category_id"},
	}
	productVariantKind = kind{
		plural: "product_variants",
		about:  "Product variants are the purchasable combinations of a product, a color and a size, each with its own price.",
		item: map[string]any{
			"price": map[string]any{
				"type":        "number",
				"minimum":     0,
				"description": priceDescription,
			},
			"product_id": strProp("ID of an existing product"),
			"color_id":   strProp("ID of an existing color"),
			"size_id":    strProp("ID of an existing size"),
		},
		required: []string{"price", "product_id", "color_id", "size_id"},
	}
)

func (k kind) fetchTool() mcp.Tool {
	return mcp.NewTool("get_all_"+k.plural,
		mcp.WithDescription("Retrieve all "+k.plural+" from the MemCommerce backend. "+k.about),
	)
}

func (k kind) createTool() mcp.Tool {
	return mcp.NewTool("create_"+k.plural,
		mcp.WithDescription("Create "+k.plural+" in the MemCommerce backend, one request per item, "+
			"and return the stored records in input order. "+k.about),
		mcp.WithArray(k.plural,
			mcp.Required(),
			mcp.Description("Items to create"),
			mcp.Items(map[string]any{
				"type":       "object",
				"properties": k.item,
				"required":   k.required,
			}),
		),
		mcp.WithBoolean(ArgBestEffort,
			mcp.Description("Report a result per item instead of failing the whole batch when one item fails. "+
				"Items that succeeded stay created either way."),
		),
	)
}

func pair[W catalog.Encoder, WP catalog.Decoder[W], R catalog.Encoder, RP catalog.Decoder[R]](
	k kind,
	res *gateway.Resource[W, R, RP],
) []server.ServerTool {
	fetch := k.fetchTool()
	create := k.createTool()
	return []server.ServerTool{
		{Tool: fetch, Handler: fetchAllHandler(fetch.Name, res)},
		{Tool: create, Handler: createHandler[W, WP](create.Name, k.plural, res)},
	}
}

// Tools returns the tool definitions bound to gw.
func Tools(gw *gateway.Gateway) []server.ServerTool {
	var out []server.ServerTool
	out = append(out, pair[catalog.CategoryData](categoryKind, gw.Categories)...)
	out = append(out, pair[catalog.ColorData](colorKind, gw.Colors)...)
	out = append(out, pair[catalog.SizeData](sizeKind, gw.Sizes)...)
	out = append(out, pair[catalog.ProductData](productKind, gw.Products)...)
	out = append(out, pair[catalog.ProductVariantData](productVariantKind, gw.ProductVariants)...)
	return out
}

// Register adds every tool to s.
func Register(s *server.MCPServer, gw *gateway.Gateway) {
	s.AddTools(Tools(gw)...)
}
