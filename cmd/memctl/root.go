package main

import (
	"fmt"
	"io"

	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xenking/memcommerce-mcp/internal/app"
	"github.com/xenking/memcommerce-mcp/internal/gateway"
)

// cli holds state shared by all subcommands. gw is set by the root
// PersistentPreRunE.
type cli struct {
	apiURL  string
	verbose bool

	out io.Writer
	gw  *gateway.Gateway
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:   "memctl",
		Short: "memctl manages the MemCommerce catalog",
		Long: `memctl lists and creates MemCommerce catalog records: categories,
colors, sizes, products and product variants.

The backend URL comes from --api-url, MEMCOMMERCE_API_URL or memcommerce.yaml.

Example:
  memctl sizes list
  memctl sizes create -f sizes.json
  cat variants.json | memctl product-variants create -f - --best-effort`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.init,
	}
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", "", "backend API base URL (default: $MEMCOMMERCE_API_URL)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "memctl", app.Version)
			},
		},
		kindCmd(c, "categories", func(gw *gateway.Gateway) *gateway.Categories { return gw.Categories }),
		kindCmd(c, "colors", func(gw *gateway.Gateway) *gateway.Colors { return gw.Colors }),
		kindCmd(c, "sizes", func(gw *gateway.Gateway) *gateway.Sizes { return gw.Sizes }),
		kindCmd(c, "products", func(gw *gateway.Gateway) *gateway.Products { return gw.Products }),
		kindCmd(c, "product-variants", func(gw *gateway.Gateway) *gateway.ProductVariants { return gw.ProductVariants }),
	)
	root.SetOut(out)
	return root
}

// init loads configuration and builds the gateway.
func (c *cli) init(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := app.LoadEnvConfig()
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.APIURL = c.apiURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lg := zap.NewNop()
	if c.verbose {
		if lg, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	cmd.SetContext(zctx.Base(cmd.Context(), lg))

	_, gw, err := app.NewGateway(cfg, nil)
	if err != nil {
		return err
	}
	c.gw = gw
	return nil
}

func (c *cli) print(data []byte) error {
	_, err := fmt.Fprintf(c.out, "%s\n", data)
	return err
}
