package main

import (
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/memcommerce-mcp/internal/catalog"
	"github.com/xenking/memcommerce-mcp/internal/gateway"
)

// kindCmd builds "<name> list" and "<name> create" for one entity kind.
func kindCmd[W catalog.Encoder, WP catalog.Decoder[W], R catalog.Encoder, RP catalog.Decoder[R]](
	c *cli,
	name string,
	pick func(gw *gateway.Gateway) *gateway.Resource[W, R, RP],
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: "List or create " + name,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print all " + name + " as a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := pick(c.gw).FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(catalog.MarshalList(records))
		},
	}

	var (
		file       string
		bestEffort bool
	)
	create := &cobra.Command{
		Use:   "create -f FILE",
		Short: "Create " + name + " from a JSON array",
		Long: `Create posts every record of the input array to the backend concurrently
and prints the stored records in input order.

Without --best-effort the command fails if any record fails, printing only
the error. Records accepted before the failure stay created. With
--best-effort a per-record result is printed and the command fails if at
least one record failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := pick(c.gw)

			data, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			records, err := catalog.DecodeList[W, WP](res.Entity(), data)
			if err != nil {
				return errors.Wrap(err, "read records")
			}

			if bestEffort {
				outcomes := res.CreateEach(cmd.Context(), records)
				if err := c.print(gateway.MarshalOutcomes(outcomes)); err != nil {
					return err
				}
				if failed := gateway.Failed(outcomes); failed > 0 {
					return errors.Errorf("%d of %d %s failed", failed, len(outcomes), name)
				}
				return nil
			}

			created, err := res.CreateMany(cmd.Context(), records)
			if err != nil {
				return err
			}
			return c.print(catalog.MarshalList(created))
		},
	}
	create.Flags().StringVarP(&file, "file", "f", "", "JSON array of records, - for stdin (required)")
	create.Flags().BoolVar(&bestEffort, "best-effort", false, "print a result per record instead of failing the batch")
	_ = create.MarkFlagRequired("file")

	cmd.AddCommand(list, create)
	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "-" {
		data, err := io.ReadAll(stdin)
		return data, errors.Wrap(err, "read stdin")
	}
	data, err := os.ReadFile(file)
	return data, errors.Wrap(err, "read file")
}
