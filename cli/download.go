package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/mappings"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/openfda"
)

// downloadOpts holds the command-line flags for the download command.
type downloadOpts struct {
	atcOnly  bool
	ndcOnly  bool
	ndcLimit int
	full     bool // fetch the complete NDC directory
	bulk     bool // use the FDA bulk product file instead of the paged API
}

func newDownloadCmd(root *rootOpts) *cobra.Command {
	opts := downloadOpts{ndcLimit: mappings.DefaultNDCLimit}

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Build the offline dataset from RxClass and the openFDA registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := mappings.NewBuilder(root.terminology(), root.registry(), root.dataDir)
			if opts.full {
				builder.SetNDCLimit(0)
			} else {
				builder.SetNDCLimit(opts.ndcLimit)
			}

			ds, err := builder.Load()
			if err != nil {
				ds = mappings.Dataset{}
			}

			if !opts.ndcOnly {
				atc, err := builder.BuildATC(cmd.Context())
				if err != nil {
					return err
				}
				ds.ATC = atc
				fmt.Fprintf(cmd.OutOrStdout(), "ATC table: %d codes\n", len(atc))
			}
			if !opts.atcOnly {
				if opts.bulk {
					simple, err := bulkNDCTable(cmd, root.dataDir)
					if err != nil {
						return err
					}
					ds.NDCSimple = simple
					if ds.NDCFull == nil {
						ds.NDCFull = map[string]mappings.NDCProduct{}
					}
					fmt.Fprintf(cmd.OutOrStdout(), "NDC table: %d codes (bulk file)\n", len(simple))
				} else {
					simple, full, err := builder.BuildNDC(cmd.Context())
					if err != nil {
						return err
					}
					ds.NDCSimple = simple
					ds.NDCFull = full
					fmt.Fprintf(cmd.OutOrStdout(), "NDC tables: %d codes\n", len(simple))
				}
			}

			if err := builder.Save(ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dataset saved to %s\n", root.dataDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.atcOnly, "atc", false, "build only the ATC table")
	cmd.Flags().BoolVar(&opts.ndcOnly, "ndc", false, "build only the NDC tables")
	cmd.Flags().IntVar(&opts.ndcLimit, "ndc-limit", mappings.DefaultNDCLimit, "maximum NDC product records to fetch")
	cmd.Flags().BoolVar(&opts.full, "full", false, "fetch the complete NDC directory")
	cmd.Flags().BoolVar(&opts.bulk, "bulk", false, "build the NDC table from the FDA bulk product file")
	cmd.MarkFlagsMutuallyExclusive("atc", "ndc")
	cmd.MarkFlagsMutuallyExclusive("bulk", "full")

	return cmd
}

// bulkNDCTable downloads and parses the FDA bulk product file. The bulk file
// only carries product-level codes, so the detailed table is left untouched.
func bulkNDCTable(cmd *cobra.Command, dataDir string) (map[string]string, error) {
	path := filepath.Join(dataDir, "ndc_product_file.txt")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	if err := openfda.DownloadProductFile(cmd.Context(), openfda.ProductFileURL, path); err != nil {
		return nil, err
	}
	return openfda.ParseProductFile(path)
}
