package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/converter"
)

// convertOpts holds the command-line flags shared by both conversion
// directions.
type convertOpts struct {
	noRelated bool   // skip the related-concept walk (ATC direction only)
	output    string // output file prefix, stdout if empty
	jsonOnly  bool
	csvOnly   bool
}

func newConvertCmd(root *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert codes between ATC and NDC through the RxNav terminology service",
	}
	cmd.AddCommand(newConvertATCCmd(root))
	cmd.AddCommand(newConvertNDCCmd(root))
	return cmd
}

func newConvertATCCmd(root *rootOpts) *cobra.Command {
	opts := convertOpts{}

	cmd := &cobra.Command{
		Use:   "atc <code>...",
		Short: "Convert ATC codes to NDC product codes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv := converter.New(root.terminology())
			records := conv.ATCToNDCBatch(cmd.Context(), args, !opts.noRelated)

			for _, record := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %d NDC codes\n",
					record.ATCCode, record.DrugName, len(record.NDCCodes))
			}

			if opts.output == "" {
				return converter.WriteATCRecordsJSON(cmd.OutOrStdout(), records)
			}
			return writeOutputs(opts,
				func(f *os.File) error { return converter.WriteATCRecordsJSON(f, records) },
				func(f *os.File) error { return converter.WriteATCRecordsCSV(f, records) })
		},
	}

	cmd.Flags().BoolVar(&opts.noRelated, "no-related", false, "skip related clinical and branded drug concepts")
	addOutputFlags(cmd, &opts)
	return cmd
}

func newConvertNDCCmd(root *rootOpts) *cobra.Command {
	opts := convertOpts{}

	cmd := &cobra.Command{
		Use:   "ndc <code>...",
		Short: "Convert NDC product codes to ATC classes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv := converter.New(root.terminology())
			records := conv.NDCToATCBatch(cmd.Context(), args)

			for _, record := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %d ATC classes\n",
					record.NDCCode, record.DrugName, len(record.ATCCodes))
			}

			if opts.output == "" {
				return converter.WriteNDCRecordsJSON(cmd.OutOrStdout(), records)
			}
			return writeOutputs(opts,
				func(f *os.File) error { return converter.WriteNDCRecordsJSON(f, records) },
				func(f *os.File) error { return converter.WriteNDCRecordsCSV(f, records) })
		},
	}

	addOutputFlags(cmd, &opts)
	return cmd
}

func addOutputFlags(cmd *cobra.Command, opts *convertOpts) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file prefix (writes <prefix>.json and <prefix>.csv)")
	cmd.Flags().BoolVar(&opts.jsonOnly, "json-only", false, "write only the JSON file")
	cmd.Flags().BoolVar(&opts.csvOnly, "csv-only", false, "write only the CSV file")
	cmd.MarkFlagsMutuallyExclusive("json-only", "csv-only")
}

// writeOutputs writes the JSON and CSV files next to each other under the
// configured prefix.
func writeOutputs(opts convertOpts, writeJSON, writeCSV func(*os.File) error) error {
	if !opts.csvOnly {
		if err := writeFile(opts.output+".json", writeJSON); err != nil {
			return err
		}
	}
	if !opts.jsonOnly {
		if err := writeFile(opts.output+".csv", writeCSV); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	fmt.Fprintln(os.Stderr, "wrote", path)
	return nil
}
