// Package cli implements the atcndc command line interface: online ATC/NDC
// conversion, offline code lookup, and dataset downloads.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/openfda"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/rxnav"
)

type rootOpts struct {
	verbose    bool
	rxnavURL   string
	openfdaURL string
	dataDir    string
}

// Execute runs the atcndc CLI and returns an error if any command fails.
func Execute() error {
	opts := &rootOpts{dataDir: "data"}

	root := &cobra.Command{
		Use:          "atcndc",
		Short:        "Convert between ATC classification codes and NDC product codes",
		Long: `atcndc converts pharmaceutical codes between the WHO ATC classification
and the FDA National Drug Code directory, using the RxNav terminology
service for online conversion and locally built tables for offline lookup.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.rxnavURL, "rxnav-url", "", "override the RxNav base URL")
	root.PersistentFlags().StringVar(&opts.openfdaURL, "openfda-url", "", "override the openFDA base URL")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "data", "directory for the offline dataset")

	root.AddCommand(newConvertCmd(opts))
	root.AddCommand(newLookupCmd(opts))
	root.AddCommand(newDownloadCmd(opts))

	return root.ExecuteContext(context.Background())
}

func (o *rootOpts) terminology() *rxnav.Client {
	return rxnav.NewClient(o.rxnavURL)
}

func (o *rootOpts) registry() *openfda.Client {
	return openfda.NewClient(o.openfdaURL)
}
