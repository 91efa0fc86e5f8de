package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/codes"
	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/mappings"
)

func newLookupCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <code>",
		Short: "Resolve an ATC or NDC code against the offline dataset",
		Long: `Lookup classifies the code as ATC or NDC and resolves it against the
locally downloaded tables, without contacting any online service.
Run "atcndc download" first to build the dataset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := mappings.NewStore(root.dataDir)
			ds, err := store.Load()
			if err != nil {
				return fmt.Errorf("no offline dataset in %s, run \"atcndc download\" first: %w", root.dataDir, err)
			}

			result, err := ds.Lookup(args[0])
			if err != nil {
				return err
			}
			renderLookup(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func renderLookup(w io.Writer, result mappings.LookupResult) {
	if !result.Found {
		fmt.Fprintf(w, "%s: not found (%s)\n", result.Query, result.System)
		return
	}

	switch result.System {
	case codes.SystemATC:
		entry := result.ATC
		fmt.Fprintf(w, "ATC %s: %s (level %d)\n", entry.Code, entry.Name, entry.Level)
		for _, level := range []*codes.HierarchyLevel{
			entry.Hierarchy.Level1,
			entry.Hierarchy.Level2,
			entry.Hierarchy.Level3,
			entry.Hierarchy.Level4,
			entry.Hierarchy.Level5,
		} {
			if level == nil {
				continue
			}
			fmt.Fprintf(w, "  %-7s %s (%s)\n", level.Code, level.Name, level.Description)
		}
	case codes.SystemNDC:
		match := result.NDC
		fmt.Fprintf(w, "NDC %s: %s\n", match.Formatted, match.Description)
		if p := match.Product; p != nil {
			if p.Labeler != "" {
				fmt.Fprintf(w, "  Labeler: %s\n", p.Labeler)
			}
			if p.ProductType != "" {
				fmt.Fprintf(w, "  Type: %s\n", p.ProductType)
			}
			for _, ing := range p.ActiveIngredients {
				fmt.Fprintf(w, "  Ingredient: %s %s\n", ing.Name, ing.Strength)
			}
		}
		segments := codes.SplitNDC(match.Code)
		fmt.Fprintf(w, "  Segments: %s / %s / %s\n",
			segments.Labeler.Code, segments.Product.Code, segments.Package.Code)
	}
}
