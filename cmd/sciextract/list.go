package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listStat bool

var listCmd = &cobra.Command{
	Use:   "list [pattern...]",
	Short: "List the resources of a game",
	Long: `List every resource the game would load, in priority order. Loose
patch files shadow archive entries of the same name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			cfg.Patterns = args
		}
		resources, err := collect(newLoader())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		defer w.Flush()

		for _, r := range resources {
			if r.Patch() {
				fmt.Fprintf(w, "%s\tpatch\t%s\n", r.Name, r.Path)
				continue
			}
			loc, _ := r.Archive.Lookup(r.Name)
			if !listStat {
				fmt.Fprintf(w, "%s\t%s\tvol %d @ %d\n", r.Name, r.Archive.Generation(), loc.Volume, loc.Offset)
				continue
			}
			h, err := r.Archive.Stat(r.Name)
			if err != nil {
				fmt.Fprintf(w, "%s\t%s\tvol %d @ %d\t%v\n", r.Name, r.Archive.Generation(), loc.Volume, loc.Offset, err)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\tvol %d @ %d\tmethod %d\t%d -> %d\n",
				r.Name, r.Archive.Generation(), loc.Volume, loc.Offset,
				h.Method, h.CompressedSize, h.DecompressedSize)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listStat, "stat", false, "read each volume header")
	rootCmd.AddCommand(listCmd)
}
