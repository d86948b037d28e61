package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	sci "github.com/32bitkid/scires"
	"github.com/32bitkid/scires/internal/catalog"
	"github.com/spf13/cobra"
)

var (
	catalogDB    string
	catalogSCI01 bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Record the archive index and volume headers in SQLite",
	Long: `Read the game's map and the header of every resource it indexes, and store
them in a SQLite database. Re-running replaces the previous catalogue of the
same map.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("database") {
			cfg.Database = catalogDB
		}

		mapPath, err := findMap()
		if err != nil {
			return err
		}

		var a sci.Archive
		if catalogSCI01 {
			a, err = sci.OpenSCI01(mapPath)
		} else {
			a, err = sci.Open(mapPath)
		}
		if err != nil {
			return err
		}

		db, err := catalog.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Record(cmd.Context(), mapPath, a)
		if err != nil {
			return err
		}
		slog.Info("Catalogued archive",
			"map", mapPath,
			"generation", a.Generation(),
			"entries", stats.Entries,
			"failed", stats.Failed,
			"database", cfg.Database)

		methods, err := db.Methods(cmd.Context())
		if err != nil {
			return err
		}
		keys := make([]int, 0, len(methods))
		for m := range methods {
			keys = append(keys, m)
		}
		sort.Ints(keys)
		for _, m := range keys {
			fmt.Printf("method %d\t%d\n", m, methods[m])
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogDB, "database", "d", "", "database file path")
	catalogCmd.Flags().BoolVar(&catalogSCI01, "sci01", false, "read a legacy map with the SCI01 method table")
	rootCmd.AddCommand(catalogCmd)
}

func findMap() (string, error) {
	for _, m := range cfg.Maps {
		p := filepath.Join(cfg.GameDir, m)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: none of %v in %s", sci.ErrNotFound, cfg.Maps, cfg.GameDir)
}
