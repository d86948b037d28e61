package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	sci "github.com/32bitkid/scires"
	"github.com/32bitkid/scires/internal/progress"
	"github.com/32bitkid/scires/resource"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

var (
	extractOutput string
	extractDecode bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [pattern...]",
	Short: "Write resources out as patch files",
	Long: `Write every matching resource to the output directory in patch file form:
the 2-byte type tag followed by the decoded payload.

With --decode, views are also written as one GIF per loop, cursors as a
GIF and text resources as plain text. A resource that fails to fetch or
decode is logged and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			cfg.Patterns = args
		}
		if cmd.Flags().Changed("output") {
			cfg.Output = extractOutput
		}

		resources, err := collect(newLoader())
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		slog.Info("Extracting resources", "count", len(resources), "output", cfg.Output, "workers", cfg.Workers)

		bar := progress.New(len(resources), !noProgress)
		var failed atomic.Int64

		p := pool.New().WithErrors().WithMaxGoroutines(cfg.Workers)
		for _, r := range resources {
			p.Go(func() error {
				defer bar.Done(r.Name)

				err := extract(r, cfg.Output, extractDecode)
				if errors.Is(err, errOutput) {
					return err
				}
				if err != nil {
					failed.Add(1)
					slog.Warn("Skipping resource", "name", r.Name, "error", err)
				}
				return nil
			})
		}
		err = p.Wait()
		bar.Finish()
		if err != nil {
			return err
		}

		slog.Info("Extraction complete",
			"extracted", len(resources)-int(failed.Load()),
			"failed", failed.Load())
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output directory")
	extractCmd.Flags().BoolVar(&extractDecode, "decode", false, "also write views and cursors as GIF and text as .txt")
	rootCmd.AddCommand(extractCmd)
}

// errOutput marks failures writing to the output directory, which end the
// whole extraction.
var errOutput = errors.New("output")

func extract(r sci.Resource, dir string, decode bool) error {
	data, err := r.Bytes()
	if err != nil {
		return err
	}
	if err := writeOutput(filepath.Join(dir, r.Name), data); err != nil {
		return err
	}
	if !decode {
		return nil
	}

	t, body, err := resource.Payload(data)
	if err != nil {
		return err
	}
	switch t {
	case resource.TypeView:
		return writeView(r, dir, body)
	case resource.TypeCursor:
		cursor, err := resource.NewCursor(body)
		if err != nil {
			return err
		}
		return writeGIF(filepath.Join(dir, r.Name+".gif"), &gif.GIF{
			Image: []*image.Paletted{cursor.Image()},
			Delay: []int{0},
		})
	case resource.TypeText:
		text, err := resource.NewText(body)
		if err != nil {
			return err
		}
		return writeOutput(filepath.Join(dir, r.Name+".txt"), []byte(strings.Join(text, "\n")))
	}
	return nil
}

func writeView(r sci.Resource, dir string, body []byte) error {
	var (
		view    resource.View
		palette color.Palette
		err     error
	)
	if ega(r) {
		view, err = resource.NewView(body)
		palette = resource.EGAPalette
	} else {
		var pal *resource.Palette
		view, pal, err = resource.NewVGAView(body)
		palette = resource.GrayPalette
		if pal != nil {
			palette = pal.Colors()
		}
	}
	if err != nil {
		return err
	}

	for i, group := range view {
		if len(group) == 0 {
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("%s.%d.gif", r.Name, i))
		if err := writeGIF(name, group.GIF(palette)); err != nil {
			return err
		}
	}
	return nil
}

func writeGIF(name string, g *gif.GIF) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("%w: %w", errOutput, err)
	}
	err = gif.EncodeAll(f, g)
	if cerr := f.Close(); err == nil && cerr != nil {
		return fmt.Errorf("%w: %w", errOutput, cerr)
	}
	return err
}

// ega reports whether a view uses the 16 color SCI0 format. Patch files
// carry no generation, so their name decides.
func ega(r sci.Resource) bool {
	if r.Archive != nil {
		gen := r.Archive.Generation()
		return gen == resource.SCI0 || gen == resource.SCI01
	}
	_, _, err := resource.ParseName(resource.SCI0, r.Name)
	return err == nil
}

func writeOutput(name string, data []byte) error {
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", errOutput, err)
	}
	return nil
}
