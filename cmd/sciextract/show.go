package main

import (
	"fmt"

	sci "github.com/32bitkid/scires"
	"github.com/32bitkid/scires/resource"
	"github.com/spf13/cobra"
)

var textCmd = &cobra.Command{
	Use:   "text NAME",
	Short: "Print the strings of a text resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := payload(args[0], resource.TypeText)
		if err != nil {
			return err
		}
		text, err := resource.NewText(body)
		if err != nil {
			return err
		}
		for i, s := range text {
			fmt.Printf("%d\t%q\n", i, s)
		}
		return nil
	},
}

var paletteCmd = &cobra.Command{
	Use:   "palette NAME",
	Short: "Print the colors of a palette resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := payload(args[0], resource.TypePalette)
		if err != nil {
			return err
		}
		pal, err := resource.NewPalette(body)
		if err != nil {
			return err
		}
		for i := range pal {
			if !pal[i].Used {
				continue
			}
			fmt.Printf("%3d\t%s\n", i, pal.Hex(uint8(i)))
		}
		return nil
	},
}

var cursorCmd = &cobra.Command{
	Use:   "cursor NAME",
	Short: "Draw a cursor resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := payload(args[0], resource.TypeCursor)
		if err != nil {
			return err
		}
		cursor, err := resource.NewCursor(body)
		if err != nil {
			return err
		}
		fmt.Printf("hot spot %d,%d\n%s", cursor.X, cursor.Y, cursor)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(cursorCmd)
}

// payload loads name the way the game would and checks its type tag.
func payload(name string, want resource.Type) ([]byte, error) {
	l := newLoader()
	l.Patterns = []string{name}

	for r, err := range l.Resources() {
		if err != nil {
			return nil, err
		}
		data, err := r.Bytes()
		if err != nil {
			return nil, err
		}
		t, body, err := resource.Payload(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if t != want {
			return nil, fmt.Errorf("%s: expected %s, got %s", name, want, t)
		}
		return body, nil
	}
	return nil, fmt.Errorf("%w: %s", sci.ErrNotFound, name)
}
