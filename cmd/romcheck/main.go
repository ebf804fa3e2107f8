// Command romcheck runs the header-scoring and mapper-detection pass
// from internal/cartridge against a ROM file and prints the winning
// layout, without creating a video/audio backend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gosnes/internal/cartridge"
	"gosnes/internal/console"
)

var runFrames int

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "romcheck <rom>",
		Short: "Inspect a SNES cartridge image's header and mapper",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	root.Flags().IntVar(&runFrames, "run-frames", 0,
		"boot the cartridge headlessly and run this many frames, then report that they completed")
	return root
}

func runCheck(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read rom: %w", err)
	}

	cart, err := cartridge.Load(data)
	if err != nil {
		return fmt.Errorf("load rom: %w", err)
	}

	fmt.Printf("File:    %s\n", args[0])
	fmt.Printf("Name:    %s\n", cart.Name)
	fmt.Printf("Mapper:  %s\n", cart.Type)
	fmt.Printf("Region:  %s\n", region(cart.PAL))
	fmt.Printf("Battery: %t\n", cart.Battery)
	fmt.Printf("ROM:     %d bytes\n", cart.ROMSize())
	fmt.Printf("SRAM:    %d bytes\n", cart.RAMSize())

	if runFrames > 0 {
		c := console.New()
		if err := c.LoadROM(data); err != nil {
			return fmt.Errorf("boot rom: %w", err)
		}
		for i := 0; i < runFrames; i++ {
			c.RunFrame()
		}
		fmt.Printf("Ran %d frames without error.\n", runFrames)
	}

	return nil
}

func region(pal bool) string {
	if pal {
		return "PAL"
	}
	return "NTSC"
}
