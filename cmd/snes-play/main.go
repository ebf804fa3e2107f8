// Command snes-play is an ebitengine-backed interactive frontend for the
// gosnes core: it loads a cartridge image, opens a window, and runs the
// emulator at the console's native frame rate.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gosnes/internal/app"
	"gosnes/internal/version"
)

var (
	configPath string
	debug      bool
	headless   bool
	backend    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "snes-play [rom]",
		Short: "Run a SNES cartridge image in the gosnes emulator",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlay,
	}

	root.Flags().StringVar(&configPath, "config", "", "path to configuration file")
	root.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.Flags().BoolVar(&headless, "headless", false, "run without a window")
	root.Flags().StringVar(&backend, "backend", "", "graphics backend override: ebitengine, headless, terminal")

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			version.PrintBuildInfo()
		},
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = app.GetDefaultConfigPath()
	}

	application, err := app.NewApplicationWithMode(path, headless)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("cleanup: %v", err)
		}
	}()

	if backend != "" {
		application.GetConfig().Video.Backend = backend
	}
	if debug {
		application.GetConfig().UpdateDebug(true, true, true)
		application.ApplyDebugSettings()
	}

	setupGracefulShutdown(application)

	if len(args) == 1 {
		if err := application.LoadROM(args[0]); err != nil {
			return fmt.Errorf("load rom: %w", err)
		}
	}

	return application.Run()
}

// setupGracefulShutdown stops the application on SIGINT/SIGTERM so
// Cleanup still runs instead of the process being killed mid-frame.
func setupGracefulShutdown(application *app.Application) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		application.Stop()
	}()
}
