package main

import (
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newRootCmd() *cobra.Command {
	var verbose, watch bool
	cmd := &cobra.Command{
		Use:   "speview FILE",
		Short: "View WinSpec SPE Raman spectra",
		Long: `speview shows FILE and lets you page through the other SPE files in
its directory. Without a .speview.conf in that directory a short setup
asks for the wavenumber calibration and dark current files.`,
		Args:         cobra.ExactArgs(1),
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], verbose, watch)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	cmd.Flags().BoolVar(&watch, "watch", false, "follow SPE files added to or removed from the directory")
	return cmd
}

func run(path string, verbose, watch bool) error {
	l, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer l.Sync() //nolint:errcheck
	zap.ReplaceGlobals(l)

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	dir, start := filepath.Dir(abs), filepath.Base(abs)
	l.Debug("starting", zap.String("dir", dir), zap.String("file", start), zap.Bool("watch", watch))

	a := app.NewWithID(appID)
	w := newViewerWindow(a, dir, watch, l)
	a.Lifecycle().SetOnStarted(func() { w.start(start) })
	w.win.ShowAndRun()
	return nil
}

func main() {
	defer handleCrash()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
