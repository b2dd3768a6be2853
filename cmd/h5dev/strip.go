package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/h5dev/internal/config"
	"github.com/Kush-Singh-26/h5dev/internal/strip"
	"github.com/Kush-Singh-26/h5dev/internal/watch"
)

func runStrip(ctx context.Context, args []string) int {
	cfg := config.Load()

	flags := flag.NewFlagSet("strip", flag.ExitOnError)
	cfg.Strip.BindFlags(flags)
	verbose := flags.Bool("v", false, "Verbose logging")
	_ = flags.Parse(args)
	if flags.NArg() > 0 {
		cfg.Strip.Target = flags.Arg(0)
	}

	logger := setupLogger(*verbose)
	fsys := afero.NewOsFs()
	target := cfg.Strip.Target

	if exists, _ := afero.Exists(fsys, target); !exists {
		color.Yellow("⚠️  File %s does not exist", target)
		return 0
	}

	fmt.Printf("🔧 Processing %s...\n", target)
	if err := stripOnce(fsys, target); err != nil {
		return 1
	}

	if !cfg.Strip.Watch {
		fmt.Println("✅ Done.")
		return 0
	}

	w, err := watch.New(fsys, target, cfg.Strip.Debounce, func(path string) {
		fmt.Printf("🔄 %s changed\n", path)
		_ = stripOnce(fsys, path)
	}, logger)
	if err != nil {
		color.Red("❌ %v", err)
		return 1
	}

	fmt.Println("👀 Watch mode active. Waiting for changes...")
	if err := w.Run(ctx); err != nil {
		color.Red("❌ %v", err)
		return 1
	}
	fmt.Println("\n🛑 Watch stopped.")
	return 0
}

// stripOnce reports one run. A missing file is not a failure.
func stripOnce(fsys afero.Fs, target string) error {
	res, err := strip.File(fsys, target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		color.Yellow("⚠️  File %s does not exist", target)
		return nil
	case err != nil:
		color.Red("❌ %v", err)
		return err
	case res.Changed:
		color.Green("✅ Removed %d hardcoded strings", res.Changes)
	default:
		fmt.Println("ℹ️  No hardcoded text found, file left untouched")
	}
	return nil
}
