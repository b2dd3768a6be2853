package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	command := os.Args[1]
	args := os.Args[2:]

	code := 0
	switch command {
	case "serve":
		code = runServe(ctx, args)
	case "strip":
		code = runStrip(ctx, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		code = 1
	}

	stop()
	os.Exit(code)
}

func printUsage() {
	fmt.Println("Usage: h5dev <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve          Serve the front-end with UTF-8 types and CORS headers")
	fmt.Println("  strip [file]   Remove hardcoded text from data-i18n elements (default: index.html)")
	fmt.Println("  help           Show this help message")
	fmt.Println("\nFlags for serve:")
	fmt.Println("  -host, -port   Listen address (default: all interfaces, port 8000)")
	fmt.Println("  -root, -index  Document root and default document")
	fmt.Println("  -gzip          Compress responses")
	fmt.Println("  -cache-headers Send Cache-Control headers")
	fmt.Println("\nFlags for strip:")
	fmt.Println("  -watch         Re-run whenever the file changes")
	fmt.Println("\nSettings can also be placed in h5dev.yaml.")
}

// setupLogger installs the process-wide slog handler.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
