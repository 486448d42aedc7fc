package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ironsheep/pixel-primitives/internal/config"
	"github.com/ironsheep/pixel-primitives/internal/imaging"
	"github.com/ironsheep/pixel-primitives/internal/logger"
	"github.com/ironsheep/pixel-primitives/internal/report"
	"github.com/ironsheep/pixel-primitives/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// sheetPadding separates cells on a saved contact sheet.
const sheetPadding = 20

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pixel-primitives %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr; stdout carries the protocol or the report.
	log := logger.NewConsoleLogger(cfg.LogLevel)

	if len(os.Args) > 1 && os.Args[1] == "report" {
		if err := runReport(cfg, log, os.Args[2:]); err != nil {
			log.Error("main", err, nil)
			os.Exit(1)
		}
		return
	}

	log.Debug("main", "starting server", map[string]interface{}{
		"version":    Version,
		"build_time": BuildTime,
		"commit":     GitCommit,
	})

	srv := server.NewWithConfig(cfg, log)
	srv.SetVersion(Version)
	if err := srv.Run(); err != nil {
		log.Error("main", fmt.Errorf("server error: %w", err), nil)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("pixel-primitives - pixel-level image primitives over MCP")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pixel-primitives [options]                       Serve MCP over stdin/stdout")
	fmt.Println("  pixel-primitives report <image> [sheet] [dump]   Compare every stage against the reference backend")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  PIXEL_LOG_LEVEL=debug|info|warn|error   Log level (default info)")
	fmt.Println("  PIXEL_LABEL_CAPACITY=1024                Label merge table capacity")
	fmt.Println("  PIXEL_BINARY_LEVEL=127                   Foreground threshold")
	fmt.Println("  PIXEL_HU_THRESHOLD=50                    Hu distance below which shapes match")
}

// runReport loads args[0], runs the comparison report and prints it as JSON.
// args[1], when present, names a contact sheet to save; args[2] a
// zstd-compressed label dump.
func runReport(cfg *config.Config, log logger.Logger, args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return fmt.Errorf("usage: pixel-primitives report <image> [sheet] [dump]")
	}

	cache := imaging.NewImageCache()
	src, err := cache.LoadBuffer(args[0], 3)
	if err != nil {
		return err
	}

	opts := report.OptionsFrom(cfg, log)
	if len(args) > 1 && args[1] != "" {
		opts.Sheet = imaging.NewSheet(sheetPadding)
	}
	if len(args) > 2 {
		f, err := os.Create(args[2])
		if err != nil {
			return fmt.Errorf("failed to create dump: %w", err)
		}
		defer f.Close()
		opts.Dump = f
	}

	rep, err := report.Run(src, opts)
	if err != nil {
		return err
	}

	if opts.Sheet != nil {
		if err := opts.Sheet.Save(args[1]); err != nil {
			return err
		}
		log.Info("main", "sheet saved", map[string]interface{}{"path": args[1]})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
