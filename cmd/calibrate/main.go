package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/soltixdb/spectrocal/internal/config"
	"github.com/soltixdb/spectrocal/internal/logging"
	"github.com/soltixdb/spectrocal/internal/services"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	dataDir := flag.String("dir", "", "Measurement directory: one subfolder (or one file) per condition")
	bandGapFile := flag.String("bandgap", "", "Estimate the optical band gap of this absorbance file instead of calibrating")
	output := flag.String("output", "", "Write the JSON report to this file instead of stdout")
	strict := flag.Bool("strict", false, "Abort on the first unreadable or unparsable file")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("calibrate %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
		return
	}

	if *dataDir == "" && *bandGapFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -dir or -bandgap is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *strict {
		cfg.Parser.Policy = config.PolicyStrict
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := services.NewAnalysisService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create analysis service", "error", err)
	}

	var result interface{}
	if *bandGapFile != "" {
		result, err = svc.BandGap(ctx, *bandGapFile)
	} else {
		var inputs []services.GroupInput
		inputs, err = discoverGroups(*dataDir)
		if err != nil {
			logger.Fatal("Failed to scan measurement directory", "dir", *dataDir, "error", err)
		}
		logger.Info("Conditions discovered", "dir", *dataDir, "groups", len(inputs))
		result, err = svc.Run(ctx, inputs)
	}
	if err != nil {
		logger.Fatal("Analysis failed", "error", err)
	}

	if err := writeJSON(*output, result); err != nil {
		logger.Fatal("Failed to write report", "error", err)
	}
}

func writeJSON(path string, v interface{}) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
