package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/Lixing-Zhang/quick-catalog/internal/config"
	"github.com/Lixing-Zhang/quick-catalog/pkg/logger"
	"github.com/alecthomas/kong"
)

// Globals are shared by every command
type Globals struct {
	Config *config.Config
	Logger *slog.Logger
}

type cli struct {
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"${log_level}"`

	Remote RemoteCmd `cmd:"" help:"Download the pre-rendered catalog PDF from the server."`
	View   ViewCmd   `cmd:"" help:"Open the server PDF in the default viewer."`
	Local  LocalCmd  `cmd:"" help:"Rasterize the catalog page locally with headless Chromium."`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var c cli
	ctx := kong.Parse(&c,
		kong.Name("catalog-export"),
		kong.Description("Export the product catalog as "+cfg.PDF.Filename+"."),
		kong.UsageOnError(),
		kong.Vars{
			"log_level":  cfg.LogLevel,
			"endpoint":   cfg.Export.Endpoint,
			"output_dir": cfg.Export.OutputDir,
			"count":      strconv.Itoa(cfg.Catalog.Size),
		},
	)

	log := logger.New(c.LogLevel)
	slog.SetDefault(log)

	if err := ctx.Run(&Globals{Config: cfg, Logger: log}); err != nil {
		log.Error("export failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
