package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/lakshman12791/receipt-console/internal/api"
	"github.com/lakshman12791/receipt-console/internal/ui"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("receipt-console")
	var (
		apiURL      = fs.StringLong("api-url", "http://localhost:3002/api", "Receipts backend base URL")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		logFile     = fs.StringLong("log-file", "", "Write logs to this file (discarded when unset; the TUI owns the terminal)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_CONSOLE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Route logs away from the terminal the UI draws on
	logWriter := io.Writer(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logWriter = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, nil)))

	client := api.NewClient(*apiURL, api.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := ui.NewApp(ctx, client)

	// Tear down cleanly on interrupt so no state update lands after exit
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		app.Stop()
	}()

	slog.Info("Starting receipt console", "api_url", *apiURL, "version", version)
	if err := app.Run(); err != nil {
		cancel()
		slog.Error("UI error", "error", err)
		os.Exit(1)
	}
	cancel()
	slog.Info("Shutting down...")
}
