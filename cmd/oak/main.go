package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/oak/app"
	"github.com/wippyai/oak/config"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to an HCL configuration file")
		scriptFile = flag.String("script", "", "Script to run (overrides the configuration)")
		backend    = flag.String("backend", "", "Script backend: lua or wasm")
		headless   = flag.Bool("headless", false, "Run without the terminal UI")
		frames     = flag.Int("frames", 0, "Frames to run headless, 0 runs until interrupted")
		list       = flag.Bool("list", false, "List script bindings and exit")
		logLevel   = flag.String("log-level", "", "Log level (overrides the configuration)")
		logFormat  = flag.String("log-format", "", "Log format: console or json")
	)
	flag.Parse()

	if *list {
		for _, sig := range app.Signatures() {
			fmt.Println(sig)
		}
		return
	}

	script := *scriptFile
	if script == "" {
		script = flag.Arg(0)
	}
	cfg, err := loadConfig(*configFile, script, *backend, *logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !*headless && term.IsTerminal(int(os.Stdout.Fd())) {
		err = runInteractive(cfg)
	} else {
		err = runHeadless(cfg, *frames)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file, when given, and applies the
// command line overrides.
func loadConfig(path, script, backend, logLevel, logFormat string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if script != "" {
		abs, err := filepath.Abs(script)
		if err != nil {
			return nil, fmt.Errorf("resolve script: %w", err)
		}
		cfg.Script = abs
		if backend == "" && strings.HasSuffix(script, ".wasm") {
			cfg.Backend = "wasm"
		}
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	return cfg, cfg.Validate()
}

func runHeadless(cfg *config.Config, frames int) (err error) {
	log, err := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, app.WithLogger(log))
	defer func() {
		if serr := a.Shutdown(); err == nil {
			err = serr
		}
	}()

	if err := a.Initialize(ctx); err != nil {
		return err
	}
	if frames > 0 {
		a.Step(frames)
		log.Info("frames done", zap.Int("frames", frames))
		return nil
	}
	return a.Run(ctx)
}
