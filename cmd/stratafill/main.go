// Command stratafill fills missing float values in a table from per-group
// statistics of a categorical key column.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wdm0006/stratafill/pkg/group"
	"github.com/wdm0006/stratafill/pkg/profile"
)

var version = "0.1.0-dev"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	config, in, out, key, strategy string
	logLevel, logFormat            string
	report, version                bool
}

func parseFlags(args []string, stderr io.Writer) (flags, map[string]bool, error) {
	var fl flags
	fs := flag.NewFlagSet("stratafill", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&fl.config, "config", "", "config file (.json, .yaml, .toml)")
	fs.StringVar(&fl.in, "in", "", "input table path (- for stdin)")
	fs.StringVar(&fl.out, "out", "", "output table path (- for stdout)")
	fs.StringVar(&fl.key, "key", "", "grouping column")
	fs.StringVar(&fl.strategy, "strategy", "", "fill statistic: mean or median")
	fs.BoolVar(&fl.report, "report", false, "print a per-group profile to stderr before filling")
	fs.StringVar(&fl.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&fl.logFormat, "log-format", "", "json or console")
	fs.BoolVar(&fl.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return fl, nil, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return fl, set, nil
}

// loadConfig layers the config file, the environment and explicit flags, in
// that order, then fills defaults and validates.
func loadConfig(fl flags, set map[string]bool) (Config, error) {
	cfg, err := readConfigFile(fl.config)
	if err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if set["in"] {
		cfg.Input.Path = fl.in
	}
	if set["out"] {
		cfg.Output.Path = fl.out
	}
	if set["key"] {
		cfg.KeyColumn = fl.key
	}
	if set["strategy"] {
		cfg.Strategy = fl.strategy
	}
	if set["report"] {
		cfg.Report = fl.report
	}
	if set["log-level"] {
		cfg.LogLevel = fl.logLevel
	}
	if set["log-format"] {
		cfg.LogFormat = fl.logFormat
	}
	cfg.applyDefaults()
	return cfg, cfg.validate()
}

func newLogger(w io.Writer, level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	var enc zapcore.Encoder
	if format == "console" {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl)), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fl, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fl.version {
		fmt.Fprintln(stdout, "stratafill", version)
		return exitOK
	}
	cfg, err := loadConfig(fl, set)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return exitUsage
	}
	log, err := newLogger(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	log = log.With(zap.String("run_id", uuid.NewString()))
	defer func() { _ = log.Sync() }()

	p, err := buildPipeline(cfg, log)
	if err != nil {
		log.Error("invalid steps", zap.Error(err))
		return exitUsage
	}

	f, err := readFrame(cfg.Input)
	if err != nil {
		log.Error("read input", zap.String("path", cfg.Input.Path), zap.Error(err))
		return exitError
	}
	log.Info("input loaded",
		zap.String("path", cfg.Input.Path),
		zap.Int("rows", f.Rows()),
		zap.Int("cols", f.Cols()),
		zap.Strings("steps", p.Steps()))

	if cfg.Report && cfg.KeyColumn != "" {
		parts, err := group.PartitionBy(f, cfg.KeyColumn)
		if err != nil {
			log.Error("profile", zap.Error(err))
			return exitError
		}
		rep := profile.Collect(cfg.KeyColumn, parts)
		if err := rep.WriteText(stderr); err != nil {
			log.Error("profile", zap.Error(err))
			return exitError
		}
		if u := rep.Undefined(); len(u) > 0 {
			log.Warn("groups without observed values", zap.Strings("group_columns", u))
		}
	}

	out, err := p.Run(ctx, f)
	if err != nil {
		log.Error("fill failed", zap.Error(err))
		return exitError
	}
	if err := writeFrame(cfg.Output, out, stdout); err != nil {
		log.Error("write output", zap.String("path", cfg.Output.Path), zap.Error(err))
		return exitError
	}
	log.Info("output written", zap.String("path", cfg.Output.Path), zap.Int("rows", out.Rows()))
	return exitOK
}
