package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/weberc2/xcheck/pkg/check"
	"github.com/weberc2/xcheck/pkg/config"
	xio "github.com/weberc2/xcheck/pkg/io"
	"github.com/weberc2/xcheck/pkg/layout"
	"github.com/weberc2/xcheck/pkg/logger"
	"github.com/weberc2/xcheck/pkg/objectstore"
	"github.com/weberc2/xcheck/pkg/types"
)

const usage = "Usage: xcheck <file_system_image>"

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		// `cli.Exit` errors are printed and exited on inside `Run`
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "xcheck",
		Usage:     "check an xv6 file system image for consistency",
		ArgsUsage: "<file_system_image>",
		Description: "Reads the image without modifying it and verifies its " +
			"superblock, inodes, directories and allocation bitmap. " +
			"The image may be a local path, a gzip-compressed path " +
			"ending in `.gz`, or an `s3://BUCKET/KEY` URL.",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "report every violation instead of stopping at the first",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "`text` or `json`; json writes a report to stdout",
			},
			&cli.BoolFlag{
				Name:  "mmap",
				Usage: "map local images into memory instead of reading them",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "one of `off`, debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "`text` or `json`",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print progress to stderr",
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return cli.Exit(usage, 1)
			}
			cfg, err := loadConfig(ctx)
			if err != nil {
				return cli.Exit(fmt.Sprintf("xcheck: %v", err), 1)
			}
			return exitError(Check(
				ctx.Context,
				cfg,
				ctx.Args().First(),
				ctx.Bool("verbose"),
				stdout,
				stderr,
			))
		},
	}
}

// loadConfig layers flags over the config file and environment.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("all") {
		cfg.ReportAll = ctx.Bool("all")
	}
	if ctx.IsSet("mmap") {
		cfg.Mmap = ctx.Bool("mmap")
	}
	if ctx.IsSet("format") {
		cfg.Format = ctx.String("format")
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	if ctx.IsSet("log-format") {
		cfg.LogFormat = ctx.String("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Check opens and checks one image. Violations are returned as
// `*check.Violation` or, when every violation is wanted, `Violations`.
func Check(
	ctx context.Context,
	cfg *config.Config,
	source string,
	verbose bool,
	stdout io.Writer,
	stderr io.Writer,
) (err error) {
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return err
	}
	ctx = logger.Context(ctx, log)

	opts := xio.OpenOptions{Mmap: cfg.Mmap}
	if strings.HasPrefix(source, "s3://") {
		store, err := objectstore.NewS3ObjectStore(cfg.S3Region)
		if err != nil {
			return err
		}
		opts.Remote = store
	}

	image, err := xio.Open(ctx, source, opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, image.Close()) }()

	decoder, err := layout.LoadSuperblock(image)
	if err != nil {
		return err
	}

	var notifier check.Notifier
	if verbose {
		notifier = check.NewNotifier(stderr)
	}
	report, err := check.NewChecker(decoder, check.Options{
		ReportAll: cfg.ReportAll,
		Image:     source,
		Notifier:  notifier,
	}).Run(ctx)

	if cfg.Format == config.FormatJSON && report != nil {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		if encodeErr := encoder.Encode(report); encodeErr != nil {
			return errors.Join(err, encodeErr)
		}
	}

	if err != nil {
		return err
	}
	if !report.OK() {
		return Violations(report.Violations)
	}
	return nil
}

// Violations is every violation found by a run that did not stop at the
// first one.
type Violations []check.Violation

func (vs Violations) Error() string {
	lines := make([]string, len(vs))
	for i := range vs {
		lines[i] = vs[i].Error()
	}
	return strings.Join(lines, "\n")
}

// exitError maps a run's outcome to the line(s) printed on stderr and the
// exit status.
func exitError(err error) error {
	if err == nil {
		return nil
	}

	var violation *check.Violation
	var violations Violations
	switch {
	case errors.As(err, &violation):
		return cli.Exit("ERROR: "+violation.Error(), 1)
	case errors.As(err, &violations):
		lines := make([]string, len(violations))
		for i := range violations {
			lines[i] = "ERROR: " + violations[i].Error()
		}
		return cli.Exit(strings.Join(lines, "\n"), 1)
	case errors.Is(err, types.ImageNotFoundErr):
		return cli.Exit(types.ImageNotFoundErr.Error(), 1)
	default:
		return cli.Exit(fmt.Sprintf("xcheck: %v", err), 1)
	}
}
