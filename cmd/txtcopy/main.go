package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bamsammich/txtcopy/internal/config"
	"github.com/bamsammich/txtcopy/internal/engine"
	"github.com/bamsammich/txtcopy/internal/event"
	"github.com/bamsammich/txtcopy/internal/filter"
	"github.com/bamsammich/txtcopy/internal/stats"
	"github.com/bamsammich/txtcopy/internal/ui"
)

var version = "dev"

// exitInterrupted is the conventional status for a run stopped by SIGINT.
const exitInterrupted = 130

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// excludeFlag is a custom pflag.Value that appends each --exclude to a
// shared filter.Chain in CLI order.
type excludeFlag struct {
	chain *filter.Chain
}

func (*excludeFlag) String() string { return "" }
func (*excludeFlag) Type() string   { return "pattern" }

func (f *excludeFlag) Set(val string) error {
	return f.chain.AddExclude(val)
}

type options struct {
	source      string
	destination string
	formats     filter.ExtensionSet
	chain       *filter.Chain
	gitignore   bool
	dryRun      bool
	bwLimitStr  string
	verbose     bool
	quiet       bool
	logFile     string
	showVersion bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.AddCommand(newDocsCmd())
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{chain: filter.NewChain()}
	defaultFormats, err := filter.ParseExtensions(config.DefaultFormats)
	if err != nil {
		panic(fmt.Sprintf("default formats: %v", err))
	}
	o.formats = defaultFormats

	rootCmd := &cobra.Command{
		Use:   "txtcopy [flags]",
		Short: "Copy source files into one flat directory with a .txt suffix",
		Long: `txtcopy walks a source tree, picks files whose extension is in the format
list, and copies each one into the destination directory as <name>.txt.
Name collisions get a numeric suffix (index_1.php.txt); existing files are
never overwritten.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.showVersion {
				fmt.Fprintf(stdout, "txtcopy %s\n", version)
				return nil
			}
			return runCopy(cmd, o, stdout, stderr)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&o.source, "source", "s", config.DefaultSource, "source directory to scan")
	flags.StringVarP(&o.destination, "destination", "d", config.DefaultDestination, "directory to copy into")
	flags.VarP(&o.formats, "formats", "f", "comma-separated extensions to copy (dot optional)")
	flags.Var(&excludeFlag{chain: o.chain}, "exclude", "skip paths matching PATTERN (repeatable)")
	flags.BoolVar(&o.gitignore, "gitignore", false, "skip paths ignored by <source>/.gitignore")
	flags.BoolVar(&o.dryRun, "dry-run", false, "show planned names without writing")
	flags.StringVar(&o.bwLimitStr, "bwlimit", "", "bandwidth limit (e.g. 10M, 1G)")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&o.quiet, "quiet", "q", false, "suppress all output except errors")
	flags.StringVar(&o.logFile, "log", "", "write structured JSON log to FILE")
	flags.BoolVar(&o.showVersion, "version", false, "print version and exit")

	return rootCmd
}

//nolint:gocyclo,revive // CLI entry point wires logging, presenter and engine
func runCopy(cmd *cobra.Command, o *options, stdout, stderr io.Writer) error {
	// Configure logging.
	logLevel := slog.LevelWarn
	if o.verbose {
		logLevel = slog.LevelDebug
	} else if !o.quiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel})
	var logHandler slog.Handler = textHandler
	if o.logFile != "" {
		lf, err := os.Create(o.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer lf.Close()
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))

	// Load optional config file.
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config", "path", config.Path(), "error", err)
	}
	if err := applyConfigDefaults(cmd, cfg.Defaults, o); err != nil {
		return err
	}

	var bwLimit int64
	if o.bwLimitStr != "" {
		bwLimit, err = filter.ParseSize(o.bwLimitStr)
		if err != nil {
			return fmt.Errorf("invalid --bwlimit: %w", err)
		}
	}

	if o.gitignore {
		if err := o.chain.LoadGitignore(o.source); err != nil {
			slog.Warn("ignoring .gitignore", "error", err)
		}
	}

	if o.dryRun {
		slog.Info("dry run mode")
	}

	// Set up context with signal handling.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// When --log is set, tee events through a logging goroutine that
	// writes structured records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if o.logFile != "" {
		teed := make(chan event.Event, 256)
		go func() {
			for ev := range events {
				logEvent(ev)
				teed <- ev
			}
			close(teed)
		}()
		presenterEvents = teed
	}

	color := false
	if f, ok := stdout.(*os.File); ok {
		color = ui.IsTTY(f.Fd())
	}

	if !o.quiet {
		ui.WriteBanner(stdout, color, o.source, o.destination, o.formats.List())
	}

	presenter := ui.NewPresenter(ui.Config{
		Writer:    stdout,
		ErrWriter: stderr,
		Stats:     collector,
		SrcRoot:   o.source,
		Color:     color,
		Quiet:     o.quiet,
	})

	engineCfg := engine.Config{
		Source:      o.source,
		Destination: o.destination,
		Extensions:  o.formats,
		DryRun:      o.dryRun,
		BWLimit:     bwLimit,
		Lock:        true,
		Events:      events,
		Stats:       collector,
	}
	if !o.chain.Empty() {
		engineCfg.Exclude = o.chain
	}

	slog.Debug("starting copy",
		"source", o.source,
		"destination", o.destination,
		"formats", o.formats.String(),
		"dry_run", o.dryRun,
	)

	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	result := engine.Run(ctx, engineCfg)
	stop()
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(stderr, "presenter: %v\n", presenterErr)
	}

	switch {
	case errors.Is(result.Err, engine.ErrInterrupted):
		slog.Warn("run interrupted",
			"copied", result.Copied,
			"failed", result.Failed,
			"skipped", result.Skipped,
		)
		return &exitError{code: exitInterrupted}
	case errors.Is(result.Err, engine.ErrDestination):
		slog.Error("cannot continue", "error", result.Err)
		return &exitError{code: 1}
	case result.Err != nil:
		slog.Error("cannot continue", "error", result.Err)
		return &exitError{code: 2}
	}

	if !o.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(stderr, summary)
		}
	}
	return nil
}

func logEvent(ev event.Event) {
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.String("path", ev.Path),
	}
	if ev.Target != "" {
		attrs = append(attrs, slog.String("target", ev.Target))
	}
	if ev.Size > 0 {
		attrs = append(attrs, slog.Int64("size", ev.Size))
	}
	if ev.Type == event.ScanComplete || ev.Type == event.CopyComplete {
		attrs = append(attrs, slog.Int64("total", ev.Total), slog.Int64("failed", ev.Failed))
	}
	if ev.Skipped > 0 {
		attrs = append(attrs, slog.Int64("skipped", ev.Skipped))
	}
	if ev.DryRun {
		attrs = append(attrs, slog.Bool("dry_run", true))
	}
	if ev.Error != nil {
		attrs = append(attrs, slog.String("error", ev.Error.Error()))
	}
	slog.LogAttrs(context.Background(), slog.LevelDebug, "txtcopy.event", attrs...)
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, o *options) error {
	changed := cmd.Flags().Changed

	if !changed("source") && defaults.Source != nil {
		o.source = *defaults.Source
	}
	if !changed("destination") && defaults.Destination != nil {
		o.destination = *defaults.Destination
	}
	if !changed("formats") && defaults.Formats != nil {
		set, err := filter.ParseExtensions(*defaults.Formats)
		if err != nil {
			return fmt.Errorf("config %s: %w", config.Path(), err)
		}
		o.formats = set
	}
	if !changed("exclude") {
		for _, p := range defaults.Exclude {
			if err := o.chain.AddExclude(p); err != nil {
				return fmt.Errorf("config %s: %w", config.Path(), err)
			}
		}
	}
	if !changed("gitignore") && defaults.Gitignore != nil {
		o.gitignore = *defaults.Gitignore
	}
	if !changed("bwlimit") && defaults.BWLimit != nil {
		o.bwLimitStr = *defaults.BWLimit
	}
	return nil
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
