// Command srctl translates the comments of a source file.
//
//	srctl PATH DIRECTION MODE
//
// The translated copy is written next to the input as NAME.TRANSLATED.EXT.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ZaguanLabs/srctl"
	"github.com/ZaguanLabs/srctl/internal/config"
	"github.com/ZaguanLabs/srctl/internal/textenc"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the flags shared by every command.
type options struct {
	configPath string
	scanner    string
	verbose    bool
	quiet      bool
	jsonOutput bool

	providerName string
	workers      int
	retries      int
	rpm          int
	timeout      int
	redisURL     string
	cacheTTL     int
	cacheFile    string
	noCorrector  bool
	maxChars     int
	output       string
	direction    string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	if args == nil {
		// cobra falls back to os.Args on a nil slice
		args = []string{}
	}
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "srctl PATH DIRECTION MODE",
		Short: srctl.Description,
		Long: fmt.Sprintf(`Translate the comments of a C-family source file.

Only comment text changes: code, string and character literals, comment
delimiters and surrounding whitespace are preserved byte for byte. The result
is written to NAME.TRANSLATED.EXT next to PATH.

  DIRECTION : %s
  MODE      : %s`, srctl.AvailableDirectionsString(), modesUsage()),
		Args:          usageArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context(), cmd, opts, args, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Configuration file (default: ./"+config.FileName+" when present)")
	pf.StringVar(&opts.scanner, "scanner", "auto", "Scanner: auto, pattern, state, go or markup")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every comment decision")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Only log warnings and errors")
	pf.StringVar(&opts.redisURL, "redis-url", "", "Redis URL of a shared translation cache")
	pf.IntVar(&opts.cacheTTL, "cache-ttl", 0, "Cache TTL in seconds (0 = no expiry)")
	pf.StringVar(&opts.cacheFile, "cache-file", "", "JSON file loaded into the cache before the run and saved after it")

	f := root.Flags()
	f.StringVar(&opts.providerName, "provider", "", "Translation backend: reverso, openai or mock")
	f.IntVar(&opts.workers, "workers", 0, "Concurrent translation requests (1 = sequential)")
	f.IntVar(&opts.retries, "retries", 0, "Retries of a failed request (0 = abort on first failure)")
	f.IntVar(&opts.rpm, "rpm", 0, "Maximum requests per minute (0 = unlimited)")
	f.IntVar(&opts.timeout, "timeout", 0, "Per-request timeout in seconds")
	f.BoolVar(&opts.noCorrector, "no-corrector", false, "Disable the backend spell corrector")
	f.IntVar(&opts.maxChars, "max-chars", 0, "Maximum translation length requested from the backend")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default: NAME.TRANSLATED.EXT next to PATH)")

	root.AddCommand(
		newScanCmd(opts, stdout),
		newDiffCmd(opts, stdout),
		newCacheCmd(opts, stdout, stderr),
		newVersionCmd(stdout),
	)

	return root
}

// usageArgs rejects a wrong argument count with the list of directions and modes.
func usageArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 3 {
		return nil
	}
	return fmt.Errorf("usage: %s\n   - PATH      : path of the source file\n   - DIRECTION : %s\n   - MODE      : %s",
		cmd.Use, srctl.AvailableDirectionsString(), modesUsage())
}

func modesUsage() string {
	parts := make([]string, len(srctl.Modes))
	for i, m := range srctl.Modes {
		parts[i] = fmt.Sprintf("%d = %s", int(m), m)
	}
	return strings.Join(parts, ", ")
}

func runTranslate(ctx context.Context, cmd *cobra.Command, opts *options, args []string, stdout, stderr io.Writer) error {
	path := args[0]

	direction, err := srctl.ParseDirection(args[1])
	if err != nil {
		return err
	}
	mode, err := srctl.ParseMode(args[2])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, opts)
	scanner, err := pickScanner(opts.scanner, path)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &srctl.ValidationError{Field: "path", Value: path, Cause: errors.New("is a directory")}
	}

	text, err := textenc.ReadFile(path, direction)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	prov, err := buildProvider(cfg, logger)
	if err != nil {
		return err
	}

	rc, err := openCache(cfg, logger)
	if err != nil {
		return err
	}
	defer rc.Close()

	progress := newProgress(stderr, opts.quiet, filepath.Base(path))
	defer progress.Finish()

	translator := srctl.NewTranslator(direction, prov,
		srctl.WithMode(mode),
		srctl.WithScanner(scanner),
		srctl.WithCache(rc.store),
		srctl.WithCorrector(cfg.UseCorrector),
		srctl.WithMaxChars(cfg.MaxChars),
		srctl.WithWorkers(cfg.Workers),
		srctl.WithProgress(progress.Update),
		srctl.WithLogger(logger),
	)

	logger.Info().
		Str("file", path).
		Str("direction", direction.String()).
		Str("mode", mode.String()).
		Str("provider", cfg.Provider).
		Str("encoding", textenc.Name(textenc.ForSource(direction))).
		Msg("Translating comments")

	result, err := translator.Process(ctx, text, scanner.ContentType())
	if err != nil {
		return err
	}
	progress.Finish()

	outputPath := opts.output
	if outputPath == "" {
		outputPath = textenc.OutputPath(path)
	}
	if err := textenc.WriteFile(outputPath, result.Content, direction); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	if err := rc.Save(ctx); err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(stdout, "%s generated.\n", filepath.Base(outputPath))
	if !opts.quiet {
		fmt.Fprintf(stdout, "  Spans:      %d\n", result.TotalSpans)
		fmt.Fprintf(stdout, "  Comments:   %d\n", result.CommentSpans)
		fmt.Fprintf(stdout, "  Translated: %d\n", result.TranslatedCount)
		fmt.Fprintf(stdout, "  From cache: %d\n", result.CachedCount)
		fmt.Fprintf(stdout, "  Unchanged:  %d\n", result.SkippedCount)
	}

	return nil
}

// loadConfig layers the explicitly set command-line flags over config.Load.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = opts.providerName
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("retries") {
		cfg.Retries = opts.retries
	}
	if flags.Changed("rpm") {
		cfg.RequestsPerMinute = opts.rpm
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = opts.timeout
	}
	if flags.Changed("redis-url") {
		cfg.RedisURL = opts.redisURL
	}
	if flags.Changed("cache-ttl") {
		cfg.CacheTTL = opts.cacheTTL
	}
	if flags.Changed("cache-file") {
		cfg.CacheFile = opts.cacheFile
	}
	if flags.Changed("no-corrector") {
		cfg.UseCorrector = !opts.noCorrector
	}
	if flags.Changed("max-chars") {
		cfg.MaxChars = opts.maxChars
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, opts *options) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case opts.verbose:
		level = zerolog.DebugLevel
	case opts.quiet:
		level = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    color.NoColor,
		TimeFormat: time.Kitchen,
	}).Level(level).With().Timestamp().Logger()
}
