package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZaguanLabs/srctl"
	"github.com/ZaguanLabs/srctl/cache"
	"github.com/ZaguanLabs/srctl/internal/textenc"
	"github.com/spf13/cobra"
)

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(stdout, "%s %s\n", srctl.Name, srctl.FullVersion())
			if commit := srctl.GitCommit; commit != "unknown" && commit != "" {
				fmt.Fprintf(stdout, "  commit:  %s\n", commit)
			}
			if built := srctl.BuildDate; built != "unknown" && built != "" {
				fmt.Fprintf(stdout, "  built:   %s\n", built)
			}
			return nil
		},
	}
}

// readSource reads path as UTF-8, or in the source encoding of direction when one is given.
func readSource(path, direction string) (string, error) {
	if direction == "" {
		data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	d, err := srctl.ParseDirection(direction)
	if err != nil {
		return "", err
	}
	return textenc.ReadFile(path, d)
}

func newScanCmd(opts *options, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan PATH",
		Short: "List the comments that would be sent for translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			text, err := readSource(path, opts.direction)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			scanner, err := pickScanner(opts.scanner, path)
			if err != nil {
				return err
			}
			return printScan(stdout, filepath.Base(path), text, scanner.Scan(text), opts.jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "Decode the file with the source encoding of this direction")
	return cmd
}

type scanEntry struct {
	Kind      string `json:"kind"`
	Line      int    `json:"line"`
	Offset    int    `json:"offset"`
	Candidate string `json:"candidate,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
}

func printScan(w io.Writer, name, text string, spans []srctl.Span, jsonOut bool) error {
	var entries []scanEntry
	comments := 0
	for _, span := range spans {
		if span.Kind != srctl.SpanComment {
			continue
		}
		comments++
		candidate, _, _, ok := srctl.Candidate(span)
		entries = append(entries, scanEntry{
			Kind:      span.Kind.String(),
			Line:      srctl.LineOf(text, span.Start),
			Offset:    span.Start,
			Candidate: candidate,
			Skipped:   !ok,
		})
	}

	if jsonOut {
		out := struct {
			File         string      `json:"file"`
			TotalSpans   int         `json:"total_spans"`
			CommentSpans int         `json:"comment_spans"`
			Comments     []scanEntry `json:"comments"`
		}{
			File:         name,
			TotalSpans:   len(spans),
			CommentSpans: comments,
			Comments:     entries,
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "Scan: %s\n", name)
	fmt.Fprintf(w, "Found %d spans, %d comments:\n\n", len(spans), comments)
	for i, e := range entries {
		if e.Skipped {
			fmt.Fprintf(w, "%3d. line %d (offset %d): skipped\n", i+1, e.Line, e.Offset)
			continue
		}
		fmt.Fprintf(w, "%3d. line %d (offset %d): %q\n", i+1, e.Line, e.Offset, shorten(e.Candidate, 60))
	}
	return nil
}

func newDiffCmd(opts *options, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Show which comments changed between two versions of a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldPath, newPath := args[0], args[1]

			oldText, err := readSource(oldPath, opts.direction)
			if err != nil {
				return fmt.Errorf("reading previous version: %w", err)
			}
			newText, err := readSource(newPath, opts.direction)
			if err != nil {
				return fmt.Errorf("reading new version: %w", err)
			}

			scanner, err := pickScanner(opts.scanner, newPath)
			if err != nil {
				return err
			}

			diff := srctl.DiffCandidates(oldText, scanner.Scan(oldText), newText, scanner.Scan(newText))
			return printDiff(stdout, filepath.Base(oldPath), filepath.Base(newPath), diff, opts.jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "Decode the files with the source encoding of this direction")
	return cmd
}

func printDiff(w io.Writer, oldName, newName string, diff *srctl.DiffResult, jsonOut bool) error {
	stats := diff.Stats()

	if jsonOut {
		type modified struct {
			Line int    `json:"line"`
			Old  string `json:"old"`
			New  string `json:"new"`
		}
		out := struct {
			InputFile    string `json:"input_file"`
			PreviousFile string `json:"previous_file"`
			Stats        struct {
				Added     int `json:"added"`
				Removed   int `json:"removed"`
				Modified  int `json:"modified"`
				Unchanged int `json:"unchanged"`
			} `json:"stats"`
			NeedsTranslation []string   `json:"needs_translation"`
			Added            []string   `json:"added,omitempty"`
			Removed          []string   `json:"removed,omitempty"`
			Modified         []modified `json:"modified,omitempty"`
		}{
			InputFile:        newName,
			PreviousFile:     oldName,
			NeedsTranslation: []string{},
		}
		out.Stats.Added = stats.Added
		out.Stats.Removed = stats.Removed
		out.Stats.Modified = stats.Modified
		out.Stats.Unchanged = stats.Unchanged

		for _, n := range diff.NeedsTranslation() {
			out.NeedsTranslation = append(out.NeedsTranslation, n.Text)
		}
		for _, n := range diff.Added {
			out.Added = append(out.Added, n.Text)
		}
		for _, n := range diff.Removed {
			out.Removed = append(out.Removed, n.Text)
		}
		for _, m := range diff.Modified {
			out.Modified = append(out.Modified, modified{Line: m.New.Line, Old: m.Old.Text, New: m.New.Text})
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "Diff: %s vs %s\n\n", newName, oldName)
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(w, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(w, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(w, "  Modified:  %d\n", stats.Modified)
	fmt.Fprintf(w, "\n")

	if !diff.HasChanges() {
		fmt.Fprintf(w, "No changes detected. All comments are up to date.\n")
		return nil
	}

	fmt.Fprintf(w, "Needs translation: %d comments\n\n", len(diff.NeedsTranslation()))

	if len(diff.Added) > 0 {
		fmt.Fprintf(w, "Added:\n")
		for _, n := range diff.Added {
			fmt.Fprintf(w, "  + line %d: %q\n", n.Line, shorten(n.Text, 50))
		}
		fmt.Fprintf(w, "\n")
	}

	if len(diff.Modified) > 0 {
		fmt.Fprintf(w, "Modified:\n")
		for _, m := range diff.Modified {
			fmt.Fprintf(w, "  ~ line %d: %q -> %q\n", m.New.Line, shorten(m.Old.Text, 30), shorten(m.New.Text, 30))
		}
		fmt.Fprintf(w, "\n")
	}

	if len(diff.Removed) > 0 {
		fmt.Fprintf(w, "Removed:\n")
		for _, n := range diff.Removed {
			fmt.Fprintf(w, "  - %q\n", shorten(n.Text, 50))
		}
		fmt.Fprintf(w, "\n")
	}

	return nil
}

func newCacheCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import the translation cache",
	}

	export := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the cache contents to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := openCacheForCommand(cmd, opts, stderr)
			if err != nil {
				return err
			}
			defer rc.Close()

			exporter := cache.NewExporter(rc.enumerable())
			if opts.direction != "" {
				exporter.ForDirection(opts.direction)
			}
			n, err := exporter.ExportToFile(cmd.Context(), args[0], map[string]string{
				"generator": srctl.UserAgent(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(stdout, "Exported %d entries to %s\n", n, args[0])
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import FILE",
		Short: "Load cache entries from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := openCacheForCommand(cmd, opts, stderr)
			if err != nil {
				return err
			}
			defer rc.Close()

			importer := cache.NewImporter(rc.store)
			if opts.direction != "" {
				importer.ForDirection(opts.direction)
			}
			result, err := importer.ImportFromFile(args[0])
			if err != nil {
				return err
			}
			if err := rc.Save(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(stdout, "Imported %d entries (%d skipped, %d failed)\n",
				result.Imported, result.Skipped, result.Failed)
			return nil
		},
	}

	for _, c := range []*cobra.Command{export, imp} {
		c.Flags().StringVar(&opts.direction, "direction", "", "Only entries of this direction (e.g. jpn-eng)")
	}
	cmd.AddCommand(export, imp)
	return cmd
}

// openCacheForCommand opens the Redis cache or the cache file named by the flags and config.
func openCacheForCommand(cmd *cobra.Command, opts *options, stderr io.Writer) (*runCache, error) {
	if opts.direction != "" {
		if _, err := srctl.ParseDirection(opts.direction); err != nil {
			return nil, err
		}
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	if cfg.RedisURL == "" && cfg.CacheFile == "" {
		return nil, fmt.Errorf("no cache configured: set --redis-url or --cache-file")
	}

	return openCache(cfg, newLogger(stderr, opts))
}

// shorten truncates s to at most n runes.
func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
