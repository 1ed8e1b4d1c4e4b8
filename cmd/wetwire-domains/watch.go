package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-domains-go/domains"
	"github.com/lex00/wetwire-domains-go/internal/ctxlog"
	"github.com/lex00/wetwire-domains-go/internal/lint"
)

// newWatchCmd creates the "watch" subcommand for auto-rebuilding on manifest changes.
func newWatchCmd() *cobra.Command {
	var (
		lintOnly     bool
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch <manifest>",
		Short: "Auto-rebuild on manifest changes",
		Long: `Watch monitors a manifest for changes and automatically rebuilds.

The watch command:
- Monitors the manifest file
- Runs lint on each change
- Rebuilds unless lint reports errors (or --lint-only is set)
- Debounces rapid changes to avoid excessive rebuilds

Examples:
    wetwire-domains watch bank.yaml -o template.json
    wetwire-domains watch bank.yaml --lint-only
    wetwire-domains watch bank.yaml --debounce 1s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, args[0], watchOptions{
				lintOnly:     lintOnly,
				debounce:     debounce,
				outputFormat: outputFormat,
				outputFile:   outputFile,
			})
		},
	}

	cmd.Flags().BoolVar(&lintOnly, "lint-only", false, "Only run lint, skip build")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format for build: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for build (default: stdout)")

	return cmd
}

type watchOptions struct {
	lintOnly     bool
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch rebuilds path whenever it changes, until ctx is canceled.
func runWatch(ctx context.Context, path string, opts watchOptions) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", abs, err)
	}
	fmt.Printf("Watching: %s\n", abs)

	fmt.Println("Running initial lint/build...")
	runLintAndBuild(ctx, abs, opts)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	fmt.Println("\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isManifestChange(event, abs) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			fmt.Printf("\n[%s] Change detected, rebuilding...\n", time.Now().Format("15:04:05"))
			runLintAndBuild(ctx, abs, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ctxlog.FromContext(ctx).Error("watch error", "error", err)

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			fmt.Println("\nStopping watch...")
			return nil
		}
	}
}

// isManifestChange reports whether event wrote or replaced the manifest.
func isManifestChange(event fsnotify.Event, manifestPath string) bool {
	if filepath.Clean(event.Name) != manifestPath {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// runLintAndBuild lints the manifest and builds it unless lint found errors.
func runLintAndBuild(ctx context.Context, path string, opts watchOptions) {
	lintResult, err := lint.LintFile(path, lint.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lint error: %v\n", err)
		return
	}

	for _, issue := range lintResult.Issues {
		fmt.Printf("%s:%d: %s: %s [%s]\n", issue.File, issue.Line, issue.Severity, issue.Message, issue.Rule)
	}
	if lintResult.HasErrors() {
		fmt.Println("Lint failed, skipping build")
		return
	}
	fmt.Println("Lint passed")

	if opts.lintOnly {
		return
	}

	if err := outputResult(domains.BuildManifest(ctx, path), opts.outputFormat, opts.outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Build error: %v\n", err)
		return
	}
	if opts.outputFile != "" {
		fmt.Printf("Wrote %s\n", opts.outputFile)
	}
}
