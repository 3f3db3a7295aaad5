package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/devblog/contentd/internal/app"
	"github.com/devblog/contentd/internal/config"
	"github.com/devblog/contentd/internal/document/service"
	"github.com/devblog/contentd/internal/preview"
	"github.com/devblog/contentd/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

// errFailures is returned when at least one file could not be served.
var errFailures = errors.New("content check failed")

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type checkOptions struct {
	collections []string
	preview     bool
	words       int
}

func NewRootCommand() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "contentcheck",
		Short: "Validate every content file the server would serve",
		Long: `Reads each configured collection the same way the content server does
(CONTENT_* environment variables or .env) and reports every file whose
frontmatter or markdown cannot be turned into a document.

Exits non-zero when any file fails.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Init(cfg.LogLevel)
			if opts.words <= 0 {
				opts.words = cfg.Preview.MaxWords
			}

			ctx := cmd.Context()
			repo, err := app.NewRepository(ctx, cfg)
			if err != nil {
				return err
			}
			services := app.NewServices(cfg, repo, app.NewRenderer(cfg.Markdown))
			return runCheck(ctx, cmd.OutOrStdout(), services, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.collections, "collection", "c", nil, "only check these collections (repeatable)")
	cmd.Flags().BoolVarP(&opts.preview, "preview", "p", false, "print the preview of every valid document")
	cmd.Flags().IntVar(&opts.words, "words", 0, "preview length in words (default PREVIEW_MAX_WORDS)")
	return cmd
}

// runCheck scans each selected collection and writes one line per document
// or failure. It returns errFailures when anything failed.
func runCheck(ctx context.Context, out io.Writer, services []*service.Service, opts checkOptions) error {
	known := make(map[string]bool, len(services))
	for _, svc := range services {
		known[svc.Name()] = true
	}
	want := map[string]bool{}
	for _, name := range opts.collections {
		if !known[name] {
			return fmt.Errorf("unknown collection %q", name)
		}
		want[name] = true
	}
	if opts.words <= 0 {
		opts.words = preview.DefaultMaxWords
	}

	failed := 0
	for _, svc := range services {
		if len(want) > 0 && !want[svc.Name()] {
			continue
		}
		rep, err := svc.Scan(ctx)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", svc.Name(), err)
			failed++
			continue
		}
		for _, d := range rep.Documents {
			if opts.preview {
				fmt.Fprintf(out, "ok   %s/%s: %s\n", svc.Name(), d.Slug, preview.Truncate(d.Content, opts.words))
			} else {
				fmt.Fprintf(out, "ok   %s/%s\n", svc.Name(), d.Slug)
			}
		}
		for _, f := range rep.Failures {
			fmt.Fprintf(out, "FAIL %s/%s: %v\n", svc.Name(), f.Slug, f.Err)
		}
		failed += len(rep.Failures)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d problem(s)", errFailures, failed)
	}
	return nil
}
