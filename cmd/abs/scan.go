package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/abs/internal/config"
	abserrors "github.com/vango-dev/abs/internal/errors"
	"github.com/vango-dev/abs/internal/inspect"
	"github.com/vango-dev/abs/pkg/source"
)

func scanCmd(c *cli) *cobra.Command {
	var (
		jsonOut         bool
		tags            []string
		continueOnError bool
	)

	cmd := &cobra.Command{
		Use:   "scan [refs...]",
		Short: "Report the components a document would initialize",
		Long: `Load each document, bind a recording component to every tagged node
and report what was discovered.

References may be local paths, doublestar globs, http(s) URLs or
s3://bucket/key objects. Components are taken from --tags, then the
"components" list of the config file; with neither, every tag found
in the document is registered.

The command exits non-zero when any document reported errors.

Examples:
  abs scan index.html
  abs scan 'site/**/*.html' --json
  abs scan https://example.com/ --tags Tabs,Menu
  abs scan s3://my-bucket/pages/home.html`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return abserrors.New("A030").
					WithSubject("scan").
					WithSuggestion("pass at least one file, glob or URL")
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(tags) > 0 {
				cfg.Components = tags
			}
			if cmd.Flags().Changed("continue-on-error") {
				cfg.ContinueOnError = continueOnError
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.runScan(ctx, cfg, args, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")
	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "Component tags to register (default from config)")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Keep scanning a document after a failing node")

	return cmd
}

func (c *cli) runScan(ctx context.Context, cfg *config.Config, refs []string, jsonOut bool) error {
	refs, err := source.Expand(refs)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return abserrors.New("A030").
			WithSubject("scan").
			WithDetail("No documents matched the given patterns.")
	}

	logger := cfg.NewLogger(c.stderr)
	loader := newLoader(cfg)

	results := make([]inspect.Result, 0, len(refs))
	failed := false
	for _, ref := range refs {
		doc, err := loader.Load(ctx, ref)
		if err != nil {
			failed = true
			if !jsonOut {
				abserrors.PrintError(c.stderr, err)
				continue
			}
			results = append(results, inspect.Result{Source: ref, Errors: []string{err.Error()}})
			continue
		}

		session := inspect.NewSession(ref, doc, cfg.Components, cfg.ManagerOptions(logger)...)
		res := session.Scan(ctx)
		if !res.OK() {
			failed = true
		}
		results = append(results, res)
	}

	if jsonOut {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			c.printResult(res)
		}
	}

	if failed {
		return errReported
	}
	return nil
}

func newLoader(cfg *config.Config) *source.Loader {
	return source.NewLoader(
		source.WithHTTPTimeout(cfg.HTTPTimeout()),
		source.WithS3Region(cfg.Sources.S3Region),
	)
}

func (c *cli) printResult(res inspect.Result) {
	s := c.styles
	w := c.stdout

	fmt.Fprintln(w, s.header.Render(res.Source))
	for _, e := range res.Components {
		indent := strings.Repeat("  ", e.Depth+1)
		fmt.Fprintf(w, "%s%s %s %s\n", indent, s.tag.Render(e.Tag), s.dim.Render(e.Node), s.dim.Render("("+string(e.Phase)+")"))
	}
	for _, msg := range res.Errors {
		fmt.Fprintf(w, "  %s %s\n", s.fail.Render("✗"), msg)
	}

	status := s.ok.Render("ok")
	if !res.OK() {
		status = s.fail.Render("failed")
	}
	fmt.Fprintf(w, "  %s %s\n\n", status, s.dim.Render(res.Report.String()))
}
