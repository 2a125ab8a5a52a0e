package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/abs/internal/config"
	abserrors "github.com/vango-dev/abs/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┐ ┌─┐
  ├─┤├┴┐└─┐
  ┴ ┴└─┘└─┘
`

// errReported signals a failure that was already printed.
var errReported = errors.New("failure reported")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			abserrors.PrintError(stderr, err)
		}
		return 1
	}
	return 0
}

// cli holds state shared by every command.
type cli struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	noColor    bool
	styles     styles
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr, styles: newStyles(false)}

	rootCmd := &cobra.Command{
		Use:   "abs",
		Short: "Inspect attribute-bound components in HTML documents",
		Long: `abs discovers the nodes of an HTML document that carry the component
attribute (data-abs-component by default) and binds a component to each.

The CLI uses recording components to report what a page would
initialize, to strip component subtrees, and to run an inspection
service with metrics and a live event stream.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			color := !c.noColor && isTerminal(c.stdout)
			if !color {
				abserrors.DisableColors()
			}
			c.styles = newStyles(color)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to abs.json or abs.yaml (default: nearest in working directory)")
	rootCmd.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		scanCmd(c),
		stripCmd(c),
		serveCmd(c),
		versionCmd(c),
	)
	return rootCmd
}

// loadConfig reads --config, or the nearest project config, or defaults.
func (c *cli) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if errors.Is(err, abserrors.New("A011")) {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type styles struct {
	ok     lipgloss.Style
	fail   lipgloss.Style
	warn   lipgloss.Style
	dim    lipgloss.Style
	tag    lipgloss.Style
	header lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{ok: plain, fail: plain, warn: plain, dim: plain, tag: plain, header: plain}
	}
	return styles{
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		tag:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		header: lipgloss.NewStyle().Bold(true).Underline(true),
	}
}

// success prints a success message.
func (c *cli) success(format string, args ...any) {
	fmt.Fprintf(c.stderr, "%s %s\n", c.styles.ok.Render("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func (c *cli) info(format string, args ...any) {
	fmt.Fprintf(c.stderr, "  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func (c *cli) errorMsg(format string, args ...any) {
	fmt.Fprintf(c.stderr, "%s %s\n", c.styles.fail.Render("✗"), fmt.Sprintf(format, args...))
}
