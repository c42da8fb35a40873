package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/rmx/internal/config"
	rerrors "github.com/vango-dev/rmx/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌┬┐─┐ ┬
  ├┬┘│││┌┴┬┘
  ┴└─┴ ┴┴ └─
`

// app is the state shared by every command.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

func main() {
	a := &app{out: os.Stdout, errOut: os.Stderr}
	if err := a.rootCmd().Execute(); err != nil {
		rerrors.Fprint(a.errOut, err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rmx",
		Short: "Render, serve and hydrate rmx component pages",
		Long: `rmx renders component trees on the server with hydration markers
and adopts that markup on the client without re-creating it.

The rmx command works with the built-in demo pages:

  • render writes a server-rendered page
  • serve streams pages, frames and /metrics over HTTP
  • inspect lists the hydration and frame regions of an HTML file
  • hydrate adopts an HTML file in memory and reports the outcome`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (default: rmx.json or rmx.yaml in this or a parent directory)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		a.renderCmd(),
		a.serveCmd(),
		a.inspectCmd(),
		a.hydrateCmd(),
		a.versionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		a.cfg.Log.Format = a.logFormat
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if a.noColor || !isTerminal(a.out) {
		rerrors.DisableColors()
	}

	a.logger, err = newLogger(a.errOut, a.cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(a.logger)
	return nil
}

// newLogger builds the slog handler cfg asks for.
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printBanner prints the rmx ASCII art banner.
func (a *app) printBanner() {
	fmt.Fprint(a.out, banner)
}
