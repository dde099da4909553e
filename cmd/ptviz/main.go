package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/psidex/ptviz/internal/classify"
	"github.com/psidex/ptviz/internal/config"
	"github.com/psidex/ptviz/internal/fetch"
	"github.com/psidex/ptviz/internal/interact"
	"github.com/psidex/ptviz/internal/layout"
	"github.com/psidex/ptviz/internal/layout/dagre"
	"github.com/psidex/ptviz/internal/lib"
	"github.com/psidex/ptviz/internal/surface"
)

type rootOptions struct {
	configFile string
	profile    string
	logLevel   string
	source     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "ptviz",
		Short: "Lay out and view parse tree graphs",
		Long: `ptviz loads a Cytoscape elements document, lays it out with dagre, marks
PT_NODE nodes and renders the result to a file or serves it in a browser. The convert
command turns a parse tree dump into such a document.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&opts.profile, "profile", config.ProfileApp, "settings profile, app or demo")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides the config (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&opts.source, "source", "s", "", "elements document path or URL, overrides the config")

	root.AddCommand(newRenderCmd(opts), newServeCmd(opts), newConvertCmd(opts))
	return root
}

// load resolves the settings: profile defaults, then the config file, then flags.
func (o *rootOptions) load() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFile(o.configFile, o.profile)
	} else {
		cfg, err = config.Profile(o.profile)
	}
	if err != nil {
		return config.Config{}, err
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.source != "" {
		cfg.Source = o.source
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, cfg config.Config) (*slog.Logger, error) {
	level, err := lib.ParseSLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return lib.NiceLogger(w, level), nil
}

// buildSurface bootstraps the layouts, builds the surface on page and subscribes the
// classifier and the click reporter. The caller loads and closes it.
func buildSurface(cfg config.Config, page []byte, logger *slog.Logger, clicks io.Writer) (*surface.Surface, error) {
	reg := layout.NewRegistry()
	if err := dagre.Register(reg, cfg.DagreOptions()...); err != nil {
		return nil, err
	}

	sheet, err := cfg.Sheet()
	if err != nil {
		return nil, fmt.Errorf("style sheet: %w", err)
	}

	fetcher := fetch.New(cfg.FetchTimeout.Duration)
	fetcher.UserAgent = cfg.UserAgent
	fetcher.RandomUserAgent = cfg.RandomUserAgent

	s, err := surface.New(surface.Config{
		Container: cfg.Container,
		Page:      page,
		Style:     sheet,
		Layout:    cfg.Layout,
		Source:    cfg.Source,
	}, surface.Deps{
		Layouts: reg,
		Loader:  fetcher,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	s.On(surface.EventReady, classify.Default().Handler(logger))
	reporter := &interact.Reporter{Out: clicks, Mode: cfg.ClickMode(), Logger: logger}
	s.On(surface.EventClick, reporter.Handler())
	return s, nil
}
