package main

import (
	"github.com/spf13/cobra"

	"github.com/psidex/ptviz/internal/webserver"
)

type serveOptions struct {
	bind      string
	staticDir string
	title     string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph in a browser and report clicked nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.bind, "bind", "b", "", "the ip:port to bind the webserver to, overrides the config")
	cmd.Flags().StringVarP(&opts.staticDir, "dir", "d", "", "the directory to serve static files from, overrides the config")
	cmd.Flags().StringVar(&opts.title, "title", "ptviz", "page title")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	if opts.bind != "" {
		cfg.Listen = opts.bind
	}
	if opts.staticDir != "" {
		cfg.StaticDir = opts.staticDir
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	wcfg := webserver.Config{Addr: cfg.Listen, StaticDir: cfg.StaticDir, Title: opts.title}
	s, err := buildSurface(cfg, webserver.HostPage(wcfg, cfg.Container), logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	// The page shows a load failure instead of the graph, so keep serving.
	if err := s.Load(cmd.Context()); err != nil {
		logger.Warn("serving without a graph", "error", err)
	}

	return webserver.New(wcfg, s, logger).Run(cmd.Context())
}
