package main

import (
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
	"github.com/spf13/cobra"

	"github.com/psidex/ptviz/internal/graphs"
	"github.com/psidex/ptviz/internal/graphs/graphology"
	"github.com/psidex/ptviz/internal/graphs/vis"
)

type renderOptions struct {
	format    string
	output    string
	title     string
	noSandbox bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Load, lay out and render the graph to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "vis", "vis, echarts, cytoscape, graphology, dot, adjacency or png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "graph", "output file name without extension, - for stdout")
	cmd.Flags().StringVar(&opts.title, "title", "ptviz", "page title for html formats")
	cmd.Flags().BoolVar(&opts.noSandbox, "no-sandbox", false, "run chrome without its sandbox (png only)")
	return cmd
}

func chooseRenderer(format string, opts *renderOptions, logger *slog.Logger) (graphs.Renderer, error) {
	var chosen graphs.Renderer
	switch format {
	case "vis":
		chosen = vis.Vis{Title: opts.title}
	case "echarts":
		chosen = graphs.ECharts{Title: opts.title}
	case "cytoscape":
		chosen = graphs.Cytoscape{}
	case "graphology":
		chosen = graphology.Graphology{}
	case "dot":
		chosen = graphs.DOT{Name: opts.title}
	case "adjacency":
		chosen = graphs.Adjacency{}
	case "png":
		shot := graphs.Screenshot{HTML: vis.Vis{Title: opts.title}, Logger: logger}
		if opts.noSandbox {
			shot.AllocatorOptions = append(shot.AllocatorOptions, chromedp.NoSandbox)
		}
		chosen = shot
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	return chosen, nil
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}
	renderer, err := chooseRenderer(opts.format, opts, logger)
	if err != nil {
		return err
	}

	s, err := buildSurface(cfg, vis.Vis{Title: opts.title}.HostPage(cfg.Container), logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	// A failed load still renders, the output shows the failure.
	loadErr := s.Load(cmd.Context())
	view := s.View()

	if opts.output == "-" {
		if err := renderer.Render(cmd.OutOrStdout(), view); err != nil {
			return err
		}
	} else {
		filename, err := graphs.RenderToFile(renderer, view, opts.output)
		if err != nil {
			return err
		}
		logger.Info("rendered graph", "file", filename, "nodes", len(view.Nodes), "edges", len(view.Edges))
	}
	return loadErr
}
