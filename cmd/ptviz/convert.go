package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/psidex/ptviz/internal/graph"
)

type convertOptions struct {
	input  string
	output string
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a parse tree dump into an elements document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "parse tree dump, - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "elements document, - for stdout")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runConvert(cmd *cobra.Command, root *rootOptions, opts *convertOptions) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	c, err := graph.FromParseTree(in)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.input, err)
	}

	if opts.output == "-" {
		return c.EncodeDocument(cmd.OutOrStdout())
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	if err := c.EncodeDocument(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("converted parse tree", "file", opts.output, "nodes", len(c.Nodes()), "edges", len(c.Edges()))
	return nil
}
