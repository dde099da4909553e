package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const elements = `{"elements": {
	"nodes": [{"data": {"id": "a", "type": "PT_NODE"}}, {"data": {"id": "b", "type": "OTHER"}}],
	"edges": [{"data": {"id": "a_b", "source": "a", "target": "b"}}]}}`

func writeElements(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(path, []byte(elements), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRenderAdjacencyToStdout(t *testing.T) {
	out, _, err := execute(t, "render", "-s", writeElements(t), "-f", "adjacency", "-o", "-")
	require.NoError(t, err)

	var adjacency map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &adjacency))
	assert.Equal(t, map[string][]string{"a": {"b"}, "b": {}}, adjacency)
}

func TestRenderClassifiesAndStylesDemo(t *testing.T) {
	out, _, err := execute(t, "--profile", "demo", "render", "-s", writeElements(t), "-f", "dot", "-o", "-")
	require.NoError(t, err)

	assert.Contains(t, out, `id="a", label="PT_NODE", fillcolor="green", class="node pt_node"`)
	assert.Contains(t, out, `id="b", label="OTHER", fillcolor="#11479e"`)
}

func TestRenderToFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "tree")
	_, _, err := execute(t, "render", "-s", writeElements(t), "-f", "cytoscape", "-o", base, "--log-level", "error")
	require.NoError(t, err)

	contents, err := os.ReadFile(base + ".cjson")
	require.NoError(t, err)
	assert.Contains(t, string(contents), "node pt_node")
}

func TestRenderLoadFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	out, _, err := execute(t, "render", "-s", missing, "-f", "dot", "-o", "-")
	require.Error(t, err)
	assert.Contains(t, out, "load failed")
}

func TestRenderUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "render", "-s", writeElements(t), "-f", "svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format: svg")
}

func TestUnknownProfile(t *testing.T) {
	_, _, err := execute(t, "--profile", "nope", "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown profile "nope"`)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ptviz.yaml")
	cfg := "profile: demo\nsource: " + writeElements(t) + "\ncontainer: graph\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out, _, err := execute(t, "--config", cfgPath, "render", "-f", "vis", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `<div id="graph"></div>`)
	assert.True(t, strings.Contains(out, `"id":"a"`))
}

const parseTree = `{"ADDRESS": "0x10", "TYPE": "PT_NODE", "text": "select",
	"next": {"ADDRESS": "0x20", "TYPE": "PT_VALUE"}}`

func TestConvertThenRender(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tree.json")
	out := filepath.Join(dir, "result.json")
	require.NoError(t, os.WriteFile(in, []byte(parseTree), 0o644))

	_, _, err := execute(t, "convert", "-i", in, "-o", out, "--log-level", "error")
	require.NoError(t, err)

	var doc struct {
		Elements struct {
			Nodes []json.RawMessage `json:"nodes"`
			Edges []json.RawMessage `json:"edges"`
		} `json:"elements"`
	}
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Len(t, doc.Elements.Nodes, 2)
	assert.Len(t, doc.Elements.Edges, 1)

	adj, _, err := execute(t, "render", "-s", out, "-f", "adjacency", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, adj, "0x10")
	assert.Contains(t, adj, "0x20")
}

func TestConvertStdinToStdout(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"convert", "-i", "-", "-o", "-"})
	cmd.SetIn(strings.NewReader(parseTree))
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, stdout.String(), `"id": "0x10_0x20"`)
	assert.Contains(t, stdout.String(), `"name": "next"`)
}

func TestConvertRequiresAddress(t *testing.T) {
	in := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"TYPE": "PT_NODE"}`), 0o644))
	_, _, err := execute(t, "convert", "-i", in, "-o", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDRESS")
}
