package graphs

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/psidex/ptviz/internal/style"
	"github.com/psidex/ptviz/internal/surface"
)

// ECharts defines a Renderer that renders a go-echarts HTML page, with nodes pinned at
// their layout positions.
type ECharts struct {
	Title string
}

var _ Renderer = ECharts{}

func (ECharts) Ext() string { return "html" }

func (e ECharts) title() string {
	if e.Title == "" {
		return "ptviz"
	}
	return e.Title
}

func (e ECharts) Render(w io.Writer, v *surface.View) error {
	// GraphNode drops zero coordinates, so the layout is shifted to start at (1, 1).
	var minX, minY float64
	for i, n := range v.Nodes {
		if i == 0 || n.Position.X < minX {
			minX = n.Position.X
		}
		if i == 0 || n.Position.Y < minY {
			minY = n.Position.Y
		}
	}

	nodes := make([]opts.GraphNode, 0, len(v.Nodes))
	labels := make([]string, 0, len(v.Nodes))
	for _, n := range v.Nodes {
		node := opts.GraphNode{
			Name: n.ID,
			X:    float32(n.Position.X - minX + 1),
			Y:    float32(n.Position.Y - minY + 1),
		}
		if color := n.Style[style.BackgroundColor]; color != "" {
			node.ItemStyle = &opts.ItemStyle{Color: color}
		}
		nodes = append(nodes, node)
		labels = append(labels, n.Style[style.Label])
	}

	links := make([]opts.GraphLink, 0, len(v.Edges))
	for _, e := range v.Edges {
		link := opts.GraphLink{Source: e.Source, Target: e.Target, LineStyle: edgeLineStyle(e)}
		if label := e.Style[style.Label]; label != "" {
			link.Label = &opts.EdgeLabel{Show: opts.Bool(true), Formatter: label}
		}
		links = append(links, link)
	}

	page := components.NewPage()
	page.SetPageTitle(e.title())
	page.AddCharts(e.graphBase(v, nodes, links, labels))
	return page.Render(w)
}

func edgeLineStyle(e surface.ViewEdge) *opts.LineStyle {
	ls := &opts.LineStyle{Color: e.Style[style.LineColor], Width: 1}
	if width, err := strconv.ParseFloat(e.Style[style.Width], 32); err == nil {
		ls.Width = float32(width)
	}
	if e.Style[style.CurveStyle] == "bezier" {
		ls.Curveness = 0.2
	}
	return ls
}

// labelFormatter returns a JS label formatter that looks node labels up by data
// index. GraphNode has no label field and names must stay unique ids. Labels are
// percent-encoded so no quote or backslash reaches the option JSON.
func labelFormatter(labels []string) string {
	quoted := make([]string, 0, len(labels))
	for _, l := range labels {
		quoted = append(quoted, "'"+percentEncode(l)+"'")
	}
	return opts.FuncStripCommentsOpts(fmt.Sprintf(
		"function (p) { var labels = [%s]; return decodeURIComponent(labels[p.dataIndex] || ''); }",
		strings.Join(quoted, ","),
	))
}

func percentEncode(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func (e ECharts) graphBase(v *surface.View, nodes []opts.GraphNode, links []opts.GraphLink, labels []string) *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: e.title(),
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	if v.Failed() {
		graph.SetGlobalOptions(charts.WithTitleOpts(opts.Title{
			Title:    "load failed",
			Subtitle: v.Error,
		}))
	}

	graph.AddSeries(
		"graph",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:     "none",
				Draggable:  opts.Bool(true),
				Roam:       opts.Bool(true),
				EdgeSymbol: []string{"none", "arrow"},
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Color:     "black",
			Position:  "top",
			Formatter: labelFormatter(labels),
		}),
	)
	return graph
}
