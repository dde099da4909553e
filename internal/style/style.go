// Package style resolves a declarative style sheet against graph elements. A sheet is
// an ordered list of selector -> properties rules; when several rules match an
// element, later rules win for the properties they both set.
package style

import (
	"fmt"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/psidex/ptviz/internal/graph"
)

type Rule struct {
	Selector string            `json:"selector" yaml:"selector"`
	Style    map[string]string `json:"style" yaml:"style"`
}

type Sheet []Rule

// Common property names.
const (
	BackgroundColor  = "background-color"
	Label            = "label"
	Width            = "width"
	LineColor        = "line-color"
	TargetArrowShape = "target-arrow-shape"
	TargetArrowColor = "target-arrow-color"
	CurveStyle       = "curve-style"
)

var dataMapper = regexp.MustCompile(`^\s*data\(\s*([^)\s]+)\s*\)\s*$`)

type compiledRule struct {
	selector Selector
	style    map[string]string
}

// Compiled is a sheet whose selectors have been parsed.
type Compiled struct {
	rules []compiledRule
}

func Compile(sheet Sheet) (*Compiled, error) {
	c := &Compiled{rules: make([]compiledRule, 0, len(sheet))}
	for i, rule := range sheet {
		sel, err := ParseSelector(rule.Selector)
		if err != nil {
			return nil, fmt.Errorf("style rule %d: %w", i, err)
		}
		c.rules = append(c.rules, compiledRule{selector: sel, style: rule.Style})
	}
	return c, nil
}

// Resolve returns the element's effective properties. data(key) values are replaced by
// the element's attribute; a mapping to a missing attribute leaves the property as
// earlier rules set it.
func (c *Compiled) Resolve(el graph.Element) map[string]string {
	out := map[string]string{}
	var data graph.Data
	for _, rule := range c.rules {
		if !rule.selector.Matches(el) {
			continue
		}
		for prop, value := range rule.style {
			if m := dataMapper.FindStringSubmatch(value); m != nil {
				if data == nil {
					data = el.Data()
				}
				if _, ok := data[m[1]]; !ok {
					continue
				}
				value = graph.AttrString(data, m[1])
			}
			out[prop] = value
		}
	}
	return out
}

// LoadSheet reads a YAML (or JSON) list of rules:
//
//   - selector: node
//     style:
//     label: data(type)
func LoadSheet(r io.Reader) (Sheet, error) {
	var sheet Sheet
	if err := yaml.NewDecoder(r).Decode(&sheet); err != nil {
		return nil, fmt.Errorf("decoding style sheet: %w", err)
	}
	if _, err := Compile(sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

func edgeRule() Rule {
	return Rule{
		Selector: "edge",
		Style: map[string]string{
			Width:            "4",
			TargetArrowShape: "triangle",
			LineColor:        "#9dbaea",
			TargetArrowColor: "#9dbaea",
			CurveStyle:       "bezier",
			Label:            "data(name)",
		},
	}
}

// AppSheet is the viewer application's sheet.
func AppSheet() Sheet {
	return Sheet{
		{Selector: "node", Style: map[string]string{Label: "data(type)"}},
		{Selector: ".pt_node", Style: map[string]string{BackgroundColor: "green"}},
		edgeRule(),
	}
}

// DemoSheet is the standalone demo's sheet, which also sets a base node colour.
func DemoSheet() Sheet {
	return Sheet{
		{Selector: "node", Style: map[string]string{BackgroundColor: "#11479e", Label: "data(type)"}},
		{Selector: ".pt_node", Style: map[string]string{BackgroundColor: "green"}},
		edgeRule(),
	}
}
