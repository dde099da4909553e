// Package config holds ptviz settings. Settings start from a named profile, "app" or
// "demo", and a YAML file can override any of them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/psidex/ptviz/internal/interact"
	"github.com/psidex/ptviz/internal/layout/dagre"
	"github.com/psidex/ptviz/internal/lib"
	"github.com/psidex/ptviz/internal/style"
)

const (
	ProfileApp  = "app"
	ProfileDemo = "demo"
)

type Dagre struct {
	RankDir string  `yaml:"rankDir"`
	NodeSep float64 `yaml:"nodeSep"`
	RankSep float64 `yaml:"rankSep"`
}

type Config struct {
	Profile         string       `yaml:"profile"`
	Source          string       `yaml:"source"`
	Container       string       `yaml:"container"`
	Layout          string       `yaml:"layout"`
	StyleFile       string       `yaml:"styleFile"`
	ClickReport     string       `yaml:"clickReport"`
	LogLevel        string       `yaml:"logLevel"`
	Listen          string       `yaml:"listen"`
	StaticDir       string       `yaml:"staticDir"`
	FetchTimeout    lib.Duration `yaml:"fetchTimeout"`
	UserAgent       string       `yaml:"userAgent"`
	RandomUserAgent bool         `yaml:"randomUserAgent"`
	Dagre           Dagre        `yaml:"dagre"`
}

// Profile returns the defaults of a named profile.
func Profile(name string) (Config, error) {
	base := Config{
		Profile:      name,
		Container:    "cy",
		Layout:       dagre.Name,
		LogLevel:     "info",
		Listen:       "127.0.0.1:8080",
		StaticDir:    ".",
		FetchTimeout: lib.DurationFrom(30 * time.Second),
		Dagre:        Dagre{RankDir: dagre.RankDirTB, NodeSep: 50, RankSep: 50},
	}
	switch name {
	case ProfileApp:
		base.Source = "static/result.cjson"
		base.ClickReport = string(interact.ModeData)
	case ProfileDemo:
		base.Source = "./result.json"
		base.ClickReport = string(interact.ModeID)
	default:
		return Config{}, fmt.Errorf("unknown profile %q, want %q or %q", name, ProfileApp, ProfileDemo)
	}
	return base, nil
}

// LoadProfile reads YAML settings over the defaults of the profile they name, or of
// fallback if they don't name one.
func LoadProfile(r io.Reader, fallback string) (Config, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}

	var head struct {
		Profile string `yaml:"profile"`
	}
	if err := yaml.Unmarshal(body, &head); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if head.Profile == "" {
		head.Profile = fallback
	}

	cfg, err := Profile(head.Profile)
	if err != nil {
		return Config{}, err
	}
	if len(bytes.TrimSpace(body)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(body))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decoding config: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

// LoadFile reads settings from path, fallback names the profile used when the file
// doesn't.
func LoadFile(path, fallback string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := LoadProfile(f, fallback)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Container == "" {
		return fmt.Errorf("container must not be empty")
	}
	if c.Layout == "" {
		return fmt.Errorf("layout must not be empty")
	}
	if c.Source == "" {
		return fmt.Errorf("source must not be empty")
	}
	if _, err := interact.ParseMode(c.ClickReport); err != nil {
		return err
	}
	if _, err := lib.ParseSLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("logLevel: %w", err)
	}
	if c.FetchTimeout.Duration < 0 {
		return fmt.Errorf("fetchTimeout must not be negative")
	}
	if _, err := dagre.New(c.DagreOptions()...); err != nil {
		return err
	}
	return nil
}

func (c Config) ClickMode() interact.Mode {
	m, _ := interact.ParseMode(c.ClickReport)
	return m
}

func (c Config) DagreOptions() []dagre.Option {
	return []dagre.Option{
		dagre.WithRankDir(c.Dagre.RankDir),
		dagre.WithNodeSep(c.Dagre.NodeSep),
		dagre.WithRankSep(c.Dagre.RankSep),
	}
}

// Sheet is the style sheet from StyleFile, or the profile's own.
func (c Config) Sheet() (style.Sheet, error) {
	if c.StyleFile != "" {
		f, err := os.Open(c.StyleFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return style.LoadSheet(f)
	}
	if c.Profile == ProfileDemo {
		return style.DemoSheet(), nil
	}
	return style.AppSheet(), nil
}
