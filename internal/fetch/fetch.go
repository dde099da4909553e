// Package fetch retrieves element collection documents over HTTP or from a local
// file system.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/corpix/uarand"

	"github.com/psidex/ptviz/internal/graph"
)

// StatusError is returned when the server answers with anything but 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("got non-OK status code from %s: %d", e.URL, e.StatusCode)
}

// DecodeError is returned when the document isn't an element collection.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %q: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type Fetcher struct {
	Client *http.Client
	// UserAgent is sent on HTTP requests when set.
	UserAgent string
	// RandomUserAgent sends a random browser User-Agent instead.
	RandomUserAgent bool
	// Base resolves relative sources to URLs when set.
	Base *url.URL
	// Root is where relative sources are read from when Base is nil. Absolute paths
	// are read from the local disk.
	Root fs.FS
}

// New returns a fetcher reading relative sources from the working directory.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		Client: &http.Client{Timeout: timeout},
		Root:   os.DirFS("."),
	}
}

// Fetch makes a single attempt at reading source.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	body, err := f.fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", source, err)
	}
	return body, nil
}

func (f *Fetcher) fetch(ctx context.Context, source string) ([]byte, error) {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return f.get(ctx, u.String())
	}
	if f.Base != nil {
		ref, err := url.Parse(source)
		if err != nil {
			return nil, err
		}
		return f.get(ctx, f.Base.ResolveReference(ref).String())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filepath.IsAbs(source) {
		return os.ReadFile(source)
	}
	if f.Root == nil {
		return nil, fmt.Errorf("no root to read relative sources from")
	}
	name := path.Clean(strings.TrimPrefix(source, "./"))
	return fs.ReadFile(f.Root, name)
}

func (f *Fetcher) get(ctx context.Context, urlStr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	switch {
	case f.RandomUserAgent:
		req.Header.Set("User-Agent", uarand.GetRandom())
	case f.UserAgent != "":
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: urlStr, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// Load fetches source and decodes it as an element collection.
func (f *Fetcher) Load(ctx context.Context, source string) (*graph.Collection, error) {
	body, err := f.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	c, err := graph.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	return c, nil
}
