package graphs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/psidex/ptviz/internal/lib"
	"github.com/psidex/ptviz/internal/surface"
)

const (
	defaultScreenshotWidth   = 1280
	defaultScreenshotHeight  = 800
	defaultScreenshotTimeout = 30 * time.Second
	// Time given to the page's scripts to draw the graph once the document is ready.
	screenshotSettle = 500 * time.Millisecond
)

// Screenshot defines a Renderer that renders the view with an HTML renderer, loads the
// page into headless Chrome and writes a PNG of the viewport.
type Screenshot struct {
	HTML          Renderer
	Width, Height int64
	Timeout       time.Duration
	// AllocatorOptions are appended to chromedp's defaults, e.g. chromedp.NoSandbox
	// when running as root in a container.
	AllocatorOptions []chromedp.ExecAllocatorOption
	Logger           *slog.Logger
}

var _ Renderer = Screenshot{}

func (Screenshot) Ext() string { return "png" }

func (s Screenshot) Render(w io.Writer, v *surface.View) error {
	if s.HTML == nil {
		return fmt.Errorf("screenshot: no html renderer")
	}
	var doc bytes.Buffer
	if err := s.HTML.Render(&doc, v); err != nil {
		return fmt.Errorf("screenshot: rendering html: %w", err)
	}

	png, err := s.capture(doc.String(), v.Container)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	_, err = w.Write(png)
	return err
}

func (s Screenshot) capture(document, container string) ([]byte, error) {
	logger := lib.LoggerOrDefault(s.Logger)
	width, height, timeout := s.Width, s.Height, s.Timeout
	if width <= 0 {
		width = defaultScreenshotWidth
	}
	if height <= 0 {
		height = defaultScreenshotHeight
	}
	if timeout <= 0 {
		timeout = defaultScreenshotTimeout
	}

	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), timeout)
	defer timeoutCancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], s.AllocatorOptions...)
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, allocOpts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var downloadedBytes atomic.Int64
	listenAction := func(ctx context.Context) error {
		chromedp.ListenTarget(ctx, func(ev interface{}) {
			switch ev := ev.(type) {
			case *network.EventLoadingFinished:
				downloadedBytes.Add(int64(ev.EncodedDataLength))
			case *network.EventLoadingFailed:
				logger.Warn("screenshot resource failed to load", "error", ev.ErrorText)
			}
		})
		return nil
	}

	var png []byte
	err := chromedp.Run(ctx,
		network.Enable(),
		chromedp.ActionFunc(listenAction),
		emulation.SetDeviceMetricsOverride(width, height, 1, false),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, document).Do(ctx)
		}),
		chromedp.WaitReady(fmt.Sprintf("[id=%q]", container), chromedp.ByQuery),
		chromedp.Sleep(screenshotSettle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			png, err = page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}

	logger.Debug("screenshot captured", "bytes", len(png), "downloaded", downloadedBytes.Load())
	return png, nil
}
