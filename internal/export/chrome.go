package export

import (
	"context"
	"math"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Document is a rendered export.
type Document struct {
	Filename string
	PDF      []byte
	// Preview is a JPEG of the first screenful, encoded at Options.ImageQuality.
	Preview []byte
}

// Renderer converts a standalone HTML document to a Document.
type Renderer interface {
	Render(ctx context.Context, html string, opts Options) (*Document, error)
}

// ChromeRenderer prints documents with a headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
type ChromeRenderer struct {
	Timeout time.Duration
	// ExecPath overrides the browser binary. Empty uses the chromedp lookup.
	ExecPath string
}

// NewChromeRenderer creates a renderer with the given per-document timeout.
func NewChromeRenderer(timeout time.Duration) *ChromeRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeRenderer{Timeout: timeout}
}

// Render loads html into a blank tab, prints it to PDF and takes a preview.
func (r *ChromeRenderer) Render(ctx context.Context, html string, opts Options) (*Document, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.Timeout)
	defer cancel()

	width, height := opts.PaperSize()
	viewWidth, viewHeight := width, height
	if opts.Orientation == Landscape {
		viewWidth, viewHeight = height, width
	}
	doc := &Document{Filename: opts.Filename}

	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(viewWidth*96), int64(viewHeight*96), chromedp.EmulateScale(opts.Scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(opts.Margins).
				WithMarginBottom(opts.Margins).
				WithMarginLeft(opts.Margins).
				WithMarginRight(opts.Margins).
				WithLandscape(opts.Orientation == Landscape).
				Do(ctx)
			if err != nil {
				return err
			}
			doc.PDF = buf
			return nil
		}),
		chromedp.FullScreenshot(&doc.Preview, jpegQuality(opts.ImageQuality)),
	)
	if err != nil {
		return nil, &RenderError{Message: "browser rendering failed", Cause: err}
	}

	return doc, nil
}

// jpegQuality maps a 0..1 quality to the 1..100 scale Chrome expects.
func jpegQuality(q float64) int {
	v := int(math.Round(q * 100))
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}
