package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-pdf/fpdf"

	"github.com/TobiSchelling/hotelreport/internal/config"
	"github.com/TobiSchelling/hotelreport/internal/logger"
	"github.com/TobiSchelling/hotelreport/internal/render"
)

// Rasterizer renders the elements with the given ids of an HTML document
// to PNG images, one per id, in order.
type Rasterizer interface {
	Rasterize(ctx context.Context, markup []byte, ids []string) ([][]byte, error)
}

// PDF rasterizes every report page in document order and assembles the
// images into one PDF. It fails with ErrBusy while another PDF export runs.
func (e *Exporter) PDF(ctx context.Context, page *render.Page) ([]byte, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.busy.Store(false)

	if page == nil {
		return nil, ErrNoData
	}
	markup, err := HTML(page)
	if err != nil {
		return nil, err
	}
	ids := page.PageIDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("page has no report pages")
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	images, err := e.raster.Rasterize(ctx, markup, ids)
	if err != nil {
		return nil, fmt.Errorf("rasterizing pages: %w", err)
	}
	if len(images) != len(ids) {
		return nil, fmt.Errorf("rasterizer returned %d images for %d pages", len(images), len(ids))
	}
	logger.Log.Debugf("Rasterized %d pages in %s", len(ids), time.Since(start).Round(time.Millisecond))

	doc, err := buildPDF(images, e.cfg.PageWidth, e.cfg.PageHeight)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// buildPDF places one PNG per page, each filling a page of width x height
// points.
func buildPDF(images [][]byte, width, height float64) (*fpdf.Fpdf, error) {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, img := range images {
		name := fmt.Sprintf("page-%d", i+1)
		doc.AddPage()
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
		doc.ImageOptions(name, 0, 0, width, height, false, opts, 0, "")
		if err := doc.Error(); err != nil {
			return nil, fmt.Errorf("adding page %d: %w", i+1, err)
		}
	}
	return doc, nil
}

// ChromeRasterizer screenshots page elements in headless Chrome.
type ChromeRasterizer struct {
	ExecPath string
	Width    int64
	Height   int64
	Scale    float64
}

// NewChromeRasterizer creates a rasterizer for the configured page size.
func NewChromeRasterizer(cfg config.Export) *ChromeRasterizer {
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	return &ChromeRasterizer{
		ExecPath: cfg.ChromePath,
		Width:    int64(cfg.PageWidth),
		Height:   int64(cfg.PageHeight),
		Scale:    scale,
	}
}

// Rasterize loads markup from a temporary file and captures each element.
func (c *ChromeRasterizer) Rasterize(ctx context.Context, markup []byte, ids []string) ([][]byte, error) {
	dir, err := os.MkdirTemp("", "hotelreport-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "report.html")
	if err := os.WriteFile(path, markup, 0o600); err != nil {
		return nil, fmt.Errorf("writing temp page: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.WindowSize(int(c.Width), int(c.Height)))
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Log.Debugf))
	defer cancelTab()

	shots := make([][]byte, len(ids))
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(c.Width, c.Height, chromedp.EmulateScale(c.Scale)),
		chromedp.Navigate("file://" + filepath.ToSlash(path)),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	for i, id := range ids {
		tasks = append(tasks, chromedp.Screenshot("#"+id, &shots[i], chromedp.NodeVisible, chromedp.ByQuery))
	}
	if err := chromedp.Run(tabCtx, tasks); err != nil {
		return nil, fmt.Errorf("running headless chrome: %w", err)
	}
	return shots, nil
}
