// Package export turns a composed report into downloadable files.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/TobiSchelling/hotelreport/internal/config"
	"github.com/TobiSchelling/hotelreport/internal/document"
	"github.com/TobiSchelling/hotelreport/internal/logger"
	"github.com/TobiSchelling/hotelreport/internal/render"
)

// Format is an export file type.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// Formats lists every export format.
var Formats = []Format{FormatJSON, FormatXLSX, FormatHTML, FormatPDF}

var filenames = map[Format]string{
	FormatJSON: "data.json",
	FormatXLSX: "hotel-report.xlsx",
	FormatHTML: "hotel-report.html",
	FormatPDF:  "hotel-report.pdf",
}

var contentTypes = map[Format]string{
	FormatJSON: "application/json",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatHTML: "text/html; charset=utf-8",
	FormatPDF:  "application/pdf",
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := filenames[f]; !ok {
		return "", fmt.Errorf("invalid export format: %q (expected json, xlsx, html, or pdf)", s)
	}
	return f, nil
}

// ParseFormats parses a comma separated list of format names.
func ParseFormats(list string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, errors.New("no export formats given")
	}
	return out, nil
}

// Filename is the default download name for f.
func (f Format) Filename() string { return filenames[f] }

// ContentType is the MIME type served for f.
func (f Format) ContentType() string { return contentTypes[f] }

var (
	// ErrBusy is returned when a PDF export is requested while another
	// one is still running.
	ErrBusy = errors.New("a PDF export is already in progress")

	// ErrNoData is returned when there is no report to export.
	ErrNoData = errors.New("no report data to export")
)

// JSON returns the report document as it was loaded, re-indented with two
// spaces.
func JSON(b *document.Bundle) ([]byte, error) {
	raw := b.RawBytes(document.KindReport)
	if raw == nil {
		return nil, ErrNoData
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, document.Clean(raw), "", "  "); err != nil {
		return nil, fmt.Errorf("indenting report JSON: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// HTML serializes page without its interactive chrome. The page itself is
// not modified.
func HTML(page *render.Page) ([]byte, error) {
	if page == nil {
		return nil, ErrNoData
	}
	clone, err := page.Clone()
	if err != nil {
		return nil, err
	}
	clone.Remove(".no-export")
	out, err := clone.HTML()
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// Exporter produces every export format. PDF exports are serialized: only
// one may run at a time.
type Exporter struct {
	raster Rasterizer
	cfg    config.Export
	goal   float64
	busy   atomic.Bool
}

// NewExporter creates an exporter that rasterizes PDF pages with r.
func NewExporter(r Rasterizer, cfg config.Export, layout config.Layout) *Exporter {
	return &Exporter{raster: r, cfg: cfg, goal: layout.Goal}
}

// Busy reports whether a PDF export is running.
func (e *Exporter) Busy() bool {
	return e.busy.Load()
}

// Export produces f for the given bundle and its composed page.
func (e *Exporter) Export(ctx context.Context, f Format, b *document.Bundle, page *render.Page) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = JSON(b)
	case FormatXLSX:
		data, err = XLSX(b, e.goal)
	case FormatHTML:
		data, err = HTML(page)
	case FormatPDF:
		data, err = e.PDF(ctx, page)
	default:
		return nil, fmt.Errorf("invalid export format: %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("exporting %s: %w", f, err)
	}
	logger.Log.WithFields(logrus.Fields{
		"format": f,
		"size":   humanize.Bytes(uint64(len(data))),
	}).Info("Export ready")
	return data, nil
}

// WriteFiles exports each format into dir under its default file name and
// returns the written paths.
func (e *Exporter) WriteFiles(ctx context.Context, dir string, formats []Format, b *document.Bundle, page *render.Page) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	var paths []string
	for _, f := range formats {
		data, err := e.Export(ctx, f, b, page)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, f.Filename())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
