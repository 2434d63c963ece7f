package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/TobiSchelling/hotelreport/internal/compose"
	"github.com/TobiSchelling/hotelreport/internal/config"
	"github.com/TobiSchelling/hotelreport/internal/document"
	"github.com/TobiSchelling/hotelreport/internal/export"
	"github.com/TobiSchelling/hotelreport/internal/fetch"
	"github.com/TobiSchelling/hotelreport/internal/logger"
	"github.com/TobiSchelling/hotelreport/internal/render"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	Target string
	Steps  []StepResult
	Files  []string
}

// Err returns the first step error, or nil.
func (r *Result) Err() error {
	for _, s := range r.Steps {
		if s.Err != nil {
			return fmt.Errorf("%s: %w", strings.ToLower(s.Name), s.Err)
		}
	}
	return nil
}

// Pipeline runs load, compose and export for one or more reports.
type Pipeline struct {
	cfg      *config.Config
	loader   *fetch.Loader
	composer *compose.Composer
	exporter *export.Exporter
}

// New creates a pipeline. r rasterizes pages for PDF output.
func New(cfg *config.Config, r export.Rasterizer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		loader:   fetch.NewLoader(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
		composer: compose.NewComposer(cfg.Layout, cfg.Branding),
		exporter: export.NewExporter(r, cfg.Export, cfg.Layout),
	}
}

// Composer returns the composer used for every run.
func (p *Pipeline) Composer() *compose.Composer { return p.composer }

// Exporter returns the shared exporter.
func (p *Pipeline) Exporter() *export.Exporter { return p.exporter }

// Load fetches the configured documents.
func (p *Pipeline) Load(ctx context.Context) (*document.Bundle, error) {
	return p.loader.Load(ctx, p.cfg.Sources)
}

// Run loads the configured sources, composes the report and writes each
// format into outDir.
func (p *Pipeline) Run(ctx context.Context, outDir string, formats []export.Format) *Result {
	r := &Result{Target: fetch.Resolve(p.cfg.Sources, p.cfg.Sources.Report)}

	logger.Log.Info("Step 1/3: Loading documents...")
	b, err := p.Load(ctx)
	r.Steps = append(r.Steps, loadStep(b, err))
	if err != nil {
		return r
	}
	p.render(ctx, r, b, outDir, formats)
	return r
}

// RunBatch renders every report matching pattern into its own
// subdirectory of outDir. A failing report does not stop the batch.
func (p *Pipeline) RunBatch(ctx context.Context, pattern, outDir string, formats []export.Format) ([]*Result, error) {
	logger.Log.Info("Step 1/3: Loading documents...")
	items, err := p.loader.LoadBatch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(items))
	for _, it := range items {
		r := &Result{Target: it.Path}
		r.Steps = append(r.Steps, loadStep(it.Bundle, it.Err))
		if it.Err == nil {
			p.render(ctx, r, it.Bundle, filepath.Join(outDir, it.Name()), formats)
		}
		results = append(results, r)
	}
	return results, nil
}

// DryRun reports what Run would read and write without doing either.
func (p *Pipeline) DryRun(outDir string, formats []export.Format) *Result {
	src := p.cfg.Sources
	r := &Result{Target: fetch.Resolve(src, src.Report)}

	var sources []string
	for _, name := range []string{src.Report, src.Dashboard, src.Competitors} {
		if loc := fetch.Resolve(src, name); loc != "" {
			sources = append(sources, loc)
		}
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Load",
		Summary: fmt.Sprintf("[dry-run] Would read %s", strings.Join(sources, ", ")),
	})
	r.Steps = append(r.Steps, StepResult{
		Name:    "Compose",
		Summary: "[dry-run] Would compose the report pages",
	})

	var files []string
	for _, f := range formats {
		files = append(files, filepath.Join(outDir, f.Filename()))
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Export",
		Summary: fmt.Sprintf("[dry-run] Would write %s", strings.Join(files, ", ")),
	})
	return r
}

func loadStep(b *document.Bundle, err error) StepResult {
	if err != nil {
		return StepResult{Name: "Load", Err: err}
	}
	var loaded []string
	for _, kind := range document.Kinds {
		if b.RawBytes(kind) != nil {
			loaded = append(loaded, string(kind))
		}
	}
	return StepResult{
		Name:    "Load",
		Summary: fmt.Sprintf("Loaded %s", strings.Join(loaded, ", ")),
	}
}

func (p *Pipeline) render(ctx context.Context, r *Result, b *document.Bundle, outDir string, formats []export.Format) {
	logger.Log.Info("Step 2/3: Composing report...")
	page, step := p.runCompose(b)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return
	}

	logger.Log.Info("Step 3/3: Exporting...")
	files, err := p.exporter.WriteFiles(ctx, outDir, formats, b, page)
	r.Files = files
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Export", Err: err})
		return
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Export",
		Summary: fmt.Sprintf("Wrote %d files to %s", len(files), outDir),
	})
}

func (p *Pipeline) runCompose(b *document.Bundle) (*render.Page, StepResult) {
	page, err := p.composer.Compose(b)
	if err != nil {
		return nil, StepResult{Name: "Compose", Err: err}
	}
	pages := page.PageIDs()
	return page, StepResult{
		Name:    "Compose",
		Summary: fmt.Sprintf("Composed %d pages", len(pages)),
	}
}

// IsLoadFailure reports whether err came from fetching or decoding a
// document rather than from rendering.
func IsLoadFailure(err error) bool {
	var le *fetch.LoadError
	var pe *document.ParseError
	return errors.As(err, &le) || errors.As(err, &pe)
}
