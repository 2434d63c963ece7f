package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"

	"github.com/TobiSchelling/hotelreport/internal/config"
	"github.com/TobiSchelling/hotelreport/internal/document"
	"github.com/TobiSchelling/hotelreport/internal/logger"
)

// LoadError reports a document that could not be retrieved.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader fetches input documents over HTTP or from the filesystem.
type Loader struct {
	client    *http.Client
	userAgent string
}

// NewLoader creates a loader with the given request timeout and user agent.
func NewLoader(timeout time.Duration, userAgent string) *Loader {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Loader{
		userAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// Resolve turns a configured document name into a fetchable location.
// URLs are kept as given; relative names are joined onto the base URL when
// one is set and onto the base directory otherwise.
func Resolve(src config.Sources, name string) string {
	switch {
	case name == "":
		return ""
	case isURL(name):
		return name
	case src.BaseURL != "":
		return strings.TrimRight(src.BaseURL, "/") + "/" + strings.TrimLeft(filepath.ToSlash(name), "/")
	case filepath.IsAbs(name) || src.BaseDir == "":
		return name
	default:
		return filepath.Join(src.BaseDir, name)
	}
}

func locations(src config.Sources) map[document.Kind]string {
	return map[document.Kind]string{
		document.KindReport:      Resolve(src, src.Report),
		document.KindDashboard:   Resolve(src, src.Dashboard),
		document.KindCompetitors: Resolve(src, src.Competitors),
	}
}

// Fetch returns the raw bytes at location.
func (l *Loader) Fetch(ctx context.Context, location string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if isURL(location) {
		data, err = l.get(ctx, location)
	} else {
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, &LoadError{Source: location, Err: err}
	}
	logger.Log.Debugf("Fetched %s (%s)", location, humanize.Bytes(uint64(len(data))))
	return data, nil
}

func (l *Loader) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpError{code: resp.StatusCode}
	}

	// Documents served in a legacy charset are transcoded to UTF-8.
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}
	return io.ReadAll(body)
}

// Load fetches the three configured documents in parallel and decodes them
// into a bundle. The report is required; a dashboard or competitors document
// that is missing or unusable is left nil.
func (l *Loader) Load(ctx context.Context, src config.Sources) (*document.Bundle, error) {
	locs := locations(src)
	if locs[document.KindReport] == "" {
		return nil, &LoadError{Source: "report", Err: errors.New("no report source configured")}
	}
	raws := make([][]byte, len(document.Kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range document.Kinds {
		loc := locs[kind]
		if loc == "" {
			continue
		}
		g.Go(func() error {
			data, err := l.Fetch(gctx, loc)
			if err != nil {
				if kind == document.KindReport {
					return err
				}
				if IsMissing(err) {
					logger.Log.Infof("No %s document at %s", kind, loc)
				} else {
					logger.Log.Warnf("Skipping %s document: %v", kind, err)
				}
				return nil
			}
			raws[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var b *document.Bundle
	for i, kind := range document.Kinds {
		if raws[i] == nil {
			continue
		}
		next, err := b.With(kind, raws[i])
		if err != nil {
			if kind == document.KindReport {
				return nil, err
			}
			logger.Log.Warnf("Ignoring %s document: %v", kind, err)
			continue
		}
		b = next
	}
	return b, nil
}

// BatchItem is the outcome of loading one report in a batch.
type BatchItem struct {
	Path   string
	Bundle *document.Bundle
	Err    error
}

// Name is a file-name friendly label for the item: the report's directory
// name, or the report file name without extension for the top level.
func (it BatchItem) Name() string {
	dir := filepath.Base(filepath.Dir(it.Path))
	if dir == "." || dir == string(filepath.Separator) {
		return strings.TrimSuffix(filepath.Base(it.Path), filepath.Ext(it.Path))
	}
	return dir
}

// LoadBatch loads every report file matching a doublestar pattern together
// with the dashboard.json and competitors.json next to it. Per-report
// failures are recorded on the item and do not stop the batch.
func (l *Loader) LoadBatch(ctx context.Context, pattern string) ([]BatchItem, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no reports match %q", pattern)
	}
	sort.Strings(matches)

	items := make([]BatchItem, 0, len(matches))
	for _, m := range matches {
		src := config.Sources{
			BaseDir:     filepath.Dir(m),
			Report:      filepath.Base(m),
			Dashboard:   document.SampleFiles[document.KindDashboard],
			Competitors: document.SampleFiles[document.KindCompetitors],
		}
		b, err := l.Load(ctx, src)
		if err != nil {
			logger.Log.Errorf("Batch item %s failed: %v", m, err)
		}
		items = append(items, BatchItem{Path: m, Bundle: b, Err: err})
	}
	return items, nil
}

// IsMissing reports whether err means the document does not exist: a
// missing file or an HTTP 404.
func IsMissing(err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var he *httpError
	return errors.As(err, &he) && he.code == http.StatusNotFound
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.code, http.StatusText(e.code))
}
