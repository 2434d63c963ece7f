package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/TobiSchelling/hotelreport/internal/document"
	"github.com/TobiSchelling/hotelreport/internal/export"
	"github.com/TobiSchelling/hotelreport/internal/logger"
	"github.com/TobiSchelling/hotelreport/internal/pipeline"
	"github.com/TobiSchelling/hotelreport/internal/render"
	"github.com/TobiSchelling/hotelreport/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxUpload bounds an uploaded document.
const maxUpload = 10 << 20

// Server serves the interactive report.
type Server struct {
	pipe  *pipeline.Pipeline
	sess  *session.Session
	pages map[string]*template.Template
	mux   *http.ServeMux

	mu      sync.Mutex
	loadErr error
}

// New creates a new Server showing the bundle held by sess.
func New(pipe *pipeline.Pipeline, sess *session.Session) (*Server, error) {
	funcMap := template.FuncMap{
		"statusText": http.StatusText,
	}

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	pageNames := []string{"alert.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{pipe: pipe, sess: sess, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// SetLoadError records why the last load failed. The report page shows it
// until a load succeeds.
func (s *Server) SetLoadError(err error) {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
}

func (s *Server) lastLoadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /upload/{kind}", s.handleUpload)
	s.mux.HandleFunc("GET /export/status", s.handleStatus)
	s.mux.HandleFunc("GET /export/{format}", s.handleExport)
	s.mux.HandleFunc("POST /reload", s.handleReload)
}

// current composes the bundle on display.
func (s *Server) current() (*document.Bundle, *render.Page, error) {
	b := s.sess.Current().Bundle
	if b == nil || b.Report == nil {
		if err := s.lastLoadError(); err != nil {
			return nil, nil, err
		}
		return nil, nil, errors.New("could not find data.json: no report has been loaded")
	}
	page, err := s.pipe.Composer().Compose(b)
	if err != nil {
		return nil, nil, err
	}
	return b, page, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, page, err := s.current()
	if err != nil {
		logger.Log.Warnf("Showing failure page: %v", err)
		page, err = s.pipe.Composer().Failure(err)
		if err != nil {
			s.alert(w, http.StatusInternalServerError, "Rendering failed", err.Error())
			return
		}
	}

	markup, err := page.HTML()
	if err != nil {
		s.alert(w, http.StatusInternalServerError, "Rendering failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, markup)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	kind, err := document.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.alert(w, http.StatusBadRequest, "Upload failed", fmt.Sprintf("No %s file was uploaded: %v", kind, err))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		s.alert(w, http.StatusBadRequest, "Upload failed", fmt.Sprintf("Reading %s: %v", header.Filename, err))
		return
	}

	if _, err := s.sess.ReplaceDocument(kind, raw); err != nil {
		s.alert(w, http.StatusBadRequest, "Invalid "+string(kind)+" document",
			fmt.Sprintf("%s could not be loaded: %v", header.Filename, err))
		return
	}
	logger.Log.Infof("Uploaded %s (%s) as %s document", header.Filename, humanize.Bytes(uint64(len(raw))), kind)
	if kind == document.KindReport {
		s.SetLoadError(nil)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	b, page, err := s.current()
	if err != nil {
		s.alert(w, http.StatusConflict, "Nothing to export", err.Error())
		return
	}

	data, err := s.pipe.Exporter().Export(r.Context(), format, b, page)
	switch {
	case errors.Is(err, export.ErrBusy):
		s.alert(w, http.StatusConflict, "Export in progress", "A PDF is already being generated. Try again when it has finished.")
		return
	case errors.Is(err, export.ErrNoData):
		s.alert(w, http.StatusConflict, "Nothing to export", err.Error())
		return
	case err != nil:
		logger.Log.Errorf("Export %s failed: %v", format, err)
		s.alert(w, http.StatusInternalServerError, "Export failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	_, _ = w.Write(data)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Current()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"busy":    s.pipe.Exporter().Busy(),
		"load_id": snap.LoadID,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	b, err := s.pipe.Load(r.Context())
	if err != nil {
		logger.Log.Errorf("Reload failed: %v", err)
		s.alert(w, http.StatusBadGateway, "Reload failed", err.Error())
		return
	}
	s.sess.Replace(b)
	s.SetLoadError(nil)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) alert(w http.ResponseWriter, status int, title, message string) {
	s.render(w, status, "alert.html", map[string]any{
		"Status":  status,
		"Title":   title,
		"Message": message,
	})
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		logger.Log.Errorf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		logger.Log.Errorf("Error rendering template %s: %v", name, err)
	}
}

// Serve starts the HTTP server on the given port and shuts it down when
// ctx is cancelled.
func Serve(ctx context.Context, srv *Server, port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Server listening on http://%s", addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}
