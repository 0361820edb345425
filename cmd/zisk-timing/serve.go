package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/russross/blackfriday/v2"
	"github.com/spf13/cobra"

	"gosuda.org/zisk-timing/analyzer"
	"gosuda.org/zisk-timing/analyzer/report"
	"gosuda.org/zisk-timing/utils"
)

var logExtensions = []string{".log", ".txt", ".out"}

func newServeCmd(f *rootFlags) *cobra.Command {
	var (
		dir  string
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports for a directory of ZisK logs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(f)
			if err != nil {
				return err
			}
			srv, err := newReportServer(dir, cfg)
			if err != nil {
				return err
			}
			return srv.listenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", envOrDefault("ZISK_TIMING_LOG_DIR", "."), "directory containing execution logs (env: ZISK_TIMING_LOG_DIR)")
	cmd.Flags().StringVar(&addr, "addr", envOrDefault("ZISK_TIMING_ADDR", ":8081"), "HTTP listen address (env: ZISK_TIMING_ADDR)")
	return cmd
}

type reportServer struct {
	dir string
	cfg *Config
}

func newReportServer(dir string, cfg *Config) (*reportServer, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("log directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("log directory: %s is not a directory", dir)
	}
	return &reportServer{dir: dir, cfg: cfg}, nil
}

func (s *reportServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.listHandler)
	r.Get("/reports/{name}", s.reportHandler)
	return r
}

func (s *reportServer) listenAndServe(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("dir", s.dir).Msg("[serve] report server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("[serve] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("[serve] http server shutdown error")
	}
	return nil
}

func (s *reportServer) logFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !utils.IsURLSafeName(e.Name()) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range logExtensions {
			if ext == want {
				names = append(names, e.Name())
				break
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *reportServer) listHandler(w http.ResponseWriter, r *http.Request) {
	names, err := s.logFiles()
	if err != nil {
		http.Error(w, fmt.Sprintf("Unable to read log directory: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintln(w, "<h1>Available ZisK Execution Logs</h1>")
	fmt.Fprintln(w, "<ul>")
	for _, name := range names {
		esc := html.EscapeString(name)
		fmt.Fprintf(w, `<li><a href="/reports/%s">%s</a> (<a href="/reports/%s?format=text">text</a>, <a href="/reports/%s?format=json">json</a>)</li>`+"\n", esc, esc, esc, esc)
	}
	fmt.Fprintln(w, "</ul>")
}

// renderHTML drops any raw HTML in the markdown source; report text comes
// from untrusted logs.
func renderHTML(md []byte) []byte {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML,
	})
	return blackfriday.Run(md, blackfriday.WithRenderer(renderer))
}

func (s *reportServer) reportHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !utils.IsURLSafeName(name) {
		http.Error(w, "Invalid report name.", http.StatusBadRequest)
		return
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		http.Error(w, fmt.Sprintf("Report not found: %s", name), http.StatusNotFound)
		return
	}

	a, err := newAnalyzer(s.cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	res := a.Analyze(string(data))
	opts := report.Options{TopOpcodes: s.cfg.TopOpcodes}

	var buf bytes.Buffer
	switch format := r.URL.Query().Get("format"); format {
	case "", "html":
		var md bytes.Buffer
		if err := report.Markdown(&md, name, res, opts); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		buf.Write(renderHTML(md.Bytes()))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	case "text":
		if err := report.Text(&buf, res, opts); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	case "json":
		if err := analyzer.Export(&buf, res); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
	default:
		http.Error(w, fmt.Sprintf("Unknown format: %s", format), http.StatusBadRequest)
		return
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Str("report", name).Msg("[serve] write response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("[serve] request")
	})
}
