package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/rmx/internal/demo"
	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/internal/telemetry"
	"github.com/vango-dev/rmx/pkg/render"
)

const shutdownTimeout = 5 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var (
		addr    string
		resolve bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo pages over HTTP",
		Long: `Serve the demo pages with a streaming renderer.

Routes:
  /demo/{name}          streamed page (head, body and data script flushed in turn)
  <framePrefix>{name}   frame markup with prefixed region ids
  <metrics.path>        prometheus metrics

Examples:
  rmx serve
  rmx serve --addr :8080
  rmx serve --resolve-frames`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return rerrors.New(rerrors.CodeConfigInvalid).
						WithDetailf("invalid --addr %q", addr).
						Wrap(err)
				}
				a.cfg.Server.Host = host
				if err := a.setPort(port); err != nil {
					return err
				}
			}
			return a.runServe(cmd.Context(), resolve)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")
	cmd.Flags().BoolVar(&resolve, "resolve-frames", false, "Render frame content into pages instead of placeholders")

	return cmd
}

func (a *app) setPort(port string) error {
	n, err := net.LookupPort("tcp", port)
	if err != nil {
		return rerrors.New(rerrors.CodeConfigInvalid).WithDetailf("invalid port %q", port).Wrap(err)
	}
	a.cfg.Server.Port = n
	return a.cfg.Validate()
}

func (a *app) runServe(ctx context.Context, resolve bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              a.cfg.Address(),
		Handler:           a.handler(prometheus.NewRegistry(), resolve),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	a.printBanner()
	a.success("Serving %s", a.cfg.URL())
	for _, name := range demo.Names() {
		a.info("%s/demo/%s", a.cfg.URL(), name)
	}
	if a.cfg.MetricsEnabled() {
		a.info("%s%s", a.cfg.URL(), a.cfg.Metrics.Path)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down", "addr", srv.Addr)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// handler builds the demo router. Collectors are registered on reg.
func (a *app) handler(reg *prometheus.Registry, resolve bool) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.requestLogger)
	r.Use(telemetry.Tracing(nil))

	if a.cfg.MetricsEnabled() {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		httpMetrics := telemetry.NewHTTPMetrics(
			telemetry.WithRegistry(reg),
			telemetry.WithNamespace(a.cfg.Metrics.Namespace),
		)
		r.Use(httpMetrics.Middleware)
		r.Method(http.MethodGet, a.cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/demo/"+a.cfg.Demo, http.StatusFound)
	})
	r.Get("/demo/{name}", a.servePage(resolve))
	r.Get(strings.TrimSuffix(a.cfg.Server.FramePrefix, "/")+"/{name}", a.serveFrame)
	return r
}

func (a *app) servePage(resolve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := demo.Lookup(chi.URLParam(r, "name"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		config := a.rendererConfig()
		config.Logger = a.requestLog(r)
		if resolve {
			config.ResolveFrame = demo.ServerResolver(a.cfg.Server.FramePrefix)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		sr := render.NewStreamingRenderer(w, config)
		if err := sr.RenderPageContext(r.Context(), d.Page(a.pageOptions())); err != nil {
			// Headers are already sent; the client sees a truncated page.
			config.Logger.Error("page render failed", "demo", d.Name, "error", err)
		}
	}
}

func (a *app) serveFrame(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := demo.Frame(name); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	config := a.rendererConfig()
	config.Logger = a.requestLog(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := demo.RenderFrame(r.Context(), w, name, config); err != nil {
		config.Logger.Error("frame render failed", "frame", name, "error", err)
	}
}

func (a *app) requestLog(r *http.Request) *slog.Logger {
	return a.logger.With("request_id", middleware.GetReqID(r.Context()))
}

// requestLogger logs one line per request.
func (a *app) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.requestLog(r).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
