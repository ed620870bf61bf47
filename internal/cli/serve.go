package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/beercounter/internal/auth"
	"github.com/mmynk/beercounter/internal/config"
	"github.com/mmynk/beercounter/internal/middleware"
	"github.com/mmynk/beercounter/internal/service"
	"github.com/mmynk/beercounter/internal/worker"
)

func newServeCmd(s *settings) *cobra.Command {
	var noSweep bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect API server and the aging sweeper",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.cfg.Validate(); err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer cancel()
			return serve(ctx, s.cfg, s.logger, !noSweep)
		},
	}
	cmd.Flags().BoolVar(&noSweep, "no-sweep", false, "Do not schedule the aging sweep in this process")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, sweep bool) error {
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if sweep {
		sweeper := worker.NewAgingSweeper(a.workflow, worker.Config{
			Schedule:    cfg.AgingSchedule,
			Concurrency: cfg.SweepConcurrency,
			Metrics:     a.metrics,
			Logger:      logger,
		})
		if err := sweeper.Start(ctx); err != nil {
			return err
		}
		defer sweeper.Stop()
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	handler := newRouter(cfg, a, jwtManager, logger)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		// h2c serves HTTP/2 without TLS, which Connect streaming clients need.
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// newRouter mounts the Connect services behind auth, logging and rate limiting,
// plus the health and metrics endpoints.
func newRouter(cfg *config.Config, a *app, verifier auth.Verifier, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders:   []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	interceptors := []connect.Interceptor{
		middleware.RequireAuth(verifier),
		middleware.LoggingInterceptor(logger),
	}
	if cfg.RateLimitRPS > 0 {
		interceptors = append(interceptors, middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Interceptor())
	}

	for path, h := range service.Handlers(a.workflow, connect.WithInterceptors(interceptors...)) {
		r.Handle(path+"*", h)
	}
	return r
}
