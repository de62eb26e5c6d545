package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	api "github.com/mind-engage/pseudocheck/internal/api/http"
	auth "github.com/mind-engage/pseudocheck/internal/auth/middleware"
	"github.com/mind-engage/pseudocheck/internal/catalog"
	"github.com/mind-engage/pseudocheck/internal/config"
	"github.com/mind-engage/pseudocheck/internal/grading"
	"github.com/mind-engage/pseudocheck/internal/observe"
	"github.com/mind-engage/pseudocheck/internal/question"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(o *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := o.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, o, cfg, log)
		},
	}
}

func serve(ctx context.Context, o *globalOpts, cfg config.Config, log *slog.Logger) error {
	for _, w := range config.Warnings(cfg) {
		log.Warn("insecure configuration", "detail", w, "mode", cfg.Mode)
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	b, err := o.open(openCtx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer b.Close()

	if cfg.SeedFile != "" {
		cat, err := catalog.Load(cfg.SeedFile)
		if err != nil {
			return err
		}
		n, err := catalog.Seed(ctx, b.store, cat)
		if err != nil {
			return err
		}
		log.Info("catalog seeded", "file", cfg.SeedFile, "questions", n)
	}

	deps := api.Deps{
		Submissions:   b.subs,
		ExposeAnswers: cfg.ExposeAnswers,
		CORSOrigins:   cfg.CORSOrigins(),
		Logger:        log,
	}
	var graderOpts []grading.Option
	svcOpts := []question.ServiceOption{question.WithLogger(log)}

	if cfg.EnableMetrics {
		shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdownMetrics(context.Background()); err != nil {
				log.Warn("metrics shutdown", "err", err)
			}
		}()
		m, err := observe.NewMetrics(otel.GetMeterProvider())
		if err != nil {
			return err
		}
		graderOpts = append(graderOpts, grading.WithObserver(m))
		svcOpts = append(svcOpts, question.WithRecordErrorHook(m.RecordError))
		deps.Metrics = m
		deps.MetricsHandler = observe.Handler()
	}
	if cfg.RecordSubmissions && b.subs != nil {
		svcOpts = append(svcOpts, question.WithRecorder(b.subs))
	}
	deps.Service = question.NewService(b.store, grading.NewGrader(graderOpts...), svcOpts...)

	if cfg.EnableAdminAPI {
		deps.Auth = auth.NewAuthService(cfg.AuthHMACSecret)
		deps.Admin = auth.Credentials{User: cfg.AdminUser, PassHash: cfg.AdminPassHash}
	}
	if b.db != nil {
		deps.Ready = append(deps.Ready, api.Checker{Name: "database", Check: b.db.PingContext})
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening",
			"addr", cfg.HTTPAddr,
			"mode", cfg.Mode,
			"db", cfg.DBDriver,
			"admin_api", cfg.EnableAdminAPI,
			"metrics", cfg.EnableMetrics,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shCtx)
	})
	return g.Wait()
}
