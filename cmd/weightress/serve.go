package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "weightress/internal/adapter/http"
	"weightress/internal/adapter/prefs"
	"weightress/internal/app"
	"weightress/internal/reminder"
	"weightress/internal/repository"
	"weightress/internal/worker"

	"github.com/spf13/cobra"
)

const (
	sessionPurgeInterval = time.Hour
	shutdownTimeout      = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web interface and send periodic reminders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateServe(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, sessions, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		p, err := prefs.Open(cfg.Prefs.Path, cfg.Prefs.Secret)
		if err != nil {
			return err
		}
		defer func() { _ = p.Close() }()

		w := worker.New(64)
		defer w.Stop()

		weightSvc := app.NewWeightService(repository.NewWeightRepo(st))
		tracker := app.NewTracker(weightSvc, w, logger)
		chartsSvc := app.NewChartsService(weightSvc)
		authSvc := app.NewAuthService(p, sessions, cfg.Auth.SessionTTL).
			WithSSOEmail(cfg.Auth.OIDC.AllowedEmail)

		srv := adapthttp.New(tracker, chartsSvc, authSvc, cfg.Server.WebDir, logger)
		if cfg.Auth.Disabled {
			logger.Warn("authentication disabled")
			srv.WithoutAuth()
		}
		if o := cfg.Auth.OIDC; o.Enabled() {
			oc, err := adapthttp.NewOIDCConfig(ctx, o.Issuer, o.ClientID, o.ClientSecret, o.RedirectURL)
			if err != nil {
				return err
			}
			srv.WithOIDC(oc)
			logger.Info("sso enabled", "issuer", o.Issuer)
		}

		notifier := &reminder.LogNotifier{Log: logger, Enabled: cfg.Reminder.Enabled}
		reminder.NewScheduler(cfg.Reminder.Interval, notifier, p, logger).Start(ctx)
		go purgeSessions(ctx, authSvc)

		httpSrv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", cfg.Server.Addr, "driver", cfg.Database.Driver)
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func purgeSessions(ctx context.Context, authSvc *app.AuthService) {
	t := time.NewTicker(sessionPurgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := authSvc.PurgeExpired(ctx); err != nil {
				logger.Error("purge expired sessions", "error", err)
			}
		}
	}
}
