package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/bookcircle/api"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
	"github.com/AntonStoeckl/bookcircle/circulation/shell/config"
)

const (
	readHeaderTimeout = 10 * time.Second

	logMsgStarting        = "starting bookcircle"
	logMsgListening       = "http server listening"
	logMsgShuttingDown    = "shutting down"
	logMsgShutdownFailed  = "graceful shutdown failed"
	logMsgStopped         = "bookcircle stopped"
	logAttrVersion        = "version"
	logAttrStorage        = "storage"
	logAttrDriver         = "driver"
	logAttrAddr           = "addr"
	logAttrShutdownError  = "error"
	logAttrAMQPConfigured = "amqp"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), cfg)
		},
	}
}

// serve runs until ctx is canceled, then drains requests and pending notifications.
func serve(ctx context.Context, cfg config.Config) error {
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	logger := shell.NewJSONLogger(os.Stdout, level)
	logger.Info(logMsgStarting,
		logAttrVersion, version,
		logAttrStorage, cfg.Storage,
		logAttrDriver, cfg.PostgresDriver,
		logAttrAMQPConfigured, cfg.AMQPURL != "",
	)

	providers, err := config.NewObservabilityProviders(ctx, cfg, version)
	if err != nil {
		return err
	}

	obs := newObservability(cfg, logger, providers)

	store, closeStore, err := openStore(ctx, cfg, obs)
	if err != nil {
		return errors.Join(err, providers.Shutdown(context.WithoutCancel(ctx)))
	}
	defer closeStore()

	notifier, closeNotifier, err := newNotifier(cfg, logger)
	if err != nil {
		return errors.Join(err, providers.Shutdown(context.WithoutCancel(ctx)))
	}
	defer closeNotifier()

	dispatcher := shell.NewNotificationDispatcher(
		notifier,
		shell.WithNotifyTimeout(cfg.NotifyTimeout),
		shell.WithDispatcherLogging(logger, obs.contextualLogger),
	)

	deps, err := newDeps(cfg, store, dispatcher, obs)
	if err != nil {
		return errors.Join(err, providers.Shutdown(context.WithoutCancel(ctx)))
	}

	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(*deps, api.WithLogger(logger)),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(logMsgListening, logAttrAddr, cfg.HTTPAddr)

		if listenErr := srv.ListenAndServe(); listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
			serveErr <- listenErr
		}

		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	logger.Info(logMsgShuttingDown)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	shutdownErr := srv.Shutdown(shutdownCtx)
	dispatcher.Wait()
	shutdownErr = errors.Join(shutdownErr, providers.Shutdown(shutdownCtx))

	if shutdownErr != nil {
		logger.Error(logMsgShutdownFailed, logAttrShutdownError, shutdownErr.Error())
	}

	logger.Info(logMsgStopped)

	return errors.Join(err, shutdownErr)
}
