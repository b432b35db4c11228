package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-session-server/auth"
	"github.com/jrsteele09/go-session-server/internal/config"
	"github.com/jrsteele09/go-session-server/internal/logging"
	"github.com/jrsteele09/go-session-server/internal/obs"
	"github.com/jrsteele09/go-session-server/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run(configPath string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{
		Level:   c.GetLogLevel(),
		Pretty:  c.GetLogPretty(),
		App:     c.GetAppName(),
		Env:     c.GetEnv(),
		Version: c.GetVersion(),
	})
	displayAppname(c.GetAppName())

	ctx := context.Background()
	tel, err := obs.SetupOTel(ctx, obs.OTELConfig{
		Enable:      c.GetOTelEnabled(),
		Endpoint:    c.GetOTelEndpoint(),
		ServiceName: c.GetOTelServiceName(),
		SampleRatio: c.GetOTelSampleRatio(),
	})
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer shutdownOTel(tel, logger)

	store, err := openStore(ctx, c)
	if err != nil {
		return fmt.Errorf("open %s store: %w", c.GetStoreDriver(), err)
	}
	defer store.Close()
	logger.Info().Str("driver", c.GetStoreDriver()).Msg("store ready")
	logSchemaVersion(ctx, store, logger)

	roles, err := auth.NewRolesFromConfig(c)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(store, roles, auth.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := server.BootstrapAdmin(ctx, c, authService, logger); err != nil {
		return err
	}

	handler, err := server.New(c, authService, logger, store.Ping)
	if err != nil {
		return err
	}

	timeouts := c.GetServerTimeouts()
	httpServer := &http.Server{
		Addr:         c.GetPort(),
		Handler:      handler,
		ReadTimeout:  timeouts.Read,
		WriteTimeout: timeouts.Write,
		IdleTimeout:  timeouts.Idle,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer, logger) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer, timeouts.Graceful)
}

func listenAndServe(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func shutdownOTel(tel *obs.OTel, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tel.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("otel shutdown")
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
