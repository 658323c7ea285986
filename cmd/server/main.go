package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/sunnysmathworld/smw-admin/internal/config"
	"github.com/sunnysmathworld/smw-admin/internal/logging"
	"github.com/sunnysmathworld/smw-admin/server"
)

func main() {
	c := config.New()
	logger := logging.New(c.GetEnv(), c.GetLogLevel())
	for {
		if err := run(c, logger); err != nil {
			logger.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
			continue
		}
		break
	}
	logger.Info().Msg("Server stopped")
}

func run(c config.Config, logger zerolog.Logger) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	ctx := context.Background()
	backend, closeBackend, err := server.NewSessionBackend(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeBackend(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close session backend")
		}
	}()

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithHTTPClient(&http.Client{Timeout: c.GetHTTPClientTimeout()}),
	}
	if backend != nil {
		opts = append(opts, server.WithSessionBackend(backend))
	}
	handler, err := server.New(c, opts...)
	if err != nil {
		return err
	}

	displayAppname(c.GetAppName())
	logger.Info().
		Str("api", c.GetAPIBaseURL()).
		Str("session_store", c.GetSessionStore()).
		Strs("origins", c.GetAllowedOrigins().List()).
		Msg("Configuration")

	srv := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() {
		errs <- listenAndServe(srv, logger)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return err
		}
	case <-waitForStopSignal():
	}
	return shutdown(srv)
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

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
