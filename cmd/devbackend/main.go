package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/sunnysmathworld/smw-admin/devbackend"
	"github.com/sunnysmathworld/smw-admin/internal/config"
	"github.com/sunnysmathworld/smw-admin/internal/logging"
	"github.com/sunnysmathworld/smw-admin/token"
)

func main() {
	c := config.New()
	logger := logging.New(c.GetEnv(), c.GetLogLevel())
	if err := run(c, logger); err != nil {
		logger.Fatal().Err(err).Msg("Dev backend stopped")
	}
	logger.Info().Msg("Dev backend stopped")
}

func run(c config.Config, logger zerolog.Logger) error {
	signer, err := token.NewHMACSigner(c.GetDevBackendSecret())
	if err != nil {
		return err
	}
	backend, err := devbackend.NewSeeded(token.New(signer), devbackend.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("devbackend.NewSeeded: %w", err)
	}

	displayAppname("SMW API")
	for _, route := range backend.Routes() {
		logger.Debug().Str("route", route).Msg("registered")
	}
	logger.Info().
		Str("staff", devbackend.SeedStaffEmail).
		Str("password", devbackend.SeedPassword).
		Msg("Seed staff account")

	server := &http.Server{Addr: c.GetDevBackendPort(), Handler: backend, ReadHeaderTimeout: 10 * time.Second}
	errs := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Dev backend listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("server.ListenAndServe: %w", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errs:
		return err
	case <-stop:
	}

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
