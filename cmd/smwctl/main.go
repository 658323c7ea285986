// Command smwctl drives an admin session from the terminal. Tokens are kept
// in a JSON file so consecutive invocations share one session.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/ianschenck/envflag"
	"github.com/sunnysmathworld/smw-admin/internal/config"
	"github.com/sunnysmathworld/smw-admin/internal/logging"
)

func main() {
	c := config.New()
	var (
		apiBaseURL  = envflag.String("SMW_API_BASE_URL", c.GetAPIBaseURL(), "REST backend base URL")
		sessionFile = envflag.String("SMW_SESSION_FILE", c.GetSessionFile(), "where tokens are kept")
		password    = envflag.String("SMW_PASSWORD", "", "password for login when -password is not given")
		logLevel    = envflag.String("LOG_LEVEL", "warn", "log level")
	)
	envflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli{
		baseURL:     *apiBaseURL,
		sessionFile: *sessionFile,
		password:    *password,
		client:      &http.Client{Timeout: c.GetHTTPClientTimeout()},
		logger:      logging.NewWithWriter(os.Stderr, "DEV", *logLevel),
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}
	if err := app.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "smwctl:", err)
		os.Exit(1)
	}
}
