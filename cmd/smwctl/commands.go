package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sunnysmathworld/smw-admin/admissions"
	"github.com/sunnysmathworld/smw-admin/session"
	"github.com/sunnysmathworld/smw-admin/storage"
)

const usage = `usage: smwctl <command> [flags]

commands:
  login -email EMAIL [-password PASSWORD]
  whoami
  admissions [ID]
  review -approve|-reviewed ID
  get PATH
  token
  logout
`

var errNotLoggedIn = errors.New("not logged in")

type cli struct {
	baseURL     string
	sessionFile string
	password    string
	client      session.HTTPClient
	logger      zerolog.Logger
	stdout      io.Writer
	stderr      io.Writer
}

type command func(ctx context.Context, m *session.Manager, args []string) error

func (c *cli) commands() map[string]command {
	return map[string]command{
		"login":      c.login,
		"whoami":     c.whoami,
		"admissions": c.admissions,
		"review":     c.review,
		"get":        c.get,
		"token":      c.token,
		"logout":     c.logout,
	}
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.stderr, usage)
		return errors.New("missing command")
	}
	cmd, ok := c.commands()[args[0]]
	if !ok {
		fmt.Fprint(c.stderr, usage)
		return errors.Errorf("unknown command %q", args[0])
	}

	m, err := c.manager()
	if err != nil {
		return err
	}
	return cmd(ctx, m, args[1:])
}

func (c *cli) manager() (*session.Manager, error) {
	store, err := storage.NewFileStore(c.sessionFile)
	if err != nil {
		return nil, errors.Wrap(err, "open session file")
	}
	return session.New(store,
		session.WithBaseURL(c.baseURL),
		session.WithHTTPClient(c.client),
		session.WithLogger(c.logger),
	)
}

func (c *cli) login(ctx context.Context, m *session.Manager, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	email := fs.String("email", "", "staff email")
	password := fs.String("password", c.password, "password (defaults to SMW_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login requires -email and a password")
	}

	result := m.Login(ctx, *email, *password)
	if !result.Success {
		return errors.New(result.Message)
	}
	return c.printJSON(m.State().User)
}

// requireSession restores the stored session and fails when it is not a
// verified staff session.
func (c *cli) requireSession(ctx context.Context, m *session.Manager) error {
	m.Bootstrap(ctx)
	if !m.State().StaffVerified() {
		return errNotLoggedIn
	}
	return nil
}

func (c *cli) whoami(ctx context.Context, m *session.Manager, _ []string) error {
	if err := c.requireSession(ctx, m); err != nil {
		return err
	}
	return c.printJSON(m.State().User)
}

func (c *cli) admissions(ctx context.Context, m *session.Manager, args []string) error {
	if err := c.requireSession(ctx, m); err != nil {
		return err
	}
	client, err := admissions.NewClient(m)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		records, err := client.List(ctx)
		if err != nil {
			return err
		}
		return c.printJSON(records)
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return admissions.ErrInvalidID
	}
	record, err := client.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.printJSON(record)
}

func (c *cli) review(ctx context.Context, m *session.Manager, args []string) error {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	approve := fs.Bool("approve", false, "approve the application")
	reviewed := fs.Bool("reviewed", false, "mark the application reviewed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || (!*approve && !*reviewed) {
		return errors.New("review requires -approve or -reviewed and an ID")
	}
	id, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return admissions.ErrInvalidID
	}

	if err := c.requireSession(ctx, m); err != nil {
		return err
	}
	client, err := admissions.NewClient(m)
	if err != nil {
		return err
	}

	var review admissions.Review
	if *reviewed {
		review.IsReviewed = reviewed
	}
	if *approve {
		review.IsApproved = approve
	}
	record, err := client.Review(ctx, id, review)
	if err != nil {
		return err
	}
	return c.printJSON(record)
}

// get issues an authenticated GET against the backend and copies the body to stdout.
func (c *cli) get(ctx context.Context, m *session.Manager, args []string) error {
	if len(args) != 1 {
		return errors.New("get requires a PATH")
	}
	if err := c.requireSession(ctx, m); err != nil {
		return err
	}

	path := args[0]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := m.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := m.FetchWithAuth(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(c.stdout, resp.Body); err != nil {
		return errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("GET %s: %s", path, resp.Status)
	}
	return nil
}

func (c *cli) token(ctx context.Context, m *session.Manager, _ []string) error {
	token, err := m.TokenSource(ctx).Token()
	if err != nil {
		return errNotLoggedIn
	}
	_, err = fmt.Fprintln(c.stdout, token.AccessToken)
	return err
}

func (c *cli) logout(ctx context.Context, m *session.Manager, _ []string) error {
	m.Logout(ctx)
	_, err := fmt.Fprintln(c.stdout, "logged out")
	return err
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
