package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pico-editor/internal/auth"
	"pico-editor/internal/content"
	"pico-editor/internal/db"
	"pico-editor/internal/logging"
	"pico-editor/internal/server"
	"pico-editor/internal/session"
)

const (
	lockoutDuration = 15 * time.Minute
	lockoutWindow   = 10 * time.Minute
	cleanupInterval = 10 * time.Minute
	shutdownTimeout = 5 * time.Second
	breakerFailures = 5
	breakerTimeout  = 30 * time.Second
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "passwd" {
		os.Exit(runPasswd(os.Args[2:], os.Stdin, os.Stdout, os.Stderr))
	}

	// Cancelled on SIGINT (Ctrl+C) or SIGTERM (container stop).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "editor: %v\n", err)
		os.Exit(1)
	}
}

// run wires the editor from the environment and serves until ctx is done.
func run(ctx context.Context, getenv func(string) string) error {
	cfg, err := server.LoadConfig(getenv)
	if err != nil {
		return err
	}

	logs, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	log := logs.Get("main")

	backend, err := openBackend(ctx, cfg, logs.Get("content"))
	if err != nil {
		return fmt.Errorf("content backend: %w", err)
	}

	sessions, closeSessions, err := openSessions(cfg, log)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	defer closeSessions()

	if cfg.Password == "" {
		log.Warn("PE_PASSWORD not set; the editor cannot be unlocked")
	}

	lockout := auth.NewLockout(cfg.LoginMaxAttempts, lockoutDuration, lockoutWindow)
	gate := auth.NewGate(sessions, cfg.Password, lockout, logs.Get("auth"))
	store := content.NewStore(backend, cfg.ContentExt)

	srv, err := server.New(cfg, server.Deps{
		Gate:  gate,
		Store: store,
		Logs:  logs,
		Components: map[string]server.Pinger{
			"content":  backend,
			"sessions": sessions,
		},
	})
	if err != nil {
		return err
	}

	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go session.StartCleanup(bgCtx, sessions, cleanupInterval, logs.Get("sessions"))
	go lockout.Run(bgCtx, time.Minute)
	go srv.RunMaintenance(bgCtx)

	// Serve in the background so we can wait on ctx at the same time.
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting",
			"addr", cfg.Addr,
			"entry", cfg.EntryURL(),
			"storage", cfg.Storage,
			"sessions", cfg.SessionStore,
		)
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("shutdown complete")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// openBackend returns the configured content backend. Object storage sits
// behind a circuit breaker.
func openBackend(ctx context.Context, cfg server.Config, log logging.Logger) (content.Backend, error) {
	if cfg.Storage != "s3" {
		return content.NewFSBackend(cfg.ContentDir)
	}
	mb, err := content.NewMinioBackend(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}
	return content.WithBreaker(mb, content.NewBreaker(breakerFailures, breakerTimeout, log)), nil
}

// openSessions returns the configured session store and a func releasing
// whatever it holds open.
func openSessions(cfg server.Config, log logging.Logger) (session.Store, func(), error) {
	if cfg.SessionStore != "postgres" {
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}

	conn, err := session.OpenDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("running migrations")
	if err := db.RunMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	log.Info("migrations complete")
	return session.NewPostgresStore(conn, cfg.SessionTTL), func() { _ = conn.Close() }, nil
}

// runPasswd prints the PE_PASSWORD value for a password read from -p or
// the first line of stdin.
func runPasswd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("passwd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	password := fs.String("p", "", "password to hash (read from stdin when empty)")
	useBcrypt := fs.Bool("bcrypt", false, "emit a bcrypt hash instead of SHA-512 hex")
	cost := fs.Int("cost", 0, "bcrypt cost (0 for the library default)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	pw := *password
	if pw == "" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(stderr, "passwd: read password: %v\n", err)
			return 1
		}
		pw = strings.TrimRight(line, "\r\n")
	}
	if pw == "" {
		fmt.Fprintln(stderr, "passwd: empty password")
		return 1
	}

	if !*useBcrypt {
		fmt.Fprintln(stdout, auth.HashSHA512(pw))
		return 0
	}
	hash, err := auth.HashBcrypt(pw, *cost)
	if err != nil {
		fmt.Fprintf(stderr, "passwd: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, hash)
	return 0
}
