// Package cli implements the interactive CrewDesk client: a small REPL over
// the session manager, mainly useful for poking at a backend and for
// demonstrating silent session restoration across restarts.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/crewdesk/crewdesk-go/internal/api"
	"github.com/crewdesk/crewdesk-go/internal/config"
	"github.com/crewdesk/crewdesk-go/internal/logging"
	"github.com/crewdesk/crewdesk-go/internal/session"
	"github.com/crewdesk/crewdesk-go/internal/storage"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	manager *session.Manager
	client  api.Client
	db      *sql.DB
	reader  *bufio.Reader
	log     logging.Logger
}

// NewApp wires the whole session subsystem together: durable storage,
// cookie store, credential cache, device store, API client, refresh
// coordinator, and the session manager on top.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	repo, db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	jar := api.NewCookieStore(repo, log)
	if err := jar.Load(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load cookies: %w", err)
	}

	cache, err := session.NewCache(ctx, repo, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load credential cache: %w", err)
	}

	client, err := api.NewHTTPClient(cfg.BaseURL, cache, jar, cfg.RequestTimeout, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	devices := session.NewDeviceStore(repo, log)
	coordinator := session.NewCoordinator(client, cache, cfg.RefreshTimeout, log)
	client.SetRefresher(coordinator)

	manager := session.NewManager(client, cache, devices, coordinator, log)
	manager.SetExpiredHandler(func() {
		fmt.Println("Your session has expired. Please log in again.")
	})

	return &App{
		config:  cfg,
		manager: manager,
		client:  client,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		log:     log,
	}, nil
}

// Run bootstraps the session (silent restoration) and enters the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.manager.Bootstrap(ctx); err != nil {
		a.log.Error(ctx, "bootstrap failed", "error", err)
	}

	if st := a.manager.State(); st.IsAuthenticated {
		fmt.Printf("Welcome back, %s!\n", st.User.FullName)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) Close() {
	_ = a.client.Close()
	_ = a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.manager.State().IsAuthenticated
}

// status renders the prompt suffix: the username when logged in.
func (a *App) status() string {
	st := a.manager.State()
	if st.User != nil {
		return st.User.Username
	}
	return "-"
}
