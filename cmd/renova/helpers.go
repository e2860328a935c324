package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/renovadesk/renova/internal/common"
	"github.com/renovadesk/renova/internal/dates"
	"github.com/renovadesk/renova/internal/engine"
	"github.com/renovadesk/renova/internal/model"
	"github.com/renovadesk/renova/internal/session"
	"github.com/renovadesk/renova/internal/sheetapi"
	"github.com/renovadesk/renova/internal/storage"
)

// app bundles the wired components a command needs.
type app struct {
	client *sheetapi.Client
	store  *storage.SQLiteStore
	engine *engine.Engine
	sess   *session.Session
}

func newApp() (*app, error) {
	client, err := sheetapi.NewClient(sheetapi.Config{
		BaseURL: viper.GetString("endpoint.url"),
		Sheet:   viper.GetString("endpoint.sheet"),
		Timeout: viper.GetDuration("endpoint.timeout"),
	})
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStore(cachePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open session cache: %w", err)
	}

	return &app{
		client: client,
		store:  store,
		engine: engine.New(client),
		sess:   session.New(),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close session cache", "error", err)
	}
}

func cachePath() string {
	if path := viper.GetString("cache.path"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "renova-session.db"
	}
	return filepath.Join(home, ".local", "share", "renova", "session.db")
}

// loadUsers fetches the user sheet, degrading to the cached copy when the
// endpoint is unreachable. On a successful fetch the cache is rewritten.
func (a *app) loadUsers(ctx context.Context) ([]model.User, error) {
	users, err := a.client.FetchUsers(ctx)
	if err == nil {
		a.engine.LoadUsers(users)
		if saveErr := a.store.SaveUsers(ctx, users); saveErr != nil {
			slog.Warn("Failed to cache user list", "error", saveErr)
		}
		return users, nil
	}

	slog.Warn("User fetch failed, falling back to cached list", "error", err)
	cached, cacheErr := a.store.LoadUsers(ctx)
	if cacheErr != nil || len(cached) == 0 {
		return nil, fmt.Errorf("failed to fetch users and no cached copy: %w", err)
	}
	a.engine.LoadUsers(cached)
	return cached, nil
}

// resumeSession restores the authenticated user recorded in the cache.
func (a *app) resumeSession(ctx context.Context) (model.User, error) {
	username, err := a.store.LoadSession(ctx)
	if err != nil {
		return model.User{}, err
	}
	if username == "" {
		return model.User{}, common.NewUserError("faça login primeiro (renova login)", common.ErrNotLoggedIn)
	}

	users, err := a.loadUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	if !a.sess.Resume(users, username) {
		return model.User{}, common.NewUserError("sessão expirada, faça login novamente", common.ErrNotLoggedIn)
	}

	user, _ := a.sess.User()
	return user, nil
}

// refreshCollections pulls both lead collections concurrently into the
// engine.
func (a *app) refreshCollections(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		leads, err := a.client.FetchLeads(ctx)
		if err != nil {
			return err
		}
		a.engine.LoadOpen(leads)
		return nil
	})
	g.Go(func() error {
		closed, err := a.client.FetchClosedLeads(ctx)
		if err != nil {
			return err
		}
		a.engine.LoadClosed(closed)
		return nil
	})

	return g.Wait()
}

func parseID(arg string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(arg, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid lead id %q", arg)
	}
	return id, nil
}

func nowLocal() time.Time {
	return time.Now().Local()
}

// parseRangeFlags reads the --from/--to filter flags. Empty flags leave the
// corresponding bound open.
func parseRangeFlags(fromFlag, toFlag string) (time.Time, time.Time, error) {
	var from, to time.Time
	if fromFlag != "" {
		t, ok := dates.Parse(fromFlag)
		if !ok {
			return from, to, fmt.Errorf("invalid --from date: %q", fromFlag)
		}
		from = t
	}
	if toFlag != "" {
		t, ok := dates.Parse(toFlag)
		if !ok {
			return from, to, fmt.Errorf("invalid --to date: %q", toFlag)
		}
		to = t
	}
	return from, to, nil
}
