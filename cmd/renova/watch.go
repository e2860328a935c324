package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/renovadesk/renova/internal/cli"
	"github.com/renovadesk/renova/internal/poller"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the collections refreshed on an interval",
		Long: `Run the periodic pollers: open leads, closed leads, users and the two
dashboard scalars are refetched on a fixed interval until interrupted.
Refreshing suspends automatically while an edit is in progress.`,
		RunE: runWatch,
	}
	cmd.Flags().Duration("interval", poller.DefaultInterval, "refresh interval")
	_ = viper.BindPFlag("watch.interval", cmd.Flags().Lookup("interval"))
	return cmd
}

// scalarState holds the latest polled goal and progress values.
type scalarState struct {
	mu       sync.Mutex
	goal     float64
	progress float64
}

func (s *scalarState) set(goal, progress float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goal, s.progress = goal, progress
}

func (s *scalarState) get() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goal, s.progress
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	interval := viper.GetDuration("watch.interval")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.resumeSession(ctx); err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Observando a planilha (a cada %s)", interval)))

	scalars := &scalarState{}
	guard := app.sess.Editing

	pollers := []*poller.Poller{
		poller.New("open-leads", interval, guard, func(ctx context.Context) error {
			leads, err := app.client.FetchLeads(ctx)
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			app.engine.LoadOpen(leads)
			slog.Info("Open leads refreshed", "count", len(leads))
			return nil
		}),
		poller.New("closed-leads", interval, guard, func(ctx context.Context) error {
			closed, err := app.client.FetchClosedLeads(ctx)
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			app.engine.LoadClosed(closed)
			slog.Info("Closed leads refreshed", "count", len(closed))
			return nil
		}),
		poller.New("users", interval, nil, func(ctx context.Context) error {
			_, err := app.loadUsers(ctx)
			return err
		}),
		poller.New("scalars", interval, nil, func(ctx context.Context) error {
			goal := app.client.FetchGoal(ctx)
			progress := app.client.FetchProgress(ctx)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			scalars.set(goal, progress)
			return nil
		}),
	}

	for _, p := range pollers {
		p.Start(ctx)
	}
	defer func() {
		for _, p := range pollers {
			p.Stop()
		}
	}()

	// Periodic one-line summary so the terminal shows liveness.
	summary := time.NewTicker(interval)
	defer summary.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case <-summary.C:
			goal, progress := scalars.get()
			slog.Info("Snapshot",
				"open", len(app.engine.OpenLeads()),
				"closed", len(app.engine.ClosedLeads()),
				"goal", goal,
				"progress", progress)
		}
	}
}
