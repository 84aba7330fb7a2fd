package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"fixfirst/cmd/fixfirst/ui"
	"fixfirst/internal/ai"
	"fixfirst/internal/config"
	"fixfirst/internal/logging"
	"fixfirst/internal/store"
	"fixfirst/internal/types"
)

// runDashboard starts the interactive terminal dashboard: the report
// store, the AI gateway, a config watcher for live theme reloads and the
// bubbletea program, all torn down together.
func runDashboard(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	accounts, err := store.OpenAccounts(blob)
	if err != nil {
		return fmt.Errorf("failed to open accounts: %w", err)
	}

	// First run: give the dashboard something to show
	if st.Seed(false) {
		accounts.SeedAccounts()
	}

	gateway, err := ai.New(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		return fmt.Errorf("failed to start AI gateway: %w", err)
	}

	app := ui.NewAppModel(st, accounts, gateway, cfg.UI.PageSize, cfg.UI.Theme)
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := st.Subscribe(func(snapshot []types.Report) {
		program.Send(ui.SnapshotMsg{Reports: snapshot})
	})
	defer unsubscribe()

	watcher, err := config.NewWatcher(configPath, func(next *config.Config) {
		_ = logging.ReloadConfig(configPath)
		program.Send(ui.ConfigChangedMsg{Theme: next.UI.Theme, PageSize: next.UI.PageSize})
	})
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, _ := errgroup.WithContext(watchCtx)
	g.Go(func() error {
		return watcher.Start(watchCtx)
	})

	_, runErr := program.Run()

	cancel()
	if err := watcher.Stop(); err != nil {
		logging.Get(logging.CategoryBoot).Warn("Config watcher stop: %v", err)
	}
	if err := g.Wait(); err != nil {
		logging.Get(logging.CategoryBoot).Warn("Config watcher: %v", err)
	}
	return runErr
}
