package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nightfall/mafiatui/internal/anchor"
	"github.com/nightfall/mafiatui/internal/config"
	"github.com/nightfall/mafiatui/internal/database"
	"github.com/nightfall/mafiatui/internal/database/repository"
	"github.com/nightfall/mafiatui/internal/game"
	"github.com/nightfall/mafiatui/internal/lang"
	"github.com/nightfall/mafiatui/internal/logging"
	"github.com/nightfall/mafiatui/internal/secrets"
	"github.com/nightfall/mafiatui/internal/session"
	"github.com/nightfall/mafiatui/internal/tui"
	"github.com/nightfall/mafiatui/internal/wiki"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "mafiatui",
		Short:         "Spectate mafia games from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
			}
			cfg, err := config.LoadFrom(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.config/mafiatui/config.toml)")
	flags.String("server", "", "game server websocket URL")
	flags.String("locale", "", "interface language, e.g. en-US")
	_ = v.BindPFlag("server.url", flags.Lookup("server"))
	_ = v.BindPFlag("ui.locale", flags.Lookup("locale"))
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	repos := tui.Repos{
		Settings:  repository.NewSettingsRepo(db),
		GameModes: repository.NewGameModeRepo(db),
		Layouts:   repository.NewPanelLayoutRepo(db),
	}

	catalog, err := lang.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load locales: %w", err)
	}
	// a locale picked in the settings card wins over the config file
	if saved, ok, err := repos.Settings.Get(ctx, repository.SettingLocale); err == nil && ok {
		cfg.UI.Locale = saved
	}
	if err := catalog.SetLocale(cfg.UI.Locale); err != nil {
		log.Warn("unknown locale, using default", zap.String("locale", cfg.UI.Locale), zap.Error(err))
		cfg.UI.Locale = catalog.Active()
	}

	articles, err := wiki.Load()
	if err != nil {
		return fmt.Errorf("load wiki: %w", err)
	}

	opts := []session.Option{session.WithLogger(log.Named("session"))}
	if tokens, err := secrets.NewTokenStore(""); err != nil {
		log.Warn("token store unavailable", zap.Error(err))
	} else {
		opts = append(opts, session.WithTokens(tokens))
	}
	manager := session.NewManager(cfg.Server, opts...)
	defer manager.Close()

	var root tui.Screen
	a := anchor.New(root, anchor.WithLogger(log.Named("anchor")))
	ctx = anchor.NewContext[tui.Screen](ctx, a)

	app := tui.New(tui.Deps{
		Config:     cfg,
		Store:      game.NewStore(game.WithStoreLogger(log.Named("store"))),
		Session:    manager,
		Lang:       catalog,
		Repos:      repos,
		Wiki:       articles,
		Logger:     log,
		SaveConfig: config.Save,
	}, tui.WithAnchor(a), tui.WithContext(ctx))

	log.Info("starting", zap.String("server", cfg.Server.URL), zap.String("locale", cfg.UI.Locale))
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
