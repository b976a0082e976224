package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/iudanet/finkeeper/internal/client/api"
	"github.com/iudanet/finkeeper/internal/client/iocli"
	"github.com/iudanet/finkeeper/internal/client/storage/boltdb"
	"github.com/iudanet/finkeeper/internal/client/sync"
	"github.com/iudanet/finkeeper/internal/config"
	"github.com/iudanet/finkeeper/internal/insights"
)

// VersionInfo задается через ldflags при сборке
type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Options глобальные флаги, нужные для сборки Cli
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Factory собирает Cli и возвращает функцию освобождения ресурсов
type Factory func(ctx context.Context, opts Options) (*Cli, func() error, error)

// app лениво собирает Cli: команды config и version работают без кэша и сервера
type app struct {
	factory Factory
	cli     *Cli
	closer  func() error
	opts    Options
	offline bool
}

func (a *app) open(ctx context.Context) (*Cli, error) {
	if a.cli != nil {
		return a.cli, nil
	}
	c, closer, err := a.factory(ctx, a.opts)
	if err != nil {
		return nil, err
	}
	a.cli, a.closer = c, closer
	return c, nil
}

// ready открывает Cli и готовит коллекции к работе
func (a *app) ready(ctx context.Context) (*Cli, error) {
	c, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.prepare(ctx, a.offline); err != nil {
		return nil, err
	}
	return c, nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.cli, a.closer = nil, nil
	return err
}

// NewRootCommand собирает дерево команд finkeeper
func NewRootCommand(info VersionInfo, factory Factory) *cobra.Command {
	root, _ := newRoot(info, factory)
	return root
}

func newRoot(info VersionInfo, factory Factory) (*cobra.Command, *app) {
	a := &app{factory: factory}

	root := &cobra.Command{
		Use:           "finkeeper",
		Short:         "Personal finance tracker",
		Long:          "Track expenses, budgets and recurring bills, with reports and AI insights.",
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("finkeeper %s (built %s, commit %s)\n", info.Version, info.BuildDate, info.GitCommit))

	root.PersistentFlags().StringVar(&a.opts.ConfigPath, "config", config.ClientPath(), "Path to the config file")
	root.PersistentFlags().BoolVarP(&a.opts.Verbose, "verbose", "v", false, "Verbose logging to stderr")
	root.PersistentFlags().BoolVar(&a.offline, "offline", false, "Use the local cache without contacting the server")

	root.AddCommand(
		newExpenseCommand(a),
		newCategoryCommand(a),
		newBudgetCommand(a),
		newBillCommand(a),
		newCalendarCommand(a),
		newReportCommand(a),
		newTaxReportCommand(a),
		newInsightsCommand(a),
		newStatusCommand(a),
		newConfigCommand(a),
	)

	return root, a
}

// Execute запускает CLI и возвращает код выхода
func Execute(ctx context.Context, info VersionInfo, args []string) int {
	root, a := newRoot(info, Bootstrap)
	root.SetArgs(args)

	// PersistentPostRunE не вызывается, если команда вернула ошибку
	err := errors.Join(root.ExecuteContext(ctx), a.close())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// Bootstrap открывает локальный кэш и собирает клиентов по конфигурации
func Bootstrap(ctx context.Context, opts Options) (*Cli, func() error, error) {
	cfg, err := config.LoadClient(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := os.MkdirAll(config.Dir(), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	boltStorage, err := boltdb.New(ctx, cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open local cache: %w", err)
	}

	stdio := iocli.NewStdio()
	apiClient := api.NewClient(cfg.Server.URL, cfg.Server.User)

	syncService := sync.NewService(sync.Gateways{
		Expenses:   apiClient.Expenses(),
		Categories: apiClient.Categories(),
		Budgets:    apiClient.Budgets(),
		Bills:      apiClient.Bills(),
	}, boltStorage, boltStorage, NewToaster(stdio), logger)

	insightsClient := insights.NewClient(insights.Config{
		BaseURL: cfg.Insights.BaseURL,
		APIKey:  cfg.Insights.APIKey,
		Model:   cfg.Insights.Model,
		Timeout: cfg.Insights.Timeout(),
	}, logger)

	c := New(stdio, syncService, apiClient, insightsClient, cfg, opts.ConfigPath)

	closer := func() error {
		var persistErr error
		// Кэш перезаписывается только если он был прочитан
		if c.loaded {
			persistErr = syncService.Persist(context.WithoutCancel(ctx))
		}
		return errors.Join(persistErr, boltStorage.Close())
	}

	return c, closer, nil
}
