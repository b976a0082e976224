package cli

import (
	"context"
	"time"

	"github.com/iudanet/finkeeper/internal/client/iocli"
	"github.com/iudanet/finkeeper/internal/client/sync"
	"github.com/iudanet/finkeeper/internal/config"
	"github.com/iudanet/finkeeper/internal/insights"
	"github.com/iudanet/finkeeper/pkg/api"
)

//go:generate moq -out deps_mock.go . HealthChecker InsightsSource

// HealthChecker проверяет доступность сервера
type HealthChecker interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// InsightsSource выдает советы по финансовому снимку. Никогда не возвращает ошибку.
type InsightsSource interface {
	FinancialInsights(ctx context.Context, snap insights.Snapshot) []insights.Insight
}

type Cli struct {
	io       iocli.IO
	sync     sync.Service
	server   HealthChecker
	insights InsightsSource
	now      func() time.Time
	cfgPath  string
	cfg      config.Client
	loaded   bool
}

func New(io iocli.IO, syncService sync.Service, server HealthChecker, insightsSource InsightsSource, cfg config.Client, cfgPath string) *Cli {
	return &Cli{
		io:       io,
		sync:     syncService,
		server:   server,
		insights: insightsSource,
		cfg:      cfg,
		cfgPath:  cfgPath,
		now:      time.Now,
	}
}

// pageSize размер страницы списков из настроек
func (c *Cli) pageSize() int {
	if c.cfg.Display.PageSize > 0 {
		return c.cfg.Display.PageSize
	}
	return 20
}

// currency валюта по умолчанию из настроек
func (c *Cli) currency() string {
	if c.cfg.Display.Currency != "" {
		return c.cfg.Display.Currency
	}
	return "USD"
}

// prepare заполняет коллекции из кэша и, если не offline, обновляет их с сервера.
// Ошибка обновления не фатальна: синхронизатор уже показал уведомление,
// команда продолжает работу с кэшем.
func (c *Cli) prepare(ctx context.Context, offline bool) error {
	if err := c.sync.Load(ctx); err != nil {
		return err
	}
	c.loaded = true
	if offline {
		return nil
	}
	if _, err := c.sync.RefreshAll(ctx); err != nil {
		c.io.Println(Muted("Working from the local cache."))
	}
	return nil
}
