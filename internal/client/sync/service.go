package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/finkeeper/internal/client/storage"
	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/internal/optimistic"
	"github.com/iudanet/finkeeper/pkg/api"
)

// Синхронизаторы по типам записей
type (
	Expenses   = optimistic.Synchronizer[models.Expense, api.ExpenseInput]
	Categories = optimistic.Synchronizer[models.Category, api.CategoryInput]
	Budgets    = optimistic.Synchronizer[models.Budget, api.BudgetInput]
	Bills      = optimistic.Synchronizer[models.Bill, api.BillInput]
)

// Service владеет коллекциями клиента: прогревает их из локального кэша,
// обновляет с сервера и сохраняет подтвержденное состояние обратно в кэш
type Service interface {
	// Load заполняет коллекции из локального кэша
	Load(ctx context.Context) error

	// RefreshAll параллельно обновляет все коллекции с сервера
	RefreshAll(ctx context.Context) (*RefreshResult, error)

	// Persist сохраняет текущее состояние коллекций в кэш
	Persist(ctx context.Context) error

	// Status возвращает размер и время последнего обновления каждой коллекции
	Status(ctx context.Context) ([]CollectionStatus, error)

	Expenses() *Expenses
	Categories() *Categories
	Budgets() *Budgets
	Bills() *Bills
}

// Gateways набор удаленных шлюзов для каждой коллекции
type Gateways struct {
	Expenses   optimistic.Gateway[models.Expense, api.ExpenseInput]
	Categories optimistic.Gateway[models.Category, api.CategoryInput]
	Budgets    optimistic.Gateway[models.Budget, api.BudgetInput]
	Bills      optimistic.Gateway[models.Bill, api.BillInput]
}

// RefreshResult contains refresh operation results
type RefreshResult struct {
	Counts map[string]int // размер коллекции после обновления
	Failed []string       // коллекции, которые не удалось обновить
}

// CollectionStatus описывает состояние одной коллекции
type CollectionStatus struct {
	LastRefresh time.Time
	Name        string
	Count       int
	Pending     int
}

type service struct {
	snapshots storage.SnapshotStorage
	metadata  storage.MetadataStorage
	logger    *slog.Logger
	now       func() time.Time

	expenses   *Expenses
	categories *Categories
	budgets    *Budgets
	bills      *Bills

	collections []collection
}

// NewService creates a new sync service
func NewService(gw Gateways, snapshots storage.SnapshotStorage, metadata storage.MetadataStorage, notifier optimistic.Notifier, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &service{
		snapshots: snapshots,
		metadata:  metadata,
		logger:    logger,
		now:       time.Now,
	}

	s.expenses = optimistic.New(gw.Expenses, optimistic.Options[models.Expense, api.ExpenseInput]{
		Name:     "Expense",
		Notifier: notifier,
		Logger:   logger,
		Placeholder: func(tempID string, in api.ExpenseInput) models.Expense {
			return models.NewExpense(tempID, models.OptimisticOwner, in, s.now())
		},
		Touch: models.Expense.Touched,
	})
	s.categories = optimistic.New(gw.Categories, optimistic.Options[models.Category, api.CategoryInput]{
		Name:     "Category",
		Notifier: notifier,
		Logger:   logger,
		Placeholder: func(tempID string, in api.CategoryInput) models.Category {
			return models.NewCategory(tempID, models.OptimisticOwner, in, s.now())
		},
		Touch: models.Category.Touched,
	})
	s.budgets = optimistic.New(gw.Budgets, optimistic.Options[models.Budget, api.BudgetInput]{
		Name:     "Budget",
		Notifier: notifier,
		Logger:   logger,
		Placeholder: func(tempID string, in api.BudgetInput) models.Budget {
			return models.NewBudget(tempID, models.OptimisticOwner, in, s.now())
		},
		Touch: models.Budget.Touched,
	})
	s.bills = optimistic.New(gw.Bills, optimistic.Options[models.Bill, api.BillInput]{
		Name:     "Bill",
		Notifier: notifier,
		Logger:   logger,
		Placeholder: func(tempID string, in api.BillInput) models.Bill {
			return models.NewBill(tempID, models.OptimisticOwner, in, s.now())
		},
		Touch: models.Bill.Touched,
	})

	s.collections = []collection{
		bind(api.ResourceExpenses, s.expenses),
		bind(api.ResourceCategories, s.categories),
		bind(api.ResourceBudgets, s.budgets),
		bind(api.ResourceBills, s.bills),
	}

	return s
}

func (s *service) Expenses() *Expenses     { return s.expenses }
func (s *service) Categories() *Categories { return s.categories }
func (s *service) Budgets() *Budgets       { return s.budgets }
func (s *service) Bills() *Bills           { return s.bills }

// Load заполняет коллекции из локального кэша
func (s *service) Load(ctx context.Context) error {
	for _, c := range s.collections {
		if err := c.load(ctx, s.snapshots); err != nil {
			return fmt.Errorf("failed to load %s from cache: %w", c.name(), err)
		}
		s.logger.Debug("Collection loaded from cache", "collection", c.name(), "count", c.len())
	}
	return nil
}

// RefreshAll обновляет коллекции параллельно. Ошибка одной коллекции не
// отменяет остальные; обновленные коллекции сохраняются в кэш.
func (s *service) RefreshAll(ctx context.Context) (*RefreshResult, error) {
	s.logger.Info("Starting refresh", "collections", len(s.collections))

	errs := make([]error, len(s.collections))
	var g errgroup.Group
	for i, c := range s.collections {
		g.Go(func() error {
			errs[i] = c.refresh(ctx)
			return nil
		})
	}
	_ = g.Wait()

	result := &RefreshResult{Counts: make(map[string]int, len(s.collections))}
	at := s.now()

	for i, c := range s.collections {
		if errs[i] != nil {
			s.logger.Warn("Collection refresh failed", "collection", c.name(), "error", errs[i])
			result.Failed = append(result.Failed, c.name())
			errs[i] = fmt.Errorf("%s: %w", c.name(), errs[i])
			continue
		}

		result.Counts[c.name()] = c.len()

		if err := c.persist(ctx, s.snapshots); err != nil {
			s.logger.Warn("Failed to persist snapshot", "collection", c.name(), "error", err)
		}
		if err := s.metadata.SaveLastRefresh(ctx, c.name(), at); err != nil {
			// Не прерываем обновление из-за ошибки сохранения времени
			s.logger.Warn("Failed to save last refresh time", "collection", c.name(), "error", err)
		}
	}

	s.logger.Info("Refresh completed", "counts", result.Counts, "failed", len(result.Failed))

	return result, errors.Join(errs...)
}

// Persist сохраняет текущее состояние коллекций в кэш
func (s *service) Persist(ctx context.Context) error {
	for _, c := range s.collections {
		if err := c.persist(ctx, s.snapshots); err != nil {
			return fmt.Errorf("failed to persist %s: %w", c.name(), err)
		}
	}
	return nil
}

// Status возвращает размер и время последнего обновления каждой коллекции
func (s *service) Status(ctx context.Context) ([]CollectionStatus, error) {
	out := make([]CollectionStatus, 0, len(s.collections))
	for _, c := range s.collections {
		at, err := s.metadata.GetLastRefresh(ctx, c.name())
		if err != nil {
			return nil, fmt.Errorf("failed to get last refresh of %s: %w", c.name(), err)
		}
		out = append(out, CollectionStatus{
			Name:        c.name(),
			Count:       c.len(),
			Pending:     c.pending(),
			LastRefresh: at,
		})
	}
	return out, nil
}
