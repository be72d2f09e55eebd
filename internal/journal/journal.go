// Package journal implements the trading-journal operations: logging and
// mutating trades with account reconciliation, bulk CSV import, and the
// category and account bookkeeping around them.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"crypto-journal/internal/calc"
	"crypto-journal/internal/errors"
	"crypto-journal/internal/ledger"
	"crypto-journal/internal/logging"
	"crypto-journal/internal/models"
	"crypto-journal/internal/store"
)

// Reviewer is the external feedback collaborator. The boolean reports whether
// the returned text is a genuine response safe to cache.
type Reviewer interface {
	Review(ctx context.Context, t *models.Trade) (string, bool)
}

// Service owns the in-memory journal state and mirrors every mutation to the
// persistence store.
type Service struct {
	repo   *store.Repository
	logger zerolog.Logger
}

// NewService creates a journal service over an already-loaded repository.
func NewService(repo *store.Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Repo exposes the underlying repository for read-only presentation.
func (s *Service) Repo() *store.Repository {
	return s.repo
}

// AddOrUpdateTrade inserts a new trade or replaces an existing one by ID,
// applying exactly one balance delta to the owning account for the
// before/after state pair.
func (s *Service) AddOrUpdateTrade(t models.Trade) error {
	t.Normalize()
	if t.Entry <= 0 {
		return errors.NewValidationError("entry", t.Entry, "must be positive")
	}
	if t.ID == "" {
		t.ID = models.NewTradeID()
	}

	acc := s.repo.FindAccount(t.AccountID)
	if acc == nil {
		return errors.Wrapf(errors.ErrAccountNotFound, "account %q", t.AccountID)
	}

	var before *models.Trade
	if existing := s.repo.FindTrade(t.ID); existing != nil {
		copied := *existing
		before = &copied
	}

	delta := ledger.BalanceDelta(before, &t)
	acc.CurrentBalance += delta

	if before == nil {
		s.repo.Trades = append([]models.Trade{t}, s.repo.Trades...)
	} else {
		*s.repo.FindTrade(t.ID) = t
	}

	if err := s.repo.SaveTrades(); err != nil {
		return errors.Wrap(err, "persisting trades")
	}
	if err := s.repo.SaveAccounts(); err != nil {
		return errors.Wrap(err, "persisting accounts")
	}

	op := "update"
	if before == nil {
		op = "create"
	}
	logging.LogTradeMutation(s.logger, op, t.ID, t.AccountID, delta)
	return nil
}

// CloseTrade sets the exit price on an Active (or already Closed) trade,
// recomputes the PNL snapshot, and reconciles the account balance.
func (s *Service) CloseTrade(id string, exit float64, closedAt time.Time) error {
	existing := s.repo.FindTrade(id)
	if existing == nil {
		return errors.Wrapf(errors.ErrTradeNotFound, "trade %q", id)
	}

	updated := *existing
	updated.Exit = &exit
	updated.Status = models.StatusClosed
	if closedAt.IsZero() {
		closedAt = time.Now()
	}
	updated.CloseTimestamp = &closedAt

	pnl, ok := calc.ComputePnL(updated.Entry, exit, updated.Direction, updated.Leverage, updated.PositionSize, updated.PositionUnit)
	if !ok {
		return errors.NewValidationError("exit", exit, "pnl not computable for trade inputs")
	}
	updated.PnLPercent = pnl.Percent
	updated.PnLAmount = pnl.Amount

	return s.AddOrUpdateTrade(updated)
}

// ReopenTrade transitions a Closed trade back to Active, backing the realized
// result out of the account balance and clearing the close snapshot.
func (s *Service) ReopenTrade(id string) error {
	existing := s.repo.FindTrade(id)
	if existing == nil {
		return errors.Wrapf(errors.ErrTradeNotFound, "trade %q", id)
	}
	if !existing.IsClosed() {
		return nil
	}

	updated := *existing
	updated.Exit = nil
	updated.Status = models.StatusActive
	updated.CloseTimestamp = nil
	updated.PnLPercent = 0
	updated.PnLAmount = 0

	return s.AddOrUpdateTrade(updated)
}

// DeleteTrade removes a trade. A Closed trade's realized result is backed out
// of the account balance; deleting an Active trade has no balance effect.
func (s *Service) DeleteTrade(id string) error {
	existing := s.repo.FindTrade(id)
	if existing == nil {
		return errors.Wrapf(errors.ErrTradeNotFound, "trade %q", id)
	}

	delta := ledger.BalanceDelta(existing, nil)
	if acc := s.repo.FindAccount(existing.AccountID); acc != nil {
		acc.CurrentBalance += delta
	}

	trades := s.repo.Trades[:0]
	for i := range s.repo.Trades {
		if s.repo.Trades[i].ID != id {
			trades = append(trades, s.repo.Trades[i])
		}
	}
	s.repo.Trades = trades

	if err := s.repo.SaveTrades(); err != nil {
		return errors.Wrap(err, "persisting trades")
	}
	if err := s.repo.SaveAccounts(); err != nil {
		return errors.Wrap(err, "persisting accounts")
	}

	logging.LogTradeMutation(s.logger, "delete", id, existing.AccountID, delta)
	return nil
}

// Feedback returns AI feedback for a Closed trade, fetching it at most once:
// a cached value short-circuits the call, and only genuine responses are
// cached. The fallback string is returned to the caller but never persisted.
func (s *Service) Feedback(ctx context.Context, coach Reviewer, tradeID string) (string, error) {
	t := s.repo.FindTrade(tradeID)
	if t == nil {
		return "", errors.Wrapf(errors.ErrTradeNotFound, "trade %q", tradeID)
	}
	if t.AIFeedback != "" {
		return t.AIFeedback, nil
	}

	text, cacheable := coach.Review(ctx, t)
	if cacheable {
		t.AIFeedback = text
		if err := s.repo.SaveTrades(); err != nil {
			return text, errors.Wrap(err, "persisting feedback")
		}
	}
	return text, nil
}

// SetLanguage persists the language preference.
func (s *Service) SetLanguage(lang string) error {
	s.repo.Language = lang
	return s.repo.SaveLanguage()
}

// AddSymbol registers a new symbol category. Duplicate names are permitted.
func (s *Service) AddSymbol(name string) error {
	s.repo.Symbols = append(s.repo.Symbols, models.Category{
		ID:   fmt.Sprintf("SYM-%d", time.Now().UnixNano()),
		Name: name,
	})
	return s.repo.SaveSymbols()
}

// AddStrategy registers a new strategy category. Duplicate names are
// permitted.
func (s *Service) AddStrategy(name string) error {
	s.repo.Strategies = append(s.repo.Strategies, models.Category{
		ID:   fmt.Sprintf("STR-%d", time.Now().UnixNano()),
		Name: name,
	})
	return s.repo.SaveStrategies()
}
