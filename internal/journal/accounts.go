package journal

import (
	"fmt"
	"time"

	"crypto-journal/internal/errors"
	"crypto-journal/internal/models"
)

// AddAccount creates a trading account whose current balance starts at its
// initial balance.
func (s *Service) AddAccount(name string, initialBalance float64) (models.Account, error) {
	if initialBalance < 0 {
		return models.Account{}, errors.NewValidationError("initialBalance", initialBalance, "must not be negative")
	}
	acc := models.Account{
		ID:             fmt.Sprintf("ACC-%d", time.Now().UnixNano()),
		Name:           name,
		InitialBalance: initialBalance,
		CurrentBalance: initialBalance,
	}
	s.repo.Accounts = append(s.repo.Accounts, acc)
	return acc, s.repo.SaveAccounts()
}

// SetInitialBalance rewrites an account's initial balance and shifts the
// current balance by the same amount, preserving realized results.
func (s *Service) SetInitialBalance(id string, initialBalance float64) error {
	acc := s.repo.FindAccount(id)
	if acc == nil {
		return errors.Wrapf(errors.ErrAccountNotFound, "account %q", id)
	}
	acc.CurrentBalance += initialBalance - acc.InitialBalance
	acc.InitialBalance = initialBalance
	return s.repo.SaveAccounts()
}

// RenameAccount changes an account's display name.
func (s *Service) RenameAccount(id, name string) error {
	acc := s.repo.FindAccount(id)
	if acc == nil {
		return errors.Wrapf(errors.ErrAccountNotFound, "account %q", id)
	}
	acc.Name = name
	return s.repo.SaveAccounts()
}

// DeleteAccount removes an account and every trade attributed to it. The last
// remaining account cannot be deleted.
func (s *Service) DeleteAccount(id string) error {
	if len(s.repo.Accounts) <= 1 {
		return errors.ErrLastAccount
	}
	if s.repo.FindAccount(id) == nil {
		return errors.Wrapf(errors.ErrAccountNotFound, "account %q", id)
	}

	accounts := s.repo.Accounts[:0]
	for i := range s.repo.Accounts {
		if s.repo.Accounts[i].ID != id {
			accounts = append(accounts, s.repo.Accounts[i])
		}
	}
	s.repo.Accounts = accounts

	trades := s.repo.Trades[:0]
	for i := range s.repo.Trades {
		if s.repo.Trades[i].AccountID != id {
			trades = append(trades, s.repo.Trades[i])
		}
	}
	s.repo.Trades = trades

	if err := s.repo.SaveAccounts(); err != nil {
		return errors.Wrap(err, "persisting accounts")
	}
	return s.repo.SaveTrades()
}
