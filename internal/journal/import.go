package journal

import (
	"crypto-journal/internal/errors"
	"crypto-journal/internal/importer"
	"crypto-journal/internal/ledger"
	"crypto-journal/internal/logging"
	"crypto-journal/internal/models"
)

// ImportSummary reports the outcome of a bulk CSV import.
type ImportSummary struct {
	Imported    int
	Duplicates  int
	SkippedRows int
	// BalanceSet is the absolute balance written to the account, when the
	// file carried an ending-balance column value.
	BalanceSet *float64
}

// ImportCSV parses raw CSV text and merges the mapped trades into the journal.
// A parsed trade whose (timestamp, symbol) pair exactly matches an existing
// trade is dropped as a duplicate and contributes nothing, not even a balance
// delta. When the file carries an ending balance, the account balance is
// overwritten with that absolute value instead of accumulating per-trade
// deltas.
func (s *Service) ImportCSV(text, accountID, sourceName string) (ImportSummary, error) {
	acc := s.repo.FindAccount(accountID)
	if acc == nil {
		return ImportSummary{}, errors.Wrapf(errors.ErrAccountNotFound, "account %q", accountID)
	}

	rows := importer.ParseCSV(text)
	res := importer.MapRows(rows, accountID)

	sum := ImportSummary{SkippedRows: res.SkippedRows}

	for i := range res.Trades {
		t := res.Trades[i]
		if s.isDuplicate(&t) {
			sum.Duplicates++
			continue
		}
		if res.EndingBalance == nil {
			ledger.Apply(acc, nil, &t)
		}
		s.repo.Trades = append([]models.Trade{t}, s.repo.Trades...)
		sum.Imported++
	}

	if res.EndingBalance != nil {
		ledger.Overwrite(acc, *res.EndingBalance)
		sum.BalanceSet = res.EndingBalance
	}

	if err := s.repo.SaveTrades(); err != nil {
		return sum, errors.Wrap(err, "persisting trades")
	}
	if err := s.repo.SaveAccounts(); err != nil {
		return sum, errors.Wrap(err, "persisting accounts")
	}

	logging.LogImport(s.logger, sourceName, sum.Imported, sum.Duplicates, sum.SkippedRows)
	return sum, nil
}

// isDuplicate reports whether an existing trade shares the candidate's exact
// timestamp and symbol.
func (s *Service) isDuplicate(t *models.Trade) bool {
	for i := range s.repo.Trades {
		e := &s.repo.Trades[i]
		if e.Symbol == t.Symbol && e.Timestamp.Equal(t.Timestamp) {
			return true
		}
	}
	return false
}
