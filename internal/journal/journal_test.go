package journal

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"crypto-journal/internal/errors"
	"crypto-journal/internal/models"
	"crypto-journal/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := store.NewRepository(store.NewMemoryKV(), zerolog.Nop())
	return NewService(repo, zerolog.Nop())
}

func openTrade(id string) models.Trade {
	return models.Trade{
		ID:           id,
		Timestamp:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Symbol:       "BTC",
		Direction:    models.Long,
		Leverage:     10,
		Entry:        100,
		StopLoss:     95,
		PositionSize: 500,
		PositionUnit: models.UnitMargin,
		AccountID:    "default",
		Status:       models.StatusActive,
	}
}

func balance(s *Service) float64 {
	return s.repo.FindAccount("default").CurrentBalance
}

func TestAddTradeBornClosedAppliesDelta(t *testing.T) {
	s := newTestService(t)

	tr := openTrade("t1")
	exit := 110.0
	tr.Exit = &exit
	tr.Status = models.StatusClosed
	tr.PnLAmount = 500
	tr.PnLPercent = 100

	if err := s.AddOrUpdateTrade(tr); err != nil {
		t.Fatal(err)
	}
	if got := balance(s); got != 1500 {
		t.Errorf("balance = %v, want 1500", got)
	}
}

func TestAddActiveTradeNoDelta(t *testing.T) {
	s := newTestService(t)

	if err := s.AddOrUpdateTrade(openTrade("t1")); err != nil {
		t.Fatal(err)
	}
	if got := balance(s); got != 1000 {
		t.Errorf("balance = %v, want 1000", got)
	}
}

func TestCloseTradeComputesSnapshotAndReconciles(t *testing.T) {
	s := newTestService(t)
	if err := s.AddOrUpdateTrade(openTrade("t1")); err != nil {
		t.Fatal(err)
	}

	closedAt := time.Date(2024, 5, 2, 15, 0, 0, 0, time.UTC)
	if err := s.CloseTrade("t1", 110, closedAt); err != nil {
		t.Fatal(err)
	}

	tr := s.repo.FindTrade("t1")
	if !tr.IsClosed() {
		t.Fatal("trade not closed")
	}
	// 10% move at 10x on 500 margin.
	if math.Abs(tr.PnLPercent-100) > 1e-9 || math.Abs(tr.PnLAmount-500) > 1e-9 {
		t.Errorf("pnl = %v%% / %v", tr.PnLPercent, tr.PnLAmount)
	}
	if tr.CloseTimestamp == nil || !tr.CloseTimestamp.Equal(closedAt) {
		t.Errorf("close timestamp = %v", tr.CloseTimestamp)
	}
	if got := balance(s); got != 1500 {
		t.Errorf("balance = %v, want 1500", got)
	}
}

func TestEditClosedPnLAppliesDifferenceOnly(t *testing.T) {
	s := newTestService(t)
	if err := s.AddOrUpdateTrade(openTrade("t1")); err != nil {
		t.Fatal(err)
	}
	if err := s.CloseTrade("t1", 110, time.Time{}); err != nil {
		t.Fatal(err)
	}

	// Re-close at a different exit: the balance must move by the pnl
	// difference, not by the new pnl again.
	if err := s.CloseTrade("t1", 105, time.Time{}); err != nil {
		t.Fatal(err)
	}
	if got := balance(s); got != 1250 {
		t.Errorf("balance = %v, want 1250", got)
	}
}

func TestReopenTradeBacksOutRealizedResult(t *testing.T) {
	s := newTestService(t)
	if err := s.AddOrUpdateTrade(openTrade("t1")); err != nil {
		t.Fatal(err)
	}
	if err := s.CloseTrade("t1", 110, time.Time{}); err != nil {
		t.Fatal(err)
	}

	if err := s.ReopenTrade("t1"); err != nil {
		t.Fatal(err)
	}

	tr := s.repo.FindTrade("t1")
	if tr.IsClosed() || tr.Exit != nil || tr.CloseTimestamp != nil {
		t.Errorf("trade not reopened: %+v", tr)
	}
	if tr.PnLAmount != 0 || tr.PnLPercent != 0 {
		t.Error("pnl snapshot not cleared")
	}
	if got := balance(s); got != 1000 {
		t.Errorf("balance = %v, want 1000", got)
	}
}

func TestLifecycleNetsToZero(t *testing.T) {
	s := newTestService(t)
	if err := s.AddOrUpdateTrade(openTrade("t1")); err != nil {
		t.Fatal(err)
	}
	if err := s.CloseTrade("t1", 110, time.Time{}); err != nil {
		t.Fatal(err)
	}
	if err := s.CloseTrade("t1", 90, time.Time{}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTrade("t1"); err != nil {
		t.Fatal(err)
	}

	if got := balance(s); math.Abs(got-1000) > 1e-9 {
		t.Errorf("balance = %v, want 1000", got)
	}
	if len(s.repo.Trades) != 0 {
		t.Errorf("trades = %d, want 0", len(s.repo.Trades))
	}
}

func TestDeleteActiveTradeNoBalanceEffect(t *testing.T) {
	s := newTestService(t)
	if err := s.AddOrUpdateTrade(openTrade("t1")); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTrade("t1"); err != nil {
		t.Fatal(err)
	}
	if got := balance(s); got != 1000 {
		t.Errorf("balance = %v, want 1000", got)
	}
}

func TestAddTradeUnknownAccount(t *testing.T) {
	s := newTestService(t)
	tr := openTrade("t1")
	tr.AccountID = "nope"
	if err := s.AddOrUpdateTrade(tr); !errors.Is(err, errors.ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}

const importCSV = "Date,Status,Symbol,Direction,Lev,Entry,SL,Margin,Exit,PnL,PnL%,Balance,Review\n" +
	"2024-05-01 10:00,closed,BTC,Long,10x,100,95,500,110,500,100%,1500,existing one\n" +
	"2024-05-02 11:00,closed,ETH,Short,5x,200,210,300,190,150,50%,1650,new one\n"

func TestImportDedupOnTimestampAndSymbol(t *testing.T) {
	s := newTestService(t)

	existing := openTrade("t1")
	existing.Timestamp = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := s.AddOrUpdateTrade(existing); err != nil {
		t.Fatal(err)
	}

	sum, err := s.ImportCSV(importCSV, "default", "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Imported != 1 || sum.Duplicates != 1 {
		t.Errorf("imported = %d, duplicates = %d; want 1, 1", sum.Imported, sum.Duplicates)
	}
	if len(s.repo.Trades) != 2 {
		t.Errorf("trades = %d, want 2", len(s.repo.Trades))
	}
}

func TestImportEndingBalanceOverwrites(t *testing.T) {
	s := newTestService(t)

	sum, err := s.ImportCSV(importCSV, "default", "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if sum.BalanceSet == nil || *sum.BalanceSet != 1650 {
		t.Errorf("balance set = %v, want 1650", sum.BalanceSet)
	}
	// Absolute overwrite, not initial + sum of imported pnl.
	if got := balance(s); got != 1650 {
		t.Errorf("balance = %v, want 1650", got)
	}
}

func TestImportWithoutBalanceColumnAppliesDeltas(t *testing.T) {
	s := newTestService(t)

	csv := "Date,Status,Symbol,Direction,Lev,Entry,SL,Margin,Exit,PnL,PnL%\n" +
		"2024-05-01 10:00,closed,BTC,Long,10x,100,95,500,110,500,100%\n"
	if _, err := s.ImportCSV(csv, "default", "test.csv"); err != nil {
		t.Fatal(err)
	}
	if got := balance(s); got != 1500 {
		t.Errorf("balance = %v, want 1500", got)
	}
}

func TestImportUnknownAccount(t *testing.T) {
	s := newTestService(t)
	if _, err := s.ImportCSV(importCSV, "nope", "test.csv"); !errors.Is(err, errors.ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}

type stubReviewer struct {
	text      string
	cacheable bool
	calls     int
}

func (r *stubReviewer) Review(ctx context.Context, tr *models.Trade) (string, bool) {
	r.calls++
	return r.text, r.cacheable
}

func TestFeedbackFetchedAtMostOnce(t *testing.T) {
	s := newTestService(t)
	if err := s.AddOrUpdateTrade(openTrade("t1")); err != nil {
		t.Fatal(err)
	}

	coach := &stubReviewer{text: "Nice discipline on the exit.", cacheable: true}

	first, err := s.Feedback(context.Background(), coach, "t1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Feedback(context.Background(), coach, "t1")
	if err != nil {
		t.Fatal(err)
	}

	if first != second || first != coach.text {
		t.Errorf("feedback = %q / %q", first, second)
	}
	if coach.calls != 1 {
		t.Errorf("coach called %d times, want 1", coach.calls)
	}
	if s.repo.FindTrade("t1").AIFeedback != coach.text {
		t.Error("feedback not cached on trade")
	}
}

func TestFeedbackFallbackNotCached(t *testing.T) {
	s := newTestService(t)
	if err := s.AddOrUpdateTrade(openTrade("t1")); err != nil {
		t.Fatal(err)
	}

	coach := &stubReviewer{text: "Error generating AI feedback.", cacheable: false}

	if _, err := s.Feedback(context.Background(), coach, "t1"); err != nil {
		t.Fatal(err)
	}
	if s.repo.FindTrade("t1").AIFeedback != "" {
		t.Error("fallback must not be cached")
	}

	// A retry reaches the service again.
	if _, err := s.Feedback(context.Background(), coach, "t1"); err != nil {
		t.Fatal(err)
	}
	if coach.calls != 2 {
		t.Errorf("coach called %d times, want 2", coach.calls)
	}
}

func TestDeleteLastAccountRefused(t *testing.T) {
	s := newTestService(t)
	if err := s.DeleteAccount("default"); !errors.Is(err, errors.ErrLastAccount) {
		t.Errorf("err = %v, want ErrLastAccount", err)
	}
}

func TestDeleteAccountRemovesItsTrades(t *testing.T) {
	s := newTestService(t)
	acc, err := s.AddAccount("Second", 2000)
	if err != nil {
		t.Fatal(err)
	}

	tr := openTrade("t1")
	tr.AccountID = acc.ID
	if err := s.AddOrUpdateTrade(tr); err != nil {
		t.Fatal(err)
	}
	if err := s.AddOrUpdateTrade(openTrade("t2")); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteAccount(acc.ID); err != nil {
		t.Fatal(err)
	}
	if len(s.repo.Accounts) != 1 {
		t.Errorf("accounts = %d, want 1", len(s.repo.Accounts))
	}
	if len(s.repo.Trades) != 1 || s.repo.Trades[0].ID != "t2" {
		t.Errorf("trades = %+v", s.repo.Trades)
	}
}

func TestSetInitialBalancePreservesRealizedResults(t *testing.T) {
	s := newTestService(t)
	if err := s.AddOrUpdateTrade(openTrade("t1")); err != nil {
		t.Fatal(err)
	}
	if err := s.CloseTrade("t1", 110, time.Time{}); err != nil {
		t.Fatal(err)
	}

	if err := s.SetInitialBalance("default", 2000); err != nil {
		t.Fatal(err)
	}

	acc := s.repo.FindAccount("default")
	if acc.InitialBalance != 2000 {
		t.Errorf("initial = %v", acc.InitialBalance)
	}
	if acc.CurrentBalance != 2500 {
		t.Errorf("current = %v, want 2500 (realized +500 preserved)", acc.CurrentBalance)
	}
}
