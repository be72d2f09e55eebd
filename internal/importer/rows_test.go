package importer

import (
	"testing"
	"time"

	"crypto-journal/internal/models"
)

func row(cells ...string) []string {
	out := make([]string, colCount)
	copy(out, cells)
	return out
}

func TestMapRowsSkipsHeader(t *testing.T) {
	rows := [][]string{
		row("Timestamp", "Status", "Symbol"),
		row("2024-05-01 10:00", "closed", "btc", "Long", "10x", "100", "95", "500", "110", "500", "100%", "1500", "good entry"),
	}

	res := MapRows(rows, "acc1")
	if len(res.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(res.Trades))
	}

	tr := res.Trades[0]
	if tr.Symbol != "BTC" {
		t.Errorf("symbol = %q, want BTC", tr.Symbol)
	}
	if tr.Status != models.StatusClosed {
		t.Errorf("status = %q, want Closed", tr.Status)
	}
	if tr.Exit == nil || *tr.Exit != 110 {
		t.Errorf("exit = %v, want 110", tr.Exit)
	}
	if tr.Leverage != 10 {
		t.Errorf("leverage = %v, want 10", tr.Leverage)
	}
	if tr.PnLAmount != 500 || tr.PnLPercent != 100 {
		t.Errorf("pnl = %v/%v, want 500/100", tr.PnLAmount, tr.PnLPercent)
	}
	if tr.Review != "good entry" {
		t.Errorf("review = %q", tr.Review)
	}
	if tr.AccountID != "acc1" {
		t.Errorf("accountID = %q", tr.AccountID)
	}
}

func TestMapRowsOpenStatuses(t *testing.T) {
	for _, status := range []string{"-", "", "open", "Active", "HOLDING", "持仓中"} {
		rows := [][]string{
			row(),
			row("2024-05-01", status, "ETH", "Long", "5", "100", "", "200"),
		}
		res := MapRows(rows, "acc1")
		if len(res.Trades) != 1 {
			t.Fatalf("status %q: got %d trades", status, len(res.Trades))
		}
		tr := res.Trades[0]
		if tr.Status != models.StatusActive {
			t.Errorf("status %q mapped to %q, want Active", status, tr.Status)
		}
		if tr.Exit != nil {
			t.Errorf("status %q: open trade has exit", status)
		}
	}
}

func TestMapRowsSkipsEmptySymbol(t *testing.T) {
	rows := [][]string{
		row(),
		row("2024-05-01", "closed", "", "Long", "5", "100"),
		row("2024-05-01", "closed", "SOL", "Long", "5", "100"),
	}
	res := MapRows(rows, "acc1")
	if len(res.Trades) != 1 || res.SkippedRows != 1 {
		t.Errorf("trades = %d, skipped = %d; want 1, 1", len(res.Trades), res.SkippedRows)
	}
}

func TestMapRowsShortRowPadded(t *testing.T) {
	rows := [][]string{
		row(),
		{"2024-05-01", "open", "DOGE"},
	}
	res := MapRows(rows, "acc1")
	if len(res.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(res.Trades))
	}
	if res.Trades[0].Leverage != 1 {
		t.Errorf("leverage = %v, want default 1", res.Trades[0].Leverage)
	}
}

func TestMapRowsEndingBalanceLastWins(t *testing.T) {
	rows := [][]string{
		row(),
		row("2024-05-01", "closed", "BTC", "Long", "10", "100", "", "500", "110", "500", "100", "1500"),
		row("2024-05-02", "closed", "ETH", "Short", "10", "200", "", "500", "190", "250", "50", "1750"),
		row("2024-05-03", "open", "SOL", "Long", "10", "50", "", "100", "", "", "", ""),
	}
	res := MapRows(rows, "acc1")
	if res.EndingBalance == nil {
		t.Fatal("expected ending balance")
	}
	if *res.EndingBalance != 1750 {
		t.Errorf("ending balance = %v, want 1750", *res.EndingBalance)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want models.Direction
	}{
		{"Long", models.Long},
		{"short", models.Short},
		{"SHORT 做空", models.Short},
		{"", models.Long},
		{"garbage", models.Long},
	}
	for _, tt := range tests {
		if got := parseDirection(tt.in); got != tt.want {
			t.Errorf("parseDirection(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNumberLenient(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,234.5", 1234.5},
		{"85%", 85},
		{"20x", 20},
		{" 42 ", 42},
		{"", 0},
		{"not a number", 0},
	}
	for _, tt := range tests {
		if got := parseNumber(tt.in); got != tt.want {
			t.Errorf("parseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01 10:30:00", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"2024/05/01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:30", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := ParseTimestamp(tt.in)
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimestampLocalizedLongForm(t *testing.T) {
	got := ParseTimestamp("2024年5月1日 星期三 10:30:00")
	want := time.Date(2024, 5, 1, 10, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	dateOnly := ParseTimestamp("2024年5月1日")
	wantDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	if !dateOnly.Equal(wantDate) {
		t.Errorf("got %v, want %v", dateOnly, wantDate)
	}
}

// An unparseable timestamp must still produce a concrete instant.
func TestParseTimestampFallback(t *testing.T) {
	before := time.Now().Add(-time.Minute)
	got := ParseTimestamp("definitely not a date")
	if got.Before(before) || got.After(time.Now().Add(time.Minute)) {
		t.Errorf("fallback timestamp %v not near now", got)
	}
}
