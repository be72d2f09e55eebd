package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"crypto-journal/internal/models"
)

// Fixed column positions of the spreadsheet export. Row 0 is a header and is
// skipped without validation.
const (
	colTimestamp = iota
	colStatus
	colSymbol
	colDirection
	colLeverage
	colEntry
	colStopLoss
	colMargin
	colExit
	colPnLAmount
	colPnLPercent
	colEndBalance
	colReview
	colCount
)

// openStatuses are the sentinel values meaning a row is still an open
// position. Anything else, including unrecognized text, is treated as closed.
var openStatuses = map[string]bool{
	"-":       true,
	"open":    true,
	"active":  true,
	"holding": true,
	"pending": true,
	"持仓中":     true,
	"持倉中":     true,
}

// Result is the outcome of mapping a parsed CSV document.
type Result struct {
	Trades []models.Trade
	// EndingBalance is the last non-empty, non-zero value seen in the ending
	// available balance column, in file order. When present the target
	// account's balance is overwritten with it after import.
	EndingBalance *float64
	SkippedRows   int
}

// MapRows converts parsed CSV rows into trade records for the given account.
// Row 0 is skipped as the header. Cell-level parse failures degrade to safe
// defaults; no row is rejected for a bad value.
func MapRows(rows [][]string, accountID string) Result {
	var res Result

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < colCount {
			padded := make([]string, colCount)
			copy(padded, row)
			row = padded
		}

		symbol := strings.ToUpper(row[colSymbol])
		if symbol == "" {
			res.SkippedRows++
			continue
		}

		t := models.Trade{
			ID:           models.NewTradeID(),
			Timestamp:    ParseTimestamp(row[colTimestamp]),
			Symbol:       symbol,
			Direction:    parseDirection(row[colDirection]),
			Leverage:     parseNumber(row[colLeverage]),
			Entry:        parseNumber(row[colEntry]),
			StopLoss:     parseNumber(row[colStopLoss]),
			PositionSize: parseNumber(row[colMargin]),
			PositionUnit: models.UnitMargin,
			Review:       row[colReview],
			Strategy:     "",
			AccountID:    accountID,
			Status:       models.StatusClosed,
		}
		if t.Leverage <= 0 {
			t.Leverage = 1
		}

		if openStatuses[strings.ToLower(row[colStatus])] || row[colStatus] == "" {
			t.Status = models.StatusActive
		}

		if t.Status == models.StatusClosed {
			exit := parseNumber(row[colExit])
			t.Exit = &exit
			closeTS := t.Timestamp
			t.CloseTimestamp = &closeTS
			t.PnLAmount = parseNumber(row[colPnLAmount])
			t.PnLPercent = parseNumber(row[colPnLPercent])
		}

		if bal := parseNumber(row[colEndBalance]); bal != 0 {
			b := bal
			res.EndingBalance = &b
		}

		t.Normalize()
		res.Trades = append(res.Trades, t)
	}
	return res
}

// parseDirection infers the side by case-insensitive substring match for
// "short"; anything else defaults to Long.
func parseDirection(s string) models.Direction {
	if strings.Contains(strings.ToLower(s), "short") {
		return models.Short
	}
	return models.Long
}

// parseNumber leniently parses a numeric cell, tolerating surrounding
// whitespace, thousands separators, and %/x suffixes. Failure yields 0.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSuffix(s, "x")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

var cjkDateRe = regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日(?:\s+\S+)?(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006-01-02",
}

// ParseTimestamp parses a timestamp cell. It accepts ISO-style layouts and
// the localized long form "YYYY年M月D日 <weekday> H:MM:SS". On total failure
// it falls back to the current time: import never blocks on one bad date
// cell.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now()
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}

	if m := cjkDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hour, min, sec := 0, 0, 0
		if m[4] != "" {
			hour, _ = strconv.Atoi(m[4])
			min, _ = strconv.Atoi(m[5])
		}
		if m[6] != "" {
			sec, _ = strconv.Atoi(m[6])
		}
		return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.Local)
	}

	return time.Now()
}
