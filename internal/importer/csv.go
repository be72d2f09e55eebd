// Package importer converts spreadsheet exports into trade records. The input
// layout is fixed-position CSV with quoted fields that legitimately contain
// commas and embedded newlines (multi-line review text), so parsing is a
// character-level scanner rather than a line split.
package importer

import "strings"

// ParseCSV tokenizes quoted-field CSV text into rows of trimmed fields.
//
// A field wrapped in double quotes may contain literal commas and newlines;
// two consecutive quote characters inside a quoted field are an escaped
// quote. Records end at \n or \r\n (one boundary, not two). Rows whose fields
// are all empty are dropped.
func ParseCSV(text string) [][]string {
	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		row = append(row, strings.TrimSpace(field.String()))
		field.Reset()
	}
	endRow := func() {
		endField()
		for _, f := range row {
			if f != "" {
				rows = append(rows, row)
				break
			}
		}
		row = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if inQuotes {
			if c == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
				} else {
					inQuotes = false
				}
				continue
			}
			field.WriteRune(c)
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			endField()
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			endRow()
		case '\n':
			endRow()
		default:
			field.WriteRune(c)
		}
	}

	if field.Len() > 0 || len(row) > 0 {
		endRow()
	}
	return rows
}
