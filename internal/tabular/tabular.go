// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

// Package tabular turns comma-delimited text with a header row into records keyed by column name.
//
// The dialect is deliberately small: fields are separated by commas outside of quoted spans, a
// double quote toggles the quoted state, two consecutive double quotes inside a quoted span yield
// a literal double quote and every field is trimmed of surrounding whitespace. Rows are split on
// newlines before fields are parsed, so quoted fields cannot span lines.
package tabular

import (
	"regexp"
	"strings"
)

// lineBreak matches both LF and CRLF row terminators.
var lineBreak = regexp.MustCompile(`\r?\n`)

// Record maps a column name from the header row to the value of a single data row. Records are
// shared between the store and match results and must be treated as read-only.
type Record map[string]string

// Get returns the value for the given column, or an empty string if the column is unknown.
func (r Record) Get(column string) string {
	return r[column]
}

// Table is the result of parsing: the header row in its original order and one Record per data row.
type Table struct {
	Header  []string
	Records []Record
}

// Parse parses raw text into an ordered sequence of records. It returns an empty slice if the
// text contains no non-empty rows.
func Parse(text string) []Record {
	return ParseTable(text).Records
}

// ParseTable parses raw text and keeps the header row alongside the records.
func ParseTable(text string) Table {
	lines := make([]string, 0)
	for _, line := range lineBreak.Split(text, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return Table{Records: []Record{}}
	}

	header := ParseLine(lines[0])
	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := ParseLine(line)
		record := make(Record, len(header))
		for i, column := range header {
			if i < len(values) {
				record[column] = values[i]
				continue
			}
			record[column] = ""
		}
		records = append(records, record)
	}

	return Table{Header: header, Records: records}
}

// ParseLine splits a single row into its trimmed fields.
func ParseLine(line string) []string {
	fields := make([]string, 0)
	current := strings.Builder{}
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		char := runes[i]
		switch {
		case char == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case char == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(char)
		}
	}
	fields = append(fields, current.String())

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
