// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package tabular

import (
	"io"
	"strings"
)

// Encode writes the header and records in the dialect understood by Parse. Fields containing a
// comma or a double quote are quoted. Newlines inside fields are not representable and are
// replaced by a space.
func Encode(w io.Writer, header []string, records []Record) error {
	if _, err := io.WriteString(w, encodeRow(header)); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, record := range records {
		for i, column := range header {
			row[i] = record.Get(column)
		}
		if _, err := io.WriteString(w, encodeRow(row)); err != nil {
			return err
		}
	}
	return nil
}

func encodeRow(fields []string) string {
	buf := strings.Builder{}
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(encodeField(field))
	}
	buf.WriteByte('\n')
	return buf.String()
}

func encodeField(field string) string {
	field = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(field)
	if !strings.ContainsAny(field, `,"`) {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
