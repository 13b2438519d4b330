// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares free text for comparison: surrounding whitespace is removed, the string is
// brought into Unicode NFC so that precomposed and decomposed umlauts compare equal, and it is
// lowercased. Accents are kept; "zurich" and "zürich" stay different.
func Normalize(value string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(value)))
}
