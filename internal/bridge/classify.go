// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import "strings"

// AggregateColumn is the column name the executor gives the json_agg result of a wrapped statement.
const AggregateColumn = "json_agg"

// IsRowProducing reports whether sql, trimmed and case-folded, begins with SELECT.
// It is a prefix match, not a parser: statements such as WITH ... SELECT are
// treated as non-row-producing and forwarded unmodified.
func IsRowProducing(sql string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sql)), "SELECT")
}

// Wrap rewrites a row-producing statement so its whole result set comes back as a
// single JSON-aggregated column. Plain tabular text does not survive the executor's
// transport intact; an aggregated JSON column does. Other statements are returned unchanged.
func Wrap(sql string) string {
	if !IsRowProducing(sql) {
		return sql
	}
	inner := strings.TrimRight(strings.TrimSpace(sql), "; \t\r\n")
	// A trailing line comment would swallow the closing parenthesis.
	for at := trailingComment(inner); at >= 0; at = trailingComment(inner) {
		inner = strings.TrimRight(inner[:at], "; \t\r\n")
	}
	return "SELECT json_agg(row_to_json(t)) FROM (" + inner + ") t"
}

// trailingComment returns the offset of a "--" comment that runs to the end of
// sql, or -1. Quoted text and block comments are skipped.
func trailingComment(sql string) int {
	for i := 0; i < len(sql); i++ {
		switch {
		case sql[i] == '\'' || sql[i] == '"':
			end := strings.IndexByte(sql[i+1:], sql[i])
			if end == -1 {
				return -1
			}
			i += end + 1
		case strings.HasPrefix(sql[i:], "/*"):
			end := strings.Index(sql[i+2:], "*/")
			if end == -1 {
				return -1
			}
			i += end + 3
		case strings.HasPrefix(sql[i:], "--"):
			nl := strings.IndexByte(sql[i:], '\n')
			if nl == -1 {
				return i
			}
			i += nl
		}
	}
	return -1
}
