// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRowProducing(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want bool
	}{
		{name: "plain select", sql: "SELECT id FROM t", want: true},
		{name: "lower case", sql: "select 1", want: true},
		{name: "leading whitespace", sql: "\n\t  SeLeCt now()", want: true},
		{name: "update", sql: "UPDATE t SET x=1", want: false},
		{name: "insert", sql: "INSERT INTO t VALUES (1)", want: false},
		{name: "ddl", sql: "CREATE TABLE t (id int)", want: false},
		{name: "cte is not classified", sql: "WITH x AS (SELECT 1) SELECT * FROM x", want: false},
		{name: "empty", sql: "   ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRowProducing(tt.sql))
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			name: "select is aggregated",
			sql:  "SELECT id FROM t",
			want: "SELECT json_agg(row_to_json(t)) FROM (SELECT id FROM t) t",
		},
		{
			name: "trailing semicolon is dropped inside the subquery",
			sql:  "  SELECT id FROM t;  ",
			want: "SELECT json_agg(row_to_json(t)) FROM (SELECT id FROM t) t",
		},
		{
			name: "trailing line comment is dropped",
			sql:  "SELECT id FROM t -- newest first",
			want: "SELECT json_agg(row_to_json(t)) FROM (SELECT id FROM t) t",
		},
		{
			name: "comment after the semicolon and on its own line",
			sql:  "SELECT id\nFROM t; -- ids\n-- end\n",
			want: "SELECT json_agg(row_to_json(t)) FROM (SELECT id\nFROM t) t",
		},
		{
			name: "comment in the middle is kept",
			sql:  "SELECT id -- primary key\nFROM t",
			want: "SELECT json_agg(row_to_json(t)) FROM (SELECT id -- primary key\nFROM t) t",
		},
		{
			name: "dashes inside a string literal are not a comment",
			sql:  "SELECT '--' AS sep FROM t",
			want: "SELECT json_agg(row_to_json(t)) FROM (SELECT '--' AS sep FROM t) t",
		},
		{
			name: "dashes inside a block comment are not a comment",
			sql:  "SELECT id FROM t /* -- */",
			want: "SELECT json_agg(row_to_json(t)) FROM (SELECT id FROM t /* -- */) t",
		},
		{
			name: "mutating statement is untouched",
			sql:  "UPDATE t SET x=1",
			want: "UPDATE t SET x=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.sql))
		})
	}
}
