// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sqlexec is a local stand-in for the remote SQL executor. It runs
// statements over a pgx connection pool and answers invocations with the same
// nested, double-encoded envelope the remote service produces, so the bridge
// can be exercised end to end against a real PostgreSQL database.
package sqlexec

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
)

// Querier is the subset of *pgxpool.Pool the executor uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Response is the executor's inner body.
// Row statements carry a list of row objects in Result; other statements carry
// a CommandResult. Failures set Success to false and fill Error.
type Response struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CommandResult describes a statement that produced no result set.
type CommandResult struct {
	Command  string `json:"command"`
	RowCount int64  `json:"rowCount"`
}

// Executor executes SQL statements using a connection pool.
type Executor struct {
	db  Querier
	log *pterm.Logger
}

// New creates an Executor over db. A nil logger disables logging.
func New(db Querier, log *pterm.Logger) *Executor {
	if log == nil {
		log = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &Executor{db: db, log: log}
}

// Open creates a pgx pool for dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Run executes one statement. It never returns a Go error: failures are
// reported in the Response.
func (e *Executor) Run(ctx context.Context, sql string) Response {
	rows, err := e.db.Query(ctx, sql)
	if err != nil {
		e.log.Debug("statement failed", e.log.Args("error", err.Error()))
		return Response{Error: err.Error()}
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}

	out := make([]map[string]any, 0)
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return Response{Error: err.Error()}
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = jsonValue(vals[i])
		}
		out = append(out, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		e.log.Debug("statement failed", e.log.Args("error", err.Error()))
		return Response{Error: err.Error()}
	}

	if len(fds) == 0 {
		tag := rows.CommandTag()
		command, _, _ := strings.Cut(tag.String(), " ")
		return Response{Success: true, Result: CommandResult{Command: command, RowCount: tag.RowsAffected()}}
	}
	return Response{Success: true, Result: out}
}

// jsonValue converts pgx values that do not encode to useful JSON on their own.
func jsonValue(v any) any {
	switch t := v.(type) {
	case [16]byte:
		return uuid.UUID(t).String()
	case []byte:
		if len(t) == 16 {
			if id, err := uuid.FromBytes(t); err == nil {
				return id.String()
			}
		}
		return fmt.Sprintf("\\x%x", t)
	default:
		return v
	}
}
