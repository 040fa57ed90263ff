// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"errors"
	"os"
	"strings"
)

// DSNSource loads a saved DSN. *keychain.Manager satisfies it.
type DSNSource interface {
	LoadDBDSN() (string, error)
}

// ErrNoDSN is returned when no DSN is configured anywhere.
var ErrNoDSN = errors.New("no database connection configured; set SQLBRIDGE_DSN or run 'sqlbridge connect'")

// ResolveDSN picks the executor DSN from SQLBRIDGE_DSN, then DATABASE_URL,
// then saved. It also reports where the DSN came from.
func ResolveDSN(saved DSNSource) (dsn, source string, err error) {
	for _, env := range []string{"SQLBRIDGE_DSN", "DATABASE_URL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, env, nil
		}
	}
	if saved == nil {
		return "", "", ErrNoDSN
	}
	v, err := saved.LoadDBDSN()
	if err != nil || strings.TrimSpace(v) == "" {
		return "", "", ErrNoDSN
	}
	return strings.TrimSpace(v), "keychain", nil
}
