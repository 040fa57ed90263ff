// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores the local executor's database DSN in the OS
// credential store (macOS Keychain, Windows Credential Manager, Secret Service
// or pass on Linux).
package keychain

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "sqlbridge"

// KeyDBDSN is the item holding the executor DSN.
const KeyDBDSN = "db_dsn"

// ErrNotFound is returned when no DSN has been saved.
var ErrNotFound = errors.New("no database connection saved")

var (
	globalManager *Manager
	mu            sync.Mutex
)

// Manager provides thread-safe access to the stored DSN.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// New wraps an already opened keyring.
func New(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the process-wide manager, opening the OS keyring on
// first use. A failed open is retried on the next call.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}
	ring, err := keyring.Open(keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: backends(runtime.GOOS),
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
		KeychainName:    "login",
	})
	if err != nil {
		return nil, fmt.Errorf("secure storage unavailable on %s: %w", runtime.GOOS, err)
	}
	globalManager = New(ring)
	return globalManager, nil
}

// backends lists the native credential stores tried for goos, in order.
// No file-based fallback is allowed.
func backends(goos string) []keyring.BackendType {
	switch goos {
	case "darwin":
		return []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		return []keyring.BackendType{keyring.WinCredBackend}
	default:
		return []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	}
}

// SaveDBDSN stores the database DSN.
func (m *Manager) SaveDBDSN(dsn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Set(keyring.Item{Key: KeyDBDSN, Data: []byte(dsn), Label: ServiceName + " database"})
}

// LoadDBDSN retrieves the database DSN. It returns ErrNotFound when none is saved.
func (m *Manager) LoadDBDSN() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyDBDSN)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNotFound
	}
	return string(it.Data), nil
}

// ClearDB removes the stored DSN. Removing a missing DSN is not an error.
func (m *Manager) ClearDB() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ring.Remove(KeyDBDSN); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
