// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "url with password", dsn: "postgres://app:s3cret@db:5432/app?sslmode=disable", want: "postgres://app:xxxxx@db:5432/app?sslmode=disable"},
		{name: "url without password", dsn: "postgres://app@db/app", want: "postgres://app@db/app"},
		{name: "executor endpoint", dsn: "http://127.0.0.1:8090/invoke", want: "http://127.0.0.1:8090/invoke"},
		{name: "unparsable url", dsn: "postgres://app:p%zz@db/app", want: "postgres://app:***@db/app"},
		{name: "keyword form", dsn: "host=db user=app", want: "host=db user=app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskPassword(tt.dsn))
		})
	}
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"SQLBRIDGE_ENDPOINT", "SQLBRIDGE_FUNCTION", "SQLBRIDGE_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())

	cmd := execCmd
	require.NoError(t, cmd.ParseFlags([]string{"--endpoint", "https://exec.example.com/invoke", "--function", "prod-sql"}))
	t.Cleanup(func() { flagEndpoint, flagFunction = "", "" })

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "https://exec.example.com/invoke", cfg.Bridge.Endpoint)
	assert.Equal(t, "prod-sql", cfg.Bridge.FunctionName)
}

func TestStartInlineSpinnerClearsLine(t *testing.T) {
	var buf bytes.Buffer
	stop := startInlineSpinner(&buf, "working", spinnerFrames, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	stop()
	stop()

	out := buf.String()
	assert.Contains(t, out, "working")
	assert.True(t, strings.HasSuffix(out, "\r"), "spinner must leave the cursor at the start of a blank line")
}
