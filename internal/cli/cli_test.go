package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/burstmatrix/internal/app"
	"github.com/specialistvlad/burstmatrix/internal/dispatch"
	"github.com/specialistvlad/burstmatrix/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		wantExit   bool
		wantCode   int
		wantOutput string
		validate   func(t *testing.T, cfg *app.Config)
	}{
		{
			name: "positional path with defaults",
			args: []string{"ci"},
			validate: func(t *testing.T, cfg *app.Config) {
				assert.Equal(t, []string{"ci"}, cfg.WorkflowPaths)
				assert.Equal(t, "text", cfg.Format)
				assert.Equal(t, "text", cfg.LogFormat)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Empty(t, cfg.Platforms)
				assert.Nil(t, cfg.Dispatch)
			},
		},
		{
			name: "flag path and extra positional paths",
			args: []string{"-w", "ci.hcl", "more", "extra.yml"},
			validate: func(t *testing.T, cfg *app.Config) {
				assert.Equal(t, []string{"ci.hcl", "more", "extra.yml"}, cfg.WorkflowPaths)
			},
		},
		{
			name: "long flag wins over shorthand",
			args: []string{"-workflow", "a", "-w", "b"},
			validate: func(t *testing.T, cfg *app.Config) {
				assert.Equal(t, []string{"a"}, cfg.WorkflowPaths)
			},
		},
		{
			name: "options",
			args: []string{
				"-format", "JSON", "-log-format", "json", "-log-level", "DEBUG",
				"-platforms", "self-hosted, arm64 ,,", "-cache-prefix", "v2", "ci",
			},
			validate: func(t *testing.T, cfg *app.Config) {
				assert.Equal(t, "json", cfg.Format)
				assert.Equal(t, "json", cfg.LogFormat)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, []string{"self-hosted", "arm64"}, cfg.Platforms)
				assert.Equal(t, "v2", cfg.CachePrefix)
			},
		},
		{
			name: "dispatch",
			args: []string{
				"-dispatch-url", "https://orchestrator:3000/socket.io/", "-dispatch-namespace", "/ci",
				"-dispatch-timeout", "3s", "-dispatch-retries", "1", "-dispatch-insecure", "ci",
			},
			validate: func(t *testing.T, cfg *app.Config) {
				require.NotNil(t, cfg.Dispatch)
				assert.Equal(t, dispatch.Config{
					URL:                "https://orchestrator:3000/socket.io/",
					Namespace:          "/ci",
					Event:              dispatch.DefaultEvent,
					AckEvent:           dispatch.DefaultAckEvent,
					Timeout:            3 * time.Second,
					InsecureSkipVerify: true,
					MaxRetries:         1,
				}, *cfg.Dispatch)
			},
		},
		{name: "no path prints usage", args: nil, wantExit: true, wantOutput: "Usage:"},
		{name: "help", args: []string{"-h"}, wantExit: true, wantOutput: "Usage:"},
		{name: "version", args: []string{"-version"}, wantExit: true, wantOutput: "burstmatrix " + model.EngineVersion},
		{name: "unknown flag", args: []string{"-nope"}, wantCode: 2},
		{name: "invalid format", args: []string{"-format", "yaml", "ci"}, wantCode: 2},
		{name: "invalid log level", args: []string{"-log-level", "trace", "ci"}, wantCode: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(tc.args, out)

			if tc.wantCode != 0 {
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %v", err)
				assert.Equal(t, tc.wantCode, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, shouldExit)
			if tc.wantOutput != "" {
				assert.Contains(t, out.String(), tc.wantOutput)
			}
			if tc.validate != nil {
				require.NotNil(t, cfg)
				tc.validate(t, cfg)
			}
		})
	}
}
