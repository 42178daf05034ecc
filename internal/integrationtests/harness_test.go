package integrationtests

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/burstmatrix/internal/app"
	"github.com/specialistvlad/burstmatrix/internal/config"
	"github.com/specialistvlad/burstmatrix/internal/hcl_adapter"
	"github.com/specialistvlad/burstmatrix/internal/plan"
	"github.com/specialistvlad/burstmatrix/internal/testutil"
	"github.com/specialistvlad/burstmatrix/internal/yaml_adapter"
	"github.com/stretchr/testify/require"
)

// runResult holds everything a scenario may assert on.
type runResult struct {
	Plan      *plan.Plan
	Output    string
	LogOutput string
	Err       error
}

// runIntegrationTest writes files into an in-memory tree rooted at "ci",
// then builds and renders the plan the way the binary does.
func runIntegrationTest(t *testing.T, files map[string]string, cfg app.Config) runResult {
	t.Helper()

	if cfg.WorkflowPaths == nil {
		cfg.WorkflowPaths = []string{"ci"}
	}
	cfg.LogLevel = "debug"
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	loader := config.NewLoader(testutil.MemFS(t, files), hcl_adapter.NewDecoder(), yaml_adapter.NewDecoder())
	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}

	a, err := app.NewApp(out, logs, appConfig, loader)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("BMX_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	p, err := a.Plan(context.Background())
	if err == nil {
		err = plan.Render(out, p, appConfig.Format)
	}
	return runResult{Plan: p, Output: out.String(), LogOutput: logs.String(), Err: err}
}

// instanceView is the comparable part of a planned instance.
type instanceView struct {
	Name     string
	Platform string
	Key      string
}

func instances(p *plan.Plan, job string) []instanceView {
	var out []instanceView
	for _, jp := range p.Jobs {
		if jp.Job != job {
			continue
		}
		for _, inst := range jp.Instances {
			out = append(out, instanceView{Name: inst.Name, Platform: inst.Platform, Key: inst.CacheKey.String()})
		}
	}
	return out
}
