package hcl_adapter

import (
	"testing"

	"github.com/specialistvlad/burstmatrix/internal/model"
	"github.com/specialistvlad/burstmatrix/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jobTestCase is a single scenario for decoding one `job` block.
type jobTestCase struct {
	Name string
	// HCL is the content of a whole workflow file.
	HCL         string
	ExpectErr   bool
	ErrContains string
	Validate    func(t *testing.T, def *model.Definition)
}

func runDecodeTests(t *testing.T, cases []jobTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			def, err := NewDecoder().Decode(ctx, "workflows/ci.hcl", []byte(testutil.Unindent(tc.HCL)))

			if tc.ExpectErr {
				require.Error(t, err, "Expected a decoding error, but got none")
				if tc.ErrContains != "" {
					require.Contains(t, err.Error(), tc.ErrContains)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, def)
			if tc.Validate != nil {
				tc.Validate(t, def)
			}
		})
	}
}

func TestDecode_Jobs(t *testing.T) {
	runDecodeTests(t, []jobTestCase{
		{
			Name: "full job",
			HCL: `
				workflow "ci" {
				  required_version = ">= 0.1.0"
				}

				job "cargo-test-linux" {
				  platform  = "ubuntu-latest"
				  fail_fast = false
				  env = {
				    RUST_BACKTRACE = "1"
				  }

				  matrix {
				    features = ["--all-features", "--no-default-features --lib"]
				  }

				  cache {
				    key   = "cargo"
				    paths = ["~/.cargo/registry", "target"]
				  }

				  step "checkout" {
				    uses = "actions/checkout@v4"
				    with = { "fetch-depth" = "0" }
				  }

				  step "test" {
				    run = "cargo test"
				    env = { CARGO_TERM_COLOR = "always" }
				  }
				}
			`,
			Validate: func(t *testing.T, def *model.Definition) {
				require.Equal(t, "ci", def.Name)
				require.Equal(t, ">= 0.1.0", def.RequiredVersion)
				require.Len(t, def.Jobs, 1)

				job := def.Jobs[0]
				assert.Equal(t, "cargo-test-linux", job.Name)
				assert.Equal(t, "ubuntu-latest", job.Platform)
				assert.Empty(t, job.PlatformAxis)
				assert.False(t, job.FailFast)
				assert.Equal(t, map[string]string{"RUST_BACKTRACE": "1"}, job.Env)
				assert.Equal(t, "workflows/ci.hcl", job.Source())

				require.NotNil(t, job.Matrix)
				assert.Equal(t, []model.Axis{
					{Name: "features", Values: []string{"--all-features", "--no-default-features --lib"}},
				}, job.Matrix.Axes)

				assert.Equal(t, &model.Cache{Key: "cargo", Paths: []string{"~/.cargo/registry", "target"}}, job.Cache)

				require.Len(t, job.Steps, 2)
				assert.Equal(t, "checkout", job.Steps[0].Name)
				assert.Equal(t, "actions/checkout@v4", job.Steps[0].Uses)
				assert.Equal(t, "0", job.Steps[0].With["fetch-depth"])
				assert.Equal(t, "cargo test", job.Steps[1].Run)
				assert.Equal(t, "always", job.Steps[1].Env["CARGO_TERM_COLOR"])
			},
		},
		{
			Name: "defaults",
			HCL: `
				job "fmt" {
				  platform = "linux"
				}
			`,
			Validate: func(t *testing.T, def *model.Definition) {
				require.Empty(t, def.Name)
				job := def.Jobs[0]
				assert.True(t, job.FailFast)
				assert.Nil(t, job.Matrix)
				assert.Nil(t, job.Cache)
				assert.Empty(t, job.Steps)
			},
		},
		{
			Name: "missing platform decodes to empty",
			HCL:  `job "fmt" {}`,
			Validate: func(t *testing.T, def *model.Definition) {
				assert.Empty(t, def.Jobs[0].Platform)
			},
		},
		{
			Name: "jobs keep declaration order",
			HCL: `
				job "c" { platform = "linux" }
				job "a" { platform = "linux" }
				job "b" { platform = "linux" }
			`,
			Validate: func(t *testing.T, def *model.Definition) {
				var names []string
				for _, j := range def.Jobs {
					names = append(names, j.Name)
				}
				assert.Equal(t, []string{"c", "a", "b"}, names)
			},
		},
		{
			Name: "two workflow blocks",
			HCL: `
				workflow "a" {}
				workflow "b" {}
			`,
			ExpectErr:   true,
			ErrContains: "only one \"workflow\" block",
		},
		{
			Name:        "unknown block",
			HCL:         `pipeline "x" {}`,
			ExpectErr:   true,
			ErrContains: "failed to decode HCL file",
		},
		{
			Name:        "syntax error",
			HCL:         `job "x" {`,
			ExpectErr:   true,
			ErrContains: "failed to parse HCL file",
		},
	})
}

func TestDecode_Matrix(t *testing.T) {
	runDecodeTests(t, []jobTestCase{
		{
			Name: "axes keep source order",
			HCL: `
				job "test" {
				  platform = "linux"
				  matrix {
				    toolchain = ["stable", "nightly"]
				    features  = ["--all-features"]
				    arch      = ["x86_64", "aarch64"]
				  }
				}
			`,
			Validate: func(t *testing.T, def *model.Definition) {
				var names []string
				for _, a := range def.Jobs[0].Matrix.Axes {
					names = append(names, a.Name)
				}
				assert.Equal(t, []string{"toolchain", "features", "arch"}, names)
			},
		},
		{
			Name: "primitive values become strings",
			HCL: `
				job "test" {
				  platform = "linux"
				  matrix {
				    rust = [1.80, 2]
				    lto  = [true, false]
				  }
				}
			`,
			Validate: func(t *testing.T, def *model.Definition) {
				axes := def.Jobs[0].Matrix.Axes
				assert.Equal(t, []string{"1.8", "2"}, axes[0].Values)
				assert.Equal(t, []string{"true", "false"}, axes[1].Values)
			},
		},
		{
			Name: "empty axis is kept for validation",
			HCL: `
				job "test" {
				  platform = "linux"
				  matrix {
				    features = []
				  }
				}
			`,
			Validate: func(t *testing.T, def *model.Definition) {
				axes := def.Jobs[0].Matrix.Axes
				require.Len(t, axes, 1)
				assert.Empty(t, axes[0].Values)
			},
		},
		{
			Name: "duplicate values are kept",
			HCL: `
				job "test" {
				  platform = "linux"
				  matrix {
				    v = ["x", "x"]
				  }
				}
			`,
			Validate: func(t *testing.T, def *model.Definition) {
				assert.Equal(t, []string{"x", "x"}, def.Jobs[0].Matrix.Axes[0].Values)
			},
		},
		{
			Name: "exclude blocks",
			HCL: `
				job "test" {
				  platform = "linux"
				  matrix {
				    os       = ["a", "b"]
				    features = ["x", "y"]

				    exclude {
				      os       = "a"
				      features = "y"
				    }
				    exclude {
				      os = "b"
				    }
				  }
				}
			`,
			Validate: func(t *testing.T, def *model.Definition) {
				m := def.Jobs[0].Matrix
				require.Len(t, m.Axes, 2)
				assert.Equal(t, []model.Exclusion{
					{"os": "a", "features": "y"},
					{"os": "b"},
				}, m.Exclude)
			},
		},
		{
			Name: "exclude between axes",
			HCL: `
				job "test" {
				  platform = matrix.os
				  matrix {
				    os = ["ubuntu-latest", "windows-latest"]
				    exclude {
				      os       = "windows-latest"
				      features = "--all-features"
				    }
				    features = ["--all-features", "--no-default-features --lib"]
				  }
				}
			`,
			Validate: func(t *testing.T, def *model.Definition) {
				m := def.Jobs[0].Matrix
				assert.Equal(t, []model.Axis{
					{Name: "os", Values: []string{"ubuntu-latest", "windows-latest"}},
					{Name: "features", Values: []string{"--all-features", "--no-default-features --lib"}},
				}, m.Axes)
				assert.Equal(t, []model.Exclusion{{"os": "windows-latest", "features": "--all-features"}}, m.Exclude)
			},
		},
		{
			Name: "unknown block inside matrix",
			HCL: `
				job "test" {
				  platform = "linux"
				  matrix {
				    v = ["a"]
				    include {
				      v = "b"
				    }
				  }
				}
			`,
			ExpectErr:   true,
			ErrContains: "Blocks are not allowed here",
		},
		{
			Name: "labeled exclude block",
			HCL: `
				job "test" {
				  platform = "linux"
				  matrix {
				    v = ["a"]
				    exclude "x" {
				      v = "a"
				    }
				  }
				}
			`,
			ExpectErr: true,
		},
		{
			Name: "platform from axis",
			HCL: `
				job "test" {
				  platform = matrix.os
				  matrix {
				    os = ["ubuntu-latest", "windows-latest"]
				  }
				}
			`,
			Validate: func(t *testing.T, def *model.Definition) {
				job := def.Jobs[0]
				assert.Empty(t, job.Platform)
				assert.Equal(t, "os", job.PlatformAxis)
			},
		},
		{
			Name: "platform from indexed axis",
			HCL: `
				job "test" {
				  platform = matrix["os"]
				  matrix {
				    os = ["ubuntu-latest"]
				  }
				}
			`,
			Validate: func(t *testing.T, def *model.Definition) {
				assert.Equal(t, "os", def.Jobs[0].PlatformAxis)
			},
		},
		{
			Name: "platform reference too deep",
			HCL: `
				job "test" {
				  platform = matrix.os.name
				}
			`,
			ExpectErr:   true,
			ErrContains: "Invalid platform reference",
		},
		{
			Name: "axis is not a list",
			HCL: `
				job "test" {
				  platform = "linux"
				  matrix {
				    features = "--all-features"
				  }
				}
			`,
			ExpectErr:   true,
			ErrContains: "must be a list of values",
		},
		{
			Name: "axis value is an object",
			HCL: `
				job "test" {
				  platform = "linux"
				  matrix {
				    target = [{ triple = "x86_64" }]
				  }
				}
			`,
			ExpectErr:   true,
			ErrContains: "Invalid matrix value",
		},
		{
			Name: "axis value is null",
			HCL: `
				job "test" {
				  platform = "linux"
				  matrix {
				    v = ["a", null]
				  }
				}
			`,
			ExpectErr:   true,
			ErrContains: "must not be null",
		},
		{
			Name: "exclude value is a list",
			HCL: `
				job "test" {
				  platform = "linux"
				  matrix {
				    v = ["a"]
				    exclude {
				      v = ["a"]
				    }
				  }
				}
			`,
			ExpectErr:   true,
			ErrContains: "Invalid exclude value",
		},
	})
}
