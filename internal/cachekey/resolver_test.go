package cachekey

import (
	"strings"
	"testing"

	"github.com/specialistvlad/burstmatrix/internal/matrix"
	"github.com/specialistvlad/burstmatrix/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instance(platform string, pairs ...string) model.JobInstance {
	inst := model.JobInstance{Job: "j", Platform: platform, Assignment: model.Assignment{}}
	for i := 0; i < len(pairs); i += 2 {
		inst.Assignment = append(inst.Assignment, model.AxisValue{Axis: pairs[i], Value: pairs[i+1]})
	}
	return inst
}

func TestResolve_Format(t *testing.T) {
	r := NewResolver()
	assert.Equal(t, Key("ubuntu-latest"), r.Resolve(instance("ubuntu-latest"), nil))
	assert.Equal(t,
		Key("ubuntu-latest/features=--no-default-features+--lib"),
		r.Resolve(instance("ubuntu-latest", "features", "--no-default-features --lib"), nil),
	)

	r = NewResolver(WithPrefix("v1"))
	assert.Equal(t,
		Key("v1/cargo/windows-latest/os=win/toolchain=stable"),
		r.Resolve(instance("windows-latest", "os", "win", "toolchain", "stable"), &model.Cache{Key: "cargo"}),
	)
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver(WithPrefix("v2"))
	inst := instance("macos-latest", "features", "--all-features", "rust", "1.80")
	first := r.Resolve(inst, nil)
	for range 10 {
		require.Equal(t, first, r.Resolve(inst, nil))
		require.Equal(t, first, NewResolver(WithPrefix("v2")).Resolve(instance("macos-latest", "features", "--all-features", "rust", "1.80"), nil))
	}
	require.Equal(t, first.Digest(), r.Resolve(inst, nil).Digest())
	require.Len(t, first.Digest(), 64)
}

func TestResolve_Separation(t *testing.T) {
	r := NewResolver()
	base := instance("ubuntu-latest", "features", "--all-features", "rust", "stable")

	variants := []model.JobInstance{
		instance("windows-latest", "features", "--all-features", "rust", "stable"),
		instance("ubuntu-latest", "features", "--lib", "rust", "stable"),
		instance("ubuntu-latest", "features", "--all-features", "rust", "nightly"),
	}
	for _, v := range variants {
		assert.NotEqual(t, r.Resolve(base, nil), r.Resolve(v, nil), "variant %s", v.Assignment)
		assert.NotEqual(t, r.Resolve(base, nil).Digest(), r.Resolve(v, nil).Digest())
	}
}

func TestResolve_DelimiterInValuesStaysInjective(t *testing.T) {
	r := NewResolver()
	a := instance("linux", "x", "a/b", "y", "c")
	b := instance("linux", "x", "a", "y", "b/c")
	c := instance("linux", "x", "a=y", "y", "c")
	d := instance("linux", "x", "a", "y=c", "c")

	keys := map[Key]struct{}{}
	for _, inst := range []model.JobInstance{a, b, c, d} {
		keys[r.Resolve(inst, nil)] = struct{}{}
	}
	require.Len(t, keys, 4)
	for k := range keys {
		require.Equal(t, 3, len(strings.Split(string(k), Delimiter)), "key %q", k)
	}
}

func TestResolve_CargoTestScenario(t *testing.T) {
	job := model.Job{
		Name:     "cargo-test-linux",
		Platform: "ubuntu-latest",
		Matrix: &model.Matrix{Axes: []model.Axis{
			{Name: "features", Values: []string{"--all-features", "--no-default-features --lib"}},
		}},
	}
	instances := matrix.Expand(job)
	require.Len(t, instances, 2)

	r := NewResolver()
	k0 := r.Resolve(instances[0], job.Cache)
	k1 := r.Resolve(instances[1], job.Cache)
	require.NotEqual(t, k0, k1)

	// Both keys share everything up to the features segment.
	p0 := strings.LastIndex(string(k0), Delimiter)
	p1 := strings.LastIndex(string(k1), Delimiter)
	require.Equal(t, string(k0)[:p0], string(k1)[:p1])
	require.Equal(t, "features=--all-features", string(k0)[p0+1:])
	require.Equal(t, "features=--no-default-features+--lib", string(k1)[p1+1:])
}

func TestRestoreKeys(t *testing.T) {
	r := NewResolver(WithPrefix("v1"))
	inst := instance("linux", "os", "a", "features", "x")

	restore := r.RestoreKeys(inst, nil)
	require.Equal(t, []string{"v1/linux/os=a/", "v1/linux/"}, restore)

	key := string(r.Resolve(inst, nil))
	for _, prefix := range restore {
		require.True(t, strings.HasPrefix(key, prefix))
	}

	require.Empty(t, r.RestoreKeys(instance("linux"), nil))
}
