package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vellum-lang/vellumc/internal/emit"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

func TestWriteSystemsProject_WritesSourceAndManifest(t *testing.T) {
	dir := t.TempDir()
	out := emit.NewOutput()
	out.Deps.Set("serde", &typeterm.RustT{Dep: &typeterm.DependencyT{
		Name: typeterm.StringT{Value: "serde"}, VersionOrURL: typeterm.StringT{Value: "1.0"},
	}})

	require.NoError(t, writeSystemsProject(dir, "prog", "fn main() {}\n", out))

	src, err := os.ReadFile(filepath.Join(dir, "prog.rs"))
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}\n", string(src))

	manifest, err := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `name = "prog"`)
	assert.Contains(t, string(manifest), `serde = "1.0"`)
}

func TestWriteSystemsProject_IgnoresNonRustDeps(t *testing.T) {
	dir := t.TempDir()
	out := emit.NewOutput()
	out.Deps.Set("lodash", &typeterm.NodeT{Dep: &typeterm.DependencyT{
		Name: typeterm.StringT{Value: "lodash"}, VersionOrURL: typeterm.StringT{Value: "4.0"},
	}})

	require.NoError(t, writeSystemsProject(dir, "prog", "", out))
	manifest, err := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	require.NoError(t, err)
	assert.NotContains(t, string(manifest), "lodash")
}

func TestWriteScriptProject_WritesSourceAndManifest(t *testing.T) {
	dir := t.TempDir()
	out := emit.NewOutput()
	out.Deps.Set("lodash", &typeterm.NodeT{Dep: &typeterm.DependencyT{
		Name: typeterm.StringT{Value: "lodash"}, VersionOrURL: typeterm.StringT{Value: "4.0"},
	}})

	require.NoError(t, writeScriptProject(dir, "prog", "async function main() {}\n", out))

	src, err := os.ReadFile(filepath.Join(dir, "prog.js"))
	require.NoError(t, err)
	assert.Equal(t, "async function main() {}\n", string(src))

	manifest, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"name": "prog"`)
	assert.Contains(t, string(manifest), `"lodash": "4.0"`)
}

func TestWriteScriptProject_EmptyDepsHasNoTrailingComma(t *testing.T) {
	dir := t.TempDir()
	out := emit.NewOutput()
	require.NoError(t, writeScriptProject(dir, "prog", "", out))
	manifest, err := os.ReadFile(filepath.Join(dir, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"dependencies": {`)
	assert.NotContains(t, string(manifest), ",\n  }")
}

func TestUnwrapDependency_RustAndNodeAndBare(t *testing.T) {
	dep := &typeterm.DependencyT{Name: typeterm.StringT{Value: "x"}, VersionOrURL: typeterm.StringT{Value: "1"}}

	got := unwrapDependency(&typeterm.RustT{Dep: dep})
	require.NotNil(t, got)
	assert.Equal(t, "x", got.Name.Value)

	got = unwrapDependency(&typeterm.NodeT{Dep: dep})
	require.NotNil(t, got)
	assert.Equal(t, "x", got.Name.Value)

	got = unwrapDependency(dep)
	require.NotNil(t, got)

	assert.Nil(t, unwrapDependency(&typeterm.TypeT{Name: "i32"}))
}
