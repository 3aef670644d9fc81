package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/vellum-lang/vellumc/internal/emit"
	"github.com/vellum-lang/vellumc/internal/typeterm"
)

// writeSystemsProject writes one source file per §4.5.1's "one source file
// per compilation unit" plus the Cargo.toml-shaped manifest from §6.2.
func writeSystemsProject(outDir, stem, src string, out *emit.Output) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	srcPath := filepath.Join(outDir, stem+".rs")
	if err := os.WriteFile(srcPath, []byte(src), 0o644); err != nil {
		return errors.Wrap(err, "writing source file")
	}

	var deps strings.Builder
	writeDeps(&deps, out, func(v typeterm.T) bool {
		_, ok := typeterm.Degroup(v).(*typeterm.RustT)
		return ok
	})

	manifest := fmt.Sprintf("[package]\nname = %q\nedition = \"2021\"\n\n[dependencies]\n%s", stem, deps.String())
	return os.WriteFile(filepath.Join(outDir, "Cargo.toml"), []byte(manifest), 0o644)
}

// writeScriptProject writes the bundled module plus the package.json-shaped
// manifest from §6.2.
func writeScriptProject(outDir, stem, src string, out *emit.Output) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	srcPath := filepath.Join(outDir, stem+".js")
	if err := os.WriteFile(srcPath, []byte(src), 0o644); err != nil {
		return errors.Wrap(err, "writing source file")
	}

	var deps strings.Builder
	first := true
	writeDepsJSON(&deps, out, &first, func(v typeterm.T) bool {
		_, ok := typeterm.Degroup(v).(*typeterm.NodeT)
		return ok
	})

	manifest := fmt.Sprintf("{\n  \"name\": %q,\n  \"main\": %q,\n  \"dependencies\": {\n%s  }\n}\n", stem, stem+".js", deps.String())
	return os.WriteFile(filepath.Join(outDir, "package.json"), []byte(manifest), 0o644)
}

func writeDeps(buf *strings.Builder, out *emit.Output, match func(typeterm.T) bool) {
	iter := out.Deps.Iter()
	for ok := iter.First(); ok; ok = iter.Next() {
		name, v := iter.Key(), iter.Value()
		if !match(v) {
			continue
		}
		dep := unwrapDependency(v)
		if dep == nil {
			continue
		}
		fmt.Fprintf(buf, "%s = %q\n", name, dep.VersionOrURL.Value)
	}
}

func writeDepsJSON(buf *strings.Builder, out *emit.Output, first *bool, match func(typeterm.T) bool) {
	iter := out.Deps.Iter()
	for ok := iter.First(); ok; ok = iter.Next() {
		name, v := iter.Key(), iter.Value()
		if !match(v) {
			continue
		}
		dep := unwrapDependency(v)
		if dep == nil {
			continue
		}
		if !*first {
			buf.WriteString(",\n")
		}
		*first = false
		fmt.Fprintf(buf, "    %q: %q", name, dep.VersionOrURL.Value)
	}
	if !*first {
		buf.WriteString("\n")
	}
}

func unwrapDependency(t typeterm.T) *typeterm.DependencyT {
	switch v := typeterm.Degroup(t).(type) {
	case *typeterm.RustT:
		d, _ := typeterm.Degroup(v.Dep).(*typeterm.DependencyT)
		return d
	case *typeterm.NodeT:
		d, _ := typeterm.Degroup(v.Dep).(*typeterm.DependencyT)
		return d
	case *typeterm.DependencyT:
		return v
	default:
		return nil
	}
}
