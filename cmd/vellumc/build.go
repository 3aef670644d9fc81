package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vellum-lang/vellumc/internal/ast"
	"github.com/vellum-lang/vellumc/internal/diagnostics"
	"github.com/vellum-lang/vellumc/internal/driver"
	"github.com/vellum-lang/vellumc/internal/scope"
)

// sourceLoader is the seam the parser plugs into (§6.1: "the parser
// supplies..."). Lexing and parsing a source file into an *ast.Module is an
// external collaborator's responsibility, not this repository's; this
// loader reports that boundary rather than faking a parse.
type sourceLoader struct{}

func (sourceLoader) Load(path string) (*ast.Module, error) {
	return nil, fmt.Errorf("no parser is wired into this build: %s was never lexed into a module", path)
}

func targetFromFlag(s string) scope.Target {
	if s == "script" {
		return scope.TargetScript
	}
	return scope.TargetSystems
}

func profileFromFlag(s string) driver.BuildProfile {
	if s == "test" {
		return driver.ProfileTest
	}
	return driver.ProfileRelease
}

func build(stdout, stderr io.Writer, entry, target, outDir, profile string) {
	fmt.Fprintln(stdout, "building", entry, "...")

	d := driver.New(sourceLoader{})
	d.SetTarget(targetFromFlag(target))
	d.Profile = profileFromFlag(profile)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.Build(ctx, entry, outDir); err != nil {
		printBuildError(stderr, err)
		return
	}

	fmt.Fprintln(stdout, "wrote", outDir)
}

// printBuildError surfaces a diagnostics.Error the same way as any other
// error (§7: "the driver reports them to the user... no stack trace is
// required"), using its Message() when one is carried.
func printBuildError(stderr io.Writer, err error) {
	if de, ok := err.(diagnostics.Error); ok {
		fmt.Fprintln(stderr, de.Message())
		return
	}
	fmt.Fprintln(stderr, err.Error())
}
