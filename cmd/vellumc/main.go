package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	buildCmd := flag.NewFlagSet("build", flag.ExitOnError)
	target := buildCmd.String("target", "systems", "output target: systems or script")
	outDir := buildCmd.String("out", "build", "output directory")
	profile := buildCmd.String("profile", "release", "build profile: release or test")

	if len(os.Args) < 2 {
		fmt.Println("expected 'build' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		if err := buildCmd.Parse(os.Args[2:]); err != nil {
			fmt.Println("failed to parse build command")
			os.Exit(1)
		}
		if buildCmd.NArg() != 1 {
			fmt.Println("expected exactly one entry file")
			os.Exit(1)
		}
		build(os.Stdout, os.Stderr, buildCmd.Arg(0), *target, *outDir, *profile)
	default:
		fmt.Println("expected 'build' subcommand")
		os.Exit(1)
	}
}
