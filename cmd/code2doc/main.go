package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdExport  = "export"
	cmdThemes  = "themes"
	cmdDoctor  = "doctor"
	cmdVersion = "version"
	cmdHelp    = "help"
)

func main() {
	env := DefaultEnv()
	setMaxProcs(os.Args[1:], env.Stderr)
	os.Exit(runMain(os.Args, env))
}

// runMain dispatches args[1:] and returns the process exit code.
// Without a known command name, the arguments are handed to export.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch strings.ToLower(cmd) {
	case cmdHelp, "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "code2doc %s\n", resolveVersion())
		return ExitSuccess
	case cmdThemes:
		printThemes(env.Stdout)
		return ExitSuccess
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdExport:
	default:
		rest = args[1:]
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := runExport(ctx, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	}
	return exitCodeFor(err)
}

// setMaxProcs aligns GOMAXPROCS with the container CPU quota, logging the
// change only with --verbose. An invalid GOMAXPROCS env leaves the runtime
// default in place.
func setMaxProcs(args []string, w io.Writer) {
	verbose := false
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			verbose = true
		}
	}

	logf := func(string, ...interface{}) {}
	if verbose {
		logf = func(format string, a ...interface{}) {
			fmt.Fprintf(w, format+"\n", a...)
		}
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logf))
}

// resolveVersion prefers the ldflags value, then module build info.
func resolveVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
