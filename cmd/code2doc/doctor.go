package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	code2doc "github.com/alnah/go-code2doc"
	"github.com/alnah/go-code2doc/internal/fileutil"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Backends []string   `json:"backends"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// lookChrome locates a browser; replaced in tests.
var lookChrome = launcher.LookPath

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
//
// A missing browser is a warning rather than an error: the text backend
// still exports every format.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(env.Getenv)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(getenv func(string) string) *doctorResult {
	if getenv == nil {
		getenv = os.Getenv
	}
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  getenv("ROD_NO_SANDBOX"),
			BrowserBin: getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkEnvironment(result, getenv)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkChrome detects Chrome/Chromium and the backends it enables.
func checkChrome(result *doctorResult) {
	result.Backends = []string{code2doc.BackendText}

	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = lookChrome()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found. Install Chrome, set ROD_BROWSER_BIN, or use --rasterizer text")
			return
		}
	}

	if !fileutil.FileExists(chromePath) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Backends = append([]string{code2doc.BackendRod, code2doc.BackendChromedp}, result.Backends...)

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- detected browser path
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Chrome.Found && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("CODE2DOC_CONTAINER") == "1" {
		return true, "CODE2DOC_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for capture pages.
func checkSystem(result *doctorResult) {
	_, cleanup, err := fileutil.WriteTempFile("<!doctype html>", "html")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	cleanup()
	result.System.TempWritable = true
}

// Check levels shown by the human-readable report.
const (
	levelOK    = "OK"
	levelWarn  = "WARN"
	levelError = "ERROR"
)

// printCheck writes one indented "[LEVEL] message" line.
func printCheck(w io.Writer, level, format string, args ...any) {
	fmt.Fprintf(w, "  [%s] %s\n", level, fmt.Sprintf(format, args...))
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprint(w, "code2doc doctor\n\n")

	fmt.Fprintln(w, "Browser")
	switch {
	case !r.Chrome.Found:
		printCheck(w, levelWarn, "Chrome/Chromium: not found")
	case r.Chrome.Sandbox:
		printCheck(w, levelOK, "Chrome/Chromium: %s (sandbox enabled)", r.Chrome.Path)
	default:
		printCheck(w, levelOK, "Chrome/Chromium: %s (sandbox disabled)", r.Chrome.Path)
	}
	if r.Chrome.Version != "" {
		printCheck(w, levelOK, "Version: %s", r.Chrome.Version)
	}
	printCheck(w, levelOK, "Backends: %s", strings.Join(r.Backends, ", "))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	printCheck(w, levelOK, "Platform: %s/%s", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		printCheck(w, levelOK, "Container: %s", r.Env.ContainerHint)
	}
	if r.Env.CI {
		printCheck(w, levelOK, "CI: detected")
	}
	if r.System.TempWritable {
		printCheck(w, levelOK, "Temp directory: writable")
	} else {
		printCheck(w, levelError, "Temp directory: not writable")
	}
	fmt.Fprintln(w)

	for _, warn := range r.Warnings {
		printCheck(w, levelWarn, "%s", warn)
	}
	for _, err := range r.Errors {
		printCheck(w, levelError, "%s", err)
	}
	if len(r.Warnings)+len(r.Errors) > 0 {
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: ready to export")
	case statusWarnings:
		fmt.Fprintln(w, "Status: ready with warnings")
	default:
		fmt.Fprintln(w, "Status: not ready (see errors above)")
	}
}
