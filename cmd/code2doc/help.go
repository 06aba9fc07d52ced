package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-code2doc/internal/pipeline"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: code2doc <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export source files to PDF, Word, text, or HTML (default)")
	fmt.Fprintln(w, "  themes     List syntax themes")
	fmt.Fprintln(w, "  doctor     Check browser and system setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'code2doc help <command>' for details on a specific command.")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: code2doc export <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export source files as documents.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File, directory, or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to each file)")
	fmt.Fprintln(w, "  -f, --format <s>          Format: pdf, docx, txt, html")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -m, --markup <s>          Render input instead of listing it: html, markdown")
	fmt.Fprintln(w, "      --name <s>            File name for stdin content")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Title (\"\" = file name stem)")
	fmt.Fprintln(w, "  -a, --author <s>          Author shown in the header")
	fmt.Fprintln(w, "  -l, --language <s>        Language tag (\"\" = from extension)")
	fmt.Fprintln(w, "      --date-format <s>     Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "                            Use [text] to escape literals: [Date]: YYYY")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "  -r, --rasterizer <s>      Backend: rod, chromedp, text")
	fmt.Fprintln(w, "      --theme <s>           Syntax theme (see 'code2doc themes')")
	fmt.Fprintln(w, "  -n, --line-numbers        Show line numbers")
	fmt.Fprintln(w, "      --font-size <n>       Code font size in pixels (6-72)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --load-timeout <d>    Page load wait before capture (e.g., 1s)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom templates and stylesheets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  CODE2DOC_CONFIG, CODE2DOC_FORMAT, CODE2DOC_THEME, CODE2DOC_RASTERIZER,")
	fmt.Fprintln(w, "  CODE2DOC_TIMEOUT, CODE2DOC_OUTPUT_DIR, CODE2DOC_AUTHOR, CODE2DOC_WORKERS")
}

// printThemes lists the accepted theme names.
func printThemes(w io.Writer) {
	for _, name := range pipeline.ThemeNames() {
		if name == pipeline.DefaultTheme {
			fmt.Fprintf(w, "%s (default)\n", name)
			continue
		}
		fmt.Fprintln(w, name)
	}
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch strings.ToLower(args[0]) {
	case cmdExport:
		printExportUsage(env.Stdout)
	case cmdThemes:
		fmt.Fprintln(env.Stdout, "Usage: code2doc themes")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List syntax themes accepted by --theme.")
	case cmdDoctor:
		fmt.Fprintln(env.Stdout, "Usage: code2doc doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check browser availability and system setup.")
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: code2doc version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: code2doc help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
