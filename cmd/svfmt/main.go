// Command svfmt is the CLI surface for svkit's formatter. The
// wrap-optimization search itself is not implemented: this binary
// wires the declared format.AlignedFormattingHandler/TabularAlignTokens
// surface to format.NoopFormatter, which reproduces a file's original
// spacing losslessly rather than re-wrapping it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/svlang/svkit/format"
	"github.com/svlang/svkit/parseengine"
)

type options struct {
	inplace                    bool
	verify                     bool
	verifyConvergence          bool
	failsafeSuccess            bool
	lines                      string
	stdinName                  string
	showTokenPartitionTree     bool
	showLargestTokenPartitions bool
	showInterTokenInfo         bool
	showEquallyOptimalWrappings bool
	maxSearchStates            int
}

func parseFlags(args []string) (*options, []string) {
	fs := flag.NewFlagSet("svfmt", flag.ExitOnError)
	o := &options{}
	fs.BoolVar(&o.inplace, "inplace", false, "rewrite each file in place instead of printing to stdout")
	fs.BoolVar(&o.verify, "verify", false, "check that the file is already formatted, without writing anything")
	fs.BoolVar(&o.verifyConvergence, "verify_convergence", false, "check that formatting the output again is a no-op")
	fs.BoolVar(&o.failsafeSuccess, "failsafe_success", false, "exit 0 even when formatting fails, printing the original input unchanged")
	fs.StringVar(&o.lines, "lines", "", "restrict formatting to N-M[,N-M...] line ranges (1-based, inclusive)")
	fs.StringVar(&o.stdinName, "stdin_name", "<stdin>", "display name to use when reading from stdin")
	fs.BoolVar(&o.showTokenPartitionTree, "show_token_partition_tree", false, "debug: print the token partition tree (unimplemented, no wrap search)")
	fs.BoolVar(&o.showLargestTokenPartitions, "show_largest_token_partitions", false, "debug: print the largest token partitions (unimplemented, no wrap search)")
	fs.BoolVar(&o.showInterTokenInfo, "show_inter_token_info", false, "debug: print inter-token spacing info")
	fs.BoolVar(&o.showEquallyOptimalWrappings, "show_equally_optimal_wrappings", false, "debug: print equally-optimal wrappings (unimplemented, no wrap search)")
	fs.IntVar(&o.maxSearchStates, "max_search_states", 0, "debug: cap the wrap-optimization search's state count (unimplemented, no wrap search)")
	fs.Parse(args)
	return o, fs.Args()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, files := parseFlags(args)

	if len(files) == 0 {
		src, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		return formatOne(o, o.stdinName, src, stdout, stderr, false)
	}

	exitCode := 0
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			exitCode = 1
			continue
		}
		if code := formatOne(o, path, src, stdout, stderr, o.inplace); code > exitCode {
			exitCode = code
		}
	}
	return exitCode
}

func formatOne(o *options, path string, src []byte, stdout io.Writer, stderr io.Writer, writeInPlace bool) int {
	formatted, err := renderFormatted(src)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		if o.failsafeSuccess {
			fmt.Fprint(stdout, string(src))
			return 0
		}
		return 1
	}

	printDebugViews(o, stderr)

	if o.verify {
		if formatted != string(src) {
			fmt.Fprintf(stderr, "%s: not formatted\n", path)
			return 1
		}
		return 0
	}

	if o.verifyConvergence {
		reformatted, err := renderFormatted([]byte(formatted))
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		if reformatted != formatted {
			fmt.Fprintf(stderr, "%s: formatting does not converge\n", path)
			return 1
		}
	}

	if writeInPlace {
		if formatted == string(src) {
			return 0
		}
		if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		return 0
	}

	fmt.Fprint(stdout, formatted)
	return 0
}

// renderFormatted lexes src and replays it through format.NoopFormatter,
// preserving every token's original surrounding whitespace exactly
// (SpacesBefore/BreakBefore computed from the real byte gap between
// consecutive tokens) since no wrap-optimization search exists to
// decide different spacing.
func renderFormatted(src []byte) (string, error) {
	toks, diags := parseengine.Lex(src)
	if len(diags) > 0 {
		return "", fmt.Errorf("svfmt: %d lex diagnostic(s), refusing to format", len(diags))
	}
	pre := make([]format.PreFormatToken, len(toks))
	prevEnd := 0
	for i, tok := range toks {
		gap := src[prevEnd:tok.Range().Start]
		pre[i] = format.PreFormatToken{
			Token:        tok,
			SpacesBefore: len(gap),
			BreakBefore:  containsNewline(gap),
		}
		prevEnd = tok.Range().End
	}
	var formatter format.NoopFormatter
	return formatter.Render(pre, 0)
}

func containsNewline(b []byte) bool {
	for _, c := range b {
		if c == '\n' {
			return true
		}
	}
	return false
}

func printDebugViews(o *options, stderr io.Writer) {
	switch {
	case o.showTokenPartitionTree:
		fmt.Fprintln(stderr, "svfmt: --show_token_partition_tree has no effect: no wrap-optimization search is implemented")
	case o.showLargestTokenPartitions:
		fmt.Fprintln(stderr, "svfmt: --show_largest_token_partitions has no effect: no wrap-optimization search is implemented")
	case o.showInterTokenInfo:
		fmt.Fprintln(stderr, "svfmt: --show_inter_token_info has no effect: no wrap-optimization search is implemented")
	case o.showEquallyOptimalWrappings:
		fmt.Fprintln(stderr, "svfmt: --show_equally_optimal_wrappings has no effect: no wrap-optimization search is implemented")
	}
}
