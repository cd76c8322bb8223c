// Command svlint is the CLI surface for svkit's lint engine: run
// every enabled rule over a list of source files, print violations,
// and optionally drive the autofix/waiver workflow.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/svlang/svkit/config"
	"github.com/svlang/svkit/diag"
	"github.com/svlang/svkit/lint"
	"github.com/svlang/svkit/lint/rules"
	"github.com/svlang/svkit/parseengine"
	"github.com/svlang/svkit/project"
	"github.com/svlang/svkit/symtab"
	"github.com/svlang/svkit/violation"
)

// options is the flag surface gathered into one struct, in the
// teacher's small-purpose-built-config-struct style rather than a
// reflection-based flag library.
type options struct {
	checkSyntax         bool
	parseFatal          bool
	lintFatal           bool
	helpRules           string
	generateMarkdown    bool
	printRulesFile      bool
	showDiagnosticCtx   bool
	autofix             string
	autofixOutputFile   string
	ruleset             string
	rules               string
	rulesConfig         string
	rulesConfigSearch   bool
	waiverFiles         string
}

func parseFlags(args []string) (*options, []string) {
	fs := flag.NewFlagSet("svlint", flag.ExitOnError)
	o := &options{}
	fs.BoolVar(&o.checkSyntax, "check_syntax", false, "only lex/parse, report syntax errors, skip lint rules")
	fs.BoolVar(&o.parseFatal, "parse_fatal", false, "treat a parse failure as a fatal error (exit 2)")
	fs.BoolVar(&o.lintFatal, "lint_fatal", false, "treat any lint violation as a fatal error (exit 1)")
	fs.StringVar(&o.helpRules, "help_rules", "", "print documentation for a rule (or 'all') and exit")
	fs.BoolVar(&o.generateMarkdown, "generate_markdown", false, "emit --help_rules output as Markdown")
	fs.BoolVar(&o.printRulesFile, "print_rules_file", false, "print the effective rule-bundle spec and exit")
	fs.BoolVar(&o.showDiagnosticCtx, "show_diagnostic_context", false, "include the offending source line in each diagnostic")
	fs.StringVar(&o.autofix, "autofix", "no", "autofix mode: no|patch-interactive|patch|inplace-interactive|inplace|generate-waiver")
	fs.StringVar(&o.autofixOutputFile, "autofix_output_file", "", "path to write the autofix patch/waiver output to (default stdout)")
	fs.StringVar(&o.ruleset, "ruleset", "default", "base rule set: all|default|none")
	fs.StringVar(&o.rules, "rules", "", "rule-bundle spec: comma-separated [-]rule-name[=config]")
	fs.StringVar(&o.rulesConfig, "rules_config", "", "path to a YAML rule-configuration file")
	fs.BoolVar(&o.rulesConfigSearch, "rules_config_search", false, "search upward from each file for a rule-configuration file")
	fs.StringVar(&o.waiverFiles, "waiver_files", "", "comma-separated waiver file paths")
	fs.Parse(args)
	return o, fs.Args()
}

func (o *options) baseRuleSet() lint.RuleSet {
	switch strings.ToLower(o.ruleset) {
	case "all":
		return lint.RuleSetAll
	case "none":
		return lint.RuleSetNone
	default:
		return lint.RuleSetDefault
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run implements the full CLI flow and returns the process exit code,
// split out from main so it is testable without os.Exit.
func run(args []string, stdout, stderr *os.File) int {
	o, files := parseFlags(args)

	if o.helpRules != "" {
		printHelpRules(stdout, o.helpRules, o.generateMarkdown)
		return 0
	}

	enabled, warnings := resolveRules(o)
	for _, w := range warnings {
		fmt.Fprintln(stderr, "warning:", w)
	}
	if o.printRulesFile {
		printRulesFile(stdout, enabled)
		return 0
	}

	waivers, err := loadWaivers(o.waiverFiles)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 3
	}

	sources := map[string][]byte{}
	var okFiles []string
	exitCode := 0
	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			exitCode = maxExit(exitCode, 2)
			continue
		}
		sources[path] = source
		okFiles = append(okFiles, path)
	}

	var table *symtab.SymbolTable
	if !o.checkSyntax {
		if _, wired := enabled[rules.UnqualifiedReferenceNoTypoName]; wired {
			table = buildProjectSymbolTable(okFiles, sources)
		}
	}

	for _, path := range okFiles {
		code := lintOne(stdout, stderr, path, sources[path], enabled, waivers, table, o)
		exitCode = maxExit(exitCode, code)
	}
	return exitCode
}

// buildProjectSymbolTable lexes and parses every file in paths and
// feeds each tree into one shared symbol table, then resolves it
// across file boundaries, so symbol-table-aware rules (like
// unqualified-reference-no-typo) see the whole project rather than
// just whichever single file is currently being linted. Lex/parse
// diagnostics are discarded here; lintOne re-derives and reports them
// per file, and duplicating that reporting here would double it up.
func buildProjectSymbolTable(paths []string, sources map[string][]byte) *symtab.SymbolTable {
	table := symtab.New(nil)
	for _, path := range paths {
		ts, _ := lexParse(path, sources[path])
		table.Build(ts.Tree, path)
	}
	table.ResolveLocallyOnly()
	table.Resolve()
	return table
}

func maxExit(a, b int) int {
	if b > a {
		return b
	}
	return a
}

func lexParse(path string, source []byte) (*lint.TextStructure, *diag.Bag) {
	bag := &diag.Bag{}
	toks, lexDiags := parseengine.Lex(source)
	for _, d := range lexDiags {
		bag.Add(d)
	}
	tree, parseDiags := parseengine.Parse(toks)
	for _, d := range parseDiags {
		bag.Add(d)
	}
	lines := strings.Split(string(source), "\n")
	return &lint.TextStructure{
		Path:       path,
		Source:     source,
		Tokens:     toks,
		Lines:      lines,
		Tree:       tree,
		LexClean:   !bag.HasErrorOrWorse(),
		ParseClean: !bag.HasErrorOrWorse(),
	}, bag
}

func lintOne(stdout, stderr *os.File, path string, source []byte, enabled map[string]string, waivers []lint.Waiver, table *symtab.SymbolTable, o *options) int {
	if o.checkSyntax {
		_, bag := lexParse(path, source)
		for _, d := range bag.Items() {
			fmt.Fprintln(stderr, d.Error())
		}
		if bag.HasErrorOrWorse() {
			return 2
		}
		return 0
	}

	violations, bag := lint.RunFile(path, source, enabled, lint.Default, waivers, lexParse, table)
	for _, d := range bag.Items() {
		fmt.Fprintln(stderr, d.Error())
	}
	if bag.HasErrorOrWorse() {
		if o.parseFatal {
			return 2
		}
	}
	if len(violations) == 0 {
		return 0
	}

	withStatus := make([]lint.ViolationWithStatus, len(violations))
	copy(withStatus, violations)
	fixer := violation.NewViolationFixer(path, withStatus)

	lines := strings.Split(string(source), "\n")
	for _, v := range violations {
		line := lint.LineOf(source, v.Violation.Token.Range().Start)
		fmt.Fprintf(stdout, "%s:%d: [%s] %s\n", path, line, v.Rule, v.Violation.Reason)
		if o.showDiagnosticCtx && line-1 >= 0 && line-1 < len(lines) {
			fmt.Fprintf(stdout, "    %s\n", lines[line-1])
		}
	}

	if err := runAutofix(o, fixer, path, source, stdout); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 3
	}

	if o.lintFatal {
		return 1
	}
	return 0
}

func runAutofix(o *options, fixer *violation.ViolationFixer, path string, source []byte, stdout *os.File) error {
	switch o.autofix {
	case "", "no":
		return nil
	case "patch", "patch-interactive":
		fixer.ApplyAll()
		diffText, err := violation.UnifiedDiff(path, source, fixer)
		if err != nil {
			return err
		}
		return writeAutofixOutput(o.autofixOutputFile, diffText, stdout)
	case "inplace", "inplace-interactive":
		fixer.ApplyAll()
		committer := violation.NewCommitter(project.NewOSFileSystem())
		return committer.WriteInPlace(context.Background(), fixer, path, source)
	case "generate-waiver":
		printer := violation.NewViolationWaiverPrinter(path, source)
		var sb strings.Builder
		printer.PrintOutstanding(&sb, fixer)
		return writeAutofixOutput(o.autofixOutputFile, sb.String(), stdout)
	default:
		return fmt.Errorf("unknown --autofix mode %q", o.autofix)
	}
}

func writeAutofixOutput(outputFile, content string, stdout *os.File) error {
	if outputFile == "" {
		fmt.Fprint(stdout, content)
		return nil
	}
	return os.WriteFile(outputFile, []byte(content), 0644)
}

func resolveRules(o *options) (map[string]string, []string) {
	bundle := lint.ParseRuleBundle(o.rules)
	var warnings []string
	warnings = append(warnings, bundle.Warnings...)

	if o.rulesConfig != "" {
		f, err := os.Open(o.rulesConfig)
		if err == nil {
			defer f.Close()
			cfg, err := config.Load(f)
			if err == nil {
				bundle = cfg.RuleBundle().Merge(bundle)
			} else {
				warnings = append(warnings, err.Error())
			}
		} else {
			warnings = append(warnings, err.Error())
		}
	}

	return bundle.Resolve(lint.Default, o.baseRuleSet()), warnings
}

func loadWaivers(paths string) ([]lint.Waiver, error) {
	if paths == "" {
		return nil, nil
	}
	var out []lint.Waiver
	for _, p := range strings.Split(paths, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		waivers, err := lint.ParseWaiverFile(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, waivers...)
	}
	return out, nil
}

func printRulesFile(w *os.File, enabled map[string]string) {
	for _, name := range lint.SortedNames(keys(enabled)) {
		if cfg := enabled[name]; cfg != "" {
			fmt.Fprintf(w, "%s=%s\n", name, cfg)
		} else {
			fmt.Fprintln(w, name)
		}
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func printHelpRules(w *os.File, which string, markdown bool) {
	names := lint.Default.Names()
	if which != "all" {
		names = []string{which}
	}
	for _, name := range lint.SortedNames(names) {
		rule, ok := lint.Default.New(name)
		if !ok {
			fmt.Fprintf(w, "unknown rule %q\n", name)
			continue
		}
		if markdown {
			fmt.Fprintf(w, "### %s\n\n%s\n\n", rule.Name(), rule.URL())
		} else {
			fmt.Fprintf(w, "%s\n  %s\n", rule.Name(), rule.URL())
		}
	}
}
