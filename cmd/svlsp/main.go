// Command svlsp is the stdio language-server entry point for svkit.
// The batch CLI tools cover lint/obfuscate/project/format tooling;
// this binary exposes the same lint engine interactively over the
// language-server protocol.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/svlang/svkit/config"
	"github.com/svlang/svkit/lint"
	_ "github.com/svlang/svkit/lint/rules"
	"github.com/svlang/svkit/lsp"
)

type options struct {
	ruleset     string
	rules       string
	rulesConfig string
	waiverFiles string
}

func parseFlags(args []string) *options {
	fs := flag.NewFlagSet("svlsp", flag.ExitOnError)
	o := &options{}
	fs.StringVar(&o.ruleset, "ruleset", "default", "base rule set: all|default|none")
	fs.StringVar(&o.rules, "rules", "", "rule-bundle spec: comma-separated [-]rule-name[=config]")
	fs.StringVar(&o.rulesConfig, "rules_config", "", "path to a YAML rule-configuration file")
	fs.StringVar(&o.waiverFiles, "waiver_files", "", "comma-separated waiver file paths")
	fs.Parse(args)
	return o
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
	o := parseFlags(os.Args[1:])

	enabled, warnings := resolveRules(o)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	waivers, err := loadWaivers(o.waiverFiles)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	server := lsp.NewServer(lint.Default, enabled, waivers)
	if err := server.Serve(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
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
