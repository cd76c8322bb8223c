// Package config implements the YAML-backed project/lint
// configuration file: a single file a CLI or LSP client loads once,
// merging the project's include directories, preprocessor defines,
// rule selection, and waiver file locations into the structures
// project.Config and lint.RuleBundle already define.
//
// Modeled as a small purpose-built struct with a DefaultConfig()
// constructor, loaded with gopkg.in/yaml.v3 rather than built up by
// hand, since this config is meant to be authored as a file instead
// of constructed in Go.
package config

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/svlang/svkit/lint"
	"github.com/svlang/svkit/project"
)

// RuleEntry is one line of the `rules:` list: a bare rule name (or
// `-name` to disable), optionally followed by `=config-string`, the
// same grammar ParseRuleBundle accepts for the --rules= CLI flag, so
// a config file and a CLI flag can share one format.
type RuleEntry string

// LinterConfiguration is the top-level shape of a project's YAML
// config file.
type LinterConfiguration struct {
	RuleSet     string            `yaml:"rule_set,omitempty"`
	Rules       []RuleEntry       `yaml:"rules,omitempty"`
	WaiverFiles []string          `yaml:"waiver_files,omitempty"`
	IncludeDirs []string          `yaml:"include_dirs,omitempty"`
	Defines     map[string]string `yaml:"defines,omitempty"`
	FileList    string            `yaml:"file_list,omitempty"`
}

// Load parses a LinterConfiguration from r.
func Load(r io.Reader) (*LinterConfiguration, error) {
	var cfg LinterConfiguration
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: parsing YAML: %w", err)
	}
	return &cfg, nil
}

// LoadString is a convenience wrapper over Load for in-memory YAML
// content (tests, LSP workspace/didChangeConfiguration payloads).
func LoadString(content string) (*LinterConfiguration, error) {
	return Load(strings.NewReader(content))
}

// RuleSetValue parses c's rule_set string into a lint.RuleSet,
// defaulting to RuleSetDefault when unset or unrecognised.
func (c *LinterConfiguration) RuleSetValue() lint.RuleSet {
	switch strings.ToLower(c.RuleSet) {
	case "all":
		return lint.RuleSetAll
	case "none":
		return lint.RuleSetNone
	default:
		return lint.RuleSetDefault
	}
}

// RuleBundle converts c's rules list into a lint.RuleBundle, reusing
// ParseRuleBundle's comma-separated grammar by joining the entries
// back into one spec string — the two entry points (a YAML list here,
// a single --rules= flag value on the CLI) should parse identically.
func (c *LinterConfiguration) RuleBundle() *lint.RuleBundle {
	entries := make([]string, len(c.Rules))
	for i, r := range c.Rules {
		entries[i] = string(r)
	}
	return lint.ParseRuleBundle(strings.Join(entries, ","))
}

// ResolvedRules returns the final rule name -> config-string map this
// configuration selects, given reg's registered rule set.
func (c *LinterConfiguration) ResolvedRules(reg *lint.Registry) map[string]string {
	return c.RuleBundle().Resolve(reg, c.RuleSetValue())
}

// ProjectConfig converts c's include-dir/define settings into a
// project.Config for constructing a project.VerilogProject.
func (c *LinterConfiguration) ProjectConfig() project.Config {
	return project.Config{IncludeDirs: c.IncludeDirs, Defines: c.Defines}
}

// LoadWaivers reads and parses every file named in c.WaiverFiles
// (through fs, so this works against both disk and the in-memory test
// filesystem), concatenating the results in list order — later files'
// waivers do not override earlier ones, they simply add more, since
// waivers are a set of independent exemptions rather than a layered
// override like rule bundles.
func (c *LinterConfiguration) LoadWaivers(ctx context.Context, fs project.FileSystem) ([]lint.Waiver, error) {
	var out []lint.Waiver
	for _, path := range c.WaiverFiles {
		content, err := fs.ReadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("config: reading waiver file %s: %w", path, err)
		}
		waivers, err := lint.ParseWaiverFile(strings.NewReader(string(content)))
		if err != nil {
			return nil, fmt.Errorf("config: parsing waiver file %s: %w", path, err)
		}
		out = append(out, waivers...)
	}
	return out, nil
}
