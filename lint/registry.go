package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Factory constructs a fresh instance of a rule, ready to run against
// one file. The registry stores one Factory per kebab-case rule name.
type Factory func() Rule

// RuleSet selects which rules a LinterConfiguration enables absent an
// explicit bundle: All registered rules, None, or a fixed Default
// list.
type RuleSet int

const (
	RuleSetDefault RuleSet = iota
	RuleSetAll
	RuleSetNone
)

// Registry is the process-wide rule name -> Factory table. It is
// initialised once (typically via package-level registration calls
// from rules/*.go's init functions) and treated as read-only
// thereafter.
type Registry struct {
	factories   *linkedhashmap.Map // name -> Factory, insertion order preserved
	defaultSet  map[string]bool
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories:  linkedhashmap.New(),
		defaultSet: map[string]bool{},
	}
}

// Register adds name -> factory to the registry. Calling Register
// twice for the same name overwrites the previous factory (used by
// tests to install fakes); real rule files should only ever call it
// once per name from an init().
func (r *Registry) Register(name string, factory Factory, inDefaultSet bool) {
	r.factories.Put(name, factory)
	r.defaultSet[name] = inDefaultSet
}

// Names returns every registered rule name, in registration order.
func (r *Registry) Names() []string {
	keys := r.factories.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// New constructs a fresh instance of the named rule, or (nil, false)
// if name is not registered.
func (r *Registry) New(name string) (Rule, bool) {
	f, ok := r.factories.Get(name)
	if !ok {
		return nil, false
	}
	return f.(Factory)(), true
}

// RulesFor enumerates the rule names selected by set.
func (r *Registry) RulesFor(set RuleSet) []string {
	switch set {
	case RuleSetAll:
		return r.Names()
	case RuleSetNone:
		return nil
	default:
		var out []string
		for _, name := range r.Names() {
			if r.defaultSet[name] {
				out = append(out, name)
			}
		}
		return out
	}
}

// RuleBundle is the parsed form of a --rules=<bundle> flag: a
// comma-separated list of [-]rule-name[=config-string]. Later entries
// win over earlier ones for the same rule name. An empty token is
// skipped with a warning; a bare trailing comma is tolerated the same
// way.
type RuleBundle struct {
	Enabled  map[string]string // rule name -> config string (possibly empty)
	Disabled map[string]bool
	Warnings []string
}

// ParseRuleBundle parses a comma-separated rule-bundle flag value:
// "name", "-name" to disable, or "name=config" to pass a config
// string, with later duplicate entries for the same name winning.
func ParseRuleBundle(spec string) *RuleBundle {
	b := &RuleBundle{Enabled: map[string]string{}, Disabled: map[string]bool{}}
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			b.Warnings = append(b.Warnings, "skipping empty rule-bundle entry")
			continue
		}
		name := tok
		config := ""
		if eq := strings.IndexByte(tok, '='); eq >= 0 {
			name = tok[:eq]
			config = tok[eq+1:]
		}
		disable := false
		if strings.HasPrefix(name, "-") {
			disable = true
			name = name[1:]
		}
		if _, wasEnabled := b.Enabled[name]; wasEnabled || b.Disabled[name] {
			b.Warnings = append(b.Warnings, fmt.Sprintf("duplicate rule-bundle entry for %q, last one wins", name))
			delete(b.Enabled, name)
			delete(b.Disabled, name)
		}
		if disable {
			b.Disabled[name] = true
		} else {
			b.Enabled[name] = config
		}
	}
	return b
}

// Merge layers other on top of b, so later config files override
// earlier ones: every enabled/disabled entry in other replaces b's
// entry for the same rule name.
func (b *RuleBundle) Merge(other *RuleBundle) *RuleBundle {
	out := &RuleBundle{Enabled: map[string]string{}, Disabled: map[string]bool{}}
	for k, v := range b.Enabled {
		out.Enabled[k] = v
	}
	for k := range b.Disabled {
		out.Disabled[k] = true
	}
	for k, v := range other.Enabled {
		delete(out.Disabled, k)
		out.Enabled[k] = v
	}
	for k := range other.Disabled {
		delete(out.Enabled, k)
		out.Disabled[k] = true
	}
	out.Warnings = append(append([]string{}, b.Warnings...), other.Warnings...)
	return out
}

// Resolve computes the final enabled-rule-name -> config-string map
// given a base RuleSet and this bundle's overrides.
func (b *RuleBundle) Resolve(reg *Registry, base RuleSet) map[string]string {
	out := map[string]string{}
	for _, name := range reg.RulesFor(base) {
		out[name] = ""
	}
	for name := range b.Disabled {
		delete(out, name)
	}
	for name, cfg := range b.Enabled {
		out[name] = cfg
	}
	return out
}

// Default is the process-wide registry rule files register themselves
// into from their init() functions. Treated as read-only after
// process startup.
var Default = NewRegistry()

// SortedNames is a small formatting helper for --help_rules output.
func SortedNames(names []string) []string {
	out := append([]string{}, names...)
	sort.Strings(out)
	return out
}
