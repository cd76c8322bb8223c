package rules

import (
	"path/filepath"
	"strings"

	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/lint"
)

const ModuleFilenameName = "module-filename"

// moduleFilenameRule is a TextStructureLintRule: the (first) module
// declared in a file must share the file's basename, by convention
// child(1) of a kModuleDeclaration node holds the module name leaf
// (child(0) is the `module` keyword leaf).
type moduleFilenameRule struct {
	lint.BaseRule
}

func newModuleFilenameRule() lint.Rule {
	return &moduleFilenameRule{BaseRule: lint.NewBaseRule(ModuleFilenameName, "")}
}

func (r *moduleFilenameRule) HandleTextStructure(ts *lint.TextStructure) {
	matches := cst.Search(ts.Tree, cst.NodekModuleDeclaration())
	if len(matches) == 0 {
		return
	}
	nameLeaf, ok := cst.GetSubtreeAsLeaf(matches[0].Symbol, cst.TagModuleDeclaration, 1)
	if !ok {
		return
	}
	base := strings.TrimSuffix(filepath.Base(ts.Path), filepath.Ext(ts.Path))
	if nameLeaf.Token.Text != base {
		r.Violate(&lint.LintViolation{
			Token:  nameLeaf.Token,
			Reason: "module name \"" + nameLeaf.Token.Text + "\" does not match file name \"" + base + "\"",
		})
	}
}

func init() { lint.Default.Register(ModuleFilenameName, newModuleFilenameRule, true) }
