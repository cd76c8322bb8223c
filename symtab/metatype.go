// Package symtab implements the project-scoped hierarchical symbol
// table and reference resolver: a scoped tree of declarations
// carrying a SymbolInfo-equivalent per node, dependent-reference
// chains awaiting resolution, and a three-pass
// Build -> ResolveLocallyOnly -> Resolve pipeline.
//
// Address stability across arena growth is achieved not by holding
// raw pointers into a growing slice, but by addressing arena elements
// through an opaque index that never changes even when the backing
// array reallocates, the same fieldMap/methodMap index-table idiom a
// type-graph with mutable field/method sets needs.
package symtab

// Metatype classifies what kind of entity a SymbolTableNode denotes.
// Unspecified and Callable are used only on the required side of a
// reference (MatchesMetatype), never as a declaration's own metatype.
type Metatype int

const (
	Root Metatype = iota
	Class
	Module
	Generate
	Package
	Parameter
	TypeAlias
	DataNetVariableInstance
	Function
	Task
	Struct
	EnumType
	EnumConstant
	Interface
	Unspecified
	Callable
)

var metatypeNames = map[Metatype]string{
	Root:                    "Root",
	Class:                   "Class",
	Module:                  "Module",
	Generate:                "Generate",
	Package:                 "Package",
	Parameter:               "Parameter",
	TypeAlias:               "TypeAlias",
	DataNetVariableInstance: "DataNetVariableInstance",
	Function:                "Function",
	Task:                    "Task",
	Struct:                  "Struct",
	EnumType:                "EnumType",
	EnumConstant:            "EnumConstant",
	Interface:               "Interface",
	Unspecified:             "Unspecified",
	Callable:                "Callable",
}

func (m Metatype) String() string {
	if name, ok := metatypeNames[m]; ok {
		return name
	}
	return "UnknownMetatype"
}

// Matches reports whether a declaration of metatype m may satisfy a
// reference that requires the metatype `required`: Unspecified
// matches anything, Callable matches Function or Task, every other
// required metatype must match m exactly.
func (m Metatype) Matches(required Metatype) bool {
	switch required {
	case Unspecified:
		return true
	case Callable:
		return m == Function || m == Task
	default:
		return m == required
	}
}
