package parseengine

import (
	"fmt"

	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/diag"
	"github.com/svlang/svkit/token"
)

// Parse runs the structural pass over toks, producing a TagSourceFile
// tree shaped the way symtab.Build already expects: scope declarations
// as {kw, nameLeaf, body}, parameter declarations as
// {kw, typeLeaf, nameLeaf, exprOrNil}, data declarations as
// {typeLeaf, nameLeaf}, and reference chains as TagQualifiedId /
// TagHierarchyExtension / bare-leaf trees wrapped in TagReference.
// It is not a full IEEE 1800-2017 grammar — unrecognised statement
// shapes are swallowed into an inert
// TagStatement leaf run rather than rejected, so a best-effort tree is
// always returned alongside any diagnostics.
func Parse(toks []token.Token) (*cst.Symbol, []diag.Diagnostic) {
	p := &parser{toks: toks}
	items := p.parseItems()
	return cst.NodeSymbol(cst.NewNode(cst.TagSourceFile, items...)), p.diags
}

type parser struct {
	toks  []token.Token
	pos   int
	diags []diag.Diagnostic
}

func (p *parser) errf(format string, args ...any) {
	p.diags = append(p.diags, diag.Diagnostic{
		Severity: diag.Error,
		Stage:    diag.StageSyntactic,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{}
	}
	return p.toks[p.pos]
}

func (p *parser) peekKind() token.Kind { return p.peek().TokenKind() }

func (p *parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) && t.TokenKind() != token.EOF {
		p.pos++
	}
	return t
}

func (p *parser) atEOF() bool { return p.peekKind() == token.EOF }

func leaf(t token.Token) *cst.Symbol { return cst.LeafSymbol(cst.NewLeaf(t)) }

// parseItems consumes items until it sees one of stop (never consumed)
// or EOF, returning the flattened list of top-level symbols produced
// (declarations contribute one symbol each; statements may contribute
// a statement symbol plus zero or more extracted reference symbols).
func (p *parser) parseItems(stop ...token.Kind) []*cst.Symbol {
	var items []*cst.Symbol
	for {
		if p.atEOF() {
			return items
		}
		k := p.peekKind()
		for _, s := range stop {
			if k == s {
				return items
			}
		}
		items = append(items, p.parseItem()...)
	}
}

func (p *parser) parseItem() []*cst.Symbol {
	switch p.peekKind() {
	case token.KwModule:
		return []*cst.Symbol{p.parseSimpleScope(token.KwModule, token.KwEndmodule, cst.TagModuleDeclaration)}
	case token.KwPackage:
		return []*cst.Symbol{p.parseSimpleScope(token.KwPackage, token.KwEndpackage, cst.TagPackageDeclaration)}
	case token.KwClass:
		return []*cst.Symbol{p.parseSimpleScope(token.KwClass, token.KwEndclass, cst.TagClassDeclaration)}
	case token.KwFunction:
		return []*cst.Symbol{p.parseCallableScope(token.KwFunction, token.KwEndfunction, cst.TagFunctionDeclaration)}
	case token.KwTask:
		return []*cst.Symbol{p.parseCallableScope(token.KwTask, token.KwEndtask, cst.TagTaskDeclaration)}
	case token.KwGenerate:
		return []*cst.Symbol{p.parseGenerateBlock()}
	case token.KwParameter, token.KwLocalparam:
		return []*cst.Symbol{p.parseParamDecl()}
	default:
		return p.parseDataDeclOrStatement()
	}
}

// parseSimpleScope handles the `kw <name> ... ;` header shape used by
// module/package/class declarations: the name is the first identifier
// token after kw, and everything else up to the terminating ';' (parameter
// ports, extends clauses, import lists) is discarded structurally.
func (p *parser) parseSimpleScope(kw, end token.Kind, tag cst.NodeTag) *cst.Symbol {
	kwLeaf := leaf(p.advance())
	var nameLeaf *cst.Symbol
	if p.peekKind().IsIdentifierKind() {
		nameLeaf = leaf(p.advance())
	} else {
		p.errf("expected identifier after %s, got %s", kw, p.peekKind())
	}
	p.skipBalancedTo(token.Semicolon, end)
	if p.peekKind() == token.Semicolon {
		p.advance()
	}
	body := p.parseItems(end)
	if p.peekKind() == end {
		p.advance()
	} else {
		p.errf("missing %s for %s %s", end, kw, describeName(nameLeaf))
	}
	bodySym := cst.NodeSymbol(cst.NewNode(cst.TagModuleItemList, body...))
	return cst.NodeSymbol(cst.NewNode(tag, kwLeaf, nameLeaf, bodySym))
}

// parseCallableScope handles the function/task header shape, where the
// declared name sits immediately before the port-list '(' rather than
// immediately after kw (an optional lifetime and/or return type may
// intervene): `kw [automatic] [type] <name> ( ports ) ; ... end*`.
func (p *parser) parseCallableScope(kw, end token.Kind, tag cst.NodeTag) *cst.Symbol {
	kwLeaf := leaf(p.advance())
	var nameLeaf *cst.Symbol
	for !p.atEOF() && p.peekKind() != token.LParen && p.peekKind() != token.Semicolon && p.peekKind() != end {
		if p.peekKind().IsIdentifierKind() {
			nameLeaf = leaf(p.peek())
		}
		p.advance()
	}
	if nameLeaf == nil {
		p.errf("expected identifier in %s header", kw)
	}
	if p.peekKind() == token.LParen {
		p.skipBalancedParens()
	}
	if p.peekKind() == token.Semicolon {
		p.advance()
	}
	body := p.parseItems(end)
	if p.peekKind() == end {
		p.advance()
	} else {
		p.errf("missing %s for %s %s", end, kw, describeName(nameLeaf))
	}
	bodySym := cst.NodeSymbol(cst.NewNode(cst.TagModuleItemList, body...))
	return cst.NodeSymbol(cst.NewNode(tag, kwLeaf, nameLeaf, bodySym))
}

func describeName(s *cst.Symbol) string {
	if l, ok := cst.SymbolCastToLeaf(s); ok {
		return l.Token.Text
	}
	return "<anonymous>"
}

// parseGenerateBlock handles `generate <items> endgenerate`. svkit's
// CST convention allows TagGenerateBlock an optional name leaf (child0);
// raw `generate` regions have no name of their own in IEEE syntax (the
// label, if any, lives on a nested `begin : label`), so this always
// produces an anonymous block and lets symtab mint the scope name.
func (p *parser) parseGenerateBlock() *cst.Symbol {
	p.advance() // generate
	body := p.parseItems(token.KwEndgenerate)
	if p.peekKind() == token.KwEndgenerate {
		p.advance()
	} else {
		p.errf("missing endgenerate")
	}
	bodySym := cst.NodeSymbol(cst.NewNode(cst.TagModuleItemList, body...))
	return cst.NodeSymbol(cst.NewNode(cst.TagGenerateBlock, nil, bodySym))
}

// parseParamDecl handles `(parameter|localparam) <type>? <name> [= <expr>] ;`,
// matching symtab's {kw, typeLeaf, nameLeaf, exprOrNil} shape. The type
// leaf is the last identifier-kind token before the name (keyword types
// such as `logic` are not kept, and `parameter WIDTH = 8;` gets a nil
// type leaf); symtab treats a non-nil type leaf as a reference to a
// user-defined type.
func (p *parser) parseParamDecl() *cst.Symbol {
	kwLeaf := leaf(p.advance())
	var typeLeaf, nameLeaf *cst.Symbol
	for !p.atEOF() && p.peekKind() != token.Equals && p.peekKind() != token.Semicolon {
		if p.peekKind().IsIdentifierKind() {
			if nameLeaf != nil {
				typeLeaf = nameLeaf
			}
			nameLeaf = leaf(p.peek())
		}
		p.advance()
	}
	if nameLeaf == nil {
		p.errf("expected parameter name")
	}
	var exprSym *cst.Symbol
	if p.peekKind() == token.Equals {
		p.advance()
		if ref := p.parseReferenceChainIfPresent(); ref != nil {
			reference := cst.NodeSymbol(cst.NewNode(cst.TagReference, ref))
			exprSym = cst.NodeSymbol(cst.NewNode(cst.TagExpression, reference))
		}
		p.skipBalancedTo(token.Semicolon)
	}
	if p.peekKind() == token.Semicolon {
		p.advance()
	}
	return cst.NodeSymbol(cst.NewNode(cst.TagParamDeclaration, kwLeaf, typeLeaf, nameLeaf, exprSym))
}

// parseDataDeclOrStatement distinguishes the simple `<type> <name> ;`
// data declaration shape from everything else, which is handled as a
// generic statement: its tokens are kept (inert) under a TagStatement
// leaf run, and any identifier chain found on the right-hand side of an
// assignment is additionally extracted as a top-level TagReference item
// so symtab still sees it.
func (p *parser) parseDataDeclOrStatement() []*cst.Symbol {
	run, hasAssign := p.peekStatementExtent()
	if len(run) == 2 && !hasAssign &&
		(run[0].TokenKind().IsIdentifierKind() || isTypeKeyword(run[0].TokenKind())) &&
		run[1].TokenKind().IsIdentifierKind() {
		typeLeaf := leaf(p.advance())
		nameLeaf := leaf(p.advance())
		if p.peekKind() == token.Semicolon {
			p.advance()
		}
		return []*cst.Symbol{cst.NodeSymbol(cst.NewNode(cst.TagDataDeclaration, typeLeaf, nameLeaf))}
	}
	return p.parseGenericStatement()
}

func isTypeKeyword(k token.Kind) bool {
	switch k {
	case token.KwWire, token.KwReg, token.KwLogic:
		return true
	}
	return false
}

// peekStatementExtent scans forward without consuming, returning every
// meaningful (non-comment) token up to the statement's terminator (a
// depth-0 ';', a depth-0 unmatched begin/end boundary, or EOF) along
// with whether a depth-0 '=' or '<=' was seen.
func (p *parser) peekStatementExtent() ([]token.Token, bool) {
	var run []token.Token
	hasAssign := false
	depth, beginDepth := 0, 0
	for i := p.pos; i < len(p.toks); i++ {
		t := p.toks[i]
		k := t.TokenKind()
		if k.IsComment() {
			continue
		}
		switch k {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		case token.KwBegin:
			beginDepth++
		case token.KwEnd:
			if beginDepth == 0 {
				return run, hasAssign
			}
			beginDepth--
		case token.Semicolon:
			if depth == 0 && beginDepth == 0 {
				return run, hasAssign
			}
		case token.Equals, token.NonblockingAssign:
			if depth == 0 {
				hasAssign = true
			}
		case token.EOF, token.KwEndmodule, token.KwEndpackage, token.KwEndclass,
			token.KwEndfunction, token.KwEndtask, token.KwEndgenerate, token.KwEndinterface:
			if depth == 0 && beginDepth == 0 {
				return run, hasAssign
			}
		}
		run = append(run, t)
	}
	return run, hasAssign
}

// parseGenericStatement consumes exactly the extent peekStatementExtent
// reported, wrapping its raw tokens in an inert TagStatement node and
// appending a TagReference item for every identifier chain found after
// a depth-0 assignment operator.
func (p *parser) parseGenericStatement() []*cst.Symbol {
	var leaves []*cst.Symbol
	var refs []*cst.Symbol
	afterAssign := false
	depth, beginDepth := 0, 0
	for !p.atEOF() {
		k := p.peekKind()
		switch k {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		case token.KwBegin:
			beginDepth++
		case token.KwEnd:
			if beginDepth == 0 {
				return p.finishStatement(leaves, refs)
			}
			beginDepth--
		case token.Semicolon:
			if depth == 0 && beginDepth == 0 {
				leaves = append(leaves, leaf(p.advance()))
				return p.finishStatement(leaves, refs)
			}
		case token.Equals, token.NonblockingAssign:
			if depth == 0 {
				afterAssign = true
			}
		case token.EOF, token.KwEndmodule, token.KwEndpackage, token.KwEndclass,
			token.KwEndfunction, token.KwEndtask, token.KwEndgenerate, token.KwEndinterface:
			if depth == 0 && beginDepth == 0 {
				return p.finishStatement(leaves, refs)
			}
		}
		if afterAssign && p.peekKind().IsIdentifierKind() {
			start := p.pos
			if ref := p.parseReferenceChainIfPresent(); ref != nil {
				refs = append(refs, cst.NodeSymbol(cst.NewNode(cst.TagReference, ref)))
				for i := start; i < p.pos; i++ {
					leaves = append(leaves, leaf(p.toks[i]))
				}
				continue
			}
		}
		leaves = append(leaves, leaf(p.advance()))
	}
	return p.finishStatement(leaves, refs)
}

func (p *parser) finishStatement(leaves, refs []*cst.Symbol) []*cst.Symbol {
	stmt := cst.NodeSymbol(cst.NewNode(cst.TagStatement, leaves...))
	return append([]*cst.Symbol{stmt}, refs...)
}

// parseReferenceChainIfPresent consumes and returns a bare identifier,
// `a::b::c` qualified chain, or `a.b.c` hierarchy chain starting at the
// current position, or returns nil (consuming nothing) if the current
// token is not an identifier.
func (p *parser) parseReferenceChainIfPresent() *cst.Symbol {
	if !p.peekKind().IsIdentifierKind() {
		return nil
	}
	first := leaf(p.advance())
	if p.peekKind() != token.ColonColon && p.peekKind() != token.Dot {
		return first
	}
	sep := p.peekKind()
	tag := cst.TagQualifiedId
	if sep == token.Dot {
		tag = cst.TagHierarchyExtension
	}
	children := []*cst.Symbol{first}
	for p.peekKind() == sep {
		children = append(children, leaf(p.advance()))
		if !p.peekKind().IsIdentifierKind() {
			break
		}
		children = append(children, leaf(p.advance()))
	}
	return cst.NodeSymbol(cst.NewNode(tag, children...))
}

// skipBalancedTo advances past tokens (tracking (),[],{} nesting) until
// it reaches one of stop at depth 0, or EOF. Does not consume the stop
// token itself.
func (p *parser) skipBalancedTo(stop ...token.Kind) {
	depth := 0
	for !p.atEOF() {
		k := p.peekKind()
		if depth == 0 {
			for _, s := range stop {
				if k == s {
					return
				}
			}
		}
		switch k {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		p.advance()
	}
}

// skipBalancedParens consumes a '(' through its matching ')'.
func (p *parser) skipBalancedParens() {
	if p.peekKind() != token.LParen {
		return
	}
	depth := 0
	for !p.atEOF() {
		switch p.peekKind() {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
