// Package project implements the project file model: a
// VerilogProject that owns a set of ProjectFiles, resolves relative
// paths and include directories against a root, and produces the
// TextStructure each lint/symtab/LSP consumer reads.
//
// File reads go through a small FileSystem interface, backed in
// production by afs.Service, so tests can swap in an in-memory
// implementation instead of touching disk.
package project

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"

	"github.com/svlang/svkit/cst"
	"github.com/svlang/svkit/diag"
	"github.com/svlang/svkit/lint"
	"github.com/svlang/svkit/token"
)

// FileSystem is the surface VerilogProject and the violation fixer's
// per-file commit step (C9) need: read for lexing/parsing, write for
// committing an accepted set of autofixes back to disk. afsFileSystem
// satisfies it against a real github.com/viant/afs.Service;
// MemFileSystem satisfies it for tests.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error
}

// afsFileSystem adapts github.com/viant/afs.Service to FileSystem,
// the production implementation (local disk, or any other scheme afs
// supports).
type afsFileSystem struct {
	service afs.Service
}

// NewOSFileSystem constructs the production FileSystem backed by afs.
func NewOSFileSystem() FileSystem {
	return &afsFileSystem{service: afs.New()}
}

func (f *afsFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return f.service.DownloadWithURL(ctx, path)
}

func (f *afsFileSystem) WriteFile(ctx context.Context, path string, content []byte) error {
	return f.service.Upload(ctx, path, os.FileMode(0644), bytes.NewReader(content))
}

// MemFileSystem is an in-memory FileSystem, for tests and for
// LSP-style unsaved-buffer overlays.
type MemFileSystem struct {
	files map[string][]byte
}

// NewMemFileSystem constructs an empty in-memory filesystem.
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{files: map[string][]byte{}}
}

// Put stores content for path, overwriting any prior content.
func (m *MemFileSystem) Put(path string, content []byte) {
	m.files[path] = content
}

func (m *MemFileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, &notFoundError{path: path}
	}
	return content, nil
}

// WriteFile stores content for path, the in-memory analogue of
// afsFileSystem's Upload, used by tests exercising the violation
// fixer's commit step without touching disk.
func (m *MemFileSystem) WriteFile(_ context.Context, path string, content []byte) error {
	m.Put(path, content)
	return nil
}

type notFoundError struct{ path string }

func (e *notFoundError) Error() string { return "file not found: " + e.path }

// ProjectFile is one source file under a VerilogProject: its resolved
// path, raw content, and the TextStructure produced by lexing and
// parsing it (nil until OpenTranslationUnit runs).
type ProjectFile struct {
	Path        string
	IncludeDirs []string
	Defines     map[string]string
	TextStruct  *lint.TextStructure
}

// Config carries the project-wide toggles a VerilogProject is built
// with: its base include directories and preprocessor defines,
// layered per-file by file-list directives.
type Config struct {
	IncludeDirs []string
	Defines     map[string]string
}

// VerilogProject owns a root directory, a FileSystem to read through,
// and the set of files opened so far.
type VerilogProject struct {
	Root   string
	FS     FileSystem
	Config Config

	files map[string]*ProjectFile
}

// New constructs a VerilogProject rooted at root, reading through fs.
func New(root string, fs FileSystem, cfg Config) *VerilogProject {
	return &VerilogProject{Root: root, FS: fs, Config: cfg, files: map[string]*ProjectFile{}}
}

// resolvePath resolves a path relative to the project root.
func (p *VerilogProject) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}

// AddFile registers path (with optional per-file include dirs/defines
// layered on top of the project's own) without reading it yet.
func (p *VerilogProject) AddFile(path string, includeDirs []string, defines map[string]string) *ProjectFile {
	resolved := p.resolvePath(path)
	merged := map[string]string{}
	for k, v := range p.Config.Defines {
		merged[k] = v
	}
	for k, v := range defines {
		merged[k] = v
	}
	pf := &ProjectFile{
		Path:        resolved,
		IncludeDirs: append(append([]string{}, includeDirs...), p.Config.IncludeDirs...),
		Defines:     merged,
	}
	p.files[resolved] = pf
	return pf
}

// File looks up a previously-added ProjectFile by resolved path.
func (p *VerilogProject) File(path string) (*ProjectFile, bool) {
	pf, ok := p.files[p.resolvePath(path)]
	return pf, ok
}

// Files returns every registered ProjectFile, sorted by path for
// deterministic multi-file iteration. Declaration visitation order
// depends on callers feeding OpenTranslationUnit in a stable order;
// file-list order wins when one is available, and this sorted order
// is the fallback for callers that only have AddFile calls.
func (p *VerilogProject) Files() []*ProjectFile {
	out := make([]*ProjectFile, 0, len(p.files))
	for _, pf := range p.files {
		out = append(out, pf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ResolveInclude searches pf's include directories (file-local first,
// then project-wide) for name, returning the first hit's resolved
// path. It does not itself read the file.
func (p *VerilogProject) ResolveInclude(pf *ProjectFile, name string) (string, bool) {
	if filepath.IsAbs(name) {
		return name, true
	}
	dirs := pf.IncludeDirs
	// Always also try relative to the including file's own directory,
	// the conventional `include "../foo.svh"` case.
	candidates := append([]string{filepath.Dir(pf.Path)}, dirs...)
	for _, dir := range candidates {
		candidate := filepath.Join(dir, name)
		if _, ok := p.files[candidate]; ok {
			return candidate, true
		}
	}
	// Not already opened; still return a best-guess candidate so the
	// caller can attempt a fresh read.
	if len(candidates) > 0 {
		return filepath.Join(candidates[0], name), false
	}
	return name, false
}

// OpenTranslationUnit reads pf's content, lexes and parses it via the supplied Lex/Parse functions, and
// populates pf.TextStruct.
func (p *VerilogProject) OpenTranslationUnit(ctx context.Context, pf *ProjectFile,
	lex func(src []byte) ([]token.Token, []diag.Diagnostic),
	parse func(toks []token.Token) (*cst.Symbol, []diag.Diagnostic)) (*diag.Bag, error) {

	bag := &diag.Bag{}
	content, err := p.FS.ReadFile(ctx, pf.Path)
	if err != nil {
		bag.Addf(diag.Error, diag.StageInput, pf.Path, "reading file: %v", err)
		return bag, err
	}

	toks, lexDiags := lex(content)
	for _, d := range lexDiags {
		bag.Add(d)
	}
	tree, parseDiags := parse(toks)
	for _, d := range parseDiags {
		bag.Add(d)
	}

	lines := strings.Split(string(content), "\n")
	pf.TextStruct = &lint.TextStructure{
		Path:       pf.Path,
		Source:     content,
		Tokens:     toks,
		Lines:      lines,
		Tree:       tree,
		LexClean:   !bag.HasErrorOrWorse(),
		ParseClean: !bag.HasErrorOrWorse(),
	}
	return bag, nil
}
