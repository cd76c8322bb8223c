package project

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/module"
)

// FileList is a parsed file-list file: its +incdir+/+define+
// directives and the ordered list of source paths, relative to Root.
type FileList struct {
	Root        string
	IncludeDirs []string
	Defines     map[string]string
	Paths       []string
}

// ParseFileList parses the line-oriented, whitespace-trimmed file-list
// format: `#`-prefixed comment lines, repeatable `+incdir+<dir>` and
// `+define+<NAME>[=<VALUE>]` directives, and otherwise a bare path
// relative to root.
func ParseFileList(root string, r *bufio.Scanner) *FileList {
	fl := &FileList{Root: root, Defines: map[string]string{}}
	for r.Scan() {
		line := strings.TrimSpace(r.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+incdir+"):
			dir := strings.TrimPrefix(line, "+incdir+")
			fl.IncludeDirs = append(fl.IncludeDirs, dir)
		case strings.HasPrefix(line, "+define+"):
			rest := strings.TrimPrefix(line, "+define+")
			name, value := rest, ""
			if eq := strings.IndexByte(rest, '='); eq >= 0 {
				name, value = rest[:eq], rest[eq+1:]
			}
			fl.Defines[name] = value
		default:
			fl.Paths = append(fl.Paths, line)
		}
	}
	return fl
}

// ParseFileListString is a convenience wrapper over ParseFileList for
// in-memory file-list content (tests, LSP workspace configuration).
func ParseFileListString(root, content string) *FileList {
	return ParseFileList(root, bufio.NewScanner(strings.NewReader(content)))
}

// Populate registers every path in fl with proj via AddFile, layering
// fl's include dirs and defines onto each file. Paths are relative to
// fl.Root; when that differs from proj.Root they are joined here
// first so proj.AddFile's own root-relative resolution is a no-op.
//
// Each path's final element is checked with
// golang.org/x/mod/module.CheckFilePath before being joined: a
// file-list is often hand-edited or generated by a separate build
// system, and a filename that is a reserved Windows device name,
// contains a null byte, or is otherwise cross-platform-unsafe would
// fail later and less clearly inside afs or the OS itself. Only the
// base name is checked, never the full path, since file-lists
// routinely climb out of Root with "../" to reach shared include
// trees and CheckFilePath rejects ".." elements outright. Rejected
// paths are skipped and reported back as warnings rather than
// aborting the whole file list.
func (fl *FileList) Populate(proj *VerilogProject) (files []*ProjectFile, warnings []string) {
	files = make([]*ProjectFile, 0, len(fl.Paths))
	for _, p := range fl.Paths {
		path := p
		if !filepath.IsAbs(path) && fl.Root != "" && fl.Root != proj.Root {
			path = filepath.Join(fl.Root, path)
		}
		if err := checkFilePathSafety(path); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %q: %v", p, err))
			continue
		}
		files = append(files, proj.AddFile(path, fl.IncludeDirs, fl.Defines))
	}
	return files, warnings
}

// checkFilePathSafety validates path's base filename with
// module.CheckFilePath, which rejects reserved device names and
// characters that are unsafe on at least one major OS even though
// path is a plain filesystem path, not a Go module path — the same
// per-element safety rules apply to either. Directory elements
// (including "..") are left unchecked; only the literal file name
// matters here.
func checkFilePathSafety(path string) error {
	base := filepath.Base(filepath.ToSlash(path))
	if base == "" || base == "." || base == "/" {
		return nil
	}
	return module.CheckFilePath(base)
}
