// Command svproject is the CLI surface for svkit's project/symbol
// table tooling: given a file list, build the project's symbol table
// (and, for file-deps, its dependency graph) and dump one of three
// reports.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/svlang/svkit/depgraph"
	"github.com/svlang/svkit/parseengine"
	"github.com/svlang/svkit/project"
	"github.com/svlang/svkit/symtab"
)

type options struct {
	fileListPath    string
	fileListRoot    string
	includeDirPaths string
}

func parseFlags(args []string) (*options, string) {
	fs := flag.NewFlagSet("svproject", flag.ExitOnError)
	o := &options{}
	fs.StringVar(&o.fileListPath, "file_list_path", "", "path to the +incdir+/+define+ file-list file")
	fs.StringVar(&o.fileListRoot, "file_list_root", "", "root directory paths in the file list are relative to")
	fs.StringVar(&o.includeDirPaths, "include_dir_paths", "", "comma-separated extra include directories")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "usage: svproject [flags] <symbol-table-defs|symbol-table-refs|file-deps>")
		os.Exit(2)
	}
	return o, rest[0]
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	o, subcommand := parseFlags(args)

	switch subcommand {
	case "symbol-table-defs", "symbol-table-refs", "file-deps":
	default:
		fmt.Fprintf(stderr, "error: unknown subcommand %q\n", subcommand)
		return 2
	}

	if o.fileListPath == "" {
		fmt.Fprintln(stderr, "error: --file_list_path is required")
		return 2
	}

	f, err := os.Open(o.fileListPath)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	fl := project.ParseFileList(o.fileListRoot, bufio.NewScanner(f))
	f.Close()
	fl.IncludeDirs = append(fl.IncludeDirs, splitNonEmpty(o.includeDirPaths)...)

	proj := project.New(o.fileListRoot, project.NewOSFileSystem(), project.Config{
		IncludeDirs: fl.IncludeDirs,
		Defines:     fl.Defines,
	})
	files, warnings := fl.Populate(proj)
	for _, w := range warnings {
		fmt.Fprintln(stderr, "warning:", w)
	}

	ctx := context.Background()
	st := symtab.New(proj)
	hadParseError := false
	for _, pf := range files {
		bag, err := proj.OpenTranslationUnit(ctx, pf, parseengine.Lex, parseengine.Parse)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			hadParseError = true
			continue
		}
		for _, d := range bag.Items() {
			fmt.Fprintln(stderr, d.Error())
		}
		if bag.HasErrorOrWorse() {
			hadParseError = true
			continue
		}
		buildBag := st.Build(pf.TextStruct.Tree, pf.Path)
		for _, d := range buildBag.Items() {
			fmt.Fprintln(stderr, d.Error())
		}
	}

	st.ResolveLocallyOnly()
	resolveBag := st.Resolve()
	for _, d := range resolveBag.Items() {
		fmt.Fprintln(stderr, d.Error())
	}

	switch subcommand {
	case "symbol-table-defs":
		st.PrintSymbolDefinitions(stdout)
	case "symbol-table-refs":
		st.PrintSymbolReferences(stdout)
	case "file-deps":
		depgraph.Build(st).Dump(stdout)
	}

	if hadParseError {
		return 2
	}
	if resolveBag.HasErrorOrWorse() {
		return 1
	}
	return 0
}

func splitNonEmpty(csv string) []string {
	var out []string
	for _, s := range strings.Split(csv, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
