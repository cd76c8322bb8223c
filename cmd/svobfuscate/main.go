// Command svobfuscate is the CLI surface for svkit's lex-only source
// obfuscator: reads a file from stdin, writes the obfuscated (or
// decoded) form to stdout, optionally loading or saving the
// bijective identifier map.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/svlang/svkit/obfuscate"
)

type options struct {
	loadMap                   string
	saveMap                   string
	decode                    bool
	preserveInterface         string
	preserveBuiltinFunctions  bool
}

func parseFlags(args []string) *options {
	fs := flag.NewFlagSet("svobfuscate", flag.ExitOnError)
	o := &options{}
	fs.StringVar(&o.loadMap, "load_map", "", "path to an existing identifier map to load before running")
	fs.StringVar(&o.saveMap, "save_map", "", "path to write the resulting identifier map to")
	fs.BoolVar(&o.decode, "decode", false, "run in decode mode (lookup-only) instead of encode")
	fs.StringVar(&o.preserveInterface, "preserve_interface", "", "comma-separated list of identifiers to pin to themselves")
	fs.BoolVar(&o.preserveBuiltinFunctions, "preserve_builtin_functions", false, "pin the IEEE 1800-2017 built-in math function names to themselves")
	fs.Parse(args)
	return o
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o := parseFlags(args)

	mode := obfuscate.Encode
	if o.decode {
		mode = obfuscate.Decode
	}

	var (
		ob  *obfuscate.Obfuscator
		err error
	)
	if o.loadMap != "" {
		f, openErr := os.Open(o.loadMap)
		if openErr != nil {
			fmt.Fprintln(stderr, "error:", openErr)
			return 1
		}
		ob, err = obfuscate.Load(f, mode)
		f.Close()
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
	} else {
		ob = obfuscate.New(mode)
	}

	if o.preserveBuiltinFunctions {
		ob.PreserveBuiltinFunctions()
	}
	if o.preserveInterface != "" {
		ob.PreserveInterfaceNames(splitNonEmpty(o.preserveInterface))
	}

	src, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	var out string
	if mode == obfuscate.Encode {
		out, err = obfuscate.EncodeVerified(src, ob)
	} else {
		out, err = obfuscate.Obfuscate(src, ob)
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	fmt.Fprint(stdout, out)

	if o.saveMap != "" {
		f, createErr := os.Create(o.saveMap)
		if createErr != nil {
			fmt.Fprintln(stderr, "error:", createErr)
			return 1
		}
		saveErr := ob.Save(f)
		closeErr := f.Close()
		if saveErr != nil {
			fmt.Fprintln(stderr, "error:", saveErr)
			return 1
		}
		if closeErr != nil {
			fmt.Fprintln(stderr, "error:", closeErr)
			return 1
		}
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
