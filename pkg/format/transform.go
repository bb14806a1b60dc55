/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package format discovers Go sources and applies the import-grouping and
// gofmt style transforms in check or apply mode.
package format

import (
	"bytes"
	"go/ast"
	goformat "go/format"
	"go/parser"
	"go/token"
	"sync"

	"github.com/fulmenhq/woodfmt/pkg/fault"
	"golang.org/x/tools/imports"
)

// Func is a deterministic text transform. filename is only used in diagnostics.
type Func func(filename string, src []byte) ([]byte, error)

// Transform is a named Func plus the wording used when reporting it.
type Transform struct {
	Name string
	Fn   Func

	// CheckVerb prefixes the would-change count in check mode ("Would reformat").
	CheckVerb string
	// CleanMsg is printed when check mode finds nothing to do.
	CleanMsg string
	// ApplyVerb prefixes the changed count in apply mode ("Reformatted").
	ApplyVerb string
	// NoneMsg is printed when apply mode changed nothing.
	NoneMsg string
}

// Run applies the transform to src.
func (t Transform) Run(filename string, src []byte) ([]byte, error) {
	return t.Fn(filename, src)
}

// Changes reports whether the transform would alter src.
func (t Transform) Changes(filename string, src []byte) (bool, []byte, error) {
	out, err := t.Fn(filename, src)
	if err != nil {
		return false, nil, err
	}
	return !bytes.Equal(src, out), out, nil
}

// goimports keeps its local prefix in a package variable.
var importsMu sync.Mutex

// Imports groups and sorts import declarations the way goimports does
// (standard library, third party, then localPrefix) without adding or
// removing any import. Only the import declarations are rewritten; the rest
// of the file is returned byte for byte.
func Imports(localPrefix string) Transform {
	return Transform{
		Name:      "imports",
		CheckVerb: "Would sort imports in",
		CleanMsg:  "All imports already sorted",
		ApplyVerb: "Sorted imports in",
		NoneMsg:   "No files needed import sorting",
		Fn: func(filename string, src []byte) ([]byte, error) {
			out, err := processImports(filename, src, localPrefix)
			if err != nil {
				return nil, fault.New(fault.KindParse, filename, err)
			}
			start, end, ok, err := importSpan(filename, src)
			if err != nil {
				return nil, fault.New(fault.KindParse, filename, err)
			}
			if !ok {
				return src, nil
			}
			outStart, outEnd, ok, err := importSpan(filename, out)
			if err != nil || !ok {
				return nil, fault.Newf(fault.KindUnexpected, filename, "import declarations lost while sorting")
			}
			spliced := make([]byte, 0, len(src)+outEnd-outStart-(end-start))
			spliced = append(spliced, src[:start]...)
			spliced = append(spliced, out[outStart:outEnd]...)
			spliced = append(spliced, src[end:]...)
			return spliced, nil
		},
	}
}

func processImports(filename string, src []byte, localPrefix string) ([]byte, error) {
	importsMu.Lock()
	defer importsMu.Unlock()
	imports.LocalPrefix = localPrefix
	return imports.Process(filename, src, &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
}

// importSpan returns the byte range from the first import keyword to the end
// of the last import declaration. ok is false when src has no imports.
func importSpan(filename string, src []byte) (start, end int, ok bool, err error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ImportsOnly)
	if err != nil {
		return 0, 0, false, err
	}
	var first, last *ast.GenDecl
	for _, d := range f.Decls {
		gd, isGen := d.(*ast.GenDecl)
		if !isGen || gd.Tok != token.IMPORT {
			continue
		}
		if first == nil {
			first = gd
		}
		last = gd
	}
	if first == nil {
		return 0, 0, false, nil
	}
	tf := fset.File(f.Pos())
	return tf.Offset(first.Pos()), tf.Offset(last.End()), true, nil
}

// Style produces canonical gofmt output.
func Style() Transform {
	return Transform{
		Name:      "style",
		CheckVerb: "Would reformat",
		CleanMsg:  "All files already formatted",
		ApplyVerb: "Reformatted",
		NoneMsg:   "No files needed formatting",
		Fn: func(filename string, src []byte) ([]byte, error) {
			out, err := goformat.Source(src)
			if err != nil {
				return nil, fault.New(fault.KindParse, filename, err)
			}
			return out, nil
		},
	}
}

// Pipeline runs the import transform and then the style transform. This is
// what the pre-commit hook applies to each staged file.
func Pipeline(localPrefix string) Transform {
	return Chain("pipeline", Imports(localPrefix), Style())
}

// Chain composes transforms left to right.
func Chain(name string, ts ...Transform) Transform {
	return Transform{
		Name:      name,
		CheckVerb: "Would format",
		CleanMsg:  "All files already formatted",
		ApplyVerb: "Formatted",
		NoneMsg:   "No files needed formatting",
		Fn: func(filename string, src []byte) ([]byte, error) {
			cur := src
			for _, t := range ts {
				next, err := t.Fn(filename, cur)
				if err != nil {
					return nil, err
				}
				cur = next
			}
			return cur, nil
		},
	}
}
