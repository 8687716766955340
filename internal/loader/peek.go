package loader

import (
	"fmt"
	"strconv"

	"github.com/goplus/ixgo/xgobuild"
	"github.com/goplus/xgo/ast"
	"github.com/goplus/xgo/parser"
	"github.com/goplus/xgo/token"

	"github.com/goplus/cppkg/recipe"
)

// Summary is the metadata of a recipe classfile read without running it.
type Summary struct {
	Name        string
	Description string
	License     string
	Homepage    string
	Versions    []string
}

// Peek parses the classfile at path and extracts its top-level metadata
// calls: name, description, license, homepage and the versions passed to
// source.
func Peek(path string) (*Summary, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseEntry(fset, path, nil, parser.Config{
		ClassKind: xgobuild.ClassKind,
	})
	if err != nil {
		return nil, err
	}
	s := &Summary{}
	ast.Inspect(f, func(n ast.Node) bool {
		c, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		fn, ok := c.Fun.(*ast.Ident)
		if !ok {
			return true
		}
		var dst *string
		switch fn.Name {
		case "name":
			dst = &s.Name
		case "description":
			dst = &s.Description
		case "license":
			dst = &s.License
		case "homepage":
			dst = &s.Homepage
		case "source":
			if v, ok := stringArg(c); ok {
				s.Versions = append(s.Versions, v)
			}
			return false
		default:
			return true
		}
		if v, ok := stringArg(c); ok {
			*dst = v
		}
		return false
	})
	if s.Name == "" {
		return nil, fmt.Errorf("failed to parse name from %s: no name call", path)
	}
	return s, nil
}

// Descriptor returns the parts of a recipe descriptor s knows about.
func (s *Summary) Descriptor() *recipe.Descriptor {
	return &recipe.Descriptor{
		Name:        s.Name,
		Description: s.Description,
		License:     s.License,
		Homepage:    s.Homepage,
	}
}

// stringArg returns the first argument of c when it is a string literal.
func stringArg(c *ast.CallExpr) (string, bool) {
	if len(c.Args) == 0 {
		return "", false
	}
	lit, ok := c.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	v, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return v, true
}
