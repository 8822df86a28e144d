package languages

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/apisurface/distill/internal/distiller"
)

// NewGo builds the Go module. The native go/ast parser is the structured
// strategy; no grammar binding is needed.
func NewGo() distiller.Module {
	return newModule(
		"go",
		[]string{".go"},
		distiller.Capabilities{
			SupportsPrivateMembers: true,
			SupportsComments:       true,
			SupportsDocstrings:     true,
			MaxFileSize:            2 * 1024 * 1024,
		},
		&goASTStrategy{},
		newLineScanner(goScanConfig()),
	)
}

func goScanConfig() lineScanConfig {
	return lineScanConfig{
		language: "go",
		keywords: []declKeyword{
			{"func", distiller.KindFunction},
			{"type", distiller.KindTypeAlias},
			{"const", distiller.KindVariable},
			{"var", distiller.KindVariable},
		},
		importPrefixes: []string{"import "},
	}
}

// goASTStrategy extracts declarations through the standard library parser.
type goASTStrategy struct{}

func (s *goASTStrategy) Name() string { return "go-ast" }

func (s *goASTStrategy) Probe() error { return nil }

func (s *goASTStrategy) Extract(ctx context.Context, source []byte, path string, opts distiller.Options) (*distiller.ProcessResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("go parse: %w", err)
	}

	result := &distiller.ProcessResult{Exports: []distiller.ExportedSymbol{}}

	for _, imp := range file.Imports {
		module := strings.Trim(imp.Path.Value, `"`)
		record := distiller.ImportRecord{
			Module: module,
			Line:   fset.Position(imp.Pos()).Line,
		}
		if imp.Name != nil {
			record.Specifiers = []string{imp.Name.Name}
		}
		result.Imports = append(result.Imports, record)
	}

	// Methods attach to their receiver's type symbol; collect them first.
	methods := map[string][]distiller.Member{}
	var order []distiller.ExportedSymbol

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil && len(d.Recv.List) > 0 {
				recv := receiverTypeName(d.Recv.List[0].Type)
				if recv != "" {
					methods[recv] = append(methods[recv], goMethodMember(d, fset, source, opts))
					continue
				}
			}
			order = append(order, goFuncSymbol(d, fset, source, opts))
		case *ast.GenDecl:
			order = append(order, goGenDeclSymbols(d, fset, source, opts)...)
		}
	}

	for i := range order {
		if order[i].Kind == distiller.KindTypeAlias || order[i].Kind == distiller.KindClass {
			order[i].Members = append(order[i].Members, methods[order[i].Name]...)
		}
	}
	result.Exports = order

	return result, nil
}

func goFuncSymbol(d *ast.FuncDecl, fset *token.FileSet, source []byte, opts distiller.Options) distiller.ExportedSymbol {
	exported := ast.IsExported(d.Name.Name)
	return distiller.ExportedSymbol{
		Name:       d.Name.Name,
		Kind:       distiller.KindFunction,
		Signature:  goNodeSignature(d.Pos(), bodyStart(d), fset, source),
		Visibility: goVisibility(exported),
		Exported:   exported,
		Line:       fset.Position(d.Pos()).Line,
		Doc:        goDoc(d.Doc, opts),
	}
}

func goMethodMember(d *ast.FuncDecl, fset *token.FileSet, source []byte, opts distiller.Options) distiller.Member {
	exported := ast.IsExported(d.Name.Name)
	return distiller.Member{
		Name:       d.Name.Name,
		Kind:       distiller.MemberMethod,
		Signature:  goNodeSignature(d.Pos(), bodyStart(d), fset, source),
		Visibility: goVisibility(exported),
		Line:       fset.Position(d.Pos()).Line,
		Doc:        goDoc(d.Doc, opts),
	}
}

// goGenDeclSymbols expands a type, const, or var declaration group.
func goGenDeclSymbols(d *ast.GenDecl, fset *token.FileSet, source []byte, opts distiller.Options) []distiller.ExportedSymbol {
	var symbols []distiller.ExportedSymbol
	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			symbols = append(symbols, goTypeSymbol(d, s, fset, source, opts))
		case *ast.ValueSpec:
			for _, name := range s.Names {
				if name.Name == "_" {
					continue
				}
				exported := ast.IsExported(name.Name)
				sig := d.Tok.String() + " " + name.Name
				if s.Type != nil {
					sig += " " + goNodeSignature(s.Type.Pos(), s.Type.End(), fset, source)
				}
				doc := goDoc(s.Doc, opts)
				if doc == "" {
					doc = goDoc(d.Doc, opts)
				}
				symbols = append(symbols, distiller.ExportedSymbol{
					Name:       name.Name,
					Kind:       distiller.KindVariable,
					Signature:  sig,
					Visibility: goVisibility(exported),
					Exported:   exported,
					Line:       fset.Position(name.Pos()).Line,
					Doc:        doc,
				})
			}
		}
	}
	return symbols
}

func goTypeSymbol(d *ast.GenDecl, s *ast.TypeSpec, fset *token.FileSet, source []byte, opts distiller.Options) distiller.ExportedSymbol {
	exported := ast.IsExported(s.Name.Name)

	kind := distiller.KindTypeAlias
	sig := "type " + s.Name.Name

	sym := distiller.ExportedSymbol{
		Name:       s.Name.Name,
		Visibility: goVisibility(exported),
		Exported:   exported,
		Line:       fset.Position(s.Pos()).Line,
		Doc:        goDoc(s.Doc, opts),
	}
	if sym.Doc == "" {
		sym.Doc = goDoc(d.Doc, opts)
	}

	switch t := s.Type.(type) {
	case *ast.StructType:
		kind = distiller.KindClass
		sig += " struct"
		sym.Members = append(sym.Members, goStructFields(t, fset, source, opts)...)
	case *ast.InterfaceType:
		kind = distiller.KindInterface
		sig += " interface"
		sym.Members = append(sym.Members, goInterfaceMethods(t, fset, source, opts)...)
	default:
		sig += " " + goNodeSignature(s.Type.Pos(), s.Type.End(), fset, source)
	}

	sym.Kind = kind
	sym.Signature = collapseWhitespace(sig)
	return sym
}

func goStructFields(t *ast.StructType, fset *token.FileSet, source []byte, opts distiller.Options) []distiller.Member {
	var members []distiller.Member
	if t.Fields == nil {
		return members
	}
	for _, field := range t.Fields.List {
		typeSig := goNodeSignature(field.Type.Pos(), field.Type.End(), fset, source)
		if len(field.Names) == 0 {
			// Embedded field.
			members = append(members, distiller.Member{
				Name:       typeSig,
				Kind:       distiller.MemberProperty,
				Signature:  typeSig,
				Visibility: distiller.VisibilityPublic,
				Line:       fset.Position(field.Pos()).Line,
				Doc:        goDoc(field.Doc, opts),
			})
			continue
		}
		for _, name := range field.Names {
			exported := ast.IsExported(name.Name)
			members = append(members, distiller.Member{
				Name:       name.Name,
				Kind:       distiller.MemberProperty,
				Signature:  name.Name + " " + typeSig,
				Visibility: goVisibility(exported),
				Line:       fset.Position(name.Pos()).Line,
				Doc:        goDoc(field.Doc, opts),
			})
		}
	}
	return members
}

func goInterfaceMethods(t *ast.InterfaceType, fset *token.FileSet, source []byte, opts distiller.Options) []distiller.Member {
	var members []distiller.Member
	if t.Methods == nil {
		return members
	}
	for _, method := range t.Methods.List {
		sig := goNodeSignature(method.Pos(), method.End(), fset, source)
		if len(method.Names) == 0 {
			// Embedded interface.
			members = append(members, distiller.Member{
				Name:       sig,
				Kind:       distiller.MemberProperty,
				Signature:  sig,
				Visibility: distiller.VisibilityPublic,
				Line:       fset.Position(method.Pos()).Line,
			})
			continue
		}
		for _, name := range method.Names {
			exported := ast.IsExported(name.Name)
			members = append(members, distiller.Member{
				Name:       name.Name,
				Kind:       distiller.MemberMethod,
				Signature:  sig,
				Visibility: goVisibility(exported),
				Line:       fset.Position(name.Pos()).Line,
				Doc:        goDoc(method.Doc, opts),
			})
		}
	}
	return members
}

// goNodeSignature slices the source between two positions and collapses it.
func goNodeSignature(from, to token.Pos, fset *token.FileSet, source []byte) string {
	start := fset.Position(from).Offset
	end := fset.Position(to).Offset
	if start < 0 || end > len(source) || start >= end {
		return ""
	}
	return collapseWhitespace(string(source[start:end]))
}

// bodyStart finds where a function's body begins so the signature stops there.
func bodyStart(d *ast.FuncDecl) token.Pos {
	if d.Body != nil {
		return d.Body.Pos()
	}
	return d.End()
}

func goVisibility(exported bool) distiller.Visibility {
	if exported {
		return distiller.VisibilityPublic
	}
	return distiller.VisibilityPrivate
}

func goDoc(group *ast.CommentGroup, opts distiller.Options) string {
	if group == nil || (!opts.IncludeDocstrings && !opts.IncludeComments) {
		return ""
	}
	return strings.TrimSpace(group.Text())
}

// receiverTypeName strips pointers and generics off a method receiver type.
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	}
	return ""
}
