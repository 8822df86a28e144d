package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/apisurface/distill/internal/distiller"
)

// NewC builds the C module. There is no visibility syntax; static linkage
// maps to internal, everything else is public.
func NewC() distiller.Module {
	lang := sitter.NewLanguage(c.Language())
	return newModule(
		"c",
		[]string{".c", ".h"},
		distiller.Capabilities{
			SupportsPrivateMembers: false,
			SupportsComments:       true,
			SupportsDocstrings:     false,
			MaxFileSize:            1024 * 1024,
		},
		newTreeSitterStrategy("tree-sitter-c", lang, extractC),
		newLineScanner(cScanConfig()),
	)
}

func cScanConfig() lineScanConfig {
	return lineScanConfig{
		language: "c",
		keywords: []declKeyword{
			{"struct", distiller.KindClass},
			{"union", distiller.KindClass},
			{"enum", distiller.KindEnum},
			{"typedef", distiller.KindTypeAlias},
		},
		modifiers:      []string{"static", "extern", "inline", "const"},
		importPrefixes: []string{"#include "},
	}
}

func extractC(root *sitter.Node, source []byte, opts distiller.Options) (*distiller.ProcessResult, error) {
	result := &distiller.ProcessResult{Exports: []distiller.ExportedSymbol{}}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(uint(i))
		switch node.Kind() {
		case "preproc_include":
			if path := node.ChildByFieldName("path"); path != nil {
				result.Imports = append(result.Imports, distiller.ImportRecord{
					Module: strings.Trim(nodeText(path, source), `"<>`),
					Line:   nodeLine(node),
				})
			}
		case "function_definition":
			if sym, ok := cFunctionSymbol(node, source, opts); ok {
				result.Exports = append(result.Exports, sym)
			}
		case "declaration":
			if sym, ok := cDeclarationSymbol(node, source, opts); ok {
				result.Exports = append(result.Exports, sym)
			}
		case "struct_specifier", "union_specifier":
			if sym, ok := cAggregateSymbol(node, source, distiller.KindClass, opts); ok {
				result.Exports = append(result.Exports, sym)
			}
		case "enum_specifier":
			if sym, ok := cAggregateSymbol(node, source, distiller.KindEnum, opts); ok {
				result.Exports = append(result.Exports, sym)
			}
		case "type_definition":
			if sym, ok := cTypedefSymbol(node, source, opts); ok {
				result.Exports = append(result.Exports, sym)
			}
		}
	}

	return result, nil
}

func cFunctionSymbol(node *sitter.Node, source []byte, opts distiller.Options) (distiller.ExportedSymbol, bool) {
	declarator := node.ChildByFieldName("declarator")
	name := cDeclaratorName(declarator, source)
	if name == "" {
		return distiller.ExportedSymbol{}, false
	}
	static := cIsStatic(node, source)
	return distiller.ExportedSymbol{
		Name:       name,
		Kind:       distiller.KindFunction,
		Signature:  signatureOf(node, source),
		Visibility: cVisibility(static),
		Exported:   !static,
		Line:       nodeLine(node),
		Doc:        docCommentBefore(node, source, opts),
	}, true
}

// cDeclarationSymbol handles prototypes and file-scope variables.
func cDeclarationSymbol(node *sitter.Node, source []byte, opts distiller.Options) (distiller.ExportedSymbol, bool) {
	declarator := node.ChildByFieldName("declarator")
	if declarator == nil {
		return distiller.ExportedSymbol{}, false
	}
	kind := distiller.KindVariable
	if declarator.Kind() == "function_declarator" ||
		findChildByType(declarator, "function_declarator") != nil {
		kind = distiller.KindFunction
	}
	name := cDeclaratorName(declarator, source)
	if name == "" {
		return distiller.ExportedSymbol{}, false
	}
	static := cIsStatic(node, source)
	return distiller.ExportedSymbol{
		Name:       name,
		Kind:       kind,
		Signature:  collapseWhitespace(strings.TrimSuffix(strings.TrimSpace(nodeText(node, source)), ";")),
		Visibility: cVisibility(static),
		Exported:   !static,
		Line:       nodeLine(node),
		Doc:        docCommentBefore(node, source, opts),
	}, true
}

func cAggregateSymbol(node *sitter.Node, source []byte, kind distiller.ExportKind, opts distiller.Options) (distiller.ExportedSymbol, bool) {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return distiller.ExportedSymbol{}, false
	}
	sym := distiller.ExportedSymbol{
		Name:       name,
		Kind:       kind,
		Signature:  signatureOf(node, source),
		Visibility: distiller.VisibilityPublic,
		Exported:   true,
		Line:       nodeLine(node),
		Doc:        docCommentBefore(node, source, opts),
	}
	if body := node.ChildByFieldName("body"); body != nil && kind == distiller.KindClass {
		for _, field := range findChildrenByType(body, "field_declaration") {
			fieldName := cDeclaratorName(field.ChildByFieldName("declarator"), source)
			if fieldName == "" {
				continue
			}
			sym.Members = append(sym.Members, distiller.Member{
				Name:       fieldName,
				Kind:       distiller.MemberProperty,
				Signature:  collapseWhitespace(strings.TrimSuffix(strings.TrimSpace(nodeText(field, source)), ";")),
				Visibility: distiller.VisibilityPublic,
				Line:       nodeLine(field),
			})
		}
	}
	return sym, true
}

func cTypedefSymbol(node *sitter.Node, source []byte, opts distiller.Options) (distiller.ExportedSymbol, bool) {
	declarator := node.ChildByFieldName("declarator")
	name := cDeclaratorName(declarator, source)
	if name == "" {
		return distiller.ExportedSymbol{}, false
	}
	return distiller.ExportedSymbol{
		Name:       name,
		Kind:       distiller.KindTypeAlias,
		Signature:  signatureOf(node, source),
		Visibility: distiller.VisibilityPublic,
		Exported:   true,
		Line:       nodeLine(node),
		Doc:        docCommentBefore(node, source, opts),
	}, true
}

// cDeclaratorName digs through pointer, array, and function declarators to
// the underlying identifier.
func cDeclaratorName(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "identifier", "field_identifier", "type_identifier":
		return nodeText(node, source)
	}
	if inner := node.ChildByFieldName("declarator"); inner != nil {
		return cDeclaratorName(inner, source)
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if name := cDeclaratorName(node.NamedChild(uint(i)), source); name != "" {
			return name
		}
	}
	return ""
}

func cIsStatic(node *sitter.Node, source []byte) bool {
	for _, spec := range findChildrenByType(node, "storage_class_specifier") {
		if nodeText(spec, source) == "static" {
			return true
		}
	}
	return false
}

func cVisibility(static bool) distiller.Visibility {
	if static {
		return distiller.VisibilityInternal
	}
	return distiller.VisibilityPublic
}
