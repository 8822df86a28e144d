package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/apisurface/distill/internal/distiller"
)

// NewPHP builds the PHP module.
func NewPHP() distiller.Module {
	lang := sitter.NewLanguage(php.LanguagePHP())
	return newModule(
		"php",
		[]string{".php"},
		distiller.Capabilities{
			SupportsPrivateMembers: true,
			SupportsComments:       true,
			SupportsDocstrings:     true,
			MaxFileSize:            1024 * 1024,
		},
		newTreeSitterStrategy("tree-sitter-php", lang, extractPHP),
		newLineScanner(phpScanConfig()),
	)
}

func phpScanConfig() lineScanConfig {
	return lineScanConfig{
		language: "php",
		keywords: []declKeyword{
			{"class", distiller.KindClass},
			{"interface", distiller.KindInterface},
			{"trait", distiller.KindClass},
			{"enum", distiller.KindEnum},
			{"function", distiller.KindFunction},
		},
		modifiers: []string{
			"public", "private", "protected", "static", "final", "abstract", "readonly",
		},
		importPrefixes: []string{"use ", "require ", "require_once ", "include ", "include_once "},
	}
}

func extractPHP(root *sitter.Node, source []byte, opts distiller.Options) (*distiller.ProcessResult, error) {
	result := &distiller.ProcessResult{Exports: []distiller.ExportedSymbol{}}

	walkTree(root, func(node *sitter.Node) bool {
		switch node.Kind() {
		case "namespace_use_declaration":
			for _, clause := range findChildrenByType(node, "namespace_use_clause") {
				result.Imports = append(result.Imports, distiller.ImportRecord{
					Module: nodeText(clause, source),
					Line:   nodeLine(node),
				})
			}
			return false
		case "class_declaration", "trait_declaration":
			result.Exports = append(result.Exports, phpClassSymbol(node, source, distiller.KindClass, opts))
			return false
		case "interface_declaration":
			result.Exports = append(result.Exports, phpClassSymbol(node, source, distiller.KindInterface, opts))
			return false
		case "enum_declaration":
			result.Exports = append(result.Exports, phpClassSymbol(node, source, distiller.KindEnum, opts))
			return false
		case "function_definition":
			result.Exports = append(result.Exports, phpFunctionSymbol(node, source, opts))
			return false
		}
		return true
	})

	return result, nil
}

func phpClassSymbol(node *sitter.Node, source []byte, kind distiller.ExportKind, opts distiller.Options) distiller.ExportedSymbol {
	name := nodeText(node.ChildByFieldName("name"), source)

	sym := distiller.ExportedSymbol{
		Name:       name,
		Kind:       kind,
		Signature:  signatureOf(node, source),
		Visibility: distiller.VisibilityPublic,
		Exported:   true,
		Line:       nodeLine(node),
		Doc:        docCommentBefore(node, source, opts),
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return sym
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(uint(i))
		switch child.Kind() {
		case "method_declaration":
			sym.Members = append(sym.Members, phpMethodMember(child, source, opts))
		case "property_declaration":
			sym.Members = append(sym.Members, phpPropertyMembers(child, source, opts)...)
		case "const_declaration":
			sym.Members = append(sym.Members, phpConstMembers(child, source)...)
		}
	}
	return sym
}

func phpMethodMember(node *sitter.Node, source []byte, opts distiller.Options) distiller.Member {
	name := nodeText(node.ChildByFieldName("name"), source)
	kind := distiller.MemberMethod
	if name == "__construct" {
		kind = distiller.MemberConstructor
	}
	return distiller.Member{
		Name:       name,
		Kind:       kind,
		Signature:  signatureOf(node, source),
		Visibility: phpVisibility(node, source),
		Static:     phpHasModifier(node, "static"),
		Line:       nodeLine(node),
		Doc:        docCommentBefore(node, source, opts),
	}
}

func phpPropertyMembers(node *sitter.Node, source []byte, opts distiller.Options) []distiller.Member {
	visibility := phpVisibility(node, source)
	static := phpHasModifier(node, "static")
	doc := docCommentBefore(node, source, opts)

	var members []distiller.Member
	for _, element := range findChildrenByType(node, "property_element") {
		name := strings.TrimPrefix(nodeText(findChildByType(element, "variable_name"), source), "$")
		if name == "" {
			continue
		}
		members = append(members, distiller.Member{
			Name:       name,
			Kind:       distiller.MemberProperty,
			Signature:  collapseWhitespace(strings.TrimSuffix(strings.TrimSpace(nodeText(node, source)), ";")),
			Visibility: visibility,
			Static:     static,
			Line:       nodeLine(element),
			Doc:        doc,
		})
	}
	return members
}

func phpConstMembers(node *sitter.Node, source []byte) []distiller.Member {
	visibility := phpVisibility(node, source)
	var members []distiller.Member
	for _, element := range findChildrenByType(node, "const_element") {
		name := nodeText(element.NamedChild(0), source)
		if name == "" {
			continue
		}
		members = append(members, distiller.Member{
			Name:       name,
			Kind:       distiller.MemberProperty,
			Signature:  "const " + collapseWhitespace(nodeText(element, source)),
			Visibility: visibility,
			Static:     true,
			Line:       nodeLine(element),
		})
	}
	return members
}

func phpFunctionSymbol(node *sitter.Node, source []byte, opts distiller.Options) distiller.ExportedSymbol {
	name := nodeText(node.ChildByFieldName("name"), source)
	return distiller.ExportedSymbol{
		Name:       name,
		Kind:       distiller.KindFunction,
		Signature:  signatureOf(node, source),
		Visibility: distiller.VisibilityPublic,
		Exported:   true,
		Line:       nodeLine(node),
		Doc:        docCommentBefore(node, source, opts),
	}
}

// phpVisibility reads an explicit modifier; PHP defaults to public.
func phpVisibility(node *sitter.Node, source []byte) distiller.Visibility {
	vis := findChildByType(node, "visibility_modifier")
	if vis == nil {
		return distiller.VisibilityPublic
	}
	switch nodeText(vis, source) {
	case "private":
		return distiller.VisibilityPrivate
	case "protected":
		return distiller.VisibilityProtected
	}
	return distiller.VisibilityPublic
}

func phpHasModifier(node *sitter.Node, kind string) bool {
	return hasChildOfType(node, kind+"_modifier")
}
