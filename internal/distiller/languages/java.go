package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/apisurface/distill/internal/distiller"
)

// NewJava builds the Java module.
func NewJava() distiller.Module {
	lang := sitter.NewLanguage(java.Language())
	return newModule(
		"java",
		[]string{".java"},
		distiller.Capabilities{
			SupportsPrivateMembers: true,
			SupportsComments:       true,
			SupportsDocstrings:     true,
			MaxFileSize:            1024 * 1024,
		},
		newTreeSitterStrategy("tree-sitter-java", lang, extractJava),
		newLineScanner(javaScanConfig()),
	)
}

func javaScanConfig() lineScanConfig {
	return lineScanConfig{
		language: "java",
		keywords: []declKeyword{
			{"class", distiller.KindClass},
			{"interface", distiller.KindInterface},
			{"enum", distiller.KindEnum},
			{"record", distiller.KindClass},
		},
		modifiers: []string{
			"public", "private", "protected", "static", "final",
			"abstract", "sealed", "non", "strictfp",
		},
		exportModifiers: []string{"public"},
		importPrefixes:  []string{"import "},
	}
}

func extractJava(root *sitter.Node, source []byte, opts distiller.Options) (*distiller.ProcessResult, error) {
	result := &distiller.ProcessResult{Exports: []distiller.ExportedSymbol{}}

	walkTree(root, func(node *sitter.Node) bool {
		switch node.Kind() {
		case "import_declaration":
			if name := findChildByType(node, "scoped_identifier"); name != nil {
				result.Imports = append(result.Imports, distiller.ImportRecord{
					Module: nodeText(name, source),
					Line:   nodeLine(node),
				})
			}
			return false
		case "class_declaration", "record_declaration":
			result.Exports = append(result.Exports, javaTypeSymbol(node, source, distiller.KindClass, opts))
			return false
		case "interface_declaration":
			result.Exports = append(result.Exports, javaTypeSymbol(node, source, distiller.KindInterface, opts))
			return false
		case "enum_declaration":
			result.Exports = append(result.Exports, javaTypeSymbol(node, source, distiller.KindEnum, opts))
			return false
		}
		return true
	})

	return result, nil
}

// javaTypeSymbol builds a class, interface, record, or enum symbol along with
// its fields and methods.
func javaTypeSymbol(node *sitter.Node, source []byte, kind distiller.ExportKind, opts distiller.Options) distiller.ExportedSymbol {
	name := nodeText(node.ChildByFieldName("name"), source)
	visibility := javaVisibility(node, source)

	sym := distiller.ExportedSymbol{
		Name:       name,
		Kind:       kind,
		Signature:  signatureOf(node, source),
		Visibility: visibility,
		Exported:   visibility == distiller.VisibilityPublic,
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
		case "field_declaration":
			sym.Members = append(sym.Members, javaFieldMembers(child, source, opts)...)
		case "method_declaration":
			sym.Members = append(sym.Members, javaMethodMember(child, source, opts))
		case "constructor_declaration":
			member := javaMethodMember(child, source, opts)
			member.Kind = distiller.MemberConstructor
			sym.Members = append(sym.Members, member)
		}
	}
	return sym
}

func javaFieldMembers(node *sitter.Node, source []byte, opts distiller.Options) []distiller.Member {
	visibility := javaVisibility(node, source)
	static := javaHasModifier(node, source, "static")
	doc := docCommentBefore(node, source, opts)
	typeSig := nodeText(node.ChildByFieldName("type"), source)

	var members []distiller.Member
	for _, declarator := range findChildrenByType(node, "variable_declarator") {
		name := nodeText(declarator.ChildByFieldName("name"), source)
		if name == "" {
			continue
		}
		members = append(members, distiller.Member{
			Name:       name,
			Kind:       distiller.MemberProperty,
			Signature:  collapseWhitespace(typeSig + " " + name),
			Visibility: visibility,
			Static:     static,
			Line:       nodeLine(declarator),
			Doc:        doc,
		})
	}
	return members
}

func javaMethodMember(node *sitter.Node, source []byte, opts distiller.Options) distiller.Member {
	name := nodeText(node.ChildByFieldName("name"), source)
	return distiller.Member{
		Name:       name,
		Kind:       distiller.MemberMethod,
		Signature:  signatureOf(node, source),
		Visibility: javaVisibility(node, source),
		Static:     javaHasModifier(node, source, "static"),
		Line:       nodeLine(node),
		Doc:        docCommentBefore(node, source, opts),
	}
}

// javaVisibility reads the modifiers node. No access modifier means
// package-private, which maps to internal.
func javaVisibility(node *sitter.Node, source []byte) distiller.Visibility {
	switch {
	case javaHasModifier(node, source, "public"):
		return distiller.VisibilityPublic
	case javaHasModifier(node, source, "private"):
		return distiller.VisibilityPrivate
	case javaHasModifier(node, source, "protected"):
		return distiller.VisibilityProtected
	}
	return distiller.VisibilityInternal
}

func javaHasModifier(node *sitter.Node, source []byte, want string) bool {
	modifiers := findChildByType(node, "modifiers")
	if modifiers == nil {
		return false
	}
	for _, field := range strings.Fields(nodeText(modifiers, source)) {
		if field == want {
			return true
		}
	}
	return false
}
