package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/apisurface/distill/internal/distiller"
)

// NewRust builds the Rust module.
func NewRust() distiller.Module {
	lang := sitter.NewLanguage(rust.Language())
	return newModule(
		"rust",
		[]string{".rs"},
		distiller.Capabilities{
			SupportsPrivateMembers: true,
			SupportsComments:       true,
			SupportsDocstrings:     true,
			MaxFileSize:            1024 * 1024,
		},
		newTreeSitterStrategy("tree-sitter-rust", lang, extractRust),
		newLineScanner(rustScanConfig()),
	)
}

func rustScanConfig() lineScanConfig {
	return lineScanConfig{
		language: "rust",
		keywords: []declKeyword{
			{"fn", distiller.KindFunction},
			{"struct", distiller.KindClass},
			{"enum", distiller.KindEnum},
			{"trait", distiller.KindInterface},
			{"type", distiller.KindTypeAlias},
			{"const", distiller.KindVariable},
			{"static", distiller.KindVariable},
			{"mod", distiller.KindNamespace},
		},
		modifiers:       []string{"pub", "async", "unsafe", "extern"},
		exportModifiers: []string{"pub"},
		importPrefixes:  []string{"use "},
	}
}

func extractRust(root *sitter.Node, source []byte, opts distiller.Options) (*distiller.ProcessResult, error) {
	result := &distiller.ProcessResult{Exports: []distiller.ExportedSymbol{}}

	// impl blocks are folded into their type's symbol afterwards.
	methods := map[string][]distiller.Member{}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(uint(i))
		switch node.Kind() {
		case "use_declaration":
			if arg := node.ChildByFieldName("argument"); arg != nil {
				result.Imports = append(result.Imports, distiller.ImportRecord{
					Module: nodeText(arg, source),
					Line:   nodeLine(node),
				})
			}
		case "struct_item":
			result.Exports = append(result.Exports, rustStructSymbol(node, source, opts))
		case "enum_item":
			result.Exports = append(result.Exports, rustSimpleSymbol(node, source, distiller.KindEnum, opts))
		case "trait_item":
			result.Exports = append(result.Exports, rustTraitSymbol(node, source, opts))
		case "function_item":
			result.Exports = append(result.Exports, rustSimpleSymbol(node, source, distiller.KindFunction, opts))
		case "type_item":
			result.Exports = append(result.Exports, rustSimpleSymbol(node, source, distiller.KindTypeAlias, opts))
		case "const_item", "static_item":
			result.Exports = append(result.Exports, rustSimpleSymbol(node, source, distiller.KindVariable, opts))
		case "mod_item":
			result.Exports = append(result.Exports, rustSimpleSymbol(node, source, distiller.KindNamespace, opts))
		case "impl_item":
			name, members := rustImplMembers(node, source, opts)
			if name != "" {
				methods[name] = append(methods[name], members...)
			}
		}
	}

	for i := range result.Exports {
		sym := &result.Exports[i]
		if sym.Kind == distiller.KindClass || sym.Kind == distiller.KindEnum {
			sym.Members = append(sym.Members, methods[sym.Name]...)
		}
	}

	return result, nil
}

func rustSimpleSymbol(node *sitter.Node, source []byte, kind distiller.ExportKind, opts distiller.Options) distiller.ExportedSymbol {
	name := nodeText(node.ChildByFieldName("name"), source)
	public := rustIsPub(node, source)
	return distiller.ExportedSymbol{
		Name:       name,
		Kind:       kind,
		Signature:  rustSignature(node, source),
		Visibility: rustVisibility(public),
		Exported:   public,
		Line:       nodeLine(node),
		Doc:        rustDocComment(node, source, opts),
	}
}

func rustStructSymbol(node *sitter.Node, source []byte, opts distiller.Options) distiller.ExportedSymbol {
	sym := rustSimpleSymbol(node, source, distiller.KindClass, opts)
	body := node.ChildByFieldName("body")
	if body == nil {
		return sym
	}
	for _, field := range findChildrenByType(body, "field_declaration") {
		name := nodeText(field.ChildByFieldName("name"), source)
		if name == "" {
			continue
		}
		public := rustIsPub(field, source)
		sym.Members = append(sym.Members, distiller.Member{
			Name:       name,
			Kind:       distiller.MemberProperty,
			Signature:  collapseWhitespace(name + ": " + nodeText(field.ChildByFieldName("type"), source)),
			Visibility: rustVisibility(public),
			Line:       nodeLine(field),
			Doc:        rustDocComment(field, source, opts),
		})
	}
	return sym
}

func rustTraitSymbol(node *sitter.Node, source []byte, opts distiller.Options) distiller.ExportedSymbol {
	sym := rustSimpleSymbol(node, source, distiller.KindInterface, opts)
	body := node.ChildByFieldName("body")
	if body == nil {
		return sym
	}
	for _, fn := range findChildrenByType(body, "function_signature_item") {
		sym.Members = append(sym.Members, rustFnMember(fn, source, opts))
	}
	for _, fn := range findChildrenByType(body, "function_item") {
		sym.Members = append(sym.Members, rustFnMember(fn, source, opts))
	}
	return sym
}

// rustImplMembers returns the implemented type's name and its methods.
func rustImplMembers(node *sitter.Node, source []byte, opts distiller.Options) (string, []distiller.Member) {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return "", nil
	}
	name := nodeText(typeNode, source)
	if idx := strings.IndexByte(name, '<'); idx != -1 {
		name = name[:idx]
	}

	var members []distiller.Member
	if body := node.ChildByFieldName("body"); body != nil {
		for _, fn := range findChildrenByType(body, "function_item") {
			members = append(members, rustFnMember(fn, source, opts))
		}
	}
	return name, members
}

func rustFnMember(node *sitter.Node, source []byte, opts distiller.Options) distiller.Member {
	name := nodeText(node.ChildByFieldName("name"), source)
	public := rustIsPub(node, source)
	kind := distiller.MemberMethod
	if name == "new" {
		kind = distiller.MemberConstructor
	}
	return distiller.Member{
		Name:       name,
		Kind:       kind,
		Signature:  rustSignature(node, source),
		Visibility: rustVisibility(public),
		Static:     !rustHasSelfParam(node, source),
		Line:       nodeLine(node),
		Doc:        rustDocComment(node, source, opts),
	}
}

func rustSignature(node *sitter.Node, source []byte) string {
	text := nodeText(node, source)
	if idx := strings.IndexByte(text, '{'); idx != -1 {
		text = text[:idx]
	}
	return collapseWhitespace(strings.TrimSuffix(strings.TrimSpace(text), ";"))
}

func rustIsPub(node *sitter.Node, source []byte) bool {
	vis := findChildByType(node, "visibility_modifier")
	return vis != nil && strings.HasPrefix(nodeText(vis, source), "pub")
}

func rustVisibility(public bool) distiller.Visibility {
	if public {
		return distiller.VisibilityPublic
	}
	return distiller.VisibilityPrivate
}

func rustHasSelfParam(node *sitter.Node, source []byte) bool {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return false
	}
	return findChildByType(params, "self_parameter") != nil
}

// rustDocComment gathers the run of /// line_comment siblings above a node.
func rustDocComment(node *sitter.Node, source []byte, opts distiller.Options) string {
	if !opts.IncludeDocstrings && !opts.IncludeComments {
		return ""
	}
	var lines []string
	prev := node.PrevNamedSibling()
	expect := int(node.StartPosition().Row)
	for prev != nil && prev.Kind() == "line_comment" && int(prev.EndPosition().Row)+1 >= expect {
		text := strings.TrimSpace(nodeText(prev, source))
		if !strings.HasPrefix(text, "///") && !opts.IncludeComments {
			break
		}
		text = strings.TrimPrefix(text, "///")
		text = strings.TrimPrefix(text, "//")
		lines = append([]string{strings.TrimSpace(text)}, lines...)
		expect = int(prev.StartPosition().Row)
		prev = prev.PrevNamedSibling()
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
