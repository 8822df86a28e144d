package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/apisurface/distill/internal/distiller"
)

// NewTypeScript builds the TypeScript module: tree-sitter first, line-scan
// as the fallback. TSX files use the TSX grammar so JSX expressions parse.
func NewTypeScript() distiller.Module {
	ts := sitter.NewLanguage(typescript.LanguageTypescript())
	tsx := sitter.NewLanguage(typescript.LanguageTSX())
	return newModule(
		"typescript",
		[]string{".ts", ".tsx", ".mts", ".cts"},
		distiller.Capabilities{
			SupportsPrivateMembers: true,
			SupportsComments:       true,
			SupportsDocstrings:     true,
			MaxFileSize:            1024 * 1024,
		},
		newTreeSitterStrategyByExt("tree-sitter-typescript", ts,
			map[string]*sitter.Language{".tsx": tsx}, extractTypeScript),
		newLineScanner(typeScriptScanConfig()),
	)
}

// NewJavaScript builds the JavaScript module. The TypeScript grammar parses
// JavaScript, so the chain is shared; JSX files use the TSX grammar.
func NewJavaScript() distiller.Module {
	ts := sitter.NewLanguage(typescript.LanguageTypescript())
	tsx := sitter.NewLanguage(typescript.LanguageTSX())
	return newModule(
		"javascript",
		[]string{".js", ".jsx", ".mjs", ".cjs"},
		distiller.Capabilities{
			SupportsPrivateMembers: true,
			SupportsComments:       true,
			SupportsDocstrings:     true,
			MaxFileSize:            1024 * 1024,
		},
		newTreeSitterStrategyByExt("tree-sitter-typescript", ts,
			map[string]*sitter.Language{".jsx": tsx}, extractTypeScript),
		newLineScanner(typeScriptScanConfig()),
	)
}

func typeScriptScanConfig() lineScanConfig {
	return lineScanConfig{
		language: "typescript",
		keywords: []declKeyword{
			{"function", distiller.KindFunction},
			{"class", distiller.KindClass},
			{"interface", distiller.KindInterface},
			{"type", distiller.KindTypeAlias},
			{"enum", distiller.KindEnum},
			{"namespace", distiller.KindNamespace},
			{"const", distiller.KindVariable},
			{"let", distiller.KindVariable},
			{"var", distiller.KindVariable},
		},
		modifiers:       []string{"export", "default", "declare", "abstract", "async", "public", "private", "protected", "static"},
		exportModifiers: []string{"export", "default"},
		importPrefixes:  []string{"import ", "export {", "export *"},
	}
}

// extractTypeScript walks a TypeScript or JavaScript program and collects
// imports plus every top-level declaration.
func extractTypeScript(root *sitter.Node, source []byte, opts distiller.Options) (*distiller.ProcessResult, error) {
	result := &distiller.ProcessResult{Exports: []distiller.ExportedSymbol{}}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(uint(i))
		switch node.Kind() {
		case "import_statement":
			if record, ok := tsImportRecord(node, source); ok {
				result.Imports = append(result.Imports, record)
			}
		case "export_statement":
			decl := exportedDeclaration(node)
			if decl == nil {
				continue // re-exports carry no declaration of their own
			}
			if sym, ok := tsSymbol(decl, source, opts, true); ok {
				sym.Doc = docCommentBefore(node, source, opts)
				result.Exports = append(result.Exports, sym)
			}
		default:
			if sym, ok := tsSymbol(node, source, opts, false); ok {
				sym.Doc = docCommentBefore(node, source, opts)
				result.Exports = append(result.Exports, sym)
			}
		}
	}

	return result, nil
}

// exportedDeclaration unwraps the declaration behind an export statement.
func exportedDeclaration(node *sitter.Node) *sitter.Node {
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		return decl
	}
	if value := node.ChildByFieldName("value"); value != nil {
		return value
	}
	return nil
}

// tsSymbol converts one declaration node into an ExportedSymbol. Top-level
// declarations that are not exported are module-internal.
func tsSymbol(node *sitter.Node, source []byte, opts distiller.Options, exported bool) (distiller.ExportedSymbol, bool) {
	visibility := distiller.VisibilityPublic
	if !exported {
		visibility = distiller.VisibilityInternal
	}

	sym := distiller.ExportedSymbol{
		Visibility: visibility,
		Exported:   exported,
		Line:       nodeLine(node),
	}

	switch node.Kind() {
	case "class_declaration", "abstract_class_declaration":
		sym.Kind = distiller.KindClass
		sym.Name = nodeText(node.ChildByFieldName("name"), source)
		sym.Signature = signatureOf(node, source)
		sym.Members = tsClassMembers(node.ChildByFieldName("body"), source, opts)
	case "interface_declaration":
		sym.Kind = distiller.KindInterface
		sym.Name = nodeText(node.ChildByFieldName("name"), source)
		sym.Signature = signatureOf(node, source)
		sym.Members = tsInterfaceMembers(node.ChildByFieldName("body"), source, opts)
	case "type_alias_declaration":
		sym.Kind = distiller.KindTypeAlias
		sym.Name = nodeText(node.ChildByFieldName("name"), source)
		sym.Signature = collapseWhitespace(nodeText(node, source))
	case "enum_declaration":
		sym.Kind = distiller.KindEnum
		sym.Name = nodeText(node.ChildByFieldName("name"), source)
		sym.Signature = signatureOf(node, source)
	case "function_declaration", "generator_function_declaration":
		sym.Kind = distiller.KindFunction
		sym.Name = nodeText(node.ChildByFieldName("name"), source)
		sym.Signature = tsFunctionSignature(node, source)
	case "lexical_declaration", "variable_declaration":
		return tsVariableSymbol(node, source, visibility, exported)
	case "internal_module", "module":
		sym.Kind = distiller.KindNamespace
		sym.Name = nodeText(node.ChildByFieldName("name"), source)
		sym.Signature = signatureOf(node, source)
	case "ambient_declaration":
		if inner := node.NamedChild(0); inner != nil {
			return tsSymbol(inner, source, opts, exported)
		}
		return distiller.ExportedSymbol{}, false
	default:
		return distiller.ExportedSymbol{}, false
	}

	if sym.Name == "" {
		return distiller.ExportedSymbol{}, false
	}
	return sym, true
}

// tsVariableSymbol handles const/let/var declarations; only the first
// declarator names the symbol, matching how such APIs are documented.
func tsVariableSymbol(node *sitter.Node, source []byte, visibility distiller.Visibility, exported bool) (distiller.ExportedSymbol, bool) {
	declarators := findChildrenByType(node, "variable_declarator")
	if len(declarators) == 0 {
		return distiller.ExportedSymbol{}, false
	}
	decl := declarators[0]
	name := nodeText(decl.ChildByFieldName("name"), source)
	if name == "" {
		return distiller.ExportedSymbol{}, false
	}

	signature := name
	if typeNode := decl.ChildByFieldName("type"); typeNode != nil {
		signature += nodeText(typeNode, source)
	}
	keyword := strings.Fields(nodeText(node, source))
	if len(keyword) > 0 {
		signature = keyword[0] + " " + signature
	}

	return distiller.ExportedSymbol{
		Name:       name,
		Kind:       distiller.KindVariable,
		Signature:  collapseWhitespace(signature),
		Visibility: visibility,
		Exported:   exported,
		Line:       nodeLine(node),
	}, true
}

// tsFunctionSignature renders "function name(params): ret" without the body.
func tsFunctionSignature(node *sitter.Node, source []byte) string {
	name := nodeText(node.ChildByFieldName("name"), source)
	params := nodeText(node.ChildByFieldName("parameters"), source)
	if params == "" {
		params = "()"
	}
	sig := "function " + name + params
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		sig += nodeText(ret, source)
	}
	return collapseWhitespace(sig)
}

// tsClassMembers extracts methods and fields from a class body.
func tsClassMembers(body *sitter.Node, source []byte, opts distiller.Options) []distiller.Member {
	if body == nil {
		return nil
	}
	var members []distiller.Member
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(uint(i))
		switch child.Kind() {
		case "method_definition":
			members = append(members, tsMethodMember(child, source, opts))
		case "public_field_definition", "field_definition":
			members = append(members, tsFieldMember(child, source, opts))
		}
	}
	return members
}

// tsMethodMember builds a method/getter/setter/constructor member.
func tsMethodMember(node *sitter.Node, source []byte, opts distiller.Options) distiller.Member {
	name := nodeText(node.ChildByFieldName("name"), source)

	kind := distiller.MemberMethod
	switch {
	case name == "constructor":
		kind = distiller.MemberConstructor
	case hasKeywordChild(node, "get"):
		kind = distiller.MemberGetter
	case hasKeywordChild(node, "set"):
		kind = distiller.MemberSetter
	}

	sig := name + nodeText(node.ChildByFieldName("parameters"), source)
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		sig += nodeText(ret, source)
	}

	return distiller.Member{
		Name:       name,
		Kind:       kind,
		Signature:  collapseWhitespace(sig),
		Visibility: tsMemberVisibility(node, source, name),
		Static:     hasKeywordChild(node, "static"),
		Line:       nodeLine(node),
		Doc:        docCommentBefore(node, source, opts),
	}
}

// tsFieldMember builds a property member.
func tsFieldMember(node *sitter.Node, source []byte, opts distiller.Options) distiller.Member {
	name := nodeText(node.ChildByFieldName("name"), source)
	sig := name
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		sig += nodeText(typeNode, source)
	}
	return distiller.Member{
		Name:       name,
		Kind:       distiller.MemberProperty,
		Signature:  collapseWhitespace(sig),
		Visibility: tsMemberVisibility(node, source, name),
		Static:     hasKeywordChild(node, "static"),
		Optional:   strings.Contains(nodeText(node, source), name+"?"),
		Line:       nodeLine(node),
		Doc:        docCommentBefore(node, source, opts),
	}
}

// tsInterfaceMembers extracts property and method signatures from an
// interface body. Interface members are always public.
func tsInterfaceMembers(body *sitter.Node, source []byte, opts distiller.Options) []distiller.Member {
	if body == nil {
		return nil
	}
	var members []distiller.Member
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(uint(i))
		name := nodeText(child.ChildByFieldName("name"), source)
		if name == "" {
			continue
		}
		kind := distiller.MemberProperty
		if child.Kind() == "method_signature" {
			kind = distiller.MemberMethod
		}
		members = append(members, distiller.Member{
			Name:       name,
			Kind:       kind,
			Signature:  collapseWhitespace(strings.TrimSuffix(nodeText(child, source), ";")),
			Visibility: distiller.VisibilityPublic,
			Optional:   strings.Contains(nodeText(child, source), name+"?"),
			Line:       nodeLine(child),
			Doc:        docCommentBefore(child, source, opts),
		})
	}
	return members
}

// tsMemberVisibility reads the accessibility modifier; #-prefixed names are
// runtime-private.
func tsMemberVisibility(node *sitter.Node, source []byte, name string) distiller.Visibility {
	if strings.HasPrefix(name, "#") {
		return distiller.VisibilityPrivate
	}
	if mod := findChildByType(node, "accessibility_modifier"); mod != nil {
		switch nodeText(mod, source) {
		case "private":
			return distiller.VisibilityPrivate
		case "protected":
			return distiller.VisibilityProtected
		}
	}
	return distiller.VisibilityPublic
}

// hasKeywordChild reports whether a node carries the given anonymous
// keyword child ("static", "get", "set").
func hasKeywordChild(node *sitter.Node, keyword string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(uint(i)).Kind() == keyword {
			return true
		}
	}
	return false
}

// tsImportRecord reads the module string and named specifiers.
func tsImportRecord(node *sitter.Node, source []byte) (distiller.ImportRecord, bool) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return distiller.ImportRecord{}, false
	}
	module := strings.Trim(nodeText(sourceNode, source), `'"`)

	record := distiller.ImportRecord{Module: module, Line: nodeLine(node)}
	walkTree(node, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_specifier":
			record.Specifiers = append(record.Specifiers, nodeText(n.ChildByFieldName("name"), source))
			return false
		case "namespace_import":
			if id := findChildByType(n, "identifier"); id != nil {
				record.Specifiers = append(record.Specifiers, nodeText(id, source))
			}
			return false
		case "import_clause":
			if id := findChildByType(n, "identifier"); id != nil {
				record.Specifiers = append(record.Specifiers, nodeText(id, source))
			}
		}
		return true
	})
	return record, true
}
