package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"

	"github.com/apisurface/distill/internal/distiller"
)

// NewRuby builds the Ruby module.
func NewRuby() distiller.Module {
	lang := sitter.NewLanguage(ruby.Language())
	return newModule(
		"ruby",
		[]string{".rb", ".rake"},
		distiller.Capabilities{
			SupportsPrivateMembers: true,
			SupportsComments:       true,
			SupportsDocstrings:     false,
			MaxFileSize:            1024 * 1024,
		},
		newTreeSitterStrategy("tree-sitter-ruby", lang, extractRuby),
		newLineScanner(rubyScanConfig()),
	)
}

func rubyScanConfig() lineScanConfig {
	return lineScanConfig{
		language: "ruby",
		keywords: []declKeyword{
			{"def", distiller.KindFunction},
			{"class", distiller.KindClass},
			{"module", distiller.KindNamespace},
		},
		privatePrefix:  "_",
		endBody:        true,
		commentPrefix:  "#",
		importPrefixes: []string{"require ", "require_relative "},
	}
}

func extractRuby(root *sitter.Node, source []byte, opts distiller.Options) (*distiller.ProcessResult, error) {
	result := &distiller.ProcessResult{Exports: []distiller.ExportedSymbol{}}
	rubyExtractScope(root, source, result, opts)
	return result, nil
}

// rubyExtractScope walks one scope's statements. Top level and module bodies
// share the same shape.
func rubyExtractScope(scope *sitter.Node, source []byte, result *distiller.ProcessResult, opts distiller.Options) {
	for i := 0; i < int(scope.NamedChildCount()); i++ {
		node := scope.NamedChild(uint(i))
		switch node.Kind() {
		case "call":
			if record, ok := rubyRequire(node, source); ok {
				result.Imports = append(result.Imports, record)
			}
		case "class":
			result.Exports = append(result.Exports, rubyClassSymbol(node, source, distiller.KindClass, opts))
		case "module":
			result.Exports = append(result.Exports, rubyClassSymbol(node, source, distiller.KindNamespace, opts))
		case "method":
			result.Exports = append(result.Exports, rubyMethodSymbol(node, source))
		case "assignment":
			if sym, ok := rubyConstantSymbol(node, source); ok {
				result.Exports = append(result.Exports, sym)
			}
		}
	}
}

// rubyClassSymbol builds a class or module symbol. Method visibility follows
// the private/protected/public sections of the body.
func rubyClassSymbol(node *sitter.Node, source []byte, kind distiller.ExportKind, opts distiller.Options) distiller.ExportedSymbol {
	name := nodeText(node.ChildByFieldName("name"), source)

	sig := "class " + name
	if kind == distiller.KindNamespace {
		sig = "module " + name
	}
	if super := node.ChildByFieldName("superclass"); super != nil {
		sig += " " + nodeText(super, source)
	}

	sym := distiller.ExportedSymbol{
		Name:       name,
		Kind:       kind,
		Signature:  collapseWhitespace(sig),
		Visibility: distiller.VisibilityPublic,
		Exported:   true,
		Line:       nodeLine(node),
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		body = findChildByType(node, "body_statement")
	}
	if body == nil {
		return sym
	}

	current := distiller.VisibilityPublic
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(uint(i))
		switch child.Kind() {
		case "identifier":
			if vis, ok := rubyVisibilityKeyword(nodeText(child, source)); ok {
				current = vis
			}
		case "call":
			sym.Members = append(sym.Members, rubyAttrMembers(child, source, current)...)
		case "method":
			sym.Members = append(sym.Members, rubyMethodMember(child, source, current, false))
		case "singleton_method":
			sym.Members = append(sym.Members, rubyMethodMember(child, source, current, true))
		}
	}
	return sym
}

func rubyMethodMember(node *sitter.Node, source []byte, visibility distiller.Visibility, static bool) distiller.Member {
	name := nodeText(node.ChildByFieldName("name"), source)
	kind := distiller.MemberMethod
	if name == "initialize" {
		kind = distiller.MemberConstructor
	}
	return distiller.Member{
		Name:       name,
		Kind:       kind,
		Signature:  rubyMethodSignature(node, source),
		Visibility: visibility,
		Static:     static,
		Line:       nodeLine(node),
	}
}

func rubyMethodSymbol(node *sitter.Node, source []byte) distiller.ExportedSymbol {
	name := nodeText(node.ChildByFieldName("name"), source)
	private := strings.HasPrefix(name, "_")
	visibility := distiller.VisibilityPublic
	if private {
		visibility = distiller.VisibilityPrivate
	}
	return distiller.ExportedSymbol{
		Name:       name,
		Kind:       distiller.KindFunction,
		Signature:  rubyMethodSignature(node, source),
		Visibility: visibility,
		Exported:   !private,
		Line:       nodeLine(node),
	}
}

func rubyMethodSignature(node *sitter.Node, source []byte) string {
	sig := "def " + nodeText(node.ChildByFieldName("name"), source)
	if params := node.ChildByFieldName("parameters"); params != nil {
		sig += nodeText(params, source)
	}
	return collapseWhitespace(sig)
}

// rubyConstantSymbol captures SCREAMING_CASE and Constant assignments.
func rubyConstantSymbol(node *sitter.Node, source []byte) (distiller.ExportedSymbol, bool) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Kind() != "constant" {
		return distiller.ExportedSymbol{}, false
	}
	name := nodeText(left, source)
	return distiller.ExportedSymbol{
		Name:       name,
		Kind:       distiller.KindVariable,
		Signature:  name,
		Visibility: distiller.VisibilityPublic,
		Exported:   true,
		Line:       nodeLine(node),
	}, true
}

// rubyAttrMembers expands attr_reader/writer/accessor calls into properties.
func rubyAttrMembers(call *sitter.Node, source []byte, visibility distiller.Visibility) []distiller.Member {
	method := nodeText(call.ChildByFieldName("method"), source)
	var kind distiller.MemberKind
	switch method {
	case "attr_reader":
		kind = distiller.MemberGetter
	case "attr_writer":
		kind = distiller.MemberSetter
	case "attr_accessor":
		kind = distiller.MemberProperty
	default:
		return nil
	}

	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var members []distiller.Member
	for _, arg := range findChildrenByType(args, "simple_symbol") {
		name := strings.TrimPrefix(nodeText(arg, source), ":")
		members = append(members, distiller.Member{
			Name:       name,
			Kind:       kind,
			Signature:  method + " :" + name,
			Visibility: visibility,
			Line:       nodeLine(arg),
		})
	}
	return members
}

func rubyVisibilityKeyword(word string) (distiller.Visibility, bool) {
	switch word {
	case "private":
		return distiller.VisibilityPrivate, true
	case "protected":
		return distiller.VisibilityProtected, true
	case "public":
		return distiller.VisibilityPublic, true
	}
	return distiller.VisibilityPublic, false
}

// rubyRequire recognizes require and require_relative calls.
func rubyRequire(call *sitter.Node, source []byte) (distiller.ImportRecord, bool) {
	method := nodeText(call.ChildByFieldName("method"), source)
	if method != "require" && method != "require_relative" {
		return distiller.ImportRecord{}, false
	}
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return distiller.ImportRecord{}, false
	}
	str := findChildByType(args, "string")
	if str == nil {
		return distiller.ImportRecord{}, false
	}
	module := strings.Trim(nodeText(str, source), `"'`)
	if method == "require_relative" && !strings.HasPrefix(module, ".") {
		module = "./" + module
	}
	return distiller.ImportRecord{Module: module, Line: nodeLine(call)}, true
}
