package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/apisurface/distill/internal/distiller"
)

// NewPython builds the Python module: tree-sitter first, then an
// indent-aware line scanner.
func NewPython() distiller.Module {
	lang := sitter.NewLanguage(python.Language())
	return newModule(
		"python",
		[]string{".py", ".pyi"},
		distiller.Capabilities{
			SupportsPrivateMembers: true,
			SupportsComments:       true,
			SupportsDocstrings:     true,
			MaxFileSize:            1024 * 1024,
		},
		newTreeSitterStrategy("tree-sitter-python", lang, extractPython),
		newLineScanner(pythonScanConfig()),
	)
}

func pythonScanConfig() lineScanConfig {
	return lineScanConfig{
		language: "python",
		keywords: []declKeyword{
			{"def", distiller.KindFunction},
			{"class", distiller.KindClass},
		},
		modifiers:      []string{"async"},
		privatePrefix:  "_",
		indentBody:     true,
		commentPrefix:  "#",
		importPrefixes: []string{"import ", "from "},
	}
}

// extractPython collects module-level classes, functions, and assignments.
func extractPython(root *sitter.Node, source []byte, opts distiller.Options) (*distiller.ProcessResult, error) {
	result := &distiller.ProcessResult{Exports: []distiller.ExportedSymbol{}}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(uint(i))
		switch node.Kind() {
		case "import_statement", "import_from_statement":
			if record, ok := pyImportRecord(node, source); ok {
				result.Imports = append(result.Imports, record)
			}
		case "class_definition":
			result.Exports = append(result.Exports, pyClassSymbol(node, source, opts))
		case "function_definition":
			result.Exports = append(result.Exports, pyFunctionSymbol(node, source, "", opts))
		case "decorated_definition":
			if inner := node.ChildByFieldName("definition"); inner != nil {
				switch inner.Kind() {
				case "class_definition":
					result.Exports = append(result.Exports, pyClassSymbol(inner, source, opts))
				case "function_definition":
					result.Exports = append(result.Exports, pyFunctionSymbol(inner, source, "", opts))
				}
			}
		case "expression_statement":
			if sym, ok := pyAssignmentSymbol(node, source); ok {
				result.Exports = append(result.Exports, sym)
			}
		}
	}

	return result, nil
}

// pyClassSymbol builds a class symbol with its methods as members.
func pyClassSymbol(node *sitter.Node, source []byte, opts distiller.Options) distiller.ExportedSymbol {
	name := nodeText(node.ChildByFieldName("name"), source)

	sig := "class " + name
	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		sig += nodeText(supers, source)
	}

	sym := distiller.ExportedSymbol{
		Name:       name,
		Kind:       distiller.KindClass,
		Signature:  collapseWhitespace(sig),
		Visibility: pyVisibility(name),
		Exported:   !strings.HasPrefix(name, "_"),
		Line:       nodeLine(node),
		Doc:        pyDocstring(node.ChildByFieldName("body"), source, opts),
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			child := body.NamedChild(uint(i))
			fn := child
			if child.Kind() == "decorated_definition" {
				fn = child.ChildByFieldName("definition")
			}
			if fn == nil || fn.Kind() != "function_definition" {
				continue
			}
			sym.Members = append(sym.Members, pyMethodMember(fn, child, source, opts))
		}
	}

	return sym
}

// pyMethodMember builds one method member, classifying property accessors
// by their decorators.
func pyMethodMember(fn, decorated *sitter.Node, source []byte, opts distiller.Options) distiller.Member {
	name := nodeText(fn.ChildByFieldName("name"), source)

	kind := distiller.MemberMethod
	static := false
	switch {
	case name == "__init__":
		kind = distiller.MemberConstructor
	case pyHasDecorator(decorated, source, "property"):
		kind = distiller.MemberGetter
	case pyHasDecorator(decorated, source, name+".setter"):
		kind = distiller.MemberSetter
	}
	if pyHasDecorator(decorated, source, "staticmethod") || pyHasDecorator(decorated, source, "classmethod") {
		static = true
	}

	return distiller.Member{
		Name:       name,
		Kind:       kind,
		Signature:  pyFunctionSignature(fn, source),
		Visibility: pyVisibility(name),
		Static:     static,
		Line:       nodeLine(fn),
		Doc:        pyDocstring(fn.ChildByFieldName("body"), source, opts),
	}
}

// pyFunctionSymbol builds a module-level function symbol.
func pyFunctionSymbol(node *sitter.Node, source []byte, className string, opts distiller.Options) distiller.ExportedSymbol {
	name := nodeText(node.ChildByFieldName("name"), source)
	return distiller.ExportedSymbol{
		Name:       name,
		Kind:       distiller.KindFunction,
		Signature:  pyFunctionSignature(node, source),
		Visibility: pyVisibility(name),
		Exported:   !strings.HasPrefix(name, "_"),
		Line:       nodeLine(node),
		Doc:        pyDocstring(node.ChildByFieldName("body"), source, opts),
	}
}

// pyFunctionSignature renders "def name(params) -> ret".
func pyFunctionSignature(node *sitter.Node, source []byte) string {
	name := nodeText(node.ChildByFieldName("name"), source)
	params := nodeText(node.ChildByFieldName("parameters"), source)
	if params == "" {
		params = "()"
	}
	sig := "def " + name + params
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		sig += " -> " + nodeText(ret, source)
	}
	return collapseWhitespace(sig)
}

// pyAssignmentSymbol turns a module-level assignment into a variable symbol.
func pyAssignmentSymbol(stmt *sitter.Node, source []byte) (distiller.ExportedSymbol, bool) {
	assign := findChildByType(stmt, "assignment")
	if assign == nil {
		return distiller.ExportedSymbol{}, false
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return distiller.ExportedSymbol{}, false
	}
	name := nodeText(left, source)

	sig := name
	if typeNode := assign.ChildByFieldName("type"); typeNode != nil {
		sig += ": " + nodeText(typeNode, source)
	}

	return distiller.ExportedSymbol{
		Name:       name,
		Kind:       distiller.KindVariable,
		Signature:  sig,
		Visibility: pyVisibility(name),
		Exported:   !strings.HasPrefix(name, "_"),
		Line:       nodeLine(stmt),
	}, true
}

// pyDocstring reads the docstring from the first statement of a body.
func pyDocstring(body *sitter.Node, source []byte, opts distiller.Options) string {
	if !opts.IncludeDocstrings || body == nil {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" {
		return ""
	}
	str := findChildByType(first, "string")
	if str == nil {
		return ""
	}
	text := nodeText(str, source)
	text = strings.Trim(text, `"'`)
	return strings.TrimSpace(text)
}

// pyHasDecorator checks the decorators of a decorated_definition.
func pyHasDecorator(decorated *sitter.Node, source []byte, want string) bool {
	if decorated == nil || decorated.Kind() != "decorated_definition" {
		return false
	}
	for _, dec := range findChildrenByType(decorated, "decorator") {
		text := strings.TrimPrefix(nodeText(dec, source), "@")
		if text == want || strings.HasPrefix(text, want+"(") {
			return true
		}
	}
	return false
}

// pyVisibility applies the underscore convention. Dunder names like
// __init__ stay public; they are protocol, not hidden state.
func pyVisibility(name string) distiller.Visibility {
	if strings.HasPrefix(name, "_") && !strings.HasSuffix(name, "__") {
		return distiller.VisibilityPrivate
	}
	return distiller.VisibilityPublic
}

// pyImportRecord reads one import statement.
func pyImportRecord(node *sitter.Node, source []byte) (distiller.ImportRecord, bool) {
	record := distiller.ImportRecord{Line: nodeLine(node)}

	if node.Kind() == "import_from_statement" {
		module := node.ChildByFieldName("module_name")
		if module == nil {
			return record, false
		}
		record.Module = nodeText(module, source)
		for _, name := range findChildrenByType(node, "dotted_name") {
			if text := nodeText(name, source); text != record.Module {
				record.Specifiers = append(record.Specifiers, text)
			}
		}
		return record, true
	}

	if name := findChildByType(node, "dotted_name"); name != nil {
		record.Module = nodeText(name, source)
		return record, true
	}
	if aliased := findChildByType(node, "aliased_import"); aliased != nil {
		if name := findChildByType(aliased, "dotted_name"); name != nil {
			record.Module = nodeText(name, source)
			return record, true
		}
	}
	return record, false
}
