package languages

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/apisurface/distill/internal/distiller"
)

// scanState is the line scanner's position in a declaration.
type scanState int

const (
	stateScanning scanState = iota
	stateHeader             // inside a declaration header, tracking paren depth
	stateBody               // inside a body, tracking brace depth or indent
)

// declKeyword maps a declaration keyword to the kind it introduces.
type declKeyword struct {
	keyword string
	kind    distiller.ExportKind
}

// lineScanConfig adapts the generic scanner to one language's surface
// syntax. The scanner never builds a real parse tree; it approximates
// declaration boundaries from keywords and depth counters.
type lineScanConfig struct {
	language string

	// keywords introduce a declaration when they appear first on a line
	// after any modifiers.
	keywords []declKeyword

	// modifiers may precede a declaration keyword ("export", "pub",
	// "static", "async"...). They also drive visibility inference.
	modifiers []string

	// exportModifiers mark a declaration as exported when present.
	exportModifiers []string

	// privatePrefix marks private declarations by name convention ("_").
	privatePrefix string

	// indentBody is set for offside-rule languages: a declaration header
	// ends at a trailing colon and the body is every deeper-indented line.
	indentBody bool

	// endBody is set for keyword-delimited languages (Ruby): a declaration
	// is emitted from its opening line and the body is skipped by balancing
	// block-opening keywords against "end".
	endBody bool

	// commentPrefix marks full-line comments to skip while scanning.
	commentPrefix string

	// importPrefixes mark import lines ("import ", "from ", "use ").
	importPrefixes []string
}

// lineScanner is the lowest-fidelity strategy: a state machine over raw
// lines used when no structured parser is available or the structured parse
// failed. It recovers top-level declaration names and signatures only.
type lineScanner struct {
	cfg lineScanConfig
}

func newLineScanner(cfg lineScanConfig) *lineScanner {
	return &lineScanner{cfg: cfg}
}

func (s *lineScanner) Name() string { return "line-scan" }

// Probe always succeeds: the scanner has no external dependencies, which is
// exactly why it terminates every chain.
func (s *lineScanner) Probe() error { return nil }

func (s *lineScanner) Extract(ctx context.Context, source []byte, path string, opts distiller.Options) (*distiller.ProcessResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &distiller.ProcessResult{Exports: []distiller.ExportedSymbol{}}
	lines := strings.Split(string(source), "\n")

	state := stateScanning
	var header strings.Builder
	var pending distiller.ExportedSymbol
	parenDepth := 0
	braceDepth := 0
	bodyIndent := 0
	endDepth := 0

	emit := func() {
		head := header.String()
		if idx := strings.IndexByte(head, '{'); idx != -1 {
			head = head[:idx]
		}
		pending.Signature = collapseWhitespace(strings.TrimSuffix(strings.TrimSuffix(
			strings.TrimSpace(head), ":"), ";"))
		if pending.Name != "" {
			result.Exports = append(result.Exports, pending)
		}
		pending = distiller.ExportedSymbol{}
		header.Reset()
		state = stateScanning
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		switch state {
		case stateScanning:
			if line == "" || s.isComment(line) {
				continue
			}
			if record, ok := s.parseImport(line, i+1); ok {
				result.Imports = append(result.Imports, record)
				continue
			}
			sym, ok := s.matchDeclaration(line, i+1)
			if !ok {
				continue
			}
			pending = sym
			header.WriteString(line)
			parenDepth = depthDelta(line, '(', ')')
			bodyIndent = indentOf(raw)

			if parenDepth > 0 {
				state = stateHeader
				continue
			}
			if s.cfg.endBody {
				endDepth = endBlockDelta(stripTrailingComment(line, s.cfg.commentPrefix))
				emit()
				if endDepth > 0 {
					state = stateBody
				}
				continue
			}
			braceDepth = depthDelta(line, '{', '}')
			switch {
			case s.cfg.indentBody && strings.HasSuffix(stripTrailingComment(line, s.cfg.commentPrefix), ":"):
				emit()
				state = stateBody // consume the indented body
			case braceDepth > 0:
				emit()
				state = stateBody
			case strings.HasSuffix(line, ";") || s.headerComplete(line):
				emit()
			default:
				state = stateHeader
			}

		case stateHeader:
			header.WriteString(" ")
			header.WriteString(line)
			parenDepth += depthDelta(line, '(', ')')
			if parenDepth > 0 {
				continue
			}
			if s.cfg.endBody {
				endDepth = endBlockDelta(stripTrailingComment(header.String(), s.cfg.commentPrefix))
				emit()
				if endDepth > 0 {
					state = stateBody
				}
				continue
			}
			if s.cfg.indentBody {
				if strings.HasSuffix(stripTrailingComment(line, s.cfg.commentPrefix), ":") {
					emit()
					state = stateBody
				}
				continue
			}
			braceDepth = depthDelta(line, '{', '}')
			if braceDepth > 0 {
				emit()
				state = stateBody
			} else if strings.HasSuffix(line, ";") {
				emit()
			}

		case stateBody:
			if s.cfg.endBody {
				if line == "" || s.isComment(line) {
					continue
				}
				endDepth += endBlockDelta(stripTrailingComment(line, s.cfg.commentPrefix))
				if endDepth <= 0 {
					state = stateScanning
				}
				continue
			}
			if s.cfg.indentBody {
				if line == "" {
					continue
				}
				if indentOf(raw) <= bodyIndent {
					// Dedent closed the body; rescan this line.
					state = stateScanning
					if record, ok := s.parseImport(line, i+1); ok {
						result.Imports = append(result.Imports, record)
						continue
					}
					if sym, ok := s.matchDeclaration(line, i+1); ok {
						pending = sym
						header.WriteString(line)
						parenDepth = depthDelta(line, '(', ')')
						bodyIndent = indentOf(raw)
						if parenDepth > 0 {
							state = stateHeader
						} else if strings.HasSuffix(stripTrailingComment(line, s.cfg.commentPrefix), ":") {
							emit()
							state = stateBody
						} else {
							emit()
						}
					}
				}
				continue
			}
			braceDepth += depthDelta(line, '{', '}')
			if braceDepth <= 0 {
				state = stateScanning
			}
		}
	}

	// An unterminated header at EOF still yields the declaration name.
	if state == stateHeader && pending.Name != "" {
		emit()
	}

	if len(result.Exports) == 0 && len(result.Imports) == 0 && len(lines) > 0 {
		result.Diagnostics = append(result.Diagnostics,
			fmt.Sprintf("line-scan found no declarations in %s source", s.cfg.language))
	}
	return result, nil
}

// matchDeclaration checks whether a line begins a top-level declaration and,
// if so, seeds the symbol with name, kind, and inferred visibility.
func (s *lineScanner) matchDeclaration(line string, lineNo int) (distiller.ExportedSymbol, bool) {
	rest := line
	exported := false
	visibility := distiller.VisibilityPublic

	// Strip leading modifiers, remembering what they said.
	for {
		word, tail := nextWord(rest)
		if word == "" {
			return distiller.ExportedSymbol{}, false
		}
		if s.isModifier(word) {
			if s.isExportModifier(word) {
				exported = true
			}
			switch word {
			case "private":
				visibility = distiller.VisibilityPrivate
			case "protected":
				visibility = distiller.VisibilityProtected
			case "internal":
				visibility = distiller.VisibilityInternal
			}
			rest = tail
			continue
		}
		break
	}

	word, tail := nextWord(rest)
	for _, kw := range s.cfg.keywords {
		if word != kw.keyword {
			continue
		}
		name, _ := nextWord(tail)
		name = trimIdentifier(name)
		if name == "" {
			return distiller.ExportedSymbol{}, false
		}
		if s.cfg.privatePrefix != "" && strings.HasPrefix(name, s.cfg.privatePrefix) &&
			visibility == distiller.VisibilityPublic {
			visibility = distiller.VisibilityPrivate
		}
		return distiller.ExportedSymbol{
			Name:       name,
			Kind:       kw.kind,
			Visibility: visibility,
			Line:       lineNo,
			Exported:   exported || visibility == distiller.VisibilityPublic,
		}, true
	}
	return distiller.ExportedSymbol{}, false
}

// parseImport recognizes a top-level import line.
func (s *lineScanner) parseImport(line string, lineNo int) (distiller.ImportRecord, bool) {
	for _, prefix := range s.cfg.importPrefixes {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		module := extractImportModule(line)
		if module == "" {
			return distiller.ImportRecord{}, false
		}
		return distiller.ImportRecord{Module: module, Line: lineNo}, true
	}
	return distiller.ImportRecord{}, false
}

func (s *lineScanner) headerComplete(line string) bool {
	// A declaration with neither parens, braces, colon, nor semicolon on its
	// line is complete when it carries an assignment (variables).
	return strings.Contains(line, "=")
}

func (s *lineScanner) isComment(line string) bool {
	if s.cfg.commentPrefix != "" && strings.HasPrefix(line, s.cfg.commentPrefix) {
		return true
	}
	return strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") || strings.HasPrefix(line, "*")
}

func (s *lineScanner) isModifier(word string) bool {
	for _, m := range s.cfg.modifiers {
		if word == m {
			return true
		}
	}
	return false
}

func (s *lineScanner) isExportModifier(word string) bool {
	for _, m := range s.cfg.exportModifiers {
		if word == m {
			return true
		}
	}
	return false
}

// depthDelta counts unbalanced open minus close characters on a line.
// String literals are not tracked; the approximation is acceptable for a
// last-resort strategy.
func depthDelta(line string, open, close byte) int {
	depth := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case open:
			depth++
		case close:
			depth--
		}
	}
	return depth
}

// endBlockDelta counts keyword-delimited block openers minus "end" closers
// on a line. Modifier conditionals ("return 1 if x") never open a block, so
// the conditional and loop keywords only count in leading position, and "do"
// is already covered by a leading loop keyword when one is present.
func endBlockDelta(line string) int {
	fields := strings.Fields(line)
	depth := 0
	for i, f := range fields {
		f = strings.TrimSuffix(f, ";")
		switch f {
		case "def", "class", "module", "case", "begin":
			depth++
		case "if", "unless", "while", "until", "for":
			if i == 0 {
				depth++
			}
		case "do":
			if !startsWithLoopKeyword(fields) {
				depth++
			}
		case "end":
			depth--
		}
	}
	return depth
}

func startsWithLoopKeyword(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "while", "until", "for":
		return true
	}
	return false
}

func indentOf(raw string) int {
	indent := 0
	for _, r := range raw {
		switch r {
		case ' ':
			indent++
		case '\t':
			indent += 4
		default:
			return indent
		}
	}
	return indent
}

// nextWord splits the leading identifier-ish token off a line.
func nextWord(line string) (word, rest string) {
	line = strings.TrimSpace(line)
	for i, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' {
			continue
		}
		return line[:i], line[i:]
	}
	return line, ""
}

// trimIdentifier strips trailing punctuation that rode along with a name
// ("Foo(", "Foo:", "Foo<T>").
func trimIdentifier(word string) string {
	end := len(word)
	for end > 0 {
		r := word[end-1]
		if r == '(' || r == ':' || r == '{' || r == '<' || r == '=' || r == ';' {
			end--
			continue
		}
		break
	}
	return word[:end]
}

// stripTrailingComment removes an end-of-line comment before suffix checks.
func stripTrailingComment(line, prefix string) string {
	if prefix == "" {
		return strings.TrimSpace(line)
	}
	if idx := strings.Index(line, prefix); idx != -1 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// extractImportModule pulls the module string out of an import line across
// the syntaxes the scanner supports.
func extractImportModule(line string) string {
	for _, quote := range []byte{'\'', '"'} {
		if start := strings.IndexByte(line, quote); start != -1 {
			if end := strings.IndexByte(line[start+1:], quote); end != -1 {
				return line[start+1 : start+1+end]
			}
		}
	}
	// "from x import y" / "import x" / "use x::y;"
	fields := strings.Fields(line)
	if len(fields) >= 2 {
		module := strings.TrimSuffix(fields[1], ";")
		return strings.TrimSuffix(module, ",")
	}
	return ""
}
