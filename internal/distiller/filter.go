package distiller

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Filter applies the shared visibility and name-pattern rules. The same
// predicate runs regardless of which language module produced a symbol, so
// every module sees identical semantics.
type Filter struct {
	opts    Options
	include []glob.Glob
	exclude []glob.Glob
}

// NewFilter compiles the option globs once. Invalid patterns are a
// configuration error and fail fast.
func NewFilter(opts Options) (*Filter, error) {
	f := &Filter{opts: opts}

	for _, pattern := range opts.NameInclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		f.include = append(f.include, g)
	}
	for _, pattern := range opts.NameExclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		f.exclude = append(f.exclude, g)
	}

	return f, nil
}

// Include reports whether a symbol with the given name and visibility passes
// the filter. When it does not, the returned reason is the first failing
// rule: pattern rules are checked before visibility.
func (f *Filter) Include(name string, visibility Visibility) (bool, SkipReason) {
	if len(f.include) > 0 && !matchAny(f.include, name) {
		return false, SkipPattern
	}
	if matchAny(f.exclude, name) {
		return false, SkipPattern
	}
	if !f.allowsVisibility(visibility) {
		return false, SkipPrivate
	}
	return true, ""
}

// IncludeSymbol applies the filter to a top-level symbol.
func (f *Filter) IncludeSymbol(sym ExportedSymbol) (bool, SkipReason) {
	return f.Include(sym.Name, sym.Visibility)
}

// IncludeMember applies the filter to a class or interface member.
func (f *Filter) IncludeMember(m Member) (bool, SkipReason) {
	return f.Include(m.Name, m.Visibility)
}

// Apply filters a raw ProcessResult in place, moving every rejected symbol
// and member into the skipped list with its first failing reason.
func (f *Filter) Apply(result *ProcessResult) {
	if result == nil {
		return
	}

	kept := result.Exports[:0]
	for _, sym := range result.Exports {
		ok, reason := f.IncludeSymbol(sym)
		if !ok {
			result.Skipped = append(result.Skipped, SkippedItem{Name: sym.Name, Reason: reason})
			continue
		}

		if len(sym.Members) > 0 && f.opts.MaxDepth == 1 {
			// Depth 1 keeps only top-level declarations.
			for _, m := range sym.Members {
				result.Skipped = append(result.Skipped, SkippedItem{
					Name:   sym.Name + "." + m.Name,
					Reason: SkipDepth,
				})
			}
			sym.Members = nil
		}

		if len(sym.Members) > 0 {
			members := make([]Member, 0, len(sym.Members))
			for _, m := range sym.Members {
				mok, mreason := f.IncludeMember(m)
				if !mok {
					result.Skipped = append(result.Skipped, SkippedItem{
						Name:   sym.Name + "." + m.Name,
						Reason: mreason,
					})
					continue
				}
				if !f.opts.IncludeDocstrings {
					m.Doc = ""
				}
				members = append(members, m)
			}
			sym.Members = members
		}

		if !f.opts.IncludeDocstrings {
			sym.Doc = ""
		}
		kept = append(kept, sym)
	}
	result.Exports = kept
}

func (f *Filter) allowsVisibility(v Visibility) bool {
	switch v {
	case VisibilityPrivate:
		return f.opts.IncludePrivate
	case VisibilityProtected:
		return f.opts.IncludeProtected
	case VisibilityInternal:
		return f.opts.IncludeInternal
	default:
		return f.opts.IncludePublic
	}
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
