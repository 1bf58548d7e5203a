package checker

import (
	"strings"

	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/source"
	"github.com/astra-lang/astra/internal/types"
)

// varBinding is the original Rust implementation's VarBinding, reproduced
// per SPEC_FULL.md's "lint scope / shadow tracking detail": a name, its
// type, the span it was introduced at, and whether it has since been
// read.
type varBinding struct {
	name string
	typ  types.Type
	span source.Span
	used bool
}

// scope is one lexical nesting level, combining the type environment
// (for lookup during inference) with the lint bookkeeping of spec.md
// §4.E point 6: an ordered binding list (for unused-variable reporting
// in source order) plus a set for O(1) same-scope shadow detection.
type scope struct {
	parent  *scope
	vars    map[string]*varBinding
	order   []string
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]*varBinding)}
}

// lookup resolves name innermost-first, matching object.Environment.Get.
func (s *scope) lookup(name string) (*varBinding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.vars[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// markUsed flags the nearest binding named name as read, used when an
// Identifier expression is inferred.
func (s *scope) markUsed(name string) {
	if b, ok := s.lookup(name); ok {
		b.used = true
	}
}

// define binds name in this scope, emitting a SHADOWED_BINDING
// warning if name was already bound in this exact scope (not an
// outer one -- re-binding across scopes is ordinary shadowing and is
// allowed per spec.md §4.G).
func (c *Checker) define(s *scope, name string, typ types.Type, span source.Span) {
	if _, ok := s.vars[name]; ok && !strings.HasPrefix(name, "_") {
		c.warnf(diagnostics.WarnShadowedBinding, span, "%q shadows an earlier binding in this scope", name)
	}
	if _, ok := s.vars[name]; !ok {
		s.order = append(s.order, name)
	}
	s.vars[name] = &varBinding{name: name, typ: typ, span: span}
}

// popScope is called on scope exit: every still-unused, non-`_`-prefixed
// binding gets an UNUSED_VARIABLE warning suggesting the `_name` rename,
// per spec.md §4.E point 6.
func (c *Checker) popScope(s *scope) {
	for _, name := range s.order {
		b := s.vars[name]
		if b.used || strings.HasPrefix(name, "_") {
			continue
		}
		c.addWithSuggestion(diagnostics.WarnUnusedVariable, b.span,
			"unused variable "+"\""+name+"\"",
			"prefix with an underscore to silence this warning",
			&diagnostics.Edit{Span: b.span, Replacement: "_" + name})
	}
}
