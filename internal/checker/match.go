package checker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/astra-lang/astra/internal/ast"
	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/types"
)

// inferMatch types a match expression and runs exhaustiveness analysis
// (spec §4.E point 5): classify the scrutinee by match-kind (Option,
// Result, Bool, Enum, or Other -- Other skips the check entirely, since
// records/tuples/lists have no finite constructor set to enumerate), walk
// the arms collecting which constructors a catch-all-free pattern covers,
// and report E2005 for anything left uncovered. When a catch-all arm
// satisfies exhaustiveness and one of the unguarded arms is a bare `_`,
// report W0005 suggesting the cases be listed explicitly.
func (c *Checker) inferMatch(n *ast.MatchExpr, s *scope, expected types.Type) types.Type {
	subjT := c.subst.Resolve(c.inferExpr(n.Subject, s, nil))

	var resultT types.Type
	covered := map[string]bool{}
	var catchAllArm *ast.MatchArm
	var wildcardArm *ast.MatchArm

	for i := range n.Arms {
		arm := &n.Arms[i]
		inner := newScope(s)
		c.bindPattern(arm.Pattern, subjT, inner)
		if arm.Guard != nil {
			gt := c.inferExpr(arm.Guard, inner, types.TBool{})
			if err := c.subst.Unify(gt, types.TBool{}); err != nil {
				c.addf(diagnostics.ErrTypeMismatch, arm.Guard.Span(),
					"match guard must be Bool, found %s", c.subst.Apply(gt))
			}
		}
		bodyT := c.inferExpr(arm.Body, inner, expected)
		c.popScope(inner)

		if i == 0 {
			resultT = bodyT
		} else if err := c.subst.Unify(resultT, bodyT); err != nil {
			c.addf(diagnostics.ErrTypeMismatch, arm.Body.Span(),
				"match arms disagree: %s vs %s", c.subst.Apply(resultT), c.subst.Apply(bodyT))
		}

		if arm.Guard != nil {
			continue // a guarded arm can fail at runtime, so it never covers its constructor
		}
		isCatchAll, ctors := patternCoverage(arm.Pattern)
		if isCatchAll && catchAllArm == nil {
			catchAllArm = arm
		}
		if _, ok := arm.Pattern.(*ast.WildcardPattern); ok && wildcardArm == nil {
			wildcardArm = arm
		}
		for _, ct := range ctors {
			covered[ct] = true
		}
	}

	if len(n.Arms) == 0 {
		return types.TUnit{}
	}

	kind, allCtors := matchConstructors(subjT, c)
	if kind != "" {
		if catchAllArm == nil {
			var missing []string
			for _, ct := range allCtors {
				if !covered[ct] {
					missing = append(missing, ct)
				}
			}
			if len(missing) > 0 {
				sort.Strings(missing)
				c.addf(diagnostics.ErrNonExhaustiveMatch, n.SpanV,
					"non-exhaustive match over %s: missing %s", kind, strings.Join(missing, ", "))
			}
		} else if wildcardArm != nil {
			c.addWithSuggestion(diagnostics.WarnWildcardMatch, wildcardArm.Pattern.Span(),
				"wildcard pattern covers the remaining "+kind+" cases",
				"list the remaining cases explicitly", nil)
		}
	}

	return c.subst.Apply(resultT)
}

// patternCoverage reports, for a single top-level (unguarded) arm
// pattern, whether it catches everything regardless of constructor, and
// which constructor tags (if any) it names. Structural patterns over
// non-discriminated types (records, tuples, lists) are treated as
// catch-all since match-kind classification skips them entirely.
func patternCoverage(p ast.Pattern) (catchAll bool, ctors []string) {
	switch pt := p.(type) {
	case *ast.WildcardPattern, *ast.IdentPattern:
		return true, nil
	case *ast.LitPattern:
		if b, ok := pt.Value.(bool); ok {
			return false, []string{fmt.Sprintf("%v", b)}
		}
		return false, nil
	case *ast.VariantPattern:
		return false, []string{pt.Variant}
	case *ast.OrPattern:
		var all []string
		for _, alt := range pt.Alternatives {
			ca, cs := patternCoverage(alt)
			if ca {
				return true, nil
			}
			all = append(all, cs...)
		}
		return false, all
	default:
		return true, nil
	}
}

// matchConstructors classifies a resolved scrutinee type into its
// match-kind and the full constructor set exhaustiveness must cover, or
// ("", nil) for a type with no finite constructor set.
func matchConstructors(t types.Type, c *Checker) (kind string, ctors []string) {
	switch rt := t.(type) {
	case types.TBool:
		return "Bool", []string{"true", "false"}
	case types.TOption:
		return "Option", []string{"Some", "None"}
	case types.TResult:
		return "Result", []string{"Ok", "Err"}
	case types.TNamed:
		if def, ok := c.enums[rt.Name]; ok {
			names := make([]string, len(def.Variants))
			for i, v := range def.Variants {
				names[i] = v.Name
			}
			return "Enum " + rt.Name, names
		}
	}
	return "", nil
}
