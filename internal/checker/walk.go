package checker

import "github.com/astra-lang/astra/internal/ast"

// collectIdentifierNames walks every item's body (and type annotations)
// collecting every referenced bare name, used by the unused-import
// check (spec §4.E point 6, "Unused imports emit an analogous
// warning"). This is a light syntactic scan, not a typed resolution --
// good enough to tell whether an imported name is ever mentioned.
func collectIdentifierNames(mod *ast.Module, out map[string]bool) {
	for _, it := range mod.Items {
		switch d := it.(type) {
		case *ast.FunctionDef:
			walkBlock(d.Body, out)
			for _, e := range d.Requires {
				walkExpr(e, out)
			}
			for _, e := range d.Ensures {
				walkExpr(e, out)
			}
		case *ast.TraitImpl:
			for _, m := range d.Methods {
				walkBlock(m.Body, out)
			}
		case *ast.TestDef:
			walkBlock(d.Body, out)
			if d.Using != nil {
				for _, b := range d.Using.Bindings {
					walkExpr(b.Value, out)
				}
			}
		}
	}
}

func walkBlock(b *ast.Block, out map[string]bool) {
	if b == nil {
		return
	}
	for _, st := range b.Stmts {
		switch s := st.(type) {
		case *ast.LetStmt:
			walkExpr(s.Value, out)
		case *ast.ExprStmt:
			walkExpr(s.X, out)
		case *ast.AssignStmt:
			walkExpr(s.Target, out)
			walkExpr(s.Value, out)
		}
	}
}

func walkExpr(e ast.Expr, out map[string]bool) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Identifier:
		out[n.Name] = true
	case *ast.BinaryExpr:
		walkExpr(n.Left, out)
		walkExpr(n.Right, out)
	case *ast.UnaryExpr:
		walkExpr(n.X, out)
	case *ast.CallExpr:
		walkExpr(n.Callee, out)
		for _, a := range n.Args {
			walkExpr(a, out)
		}
	case *ast.MethodCallExpr:
		walkExpr(n.Receiver, out)
		for _, a := range n.Args {
			walkExpr(a, out)
		}
	case *ast.FieldAccessExpr:
		walkExpr(n.X, out)
	case *ast.IndexExpr:
		walkExpr(n.X, out)
		walkExpr(n.Index, out)
	case *ast.IfExpr:
		walkExpr(n.Cond, out)
		walkBlock(n.Then, out)
		walkExpr(n.Else, out)
	case *ast.MatchExpr:
		walkExpr(n.Subject, out)
		for _, arm := range n.Arms {
			walkExpr(arm.Guard, out)
			walkExpr(arm.Body, out)
		}
	case *ast.BlockExpr:
		walkBlock(n.Block, out)
	case *ast.LambdaExpr:
		walkExpr(n.Body, out)
	case *ast.ListLit:
		for _, el := range n.Elems {
			walkExpr(el, out)
		}
	case *ast.TupleLit:
		for _, el := range n.Elems {
			walkExpr(el, out)
		}
	case *ast.MapLit:
		for _, me := range n.Entries {
			walkExpr(me.Key, out)
			walkExpr(me.Value, out)
		}
	case *ast.SetLit:
		for _, el := range n.Elems {
			walkExpr(el, out)
		}
	case *ast.RangeExpr:
		walkExpr(n.From, out)
		walkExpr(n.To, out)
	case *ast.RecordLit:
		out[n.TypeName] = true
		for _, f := range n.Fields {
			walkExpr(f.Value, out)
		}
		walkExpr(n.Spread, out)
	case *ast.VariantLit:
		if n.Enum != "" {
			out[n.Enum] = true
		}
		for _, a := range n.Args {
			walkExpr(a, out)
		}
	case *ast.TryExpr:
		walkExpr(n.X, out)
	case *ast.ReturnExpr:
		walkExpr(n.Value, out)
	case *ast.WhileExpr:
		walkExpr(n.Cond, out)
		walkBlock(n.Body, out)
	case *ast.ForExpr:
		walkExpr(n.Iterable, out)
		walkBlock(n.Body, out)
	case *ast.PerformExpr:
		out[n.Effect] = true
		for _, a := range n.Args {
			walkExpr(a, out)
		}
	case *ast.InterpolatedText:
		for _, sub := range n.Exprs {
			walkExpr(sub, out)
		}
	}
}
