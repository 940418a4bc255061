package hcl

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var functions = map[string]function.Function{
	"abs":   stdlib.AbsoluteFunc,
	"ceil":  stdlib.CeilFunc,
	"floor": stdlib.FloorFunc,
	"max":   stdlib.MaxFunc,
	"min":   stdlib.MinFunc,
}

// evalContext evaluates all locals blocks and returns the context graph
// bodies are decoded with. Locals may refer to each other in any order.
func evalContext(blocks []*localsBlock) (*hcl.EvalContext, error) {
	pending := make(map[string]*hcl.Attribute)
	for _, b := range blocks {
		attrs, diags := b.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, diags
		}
		for name, attr := range attrs {
			if prev, dup := pending[name]; dup {
				return nil, fmt.Errorf("local %q is defined twice (%s and %s)", name, prev.Range, attr.Range)
			}
			pending[name] = attr
		}
	}

	values := make(map[string]cty.Value, len(pending))
	for len(pending) > 0 {
		// A pass only sees values resolved before it started.
		var ready []string
		for name, attr := range pending {
			if resolved(attr.Expr, values) {
				ready = append(ready, name)
			}
		}
		if len(ready) == 0 {
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			slices.Sort(names)
			return nil, fmt.Errorf("cannot evaluate locals %s: unknown or circular reference", strings.Join(names, ", "))
		}
		slices.Sort(ready)
		ctx := newEvalContext(values)
		for _, name := range ready {
			v, diags := pending[name].Expr.Value(ctx)
			if diags.HasErrors() {
				return nil, diags
			}
			values[name] = v
			delete(pending, name)
		}
	}
	return newEvalContext(values), nil
}

func newEvalContext(values map[string]cty.Value) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"local": cty.ObjectVal(values)},
		Functions: functions,
	}
}

// resolved reports whether every local referenced by expr already has a value.
func resolved(expr hcl.Expression, values map[string]cty.Value) bool {
	for _, tr := range expr.Variables() {
		if tr.RootName() != "local" || len(tr) < 2 {
			continue
		}
		if attr, ok := tr[1].(hcl.TraverseAttr); ok {
			if _, done := values[attr.Name]; !done {
				return false
			}
		}
	}
	return true
}
